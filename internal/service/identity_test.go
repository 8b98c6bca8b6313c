package service

import (
	"strings"
	"testing"
)

func TestGenerateReferralCode_Format(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateReferralCode()
		if len(code) != 6 {
			t.Fatalf("expected 6-char code, got %q", code)
		}
		for _, r := range code {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("unexpected character %q in code %q", r, code)
			}
		}
		seen[code] = true
	}

	// 200 draws from a 36^6 space colliding down to a handful would mean the
	// generator is broken
	if len(seen) < 190 {
		t.Fatalf("too many duplicate codes: %d unique of 200", len(seen))
	}
}

func TestGenerateReferralCode_Uniform(t *testing.T) {
	// 256 % 36 != 0, so a plain modulo mapping would overweight the first
	// four characters by 1/4. Over 120000 draws each character expects
	// ~3333 hits (sd ~57); a biased character would sit near 3750.
	counts := make(map[rune]int)
	for i := 0; i < 20000; i++ {
		for _, r := range GenerateReferralCode() {
			counts[r]++
		}
	}

	for r, n := range counts {
		if n > 3550 {
			t.Fatalf("character %q overrepresented: %d draws", r, n)
		}
	}
}
