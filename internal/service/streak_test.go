package service

import (
	"testing"
	"time"
)

var testBonuses = StreakBonuses{Base: 10, Weekly: 50, Monthly: 200}

func atUTC(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", value, err)
	}
	return ts
}

func TestEvaluateStreak_SameDay(t *testing.T) {
	last := atUTC(t, "2026-03-10T08:00:00Z")
	now := atUTC(t, "2026-03-10T22:30:00Z")

	res := EvaluateStreak(last, now, 4, testBonuses)
	if res.Changed {
		t.Fatalf("same-day login must not change the streak, got %+v", res)
	}
	if res.Streak != 4 || res.Bonus != 0 {
		t.Fatalf("expected streak 4 bonus 0, got %+v", res)
	}
}

func TestEvaluateStreak_NextDayAdvances(t *testing.T) {
	last := atUTC(t, "2026-03-10T23:59:00Z")
	now := atUTC(t, "2026-03-11T00:01:00Z")

	res := EvaluateStreak(last, now, 4, testBonuses)
	if !res.Changed {
		t.Fatalf("crossing a UTC date boundary must advance the streak")
	}
	if res.Streak != 5 {
		t.Fatalf("expected streak 5, got %d", res.Streak)
	}
	if res.Bonus != 10 {
		t.Fatalf("expected base bonus 10, got %d", res.Bonus)
	}
}

func TestEvaluateStreak_Exactly24hSameDate(t *testing.T) {
	last := atUTC(t, "2026-03-10T00:30:00Z")
	now := last.Add(23 * time.Hour) // почти сутки, но дата в UTC та же

	res := EvaluateStreak(last, now, 2, testBonuses)
	if res.Changed {
		t.Fatalf("login on the same UTC date must be a no-op, got %+v", res)
	}
}

func TestEvaluateStreak_WeeklyBonus(t *testing.T) {
	last := atUTC(t, "2026-03-10T12:00:00Z")
	now := atUTC(t, "2026-03-11T12:00:00Z")

	res := EvaluateStreak(last, now, 6, testBonuses)
	if res.Streak != 7 {
		t.Fatalf("expected streak 7, got %d", res.Streak)
	}
	if res.Bonus != 60 { // base + weekly
		t.Fatalf("expected bonus 60 on day 7, got %d", res.Bonus)
	}
}

func TestEvaluateStreak_MonthlyBonus(t *testing.T) {
	last := atUTC(t, "2026-03-10T12:00:00Z")
	now := atUTC(t, "2026-03-11T12:00:00Z")

	res := EvaluateStreak(last, now, 29, testBonuses)
	if res.Streak != 30 {
		t.Fatalf("expected streak 30, got %d", res.Streak)
	}
	if res.Bonus != 210 { // base + monthly
		t.Fatalf("expected bonus 210 on day 30, got %d", res.Bonus)
	}
}

func TestEvaluateStreak_MissedDayResets(t *testing.T) {
	last := atUTC(t, "2026-03-10T12:00:00Z")
	now := atUTC(t, "2026-03-13T09:00:00Z")

	res := EvaluateStreak(last, now, 15, testBonuses)
	if !res.Changed {
		t.Fatalf("a gap must reset the streak")
	}
	if res.Streak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", res.Streak)
	}
	if res.Bonus != 10 {
		t.Fatalf("a restarted streak still earns the base bonus, got %d", res.Bonus)
	}
}

func TestEvaluateStreak_ZeroStreakTreatedAsOne(t *testing.T) {
	// accounts created before streak tracking carry streak 0
	last := atUTC(t, "2026-03-10T12:00:00Z")
	now := atUTC(t, "2026-03-11T12:00:00Z")

	res := EvaluateStreak(last, now, 0, testBonuses)
	if res.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", res.Streak)
	}
}

func TestEvaluateStreak_ClockSkewBackwards(t *testing.T) {
	last := atUTC(t, "2026-03-11T12:00:00Z")
	now := atUTC(t, "2026-03-10T12:00:00Z")

	res := EvaluateStreak(last, now, 3, testBonuses)
	if res.Changed {
		t.Fatalf("now before last_login must be a no-op, got %+v", res)
	}
}
