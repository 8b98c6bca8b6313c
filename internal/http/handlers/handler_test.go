package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := getUserID(c); ok {
		t.Fatalf("expected no user_id on a fresh context")
	}

	c.Set("user_id", int64(42))
	id, ok := getUserID(c)
	if !ok || id != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", id, ok)
	}

	// user_id may arrive as float64 after a JSON round trip
	c.Set("user_id", float64(7))
	id, ok = getUserID(c)
	if !ok || id != 7 {
		t.Fatalf("expected 7, got %d (ok=%v)", id, ok)
	}

	c.Set("user_id", "not-a-number")
	if _, ok := getUserID(c); ok {
		t.Fatalf("expected a non-numeric user_id to be rejected")
	}
}
