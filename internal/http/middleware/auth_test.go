package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"wagchain/internal/service"

	"github.com/gin-gonic/gin"
)

func jwtTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("middleware-test-secret")

	r := gin.New()
	r.GET("/me", JWT(), func(c *gin.Context) {
		id, _ := c.Get("user_id")
		c.JSON(200, gin.H{"user_id": id})
	})
	return r
}

func TestJWT_ValidToken(t *testing.T) {
	r := jwtTestRouter(t)

	token, err := service.GenerateJWT(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJWT_MissingHeader(t *testing.T) {
	r := jwtTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWT_NotBearer(t *testing.T) {
	r := jwtTestRouter(t)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWT_GarbageToken(t *testing.T) {
	r := jwtTestRouter(t)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
