package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(perMinute, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(perMinute, burst).RateLimit())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestRateLimitAllowsBurst(t *testing.T) {
	router := rateLimitedRouter(60, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Request %d rejected with status %d", i+1, w.Code)
		}
	}
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	router := rateLimitedRouter(60, 2)

	var lastCode int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		router.ServeHTTP(w, req)
		lastCode = w.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst exhausted, got %d", lastCode)
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	router := rateLimitedRouter(60, 1)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	router.ServeHTTP(first, req)

	// A different client has its own bucket
	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "198.51.100.9:1234"
	router.ServeHTTP(second, req)

	if second.Code != http.StatusOK {
		t.Errorf("Second client rejected with status %d", second.Code)
	}
}
