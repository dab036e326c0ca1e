package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow("ip:10.0.0.1") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if rl.Allow("ip:10.0.0.1") {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentCallers(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		rl.Allow("sub:a")
	}
	if rl.Allow("sub:a") {
		t.Error("Caller a should be rate limited")
	}

	for i := 0; i < 3; i++ {
		if !rl.Allow("sub:b") {
			t.Errorf("Caller b request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_GetStateUnknownCaller(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 4)
	defer rl.Stop()

	remaining, _ := rl.GetState("ip:unknown")
	if remaining != 4 {
		t.Errorf("Expected full burst for unknown caller, got %d", remaining)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(1, 2)
	defer rl.Stop()

	handler := RateLimitMiddleware(rl)(func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := handler(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		codes = append(codes, rec.Code)

		if rec.Header().Get("X-RateLimit-Limit") != "1" {
			t.Errorf("Expected X-RateLimit-Limit 1, got %q", rec.Header().Get("X-RateLimit-Limit"))
		}
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
			t.Error("Expected Retry-After header on limited response")
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected 200, 200, 429, got %v", codes)
	}
}

func TestRateLimitMiddleware_KeysBySubject(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(1, 1)
	defer rl.Stop()

	handler := RateLimitMiddleware(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, subject := range []string{"user-a", "user-b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		req = req.WithContext(context.WithValue(req.Context(), SubjectKey, subject))
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Expected %s to get its own bucket, got %d", subject, rec.Code)
		}
	}
}
