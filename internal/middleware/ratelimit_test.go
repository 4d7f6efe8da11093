package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected under the limit", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("request over the limit allowed")
	}
	// Other keys have their own window.
	if !l.Allow("10.0.0.2") {
		t.Fatal("unrelated key rejected")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	l := NewRateLimiter(1, 10*time.Millisecond)
	if !l.Allow("k") {
		t.Fatal("first request rejected")
	}
	if l.Allow("k") {
		t.Fatal("second request allowed inside the window")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("k") {
		t.Fatal("request rejected after the window expired")
	}
}

func TestPruneKeepsSuffixAfterCutoff(t *testing.T) {
	now := time.Now()
	times := []time.Time{now.Add(-3 * time.Second), now.Add(-2 * time.Second), now.Add(-time.Second)}
	got := prune(times, now.Add(-1500*time.Millisecond))
	if len(got) != 1 || !got[0].Equal(times[2]) {
		t.Fatalf("prune kept %v", got)
	}
	if got := prune(times, now); len(got) != 0 {
		t.Fatalf("prune past all entries kept %v", got)
	}
	if got := prune(nil, now); len(got) != 0 {
		t.Fatalf("prune of empty slice = %v", got)
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(1, time.Minute)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	if code := get(); code != http.StatusOK {
		t.Fatalf("first request status = %d", code)
	}
	if code := get(); code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", code)
	}
}
