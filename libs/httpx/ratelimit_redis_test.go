package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisRateLimiter_EnforcesLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	rl := NewRedisRateLimiter(rdb, 2, time.Minute, "test")
	h := limitedHandler(rl.Middleware(discardLogger(), false))

	for i := 0; i < 2; i++ {
		if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: got %d", i+1, code)
		}
	}
	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: got %d, want 429", code)
	}
	if code := doRequest(h, "10.0.0.9:1234"); code != http.StatusOK {
		t.Fatalf("other client should be unaffected: got %d", code)
	}
}

func TestRedisRateLimiter_WindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	rl := NewRedisRateLimiter(rdb, 1, time.Minute, "test")
	h := limitedHandler(rl.Middleware(discardLogger(), false))

	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first request: got %d", code)
	}
	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d", code)
	}

	mr.FastForward(2 * time.Minute)
	if code := doRequest(h, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("request after expiry: got %d", code)
	}
}

func TestRedisRateLimiter_FailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close() // simulate an outage

	open := limitedHandler(NewRedisRateLimiter(rdb, 1, time.Minute, "test").Middleware(discardLogger(), true))
	if code := doRequest(open, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("fail-open should let traffic through: got %d", code)
	}

	closed := limitedHandler(NewRedisRateLimiter(rdb, 1, time.Minute, "test").Middleware(discardLogger(), false))
	if code := doRequest(closed, "10.0.0.1:1234"); code != http.StatusServiceUnavailable {
		t.Fatalf("fail-closed should reject: got %d", code)
	}
}
