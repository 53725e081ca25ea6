package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/platform/config"
)

func TestBackoff_ExponentialIncrease(t *testing.T) {
	t.Parallel()

	cfg := config.RetryConfig{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}

	// Run multiple samples to account for jitter.
	const samples = 100
	for attempt := 1; attempt <= 3; attempt++ {
		baseDelay := float64(100*time.Millisecond) * math.Pow(2.0, float64(attempt-1))
		minExpected := time.Duration(baseDelay * (1 - JitterFraction))
		maxExpected := time.Duration(baseDelay * (1 + JitterFraction))

		for range samples {
			delay := Backoff(attempt, cfg)
			if delay < minExpected || delay > maxExpected {
				t.Errorf("attempt %d: delay %v not in [%v, %v]", attempt, delay, minExpected, maxExpected)
			}
		}
	}
}

func TestBackoff_CappedAtMaxInterval(t *testing.T) {
	t.Parallel()

	cfg := config.RetryConfig{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
		Multiplier:      2.0,
	}

	maxWithJitter := time.Duration(float64(cfg.MaxInterval) * (1 + JitterFraction))

	const samples = 100
	for range samples {
		delay := Backoff(10, cfg)
		if delay > maxWithJitter {
			t.Errorf("delay %v exceeds max interval with jitter %v", delay, maxWithJitter)
		}
	}
}

func TestBackoff_ZeroMaxIntervalIsUncapped(t *testing.T) {
	t.Parallel()

	cfg := config.RetryConfig{
		InitialInterval: time.Second,
		Multiplier:      2.0,
	}

	minExpected := time.Duration(float64(8*time.Second) * (1 - JitterFraction))
	if delay := Backoff(4, cfg); delay < minExpected {
		t.Errorf("delay = %v, want >= %v", delay, minExpected)
	}
}

func TestBackoff_UncappedHugeAttemptStaysPositive(t *testing.T) {
	t.Parallel()

	cfg := config.RetryConfig{
		InitialInterval: time.Second,
		Multiplier:      2.0,
	}

	for _, attempt := range []int{64, 2000} {
		delay := Backoff(attempt, cfg)
		if delay <= 0 {
			t.Errorf("Backoff(%d) = %v, want > 0", attempt, delay)
		}
		if maxWithJitter := time.Duration(maxDelay * (1 + JitterFraction)); delay > maxWithJitter {
			t.Errorf("Backoff(%d) = %v, want <= %v", attempt, delay, maxWithJitter)
		}
	}
}

func TestSecureRandFloat64_InRange(t *testing.T) {
	t.Parallel()

	const samples = 1000
	for range samples {
		v := secureRandFloat64()
		if v < 0 || v >= 1 {
			t.Errorf("secureRandFloat64() = %v, want [0, 1)", v)
		}
	}
}

func TestWait_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want %v", err, context.Canceled)
	}
	if err := Wait(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "wrapped deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), want: false},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
	}

	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("%s: IsRetryable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want bool
	}{
		{code: http.StatusOK, want: false},
		{code: http.StatusBadRequest, want: false},
		{code: http.StatusTooManyRequests, want: true},
		{code: http.StatusInternalServerError, want: true},
		{code: http.StatusServiceUnavailable, want: true},
	}

	for _, tt := range tests {
		if got := IsRetryableStatus(tt.code); got != tt.want {
			t.Errorf("IsRetryableStatus(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
