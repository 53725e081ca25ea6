// Package retry computes exponential backoff delays and classifies
// transient failures for outbound delivery.
package retry

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/platform/config"
)

// JitterFraction is the maximum jitter as a fraction of the delay (±25%).
const JitterFraction = 0.25

// maxDelay bounds uncapped delays so that the jittered value still fits in
// a time.Duration.
const maxDelay = float64(time.Duration(1) << 62)

// Backoff returns the delay before the given attempt (1-indexed) using
// exponential backoff with ±25% jitter. A zero MaxInterval caps the delay
// only at maxDelay.
func Backoff(attempt int, cfg config.RetryConfig) time.Duration {
	delay := float64(cfg.InitialInterval) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if cfg.MaxInterval > 0 && delay > float64(cfg.MaxInterval) {
		delay = float64(cfg.MaxInterval)
	}
	delay = clampDelay(delay)

	jitter := delay * JitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)
	return time.Duration(clampDelay(delay))
}

func clampDelay(d float64) float64 {
	switch {
	case math.IsNaN(d) || d < 0:
		return 0
	case d > maxDelay:
		return maxDelay
	default:
		return d
	}
}

// Wait blocks for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryable reports whether a transport error is worth another attempt.
// Cancellation and deadline errors are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// IsRetryableStatus reports whether an HTTP status is transient: any 5xx and
// 429 Too Many Requests.
func IsRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}
