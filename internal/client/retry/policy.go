// Package retry decides whether a failed read is retried and how long to
// wait before the next attempt.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/blogsync/internal/common"
	goretry "github.com/sethvargo/go-retry"
)

// Kind classifies a failure for retry purposes.
type Kind int

const (
	KindNone Kind = iota
	KindNetwork
	KindServer
	KindClient
	KindDecode
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindDecode:
		return "decode"
	case KindCanceled:
		return "canceled"
	}
	return "unknown"
}

// Retryable reports whether failures of this kind are worth another attempt.
func (k Kind) Retryable() bool {
	return k == KindNetwork || k == KindServer
}

// Classify maps an error returned by the API client to its Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, common.ErrNetwork),
		errors.Is(err, common.ErrStaleResponseDiscarded):
		return KindNetwork
	case errors.Is(err, common.ErrServer):
		return KindServer
	case errors.Is(err, common.ErrClient):
		return KindClient
	case errors.Is(err, common.ErrDecode):
		return KindDecode
	}
	return KindClient
}

// Policy is an exponential backoff policy. MaxAttempts counts every attempt,
// the first one included.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy returns three attempts with a 1s base delay capped at 30s.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
}

// ShouldRetry reports whether another attempt follows the failed attempt with
// the given zero-based index.
func (p Policy) ShouldRetry(attempt int, kind Kind) bool {
	if !kind.Retryable() || attempt < 0 {
		return false
	}
	return attempt+1 < p.MaxAttempts
}

// Delay returns the wait before the attempt following attempt, i.e.
// min(BaseDelay * 2^attempt, MaxDelay). A non-positive MaxDelay falls back
// to the default cap.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	limit := p.MaxDelay
	if limit <= 0 {
		limit = DefaultPolicy().MaxDelay
	}
	d := p.BaseDelay
	if d <= 0 {
		return 0
	}
	for i := 0; i < attempt && d < limit; i++ {
		d *= 2
	}
	return min(d, limit)
}

// Backoff adapts the policy to go-retry. last reports the kind of the most
// recent failure; onRetry, if set, is called with the zero-based index of the
// failed attempt and the wait before the next one.
func (p Policy) Backoff(last func() Kind, onRetry func(attempt int, wait time.Duration)) goretry.Backoff {
	attempt := 0
	return goretry.BackoffFunc(func() (time.Duration, bool) {
		if !p.ShouldRetry(attempt, last()) {
			return 0, true
		}
		wait := p.Delay(attempt)
		if onRetry != nil {
			onRetry(attempt, wait)
		}
		attempt++
		return wait, false
	})
}

// Do runs fn until it succeeds, fails with a non-retryable error or the
// attempts run out. onRetry, if set, is called before each wait.
// The last error from fn is returned as is.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, onRetry func(attempt int, err error, wait time.Duration)) error {
	var (
		lastErr error
		kind    Kind
	)

	backoff := p.Backoff(func() Kind { return kind }, func(attempt int, wait time.Duration) {
		if onRetry != nil {
			onRetry(attempt, lastErr, wait)
		}
	})

	err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
		lastErr = fn(ctx)
		kind = Classify(lastErr)
		if lastErr != nil && kind.Retryable() {
			return goretry.RetryableError(lastErr)
		}
		return lastErr
	})
	if err == nil {
		return nil
	}
	if lastErr != nil && errors.Is(err, lastErr) {
		return lastErr
	}
	return err
}
