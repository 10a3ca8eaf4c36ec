package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrRetriesExhausted is matched by errors returned once every attempt failed with a
// transient error. The last failure is wrapped as well.
var ErrRetriesExhausted = errors.New("retries exhausted")

// RetryPolicy bounds how transient model failures are retried. The delay doubles after every
// failed attempt, starting at InitialDelay and capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// DefaultRetryPolicy tries three times, waiting 1s and then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second}
}

// Delay is the wait after the given failed attempt, counting from 1.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.InitialDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

type exhaustedError struct {
	attempts int
	last     error
}

func (e *exhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.attempts, e.last)
}

func (e *exhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.last}
}

// Do calls fn until it succeeds, fails with an error that is not retryable, or runs out of
// attempts. Waiting between attempts stops early when ctx is done.
func (p RetryPolicy) Do(ctx context.Context, logger *zap.Logger, fn func(context.Context) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
		if attempt >= attempts {
			return &exhaustedError{attempts: attempt, last: err}
		}

		delay := p.Delay(attempt)
		logger.Warn("model call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("failed to wait for retry: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// Retryable reports whether err is an overloaded or rate limited upstream: HTTP 503 or 429,
// gRPC Unavailable or ResourceExhausted, or any error mentioning a rate limit.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && isRetryableCode(apiErr.Code) {
		return true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && isRetryableCode(apiErrPtr.Code) {
		return true
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable, codes.ResourceExhausted:
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

func isRetryableCode(code int) bool {
	return code == 503 || code == 429
}
