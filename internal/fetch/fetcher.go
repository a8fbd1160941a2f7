package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/studygen/studygen/internal/llm"
)

// Config controls the retry policy for one outbound generation call.
type Config struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before the first retry
	MaxDelay    time.Duration // ceiling on any single delay
	Multiplier  float64       // backoff growth factor
}

// DefaultConfig returns the retry policy used in production.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    20 * time.Second,
		Multiplier:  2,
	}
}

// retryableStatuses are the transport-level failures worth another attempt:
// timeout, rate limiting, or a transient server-side problem.
var retryableStatuses = map[int]bool{
	408: true,
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Retryable reports whether a failure is worth retrying. Only tagged API
// errors with a status in the retryable set qualify; everything else,
// including ErrNoContent, aborts immediately.
func Retryable(err error) bool {
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return retryableStatuses[apiErr.Status]
}

// Fetcher wraps a provider's generation call with bounded
// exponential-backoff retry. Fetchers hold no per-call state: concurrent
// fetches, same key or not, proceed fully independently.
type Fetcher struct {
	provider llm.Provider
	cfg      Config

	// sleep waits between attempts. Replaced in tests to record delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Fetcher around the given provider.
func New(provider llm.Provider, cfg Config) *Fetcher {
	return &Fetcher{
		provider: provider,
		cfg:      cfg,
		sleep:    wait,
	}
}

// Provider returns the wrapped provider.
func (f *Fetcher) Provider() llm.Provider {
	return f.provider
}

// Fetch invokes the remote generation call, retrying transient failures up
// to the configured attempt ceiling. The delay before attempt N starts at
// BaseDelay and grows by Multiplier per retry, capped at MaxDelay.
// Non-retryable failures short-circuit without consuming attempts;
// exhausting all attempts surfaces the last failure.
func (f *Fetcher) Fetch(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	delay := f.cfg.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := f.sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay = time.Duration(float64(delay) * f.cfg.Multiplier)
			if delay > f.cfg.MaxDelay {
				delay = f.cfg.MaxDelay
			}
		}

		resp, err := f.provider.Generate(ctx, req)
		if err == nil {
			if resp == nil || resp.Content == "" {
				return nil, llm.ErrNoContent
			}
			return resp, nil
		}

		lastErr = err
		if !Retryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// wait blocks for d or until the context is done, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
