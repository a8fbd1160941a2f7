package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studygen/studygen/internal/llm"
)

// fakeProvider fails with the scripted errors, then succeeds.
type fakeProvider struct {
	failures []error
	content  string
	calls    int
}

func (p *fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	p.calls++
	if p.calls <= len(p.failures) {
		return nil, p.failures[p.calls-1]
	}
	return &llm.GenerateResponse{Content: p.content, Provider: "fake"}, nil
}

func (p *fakeProvider) Name() string { return "fake" }

// newTestFetcher builds a fetcher whose sleeps are recorded, not taken.
func newTestFetcher(t *testing.T, provider llm.Provider, cfg Config) (*Fetcher, *[]time.Duration) {
	t.Helper()
	f := New(provider, cfg)
	delays := &[]time.Duration{}
	f.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
	return f, delays
}

func repeatErr(err error, n int) []error {
	out := make([]error, n)
	for i := range out {
		out[i] = err
	}
	return out
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", &llm.APIError{Status: 408}, true},
		{"rate limited", &llm.APIError{Status: 429}, true},
		{"server error", &llm.APIError{Status: 500}, true},
		{"bad gateway", &llm.APIError{Status: 502}, true},
		{"unavailable", &llm.APIError{Status: 503}, true},
		{"gateway timeout", &llm.APIError{Status: 504}, true},
		{"bad request", &llm.APIError{Status: 400}, false},
		{"unauthorized", &llm.APIError{Status: 401}, false},
		{"not found", &llm.APIError{Status: 404}, false},
		{"no status", &llm.APIError{Message: "boom"}, false},
		{"no content", llm.ErrNoContent, false},
		{"plain error", errors.New("dial tcp: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestFetchSucceedsFirstAttempt(t *testing.T) {
	provider := &fakeProvider{content: "hello"}
	f, delays := newTestFetcher(t, provider, DefaultConfig())

	resp, err := f.Fetch(context.Background(), llm.GenerateRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "hello" {
		t.Errorf("Content = %q, want %q", resp.Content, "hello")
	}
	if provider.calls != 1 {
		t.Errorf("calls = %d, want 1", provider.calls)
	}
	if len(*delays) != 0 {
		t.Errorf("recorded %d delays on a clean success, want 0", len(*delays))
	}
}

func TestFetchRetriesTransientThenSucceeds(t *testing.T) {
	provider := &fakeProvider{
		failures: repeatErr(&llm.APIError{Status: 503, Message: "overloaded"}, 2),
		content:  "eventually",
	}
	f, delays := newTestFetcher(t, provider, DefaultConfig())

	resp, err := f.Fetch(context.Background(), llm.GenerateRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "eventually" {
		t.Errorf("Content = %q, want %q", resp.Content, "eventually")
	}
	if provider.calls != 3 {
		t.Errorf("calls = %d, want 3", provider.calls)
	}
	if len(*delays) != 2 {
		t.Errorf("recorded %d delays, want 2", len(*delays))
	}
}

func TestFetchRetryCeiling(t *testing.T) {
	rateLimited := &llm.APIError{Status: 429, Message: "rate limit exceeded"}
	provider := &fakeProvider{failures: repeatErr(rateLimited, 10)}
	f, _ := newTestFetcher(t, provider, DefaultConfig())

	_, err := f.Fetch(context.Background(), llm.GenerateRequest{})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if provider.calls != 5 {
		t.Errorf("calls = %d, want exactly 5", provider.calls)
	}

	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 429 {
		t.Errorf("surfaced error = %v, want the last 429 failure", err)
	}
}

func TestFetchNonRetryableShortCircuits(t *testing.T) {
	provider := &fakeProvider{failures: repeatErr(&llm.APIError{Status: 400, Message: "bad request"}, 10)}
	f, delays := newTestFetcher(t, provider, DefaultConfig())

	_, err := f.Fetch(context.Background(), llm.GenerateRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if provider.calls != 1 {
		t.Errorf("calls = %d, want exactly 1", provider.calls)
	}
	if len(*delays) != 0 {
		t.Errorf("recorded %d delays, want 0 (no inter-attempt delay)", len(*delays))
	}
}

func TestFetchBackoffGrowth(t *testing.T) {
	cfg := DefaultConfig()
	provider := &fakeProvider{failures: repeatErr(&llm.APIError{Status: 500}, 10)}
	f, delays := newTestFetcher(t, provider, cfg)

	_, err := f.Fetch(context.Background(), llm.GenerateRequest{})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(*delays) != cfg.MaxAttempts-1 {
		t.Fatalf("recorded %d delays, want %d", len(*delays), cfg.MaxAttempts-1)
	}
	if (*delays)[0] != cfg.BaseDelay {
		t.Errorf("first delay = %s, want base delay %s", (*delays)[0], cfg.BaseDelay)
	}
	for i, d := range *delays {
		if d > cfg.MaxDelay {
			t.Errorf("delay %d = %s exceeds max %s", i, d, cfg.MaxDelay)
		}
		if i > 0 && d < (*delays)[i-1] {
			t.Errorf("delays not non-decreasing: %s then %s", (*delays)[i-1], d)
		}
	}
}

func TestFetchBackoffCappedAtMaxDelay(t *testing.T) {
	cfg := Config{MaxAttempts: 8, BaseDelay: 2 * time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}
	provider := &fakeProvider{failures: repeatErr(&llm.APIError{Status: 503}, 10)}
	f, delays := newTestFetcher(t, provider, cfg)

	_, _ = f.Fetch(context.Background(), llm.GenerateRequest{})

	for i, d := range *delays {
		if d > cfg.MaxDelay {
			t.Errorf("delay %d = %s exceeds cap %s", i, d, cfg.MaxDelay)
		}
	}
	last := (*delays)[len(*delays)-1]
	if last != cfg.MaxDelay {
		t.Errorf("final delay = %s, want cap %s", last, cfg.MaxDelay)
	}
}

func TestFetchEmptyContentIsNonRetryable(t *testing.T) {
	provider := &fakeProvider{content: ""}
	f, _ := newTestFetcher(t, provider, DefaultConfig())

	_, err := f.Fetch(context.Background(), llm.GenerateRequest{})
	if !errors.Is(err, llm.ErrNoContent) {
		t.Errorf("err = %v, want ErrNoContent", err)
	}
	if provider.calls != 1 {
		t.Errorf("calls = %d, want 1", provider.calls)
	}
}

func TestFetchStopsWhenContextCancelled(t *testing.T) {
	provider := &fakeProvider{failures: repeatErr(&llm.APIError{Status: 503}, 10)}
	f := New(provider, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, llm.GenerateRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if provider.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry after cancellation)", provider.calls)
	}
}
