package content

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/studygen/studygen/internal/cache"
	"github.com/studygen/studygen/internal/fetch"
	"github.com/studygen/studygen/internal/llm"
	"github.com/studygen/studygen/internal/prompt"
)

// scriptedProvider returns canned content (or a scripted error) and records
// every request it saw.
type scriptedProvider struct {
	mu       sync.Mutex
	content  string
	err      error
	requests []llm.GenerateRequest
}

func (p *scriptedProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}
	return &llm.GenerateResponse{
		Content:      p.content,
		TokensInput:  10,
		TokensOutput: 50,
		Model:        req.Model,
		Provider:     "scripted",
	}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// fastRetry keeps retry tests quick; the policy shape is identical to
// production, only the delays shrink.
func fastRetry() fetch.Config {
	return fetch.Config{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		MaxDelay:    4 * time.Millisecond,
		Multiplier:  2,
	}
}

func newTestGenerator(t *testing.T, provider llm.Provider, ttl time.Duration) *Generator {
	t.Helper()
	return NewGenerator(
		cache.New(ttl),
		fetch.New(provider, fastRetry()),
		prompt.DefaultCatalog(),
		Options{Model: "test-model"},
	)
}

func TestGenerateRendersTopicIntoPrompt(t *testing.T) {
	provider := &scriptedProvider{content: "Voltage equals current times resistance."}
	g := newTestGenerator(t, provider, time.Hour)

	result, err := g.Generate(context.Background(), "Ohm's Law", prompt.KindExplainSimply)
	if err != nil {
		t.Fatal(err)
	}

	if result.Text != "Voltage equals current times resistance." {
		t.Errorf("Text = %q", result.Text)
	}
	if result.Cached {
		t.Error("first call should not be cached")
	}

	req := provider.requests[0]
	if !strings.Contains(req.UserPrompt, "Ohm's Law") {
		t.Errorf("rendered prompt %q does not contain the topic", req.UserPrompt)
	}
	if strings.Contains(req.UserPrompt, prompt.TopicPlaceholder) {
		t.Errorf("placeholder left in rendered prompt %q", req.UserPrompt)
	}
	if req.SystemPrompt == "" {
		t.Error("system prompt missing")
	}
	if req.Model != "test-model" {
		t.Errorf("Model = %q, want test-model", req.Model)
	}
}

func TestGenerateSecondCallHitsCache(t *testing.T) {
	provider := &scriptedProvider{content: "cached content"}
	g := newTestGenerator(t, provider, time.Hour)

	first, err := g.Generate(context.Background(), "Hash Tables", prompt.KindDeepDive)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Generate(context.Background(), "Hash Tables", prompt.KindDeepDive)
	if err != nil {
		t.Fatal(err)
	}

	if provider.calls() != 1 {
		t.Errorf("remote calls = %d, want 1", provider.calls())
	}
	if second.Text != first.Text {
		t.Errorf("cached text %q differs from original %q", second.Text, first.Text)
	}
	if !second.Cached {
		t.Error("second result should be marked cached")
	}
}

func TestGenerateDistinctKeysAreIndependent(t *testing.T) {
	provider := &scriptedProvider{content: "content"}
	g := newTestGenerator(t, provider, time.Hour)

	ctx := context.Background()
	if _, err := g.Generate(ctx, "Recursion", prompt.KindExplainSimply); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(ctx, "Recursion", prompt.KindSummary); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(ctx, "recursion", prompt.KindExplainSimply); err != nil {
		t.Fatal(err)
	}

	// Same topic with a different kind, and a case-variant topic, are three
	// different keys.
	if provider.calls() != 3 {
		t.Errorf("remote calls = %d, want 3", provider.calls())
	}
}

func TestGenerateExpiredEntryRefetches(t *testing.T) {
	provider := &scriptedProvider{content: "short-lived"}
	g := newTestGenerator(t, provider, 5*time.Millisecond)

	ctx := context.Background()
	if _, err := g.Generate(ctx, "TCP/IP", prompt.KindSummary); err != nil {
		t.Fatal(err)
	}

	time.Sleep(20 * time.Millisecond)

	result, err := g.Generate(ctx, "TCP/IP", prompt.KindSummary)
	if err != nil {
		t.Fatal(err)
	}
	if provider.calls() != 2 {
		t.Errorf("remote calls = %d, want 2 after TTL expiry", provider.calls())
	}
	if result.Cached {
		t.Error("post-expiry result should be fresh")
	}
}

func TestGenerateRefreshBypassesCache(t *testing.T) {
	provider := &scriptedProvider{content: "v1"}
	g := newTestGenerator(t, provider, time.Hour)

	ctx := context.Background()
	if _, err := g.Generate(ctx, "Derivatives", prompt.KindQuiz); err != nil {
		t.Fatal(err)
	}

	provider.mu.Lock()
	provider.content = "v2"
	provider.mu.Unlock()

	refreshed, err := g.Refresh(ctx, "Derivatives", prompt.KindQuiz)
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.Text != "v2" {
		t.Errorf("Refresh returned %q, want fresh %q", refreshed.Text, "v2")
	}

	// The refreshed value replaced the cached one
	after, err := g.Generate(ctx, "Derivatives", prompt.KindQuiz)
	if err != nil {
		t.Fatal(err)
	}
	if after.Text != "v2" || !after.Cached {
		t.Errorf("after = (%q, cached=%v), want cached v2", after.Text, after.Cached)
	}
}

func TestGenerateFollowUpSanitizesToJSON(t *testing.T) {
	provider := &scriptedProvider{
		content: "Here you go:\n" + `[{"id": "1", "question": "Why resistance?", "contentType": "explanation"}]`,
	}
	g := newTestGenerator(t, provider, time.Hour)

	result, err := g.Generate(context.Background(), "Ohm's Law", prompt.KindFollowUp)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.Text, "[") || !strings.HasSuffix(result.Text, "]") {
		t.Errorf("follow-up result is not a JSON array: %q", result.Text)
	}
	if !strings.Contains(result.Text, "Why resistance?") {
		t.Errorf("question lost in sanitize: %q", result.Text)
	}
}

func TestGenerateFollowUpMalformedDegradesToEmptyList(t *testing.T) {
	provider := &scriptedProvider{content: "sorry, I can't help"}
	g := newTestGenerator(t, provider, time.Hour)

	result, err := g.Generate(context.Background(), "Ohm's Law", prompt.KindFollowUp)
	if err != nil {
		t.Fatalf("malformed follow-up must not error, got %v", err)
	}
	if result.Text != "[]" {
		t.Errorf("Text = %q, want %q", result.Text, "[]")
	}
}

func TestGenerateClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"credential", &llm.APIError{Status: 401, Message: "invalid api key"}, ErrInvalidCredential},
		{"rate limit", &llm.APIError{Status: 429, Message: "slow down"}, ErrRateLimited},
		{"quota", &llm.APIError{Status: 403, Message: "quota exhausted"}, ErrQuotaExceeded},
		{"other", &llm.APIError{Status: 400, Message: "bad request"}, ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedProvider{err: tt.err}
			g := newTestGenerator(t, provider, time.Hour)

			_, err := g.Generate(context.Background(), "anything", prompt.KindExplainSimply)
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("err = %v, want *content.Error", err)
			}
			if cerr.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", cerr.Kind, tt.want)
			}
		})
	}
}

func TestGenerateUnknownKindFails(t *testing.T) {
	provider := &scriptedProvider{content: "unused"}
	g := newTestGenerator(t, provider, time.Hour)

	_, err := g.Generate(context.Background(), "topic", prompt.Kind("interpretive-dance"))
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if provider.calls() != 0 {
		t.Errorf("remote calls = %d, want 0", provider.calls())
	}
}

func TestGenerateConcurrentSameKeySingleFlight(t *testing.T) {
	provider := &scriptedProvider{content: "shared"}
	g := newTestGenerator(t, provider, time.Hour)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*Result, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = g.Generate(context.Background(), "Wave Interference", prompt.KindDeepDive)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatal(errs[i])
		}
		if results[i].Text != "shared" {
			t.Errorf("caller %d got %q", i, results[i].Text)
		}
	}

	// All concurrent callers share in-flight work; later callers hit the
	// cache. Either way there is exactly one remote call.
	if provider.calls() != 1 {
		t.Errorf("remote calls = %d, want 1", provider.calls())
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	provider := &scriptedProvider{content: "x"}
	g := newTestGenerator(t, provider, time.Hour)

	ctx := context.Background()
	if _, err := g.Generate(ctx, "a", prompt.KindSummary); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(ctx, "a", prompt.KindSummary); err != nil {
		t.Fatal(err)
	}

	stats := g.CacheStats()
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1", stats.Entries)
	}
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}

	if removed := g.ClearCache(); removed != 1 {
		t.Errorf("ClearCache() = %d, want 1", removed)
	}
}
