package content

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/studygen/studygen/internal/cache"
	"github.com/studygen/studygen/internal/fetch"
	"github.com/studygen/studygen/internal/llm"
	"github.com/studygen/studygen/internal/prompt"
)

// Result is a completed generation handed back to the caller.
type Result struct {
	Text         string
	Kind         prompt.Kind
	Topic        string
	Model        string
	Provider     string
	TokensInput  int
	TokensOutput int
	Cached       bool
}

// Options fixes the model routing for a Generator.
type Options struct {
	Model         string
	ContextWindow int
}

// Generator is the public entry point for content generation. It owns one
// explicitly constructed cache for its lifetime (no hidden globals), a
// resilient fetcher around the provider, and the template catalog.
//
// Concurrent Generate calls for different keys proceed independently.
// Calls that share a key while one is in flight join that flight instead of
// issuing a second remote call; the cache then makes later calls free.
type Generator struct {
	cache   *cache.Cache
	fetcher *fetch.Fetcher
	catalog prompt.Catalog
	opts    Options

	flight singleflight.Group
}

// NewGenerator wires a Generator from its parts. The cache instance is
// owned by the Generator from here on.
func NewGenerator(c *cache.Cache, f *fetch.Fetcher, catalog prompt.Catalog, opts Options) *Generator {
	return &Generator{
		cache:   c,
		fetcher: f,
		catalog: catalog,
		opts:    opts,
	}
}

// Generate returns sanitized content for (topic, kind): from the cache when
// fresh, otherwise from one templated remote call. Failures come back as a
// single classified *Error; for the follow-up kind a malformed response is
// not a failure but an empty list.
func (g *Generator) Generate(ctx context.Context, topic string, kind prompt.Kind) (*Result, error) {
	return g.generate(ctx, topic, kind, false)
}

// Refresh behaves like Generate but skips the cache read, forcing a fresh
// remote call. The fresh result still replaces the cached one.
func (g *Generator) Refresh(ctx context.Context, topic string, kind prompt.Kind) (*Result, error) {
	return g.generate(ctx, topic, kind, true)
}

func (g *Generator) generate(ctx context.Context, topic string, kind prompt.Kind, skipCache bool) (*Result, error) {
	tmpl, ok := g.catalog.Get(kind)
	if !ok {
		return nil, Classify(fmt.Errorf("no template for request kind %q", kind))
	}

	key := cache.Key(topic, string(kind))
	if !skipCache {
		if value, found := g.cache.Get(key); found {
			return &Result{
				Text:     value,
				Kind:     kind,
				Topic:    topic,
				Model:    g.opts.Model,
				Provider: g.fetcher.Provider().Name(),
				Cached:   true,
			}, nil
		}
	}

	v, err, shared := g.flight.Do(key, func() (interface{}, error) {
		return g.fetchAndStore(ctx, key, topic, kind, tmpl, skipCache)
	})
	if err != nil {
		return nil, Classify(err)
	}

	result := v.(*Result)
	if shared {
		// Joined another caller's flight; this caller did not pay for it.
		copied := *result
		copied.Cached = true
		return &copied, nil
	}
	return result, nil
}

// fetchAndStore performs the miss path: render, fetch with retry, sanitize,
// cache. Exactly one goroutine per key runs here at a time. The cache is
// re-checked under the flight: a caller that lost the race between its miss
// and joining the flight must not trigger a second remote call.
func (g *Generator) fetchAndStore(ctx context.Context, key, topic string, kind prompt.Kind, tmpl prompt.Template, skipCache bool) (*Result, error) {
	if !skipCache {
		if value, found := g.cache.Get(key); found {
			return &Result{
				Text:     value,
				Kind:     kind,
				Topic:    topic,
				Model:    g.opts.Model,
				Provider: g.fetcher.Provider().Name(),
				Cached:   true,
			}, nil
		}
	}

	req := llm.GenerateRequest{
		Model:         g.opts.Model,
		SystemPrompt:  tmpl.System,
		UserPrompt:    tmpl.Render(topic),
		MaxTokens:     tmpl.MaxTokens,
		Temperature:   tmpl.Temperature,
		ContextWindow: g.opts.ContextWindow,
	}

	resp, err := g.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	text := g.sanitize(kind, resp.Content)
	g.cache.Set(key, text)

	return &Result{
		Text:         text,
		Kind:         kind,
		Topic:        topic,
		Model:        resp.Model,
		Provider:     resp.Provider,
		TokensInput:  resp.TokensInput,
		TokensOutput: resp.TokensOutput,
		Cached:       false,
	}, nil
}

// sanitize post-processes raw model output for a kind. Cached values have
// already been through here, so hits skip it.
func (g *Generator) sanitize(kind prompt.Kind, raw string) string {
	if kind == prompt.KindFollowUp {
		return SanitizeFollowUps(raw)
	}
	return StripCodeFences(raw)
}

// CacheStats exposes the owned cache's counters for the session commands.
func (g *Generator) CacheStats() cache.Stats {
	return g.cache.GetStats()
}

// ClearCache drops every cached result and reports how many were held.
func (g *Generator) ClearCache() int {
	return g.cache.Clear()
}
