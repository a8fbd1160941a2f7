package llm

import "context"

// Provider is the common interface for all LLM providers
type Provider interface {
	// Generate sends a prompt and returns the complete response
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (openai, anthropic, ollama)
	Name() string
}

// GenerateRequest represents a request to an LLM.
// Model, system prompt, temperature and the output cap are fixed per
// request kind by the prompt catalog; callers do not tune them here.
type GenerateRequest struct {
	Model         string
	SystemPrompt  string
	UserPrompt    string
	MaxTokens     int
	Temperature   float64
	ContextWindow int // Max context window in tokens
}

// GenerateResponse represents a response from an LLM
type GenerateResponse struct {
	Content      string
	TokensInput  int
	TokensOutput int
	Model        string
	Provider     string
	Cached       bool // Whether this was served from cache
}
