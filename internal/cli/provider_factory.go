package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/studygen/studygen/internal/config"
	"github.com/studygen/studygen/internal/llm"
)

// ProviderConfig holds the provider and its context window
type ProviderConfig struct {
	Provider      llm.Provider
	ContextWindow int
}

// CreateProvider initializes a provider based on the profile configuration.
// A missing API key is a configuration error worth reporting, but not a
// fatal one: the provider is built anyway and the credential failure
// surfaces on the first remote call.
func CreateProvider(ctx context.Context, cfg *config.Config, profile *config.Profile, verbose bool) (*ProviderConfig, error) {
	var provider llm.Provider
	contextWindow := profile.GetContextWindow()

	switch profile.Provider {
	case "openai":
		apiKey := cfg.GetAPIKey("openai")
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "configuration error: OPENAI_API_KEY not set; requests will fail until it is")
		}
		provider = llm.NewOpenAIProvider(apiKey)

	case "anthropic":
		apiKey := cfg.GetAPIKey("anthropic")
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "configuration error: ANTHROPIC_API_KEY not set; requests will fail until it is")
		}
		provider = llm.NewAnthropicProvider(apiKey)

	case "ollama":
		ollamaProvider, err := llm.NewOllamaProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama provider: %w", err)
		}
		provider = ollamaProvider

		// Auto-detect context window from Ollama if not configured
		if profile.ContextWindow == 0 {
			if ctxWindow, err := ollamaProvider.GetModelContextWindow(ctx, profile.Model); err == nil {
				// Models may advertise larger windows than Ollama can handle
				const maxPracticalContext = 8192
				if ctxWindow > maxPracticalContext {
					ctxWindow = maxPracticalContext
				}
				contextWindow = ctxWindow
				if verbose {
					fmt.Printf("Auto-detected context window: %d tokens\n", contextWindow)
				}
			}
		}

	default:
		return nil, fmt.Errorf("unsupported provider: %s", profile.Provider)
	}

	return &ProviderConfig{
		Provider:      provider,
		ContextWindow: contextWindow,
	}, nil
}
