package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements the Provider interface for Anthropic
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic provider. As with OpenAI,
// a missing key is reported lazily by the first call.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client: client,
	}
}

// Generate sends a non-streaming request to Anthropic
func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	msgReq := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}

	resp, err := p.client.Messages.New(ctx, msgReq)
	if err != nil {
		var apierr *anthropic.Error
		if errors.As(err, &apierr) {
			return nil, &APIError{Status: apierr.StatusCode, Message: apierr.Error()}
		}
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	if content.Len() == 0 {
		return nil, ErrNoContent
	}

	return &GenerateResponse{
		Content:      content.String(),
		TokensInput:  int(resp.Usage.InputTokens),
		TokensOutput: int(resp.Usage.OutputTokens),
		Model:        req.Model,
		Provider:     "anthropic",
		Cached:       false,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}
