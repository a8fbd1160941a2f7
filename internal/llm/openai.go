package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider implements the Provider interface for OpenAI
type OpenAIProvider struct {
	client openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider. An empty API key is
// accepted: the credential problem surfaces on the first call, not at
// construction.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client: client,
	}
}

// Generate sends a non-streaming request to OpenAI
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	chatReq := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		Model:       openai.ChatModel(req.Model),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}

	resp, err := p.client.Chat.Completions.New(ctx, chatReq)
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return nil, &APIError{Status: apierr.StatusCode, Message: apierr.Message}
		}
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrNoContent
	}

	return &GenerateResponse{
		Content:      resp.Choices[0].Message.Content,
		TokensInput:  int(resp.Usage.PromptTokens),
		TokensOutput: int(resp.Usage.CompletionTokens),
		Model:        req.Model,
		Provider:     "openai",
		Cached:       false,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}
