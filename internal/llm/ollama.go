package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ollama/ollama/api"
)

// OllamaProvider implements the Provider interface for Ollama
type OllamaProvider struct {
	client *api.Client
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider() (*OllamaProvider, error) {
	// Initialize client from environment (OLLAMA_HOST)
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

// Generate sends a non-streaming request to Ollama
func (p *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	messages := []api.Message{
		{
			Role:    "system",
			Content: req.SystemPrompt,
		},
		{
			Role:    "user",
			Content: req.UserPrompt,
		},
	}

	// Use configured context window, default to 8192 if not set
	contextWindow := req.ContextWindow
	if contextWindow == 0 {
		contextWindow = 8192
	}

	stream := false
	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
			"num_ctx":     contextWindow,
		},
	}

	var fullContent string
	var promptTokens, completionTokens int

	respFunc := func(resp api.ChatResponse) error {
		fullContent += resp.Message.Content

		// Capture token counts from final response
		if resp.Done {
			promptTokens = resp.PromptEvalCount
			completionTokens = resp.EvalCount
		}
		return nil
	}

	err := p.client.Chat(ctx, chatReq, respFunc)
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			msg := statusErr.ErrorMessage
			if msg == "" {
				msg = statusErr.Status
			}
			return nil, &APIError{Status: statusErr.StatusCode, Message: msg}
		}
		return nil, fmt.Errorf("Ollama API error: %w", err)
	}

	if fullContent == "" {
		return nil, ErrNoContent
	}

	return &GenerateResponse{
		Content:      fullContent,
		TokensInput:  promptTokens,
		TokensOutput: completionTokens,
		Model:        req.Model,
		Provider:     "ollama",
		Cached:       false,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// GetModelContextWindow queries Ollama for the model's context window size
func (p *OllamaProvider) GetModelContextWindow(ctx context.Context, modelName string) (int, error) {
	showReq := &api.ShowRequest{
		Name: modelName,
	}

	showResp, err := p.client.Show(ctx, showReq)
	if err != nil {
		return 0, fmt.Errorf("failed to get model info: %w", err)
	}

	// Look for context_length in model_info
	modelInfo := showResp.ModelInfo
	for _, key := range []string{
		"mistral3.context_length",
		"llama.context_length",
		"context_length",
	} {
		if val, ok := modelInfo[key]; ok {
			if ctxLen, ok := val.(float64); ok {
				return int(ctxLen), nil
			}
		}
	}

	return 0, fmt.Errorf("context_length not found in model info")
}
