package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"trading-report/internal/trace"
)

// Prober checks that an OpenAI key can reach the chat completions API
type Prober struct {
	client openai.Client
}

// NewProber builds a client for apiKey. An empty baseURL uses the public API.
func NewProber(apiKey, baseURL string, opts ...option.RequestOption) *Prober {
	o := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		o = append(o, option.WithBaseURL(baseURL))
	}
	return &Prober{client: openai.NewClient(append(o, opts...)...)}
}

// Ping sends a one-token completion request to model
func (p *Prober) Ping(ctx context.Context, model string) error {
	ctx, span := trace.StartSpan(ctx, "openai-ping")
	defer span.End()

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model),
		Messages:  []openai.ChatCompletionMessageParamUnion{openai.UserMessage("Hello")},
		MaxTokens: openai.Int(1),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return fmt.Errorf("openai http %d: %s", apiErr.StatusCode, apiErr.Message)
		}
		return err
	}
	if len(resp.Choices) == 0 {
		return errors.New("no choices")
	}
	return nil
}
