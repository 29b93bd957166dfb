package checker

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// Any OpenAI-compatible provider works by pointing BaseURL at it.
type OpenAILLM struct {
	Provider string
	Opts     []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: llm settings are nil", ErrConfiguration)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key missing for provider %q", ErrConfiguration, cfg.Provider)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{Provider: cfg.Provider, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if prompt.Model == "" {
		return "", fmt.Errorf("%w: model is required", ErrConfiguration)
	}
	client := openai.NewClient(o.Opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(prompt.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %s returned status %d: %w", ErrUpstreamCall, o.Provider, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrUpstreamCall, o.Provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s returned empty choices", ErrUpstreamFormat, o.Provider)
	}
	return resp.Choices[0].Message.Content, nil
}
