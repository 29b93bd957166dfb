package checker

import "context"

// LLMClient abstracts a chat-completion backend so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the base configuration handed to concrete implementations.
type LLMSettings struct {
	Provider   string
	APIKey     string
	BaseURL    string
	MaxRetries int
}
