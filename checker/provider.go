package checker

import (
	"fmt"
	"maps"
	"slices"
)

// Providers 提供商名称到 OpenAI 兼容 base URL 的只读映射。
type Providers struct {
	baseURLs map[string]string
}

// NewProviders copies baseURLs so later changes to the caller's map are not observed.
func NewProviders(baseURLs map[string]string) Providers {
	return Providers{baseURLs: maps.Clone(baseURLs)}
}

// Names returns the configured provider names in sorted order.
func (p Providers) Names() []string {
	return slices.Sorted(maps.Keys(p.baseURLs))
}

// BaseURL reports the base URL registered for provider.
func (p Providers) BaseURL(provider string) (string, bool) {
	u, ok := p.baseURLs[provider]
	return u, ok
}

// Client 为 provider 创建客户端，关闭 SDK 重试。
func (p Providers) Client(provider, apiKey string) (LLMClient, error) {
	baseURL, ok := p.baseURLs[provider]
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrConfiguration, provider)
	}
	return NewOpenAILLMFromConfig(&LLMSettings{
		Provider:   provider,
		APIKey:     apiKey,
		BaseURL:    baseURL,
		MaxRetries: 0,
	})
}
