package llm

import (
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "google/gemini-2.5-flash"

	// Sent on every request so calls show up under the app on the
	// OpenRouter dashboard.
	openRouterReferer = "https://github.com/secandoalei/secando"
	openRouterTitle   = "Secando a Lei"
)

// OpenRouterProvider speaks the OpenAI chat API to OpenRouter. Model IDs
// carry the vendor prefix ("google/gemini-2.5-flash") and are passed
// through as given.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenRouterBaseURL
	}
	config.HTTPClient = &http.Client{Transport: attribution{base: http.DefaultTransport}}

	model := cfg.Model
	if model == "" {
		model = defaultOpenRouterModel
	}
	smart := cfg.SmartModel
	if smart == "" {
		smart = model
	}

	return &OpenRouterProvider{OpenAIProvider: &OpenAIProvider{
		client:     openai.NewClientWithConfig(config),
		model:      model,
		smartModel: smart,
		name:       "openrouter",
	}}, nil
}

// attribution adds the OpenRouter app headers.
type attribution struct {
	base http.RoundTripper
}

func (a attribution) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", openRouterReferer)
	r.Header.Set("X-Title", openRouterTitle)
	return a.base.RoundTrip(r)
}
