package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sumeshkk123/localink"
)

// OpenAIProvider translates single strings through a chat completion.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string        // Required; an empty key disables the provider upstream
	Model       string        // Model to use (default: "gpt-4o-mini")
	Temperature float32       // Temperature for generation (default: 0.3)
	BaseURL     string        // Custom base URL (optional)
	Timeout     time.Duration // Per-request timeout (default: 30s)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	config.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return "openai" }

// Translate translates one string using OpenAI.
func (p *OpenAIProvider) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(sourceLocale, targetLocale)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", classify(p.Name(), "chat completion failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", &localink.ProviderError{
			Provider:  p.Name(),
			Message:   "no response choices",
			Retryable: true,
		}
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", &localink.ProviderError{
			Provider:  p.Name(),
			Message:   "empty translation",
			Retryable: true,
		}
	}
	return out, nil
}

func (p *OpenAIProvider) buildSystemPrompt(sourceLocale, targetLocale string) string {
	source := localink.LanguageName(sourceLocale)
	target := localink.LanguageName(targetLocale)

	return fmt.Sprintf(`You are an expert native translator for marketing copy. Translate the user's message from %s into idiomatic %s.

- Rephrase so the result sounds natural to a native speaker; never translate idioms literally.
- Do NOT translate HTML tags, attributes, URLs, email addresses, or content inside backticks.
- Do NOT translate variables or placeholders (e.g. {{name}}, {count}, %%s).
- Preserve meaningful whitespace and use idiomatic punctuation for %s.
- Return ONLY the translated text, with no quotes, labels, or commentary.`, source, target, target)
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
