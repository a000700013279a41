package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sumeshkk123/localink"
)

const (
	deeplEndpoint     = "https://api.deepl.com/v2/translate"
	deeplFreeEndpoint = "https://api-free.deepl.com/v2/translate"
)

// DeepLProvider translates through the DeepL REST API. It expects DeepL's
// locale dialect (uppercase, region-qualified where DeepL splits variants).
type DeepLProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// DeepLConfig holds configuration for the DeepL provider.
type DeepLConfig struct {
	APIKey   string
	FreeTier bool          // Selects the api-free endpoint
	Endpoint string        // Override for tests
	Timeout  time.Duration // Per-request timeout (default: 15s)
}

// NewDeepLProvider creates a new DeepL provider.
func NewDeepLProvider(cfg DeepLConfig) *DeepLProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = deeplEndpoint
		if cfg.FreeTier {
			endpoint = deeplFreeEndpoint
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &DeepLProvider{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Provider.
func (p *DeepLProvider) Name() string { return "deepl" }

// Translate translates one string using DeepL.
func (p *DeepLProvider) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", targetLocale)
	// DeepL source_lang takes the bare language, not a variant.
	if idx := strings.Index(sourceLocale, "-"); idx > 0 {
		sourceLocale = sourceLocale[:idx]
	}
	form.Set("source_lang", sourceLocale)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &localink.ProviderError{Provider: p.Name(), Message: "building request", Cause: err}
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+p.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", classify(p.Name(), "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", classify(p.Name(), "reading response", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 456:
		// 456 is DeepL's quota-exceeded status.
		return "", &localink.ProviderError{
			Provider:    p.Name(),
			Message:     fmt.Sprintf("rate limited (status %d)", resp.StatusCode),
			Retryable:   true,
			RateLimited: true,
		}
	case resp.StatusCode >= 500:
		return "", &localink.ProviderError{
			Provider:  p.Name(),
			Message:   fmt.Sprintf("server error (status %d)", resp.StatusCode),
			Retryable: true,
		}
	case resp.StatusCode != http.StatusOK:
		// Auth and malformed-request errors are permanent.
		return "", &localink.ProviderError{
			Provider: p.Name(),
			Message:  fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var parsed struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &localink.ProviderError{Provider: p.Name(), Message: "invalid response", Cause: err}
	}
	if len(parsed.Translations) == 0 {
		return "", &localink.ProviderError{Provider: p.Name(), Message: "empty translations array", Retryable: true}
	}

	return parsed.Translations[0].Text, nil
}

// Verify DeepLProvider implements Provider
var _ Provider = (*DeepLProvider)(nil)
