package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sumeshkk123/localink"
)

const mymemoryEndpoint = "https://api.mymemory.translated.net/get"

// MyMemoryProvider is the free, best-effort backend. It expects MyMemory's
// region-qualified dialect ("es-ES"). No credential is required; a contact
// email raises the daily quota.
type MyMemoryProvider struct {
	email    string
	endpoint string
	client   *http.Client
}

// MyMemoryConfig holds configuration for the MyMemory provider.
type MyMemoryConfig struct {
	Email    string        // Optional; raises the free daily quota
	Endpoint string        // Override for tests
	Timeout  time.Duration // Per-request timeout (default: 15s)
}

// NewMyMemoryProvider creates a new MyMemory provider.
func NewMyMemoryProvider(cfg MyMemoryConfig) *MyMemoryProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = mymemoryEndpoint
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &MyMemoryProvider{
		email:    cfg.Email,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Provider.
func (p *MyMemoryProvider) Name() string { return "mymemory" }

// Translate translates one string using MyMemory.
func (p *MyMemoryProvider) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", sourceLocale+"|"+targetLocale)
	if p.email != "" {
		query.Set("de", p.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", &localink.ProviderError{Provider: p.Name(), Message: "building request", Cause: err}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", classify(p.Name(), "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", classify(p.Name(), "reading response", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &localink.ProviderError{
			Provider:    p.Name(),
			Message:     "rate limited (status 429)",
			Retryable:   true,
			RateLimited: true,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", classify(p.Name(), fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var parsed struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		// MyMemory emits responseStatus as both a number and a quoted
		// string depending on the code path.
		ResponseStatus  json.RawMessage `json:"responseStatus"`
		ResponseDetails string          `json:"responseDetails"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &localink.ProviderError{Provider: p.Name(), Message: "invalid response", Cause: err}
	}

	// MyMemory reports quota exhaustion inside a 200 body.
	if status := rawStatusCode(parsed.ResponseStatus); status != 0 && status != http.StatusOK {
		perr := classify(p.Name(), fmt.Sprintf("status %d: %s", status, parsed.ResponseDetails), nil)
		if status == http.StatusTooManyRequests || strings.Contains(strings.ToUpper(parsed.ResponseDetails), "FREE TRANSLATIONS") {
			perr.Retryable = true
			perr.RateLimited = true
		}
		return "", perr
	}

	out := strings.TrimSpace(parsed.ResponseData.TranslatedText)
	if out == "" {
		return "", &localink.ProviderError{Provider: p.Name(), Message: "empty translation", Retryable: true}
	}
	return out, nil
}

// rawStatusCode parses a responseStatus value that may be a bare number or a
// quoted string. Unparseable values read as 0.
func rawStatusCode(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 0
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return code
}

// Verify MyMemoryProvider implements Provider
var _ Provider = (*MyMemoryProvider)(nil)
