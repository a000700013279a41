// Package provider implements the translation backends composed by the
// chain: OpenAI (paid, high quality), DeepL (paid, alternate) and MyMemory
// (free, best effort).
package provider

import (
	"strings"

	"github.com/sumeshkk123/localink"
)

// Provider is an alias to the engine interface for convenience.
type Provider = localink.Provider

// BuildChain assembles the provider chain from explicit configuration,
// strictly in priority order. A provider without credentials is silently
// absent from the chain; availability never changes after this call. Every
// provider is paced by the shared rate-limit budget.
func BuildChain(cfg localink.Config, opts ...localink.ChainOption) *localink.Chain {
	chain := localink.NewChain(append([]localink.ChainOption{
		localink.WithRetryConfig(cfg.Retry),
	}, opts...)...)

	if cfg.OpenAI.APIKey != "" {
		p := NewOpenAIProvider(OpenAIConfig{
			APIKey:      cfg.OpenAI.APIKey,
			Model:       cfg.OpenAI.Model,
			BaseURL:     cfg.OpenAI.BaseURL,
			Temperature: cfg.OpenAI.Temperature,
		})
		chain.Add(limited(p, cfg.RateLimit), localink.NormalizeLocale)
	}

	if cfg.DeepL.APIKey != "" {
		p := NewDeepLProvider(DeepLConfig{
			APIKey:   cfg.DeepL.APIKey,
			FreeTier: cfg.DeepL.FreeTier,
		})
		chain.Add(limited(p, cfg.RateLimit), localink.DeepLLocale)
	}

	if !cfg.MyMemory.Disabled {
		p := NewMyMemoryProvider(MyMemoryConfig{Email: cfg.MyMemory.Email})
		chain.Add(limited(p, cfg.RateLimit), localink.MyMemoryLocale)
	}

	return chain
}

func limited(p Provider, cfg localink.RateLimitConfig) Provider {
	if cfg.RequestsPerMinute <= 0 {
		return p
	}
	return localink.NewRateLimitedProvider(p, cfg)
}

// retryablePatterns marks transient failures worth retrying.
var retryablePatterns = []string{
	"timeout",
	"connection refused",
	"connection reset",
	"temporary",
	"503",
	"502",
	"500",
}

// rateLimitPatterns marks rate-limit rejections, which use the longer
// growing backoff.
var rateLimitPatterns = []string{
	"429",
	"rate limit",
	"too many requests",
	"quota",
}

func classify(provider string, message string, cause error) *localink.ProviderError {
	text := message
	if cause != nil {
		text += " " + cause.Error()
	}
	text = strings.ToLower(text)

	perr := &localink.ProviderError{Provider: provider, Message: message, Cause: cause}
	for _, pattern := range rateLimitPatterns {
		if strings.Contains(text, pattern) {
			perr.Retryable = true
			perr.RateLimited = true
			return perr
		}
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(text, pattern) {
			perr.Retryable = true
			return perr
		}
	}
	return perr
}
