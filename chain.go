package localink

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Provider is the interface for text translation backends. Implementations
// receive locale codes already mapped to their own dialect.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error)
}

// TranslationCache stores translated strings keyed by CacheKey.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// LocaleMapper converts a canonical locale code to a provider's dialect.
type LocaleMapper func(code string) string

type chainEntry struct {
	provider  Provider
	mapLocale LocaleMapper
}

// Chain tries providers strictly in priority order, moving on only when the
// current provider's retry budget is exhausted. Unconfigured providers are
// never registered, so availability is immutable after construction.
type Chain struct {
	entries []chainEntry
	cache   TranslationCache
	retry   RetryConfig
	log     logrus.FieldLogger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithCache sets the translation string cache consulted before any provider.
func WithCache(cache TranslationCache) ChainOption {
	return func(c *Chain) {
		c.cache = cache
	}
}

// WithRetryConfig sets the per-provider retry policy.
func WithRetryConfig(cfg RetryConfig) ChainOption {
	return func(c *Chain) {
		c.retry = cfg
	}
}

// WithChainLogger sets the chain's logger.
func WithChainLogger(log logrus.FieldLogger) ChainOption {
	return func(c *Chain) {
		if log != nil {
			c.log = log
		}
	}
}

// NewChain creates an empty chain; register providers with Add in priority
// order.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{
		retry: DefaultRetryConfig(),
		log:   discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a provider with its locale dialect mapping. A nil mapper
// passes canonical codes through unchanged. Nil providers are ignored so
// callers can pass the result of a conditional constructor directly.
func (c *Chain) Add(p Provider, mapLocale LocaleMapper) *Chain {
	if p == nil {
		return c
	}
	if mapLocale == nil {
		mapLocale = NormalizeLocale
	}
	c.entries = append(c.entries, chainEntry{provider: p, mapLocale: mapLocale})
	return c
}

// Len returns the number of configured providers.
func (c *Chain) Len() int {
	return len(c.entries)
}

// Translate translates one leaf string. Degenerate input (same language or
// blank text) is returned unchanged without touching any provider. When every
// provider fails the original text is returned together with the last error,
// so a missing translation never blocks the caller; the error is reportable,
// not fatal.
func (c *Chain) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	if strings.TrimSpace(text) == "" || SameLanguage(sourceLocale, targetLocale) {
		return text, nil
	}

	var key string
	if c.cache != nil {
		key = CacheKey(HashText(text), NormalizeLocale(sourceLocale), NormalizeLocale(targetLocale))
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	var lastErr error
	for _, entry := range c.entries {
		src := entry.mapLocale(sourceLocale)
		dst := entry.mapLocale(targetLocale)

		result, err := WithRetry(ctx, c.retry, func() (string, error) {
			return entry.provider.Translate(ctx, text, src, dst)
		})
		if err == nil {
			if c.cache != nil {
				_ = c.cache.Set(key, result) // cache errors are not fatal
			}
			return result, nil
		}
		if ctx.Err() != nil {
			return text, ctx.Err()
		}

		lastErr = err
		c.log.WithFields(logrus.Fields{
			"provider": entry.provider.Name(),
			"target":   targetLocale,
		}).WithError(err).Warn("provider failed, trying next")
	}

	if lastErr == nil {
		lastErr = &ProviderError{Provider: "chain", Message: "no providers configured"}
	}
	return text, lastErr
}

// discardLogger returns a logger that drops everything, keeping library use
// quiet unless a logger is injected.
func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
