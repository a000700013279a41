package localink

// OpenAICredentials configures the LLM provider. An empty APIKey disables it.
type OpenAICredentials struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
}

// DeepLCredentials configures the DeepL provider. An empty APIKey disables it.
type DeepLCredentials struct {
	APIKey string
	// FreeTier selects the api-free endpoint.
	FreeTier bool
}

// MyMemoryCredentials configures the free MyMemory provider. It needs no key;
// Email raises the daily quota when set. Disabled selects it out of the chain.
type MyMemoryCredentials struct {
	Email    string
	Disabled bool
}

// Config is the explicitly constructed engine configuration. Credentials are
// read once at startup by the caller; the engine never touches process-wide
// environment state, and provider availability is fixed at construction.
type Config struct {
	// PrimaryLocale is the source of truth for text and shared attributes.
	PrimaryLocale string
	// Locales is the supported set, in target processing order. It must
	// include PrimaryLocale.
	Locales []string

	OpenAI   OpenAICredentials
	DeepL    DeepLCredentials
	MyMemory MyMemoryCredentials

	Retry     RetryConfig
	RateLimit RateLimitConfig
	// FanOut bounds concurrent locale translations per item.
	FanOut int
}

// DefaultConfig returns a config with the site's locale set and default
// resilience budgets. Providers stay disabled until credentials are filled in.
func DefaultConfig() Config {
	return Config{
		PrimaryLocale: DefaultPrimaryLocale,
		Locales:       append([]string(nil), DefaultLocales...),
		Retry:         DefaultRetryConfig(),
		RateLimit:     RateLimitConfig{RequestsPerMinute: 60},
		FanOut:        4,
	}
}

// TargetLocales returns the configured locales minus the primary, preserving
// order.
func (c Config) TargetLocales() []string {
	out := make([]string, 0, len(c.Locales))
	for _, l := range c.Locales {
		if !SameLanguage(l, c.PrimaryLocale) {
			out = append(out, NormalizeLocale(l))
		}
	}
	return out
}
