package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a translation provider for testing.
type MockProvider struct {
	mu           sync.Mutex
	Translations map[string]string // Map of source text to translation
	CallCount    int               // Number of times Translate was called
	LastText     string            // Last text received
	LastSource   string            // Last source locale received
	LastTarget   string            // Last target locale received
	// Errs is consumed one per call before any translation is returned;
	// nil entries mean success.
	Errs []error
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Fast Setup":  "Configuración rápida",
			"Hello":       "Hola",
			"Hello World": "Hola Mundo",
		},
	}
}

// Name implements Provider.
func (m *MockProvider) Name() string { return "mock" }

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastText = text
	m.LastSource = sourceLocale
	m.LastTarget = targetLocale

	if len(m.Errs) > 0 {
		err := m.Errs[0]
		m.Errs = m.Errs[1:]
		if err != nil {
			return "", err
		}
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	// Bracketed text for unknown translations keeps tests deterministic.
	return fmt.Sprintf("[%s:%s]", targetLocale, text), nil
}

// Reset resets the call count and recorded request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastText = ""
	m.LastSource = ""
	m.LastTarget = ""
	m.Errs = nil
}

// Calls returns the current call count.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
