package localink

import "testing"

func TestHashText(t *testing.T) {
	h1 := HashText("Fast Setup")
	h2 := HashText("Fast Setup")
	if h1 != h2 {
		t.Error("Hash must be deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(h1))
	}
	if HashText("Fast Setup") != HashText("  Fast Setup  ") {
		t.Error("Surrounding whitespace must not change the hash")
	}
	if HashText("Fast Setup") == HashText("Slow Setup") {
		t.Error("Different texts must hash differently")
	}
}

func TestCacheKey(t *testing.T) {
	h := HashText("Hello")
	es := CacheKey(h, "en", "es")
	fr := CacheKey(h, "en", "fr")
	if es == fr {
		t.Error("Keys for different target locales must differ")
	}
	if CacheKey(h, "en", "es") != es {
		t.Error("Key must be deterministic")
	}
}
