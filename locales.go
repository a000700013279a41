package localink

import "strings"

// Canonical locale codes are lowercase two-letter language codes ("en",
// "es"). Each provider speaks its own dialect of these; the chain maps the
// canonical code to the provider's dialect before calling it.

// DefaultPrimaryLocale is the source-of-truth locale for shared attributes.
const DefaultPrimaryLocale = "en"

// DefaultLocales is the supported locale set of the marketing site, in the
// order targets are processed.
var DefaultLocales = []string{"en", "es", "fr", "de", "it", "pt", "nl", "ar"}

// languageNames maps canonical codes to human-readable names for LLM prompts.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"ar": "Arabic",
	"ja": "Japanese",
	"zh": "Chinese (Simplified)",
	"ru": "Russian",
	"pl": "Polish",
	"tr": "Turkish",
	"ko": "Korean",
	"sv": "Swedish",
	"da": "Danish",
	"fi": "Finnish",
	"no": "Norwegian",
	"cs": "Czech",
	"el": "Greek",
	"he": "Hebrew",
	"hi": "Hindi",
	"uk": "Ukrainian",
}

// regionDefaults supplies the default region used when a provider requires a
// region-qualified code.
var regionDefaults = map[string]string{
	"en": "US",
	"es": "ES",
	"fr": "FR",
	"de": "DE",
	"it": "IT",
	"pt": "BR",
	"nl": "NL",
	"ar": "SA",
	"ja": "JP",
	"zh": "CN",
	"ru": "RU",
	"pl": "PL",
	"tr": "TR",
	"ko": "KR",
	"sv": "SE",
	"da": "DK",
	"fi": "FI",
	"no": "NO",
	"cs": "CZ",
	"el": "GR",
	"he": "IL",
	"hi": "IN",
	"uk": "UA",
}

// NormalizeLocale lowercases a locale code and strips any region qualifier
// ("es_ES", "pt-BR" -> "es", "pt").
func NormalizeLocale(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if idx := strings.IndexAny(code, "-_"); idx >= 0 {
		code = code[:idx]
	}
	return code
}

// LanguageName returns the human-readable name for a canonical locale code,
// falling back to the code itself.
func LanguageName(code string) string {
	if name, ok := languageNames[NormalizeLocale(code)]; ok {
		return name
	}
	return code
}

// DeepLLocale maps a canonical code to DeepL's dialect: uppercase two-letter,
// region-qualified for the languages DeepL splits by variant.
func DeepLLocale(code string) string {
	base := NormalizeLocale(code)
	switch base {
	case "en":
		return "EN-US"
	case "pt":
		return "PT-BR"
	}
	return strings.ToUpper(base)
}

// MyMemoryLocale maps a canonical code to MyMemory's dialect: RFC 3066
// region-qualified ("es-ES", "pt-BR").
func MyMemoryLocale(code string) string {
	base := NormalizeLocale(code)
	region, ok := regionDefaults[base]
	if !ok {
		return base
	}
	return base + "-" + region
}

// SameLanguage reports whether two locale codes denote the same base
// language regardless of region or casing.
func SameLanguage(a, b string) bool {
	return NormalizeLocale(a) == NormalizeLocale(b)
}

// supportedLocale reports membership of code in the configured locale list.
func supportedLocale(locales []string, code string) bool {
	for _, l := range locales {
		if SameLanguage(l, code) {
			return true
		}
	}
	return false
}
