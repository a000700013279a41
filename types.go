// Package localink links per-locale content rows into logical families and
// synchronizes missing translations through a chain of translation providers.
package localink

import "time"

// FieldKind identifies the shape of a translatable field value.
type FieldKind string

const (
	// FieldText is a single translatable string (titles, short descriptions).
	FieldText FieldKind = "text"
	// FieldRichText is an HTML fragment; only its text nodes are translated.
	FieldRichText FieldKind = "richtext"
	// FieldLines is an ordered list of independent strings (bullet lists).
	FieldLines FieldKind = "lines"
	// FieldBullets is an ordered list of title/description sub-records.
	FieldBullets FieldKind = "bullets"
)

// Bullet is a structured sub-record with translatable leaf strings.
type Bullet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FieldValue is a tagged union over the field shapes a content row can carry.
// Exactly the member matching Kind is meaningful.
type FieldValue struct {
	Kind    FieldKind `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Lines   []string  `json:"lines,omitempty"`
	Bullets []Bullet  `json:"bullets,omitempty"`
}

// Text builds a plain string field value.
func Text(s string) FieldValue { return FieldValue{Kind: FieldText, Text: s} }

// RichText builds an HTML field value.
func RichText(s string) FieldValue { return FieldValue{Kind: FieldRichText, Text: s} }

// Lines builds an ordered string list field value.
func Lines(ss ...string) FieldValue { return FieldValue{Kind: FieldLines, Lines: ss} }

// Bullets builds an ordered bullet list field value.
func Bullets(bs ...Bullet) FieldValue { return FieldValue{Kind: FieldBullets, Bullets: bs} }

// Clone returns a deep copy so callers can mutate results independently.
func (v FieldValue) Clone() FieldValue {
	out := FieldValue{Kind: v.Kind, Text: v.Text}
	if v.Lines != nil {
		out.Lines = append([]string(nil), v.Lines...)
	}
	if v.Bullets != nil {
		out.Bullets = append([]Bullet(nil), v.Bullets...)
	}
	return out
}

// LocalizedItem is one row of one content type in one locale.
//
// ID is unique within (content type, locale) but not across locales for the
// same logical item; GroupKey is what links translations together. GroupKey
// may be empty on legacy rows, in which case the Linker derives one.
type LocalizedItem struct {
	ID          string                `json:"id"`
	ContentType string                `json:"content_type"`
	GroupKey    string                `json:"group_key"`
	Locale      string                `json:"locale"`
	Fields      map[string]FieldValue `json:"fields"`
	Shared      map[string]string     `json:"shared"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// SharedValue returns the named language-neutral attribute, or "".
func (it *LocalizedItem) SharedValue(name string) string {
	if it.Shared == nil {
		return ""
	}
	return it.Shared[name]
}

// CloneFields deep-copies the field map.
func (it *LocalizedItem) CloneFields() map[string]FieldValue {
	out := make(map[string]FieldValue, len(it.Fields))
	for name, v := range it.Fields {
		out[name] = v.Clone()
	}
	return out
}

// CloneShared copies the shared attribute map.
func (it *LocalizedItem) CloneShared() map[string]string {
	out := make(map[string]string, len(it.Shared))
	for name, v := range it.Shared {
		out[name] = v
	}
	return out
}

// Family is the set of rows representing one logical item, at most one per
// locale, keyed by the resolved group key.
type Family struct {
	GroupKey    string
	ContentType string
	Primary     *LocalizedItem
	// Members holds the best candidate per locale, primary locale included.
	Members map[string]*LocalizedItem
	// Unlinkable marks a family whose key fell back to the primary row's id.
	Unlinkable bool
	// CollisionRisk marks a family whose key matched more candidates than
	// locales; membership was disambiguated heuristically.
	CollisionRisk bool
}

// MemberFor returns the family member for a locale, or nil.
func (f *Family) MemberFor(locale string) *LocalizedItem {
	if f.Members == nil {
		return nil
	}
	return f.Members[locale]
}

// Options controls a synchronization run.
type Options struct {
	// Overwrite re-translates and updates locale rows that already exist.
	Overwrite bool
	// DryRun computes the report without persisting anything.
	DryRun bool
}
