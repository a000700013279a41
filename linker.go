package localink

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Linker answers, for a content type and a primary-locale item, which rows
// across locale partitions belong to the same logical item. It is strictly
// read-only; absence of data is never an error at this boundary.
type Linker struct {
	store ContentStore
	log   logrus.FieldLogger
}

// NewLinker creates a linker over the given store.
func NewLinker(store ContentStore, log logrus.FieldLogger) *Linker {
	if log == nil {
		log = discardLogger()
	}
	return &Linker{store: store, log: log}
}

// ResolveGroupKey applies the content type's linking rule in priority order:
// explicit stored key, then composite of shared attributes, then the row's
// own id. The second return reports the fallback case: the item cannot be
// linked and forms a singleton family.
func ResolveGroupKey(spec ContentTypeSpec, item *LocalizedItem) (string, bool) {
	if key := strings.TrimSpace(item.GroupKey); key != "" {
		return key, false
	}

	if len(spec.Rule.Composite) >= 2 {
		parts := make([]string, 0, len(spec.Rule.Composite))
		for _, attr := range spec.Rule.Composite {
			v := strings.TrimSpace(item.SharedValue(attr))
			if v == "" {
				parts = nil
				break
			}
			parts = append(parts, attr+"="+v)
		}
		if parts != nil {
			return strings.Join(parts, "|"), false
		}
	}

	return item.ID, true
}

// FamilyIndex holds one scan of a content type, grouped by resolved key, so
// family lookups during a sync run never hit the store per item.
type FamilyIndex struct {
	spec   ContentTypeSpec
	groups map[string][]*LocalizedItem
}

// Load scans the content type once and indexes every row by its resolved
// group key. A store failure yields an empty index, not an error: families
// then contain only their primary member.
func (l *Linker) Load(ctx context.Context, spec ContentTypeSpec) *FamilyIndex {
	idx := &FamilyIndex{spec: spec, groups: make(map[string][]*LocalizedItem)}

	rows, err := l.store.ListAll(ctx, spec.Name)
	if err != nil {
		l.log.WithField("content_type", spec.Name).WithError(err).
			Warn("family scan failed, treating as empty")
		return idx
	}

	for i := range rows {
		row := &rows[i]
		key, _ := ResolveGroupKey(spec, row)
		idx.groups[key] = append(idx.groups[key], row)
	}
	return idx
}

// MembersOf returns the indexed rows for a group key.
func (idx *FamilyIndex) MembersOf(groupKey string) []*LocalizedItem {
	return idx.groups[groupKey]
}

// FamilyFor assembles the family for a primary-locale item, selecting at
// most one member per supported locale. When a key matches several
// candidates for one locale (two unrelated items sharing a default icon,
// say), the candidate whose creation time is closest to the primary's wins;
// exact ties prefer the lexicographically smallest id. Such families carry
// CollisionRisk so the report never trusts the disambiguation silently.
func (idx *FamilyIndex) FamilyFor(primary *LocalizedItem, locales []string) *Family {
	key, unlinkable := ResolveGroupKey(idx.spec, primary)

	fam := &Family{
		GroupKey:    key,
		ContentType: idx.spec.Name,
		Primary:     primary,
		Members:     map[string]*LocalizedItem{primary.Locale: primary},
		Unlinkable:  unlinkable,
	}

	byLocale := make(map[string][]*LocalizedItem)
	for _, row := range idx.groups[key] {
		if row.ID == primary.ID && SameLanguage(row.Locale, primary.Locale) {
			continue
		}
		loc := NormalizeLocale(row.Locale)
		if !supportedLocale(locales, loc) {
			continue
		}
		byLocale[loc] = append(byLocale[loc], row)
	}

	for loc, candidates := range byLocale {
		if SameLanguage(loc, primary.Locale) {
			// Another primary-locale row resolved to the same key: two
			// unrelated items are sharing incidental fields.
			fam.CollisionRisk = true
			continue
		}
		if len(candidates) > 1 {
			fam.CollisionRisk = true
			sort.Slice(candidates, func(i, j int) bool {
				di := absDuration(candidates[i].CreatedAt.Sub(primary.CreatedAt))
				dj := absDuration(candidates[j].CreatedAt.Sub(primary.CreatedAt))
				if di != dj {
					return di < dj
				}
				return candidates[i].ID < candidates[j].ID
			})
		}
		fam.Members[loc] = withPrimaryShared(candidates[0], primary)
	}

	return fam
}

// withPrimaryShared returns a copy of row carrying the primary's shared
// attributes. Stored member copies can drift; the primary is authoritative.
func withPrimaryShared(row, primary *LocalizedItem) *LocalizedItem {
	out := *row
	out.Shared = primary.CloneShared()
	return &out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
