package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sumeshkk123/localink"
)

// MemoryStore is a thread-safe in-memory ContentStore used in tests and
// examples. It enforces the same (content type, group key, locale)
// uniqueness the SQLite index does.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]localink.LocalizedItem // keyed by contentType/locale/id
	// FailList simulates a listing outage; listings then return an error so
	// linker degradation paths can be exercised.
	FailList bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]localink.LocalizedItem)}
}

func memKey(contentType, locale, id string) string {
	return contentType + "/" + localink.NormalizeLocale(locale) + "/" + id
}

// Seed inserts rows directly, bypassing uniqueness checks. Test setup only.
func (s *MemoryStore) Seed(items ...localink.LocalizedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		item.Locale = localink.NormalizeLocale(item.Locale)
		s.items[memKey(item.ContentType, item.Locale, item.ID)] = item
	}
}

// Len returns the number of stored rows.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ListByLocale implements ContentStore.
func (s *MemoryStore) ListByLocale(ctx context.Context, contentType, locale string) ([]localink.LocalizedItem, error) {
	if err := s.listErr(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []localink.LocalizedItem
	for _, item := range s.items {
		if item.ContentType == contentType && localink.SameLanguage(item.Locale, locale) {
			out = append(out, item)
		}
	}
	sortItems(out)
	return out, nil
}

// ListAll implements ContentStore.
func (s *MemoryStore) ListAll(ctx context.Context, contentType string) ([]localink.LocalizedItem, error) {
	if err := s.listErr(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []localink.LocalizedItem
	for _, item := range s.items {
		if item.ContentType == contentType {
			out = append(out, item)
		}
	}
	sortItems(out)
	return out, nil
}

// FindByGroupAndLocale implements ContentStore.
func (s *MemoryStore) FindByGroupAndLocale(ctx context.Context, contentType, groupKey, locale string) (*localink.LocalizedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ContentType == contentType && item.GroupKey == groupKey && localink.SameLanguage(item.Locale, locale) {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

// Upsert implements ContentStore.
func (s *MemoryStore) Upsert(ctx context.Context, item localink.LocalizedItem) (localink.LocalizedItem, error) {
	if err := ctx.Err(); err != nil {
		return localink.LocalizedItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item.Locale = localink.NormalizeLocale(item.Locale)
	for _, other := range s.items {
		if other.ContentType == item.ContentType &&
			other.GroupKey == item.GroupKey &&
			localink.SameLanguage(other.Locale, item.Locale) &&
			other.ID != item.ID {
			return localink.LocalizedItem{}, localink.ErrConflict
		}
	}

	s.items[memKey(item.ContentType, item.Locale, item.ID)] = item
	return item, nil
}

func (s *MemoryStore) listErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailList {
		return &localink.StoreError{Op: "list", Message: "listing disabled"}
	}
	return nil
}

// sortItems orders newest first with id as a stable secondary key, matching
// the SQLite store.
func sortItems(items []localink.LocalizedItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

// Verify MemoryStore implements ContentStore
var _ ContentStore = (*MemoryStore)(nil)
