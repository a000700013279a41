package localink

import "context"

// ContentStore is the engine's only view of the persistence layer. The rest
// of the site owns schema, deletion and rendering; the engine needs just
// enough to read primary-locale rows and materialize translated ones.
type ContentStore interface {
	// ListByLocale returns all rows of a content type in one locale, newest
	// first with id as a stable secondary order.
	ListByLocale(ctx context.Context, contentType, locale string) ([]LocalizedItem, error)

	// ListAll returns every row of a content type across all locales in one
	// scan. The linker indexes this once per sync run.
	ListAll(ctx context.Context, contentType string) ([]LocalizedItem, error)

	// FindByGroupAndLocale returns the row for (groupKey, locale), or nil
	// when absent. Absence is not an error.
	FindByGroupAndLocale(ctx context.Context, contentType, groupKey, locale string) (*LocalizedItem, error)

	// Upsert inserts or updates a row keyed by (contentType, GroupKey,
	// Locale). A concurrent insert losing the uniqueness race returns
	// ErrConflict.
	Upsert(ctx context.Context, item LocalizedItem) (LocalizedItem, error)
}
