package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sumeshkk123/localink"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// localizedItemRow is the bun model backing localized_items. Field and shared
// maps are stored as JSON columns; identity lives in the composite key plus
// the unique family index.
type localizedItemRow struct {
	bun.BaseModel `bun:"table:localized_items,alias:li"`

	ID          string                          `bun:"id,pk"`
	ContentType string                          `bun:"content_type,pk"`
	Locale      string                          `bun:"locale,pk"`
	GroupKey    string                          `bun:"group_key,notnull"`
	Fields      map[string]localink.FieldValue  `bun:"fields,type:jsonb"`
	Shared      map[string]string               `bun:"shared,type:jsonb"`
	CreatedAt   time.Time                       `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt   time.Time                       `bun:"updated_at,nullzero,default:current_timestamp"`
}

func (r *localizedItemRow) toItem() localink.LocalizedItem {
	return localink.LocalizedItem{
		ID:          r.ID,
		ContentType: r.ContentType,
		GroupKey:    r.GroupKey,
		Locale:      r.Locale,
		Fields:      r.Fields,
		Shared:      r.Shared,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func rowFromItem(item localink.LocalizedItem) localizedItemRow {
	return localizedItemRow{
		ID:          item.ID,
		ContentType: item.ContentType,
		Locale:      localink.NormalizeLocale(item.Locale),
		GroupKey:    item.GroupKey,
		Fields:      item.Fields,
		Shared:      item.Shared,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// BunStore implements ContentStore over a bun database.
type BunStore struct {
	db *bun.DB
	// opTimeout bounds every store call.
	opTimeout time.Duration
}

// Open opens a SQLite database at dsn and wraps it in a bun.DB.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewBunStore creates a store over an existing bun database.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db, opTimeout: 10 * time.Second}
}

// CreateSchema creates the localized_items table and the family uniqueness
// index. Idempotent.
func (s *BunStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*localizedItemRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	_, err := s.db.NewCreateIndex().
		Model((*localizedItemRow)(nil)).
		Index("ux_localized_items_family").
		Unique().
		IfNotExists().
		Column("content_type", "group_key", "locale").
		Exec(ctx)
	return err
}

func (s *BunStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// ListByLocale implements ContentStore.
func (s *BunStore) ListByLocale(ctx context.Context, contentType, locale string) ([]localink.LocalizedItem, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var rows []localizedItemRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("content_type = ?", contentType).
		Where("locale = ?", localink.NormalizeLocale(locale)).
		Order("created_at DESC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// ListAll implements ContentStore.
func (s *BunStore) ListAll(ctx context.Context, contentType string) ([]localink.LocalizedItem, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var rows []localizedItemRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("content_type = ?", contentType).
		Order("created_at DESC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// FindByGroupAndLocale implements ContentStore. Absence returns (nil, nil).
func (s *BunStore) FindByGroupAndLocale(ctx context.Context, contentType, groupKey, locale string) (*localink.LocalizedItem, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	row := new(localizedItemRow)
	err := s.db.NewSelect().
		Model(row).
		Where("content_type = ?", contentType).
		Where("group_key = ?", groupKey).
		Where("locale = ?", localink.NormalizeLocale(locale)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	item := row.toItem()
	return &item, nil
}

// Upsert implements ContentStore. A concurrent create that loses the race on
// the family uniqueness index returns localink.ErrConflict.
func (s *BunStore) Upsert(ctx context.Context, item localink.LocalizedItem) (localink.LocalizedItem, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	row := rowFromItem(item)

	// The row's identity is its primary key; the family index only arbitrates
	// between different ids. Probing by group key alone would miss a legacy
	// member whose stored key is empty and is being rewritten to its derived
	// key.
	exists, err := s.db.NewSelect().
		Model((*localizedItemRow)(nil)).
		Where("id = ?", row.ID).
		Where("content_type = ?", row.ContentType).
		Where("locale = ?", row.Locale).
		Exists(ctx)
	if err != nil {
		return localink.LocalizedItem{}, err
	}

	claimed := new(localizedItemRow)
	err = s.db.NewSelect().
		Model(claimed).
		Column("id").
		Where("content_type = ?", row.ContentType).
		Where("group_key = ?", row.GroupKey).
		Where("locale = ?", row.Locale).
		Limit(1).
		Scan(ctx)
	switch {
	case err == nil && claimed.ID != row.ID:
		// A different row already claimed (group, locale).
		return localink.LocalizedItem{}, localink.ErrConflict
	case err != nil && err != sql.ErrNoRows:
		return localink.LocalizedItem{}, err
	}

	if exists {
		if _, uerr := s.db.NewUpdate().
			Model(&row).
			Column("group_key", "fields", "shared", "updated_at").
			WherePK().
			Exec(ctx); uerr != nil {
			return localink.LocalizedItem{}, uerr
		}
		return row.toItem(), nil
	}

	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return localink.LocalizedItem{}, localink.ErrConflict
		}
		return localink.LocalizedItem{}, err
	}
	return row.toItem(), nil
}

func toItems(rows []localizedItemRow) []localink.LocalizedItem {
	items := make([]localink.LocalizedItem, len(rows))
	for i := range rows {
		items[i] = rows[i].toItem()
	}
	return items
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Verify BunStore implements ContentStore
var _ ContentStore = (*BunStore)(nil)
