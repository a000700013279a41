package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sumeshkk123/localink"
)

func newSQLiteStore(t *testing.T) *BunStore {
	t.Helper()

	// A named in-memory database keeps the schema alive across pooled
	// connections while staying isolated per test.
	db, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := NewBunStore(db)
	if err := s.CreateSchema(context.Background()); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}
	return s
}

func featureItem(id, locale, groupKey, title string, createdAt time.Time) localink.LocalizedItem {
	return localink.LocalizedItem{
		ID:          id,
		ContentType: "features",
		GroupKey:    groupKey,
		Locale:      locale,
		Fields: map[string]localink.FieldValue{
			"title": localink.Text(title),
		},
		Shared:    map[string]string{"icon": "Rocket"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestBunStore_InsertAndFind(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if _, err := s.Upsert(ctx, featureItem("f1", "en", "f1", "Fast Setup", now)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := s.FindByGroupAndLocale(ctx, "features", "f1", "en")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected row, got nil")
	}
	if got.Fields["title"].Text != "Fast Setup" {
		t.Errorf("Fields did not round-trip: %+v", got.Fields)
	}
	if got.Shared["icon"] != "Rocket" {
		t.Errorf("Shared attributes did not round-trip: %+v", got.Shared)
	}
}

func TestBunStore_FindAbsent(t *testing.T) {
	s := newSQLiteStore(t)

	got, err := s.FindByGroupAndLocale(context.Background(), "features", "nope", "en")
	if err != nil {
		t.Fatalf("Absence must not be an error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for absent row, got %+v", got)
	}
}

func TestBunStore_UpdateKeepsIdentity(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if _, err := s.Upsert(ctx, featureItem("f1", "es", "f1", "Vieja", now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	updated := featureItem("f1", "es", "f1", "Nueva", now)
	updated.UpdatedAt = now.Add(time.Hour)
	if _, err := s.Upsert(ctx, updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := s.FindByGroupAndLocale(ctx, "features", "f1", "es")
	if got.Fields["title"].Text != "Nueva" {
		t.Errorf("Expected updated title, got %q", got.Fields["title"].Text)
	}

	rows, _ := s.ListAll(ctx, "features")
	if len(rows) != 1 {
		t.Errorf("Update must not create rows, got %d", len(rows))
	}
}

func TestBunStore_RekeysLegacyRowOnOverwrite(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	// A legacy member has no stored group key; the linker derives one from
	// shared attributes, so an overwrite arrives with the same id but a
	// brand-new key. It must update in place, not conflict.
	if _, err := s.Upsert(ctx, featureItem("es-1", "es", "", "Vieja", now)); err != nil {
		t.Fatalf("Seeding legacy row failed: %v", err)
	}

	derived := "icon=Star|show_on_home=true"
	if _, err := s.Upsert(ctx, featureItem("es-1", "es", derived, "Nueva", now)); err != nil {
		t.Fatalf("Overwrite of legacy row failed: %v", err)
	}

	got, err := s.FindByGroupAndLocale(ctx, "features", derived, "es")
	if err != nil || got == nil {
		t.Fatalf("Expected rekeyed row under derived key, got %v (err %v)", got, err)
	}
	if got.ID != "es-1" {
		t.Errorf("Rekey must keep the row id, got %q", got.ID)
	}
	if got.Fields["title"].Text != "Nueva" {
		t.Errorf("Expected fresh translation persisted, got %q", got.Fields["title"].Text)
	}

	rows, _ := s.ListAll(ctx, "features")
	if len(rows) != 1 {
		t.Errorf("Rekey must not create rows, got %d", len(rows))
	}
}

func TestBunStore_LegacyRekeyConflictsWithClaimedKey(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	derived := "icon=Star|show_on_home=true"
	if _, err := s.Upsert(ctx, featureItem("es-1", "es", derived, "Uno", now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := s.Upsert(ctx, featureItem("es-2", "es", "", "Vieja", now)); err != nil {
		t.Fatalf("Seeding legacy row failed: %v", err)
	}

	// Rekeying the legacy row toward a key another id already holds must
	// surface the conflict, never shadow the claimant.
	_, err := s.Upsert(ctx, featureItem("es-2", "es", derived, "Dos", now))
	if !errors.Is(err, localink.ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}
}

func TestBunStore_ConflictOnDifferentID(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.Upsert(ctx, featureItem("es-1", "es", "f1", "Uno", now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	_, err := s.Upsert(ctx, featureItem("es-2", "es", "f1", "Dos", now))
	if !errors.Is(err, localink.ErrConflict) {
		t.Fatalf("Expected ErrConflict for second id on same (group, locale), got %v", err)
	}
}

func TestBunStore_ListByLocale(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i, it := range []localink.LocalizedItem{
		featureItem("f1", "en", "f1", "One", base),
		featureItem("f2", "en", "f2", "Two", base.Add(time.Hour)),
		featureItem("es-1", "es", "f1", "Uno", base),
	} {
		if _, err := s.Upsert(ctx, it); err != nil {
			t.Fatalf("Upsert %d failed: %v", i, err)
		}
	}

	en, err := s.ListByLocale(ctx, "features", "en")
	if err != nil {
		t.Fatalf("ListByLocale failed: %v", err)
	}
	if len(en) != 2 {
		t.Fatalf("Expected 2 en rows, got %d", len(en))
	}
	// Newest first.
	if en[0].ID != "f2" || en[1].ID != "f1" {
		t.Errorf("Expected [f2 f1], got [%s %s]", en[0].ID, en[1].ID)
	}

	all, err := s.ListAll(ctx, "features")
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 rows total, got %d", len(all))
	}
}

func TestBunStore_LocaleNormalization(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, featureItem("f1", "ES_es", "f1", "Hola", time.Now().UTC())); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := s.FindByGroupAndLocale(ctx, "features", "f1", "es")
	if err != nil || got == nil {
		t.Fatalf("Expected normalized locale lookup to hit, got %v (err %v)", got, err)
	}
	if got.Locale != "es" {
		t.Errorf("Stored locale must be canonical, got %q", got.Locale)
	}
}

func TestBunStore_CreateSchemaIdempotent(t *testing.T) {
	s := newSQLiteStore(t)
	if err := s.CreateSchema(context.Background()); err != nil {
		t.Fatalf("Second CreateSchema must succeed: %v", err)
	}
}
