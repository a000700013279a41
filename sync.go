package localink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Engine drives synchronization for the registered content types. It never
// mutates primary-locale rows; it only materializes or updates non-primary
// members of each family.
type Engine struct {
	store  ContentStore
	chain  *Chain
	linker *Linker
	cfg    Config
	log    logrus.FieldLogger
	newID  func() string
	now    func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log logrus.FieldLogger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithIDFunc overrides id generation for new rows.
func WithIDFunc(fn func() string) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock overrides the clock used for row timestamps.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// New creates an Engine over a content store and a provider chain.
func New(store ContentStore, chain *Chain, cfg Config, opts ...EngineOption) *Engine {
	if cfg.PrimaryLocale == "" {
		cfg.PrimaryLocale = DefaultPrimaryLocale
	}
	if len(cfg.Locales) == 0 {
		cfg.Locales = append([]string(nil), DefaultLocales...)
	}
	if cfg.FanOut < 1 {
		cfg.FanOut = 1
	}

	e := &Engine{
		store: store,
		chain: chain,
		cfg:   cfg,
		log:   discardLogger(),
		newID: func() string { return uuid.NewString() },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.linker = NewLinker(store, e.log)
	return e
}

// Sync synchronizes one content type across all configured locales. A run
// always completes with a report; the only fatal conditions are total loss
// of the content source and cancellation. Re-running with unchanged primary
// content and Overwrite false is a no-op.
func (e *Engine) Sync(ctx context.Context, contentType string, opts Options) (*Report, error) {
	spec, ok := SpecFor(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoContentType, contentType)
	}

	report := &Report{
		ContentType: contentType,
		DryRun:      opts.DryRun,
		StartedAt:   e.now(),
	}

	primaries, err := e.store.ListByLocale(ctx, contentType, e.cfg.PrimaryLocale)
	if err != nil {
		return nil, &StoreError{Op: "list", Message: "cannot list primary-locale items", Cause: err}
	}

	idx := e.linker.Load(ctx, spec)
	targets := e.cfg.TargetLocales()

	log := e.log.WithField("content_type", contentType)
	log.WithFields(logrus.Fields{
		"items":     len(primaries),
		"locales":   len(targets),
		"overwrite": opts.Overwrite,
		"dry_run":   opts.DryRun,
	}).Info("sync started")

	var mu sync.Mutex

	for i := range primaries {
		// Cancellation takes effect between item-locale units, never
		// mid-write.
		if ctx.Err() != nil {
			report.FinishedAt = e.now()
			return report, ctx.Err()
		}

		primary := &primaries[i]
		fam := idx.FamilyFor(primary, e.cfg.Locales)
		if fam.Unlinkable {
			report.addUnlinkable(primary.ID)
		}
		if fam.CollisionRisk {
			report.addCollision(fam.GroupKey)
		}

		sem := make(chan struct{}, e.cfg.FanOut)
		var wg sync.WaitGroup

		for _, locale := range targets {
			existing := fam.MemberFor(locale)
			if existing != nil && !opts.Overwrite {
				mu.Lock()
				report.Skipped++
				mu.Unlock()
				continue
			}
			if ctx.Err() != nil {
				break
			}

			wg.Add(1)
			sem <- struct{}{}
			go func(locale string, existing *LocalizedItem) {
				defer wg.Done()
				defer func() { <-sem }()
				e.syncPair(ctx, spec, fam, locale, existing, opts, report, &mu)
			}(locale, existing)
		}
		wg.Wait()
	}

	report.FinishedAt = e.now()
	log.WithFields(logrus.Fields{
		"created": report.Created,
		"updated": report.Updated,
		"skipped": report.Skipped,
		"errors":  len(report.Errors) + report.TruncatedErrors,
	}).Info("sync finished")
	return report, nil
}

// SyncAll runs Sync for every registered content type in declaration order.
// A content type whose source cannot be listed does not stop the others; its
// error is joined into the returned error. Cancellation stops the batch.
func (e *Engine) SyncAll(ctx context.Context, opts Options) ([]*Report, error) {
	var reports []*Report
	var errs []error

	for _, name := range ContentTypeNames() {
		report, err := e.Sync(ctx, name, opts)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return reports, err
			}
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return reports, errors.Join(errs...)
}

// syncPair translates and persists one (item, locale) unit. Failures are
// recorded on the report and never propagate past the pair.
func (e *Engine) syncPair(ctx context.Context, spec ContentTypeSpec, fam *Family, locale string, existing *LocalizedItem, opts Options, report *Report, mu *sync.Mutex) {
	primary := fam.Primary

	translate := func(ctx context.Context, text string) (string, error) {
		return e.chain.Translate(ctx, text, primary.Locale, locale)
	}

	fields, terrs := TranslateFields(ctx, primary.Fields, spec.TranslatableFields, translate)

	if ctx.Err() != nil {
		return
	}

	item := LocalizedItem{
		ContentType: spec.Name,
		GroupKey:    fam.GroupKey,
		Locale:      locale,
		Fields:      fields,
		Shared:      primary.CloneShared(),
		CreatedAt:   e.now(),
		UpdatedAt:   e.now(),
	}
	if existing != nil {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	} else {
		item.ID = e.newID()
	}

	mu.Lock()
	defer mu.Unlock()

	// The pair still persists with original text as fallback for the
	// leaves that failed; the failure stays visible in the report.
	if len(terrs) > 0 {
		for _, terr := range terrs {
			if fe, ok := asTranslationFailed(terr); ok {
				fe.Locale = locale
			}
		}
		report.addError(primary.ID, locale, errors.Join(terrs...))
	}

	if opts.DryRun {
		if existing != nil {
			report.Updated++
		} else {
			report.Created++
		}
		return
	}

	if _, err := e.store.Upsert(ctx, item); err != nil {
		if errors.Is(err, ErrConflict) {
			// Another worker materialized this row first; the store's
			// uniqueness constraint is the arbiter.
			report.Skipped++
			return
		}
		report.addError(primary.ID, locale, err)
		return
	}

	if existing != nil {
		report.Updated++
	} else {
		report.Created++
	}
}

func asTranslationFailed(err error) (*TranslationFailedError, bool) {
	var fe *TranslationFailedError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
