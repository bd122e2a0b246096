package syncengine

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/errors"
	"catalog-sync/core/metrics"

	"github.com/antonholmquist/jason"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes a single run.
type Options struct {
	// Strict fails the run on the first failed page.
	Strict bool
	// Concurrency overrides the configured page concurrency when > 0.
	Concurrency int
	// Progress is called after every item with the processed and total counts.
	Progress func(done, total int)
}

// Deps groups the collaborators of a Coordinator.
type Deps struct {
	Source   PageSource
	Adapters []Adapter
	Targets  map[string]catalog.Target
	Resolver *Resolver
	Media    *MediaDeduplicator
	Upserter *Upserter
	// Recorder is optional.
	Recorder RunRecorder
	// Locker is optional; without it runs are only exclusive within this process.
	Locker  RunLocker
	Metrics *metrics.SyncMetrics
	Logger  *zap.Logger
}

// Coordinator runs the synchronization of one kind at a time per kind.
type Coordinator struct {
	source   PageSource
	adapters map[Kind]Adapter
	targets  map[string]catalog.Target
	resolver *Resolver
	media    *MediaDeduplicator
	upserter *Upserter
	recorder RunRecorder
	locker   RunLocker
	metrics  *metrics.SyncMetrics
	logger   *zap.Logger
	locks    map[Kind]*sync.Mutex
	now      func() time.Time
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(deps Deps) *Coordinator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Coordinator{
		source:   deps.Source,
		adapters: make(map[Kind]Adapter, len(deps.Adapters)),
		targets:  deps.Targets,
		resolver: deps.Resolver,
		media:    deps.Media,
		upserter: deps.Upserter,
		recorder: deps.Recorder,
		locker:   deps.Locker,
		metrics:  deps.Metrics,
		logger:   logger,
		locks:    make(map[Kind]*sync.Mutex),
		now:      time.Now,
	}
	for _, a := range deps.Adapters {
		c.adapters[a.Kind()] = a
	}
	for _, k := range Kinds() {
		c.locks[k] = &sync.Mutex{}
	}
	return c
}

// Target returns the validated target of kind.
func (c *Coordinator) Target(kind Kind) (catalog.Target, error) {
	t, ok := c.targets[string(kind)]
	if !ok {
		return catalog.Target{}, errors.NewConfigurationError("catalog."+string(kind)+"_path", "no target configured")
	}
	if t.Endpoint == "" {
		return catalog.Target{}, errors.NewConfigurationError("catalog."+string(kind)+"_path", "endpoint is empty")
	}
	if u, err := url.Parse(t.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return catalog.Target{}, errors.NewConfigurationError("catalog.base_url", fmt.Sprintf("invalid endpoint %q", t.Endpoint))
	}
	if t.Pages < 0 {
		return catalog.Target{}, errors.NewConfigurationError("catalog."+string(kind)+"_pages", fmt.Sprintf("must be >= 0, got %d", t.Pages))
	}
	return t, nil
}

// PageCount returns the configured page count of kind, discovering it when configured as 0.
func (c *Coordinator) PageCount(ctx context.Context, kind Kind) (int, error) {
	target, err := c.Target(kind)
	if err != nil {
		return 0, err
	}
	if target.Pages > 0 {
		return target.Pages, nil
	}
	return c.source.DiscoverPages(ctx, target.Endpoint)
}

// Sync fetches every configured page of kind and upserts each item.
//
// Configuration problems fail before any request and return no report. Item failures are
// recorded in the report and do not stop the run. Fetch-level failures (page discovery,
// strict pages) and cancellation return the error together with the report built so far.
func (c *Coordinator) Sync(ctx context.Context, kind Kind, opts Options) (*Report, error) {
	adapter, ok := c.adapters[kind]
	if !ok {
		return nil, errors.NewConfigurationError("kind", fmt.Sprintf("no adapter for %q", kind))
	}
	target, err := c.Target(kind)
	if err != nil {
		return nil, err
	}

	lock := c.locks[kind]
	if !lock.TryLock() {
		return nil, fmt.Errorf("%s: %w", kind, errors.ErrRunInProgress)
	}
	defer lock.Unlock()

	runID := uuid.NewString()
	log := c.logger.With(zap.String("kind", string(kind)), zap.String("run_id", runID))
	if c.locker != nil {
		if err := c.locker.Acquire(ctx, kind, runID); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		defer func() {
			if err := c.locker.Release(context.WithoutCancel(ctx), kind, runID); err != nil {
				log.Error("Failed to release sync lock", zap.Error(err))
			}
		}()
	}

	report := newReport(runID, kind, c.now())
	log.Info("Sync started", zap.String("endpoint", target.Endpoint))

	runErr := c.run(ctx, adapter, target, opts, report, log)
	if runErr != nil {
		report.Error = runErr.Error()
	}

	c.complete(ctx, report, log)
	return report, runErr
}

func (c *Coordinator) run(ctx context.Context, adapter Adapter, target catalog.Target, opts Options, report *Report, log *zap.Logger) error {
	pages := target.Pages
	if pages == 0 {
		discovered, err := c.source.DiscoverPages(ctx, target.Endpoint)
		if err != nil {
			return fmt.Errorf("discover pages: %w", err)
		}
		pages = discovered
	}
	report.PagesTotal = pages

	collection, fetchErr := c.source.FetchAll(ctx, target.Endpoint, pages, catalog.FetchOptions{
		Strict:      opts.Strict,
		Concurrency: opts.Concurrency,
	})
	if collection == nil {
		if fetchErr == nil {
			fetchErr = errors.New("page source returned no collection")
		}
		c.metrics.RecordPages(string(report.Kind), 0, pages)
		return fmt.Errorf("fetch pages: %w", fetchErr)
	}

	for _, p := range collection.Failed() {
		report.PageFailures = append(report.PageFailures, PageFailure{Page: p.Number, Reason: p.Err.Error()})
	}
	c.metrics.RecordPages(string(report.Kind), len(collection.Pages)-len(report.PageFailures), len(report.PageFailures))
	if fetchErr != nil {
		return fetchErr
	}

	refs := &runReferences{resolver: c.resolver, media: c.media}
	defer func() {
		report.CategoriesCreated = int(refs.categoriesCreated.Load())
		report.AssetsCreated = int(refs.assetsCreated.Load())
	}()

	items := collection.Items()
	for i, raw := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		report.Attempted++
		c.processItem(ctx, adapter, refs, raw, report, log)

		if opts.Progress != nil {
			opts.Progress(i+1, len(items))
		}
	}
	return nil
}

func (c *Coordinator) processItem(ctx context.Context, adapter Adapter, refs References, raw catalog.RawItem, report *Report, log *zap.Logger) {
	kind := string(report.Kind)

	rec, err := adapter.Normalize(ctx, raw, refs)
	if err == nil {
		rec.Kind = report.Kind
		var (
			outcome Outcome
			warning *errors.DataIntegrityWarning
		)
		outcome, warning, err = c.upserter.Upsert(ctx, rec)
		if err == nil {
			if warning != nil {
				report.Warnings = append(report.Warnings, warning.Error())
				log.Warn("Duplicate records share an external id", zap.Error(warning))
			}
			switch outcome {
			case OutcomeCreated:
				report.Created++
			case OutcomeUpdated:
				report.Updated++
			}
			c.metrics.RecordItem(kind, string(outcome))
			return
		}
	}

	externalID := peekExternalID(raw)
	if rec != nil {
		externalID = rec.ExternalID
	}
	category := errors.Classify(err)

	report.Failed++
	report.Failures = append(report.Failures, ItemFailure{
		ExternalID: externalID,
		Reason:     err.Error(),
		Category:   category,
	})
	c.metrics.RecordFailure(kind, category)
	log.Warn("Item failed",
		zap.Int("external_id", externalID),
		zap.String("category", category),
		zap.Error(err))
}

func (c *Coordinator) complete(ctx context.Context, report *Report, log *zap.Logger) {
	report.finish(c.now())
	c.metrics.RecordRun(string(report.Kind), report.Status, report.Duration)

	if c.recorder != nil {
		// A cancelled run is still recorded
		if err := c.recorder.RecordRun(context.WithoutCancel(ctx), report); err != nil {
			log.Error("Failed to record sync run", zap.Error(err))
		}
	}

	fields := []zap.Field{
		zap.String("status", report.Status),
		zap.Int("attempted", report.Attempted),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
		zap.Int("page_failures", len(report.PageFailures)),
		zap.Int("categories_created", report.CategoriesCreated),
		zap.Int("assets_created", report.AssetsCreated),
		zap.String("execution_time", report.ExecutionTime),
	}
	switch report.Status {
	case StatusSuccess:
		log.Info("Sync completed", fields...)
	case StatusPartial:
		log.Warn("Sync completed with failures", fields...)
	default:
		log.Error("Sync failed", append(fields, zap.String("error", report.Error))...)
	}
}

// peekExternalID reads the id of an item that could not be normalized, 0 when absent.
func peekExternalID(raw catalog.RawItem) int {
	obj, err := jason.NewObjectFromBytes(raw)
	if err != nil {
		return 0
	}
	id, err := obj.GetInt64("id")
	if err != nil {
		return 0
	}
	return int(id)
}
