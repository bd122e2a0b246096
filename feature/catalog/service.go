package catalog

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/errors"
	"catalog-sync/core/metrics"
	"catalog-sync/core/storage"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/normalize"
	"catalog-sync/feature/catalog/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies groups what a Service is built from.
type Dependencies struct {
	DB      *gorm.DB
	Storage storage.Client
	// Bucket and MediaPrefix locate the stored portraits.
	Bucket      string
	MediaPrefix string
	Catalog     catalog.Config
	// Transport fetches pages. It is optional; nil builds an HTTPTransport from Catalog.
	Transport catalog.Transport
	// MediaTransport downloads portraits. It is optional; nil builds an HTTPTransport from
	// Catalog with a breaker of its own.
	MediaTransport catalog.Transport
	// Metrics is optional.
	Metrics *metrics.SyncMetrics
	Logger  *zap.Logger
}

// Service runs catalog synchronizations and reads back what they stored.
type Service struct {
	coordinator *syncengine.Coordinator
	records     *store.Records
	categories  *store.Categories
	runs        *store.Runs
	assets      *store.Assets
	cfg         catalog.Config
	logger      *zap.Logger
}

// NewService builds the stores, the catalog clients and the coordinator.
// Pages and portraits go through separate transports so failing images cannot open the
// breaker guarding page fetches.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pageTransport := deps.Transport
	if pageTransport == nil {
		pageTransport = catalog.NewHTTPTransport("catalog", deps.Catalog, nil, logger)
	}
	mediaTransport := deps.MediaTransport
	if mediaTransport == nil {
		mediaTransport = catalog.NewHTTPTransport("media", deps.Catalog, nil, logger)
	}
	pages := catalog.NewClient(pageTransport, deps.Catalog, logger)
	media := catalog.NewClient(mediaTransport, deps.Catalog, logger)

	records := store.NewRecords(deps.DB)
	categories := store.NewCategories(deps.DB)
	runs := store.NewRuns(deps.DB)
	assets := store.NewAssets(deps.DB, deps.Storage, deps.Bucket, deps.MediaPrefix)
	locks := store.NewLocks(deps.DB, time.Duration(deps.Catalog.LockTTLSeconds)*time.Second)

	coordinator := syncengine.NewCoordinator(syncengine.Deps{
		Source:   pages,
		Adapters: normalize.All(),
		Targets:  deps.Catalog.Targets(),
		Resolver: syncengine.NewResolver(categories, deps.Metrics),
		Media:    syncengine.NewMediaDeduplicator(assets, media, logger, deps.Metrics),
		Upserter: syncengine.NewUpserter(records),
		Recorder: runs,
		Locker:   locks,
		Metrics:  deps.Metrics,
		Logger:   logger,
	})

	return &Service{
		coordinator: coordinator,
		records:     records,
		categories:  categories,
		runs:        runs,
		assets:      assets,
		cfg:         deps.Catalog,
		logger:      logger,
	}
}

// Sync runs the synchronization of kind. catalog.strict_pages turns strict mode on for every run.
func (s *Service) Sync(ctx context.Context, kind string, opts syncengine.Options) (*syncengine.Report, error) {
	k, err := syncengine.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	opts.Strict = opts.Strict || s.cfg.StrictPages
	return s.coordinator.Sync(ctx, k, opts)
}

// SyncAll synchronizes every kind in order. A failed kind does not stop the next one,
// cancellation does.
func (s *Service) SyncAll(ctx context.Context, opts syncengine.Options) ([]*syncengine.Report, error) {
	var (
		reports []*syncengine.Report
		errs    []error
	)
	for _, k := range syncengine.Kinds() {
		report, err := s.Sync(ctx, string(k), opts)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return reports, errors.Join(errs...)
}

// PageCount returns the number of pages a sync of kind fetches.
func (s *Service) PageCount(ctx context.Context, kind string) (int, error) {
	k, err := syncengine.ParseKind(kind)
	if err != nil {
		return 0, err
	}
	return s.coordinator.PageCount(ctx, k)
}

// Runs lists recent sync runs. An empty kind lists every kind.
func (s *Service) Runs(ctx context.Context, kind string, limit int) ([]models.SyncRun, error) {
	if kind != "" {
		if _, err := syncengine.ParseKind(kind); err != nil {
			return nil, err
		}
	}
	return s.runs.List(ctx, kind, limit)
}

// Run returns one sync run by id, nil when absent.
func (s *Service) Run(ctx context.Context, id string) (*models.SyncRun, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", "must not be empty")
	}
	return s.runs.Get(ctx, id)
}

// Categories lists the categories of vocabulary ordered by name.
func (s *Service) Categories(ctx context.Context, vocabulary string) ([]models.Category, error) {
	if !slices.Contains(normalize.Vocabularies(), vocabulary) {
		return nil, errors.NewValidationError("vocabulary", fmt.Sprintf("unknown vocabulary %q", vocabulary))
	}
	return s.categories.List(ctx, vocabulary)
}

// RecordCount returns how many records of kind are stored.
func (s *Service) RecordCount(ctx context.Context, kind string) (int64, error) {
	k, err := syncengine.ParseKind(kind)
	if err != nil {
		return 0, err
	}
	return s.records.Count(ctx, k)
}

// Record returns the stored record of kind with the catalog id externalID, nil when absent.
func (s *Service) Record(ctx context.Context, kind string, externalID int) (*store.RecordView, error) {
	k, err := syncengine.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	if externalID <= 0 {
		return nil, errors.NewValidationError("id", fmt.Sprintf("must be positive, got %d", externalID))
	}
	return s.records.Get(ctx, k, externalID)
}

// Media opens the stored content of the asset named logicalName. Both results are nil when absent.
func (s *Service) Media(ctx context.Context, logicalName string) (*models.MediaAsset, io.ReadCloser, error) {
	return s.assets.Open(ctx, logicalName)
}
