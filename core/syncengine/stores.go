package syncengine

import (
	"context"

	"catalog-sync/core/catalog"
)

// RecordStore persists records.
type RecordStore interface {
	// FindByExternalID returns the handles of every record of kind with externalID, lowest first.
	FindByExternalID(ctx context.Context, kind Kind, externalID int) ([]RecordHandle, error)
	// Create stores a new record.
	Create(ctx context.Context, rec *Record) (RecordHandle, error)
	// Update overwrites every field of the record and replaces its references.
	Update(ctx context.Context, handle RecordHandle, rec *Record) error
}

// CategoryStore persists categories.
type CategoryStore interface {
	// FindCategory looks a category up by exact vocabulary and name.
	FindCategory(ctx context.Context, vocabulary, name string) (CategoryID, bool, error)
	// CreateCategory inserts a category. When a concurrent writer won, the existing id is
	// returned with created=false.
	CreateCategory(ctx context.Context, vocabulary, name string) (id CategoryID, created bool, err error)
}

// AssetStore persists media bytes and their metadata.
type AssetStore interface {
	// FindAsset returns the asset with logicalName, nil when absent.
	FindAsset(ctx context.Context, logicalName string) (*MediaHandle, error)
	// StoreAsset writes the downloaded bytes to object storage.
	StoreAsset(ctx context.Context, logicalName, sourceURL string, media *catalog.Response) (StoredObject, error)
	// CreateAssetRecord registers a stored object under logicalName.
	CreateAssetRecord(ctx context.Context, logicalName, sourceURL string, obj StoredObject) (*MediaHandle, error)
	// DeleteObject removes a stored object that could not be registered.
	DeleteObject(ctx context.Context, key string) error
}

// Downloader retrieves media bytes.
type Downloader interface {
	Download(ctx context.Context, sourceURL string) (*catalog.Response, error)
}

// PageSource retrieves collection pages.
type PageSource interface {
	FetchAll(ctx context.Context, endpoint string, totalPages int, opts catalog.FetchOptions) (*catalog.Collection, error)
	DiscoverPages(ctx context.Context, endpoint string) (int, error)
}

// RunRecorder persists finished reports.
type RunRecorder interface {
	RecordRun(ctx context.Context, report *Report) error
}

// RunLocker guards a kind across processes sharing the store.
type RunLocker interface {
	// Acquire takes the lock of kind for runID. It returns errors.ErrRunInProgress when
	// another run holds it.
	Acquire(ctx context.Context, kind Kind, runID string) error
	// Release drops the lock of kind if runID still holds it.
	Release(ctx context.Context, kind Kind, runID string) error
}
