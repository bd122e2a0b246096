package syncengine

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"

	"catalog-sync/core/errors"
	"catalog-sync/core/metrics"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LogicalName derives the media identity from a display name: lower-cased, trimmed,
// every run of whitespace or path separators replaced by a single "-".
func LogicalName(display string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(display), isNameSeparator), "-")
}

func isNameSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '/' || r == '\\'
}

// MediaDeduplicator stores each logical media name at most once and never re-downloads a known one.
// It is safe for concurrent use.
type MediaDeduplicator struct {
	assets     AssetStore
	downloader Downloader
	memo       *cache.Cache
	group      singleflight.Group
	logger     *zap.Logger
	metrics    *metrics.SyncMetrics
}

type ensured struct {
	handle  *MediaHandle
	created bool
	claimed atomic.Bool
}

// NewMediaDeduplicator creates a MediaDeduplicator.
func NewMediaDeduplicator(assets AssetStore, downloader Downloader, logger *zap.Logger, m *metrics.SyncMetrics) *MediaDeduplicator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaDeduplicator{
		assets:     assets,
		downloader: downloader,
		memo:       cache.New(cache.NoExpiration, 0),
		logger:     logger,
		metrics:    m,
	}
}

// EnsureAsset returns the asset registered under logicalName, downloading and storing
// sourceURL only when no such asset exists. created reports whether this call stored it.
func (d *MediaDeduplicator) EnsureAsset(ctx context.Context, logicalName, sourceURL string) (*MediaHandle, bool, error) {
	if logicalName == "" {
		return nil, false, errors.NewValidationError("media", "empty logical name")
	}

	if h, ok := d.memo.Get(logicalName); ok {
		return h.(*MediaHandle), false, nil
	}

	v, err, _ := d.group.Do(logicalName, func() (any, error) {
		if h, ok := d.memo.Get(logicalName); ok {
			return &ensured{handle: h.(*MediaHandle)}, nil
		}

		existing, err := d.assets.FindAsset(ctx, logicalName)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			d.memo.SetDefault(logicalName, existing)
			return &ensured{handle: existing}, nil
		}

		handle, err := d.store(ctx, logicalName, sourceURL)
		if err != nil {
			return nil, err
		}
		d.memo.SetDefault(logicalName, handle)
		d.metrics.RecordAssetCreated()
		return &ensured{handle: handle, created: true}, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("media %q: %w", logicalName, err)
	}

	res := v.(*ensured)
	return res.handle, res.created && res.claimed.CompareAndSwap(false, true), nil
}

func (d *MediaDeduplicator) store(ctx context.Context, logicalName, sourceURL string) (*MediaHandle, error) {
	media, err := d.downloader.Download(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	obj, err := d.assets.StoreAsset(ctx, logicalName, sourceURL, media)
	if err != nil {
		return nil, err
	}

	handle, err := d.assets.CreateAssetRecord(ctx, logicalName, sourceURL, obj)
	if err != nil {
		if delErr := d.assets.DeleteObject(context.WithoutCancel(ctx), obj.Key); delErr != nil {
			d.logger.Warn("Failed to remove orphaned media object",
				zap.String("object", obj.Key), zap.Error(delErr))
		}
		return nil, err
	}

	d.logger.Debug("Stored media asset",
		zap.String("name", logicalName),
		zap.String("object", obj.Key),
		zap.Int64("size", obj.Size))
	return handle, nil
}
