package syncengine

import (
	"context"
	"sync/atomic"

	"catalog-sync/core/catalog"
)

// Adapter turns a raw catalog item of one kind into a Record.
type Adapter interface {
	// Kind returns the collection this adapter normalizes.
	Kind() Kind
	// Normalize decodes raw and resolves its references and media through refs.
	// Invalid items fail with *errors.ValidationError.
	Normalize(ctx context.Context, raw catalog.RawItem, refs References) (*Record, error)
}

// References gives adapters access to category resolution and media deduplication
// for the duration of one run.
type References interface {
	Resolve(ctx context.Context, vocabulary, name string) (CategoryID, error)
	EnsureAsset(ctx context.Context, logicalName, sourceURL string) (*MediaHandle, error)
}

// runReferences counts what a run created.
type runReferences struct {
	resolver          *Resolver
	media             *MediaDeduplicator
	categoriesCreated atomic.Int64
	assetsCreated     atomic.Int64
}

func (r *runReferences) Resolve(ctx context.Context, vocabulary, name string) (CategoryID, error) {
	id, created, err := r.resolver.Resolve(ctx, vocabulary, name)
	if err != nil {
		return 0, err
	}
	if created {
		r.categoriesCreated.Add(1)
	}
	return id, nil
}

func (r *runReferences) EnsureAsset(ctx context.Context, logicalName, sourceURL string) (*MediaHandle, error) {
	h, created, err := r.media.EnsureAsset(ctx, logicalName, sourceURL)
	if err != nil {
		return nil, err
	}
	if created {
		r.assetsCreated.Add(1)
	}
	return h, nil
}
