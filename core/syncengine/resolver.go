package syncengine

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"catalog-sync/core/errors"
	"catalog-sync/core/metrics"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Resolver maps (vocabulary, display name) pairs to category ids, creating categories on first sight.
// It is safe for concurrent use.
type Resolver struct {
	store   CategoryStore
	memo    *cache.Cache
	group   singleflight.Group
	metrics *metrics.SyncMetrics
}

// resolution is shared by every caller coalesced on one key; claimed lets exactly one of them
// report the creation.
type resolution struct {
	id      CategoryID
	created bool
	claimed atomic.Bool
}

// NewResolver creates a Resolver backed by store.
func NewResolver(store CategoryStore, m *metrics.SyncMetrics) *Resolver {
	return &Resolver{
		store: store,
		// Categories are append-only, entries never go stale
		memo:    cache.New(cache.NoExpiration, 0),
		metrics: m,
	}
}

// Resolve returns the id of the category, creating it when missing. created reports whether
// this call created it.
func (r *Resolver) Resolve(ctx context.Context, vocabulary, name string) (CategoryID, bool, error) {
	if strings.TrimSpace(name) == "" {
		return 0, false, errors.NewValidationError(vocabulary, "empty category name")
	}

	key := vocabulary + "\x00" + name
	if id, ok := r.memo.Get(key); ok {
		return id.(CategoryID), false, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if id, ok := r.memo.Get(key); ok {
			return &resolution{id: id.(CategoryID)}, nil
		}

		id, found, err := r.store.FindCategory(ctx, vocabulary, name)
		if err != nil {
			return nil, err
		}
		res := &resolution{id: id}
		if !found {
			res.id, res.created, err = r.store.CreateCategory(ctx, vocabulary, name)
			if err != nil {
				return nil, err
			}
			if res.created {
				r.metrics.RecordCategoryCreated(vocabulary)
			}
		}

		r.memo.SetDefault(key, res.id)
		return res, nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("resolve %s %q: %w", vocabulary, name, err)
	}

	res := v.(*resolution)
	return res.id, res.created && res.claimed.CompareAndSwap(false, true), nil
}
