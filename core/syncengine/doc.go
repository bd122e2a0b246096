// Package syncengine keeps a local record store converged with a remote catalog.
//
// A run for one kind fetches every page, normalizes each item through the kind's
// Adapter and upserts the result by (kind, external id). Running it again with the
// same remote data changes nothing but timestamps.
//
// # Architecture
//
//  1. Coordinator: validates the target, takes the per-kind run lock, fetches pages
//     through a PageSource and processes items one by one. One failing item is
//     recorded in the Report and never aborts the run.
//
//  2. Adapter: kind-specific decoding of a raw item into a Record. Adapters resolve
//     free-text values and media through the References handle of the run.
//
//  3. Resolver: get-or-create of categories keyed by (vocabulary, name), memoized with
//     go-cache and coalesced with singleflight.
//
//  4. MediaDeduplicator: get-or-create of media keyed by LogicalName. A known name is
//     reused without any network access.
//
//  5. Upserter: create when no record matches, otherwise overwrite the lowest match.
//     More than one match is reported as a DataIntegrityWarning.
//
// Storage is reached only through the RecordStore, CategoryStore, AssetStore and
// RunRecorder interfaces; feature/catalog/store provides the gorm and MinIO versions.
//
// # Usage Example
//
//	coord := syncengine.NewCoordinator(syncengine.Deps{
//	    Source:   catalogClient,
//	    Adapters: normalize.All(),
//	    Targets:  cfg.Catalog.Targets(),
//	    Resolver: syncengine.NewResolver(categories, m),
//	    Media:    syncengine.NewMediaDeduplicator(assets, catalogClient, logger, m),
//	    Upserter: syncengine.NewUpserter(records),
//	    Recorder: runs,
//	})
//	report, err := coord.Sync(ctx, syncengine.KindCharacter, syncengine.Options{})
package syncengine
