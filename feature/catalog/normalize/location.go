package normalize

import (
	"context"
	"strconv"

	"catalog-sync/core/catalog"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"
)

// LocationAdapter normalizes /location items.
type LocationAdapter struct{}

// Kind implements syncengine.Adapter.
func (LocationAdapter) Kind() syncengine.Kind {
	return syncengine.KindLocation
}

// Normalize maps a location to a record with its resident count and type/dimension references.
func (LocationAdapter) Normalize(ctx context.Context, raw catalog.RawItem, refs syncengine.References) (*syncengine.Record, error) {
	var item models.LocationItem
	if err := decode(raw, &item); err != nil {
		return nil, err
	}

	rec, err := newRecord(syncengine.KindLocation, item.ID, item.Name, item.Created)
	if err != nil {
		return nil, err
	}
	rec.Fields["resident_count"] = strconv.Itoa(len(item.Residents))

	if err := reference(ctx, refs, rec, VocabLocationType, item.Type); err != nil {
		return nil, err
	}
	if err := reference(ctx, refs, rec, VocabLocationDimension, item.Dimension); err != nil {
		return nil, err
	}

	return rec, nil
}
