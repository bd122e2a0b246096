package syncengine

import (
	"context"
	"fmt"

	"catalog-sync/core/errors"
)

// Upserter decides between creating and updating a record matched by (kind, external id).
type Upserter struct {
	store RecordStore
}

// NewUpserter creates an Upserter.
func NewUpserter(store RecordStore) *Upserter {
	return &Upserter{store: store}
}

// Upsert creates rec when no record matches, otherwise overwrites the first match.
// More than one match returns a DataIntegrityWarning next to the Updated outcome.
func (u *Upserter) Upsert(ctx context.Context, rec *Record) (Outcome, *errors.DataIntegrityWarning, error) {
	handles, err := u.store.FindByExternalID(ctx, rec.Kind, rec.ExternalID)
	if err != nil {
		return "", nil, fmt.Errorf("find %s %d: %w", rec.Kind, rec.ExternalID, err)
	}

	if len(handles) == 0 {
		if _, err := u.store.Create(ctx, rec); err != nil {
			return "", nil, fmt.Errorf("create %s %d: %w", rec.Kind, rec.ExternalID, err)
		}
		return OutcomeCreated, nil, nil
	}

	if err := u.store.Update(ctx, handles[0], rec); err != nil {
		return "", nil, fmt.Errorf("update %s %d: %w", rec.Kind, rec.ExternalID, err)
	}

	if len(handles) > 1 {
		ids := make([]uint, len(handles))
		for i, h := range handles {
			ids[i] = uint(h)
		}
		return OutcomeUpdated, &errors.DataIntegrityWarning{
			Kind:       string(rec.Kind),
			ExternalID: rec.ExternalID,
			Handles:    ids,
		}, nil
	}

	return OutcomeUpdated, nil, nil
}
