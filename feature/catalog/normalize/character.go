package normalize

import (
	"context"
	"strings"

	"catalog-sync/core/catalog"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"
)

// CharacterAdapter normalizes /character items.
type CharacterAdapter struct{}

// Kind implements syncengine.Adapter.
func (CharacterAdapter) Kind() syncengine.Kind {
	return syncengine.KindCharacter
}

// Normalize maps a character to a record with its type, five category references
// and its portrait.
func (CharacterAdapter) Normalize(ctx context.Context, raw catalog.RawItem, refs syncengine.References) (*syncengine.Record, error) {
	var item models.CharacterItem
	if err := decode(raw, &item); err != nil {
		return nil, err
	}

	rec, err := newRecord(syncengine.KindCharacter, item.ID, item.Name, item.Created)
	if err != nil {
		return nil, err
	}
	rec.Fields["type"] = strings.TrimSpace(item.Type)

	for _, ref := range []struct{ field, value string }{
		{VocabCharacterGender, item.Gender},
		{VocabCharacterSpecies, item.Species},
		{VocabCharacterStatus, item.Status},
		{VocabCharacterLocation, item.Location.Name},
		{VocabCharacterOrigin, item.Origin.Name},
	} {
		if err := reference(ctx, refs, rec, ref.field, ref.value); err != nil {
			return nil, err
		}
	}

	if image := strings.TrimSpace(item.Image); image != "" {
		media, err := refs.EnsureAsset(ctx, syncengine.LogicalName(item.Name), image)
		if err != nil {
			return nil, err
		}
		rec.Media = media
	}

	return rec, nil
}
