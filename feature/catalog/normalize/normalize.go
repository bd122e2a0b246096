package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"catalog-sync/core/catalog"
	"catalog-sync/core/errors"
	"catalog-sync/core/syncengine"
)

// Category vocabularies.
const (
	VocabCharacterGender   = "character_gender"
	VocabCharacterSpecies  = "character_species"
	VocabCharacterStatus   = "character_status"
	VocabCharacterLocation = "character_location"
	VocabCharacterOrigin   = "character_origin"
	VocabLocationType      = "location_type"
	VocabLocationDimension = "location_dimension"
	VocabEpisodeSeason     = "episode_season"
)

// Vocabularies returns every category vocabulary the adapters write.
func Vocabularies() []string {
	return []string{
		VocabCharacterGender,
		VocabCharacterSpecies,
		VocabCharacterStatus,
		VocabCharacterLocation,
		VocabCharacterOrigin,
		VocabLocationType,
		VocabLocationDimension,
		VocabEpisodeSeason,
	}
}

// All returns the adapter of every kind.
func All() []syncengine.Adapter {
	return []syncengine.Adapter{CharacterAdapter{}, LocationAdapter{}, EpisodeAdapter{}}
}

func decode(raw catalog.RawItem, v interface{ Validate() error }) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.NewValidationError("item", fmt.Sprintf("malformed item: %v", err))
	}
	return v.Validate()
}

func newRecord(kind syncengine.Kind, id int, name, created string) (*syncengine.Record, error) {
	createdAt, err := ParseCreated(created)
	if err != nil {
		return nil, err
	}
	return &syncengine.Record{
		ExternalID: id,
		Kind:       kind,
		Name:       strings.TrimSpace(name),
		CreatedAt:  createdAt,
		Fields:     map[string]string{},
		References: map[string]syncengine.CategoryID{},
	}, nil
}

// reference resolves value into rec.References[field]. Empty values are skipped.
func reference(ctx context.Context, refs syncengine.References, rec *syncengine.Record, field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	id, err := refs.Resolve(ctx, field, value)
	if err != nil {
		return err
	}
	rec.References[field] = id
	return nil
}
