package models

import (
	"encoding/json"
	"testing"

	"catalog-sync/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterItem_Decode(t *testing.T) {
	raw := `{
		"id": 1,
		"name": "Rick Sanchez",
		"status": "Alive",
		"species": "Human",
		"type": "",
		"gender": "Male",
		"origin": {"name": "Earth (C-137)", "url": "https://rickandmortyapi.com/api/location/1"},
		"location": {"name": "Citadel of Ricks", "url": "https://rickandmortyapi.com/api/location/3"},
		"image": "https://rickandmortyapi.com/api/character/avatar/1.jpeg",
		"episode": ["https://rickandmortyapi.com/api/episode/1"],
		"url": "https://rickandmortyapi.com/api/character/1",
		"created": "2017-11-04T18:48:46.250Z"
	}`

	var item CharacterItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	assert.Equal(t, "Earth (C-137)", item.Origin.Name)
	assert.Equal(t, "Citadel of Ricks", item.Location.Name)
	assert.NoError(t, item.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		item  interface{ Validate() error }
		field string
	}{
		{"MissingID", CharacterItem{Name: "Rick", Created: "2017-11-04T18:48:46.250Z"}, "id"},
		{"MissingName", LocationItem{ID: 1, Created: "2017-11-04T18:48:46.250Z"}, "name"},
		{"MissingCreated", EpisodeItem{ID: 1, Name: "Pilot"}, "created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "records", Record{}.TableName())
	assert.Equal(t, "record_references", RecordReference{}.TableName())
	assert.Equal(t, "categories", Category{}.TableName())
	assert.Equal(t, "media_assets", MediaAsset{}.TableName())
	assert.Equal(t, "sync_runs", SyncRun{}.TableName())
	assert.Len(t, All(), 5)
}
