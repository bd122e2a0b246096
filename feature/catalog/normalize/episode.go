package normalize

import (
	"context"
	"strconv"
	"strings"

	"catalog-sync/core/catalog"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"
)

// EpisodeAdapter normalizes /episode items.
type EpisodeAdapter struct{}

// Kind implements syncengine.Adapter.
func (EpisodeAdapter) Kind() syncengine.Kind {
	return syncengine.KindEpisode
}

// Normalize maps an episode to a record with its code, air date, cast size and season reference.
func (EpisodeAdapter) Normalize(ctx context.Context, raw catalog.RawItem, refs syncengine.References) (*syncengine.Record, error) {
	var item models.EpisodeItem
	if err := decode(raw, &item); err != nil {
		return nil, err
	}

	rec, err := newRecord(syncengine.KindEpisode, item.ID, item.Name, item.Created)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(item.Episode)
	rec.Fields["episode_code"] = code
	rec.Fields["character_count"] = strconv.Itoa(len(item.Characters))

	if strings.TrimSpace(item.AirDate) != "" {
		airDate, err := ParseAirDate(item.AirDate)
		if err != nil {
			return nil, err
		}
		rec.Fields["air_date"] = airDate
	}

	if season, ok := SeasonName(code); ok {
		if err := reference(ctx, refs, rec, VocabEpisodeSeason, season); err != nil {
			return nil, err
		}
	}

	return rec, nil
}
