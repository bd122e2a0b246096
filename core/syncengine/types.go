package syncengine

import (
	"fmt"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/errors"
)

// Kind identifies a catalog collection.
type Kind string

const (
	KindCharacter Kind = catalog.KindCharacter
	KindLocation  Kind = catalog.KindLocation
	KindEpisode   Kind = catalog.KindEpisode
)

// Kinds returns every kind in the order `sync all` runs them.
func Kinds() []Kind {
	return []Kind{KindCharacter, KindLocation, KindEpisode}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.NewConfigurationError("kind", fmt.Sprintf("unknown kind %q", s))
}

// CategoryID is the stable id of a category row.
type CategoryID uint

// RecordHandle is the stable id of a stored record.
type RecordHandle uint

// MediaHandle references a stored media asset.
type MediaHandle struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ObjectKey string `json:"object_key"`
}

// StoredObject describes bytes written to object storage.
type StoredObject struct {
	Key         string
	ContentType string
	Size        int64
	Checksum    string
}

// Record is a normalized catalog item ready to be upserted.
type Record struct {
	// ExternalID is the id assigned by the catalog.
	ExternalID int
	Kind       Kind
	Name       string
	// CreatedAt is the catalog creation date in UTC, time of day discarded.
	CreatedAt time.Time
	// Fields holds kind-specific scalar values.
	Fields map[string]string
	// References maps a reference field to its resolved category.
	References map[string]CategoryID
	// Media is the attached asset, nil when the kind has none.
	Media *MediaHandle
}

// Outcome is the upsert decision taken for a record.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)
