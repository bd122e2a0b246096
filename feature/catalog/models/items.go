package models

import (
	"strings"

	"catalog-sync/core/errors"
)

// NamedRef is a nested {name, url} reference as served by the catalog.
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CharacterItem is one entry of /character.
type CharacterItem struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   NamedRef `json:"origin"`
	Location NamedRef `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// Validate checks the fields every record needs.
func (c CharacterItem) Validate() error {
	return validateCommon(c.ID, c.Name, c.Created)
}

// LocationItem is one entry of /location.
type LocationItem struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Dimension string   `json:"dimension"`
	Residents []string `json:"residents"`
	URL       string   `json:"url"`
	Created   string   `json:"created"`
}

// Validate checks the fields every record needs.
func (l LocationItem) Validate() error {
	return validateCommon(l.ID, l.Name, l.Created)
}

// EpisodeItem is one entry of /episode.
type EpisodeItem struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	AirDate string `json:"air_date"`
	// Episode is the code, e.g. S01E01.
	Episode    string   `json:"episode"`
	Characters []string `json:"characters"`
	URL        string   `json:"url"`
	Created    string   `json:"created"`
}

// Validate checks the fields every record needs.
func (e EpisodeItem) Validate() error {
	return validateCommon(e.ID, e.Name, e.Created)
}

func validateCommon(id int, name, created string) error {
	switch {
	case id <= 0:
		return errors.NewValidationError("id", "missing or not positive")
	case strings.TrimSpace(name) == "":
		return errors.NewValidationError("name", "missing")
	case strings.TrimSpace(created) == "":
		return errors.NewValidationError("created", "missing")
	}
	return nil
}
