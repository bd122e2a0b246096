// Package normalize holds one syncengine.Adapter per catalog kind.
//
// Each adapter decodes the raw item into its typed model, fails fast with a
// ValidationError when id, name or created is missing, and fills a Record:
//
//	character  fields: type
//	           refs:   character_gender, character_species, character_status,
//	                   character_location, character_origin
//	           media:  portrait keyed by the logical name of the character
//	location   fields: resident_count
//	           refs:   location_type, location_dimension
//	episode    fields: episode_code, air_date (YYYY-MM-DD), character_count
//	           refs:   episode_season ("S01E07" -> "Season 1")
//
// Empty reference values are left out of the record instead of creating an empty category.
package normalize
