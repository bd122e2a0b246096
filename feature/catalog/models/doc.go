// Package models holds the catalog persistence models and the raw item shapes.
//
// db.go maps the tables written by feature/catalog/store:
//
//	records            one row per (kind, external_id), scalar fields as JSON
//	record_references  record field -> category
//	categories         unique (vocabulary, name)
//	media_assets       unique logical name -> object key in the media bucket
//	sync_runs          one row per finished sync run
//
// items.go decodes the catalog JSON of each kind at the boundary so normalizers
// work on typed values.
package models
