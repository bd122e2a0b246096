package models

import (
	"time"

	"catalog-sync/core/syncengine"
)

// Record is a synchronized catalog item.
// (kind, external_id) is indexed but not unique so duplicates stay detectable.
type Record struct {
	ID         uint   `gorm:"column:id;primaryKey"`
	Kind       string `gorm:"column:kind;size:32;not null;index:idx_records_kind_external,priority:1"`
	ExternalID int    `gorm:"column:external_id;not null;index:idx_records_kind_external,priority:2"`
	Name       string `gorm:"column:name;size:255"`
	// CreatedOn is the catalog creation date as YYYY-MM-DD (UTC).
	CreatedOn    string            `gorm:"column:created_on;size:10"`
	Fields       map[string]string `gorm:"column:fields;serializer:json;type:text"`
	MediaAssetID *uint             `gorm:"column:media_asset_id"`
	SyncedAt     time.Time         `gorm:"column:synced_at"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "records"
}

// RecordReference links a record field to a category.
type RecordReference struct {
	ID         uint   `gorm:"column:id;primaryKey"`
	RecordID   uint   `gorm:"column:record_id;not null;index"`
	Field      string `gorm:"column:field;size:64;not null"`
	CategoryID uint   `gorm:"column:category_id;not null"`
}

// TableName overrides the table name.
func (RecordReference) TableName() string {
	return "record_references"
}

// Category is a named value of a vocabulary (e.g. character_species/Human).
type Category struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	Vocabulary string    `gorm:"column:vocabulary;size:64;not null;uniqueIndex:idx_categories_vocabulary_name,priority:1" json:"vocabulary"`
	Name       string    `gorm:"column:name;size:255;not null;uniqueIndex:idx_categories_vocabulary_name,priority:2" json:"name"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (Category) TableName() string {
	return "categories"
}

// MediaAsset is the metadata of an object stored in the media bucket.
type MediaAsset struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;size:255;not null;uniqueIndex"`
	ObjectKey   string `gorm:"column:object_key;size:512;not null"`
	ContentType string `gorm:"column:content_type;size:128"`
	Size        int64  `gorm:"column:size"`
	// Checksum is the hex SHA-256 of the content, kept for diagnostics.
	Checksum  string    `gorm:"column:checksum;size:64"`
	SourceURL string    `gorm:"column:source_url;size:512"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (MediaAsset) TableName() string {
	return "media_assets"
}

// SyncRun is the persisted report of a sync run.
type SyncRun struct {
	ID                string                   `gorm:"column:id;primaryKey;size:36" json:"run_id"`
	Kind              string                   `gorm:"column:kind;size:32;index" json:"kind"`
	Status            string                   `gorm:"column:status;size:16" json:"status"`
	Attempted         int                      `gorm:"column:attempted" json:"attempted"`
	Created           int                      `gorm:"column:created" json:"created"`
	Updated           int                      `gorm:"column:updated" json:"updated"`
	Failed            int                      `gorm:"column:failed" json:"failed"`
	PagesTotal        int                      `gorm:"column:pages_total" json:"pages_total"`
	PagesFailed       int                      `gorm:"column:pages_failed" json:"pages_failed"`
	CategoriesCreated int                      `gorm:"column:categories_created" json:"categories_created"`
	AssetsCreated     int                      `gorm:"column:assets_created" json:"assets_created"`
	Failures          []syncengine.ItemFailure `gorm:"column:failures;serializer:json;type:text" json:"failures"`
	Warnings          []string                 `gorm:"column:warnings;serializer:json;type:text" json:"warnings"`
	Error             string                   `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt         time.Time                `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt        time.Time                `gorm:"column:finished_at" json:"finished_at"`
	DurationMs        int64                    `gorm:"column:duration_ms" json:"duration_ms"`
}

// TableName overrides the table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// SyncLock marks the kind a process is currently synchronizing.
type SyncLock struct {
	Kind       string    `gorm:"column:kind;primaryKey;size:32"`
	RunID      string    `gorm:"column:run_id;size:36;not null"`
	Holder     string    `gorm:"column:holder;size:255"`
	AcquiredAt time.Time `gorm:"column:acquired_at;not null"`
}

// TableName overrides the table name.
func (SyncLock) TableName() string {
	return "sync_locks"
}

// All returns every model for migrations.
func All() []any {
	return []any{&Record{}, &RecordReference{}, &Category{}, &MediaAsset{}, &SyncRun{}, &SyncLock{}}
}
