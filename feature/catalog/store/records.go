package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"catalog-sync/core/errors"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// Records stores synchronized records and their category references.
type Records struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRecords creates a Records store.
func NewRecords(db *gorm.DB) *Records {
	return &Records{db: db, now: time.Now}
}

// FindByExternalID implements syncengine.RecordStore.
func (s *Records) FindByExternalID(ctx context.Context, kind syncengine.Kind, externalID int) ([]syncengine.RecordHandle, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.Record{}).
		Where("kind = ? AND external_id = ?", string(kind), externalID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.NewPersistenceError("find record", err)
	}

	handles := make([]syncengine.RecordHandle, len(ids))
	for i, id := range ids {
		handles[i] = syncengine.RecordHandle(id)
	}
	return handles, nil
}

// Create implements syncengine.RecordStore.
func (s *Records) Create(ctx context.Context, rec *syncengine.Record) (syncengine.RecordHandle, error) {
	row := s.toModel(rec)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return insertReferences(tx, row.ID, rec.References)
	})
	if err != nil {
		return 0, errors.NewPersistenceError("create record", err)
	}
	return syncengine.RecordHandle(row.ID), nil
}

// Update implements syncengine.RecordStore. Every column is overwritten and the references
// are replaced, so values that disappeared upstream disappear here too.
func (s *Records) Update(ctx context.Context, handle syncengine.RecordHandle, rec *syncengine.Record) error {
	row := s.toModel(rec)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Record{ID: uint(handle)}).
			Select("kind", "external_id", "name", "created_on", "fields", "media_asset_id", "synced_at").
			Updates(&row)
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Where("record_id = ?", uint(handle)).Delete(&models.RecordReference{}).Error; err != nil {
			return err
		}
		return insertReferences(tx, uint(handle), rec.References)
	})
	if err != nil {
		return errors.NewPersistenceError("update record", err)
	}
	return nil
}

func (s *Records) toModel(rec *syncengine.Record) models.Record {
	row := models.Record{
		Kind:       string(rec.Kind),
		ExternalID: rec.ExternalID,
		Name:       rec.Name,
		CreatedOn:  rec.CreatedAt.UTC().Format("2006-01-02"),
		Fields:     rec.Fields,
		SyncedAt:   s.now().UTC(),
	}
	if row.Fields == nil {
		row.Fields = map[string]string{}
	}
	if rec.Media != nil {
		id := rec.Media.ID
		row.MediaAssetID = &id
	}
	return row
}

func insertReferences(tx *gorm.DB, recordID uint, refs map[string]syncengine.CategoryID) error {
	if len(refs) == 0 {
		return nil
	}

	fields := make([]string, 0, len(refs))
	for f := range refs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	rows := make([]models.RecordReference, len(fields))
	for i, f := range fields {
		rows[i] = models.RecordReference{RecordID: recordID, Field: f, CategoryID: uint(refs[f])}
	}
	return tx.Create(&rows).Error
}

// RecordView is a stored record with its references and media resolved to names.
type RecordView struct {
	ID         uint              `json:"id"`
	Kind       string            `json:"kind"`
	ExternalID int               `json:"external_id"`
	Name       string            `json:"name"`
	CreatedOn  string            `json:"created_on"`
	Fields     map[string]string `json:"fields"`
	References map[string]string `json:"references"`
	Media      *MediaView        `json:"media,omitempty"`
	SyncedAt   time.Time         `json:"synced_at"`
	// Duplicates counts other records sharing the kind and external id.
	Duplicates int `json:"duplicates"`
}

// MediaView describes the media attached to a record.
type MediaView struct {
	Name        string `json:"name"`
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type referenceRow struct {
	Field string
	Name  string
}

// Get returns the record of kind with externalID, nil when none exists.
// When duplicates exist the lowest id wins, as it does for updates.
func (s *Records) Get(ctx context.Context, kind syncengine.Kind, externalID int) (*RecordView, error) {
	db := s.db.WithContext(ctx)

	var rows []models.Record
	err := db.Where("kind = ? AND external_id = ?", string(kind), externalID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.NewPersistenceError("get record", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]

	var refs []referenceRow
	err = db.Table("record_references").
		Select("record_references.field AS field, categories.name AS name").
		Joins("JOIN categories ON categories.id = record_references.category_id").
		Where("record_references.record_id = ?", row.ID).
		Scan(&refs).Error
	if err != nil {
		return nil, errors.NewPersistenceError("get record references", err)
	}

	view := &RecordView{
		ID:         row.ID,
		Kind:       row.Kind,
		ExternalID: row.ExternalID,
		Name:       row.Name,
		CreatedOn:  row.CreatedOn,
		Fields:     row.Fields,
		References: make(map[string]string, len(refs)),
		SyncedAt:   row.SyncedAt,
		Duplicates: len(rows) - 1,
	}
	for _, r := range refs {
		view.References[r.Field] = r.Name
	}

	if row.MediaAssetID != nil {
		var asset models.MediaAsset
		if err := db.Take(&asset, *row.MediaAssetID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.NewPersistenceError("get record media", err)
			}
		} else {
			view.Media = &MediaView{
				Name:        asset.Name,
				ObjectKey:   asset.ObjectKey,
				ContentType: asset.ContentType,
				Size:        asset.Size,
			}
		}
	}

	return view, nil
}

// Count returns how many records of kind are stored.
func (s *Records) Count(ctx context.Context, kind syncengine.Kind) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Record{}).Where("kind = ?", string(kind)).Count(&n).Error; err != nil {
		return 0, errors.NewPersistenceError(fmt.Sprintf("count %s records", kind), err)
	}
	return n, nil
}
