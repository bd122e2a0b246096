package store

import (
	"context"

	"catalog-sync/core/errors"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Categories stores vocabulary values.
type Categories struct {
	db *gorm.DB
}

// NewCategories creates a Categories store.
func NewCategories(db *gorm.DB) *Categories {
	return &Categories{db: db}
}

// FindCategory implements syncengine.CategoryStore.
func (s *Categories) FindCategory(ctx context.Context, vocabulary, name string) (syncengine.CategoryID, bool, error) {
	var c models.Category
	err := s.db.WithContext(ctx).
		Where("vocabulary = ? AND name = ?", vocabulary, name).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.NewPersistenceError("find category", err)
	}
	return syncengine.CategoryID(c.ID), true, nil
}

// CreateCategory implements syncengine.CategoryStore. A row inserted concurrently by another
// process is returned instead of failing on the unique index.
func (s *Categories) CreateCategory(ctx context.Context, vocabulary, name string) (syncengine.CategoryID, bool, error) {
	c := models.Category{Vocabulary: vocabulary, Name: name}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&c)
	if res.Error != nil {
		return 0, false, errors.NewPersistenceError("create category", res.Error)
	}
	if res.RowsAffected == 1 && c.ID != 0 {
		return syncengine.CategoryID(c.ID), true, nil
	}

	id, found, err := s.FindCategory(ctx, vocabulary, name)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, errors.NewPersistenceError("create category", gorm.ErrRecordNotFound)
	}
	return id, false, nil
}

// List returns the categories of vocabulary ordered by name.
func (s *Categories) List(ctx context.Context, vocabulary string) ([]models.Category, error) {
	var out []models.Category
	if err := s.db.WithContext(ctx).Where("vocabulary = ?", vocabulary).Order("name ASC").Find(&out).Error; err != nil {
		return nil, errors.NewPersistenceError("list categories", err)
	}
	return out, nil
}
