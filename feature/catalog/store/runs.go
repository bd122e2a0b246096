package store

import (
	"context"

	"catalog-sync/core/errors"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// Runs stores sync reports.
type Runs struct {
	db *gorm.DB
}

// NewRuns creates a Runs store.
func NewRuns(db *gorm.DB) *Runs {
	return &Runs{db: db}
}

// RecordRun implements syncengine.RunRecorder.
func (s *Runs) RecordRun(ctx context.Context, report *syncengine.Report) error {
	row := models.SyncRun{
		ID:                report.RunID,
		Kind:              string(report.Kind),
		Status:            report.Status,
		Attempted:         report.Attempted,
		Created:           report.Created,
		Updated:           report.Updated,
		Failed:            report.Failed,
		PagesTotal:        report.PagesTotal,
		PagesFailed:       len(report.PageFailures),
		CategoriesCreated: report.CategoriesCreated,
		AssetsCreated:     report.AssetsCreated,
		Failures:          report.Failures,
		Warnings:          report.Warnings,
		Error:             report.Error,
		StartedAt:         report.StartedAt.UTC(),
		FinishedAt:        report.FinishedAt.UTC(),
		DurationMs:        report.Duration.Milliseconds(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.NewPersistenceError("record sync run", err)
	}
	return nil
}

// List returns the most recent runs, newest first. An empty kind lists every kind.
// limit is clamped to [1, 200] and defaults to 20.
func (s *Runs) List(ctx context.Context, kind string, limit int) ([]models.SyncRun, error) {
	switch {
	case limit <= 0:
		limit = defaultRunLimit
	case limit > maxRunLimit:
		limit = maxRunLimit
	}

	q := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}

	runs := []models.SyncRun{}
	if err := q.Find(&runs).Error; err != nil {
		return nil, errors.NewPersistenceError("list sync runs", err)
	}
	return runs, nil
}

// Get returns one run, nil when absent.
func (s *Runs) Get(ctx context.Context, id string) (*models.SyncRun, error) {
	var run models.SyncRun
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get sync run", err)
	}
	return &run, nil
}
