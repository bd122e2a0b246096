package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"catalog-sync/core/errors"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Locks guards sync runs of a kind across every process sharing the database.
type Locks struct {
	db     *gorm.DB
	ttl    time.Duration
	holder string
	now    func() time.Time
}

// NewLocks creates a Locks store. A lock older than ttl is considered abandoned; ttl <= 0
// never takes a lock over.
func NewLocks(db *gorm.DB, ttl time.Duration) *Locks {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &Locks{
		db:     db,
		ttl:    ttl,
		holder: fmt.Sprintf("%s:%d", host, os.Getpid()),
		now:    time.Now,
	}
}

// Acquire implements syncengine.RunLocker.
func (s *Locks) Acquire(ctx context.Context, kind syncengine.Kind, runID string) error {
	now := s.now().UTC()
	row := models.SyncLock{Kind: string(kind), RunID: runID, Holder: s.holder, AcquiredAt: now}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return errors.NewPersistenceError("acquire sync lock", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if s.ttl > 0 {
		res = s.db.WithContext(ctx).
			Model(&models.SyncLock{}).
			Where("kind = ? AND acquired_at < ?", string(kind), now.Add(-s.ttl)).
			Updates(map[string]any{"run_id": runID, "holder": s.holder, "acquired_at": now})
		if res.Error != nil {
			return errors.NewPersistenceError("take over sync lock", res.Error)
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return errors.ErrRunInProgress
}

// Release implements syncengine.RunLocker. A lock taken over by another run is left alone.
func (s *Locks) Release(ctx context.Context, kind syncengine.Kind, runID string) error {
	err := s.db.WithContext(ctx).
		Where("kind = ? AND run_id = ?", string(kind), runID).
		Delete(&models.SyncLock{}).Error
	if err != nil {
		return errors.NewPersistenceError("release sync lock", err)
	}
	return nil
}

