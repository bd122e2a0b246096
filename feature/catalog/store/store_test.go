package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"testing"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/database"
	"catalog-sync/core/errors"
	"catalog-sync/core/storage/mocks"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func rick(refs map[string]syncengine.CategoryID, media *syncengine.MediaHandle) *syncengine.Record {
	return &syncengine.Record{
		ExternalID: 1,
		Kind:       syncengine.KindCharacter,
		Name:       "Rick Sanchez",
		CreatedAt:  time.Date(2017, 11, 4, 0, 0, 0, 0, time.UTC),
		Fields:     map[string]string{"type": ""},
		References: refs,
		Media:      media,
	}
}

func TestRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		db := setupTestDB(t)
		cats := NewCategories(db)
		records := NewRecords(db)

		human, created, err := cats.CreateCategory(ctx, "character_species", "Human")
		require.NoError(t, err)
		require.True(t, created)
		citadel, _, err := cats.CreateCategory(ctx, "character_location", "Citadel of Ricks")
		require.NoError(t, err)

		handle, err := records.Create(ctx, rick(map[string]syncengine.CategoryID{
			"character_species":  human,
			"character_location": citadel,
		}, nil))
		require.NoError(t, err)
		assert.NotZero(t, handle)

		handles, err := records.FindByExternalID(ctx, syncengine.KindCharacter, 1)
		require.NoError(t, err)
		assert.Equal(t, []syncengine.RecordHandle{handle}, handles)

		view, err := records.Get(ctx, syncengine.KindCharacter, 1)
		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, "Rick Sanchez", view.Name)
		assert.Equal(t, "2017-11-04", view.CreatedOn)
		assert.Equal(t, map[string]string{
			"character_species":  "Human",
			"character_location": "Citadel of Ricks",
		}, view.References)
		assert.Nil(t, view.Media)
		assert.Zero(t, view.Duplicates)
	})

	t.Run("KindsAreSeparate", func(t *testing.T) {
		db := setupTestDB(t)
		records := NewRecords(db)

		_, err := records.Create(ctx, rick(nil, nil))
		require.NoError(t, err)

		handles, err := records.FindByExternalID(ctx, syncengine.KindLocation, 1)
		require.NoError(t, err)
		assert.Empty(t, handles)

		view, err := records.Get(ctx, syncengine.KindEpisode, 1)
		require.NoError(t, err)
		assert.Nil(t, view)
	})

	t.Run("UpdateReplacesEverything", func(t *testing.T) {
		db := setupTestDB(t)
		cats := NewCategories(db)
		records := NewRecords(db)

		alive, _, err := cats.CreateCategory(ctx, "character_status", "Alive")
		require.NoError(t, err)
		dead, _, err := cats.CreateCategory(ctx, "character_status", "Dead")
		require.NoError(t, err)
		human, _, err := cats.CreateCategory(ctx, "character_species", "Human")
		require.NoError(t, err)

		handle, err := records.Create(ctx, rick(map[string]syncengine.CategoryID{
			"character_status":  alive,
			"character_species": human,
		}, nil))
		require.NoError(t, err)

		updated := rick(map[string]syncengine.CategoryID{"character_status": dead}, nil)
		updated.Name = "Rick Sanchez (C-137)"
		updated.Fields = map[string]string{"type": "Scientist"}
		require.NoError(t, records.Update(ctx, handle, updated))

		view, err := records.Get(ctx, syncengine.KindCharacter, 1)
		require.NoError(t, err)
		assert.Equal(t, handle, syncengine.RecordHandle(view.ID))
		assert.Equal(t, "Rick Sanchez (C-137)", view.Name)
		assert.Equal(t, "Scientist", view.Fields["type"])
		assert.Equal(t, map[string]string{"character_status": "Dead"}, view.References)

		var refCount int64
		require.NoError(t, db.Model(&models.RecordReference{}).Count(&refCount).Error)
		assert.Equal(t, int64(1), refCount)

		n, err := records.Count(ctx, syncengine.KindCharacter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("DuplicatesLowestFirst", func(t *testing.T) {
		db := setupTestDB(t)
		records := NewRecords(db)

		for i := 0; i < 3; i++ {
			require.NoError(t, db.Create(&models.Record{Kind: "character", ExternalID: 7, Name: fmt.Sprintf("copy %d", i)}).Error)
		}

		handles, err := records.FindByExternalID(ctx, syncengine.KindCharacter, 7)
		require.NoError(t, err)
		require.Len(t, handles, 3)
		assert.Less(t, handles[0], handles[1])
		assert.Less(t, handles[1], handles[2])

		view, err := records.Get(ctx, syncengine.KindCharacter, 7)
		require.NoError(t, err)
		assert.Equal(t, "copy 0", view.Name)
		assert.Equal(t, 2, view.Duplicates)
	})

	t.Run("MediaView", func(t *testing.T) {
		db := setupTestDB(t)
		assets := NewAssets(db, new(mocks.Client), "catalog", "portraits")
		records := NewRecords(db)

		h, err := assets.CreateAssetRecord(ctx, "rick-sanchez", "https://img/1.jpeg", syncengine.StoredObject{
			Key: "portraits/rick-sanchez.jpeg", ContentType: "image/jpeg", Size: 3,
		})
		require.NoError(t, err)

		_, err = records.Create(ctx, rick(nil, h))
		require.NoError(t, err)

		view, err := records.Get(ctx, syncengine.KindCharacter, 1)
		require.NoError(t, err)
		require.NotNil(t, view.Media)
		assert.Equal(t, "rick-sanchez", view.Media.Name)
		assert.Equal(t, "portraits/rick-sanchez.jpeg", view.Media.ObjectKey)
	})

	t.Run("QueryErrorIsPersistence", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT `id` FROM `records`").WillReturnError(fmt.Errorf("connection reset"))

		_, err := NewRecords(db).FindByExternalID(ctx, syncengine.KindCharacter, 1)
		assert.Equal(t, errors.CategoryPersistence, errors.Classify(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateRollsBack", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `records`").WillReturnError(fmt.Errorf("lock wait timeout"))
		mock.ExpectRollback()

		err := NewRecords(db).Update(ctx, 3, rick(nil, nil))
		var pe *errors.PersistenceError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "update record", pe.Op)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cats := NewCategories(db)

	_, found, err := cats.FindCategory(ctx, "character_species", "Human")
	require.NoError(t, err)
	assert.False(t, found)

	id, created, err := cats.CreateCategory(ctx, "character_species", "Human")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := cats.CreateCategory(ctx, "character_species", "Human")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	other, _, err := cats.CreateCategory(ctx, "character_origin", "Human")
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	got, found, err := cats.FindCategory(ctx, "character_species", "Human")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)

	list, err := cats.List(ctx, "character_species")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAssets(t *testing.T) {
	ctx := context.Background()

	t.Run("StoreAndRegister", func(t *testing.T) {
		db := setupTestDB(t)
		client := new(mocks.Client)
		assets := NewAssets(db, client, "catalog", "/portraits/")

		body := []byte("jpeg-bytes")
		sum := sha256.Sum256(body)
		client.On("PutObject", mock.Anything, "catalog", "portraits/rick-sanchez.jpeg", mock.Anything, int64(len(body)),
			mock.MatchedBy(func(opts minio.PutObjectOptions) bool { return opts.ContentType == "image/jpeg" })).
			Return(minio.UploadInfo{}, nil)

		obj, err := assets.StoreAsset(ctx, "rick-sanchez", "https://rickandmortyapi.com/api/character/avatar/1.jpeg",
			&catalog.Response{StatusCode: 200, Body: body, ContentType: "image/jpeg"})
		require.NoError(t, err)
		assert.Equal(t, "portraits/rick-sanchez.jpeg", obj.Key)
		assert.Equal(t, hex.EncodeToString(sum[:]), obj.Checksum)
		assert.Equal(t, int64(len(body)), obj.Size)

		h, err := assets.CreateAssetRecord(ctx, "rick-sanchez", "https://img/1.jpeg", obj)
		require.NoError(t, err)

		again, err := assets.CreateAssetRecord(ctx, "rick-sanchez", "https://img/other.jpeg", obj)
		require.NoError(t, err)
		assert.Equal(t, h.ID, again.ID)

		found, err := assets.FindAsset(ctx, "rick-sanchez")
		require.NoError(t, err)
		assert.Equal(t, h, found)

		missing, err := assets.FindAsset(ctx, "morty-smith")
		require.NoError(t, err)
		assert.Nil(t, missing)

		client.AssertExpectations(t)
	})

	t.Run("PutFailure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, fmt.Errorf("bucket unavailable"))

		_, err := NewAssets(setupTestDB(t), client, "catalog", "").StoreAsset(ctx, "x", "https://img/x.png", &catalog.Response{Body: []byte("x")})
		assert.Equal(t, errors.CategoryPersistence, errors.Classify(err))
	})

	t.Run("DeleteObject", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("RemoveObject", mock.Anything, "catalog", "portraits/x.png", mock.Anything).Return(nil)

		require.NoError(t, NewAssets(nil, client, "catalog", "portraits").DeleteObject(ctx, "portraits/x.png"))
		client.AssertExpectations(t)
	})

	t.Run("Open", func(t *testing.T) {
		db := setupTestDB(t)
		client := new(mocks.Client)
		assets := NewAssets(db, client, "catalog", "portraits")

		_, err := assets.CreateAssetRecord(ctx, "rick-sanchez", "https://img/1.jpeg", syncengine.StoredObject{
			Key: "portraits/rick-sanchez.jpeg", ContentType: "image/jpeg", Size: 3,
		})
		require.NoError(t, err)
		client.On("GetObject", mock.Anything, "catalog", "portraits/rick-sanchez.jpeg", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("abc"))), nil)

		asset, rc, err := assets.Open(ctx, "rick-sanchez")
		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, "image/jpeg", asset.ContentType)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))

		asset, rc, err = assets.Open(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, asset)
		assert.Nil(t, rc)
	})
}

func TestObjectKey(t *testing.T) {
	assets := NewAssets(nil, nil, "catalog", "portraits")

	tests := []struct {
		name        string
		url         string
		contentType string
		want        string
	}{
		{"FromURL", "https://rickandmortyapi.com/api/character/avatar/1.jpeg", "image/jpeg", "portraits/rick.jpeg"},
		{"UpperCaseExt", "https://img/1.PNG", "", "portraits/rick.png"},
		{"FromContentType", "https://img/avatar", "image/png", "portraits/rick.png"},
		{"NoHint", "https://img/avatar", "", "portraits/rick"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assets.ObjectKey("rick", tt.url, tt.contentType))
		})
	}

	assert.Equal(t, "rick.gif", NewAssets(nil, nil, "catalog", "").ObjectKey("rick", "https://img/a.gif", ""))
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runs := NewRuns(db)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, kind := range []syncengine.Kind{syncengine.KindCharacter, syncengine.KindLocation, syncengine.KindCharacter} {
		report := &syncengine.Report{
			RunID:        fmt.Sprintf("run-%d", i),
			Kind:         kind,
			Status:       syncengine.StatusPartial,
			Attempted:    3,
			Created:      2,
			Failed:       1,
			Failures:     []syncengine.ItemFailure{{ExternalID: 9, Reason: "missing", Category: errors.CategoryValidation}},
			Warnings:     []string{},
			PageFailures: []syncengine.PageFailure{{Page: 2, Reason: "timeout"}},
			StartedAt:    base.Add(time.Duration(i) * time.Minute),
			FinishedAt:   base.Add(time.Duration(i)*time.Minute + 1500*time.Millisecond),
			Duration:     1500 * time.Millisecond,
		}
		require.NoError(t, runs.RecordRun(ctx, report))
	}

	all, err := runs.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "run-2", all[0].ID)

	chars, err := runs.List(ctx, "character", 1)
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, "run-2", chars[0].ID)

	run, err := runs.Get(ctx, "run-0")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 1, run.PagesFailed)
	assert.Equal(t, int64(1500), run.DurationMs)
	assert.Equal(t, []syncengine.ItemFailure{{ExternalID: 9, Reason: "missing", Category: errors.CategoryValidation}}, run.Failures)

	missing, err := runs.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLocks(t *testing.T) {
	ctx := context.Background()

	holderOf := func(t *testing.T, db *gorm.DB, kind syncengine.Kind) string {
		t.Helper()
		var lock models.SyncLock
		err := db.Where("kind = ?", string(kind)).Take(&lock).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ""
		}
		require.NoError(t, err)
		return lock.RunID
	}

	t.Run("ExclusivePerKind", func(t *testing.T) {
		db := setupTestDB(t)
		server := NewLocks(db, time.Hour)
		cli := NewLocks(db, time.Hour)

		require.NoError(t, server.Acquire(ctx, syncengine.KindCharacter, "run-a"))
		err := cli.Acquire(ctx, syncengine.KindCharacter, "run-b")
		assert.ErrorIs(t, err, errors.ErrRunInProgress)
		assert.Equal(t, "run-a", holderOf(t, db, syncengine.KindCharacter))

		require.NoError(t, cli.Acquire(ctx, syncengine.KindLocation, "run-c"))

		require.NoError(t, server.Release(ctx, syncengine.KindCharacter, "run-a"))
		assert.Equal(t, "", holderOf(t, db, syncengine.KindCharacter))
		require.NoError(t, cli.Acquire(ctx, syncengine.KindCharacter, "run-b"))
		assert.Equal(t, "run-b", holderOf(t, db, syncengine.KindCharacter))
	})

	t.Run("ReleaseKeepsOtherRunsLock", func(t *testing.T) {
		db := setupTestDB(t)
		locks := NewLocks(db, time.Hour)

		require.NoError(t, locks.Acquire(ctx, syncengine.KindEpisode, "run-a"))
		require.NoError(t, locks.Release(ctx, syncengine.KindEpisode, "run-stale"))
		assert.Equal(t, "run-a", holderOf(t, db, syncengine.KindEpisode))
	})

	t.Run("AbandonedLockIsTakenOver", func(t *testing.T) {
		db := setupTestDB(t)
		start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		crashed := NewLocks(db, time.Hour)
		crashed.now = func() time.Time { return start }
		require.NoError(t, crashed.Acquire(ctx, syncengine.KindCharacter, "run-a"))

		soon := NewLocks(db, time.Hour)
		soon.now = func() time.Time { return start.Add(30 * time.Minute) }
		assert.ErrorIs(t, soon.Acquire(ctx, syncengine.KindCharacter, "run-b"), errors.ErrRunInProgress)

		later := NewLocks(db, time.Hour)
		later.now = func() time.Time { return start.Add(2 * time.Hour) }
		require.NoError(t, later.Acquire(ctx, syncengine.KindCharacter, "run-c"))
		assert.Equal(t, "run-c", holderOf(t, db, syncengine.KindCharacter))

		// the crashed run finishing late must not free the new holder's lock
		require.NoError(t, crashed.Release(ctx, syncengine.KindCharacter, "run-a"))
		assert.Equal(t, "run-c", holderOf(t, db, syncengine.KindCharacter))
	})

	t.Run("ZeroTTLNeverTakesOver", func(t *testing.T) {
		db := setupTestDB(t)
		start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		first := NewLocks(db, 0)
		first.now = func() time.Time { return start }
		require.NoError(t, first.Acquire(ctx, syncengine.KindCharacter, "run-a"))

		second := NewLocks(db, 0)
		second.now = func() time.Time { return start.Add(48 * time.Hour) }
		assert.ErrorIs(t, second.Acquire(ctx, syncengine.KindCharacter, "run-b"), errors.ErrRunInProgress)
	})

	t.Run("QueryErrorIsPersistence", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `sync_locks`").WillReturnError(fmt.Errorf("connection reset"))
		mock.ExpectRollback()

		err := NewLocks(db, time.Hour).Acquire(ctx, syncengine.KindCharacter, "run-a")
		var pe *errors.PersistenceError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "acquire sync lock", pe.Op)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
