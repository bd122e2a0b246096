package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"catalog-sync/core/catalog"
	"catalog-sync/core/errors"
	"catalog-sync/core/storage"
	"catalog-sync/core/syncengine"
	"catalog-sync/feature/catalog/models"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultContentType = "application/octet-stream"

// Assets stores media bytes in a bucket and their metadata in the database.
type Assets struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	prefix string
}

// NewAssets creates an Assets store writing objects under prefix in bucket.
func NewAssets(db *gorm.DB, client storage.Client, bucket, prefix string) *Assets {
	return &Assets{
		db:     db,
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// FindAsset implements syncengine.AssetStore.
func (s *Assets) FindAsset(ctx context.Context, logicalName string) (*syncengine.MediaHandle, error) {
	asset, err := s.find(ctx, logicalName)
	if err != nil || asset == nil {
		return nil, err
	}
	return toHandle(asset), nil
}

func (s *Assets) find(ctx context.Context, logicalName string) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	err := s.db.WithContext(ctx).Where("name = ?", logicalName).Take(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewPersistenceError("find media asset", err)
	}
	return &asset, nil
}

// StoreAsset implements syncengine.AssetStore.
func (s *Assets) StoreAsset(ctx context.Context, logicalName, sourceURL string, media *catalog.Response) (syncengine.StoredObject, error) {
	contentType := media.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	key := s.ObjectKey(logicalName, sourceURL, contentType)
	sum := sha256.Sum256(media.Body)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(media.Body), int64(len(media.Body)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"source-url": sourceURL},
	})
	if err != nil {
		return syncengine.StoredObject{}, errors.NewPersistenceError("put object "+key, err)
	}

	return syncengine.StoredObject{
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(media.Body)),
		Checksum:    hex.EncodeToString(sum[:]),
	}, nil
}

// CreateAssetRecord implements syncengine.AssetStore. When another process registered the
// same name first, its row is returned.
func (s *Assets) CreateAssetRecord(ctx context.Context, logicalName, sourceURL string, obj syncengine.StoredObject) (*syncengine.MediaHandle, error) {
	asset := models.MediaAsset{
		Name:        logicalName,
		ObjectKey:   obj.Key,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		Checksum:    obj.Checksum,
		SourceURL:   sourceURL,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&asset)
	if res.Error != nil {
		return nil, errors.NewPersistenceError("create media asset", res.Error)
	}
	if res.RowsAffected == 1 && asset.ID != 0 {
		return toHandle(&asset), nil
	}

	existing, err := s.find(ctx, logicalName)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.NewPersistenceError("create media asset", gorm.ErrRecordNotFound)
	}
	return toHandle(existing), nil
}

// DeleteObject implements syncengine.AssetStore.
func (s *Assets) DeleteObject(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.NewPersistenceError("remove object "+key, err)
	}
	return nil
}

// Open returns the metadata and content of the asset registered under logicalName.
// Both are nil when no such asset exists. The caller closes the reader.
func (s *Assets) Open(ctx context.Context, logicalName string) (*models.MediaAsset, io.ReadCloser, error) {
	asset, err := s.find(ctx, logicalName)
	if err != nil || asset == nil {
		return nil, nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, asset.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.NewPersistenceError("get object "+asset.ObjectKey, err)
	}
	return asset, obj, nil
}

// ObjectKey builds the bucket key of a media asset. The extension comes from the source URL,
// falling back to the content type.
func (s *Assets) ObjectKey(logicalName, sourceURL, contentType string) string {
	ext := ""
	if u, err := url.Parse(sourceURL); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}
	if ext == "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
				ext = exts[0]
			}
		}
	}

	key := logicalName + ext
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

func toHandle(a *models.MediaAsset) *syncengine.MediaHandle {
	return &syncengine.MediaHandle{ID: a.ID, Name: a.Name, ObjectKey: a.ObjectKey}
}
