package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContainerNotFound = errors.New("storage container not found")
	ErrObjectNotFound    = errors.New("storage object not found")
	ErrAccessDenied      = errors.New("storage object is not public and no valid token was supplied")
)

// UploadOptions mirrors the options accepted by the upload surface.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	MakePublic   bool
}

// Service is the object-storage layer: container catalog and object
// metadata in Postgres, bytes behind a BlobClient, signed URLs minted
// by the Signer and memoized in the URLCache.
type Service struct {
	db      *gorm.DB
	blob    BlobClient
	signer  *Signer
	cache   *URLCache
	baseURL string
}

func NewService(db *gorm.DB, blob BlobClient, signer *Signer, cache *URLCache, baseURL string) *Service {
	return &Service{
		db:      db,
		blob:    blob,
		signer:  signer,
		cache:   cache,
		baseURL: baseURL,
	}
}

// EnsureContainer creates the container row if it does not exist.
// Called at startup for the default submissions container.
func (s *Service) EnsureContainer(name string, public bool) error {
	container := Container{Name: name, Public: public}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&container).Error
	if err != nil {
		return fmt.Errorf("failed to ensure container %q: %w", name, err)
	}
	return nil
}

// ListContainers returns every container, oldest first.
func (s *Service) ListContainers(ctx context.Context) ([]Container, error) {
	var containers []Container
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&containers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return containers, nil
}

// Upload writes bytes to <container>/<path> and upserts the catalog
// row. The container must already exist.
func (s *Service) Upload(ctx context.Context, container, path string, data []byte, opts UploadOptions) (*Object, error) {
	var c Container
	if err := s.db.WithContext(ctx).Where("name = ?", container).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("container %q: %w", container, ErrContainerNotFound)
		}
		return nil, fmt.Errorf("failed to look up container %q: %w", container, err)
	}

	if err := s.blob.Upload(container+"/"+path, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store object %s/%s: %w", container, path, err)
	}

	obj := Object{
		ContainerName: container,
		Path:          path,
		ContentType:   opts.ContentType,
		CacheControl:  opts.CacheControl,
		Size:          int64(len(data)),
		Public:        opts.MakePublic,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "container_name"}, {Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "cache_control", "size", "public", "updated_at"}),
	}).Create(&obj).Error
	if err != nil {
		return nil, fmt.Errorf("failed to catalog object %s/%s: %w", container, path, err)
	}

	return &obj, nil
}

// SetPublic flips the object's public flag.
func (s *Service) SetPublic(ctx context.Context, container, path string, public bool) error {
	result := s.db.WithContext(ctx).Model(&Object{}).
		Where("container_name = ? AND path = ?", container, path).
		Update("public", public)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", container, path, ErrObjectNotFound)
	}
	return nil
}

// SignedURL returns a time-limited URL for the object, serving from the
// cache when a sufficiently fresh one exists. Signing fails if the
// object is not catalogued.
func (s *Service) SignedURL(ctx context.Context, container, path string, ttl time.Duration) (string, error) {
	if cached := s.cache.Get(ctx, container, path, ttl); cached != "" {
		return cached, nil
	}

	var obj Object
	if err := s.db.WithContext(ctx).Where("container_name = ? AND path = ?", container, path).First(&obj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%s/%s: %w", container, path, ErrObjectNotFound)
		}
		return "", err
	}

	token, err := s.signer.Sign(container, path, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s/%s: %w", container, path, err)
	}

	url := fmt.Sprintf("%s/api/storage/object/%s/%s?token=%s", s.baseURL, container, path, token)
	s.cache.Set(ctx, container, path, url, ttl)
	return url, nil
}

// PublicURL builds the permanent unauthenticated URL for an object.
// Valid only while the object's public flag is set.
func (s *Service) PublicURL(container, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, container, path)
}

// Open returns the object's bytes for serving. Access is granted when
// the object is public or the token verifies for this exact object.
func (s *Service) Open(ctx context.Context, container, path, token string) (io.ReadCloser, *Object, error) {
	var obj Object
	if err := s.db.WithContext(ctx).Where("container_name = ? AND path = ?", container, path).First(&obj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%s/%s: %w", container, path, ErrObjectNotFound)
		}
		return nil, nil, err
	}

	if !obj.Public {
		if token == "" {
			return nil, nil, ErrAccessDenied
		}
		if err := s.signer.Verify(token, container, path); err != nil {
			return nil, nil, ErrAccessDenied
		}
	}

	reader, err := s.blob.Download(container + "/" + path)
	if err != nil {
		slog.Error("blob download failed", "container", container, "path", path, "error", err)
		return nil, nil, fmt.Errorf("failed to read object %s/%s: %w", container, path, err)
	}

	return reader, &obj, nil
}
