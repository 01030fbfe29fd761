package photo

import (
	"context"
	"fmt"
	"math"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderlog/service/internal/album"
	"github.com/wanderlog/service/internal/apperr"
	"github.com/wanderlog/service/internal/storage"
)

// MaxUploadBytes is the hard cap on a single photo file.
const MaxUploadBytes = 5 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// Store is the photo persistence the service needs. *Repository implements it.
type Store interface {
	Create(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, id string) (*Photo, error)
	ListByAlbum(ctx context.Context, albumID string) ([]Photo, error)
	Delete(ctx context.Context, id string) error
}

// AlbumStore is the album access the service needs. *album.Repository implements it.
type AlbumStore interface {
	GetByID(ctx context.Context, id string) (*album.Album, error)
	SetCoverIfEmpty(ctx context.Context, albumID, url string) (bool, error)
	ClearCoverIfMatches(ctx context.Context, albumID, url string) (bool, error)
}

// UploadInput describes one photo upload.
type UploadInput struct {
	AlbumID     string
	UserID      string
	Filename    string
	Data        []byte
	ContentType string
	Caption     *string
	Latitude    *float64
	Longitude   *float64
	TakenAt     *time.Time
}

// Service orchestrates photo uploads and deletions.
type Service struct {
	photos Store
	albums AlbumStore
	blobs  storage.Storage
	log    *zap.Logger
}

// NewService creates a new photo Service.
func NewService(photos Store, albums AlbumStore, blobs storage.Storage, log *zap.Logger) *Service {
	return &Service{photos: photos, albums: albums, blobs: blobs, log: log}
}

// Upload stores the file and records it in the album. The blob is written
// before the row, so a row never points at a blob that does not exist. The
// first photo of an album without a cover becomes its cover.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Photo, error) {
	if in.UserID == "" {
		return nil, apperr.ErrUnauthorized
	}
	contentType, err := validateUpload(in)
	if err != nil {
		return nil, err
	}

	a, err := s.albums.GetByID(ctx, in.AlbumID)
	if err != nil {
		return nil, err
	}
	if a.UserID != in.UserID {
		return nil, album.ErrNotFound
	}

	id := uuid.NewString()
	key := storage.PhotoKey(in.UserID, a.ID, id, in.Filename)

	if err := s.blobs.Put(ctx, key, in.Data, contentType); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	p := &Photo{
		ID:         id,
		AlbumID:    a.ID,
		UserID:     in.UserID,
		URL:        s.blobs.PublicURL(key),
		StorageKey: &key,
		Caption:    in.Caption,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		TakenAt:    in.TakenAt,
	}
	if err := s.photos.Create(ctx, p); err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.log.Warn("photo upload: rollback of blob failed, blob orphaned",
				zap.String("key", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("record photo: %w", err)
	}

	if _, err := s.albums.SetCoverIfEmpty(ctx, a.ID, p.URL); err != nil {
		// The photo is stored and recorded; a missing cover is still valid.
		s.log.Error("photo upload: set album cover failed",
			zap.String("albumId", a.ID), zap.String("photoId", p.ID), zap.Error(err))
	}
	return p, nil
}

// Delete removes the caller's photo. The album cover is released first, then
// the row, then the blob. Blob removal is best effort: once the row is gone a
// storage failure only leaves an orphan blob and is logged, not returned.
func (s *Service) Delete(ctx context.Context, photoID, userID string) error {
	if userID == "" {
		return apperr.ErrUnauthorized
	}
	p, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return apperr.New(apperr.ErrForbidden, "photo belongs to another user")
	}

	if _, err := s.albums.ClearCoverIfMatches(ctx, p.AlbumID, p.URL); err != nil {
		return fmt.Errorf("release album cover: %w", err)
	}
	if err := s.photos.Delete(ctx, p.ID); err != nil {
		return err
	}

	key, ok := blobKey(p)
	if !ok {
		s.log.Warn("photo delete: cannot derive blob key, blob orphaned",
			zap.String("photoId", p.ID), zap.String("url", p.URL))
		return nil
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.log.Warn("photo delete: blob removal failed, blob orphaned",
			zap.String("photoId", p.ID), zap.String("key", key), zap.Error(err))
	}
	return nil
}

// ListByAlbum returns the photos of one of the caller's albums.
func (s *Service) ListByAlbum(ctx context.Context, albumID, userID string) ([]Photo, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	a, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, album.ErrNotFound
	}
	return s.photos.ListByAlbum(ctx, a.ID)
}

func blobKey(p *Photo) (string, bool) {
	if p.StorageKey != nil && *p.StorageKey != "" {
		return *p.StorageKey, true
	}
	return storage.KeyFromURL(p.URL, p.UserID, p.AlbumID, p.ID)
}

// validateUpload checks everything that can be checked without I/O and
// returns the normalized content type.
func validateUpload(in UploadInput) (string, error) {
	if len(in.Data) == 0 {
		return "", apperr.Invalid("file is required")
	}
	if len(in.Data) > MaxUploadBytes {
		return "", apperr.Invalid(fmt.Sprintf("file must be at most %d bytes", MaxUploadBytes))
	}
	mediaType, _, err := mime.ParseMediaType(in.ContentType)
	if err != nil || !allowedTypes[strings.ToLower(mediaType)] {
		return "", apperr.Invalid("file must be a JPEG, PNG, GIF, WebP or HEIC image")
	}
	if in.Latitude != nil && !inRange(*in.Latitude, 90) {
		return "", apperr.Invalid("latitude must be between -90 and 90")
	}
	if in.Longitude != nil && !inRange(*in.Longitude, 180) {
		return "", apperr.Invalid("longitude must be between -180 and 180")
	}
	return strings.ToLower(mediaType), nil
}

// inRange reports whether v is a finite number within [-limit, limit].
// NaN fails every comparison, so it is excluded explicitly.
func inRange(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}
