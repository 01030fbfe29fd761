package album

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderlog/service/internal/apperr"
	"github.com/wanderlog/service/internal/storage"
)

const maxTitleLen = 200

// Store is the persistence the album service needs. *Repository implements it.
type Store interface {
	Create(ctx context.Context, a *Album) error
	GetByID(ctx context.Context, id string) (*Album, error)
	ListByUser(ctx context.Context, userID string) ([]Album, error)
	Update(ctx context.Context, a *Album) error
	Delete(ctx context.Context, id string) error
	PhotoBlobs(ctx context.Context, albumID string) ([]PhotoBlob, error)
}

// Input carries the fields of a new album.
type Input struct {
	Title       string
	Description *string
	Location    *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Patch carries album edits; nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Location    *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Service contains business logic for albums.
type Service struct {
	repo  Store
	blobs storage.Storage
	log   *zap.Logger
}

// NewService creates a new album Service.
func NewService(repo Store, blobs storage.Storage, log *zap.Logger) *Service {
	return &Service{repo: repo, blobs: blobs, log: log}
}

// Create stores a new album owned by userID. The cover starts empty.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*Album, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	a := &Album{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Location:    in.Location,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := validate(a); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}
	return a, nil
}

// GetOwned returns the album if it exists and belongs to userID. A foreign
// album is reported as not found so that album ids do not leak across users.
func (s *Service) GetOwned(ctx context.Context, id, userID string) (*Album, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}

// List returns the caller's albums.
func (s *Service) List(ctx context.Context, userID string) ([]Album, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

// Update applies p to the caller's album.
func (s *Service) Update(ctx context.Context, id, userID string, p Patch) (*Album, error) {
	a, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		a.Description = p.Description
	}
	if p.Location != nil {
		a.Location = p.Location
	}
	if p.StartDate != nil {
		a.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		a.EndDate = p.EndDate
	}
	if err := validate(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the album with its photos, stories and share links, then
// reclaims the photo blobs. Blob removal is best effort: the rows are
// already gone, so a failed delete leaves an orphan blob and is only logged.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	a, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	blobs, err := s.repo.PhotoBlobs(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("collect photo blobs: %w", err)
	}

	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return err
	}

	for _, b := range blobs {
		key, ok := blobKey(a.ID, b)
		if !ok {
			s.log.Warn("album delete: cannot derive blob key, blob orphaned",
				zap.String("albumId", a.ID), zap.String("photoId", b.PhotoID), zap.String("url", b.URL))
			continue
		}
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.log.Warn("album delete: blob removal failed, blob orphaned",
				zap.String("albumId", a.ID), zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func blobKey(albumID string, b PhotoBlob) (string, bool) {
	if b.StorageKey != nil && *b.StorageKey != "" {
		return *b.StorageKey, true
	}
	return storage.KeyFromURL(b.URL, b.UserID, albumID, b.PhotoID)
}

func validate(a *Album) error {
	if a.Title == "" {
		return apperr.Invalid("title is required")
	}
	if utf8.RuneCountInString(a.Title) > maxTitleLen {
		return apperr.Invalid(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return apperr.Invalid("endDate must not be before startDate")
	}
	return nil
}
