package story

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wanderlog/service/internal/album"
	"github.com/wanderlog/service/internal/apperr"
)

const (
	maxTitleLen   = 200
	maxContentLen = 20000
)

// Store is the story persistence the service needs. *Repository implements it.
type Store interface {
	Create(ctx context.Context, s *Story) error
	GetByID(ctx context.Context, id string) (*Story, error)
	ListByAlbum(ctx context.Context, albumID string) ([]Story, error)
	Update(ctx context.Context, s *Story) error
	Delete(ctx context.Context, id string) error
}

// AlbumGetter loads albums for ownership checks.
type AlbumGetter interface {
	GetByID(ctx context.Context, id string) (*album.Album, error)
}

// Service contains business logic for stories.
type Service struct {
	repo   Store
	albums AlbumGetter
}

// NewService creates a new story Service.
func NewService(repo Store, albums AlbumGetter) *Service {
	return &Service{repo: repo, albums: albums}
}

// Create adds a story to one of the caller's albums.
func (s *Service) Create(ctx context.Context, albumID, userID, title, content string) (*Story, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	st := &Story{
		ID:      uuid.NewString(),
		AlbumID: albumID,
		UserID:  userID,
		Title:   strings.TrimSpace(title),
		Content: content,
	}
	if err := validate(st); err != nil {
		return nil, err
	}
	if err := s.ownAlbum(ctx, albumID, userID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	return st, nil
}

// ListByAlbum returns the stories of one of the caller's albums.
func (s *Service) ListByAlbum(ctx context.Context, albumID, userID string) ([]Story, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	if err := s.ownAlbum(ctx, albumID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByAlbum(ctx, albumID)
}

// Update changes the title and/or content of the caller's story.
func (s *Service) Update(ctx context.Context, id, userID string, title, content *string) (*Story, error) {
	st, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if title != nil {
		st.Title = strings.TrimSpace(*title)
	}
	if content != nil {
		st.Content = *content
	}
	if err := validate(st); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes the caller's story.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	st, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, st.ID)
}

func (s *Service) owned(ctx context.Context, id, userID string) (*Story, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.UserID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "story belongs to another user")
	}
	return st, nil
}

func (s *Service) ownAlbum(ctx context.Context, albumID, userID string) error {
	a, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		return err
	}
	if a.UserID != userID {
		return album.ErrNotFound
	}
	return nil
}

func validate(st *Story) error {
	if st.Title == "" {
		return apperr.Invalid("title is required")
	}
	if utf8.RuneCountInString(st.Title) > maxTitleLen {
		return apperr.Invalid(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if utf8.RuneCountInString(st.Content) > maxContentLen {
		return apperr.Invalid(fmt.Sprintf("content must be at most %d characters", maxContentLen))
	}
	return nil
}
