package sharelink

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderlog/service/internal/album"
	"github.com/wanderlog/service/internal/apperr"
	"github.com/wanderlog/service/internal/photo"
	"github.com/wanderlog/service/internal/story"
)

const (
	tokenBytes    = 32
	createRetries = 3

	// maxTTLSeconds is the longest lifetime a time.Duration can hold
	// (about 292 years). Larger values would wrap into the past.
	maxTTLSeconds = math.MaxInt64 / int64(time.Second)
)

// Store is the link persistence the service needs. *Repository implements it.
type Store interface {
	Create(ctx context.Context, l *Link) error
	GetByToken(ctx context.Context, token string) (*Link, error)
	GetByID(ctx context.Context, id string) (*Link, error)
	ListByAlbum(ctx context.Context, albumID string) ([]Link, error)
	Delete(ctx context.Context, id string) error
}

// AlbumGetter loads albums.
type AlbumGetter interface {
	GetByID(ctx context.Context, id string) (*album.Album, error)
}

// PhotoLister lists every photo of an album.
type PhotoLister interface {
	ListByAlbum(ctx context.Context, albumID string) ([]photo.Photo, error)
}

// StoryLister lists every story of an album.
type StoryLister interface {
	ListByAlbum(ctx context.Context, albumID string) ([]story.Story, error)
}

// Bundle is the complete read-only view behind a share token.
type Bundle struct {
	Album   *album.Album  `json:"album"`
	Photos  []photo.Photo `json:"photos"`
	Stories []story.Story `json:"stories"`
}

// Service issues and resolves share links.
type Service struct {
	links   Store
	albums  AlbumGetter
	photos  PhotoLister
	stories StoryLister
	cache   Cache
	log     *zap.Logger

	now      func() time.Time
	newToken func() (string, error)
}

// NewService creates a new share link Service. cache may be nil.
func NewService(links Store, albums AlbumGetter, photos PhotoLister, stories StoryLister, cache Cache, log *zap.Logger) *Service {
	return &Service{
		links:    links,
		albums:   albums,
		photos:   photos,
		stories:  stories,
		cache:    cache,
		log:      log,
		now:      time.Now,
		newToken: randomToken,
	}
}

// Create issues a link to one of the caller's albums. With ttlSeconds nil
// the link never expires; otherwise it expires ttlSeconds from now (zero or
// negative values yield a link that is already, or about to be, expired).
// Lifetimes beyond what a time.Duration holds are rejected as invalid.
func (s *Service) Create(ctx context.Context, albumID, userID string, ttlSeconds *int64) (*Link, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	if ttlSeconds != nil && (*ttlSeconds > maxTTLSeconds || *ttlSeconds < -maxTTLSeconds) {
		return nil, apperr.Invalid(fmt.Sprintf("ttlSeconds must be between %d and %d", -maxTTLSeconds, maxTTLSeconds))
	}
	a, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, album.ErrNotFound
	}

	now := s.now()
	l := &Link{
		ID:      uuid.NewString(),
		AlbumID: a.ID,
		UserID:  userID,
	}
	if ttlSeconds != nil {
		exp := now.Add(time.Duration(*ttlSeconds) * time.Second)
		l.ExpiresAt = &exp
	}

	for attempt := 0; attempt < createRetries; attempt++ {
		if l.Token, err = s.newToken(); err != nil {
			return nil, fmt.Errorf("%w: generate share token: %v", apperr.ErrInternal, err)
		}
		err = s.links.Create(ctx, l)
		if !errors.Is(err, errTokenTaken) {
			break
		}
		s.log.Warn("share token collision, retrying", zap.Int("attempt", attempt+1))
	}
	if errors.Is(err, errTokenTaken) {
		return nil, fmt.Errorf("%w: could not allocate a unique share token", apperr.ErrInternal)
	}
	if err != nil {
		return nil, fmt.Errorf("create share link: %w", err)
	}
	return l, nil
}

// Resolve returns the album, photos and stories behind token. No caller
// identity is needed: an existing, unexpired token is the authorization.
func (s *Service) Resolve(ctx context.Context, token string) (*Bundle, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	l, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if l.Expired(s.now()) {
		return nil, ErrExpired
	}

	a, err := s.albums.GetByID(ctx, l.AlbumID)
	if err != nil {
		return nil, err
	}
	photos, err := s.photos.ListByAlbum(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("load shared photos: %w", err)
	}
	stories, err := s.stories.ListByAlbum(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("load shared stories: %w", err)
	}
	return &Bundle{Album: a, Photos: photos, Stories: stories}, nil
}

// List returns the links of one of the caller's albums.
func (s *Service) List(ctx context.Context, albumID, userID string) ([]Link, error) {
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
	return s.links.ListByAlbum(ctx, a.ID)
}

// Revoke deletes one of the caller's links, invalidating its token at once.
func (s *Service) Revoke(ctx context.Context, linkID, userID string) error {
	if userID == "" {
		return apperr.ErrUnauthorized
	}
	l, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return apperr.New(apperr.ErrForbidden, "share link belongs to another user")
	}
	if err := s.links.Delete(ctx, l.ID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, l.Token); err != nil {
			s.log.Error("share link revoke: cache eviction failed",
				zap.String("linkId", l.ID), zap.Error(err))
		}
	}
	return nil
}

// lookup reads the link through the cache when one is configured. Cache
// failures fall back to the database.
func (s *Service) lookup(ctx context.Context, token string) (*Link, error) {
	if s.cache != nil {
		l, err := s.cache.Get(ctx, token)
		if err != nil {
			s.log.Warn("share link cache read failed", zap.Error(err))
		}
		if l != nil {
			return l, nil
		}
	}

	l, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if ttl := cacheTTL(l, s.now()); ttl > 0 {
			if err := s.cache.Set(ctx, l, ttl); err != nil {
				s.log.Warn("share link cache write failed", zap.Error(err))
			}
		}
	}
	return l, nil
}

func randomToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
