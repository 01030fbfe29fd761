// Package sharelink issues and resolves expiring tokens that give anonymous
// read access to one album.
package sharelink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlog/service/internal/apperr"
	"github.com/wanderlog/service/internal/db"
)

// Link grants read access to AlbumID to whoever holds Token, until ExpiresAt.
// A nil ExpiresAt never expires.
type Link struct {
	ID        string     `json:"id"`
	AlbumID   string     `json:"albumId"`
	UserID    string     `json:"userId"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Expired reports whether the link is past its expiry at now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

var (
	// ErrNotFound is returned for unknown tokens and link ids.
	ErrNotFound = apperr.New(apperr.ErrNotFound, "share link not found")
	// ErrExpired is returned for tokens whose expiry has passed.
	ErrExpired = apperr.New(apperr.ErrGone, "share link has expired")

	errTokenTaken = errors.New("share token already exists")
)

const linkColumns = `id, album_id, user_id, token, expires_at, created_at`

// Repository handles all shared_links database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts l. A duplicate token yields errTokenTaken.
func (r *Repository) Create(ctx context.Context, l *Link) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO shared_links (id, album_id, user_id, token, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		l.ID, l.AlbumID, l.UserID, l.Token, l.ExpiresAt,
	).Scan(&l.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return errTokenTaken
		}
		return fmt.Errorf("insert share link: %w", err)
	}
	return nil
}

// GetByToken fetches the link holding token.
func (r *Repository) GetByToken(ctx context.Context, token string) (*Link, error) {
	return r.getOne(ctx, `SELECT `+linkColumns+` FROM shared_links WHERE token = $1`, token)
}

// GetByID fetches a link by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Link, error) {
	return r.getOne(ctx, `SELECT `+linkColumns+` FROM shared_links WHERE id = $1`, id)
}

// ListByAlbum returns the album's links, newest first.
func (r *Repository) ListByAlbum(ctx context.Context, albumID string) ([]Link, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+linkColumns+` FROM shared_links WHERE album_id = $1 ORDER BY created_at DESC`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("list share links: %w", err)
	}
	defer rows.Close()

	links := []Link{}
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.ID, &l.AlbumID, &l.UserID, &l.Token, &l.ExpiresAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan share link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// Delete removes the link row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shared_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete share link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) getOne(ctx context.Context, query, arg string) (*Link, error) {
	l := &Link{}
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&l.ID, &l.AlbumID, &l.UserID, &l.Token, &l.ExpiresAt, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get share link: %w", err)
	}
	return l, nil
}
