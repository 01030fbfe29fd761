// Package photo manages photo uploads and deletions, keeping the blob store,
// the photos table and the album cover pointer consistent.
package photo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlog/service/internal/apperr"
)

// Photo is one stored image inside an album.
type Photo struct {
	ID         string     `json:"id"`
	AlbumID    string     `json:"albumId"`
	UserID     string     `json:"userId"`
	URL        string     `json:"url"`
	StorageKey *string    `json:"-"`
	Caption    *string    `json:"caption,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	TakenAt    *time.Time `json:"takenAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ErrNotFound is returned when a photo does not exist.
var ErrNotFound = apperr.New(apperr.ErrNotFound, "photo not found")

const photoColumns = `id, album_id, user_id, url, storage_key, caption, latitude, longitude, taken_at, created_at`

// Repository handles all photo database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts p and fills in its creation time.
func (r *Repository) Create(ctx context.Context, p *Photo) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO photos (id, album_id, user_id, url, storage_key, caption, latitude, longitude, taken_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		p.ID, p.AlbumID, p.UserID, p.URL, p.StorageKey, p.Caption, p.Latitude, p.Longitude, p.TakenAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

// GetByID fetches a photo by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Photo, error) {
	p, err := scanPhoto(r.db.QueryRow(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get photo by id: %w", err)
	}
	return p, nil
}

// ListByAlbum returns every photo of the album, oldest first.
func (r *Repository) ListByAlbum(ctx context.Context, albumID string) ([]Photo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE album_id = $1 ORDER BY created_at, id`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	photos := []Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, *p)
	}
	return photos, rows.Err()
}

// Delete removes the photo row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPhoto(row pgx.Row) (*Photo, error) {
	p := &Photo{}
	err := row.Scan(&p.ID, &p.AlbumID, &p.UserID, &p.URL, &p.StorageKey, &p.Caption,
		&p.Latitude, &p.Longitude, &p.TakenAt, &p.CreatedAt)
	return p, err
}
