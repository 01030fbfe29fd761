// Package album manages albums, their cover pointer and cascade deletion.
package album

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlog/service/internal/apperr"
)

// Album is a named collection of photos and stories owned by one user.
type Album struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Location      *string    `json:"location,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	CoverPhotoURL *string    `json:"coverPhotoUrl"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PhotoBlob identifies the stored object behind one photo row.
type PhotoBlob struct {
	PhotoID    string
	UserID     string
	URL        string
	StorageKey *string
}

// ErrNotFound is returned when an album does not exist or is not visible to the caller.
var ErrNotFound = apperr.New(apperr.ErrNotFound, "album not found")

const albumColumns = `id, user_id, title, description, location, start_date, end_date, cover_photo_url, created_at, updated_at`

// Repository handles all album database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts the album, registering its owner in users on first sight.
func (r *Repository) Create(ctx context.Context, a *Album) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
		a.UserID,
	)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO albums (id, user_id, title, description, location, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.Title, a.Description, a.Location, a.StartDate, a.EndDate,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert album: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID fetches an album by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Album, error) {
	a, err := scanAlbum(r.db.QueryRow(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album by id: %w", err)
	}
	return a, nil
}

// ListByUser returns the user's albums, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Album, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	albums := []Album{}
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, *a)
	}
	return albums, rows.Err()
}

// Update writes the editable fields of a. The cover pointer is not touched.
func (r *Repository) Update(ctx context.Context, a *Album) error {
	err := r.db.QueryRow(ctx,
		`UPDATE albums
		 SET title = $2, description = $3, location = $4, start_date = $5, end_date = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		a.ID, a.Title, a.Description, a.Location, a.StartDate, a.EndDate,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	return nil
}

// Delete removes the album; photos, stories and share links cascade.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCoverIfEmpty points the cover at url only while no cover is set.
// The condition is evaluated by the database, so concurrent first uploads
// settle on exactly one winner and later uploads never move the cover.
func (r *Repository) SetCoverIfEmpty(ctx context.Context, albumID, url string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE albums SET cover_photo_url = $2, updated_at = NOW()
		 WHERE id = $1 AND cover_photo_url IS NULL`,
		albumID, url,
	)
	if err != nil {
		return false, fmt.Errorf("set cover: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClearCoverIfMatches nulls the cover only while it still equals url.
func (r *Repository) ClearCoverIfMatches(ctx context.Context, albumID, url string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE albums SET cover_photo_url = NULL, updated_at = NOW()
		 WHERE id = $1 AND cover_photo_url = $2`,
		albumID, url,
	)
	if err != nil {
		return false, fmt.Errorf("clear cover: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// PhotoBlobs lists the stored objects of every photo in the album.
func (r *Repository) PhotoBlobs(ctx context.Context, albumID string) ([]PhotoBlob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, url, storage_key FROM photos WHERE album_id = $1`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("list photo blobs: %w", err)
	}
	defer rows.Close()

	var blobs []PhotoBlob
	for rows.Next() {
		var b PhotoBlob
		if err := rows.Scan(&b.PhotoID, &b.UserID, &b.URL, &b.StorageKey); err != nil {
			return nil, fmt.Errorf("scan photo blob: %w", err)
		}
		blobs = append(blobs, b)
	}
	return blobs, rows.Err()
}

func scanAlbum(row pgx.Row) (*Album, error) {
	a := &Album{}
	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Location,
		&a.StartDate, &a.EndDate, &a.CoverPhotoURL, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
