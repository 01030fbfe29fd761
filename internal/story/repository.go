// Package story manages the written narratives attached to albums.
package story

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlog/service/internal/apperr"
)

// Story is a titled piece of free text inside an album.
type Story struct {
	ID        string    `json:"id"`
	AlbumID   string    `json:"albumId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a story does not exist.
var ErrNotFound = apperr.New(apperr.ErrNotFound, "story not found")

const storyColumns = `id, album_id, user_id, title, content, created_at, updated_at`

// Repository handles all story database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts s and fills in its timestamps.
func (r *Repository) Create(ctx context.Context, s *Story) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO stories (id, album_id, user_id, title, content)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		s.ID, s.AlbumID, s.UserID, s.Title, s.Content,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert story: %w", err)
	}
	return nil
}

// GetByID fetches a story by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Story, error) {
	s := &Story{}
	err := r.db.QueryRow(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.AlbumID, &s.UserID, &s.Title, &s.Content, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get story by id: %w", err)
	}
	return s, nil
}

// ListByAlbum returns every story of the album, oldest first.
func (r *Repository) ListByAlbum(ctx context.Context, albumID string) ([]Story, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE album_id = $1 ORDER BY created_at, id`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	stories := []Story{}
	for rows.Next() {
		var s Story
		if err := rows.Scan(&s.ID, &s.AlbumID, &s.UserID, &s.Title, &s.Content, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// Update writes the title and content of s.
func (r *Repository) Update(ctx context.Context, s *Story) error {
	err := r.db.QueryRow(ctx,
		`UPDATE stories SET title = $2, content = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		s.ID, s.Title, s.Content,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update story: %w", err)
	}
	return nil
}

// Delete removes the story row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
