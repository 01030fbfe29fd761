// Package user mirrors identities issued by the external identity provider.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlog/service/internal/apperr"
)

// User is the local record of an authenticated caller.
type User struct {
	ID         string    `json:"id"`
	AlbumCount int       `json:"albumCount"`
	PhotoCount int       `json:"photoCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = apperr.New(apperr.ErrNotFound, "user not found")

// Repository handles all user database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ensure records id if it has not been seen before.
func (r *Repository) Ensure(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id,
	); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// GetByID fetches a user together with their album and photo totals.
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(ctx,
		`SELECT u.id, u.created_at,
		        (SELECT COUNT(*) FROM albums a WHERE a.user_id = u.id),
		        (SELECT COUNT(*) FROM photos p WHERE p.user_id = u.id)
		 FROM users u WHERE u.id = $1`,
		id,
	).Scan(&u.ID, &u.CreatedAt, &u.AlbumCount, &u.PhotoCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}
