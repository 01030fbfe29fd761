package user

import (
	"context"

	"github.com/wanderlog/service/internal/apperr"
)

// Store is the persistence the service needs. *Repository implements it.
type Store interface {
	Ensure(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*User, error)
}

// Service contains business logic for the user mirror.
type Service struct {
	repo Store
}

// NewService creates a new user Service.
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Me returns the caller's record, creating it on first sight.
func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthorized
	}
	if err := s.repo.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}
