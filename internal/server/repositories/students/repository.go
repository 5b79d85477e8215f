// Package students stores student principals.
package students

import (
	"context"

	"github.com/dmitrijs2005/clubevent/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Principal) (*models.Principal, error)
	GetByEmail(ctx context.Context, email string) (*models.Principal, error)
	GetByID(ctx context.Context, id string) (*models.Principal, error)
	Save(ctx context.Context, s *models.Principal) error
	List(ctx context.Context) ([]*models.Principal, error)
}
