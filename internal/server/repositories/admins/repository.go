// Package admins stores club-admin principals, including students promoted
// by faculty.
package admins

import (
	"context"

	"github.com/dmitrijs2005/clubevent/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Principal) (*models.Principal, error)
	GetByEmail(ctx context.Context, email string) (*models.Principal, error)
	GetByID(ctx context.Context, id string) (*models.Principal, error)
	Save(ctx context.Context, a *models.Principal) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Principal, error)
}
