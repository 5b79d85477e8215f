package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/repomanager"
)

// CredentialStore is the variant-agnostic view of one principal table.
// Lookups return common.ErrorNotFound when absent and a wrapped
// common.ErrStoreFault on any other failure.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Principal, error)
	FindByID(ctx context.Context, id string) (*models.Principal, error)
	Save(ctx context.Context, p *models.Principal) error
}

type principalRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Principal, error)
	GetByID(ctx context.Context, id string) (*models.Principal, error)
	Save(ctx context.Context, p *models.Principal) error
}

type repositoryStore struct {
	repo principalRepository
}

func (s repositoryStore) FindByEmail(ctx context.Context, email string) (*models.Principal, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s repositoryStore) FindByID(ctx context.Context, id string) (*models.Principal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s repositoryStore) Save(ctx context.Context, p *models.Principal) error {
	return s.repo.Save(ctx, p)
}

// StoreFor selects the table backing variant, bound to db.
func StoreFor(rm repomanager.RepositoryManager, variant models.Variant, db dbx.DBTX) (CredentialStore, error) {
	switch variant {
	case models.VariantStudent:
		return repositoryStore{repo: rm.Students(db)}, nil
	case models.VariantAdmin:
		return repositoryStore{repo: rm.Admins(db)}, nil
	case models.VariantFaculty:
		return repositoryStore{repo: rm.Faculty(db)}, nil
	default:
		return nil, fmt.Errorf("unknown principal variant %q", variant)
	}
}
