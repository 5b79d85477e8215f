package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/metrics"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/repomanager"
)

// DefaultMigrationTimeout bounds the rehash write performed on login.
const DefaultMigrationTimeout = 5 * time.Second

// Verifier checks a submitted credential against one store and, on a
// successful plaintext match, replaces the stored value with a hash.
type Verifier struct {
	db               dbx.DBTX
	rm               repomanager.RepositoryManager
	hasher           auth.PasswordHasher
	log              logging.Logger
	metrics          *metrics.Metrics
	migrationTimeout time.Duration
}

func NewVerifier(db dbx.DBTX, rm repomanager.RepositoryManager, hasher auth.PasswordHasher,
	log logging.Logger, m *metrics.Metrics, migrationTimeout time.Duration) *Verifier {
	if migrationTimeout <= 0 {
		migrationTimeout = DefaultMigrationTimeout
	}
	return &Verifier{
		db:               db,
		rm:               rm,
		hasher:           hasher,
		log:              log.With("module", "verifier"),
		metrics:          m,
		migrationTimeout: migrationTimeout,
	}
}

// Verify returns the matching principal with its credential cleared.
// Unknown email and wrong password both yield common.ErrInvalidCredentials;
// an inactive account yields common.ErrAccountDisabled.
func (v *Verifier) Verify(ctx context.Context, variant models.Variant, email, password string) (*models.Principal, error) {
	if models.NormalizeEmail(email) == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	store, err := StoreFor(v.rm, variant, v.db)
	if err != nil {
		return nil, err
	}

	p, err := store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find %s by email: %w", variant, err)
	}

	if !p.Active {
		return nil, common.ErrAccountDisabled
	}

	if p.Password == "" {
		return nil, common.ErrInvalidCredentials
	}

	if v.hasher.IsHashed(p.Password) {
		if !v.hasher.Verify(password, p.Password) {
			return nil, common.ErrInvalidCredentials
		}
		return p.WithoutCredential(), nil
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(p.Password)) != 1 {
		return nil, common.ErrInvalidCredentials
	}

	v.migrate(ctx, store, p, password)
	return p.WithoutCredential(), nil
}

// migrate rehashes a legacy plaintext credential. Failure is logged and
// counted; the login it belongs to still succeeds.
func (v *Verifier) migrate(ctx context.Context, store CredentialStore, p *models.Principal, password string) {
	hash, err := v.hasher.Hash(password)
	if err != nil {
		v.log.Warn(ctx, "credential migration: hash failed", "variant", p.Variant, "principal_id", p.ID, "error", err)
		v.metrics.RecordMigration(string(p.Variant), metrics.MigrationFailed)
		return
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.migrationTimeout)
	defer cancel()

	upgraded := *p
	upgraded.Password = hash
	if err := store.Save(wctx, &upgraded); err != nil {
		v.log.Warn(ctx, "credential migration: write failed", "variant", p.Variant, "principal_id", p.ID, "error", err)
		v.metrics.RecordMigration(string(p.Variant), metrics.MigrationFailed)
		return
	}

	v.log.Info(ctx, "credential migrated to hash", "variant", p.Variant, "principal_id", p.ID)
	v.metrics.RecordMigration(string(p.Variant), metrics.MigrationMigrated)
}
