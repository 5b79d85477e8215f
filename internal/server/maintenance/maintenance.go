// Package maintenance repairs stored principals in bulk: it lowercases
// stored emails and hashes credentials still held in plaintext.
package maintenance

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/repomanager"
)

// Report summarizes one pass over a variant's table.
type Report struct {
	Variant          models.Variant
	Scanned          int
	EmailsNormalized int
	PasswordsHashed  int
	Failed           int
}

func (r Report) String() string {
	return fmt.Sprintf("%s: scanned=%d emails_normalized=%d passwords_hashed=%d failed=%d",
		r.Variant, r.Scanned, r.EmailsNormalized, r.PasswordsHashed, r.Failed)
}

type table interface {
	List(ctx context.Context) ([]*models.Principal, error)
	Save(ctx context.Context, p *models.Principal) error
}

func tableFor(rm repomanager.RepositoryManager, variant models.Variant, db dbx.DBTX) (table, error) {
	switch variant {
	case models.VariantStudent:
		return rm.Students(db), nil
	case models.VariantAdmin:
		return rm.Admins(db), nil
	case models.VariantFaculty:
		return rm.Faculty(db), nil
	default:
		return nil, fmt.Errorf("unknown principal variant %q", variant)
	}
}

type Maintainer struct {
	db     dbx.DBTX
	rm     repomanager.RepositoryManager
	hasher auth.PasswordHasher
	log    logging.Logger
	dryRun bool
}

// NewMaintainer returns a Maintainer. With dryRun set it only counts what
// it would change.
func NewMaintainer(db dbx.DBTX, rm repomanager.RepositoryManager, hasher auth.PasswordHasher, log logging.Logger, dryRun bool) *Maintainer {
	return &Maintainer{db: db, rm: rm, hasher: hasher, log: log.With("module", "maintenance"), dryRun: dryRun}
}

// Run processes every record of variant. A record that cannot be saved,
// for example because its normalized email collides with another record,
// is logged and counted as failed; the pass continues.
func (m *Maintainer) Run(ctx context.Context, variant models.Variant) (Report, error) {
	rep := Report{Variant: variant}

	t, err := tableFor(m.rm, variant, m.db)
	if err != nil {
		return rep, err
	}

	list, err := t.List(ctx)
	if err != nil {
		return rep, fmt.Errorf("list %s: %w", variant, err)
	}

	for _, p := range list {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Scanned++

		normalizeEmail := models.NormalizeEmail(p.Email) != p.Email
		hashPassword := p.Password != "" && !m.hasher.IsHashed(p.Password)
		if !normalizeEmail && !hashPassword {
			continue
		}

		if m.dryRun {
			m.log.Info(ctx, "would update", "variant", variant, "principal_id", p.ID,
				"normalize_email", normalizeEmail, "hash_password", hashPassword)
			rep.count(normalizeEmail, hashPassword)
			continue
		}

		if normalizeEmail {
			p.Email = models.NormalizeEmail(p.Email)
		}
		if hashPassword {
			hash, err := m.hasher.Hash(p.Password)
			if err != nil {
				m.log.Error(ctx, "hash failed", "variant", variant, "principal_id", p.ID, "error", err)
				rep.Failed++
				continue
			}
			p.Password = hash
		}

		if err := t.Save(ctx, p); err != nil {
			m.log.Error(ctx, "save failed", "variant", variant, "principal_id", p.ID, "error", err)
			rep.Failed++
			continue
		}

		m.log.Info(ctx, "updated", "variant", variant, "principal_id", p.ID,
			"normalize_email", normalizeEmail, "hash_password", hashPassword)
		rep.count(normalizeEmail, hashPassword)
	}

	return rep, nil
}

func (r *Report) count(email, password bool) {
	if email {
		r.EmailsNormalized++
	}
	if password {
		r.PasswordsHashed++
	}
}

// RunAll processes the given variants in order, stopping at the first
// error that prevents a whole table from being read.
func (m *Maintainer) RunAll(ctx context.Context, variants []models.Variant) ([]Report, error) {
	reports := make([]Report, 0, len(variants))
	for _, v := range variants {
		rep, err := m.Run(ctx, v)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// ParseVariants turns the -variant flag value into a list. "all" or an
// empty value selects every variant.
func ParseVariants(s string) ([]models.Variant, error) {
	if s == "" || s == "all" {
		return models.Variants, nil
	}
	v, ok := models.ParseVariant(s)
	if !ok {
		return nil, fmt.Errorf("unknown variant %q", s)
	}
	return []models.Variant{v}, nil
}
