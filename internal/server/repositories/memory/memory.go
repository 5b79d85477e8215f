// Package memory is an in-process RepositoryManager. It backs service and
// transport tests and honours the same contracts as the Postgres
// repositories: normalized emails, unique keys and the common sentinels.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/admins"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/faculty"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/students"
	"github.com/google/uuid"
)

// Manager holds all three tables. Handles passed to the factories are
// ignored; every repository shares the same maps.
type Manager struct {
	mu    sync.Mutex
	table map[models.Variant]map[string]*models.Principal
	seq   int

	// FailOn, when set, is consulted before every operation with a name
	// like "students.Save"; a non-nil result is returned as a store fault.
	FailOn func(op string) error
}

func NewManager() *Manager {
	return &Manager{table: map[models.Variant]map[string]*models.Principal{
		models.VariantStudent: {},
		models.VariantAdmin:   {},
		models.VariantFaculty: {},
	}}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Students(dbx.DBTX) students.Repository {
	return &repo{m: m, variant: models.VariantStudent, name: "students"}
}

func (m *Manager) Admins(dbx.DBTX) admins.Repository {
	return &repo{m: m, variant: models.VariantAdmin, name: "admins"}
}

func (m *Manager) Faculty(dbx.DBTX) faculty.Repository {
	return &repo{m: m, variant: models.VariantFaculty, name: "faculty"}
}

// Put stores p as-is (no hashing, no normalization) and returns its ID.
// Tests use it to seed legacy rows.
func (m *Manager) Put(p *models.Principal) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.table[p.Variant][p.ID] = clone(p)
	return p.ID
}

// Get returns a copy of the stored record, or nil.
func (m *Manager) Get(variant models.Variant, id string) *models.Principal {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.table[variant][id]
	if !ok {
		return nil
	}
	return clone(p)
}

// Len reports the number of records in a table.
func (m *Manager) Len(variant models.Variant) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table[variant])
}

type repo struct {
	m       *Manager
	variant models.Variant
	name    string
}

func (r *repo) fail(op string) error {
	if r.m.FailOn == nil {
		return nil
	}
	if err := r.m.FailOn(r.name + "." + op); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStoreFault, err)
	}
	return nil
}

func (r *repo) rows() map[string]*models.Principal {
	return r.m.table[r.variant]
}

func (r *repo) conflict(p *models.Principal) bool {
	for id, other := range r.rows() {
		if id == p.ID {
			continue
		}
		if models.NormalizeEmail(other.Email) == p.Email {
			return true
		}
		if p.Student != nil && other.Student != nil && p.Student.StudentID != "" &&
			p.Student.StudentID == other.Student.StudentID {
			return true
		}
	}
	return false
}

func (r *repo) Create(ctx context.Context, p *models.Principal) (*models.Principal, error) {
	if err := r.fail("Create"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Variant = r.variant
	p.Email = models.NormalizeEmail(p.Email)
	if p.Role == "" {
		p.Role = models.Role(r.variant)
	}
	switch r.variant {
	case models.VariantStudent:
		if p.Student == nil {
			p.Student = &models.StudentProfile{}
		}
	case models.VariantAdmin:
		if p.Admin == nil {
			p.Admin = &models.AdminProfile{}
		}
	case models.VariantFaculty:
		if p.Faculty == nil {
			p.Faculty = &models.FacultyProfile{}
		}
	}
	if _, ok := r.rows()[p.ID]; ok || r.conflict(p) {
		return nil, common.ErrAlreadyExists
	}

	r.m.seq++
	p.CreatedAt = time.Unix(int64(r.m.seq), 0).UTC()
	p.UpdatedAt = p.CreatedAt
	r.rows()[p.ID] = clone(p)
	return p, nil
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*models.Principal, error) {
	if err := r.fail("GetByEmail"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	email = models.NormalizeEmail(email)
	for _, p := range r.rows() {
		if models.NormalizeEmail(p.Email) == email {
			return clone(p), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *repo) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	if err := r.fail("GetByID"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	p, ok := r.rows()[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(p), nil
}

func (r *repo) Save(ctx context.Context, p *models.Principal) error {
	if err := r.fail("Save"); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.rows()[p.ID]; !ok {
		return common.ErrorNotFound
	}
	p.Email = models.NormalizeEmail(p.Email)
	if r.conflict(p) {
		return common.ErrAlreadyExists
	}
	r.rows()[p.ID] = clone(p)
	return nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	if err := r.fail("Delete"); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.rows()[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows(), id)
	return nil
}

func (r *repo) List(ctx context.Context) ([]*models.Principal, error) {
	if err := r.fail("List"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := make([]*models.Principal, 0, len(r.rows()))
	for _, p := range r.rows() {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func clone(p *models.Principal) *models.Principal {
	c := *p
	if p.Student != nil {
		s := *p.Student
		c.Student = &s
	}
	if p.Faculty != nil {
		f := *p.Faculty
		c.Faculty = &f
	}
	if p.Admin != nil {
		a := *p.Admin
		c.Admin = &a
	}
	return &c
}
