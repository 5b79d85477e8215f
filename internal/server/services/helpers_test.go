package services

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/metrics"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/memory"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-signing-key"

type env struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	rm       *memory.Manager
	hasher   *auth.BcryptHasher
	issuer   *auth.TokenIssuer
	metrics  *metrics.Metrics
	verifier *Verifier
	auth     *AuthService
	promo    *PromotionService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	issuer, err := auth.NewTokenIssuer([]byte(testSecret))
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}

	e := &env{
		db:      db,
		mock:    mock,
		rm:      memory.NewManager(),
		hasher:  auth.NewBcryptHasher(bcrypt.MinCost),
		issuer:  issuer,
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	log := logging.Nop{}
	e.verifier = NewVerifier(db, e.rm, e.hasher, log, e.metrics, 0)
	e.auth = NewAuthService(db, e.rm, e.hasher, issuer, e.verifier, log, e.metrics)
	e.promo = NewPromotionService(db, e.rm, log, e.metrics)
	return e
}

func (e *env) hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := e.hasher.Hash(pw)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

func (e *env) seedStudent(t *testing.T, email, password string) *models.Principal {
	t.Helper()
	p := &models.Principal{
		Variant:  models.VariantStudent,
		Name:     "Student " + email,
		Email:    email,
		Password: password,
		Role:     models.RoleStudent,
		Active:   true,
		Student:  &models.StudentProfile{StudentID: "S-" + email},
	}
	e.rm.Put(p)
	return p
}

func (e *env) seedFaculty(t *testing.T, email, password string) *models.Principal {
	t.Helper()
	p := &models.Principal{
		Variant:  models.VariantFaculty,
		Name:     "Faculty " + email,
		Email:    email,
		Password: password,
		Role:     models.RoleFaculty,
		Active:   true,
		Faculty:  &models.FacultyProfile{FacultyID: "F-" + email},
	}
	e.rm.Put(p)
	return p
}

func (e *env) seedAdmin(t *testing.T, email, password string) *models.Principal {
	t.Helper()
	p := &models.Principal{
		Variant:  models.VariantAdmin,
		Name:     "Admin " + email,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
		Active:   true,
		ClubName: "Chess",
		Admin:    &models.AdminProfile{},
	}
	e.rm.Put(p)
	return p
}
