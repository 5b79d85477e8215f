// Package services implements the auth core: credential verification,
// session issue, token resolution, registration and the faculty-driven
// promotion flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/metrics"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/repomanager"
)

// Session is the result of a successful login or registration.
type Session struct {
	Token     string
	Principal *models.Principal
}

// StudentRegistration is the input of RegisterStudent.
type StudentRegistration struct {
	Name       string
	Email      string
	Password   string
	StudentID  string
	Department string
	Year       string
	Phone      string
}

// AdminRegistration is the input of SignupAdmin and CreateAdmin.
type AdminRegistration struct {
	Name     string
	Email    string
	Password string
	ClubName string
	Position string
}

type AuthService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	hasher   auth.PasswordHasher
	issuer   *auth.TokenIssuer
	verifier *Verifier
	log      logging.Logger
	metrics  *metrics.Metrics
}

func NewAuthService(db *sql.DB, rm repomanager.RepositoryManager, hasher auth.PasswordHasher,
	issuer *auth.TokenIssuer, verifier *Verifier, log logging.Logger, m *metrics.Metrics) *AuthService {
	return &AuthService{
		db:       db,
		rm:       rm,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		log:      log.With("module", "auth_service"),
		metrics:  m,
	}
}

// Login verifies the credential against the variant's store and issues a
// token whose loginType is that variant.
func (s *AuthService) Login(ctx context.Context, variant models.Variant, email, password string) (*Session, error) {
	start := time.Now()

	p, err := s.verifier.Verify(ctx, variant, email, password)
	if err != nil {
		s.metrics.RecordLogin(string(variant), loginOutcome(err), time.Since(start))
		if !errors.Is(err, common.ErrInvalidCredentials) {
			s.log.Error(ctx, "login failed", "variant", variant, "error", err)
		}
		return nil, err
	}

	token, err := s.issuer.Issue(p)
	if err != nil {
		s.metrics.RecordLogin(string(variant), metrics.OutcomeError, time.Since(start))
		s.log.Error(ctx, "token issue failed", "variant", variant, "principal_id", p.ID, "error", err)
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err)
	}

	s.metrics.RecordLogin(string(variant), metrics.OutcomeSuccess, time.Since(start))
	s.log.Info(ctx, "login", "variant", variant, "principal_id", p.ID)
	return &Session{Token: token, Principal: p}, nil
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, common.ErrAccountDisabled):
		return metrics.OutcomeDisabled
	case errors.Is(err, common.ErrInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	default:
		return metrics.OutcomeError
	}
}

// Resolve turns an authorization header value into the current principal.
// The loginType claim picks the store; tokens without a recognised one
// resolve against students. The principal is always re-read so a deleted
// record invalidates its tokens.
func (s *AuthService) Resolve(ctx context.Context, header string) (*auth.Identity, error) {
	raw := auth.StripBearer(header)
	if raw == "" {
		s.metrics.RecordResolution(metrics.ResolveInvalid)
		return nil, common.ErrUnauthorized
	}

	claims, err := s.issuer.Parse(raw)
	if err != nil {
		s.metrics.RecordResolution(metrics.ResolveInvalid)
		s.log.Debug(ctx, "token rejected", "error", err)
		return nil, common.ErrInvalidToken
	}

	variant, ok := models.ParseVariant(string(claims.LoginType))
	if !ok {
		variant = models.VariantStudent
	}

	store, err := StoreFor(s.rm, variant, s.db)
	if err != nil {
		return nil, err
	}

	p, err := store.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.metrics.RecordResolution(metrics.ResolveNotFound)
			return nil, common.ErrInvalidToken
		}
		s.metrics.RecordResolution(metrics.ResolveError)
		s.log.Error(ctx, "resolve principal", "variant", variant, "principal_id", claims.PrincipalID, "error", err)
		return nil, fmt.Errorf("find %s by id: %w", variant, err)
	}

	s.metrics.RecordResolution(metrics.ResolveOK)
	return &auth.Identity{Principal: p.WithoutCredential(), LoginType: variant}, nil
}

// RegisterStudent creates an active student with a hashed credential and
// logs it in. The role is always student.
func (s *AuthService) RegisterStudent(ctx context.Context, in StudentRegistration) (*Session, error) {
	if err := firstError(
		required("name", in.Name),
		validEmail(in.Email),
		validPassword(in.Password),
		required("studentId", in.StudentID),
		required("department", in.Department),
		required("year", in.Year),
		required("phone", in.Phone),
	); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	student, err := s.rm.Students(s.db).Create(ctx, &models.Principal{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleStudent,
		Active:   true,
		Student: &models.StudentProfile{
			StudentID:  in.StudentID,
			Department: in.Department,
			Year:       in.Year,
			Phone:      in.Phone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	student = student.WithoutCredential()
	token, err := s.issuer.Issue(student)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "student registered", "principal_id", student.ID)
	return &Session{Token: token, Principal: student}, nil
}

// SignupAdmin creates a club admin. createdBy is the faculty ID when a
// faculty member creates the account, empty for self signup.
func (s *AuthService) SignupAdmin(ctx context.Context, in AdminRegistration, createdBy string) (*models.Principal, error) {
	if err := firstError(
		required("name", in.Name),
		validEmail(in.Email),
		validPassword(in.Password),
		required("clubName", in.ClubName),
	); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	admin, err := s.rm.Admins(s.db).Create(ctx, &models.Principal{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hash,
		Role:      models.RoleAdmin,
		Active:    true,
		ClubName:  in.ClubName,
		CreatedBy: createdBy,
		Admin:     &models.AdminProfile{Position: in.Position},
	})
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.log.Info(ctx, "admin created", "principal_id", admin.ID, "created_by", createdBy)
	return admin.WithoutCredential(), nil
}

// ListAdmins returns every club admin without credentials.
func (s *AuthService) ListAdmins(ctx context.Context) ([]*models.Principal, error) {
	list, err := s.rm.Admins(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	out := make([]*models.Principal, len(list))
	for i, a := range list {
		out[i] = a.WithoutCredential()
	}
	return out, nil
}
