package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/metrics"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/repomanager"
)

// PromotionService turns students into club admins and back.
type PromotionService struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	log     logging.Logger
	metrics *metrics.Metrics
}

func NewPromotionService(db *sql.DB, rm repomanager.RepositoryManager, log logging.Logger, m *metrics.Metrics) *PromotionService {
	return &PromotionService{
		db:      db,
		rm:      rm,
		log:     log.With("module", "promotion_service"),
		metrics: m,
	}
}

// Promote creates an admin record for the student, carrying its credential
// over verbatim, and marks the student as a club admin. Both writes happen
// in one transaction, admin first.
func (s *PromotionService) Promote(ctx context.Context, studentID, clubName, promotedBy string) (*models.Principal, error) {
	if clubName == "" {
		clubName = common.DefaultClubName
	}

	var admin *models.Principal

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		students := s.rm.Students(tx)
		admins := s.rm.Admins(tx)

		student, err := students.GetByID(ctx, studentID)
		if err != nil {
			return fmt.Errorf("find student: %w", err)
		}

		_, err = admins.GetByEmail(ctx, student.Email)
		switch {
		case err == nil:
			return common.ErrAlreadyAdmin
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("find admin: %w", err)
		}

		admin, err = admins.Create(ctx, &models.Principal{
			Name:         student.Name,
			Email:        student.Email,
			Password:     student.Password,
			Role:         models.RoleAdmin,
			Active:       true,
			ClubName:     clubName,
			PromotedFrom: student.ID,
			CreatedBy:    promotedBy,
			Admin:        &models.AdminProfile{},
		})
		if err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return common.ErrAlreadyAdmin
			}
			return fmt.Errorf("create admin: %w", err)
		}

		student.Role = models.RoleAdmin
		student.ClubName = clubName
		if student.Student == nil {
			student.Student = &models.StudentProfile{}
		}
		student.Student.IsClubAdmin = true

		if err := students.Save(ctx, student); err != nil {
			return fmt.Errorf("update student: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordPromotion("promote", resultOf(err))
		return nil, err
	}

	s.metrics.RecordPromotion("promote", "ok")
	s.log.Info(ctx, "student promoted", "student_id", studentID, "admin_id", admin.ID, "promoted_by", promotedBy)
	return admin.WithoutCredential(), nil
}

// Demote deletes the admin record. When it was promoted from a student
// that still exists, the student is reverted first.
func (s *PromotionService) Demote(ctx context.Context, adminID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		students := s.rm.Students(tx)
		admins := s.rm.Admins(tx)

		admin, err := admins.GetByID(ctx, adminID)
		if err != nil {
			return fmt.Errorf("find admin: %w", err)
		}

		if admin.PromotedFrom != "" {
			student, err := students.GetByID(ctx, admin.PromotedFrom)
			switch {
			case err == nil:
				student.Role = models.RoleStudent
				student.ClubName = ""
				if student.Student != nil {
					student.Student.IsClubAdmin = false
				}
				if err := students.Save(ctx, student); err != nil {
					return fmt.Errorf("revert student: %w", err)
				}
			case errors.Is(err, common.ErrorNotFound):
				s.log.Warn(ctx, "promoted-from student is gone", "admin_id", adminID, "student_id", admin.PromotedFrom)
			default:
				return fmt.Errorf("find student: %w", err)
			}
		}

		if err := admins.Delete(ctx, adminID); err != nil {
			return fmt.Errorf("delete admin: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordPromotion("demote", resultOf(err))
		return err
	}

	s.metrics.RecordPromotion("demote", "ok")
	s.log.Info(ctx, "admin removed", "admin_id", adminID)
	return nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrAlreadyAdmin):
		return "already_admin"
	default:
		return "error"
	}
}
