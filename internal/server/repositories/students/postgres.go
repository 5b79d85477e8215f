package students

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, name, email, password, student_id, department, year, phone,
		        role, is_active, is_club_admin, club_name, points, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*models.Principal, error) {
	s := &models.Principal{Variant: models.VariantStudent, Student: &models.StudentProfile{}}
	var club sql.NullString

	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Password,
		&s.Student.StudentID, &s.Student.Department, &s.Student.Year, &s.Student.Phone,
		&s.Role, &s.Active, &s.Student.IsClubAdmin, &club, &s.Student.Points,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.ClubName = club.String
	return s, nil
}

func profile(s *models.Principal) *models.StudentProfile {
	if s.Student == nil {
		return &models.StudentProfile{}
	}
	return s.Student
}

// Create inserts s, assigning an ID when it has none. The email is stored
// normalized and the role defaults to student.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Principal) (*models.Principal, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Role == "" {
		s.Role = models.RoleStudent
	}
	s.Variant = models.VariantStudent
	s.Email = models.NormalizeEmail(s.Email)
	s.Student = profile(s)

	query :=
		`INSERT INTO students (id, name, email, password, student_id, department, year, phone,
		                       role, is_active, is_club_admin, club_name, points)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.Name, s.Email, s.Password,
		s.Student.StudentID, s.Student.Department, s.Student.Year, s.Student.Phone,
		s.Role, s.Active, s.Student.IsClubAdmin, dbx.NullString(s.ClubName), s.Student.Points,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return s, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Principal, error) {
	query := `SELECT ` + columns + `
		 FROM students
		 WHERE lower(btrim(email)) = $1
		 `

	s, err := scan(r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return s, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + columns + `
		 FROM students
		 WHERE id = $1
		 `

	s, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return s, nil
}

// Save writes every mutable field of s back to its row.
func (r *PostgresRepository) Save(ctx context.Context, s *models.Principal) error {
	s.Email = models.NormalizeEmail(s.Email)
	p := profile(s)

	query :=
		`UPDATE students
		 SET name = $2, email = $3, password = $4, student_id = $5, department = $6, year = $7,
		     phone = $8, role = $9, is_active = $10, is_club_admin = $11, club_name = $12,
		     points = $13, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Email, s.Password, p.StudentID, p.Department, p.Year,
		p.Phone, s.Role, s.Active, p.IsClubAdmin, dbx.NullString(s.ClubName),
		p.Points)
	if err != nil {
		return dbx.Classify(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Principal, error) {
	query := `SELECT ` + columns + `
		 FROM students
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Principal
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}
