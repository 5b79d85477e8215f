package faculty

import (
	"context"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, name, email, password, faculty_id, department, position, phone,
		        role, is_active, created_at, updated_at`

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
	f := &models.Principal{Variant: models.VariantFaculty, Faculty: &models.FacultyProfile{}}

	err := row.Scan(&f.ID, &f.Name, &f.Email, &f.Password,
		&f.Faculty.FacultyID, &f.Faculty.Department, &f.Faculty.Position, &f.Faculty.Phone,
		&f.Role, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.Principal) (*models.Principal, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Role == "" {
		f.Role = models.RoleFaculty
	}
	if f.Faculty == nil {
		f.Faculty = &models.FacultyProfile{}
	}
	f.Variant = models.VariantFaculty
	f.Email = models.NormalizeEmail(f.Email)

	query :=
		`INSERT INTO faculty (id, name, email, password, faculty_id, department, position, phone,
		                      role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		f.ID, f.Name, f.Email, f.Password,
		f.Faculty.FacultyID, f.Faculty.Department, f.Faculty.Position, f.Faculty.Phone,
		f.Role, f.Active,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return f, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Principal, error) {
	query := `SELECT ` + columns + `
		 FROM faculty
		 WHERE lower(btrim(email)) = $1
		 `

	f, err := scan(r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return f, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + columns + `
		 FROM faculty
		 WHERE id = $1
		 `

	f, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return f, nil
}

func (r *PostgresRepository) Save(ctx context.Context, f *models.Principal) error {
	f.Email = models.NormalizeEmail(f.Email)
	p := f.Faculty
	if p == nil {
		p = &models.FacultyProfile{}
	}

	query :=
		`UPDATE faculty
		 SET name = $2, email = $3, password = $4, faculty_id = $5, department = $6,
		     position = $7, phone = $8, role = $9, is_active = $10, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		f.ID, f.Name, f.Email, f.Password, p.FacultyID, p.Department,
		p.Position, p.Phone, f.Role, f.Active)
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
		 FROM faculty
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Principal
	for rows.Next() {
		f, err := scan(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}
