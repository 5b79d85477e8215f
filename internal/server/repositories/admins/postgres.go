package admins

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, name, email, password, role, club_name, position, is_active,
		        promoted_from, created_by, created_at, updated_at`

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
	a := &models.Principal{Variant: models.VariantAdmin, Admin: &models.AdminProfile{}}
	var club, promotedFrom, createdBy sql.NullString

	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.Role, &club,
		&a.Admin.Position, &a.Active, &promotedFrom, &createdBy,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.ClubName = club.String
	a.PromotedFrom = promotedFrom.String
	a.CreatedBy = createdBy.String
	return a, nil
}

func position(a *models.Principal) string {
	if a.Admin == nil {
		return ""
	}
	return a.Admin.Position
}

// Create inserts a, assigning an ID when it has none. The password is
// stored as given; promotion copies an existing hash verbatim.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Principal) (*models.Principal, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = models.RoleAdmin
	}
	if a.Admin == nil {
		a.Admin = &models.AdminProfile{}
	}
	a.Variant = models.VariantAdmin
	a.Email = models.NormalizeEmail(a.Email)

	query :=
		`INSERT INTO admins (id, name, email, password, role, club_name, position, is_active,
		                     promoted_from, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Name, a.Email, a.Password, a.Role, dbx.NullString(a.ClubName),
		a.Admin.Position, a.Active, dbx.NullString(a.PromotedFrom), dbx.NullString(a.CreatedBy),
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return a, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Principal, error) {
	query := `SELECT ` + columns + `
		 FROM admins
		 WHERE lower(btrim(email)) = $1
		 `

	a, err := scan(r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + columns + `
		 FROM admins
		 WHERE id = $1
		 `

	a, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return a, nil
}

func (r *PostgresRepository) Save(ctx context.Context, a *models.Principal) error {
	a.Email = models.NormalizeEmail(a.Email)

	query :=
		`UPDATE admins
		 SET name = $2, email = $3, password = $4, role = $5, club_name = $6, position = $7,
		     is_active = $8, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.Password, a.Role, dbx.NullString(a.ClubName),
		position(a), a.Active)
	if err != nil {
		return dbx.Classify(err)
	}
	return affected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return dbx.Classify(err)
	}
	return affected(res)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Principal, error) {
	query := `SELECT ` + columns + `
		 FROM admins
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Principal
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
