package students

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const testID = "6f1f4b0e-3c5b-4d0a-9b1e-8f2f5c1d7a10"

var cols = []string{"id", "name", "email", "password", "student_id", "department", "year", "phone",
	"role", "is_active", "is_club_admin", "club_name", "points", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func studentRow(club any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(cols).AddRow(testID, "Alice", "alice@uni.edu", "$2a$04$hash",
		"S-100", "CSE", "3", "555", "student", true, false, club, 10, now, now)
}

func TestCreate_NormalizesAndAssignsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^INSERT INTO students \(id, name, email, password, student_id, .*\) VALUES \(\$1, .*\$13\) RETURNING created_at, updated_at$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "Alice", "alice@uni.edu", "$2a$04$hash", "S-100", "", "", "",
			"student", true, false, nil, 0).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	s := &models.Principal{
		Name:     "Alice",
		Email:    "  Alice@Uni.EDU ",
		Password: "$2a$04$hash",
		Active:   true,
		Student:  &models.StudentProfile{StudentID: "S-100"},
	}
	got, err := repo.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || got.Email != "alice@uni.edu" || got.Role != models.RoleStudent || got.Variant != models.VariantStudent {
		t.Fatalf("unexpected student: %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at not scanned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^INSERT INTO students`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"})

	_, err := repo.Create(context.Background(), &models.Principal{Name: "A", Email: "a@b.c", Password: "x"})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT id, name, email, password, .* FROM students WHERE lower\(btrim\(email\)\) = \$1$`).
		WithArgs("alice@uni.edu").
		WillReturnRows(studentRow("Chess Club"))

	got, err := repo.GetByEmail(context.Background(), "ALICE@uni.edu ")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != testID || got.Password != "$2a$04$hash" || got.ClubName != "Chess Club" {
		t.Fatalf("unexpected student: %+v", got)
	}
	if got.Student == nil || got.Student.StudentID != "S-100" || got.Student.Points != 10 {
		t.Fatalf("unexpected profile: %+v", got.Student)
	}
}

func TestGetByEmail_NullClub(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM students WHERE lower\(btrim\(email\)\) = \$1`).
		WithArgs("alice@uni.edu").
		WillReturnRows(studentRow(nil))

	got, err := repo.GetByEmail(context.Background(), "alice@uni.edu")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ClubName != "" {
		t.Fatalf("club = %q, want empty", got.ClubName)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM students WHERE lower\(btrim\(email\)\) = \$1`).
		WithArgs("ghost@uni.edu").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@uni.edu")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM students WHERE lower\(btrim\(email\)\) = \$1`).
		WillReturnError(errors.New("db down"))

	_, err := repo.GetByEmail(context.Background(), "a@b.c")
	if !errors.Is(err, common.ErrStoreFault) {
		t.Fatalf("want ErrStoreFault, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM students WHERE id = \$1`).
		WithArgs(testID).
		WillReturnRows(studentRow(nil))

	got, err := repo.GetByID(context.Background(), testID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "alice@uni.edu" {
		t.Fatalf("unexpected student: %+v", got)
	}
}

func TestGetByID_MalformedIDSkipsQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSave(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^UPDATE students SET name = \$2, email = \$3, password = \$4, .* WHERE id = \$1$`

	mock.ExpectExec(q).
		WithArgs(testID, "Alice", "alice@uni.edu", "$2a$04$new", "S-100", "CSE", "3", "555",
			"admin", true, true, "Robotics", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := &models.Principal{
		ID: testID, Name: "Alice", Email: "Alice@uni.edu", Password: "$2a$04$new",
		Role: models.RoleAdmin, Active: true, ClubName: "Robotics",
		Student: &models.StudentProfile{StudentID: "S-100", Department: "CSE", Year: "3", Phone: "555", Points: 10, IsClubAdmin: true},
	}
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSave_ClearsClubName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE students`).
		WithArgs(testID, "Alice", "alice@uni.edu", "h", "", "", "", "", "student", true, false, nil, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := &models.Principal{ID: testID, Name: "Alice", Email: "alice@uni.edu", Password: "h", Role: models.RoleStudent, Active: true}
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("Save error: %v", err)
	}
}

func TestSave_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE students`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Save(context.Background(), &models.Principal{ID: testID})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestSave_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE students`).WillReturnError(errors.New("deadlock"))

	err := repo.Save(context.Background(), &models.Principal{ID: testID})
	if !errors.Is(err, common.ErrStoreFault) {
		t.Fatalf("want ErrStoreFault, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(cols).
		AddRow(testID, "Alice", "alice@uni.edu", "plain", "S-1", "", "", "", "student", true, false, nil, 0, now, now).
		AddRow("0c8a1c52-5e0a-4d7c-8b7e-6a2d1b9f4e33", "Bob", "bob@uni.edu", "$2b$04$x", "S-2", "", "", "", "admin", true, true, "Chess", 0, now, now)

	mock.ExpectQuery(`FROM students ORDER BY created_at$`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[1].ClubName != "Chess" || !got[1].Student.IsClubAdmin {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestList_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(cols).
		AddRow(testID, "Alice", "alice@uni.edu", "plain", "S-1", "", "", "", "student", true, false, nil, 0, now, now).
		RowError(0, errors.New("broken pipe"))
	mock.ExpectQuery(`FROM students`).WillReturnRows(rows)

	if _, err := repo.List(context.Background()); !errors.Is(err, common.ErrStoreFault) {
		t.Fatalf("want ErrStoreFault, got %v", err)
	}
}
