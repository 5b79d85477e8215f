package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/clubevent/internal/dbx"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/admins"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/faculty"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/students"
)

// RepositoryManager vends the three credential repositories bound to a
// handle, which is either the pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Students(db dbx.DBTX) students.Repository
	Admins(db dbx.DBTX) admins.Repository
	Faculty(db dbx.DBTX) faculty.Repository
}
