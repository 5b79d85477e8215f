// Command maintain normalizes stored emails and hashes plaintext
// credentials across the principal tables.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/clubevent/internal/flagx"
	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/config"
	"github.com/dmitrijs2005/clubevent/internal/server/maintenance"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/repomanager"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var (
		dryRun  bool
		variant string
	)
	fs := flag.NewFlagSet("maintain", flag.ExitOnError)
	fs.BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	fs.StringVar(&variant, "variant", "all", "student, admin, faculty or all")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-dry-run", "-variant"}))

	cfg := config.LoadConfig()

	variants, err := maintenance.ParseVariants(variant)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	m := maintenance.NewMaintainer(db, repomanager.NewPostgresRepositoryManager(),
		auth.NewBcryptHasher(cfg.BcryptCost), logger, dryRun)

	reports, err := m.RunAll(ctx, variants)
	for _, r := range reports {
		fmt.Println(r)
	}
	if err != nil {
		logger.Error(ctx, "maintenance aborted", "error", err)
		os.Exit(1)
	}
}
