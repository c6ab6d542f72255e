// Command migrate applies, rolls back or repairs database migrations.
//
//	migrate up
//	migrate down [N]
//	migrate force VERSION
//	migrate version
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/config"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/logger"
	"github.com/farhanulkhair/be-adaptivin-sub000/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up | down [N] | force VERSION | version")
		os.Exit(2)
	}

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal("migration command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, command string, args []string) error {
	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(database.MigrationsURL, "postgres", driver)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(args) > 0 {
			if steps, err = strconv.Atoi(args[0]); err != nil || steps < 1 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
		}
		err = m.Steps(-steps)
	case "force":
		if len(args) == 0 {
			return errors.New("force requires a version")
		}
		version, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		// Force clears the dirty flag left by a failed migration.
		err = m.Force(version)
	case "version":
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("no migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("migration state", zap.String("command", command), zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
