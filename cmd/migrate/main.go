package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"nivesh/internal/config"
	"nivesh/internal/database"
	"nivesh/internal/logger"
)

const usage = "usage: migrate <up|down [N]|force VERSION|version>"

// migrator is the part of *migrate.Migrate the commands use.
type migrator interface {
	Up() error
	Steps(n int) error
	Force(version int) error
	Version() (uint, bool, error)
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	if dbConfig.Driver != database.DriverPostgres {
		return fmt.Errorf("SQL migrations target postgres; %s schemas are created by the API on startup", dbConfig.Driver)
	}

	m, err := migrate.New(database.MigrationsDir, dbConfig.MigrationURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Get().Warnw("Closing migrate failed", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	msg, err := apply(m, args)
	if err != nil {
		return err
	}
	logger.Get().Info(msg)
	return nil
}

// apply runs one command and returns the line to log on success.
func apply(m migrator, args []string) (string, error) {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return "", fmt.Errorf("migration up failed: %w", err)
		}
		return "Schema is up to date", nil

	case "down":
		steps, err := intArg(args, 1)
		if err != nil {
			return "", fmt.Errorf("invalid step count: %w", err)
		}
		if steps < 1 {
			return "", fmt.Errorf("invalid step count: %d", steps)
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return "", fmt.Errorf("migration down failed: %w", err)
		}
		return fmt.Sprintf("Rolled back %d migration(s)", steps), nil

	case "force":
		if len(args) < 2 {
			return "", errors.New("usage: migrate force VERSION")
		}
		version, err := intArg(args, 1)
		if err != nil {
			return "", fmt.Errorf("invalid version: %w", err)
		}
		if err := m.Force(version); err != nil {
			return "", fmt.Errorf("force failed: %w", err)
		}
		return fmt.Sprintf("Forced version %d", version), nil

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return "No migrations applied", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to get version: %w", err)
		}
		return fmt.Sprintf("Version %d (dirty: %v)", version, dirty), nil
	}
	return "", fmt.Errorf("unknown command %q; %s", args[0], usage)
}

// intArg parses args[i], defaulting to 1 when absent.
func intArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	return strconv.Atoi(args[i])
}
