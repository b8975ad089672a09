// Package main applies or rolls back the character schema migrations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/cory-johannsen/powercast/internal/config"
	"github.com/cory-johannsen/powercast/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

// plan is a validated migration request.
type plan struct {
	direction string
	steps     int
}

// newPlan validates the direction and step count.
//
// Precondition: none.
// Postcondition: direction is "up" or "down" and steps >= 0, or an error.
func newPlan(direction string, steps int) (plan, error) {
	if direction != "up" && direction != "down" {
		return plan{}, fmt.Errorf("invalid direction %q: must be up or down", direction)
	}
	if steps < 0 {
		return plan{}, fmt.Errorf("invalid steps %d: must be >= 0", steps)
	}
	return plan{direction: direction, steps: steps}, nil
}

// apply runs the plan. Zero steps means all pending migrations.
func (p plan) apply(m *migrate.Migrate) error {
	switch {
	case p.steps == 0 && p.direction == "up":
		return m.Up()
	case p.steps == 0:
		return m.Down()
	case p.direction == "up":
		return m.Steps(p.steps)
	default:
		return m.Steps(-p.steps)
	}
}

func run(args []string, stdout io.Writer) error {
	start := time.Now()

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file; empty = defaults plus POWERCAST_ env")
	dir := fs.String("migrations", "migrations", "directory holding *.up.sql and *.down.sql files")
	direction := fs.String("direction", "up", "up or down")
	steps := fs.Int("steps", 0, "number of migrations to apply; 0 applies all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := newPlan(*direction, *steps)
	if err != nil {
		return err
	}
	if info, err := os.Stat(*dir); err != nil || !info.IsDir() {
		return fmt.Errorf("migrations directory %q not found", *dir)
	}

	var cfg config.Config
	if *configPath == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	m, err := migrate.New("file://"+*dir, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("opening migrator: %w", err)
	}
	defer m.Close()

	applyErr := p.apply(m)
	if applyErr != nil && !errors.Is(applyErr, migrate.ErrNoChange) {
		return fmt.Errorf("migrating %s: %w", p.direction, applyErr)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", verr)
	}
	logger.Info("migration finished",
		zap.String("direction", p.direction),
		zap.Int("steps", p.steps),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Bool("changed", applyErr == nil),
		zap.Duration("elapsed", time.Since(start)),
	)

	if applyErr != nil {
		_, err = fmt.Fprintf(stdout, "schema unchanged at version %d\n", version)
	} else {
		_, err = fmt.Fprintf(stdout, "schema %s to version %d\n", p.direction, version)
	}
	return err
}
