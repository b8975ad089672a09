// Package main provides the castsheet binary, which prints a character's
// Tech and Force casting summary as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/powercast/internal/config"
	"github.com/cory-johannsen/powercast/internal/game/casting"
	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
	"github.com/cory-johannsen/powercast/internal/game/tweak"
	"github.com/cory-johannsen/powercast/internal/observability"
	"github.com/cory-johannsen/powercast/internal/scripting"
	"github.com/cory-johannsen/powercast/internal/storage/postgres"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("castsheet: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	start := time.Now()

	fs := flag.NewFlagSet("castsheet", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file; empty = defaults plus POWERCAST_ env")
	characterPath := fs.String("character", "", "path to a character YAML file")
	characterID := fs.String("character-id", "", "UUID of a stored character")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*characterPath == "") == (*characterID == "") {
		return errors.New("usage: castsheet [-config <file>] (-character <file> | -character-id <uuid>)")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	catStart := time.Now()
	cat, err := ruleset.LoadCatalog(cfg.Rules.Dir, cfg.Rules.ReferenceClass)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	classes, archetypes, powers := cat.Counts()
	logger.Info("rules loaded",
		zap.String("dir", cfg.Rules.Dir),
		zap.Int("classes", classes),
		zap.Int("archetypes", archetypes),
		zap.Int("powers", powers),
		zap.Duration("elapsed", time.Since(catStart)),
	)

	c, err := loadCharacter(ctx, cfg, *characterPath, *characterID, logger)
	if err != nil {
		return err
	}

	overrider := tweak.Manual
	if cfg.Scripting.TweakScript != "" {
		script, err := scripting.LoadTweakScript(cfg.Scripting.TweakScript, cfg.Scripting.InstructionLimit, logger)
		if err != nil {
			return fmt.Errorf("loading tweak script: %w", err)
		}
		defer script.Close()
		overrider = tweak.Chain(tweak.Scripted(script), tweak.Manual)
	}

	calc := casting.NewCalculator(cat, overrider, logger)
	res, err := calc.Calculate(c, c.Abilities.Modifiers(), character.ProficiencyBonus(c.TotalLevel()))
	if err != nil {
		return fmt.Errorf("calculating casting: %w", err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	logger.Info("casting sheet written",
		zap.String("character", c.Name),
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

func loadCharacter(ctx context.Context, cfg config.Config, path, id string, logger *zap.Logger) (*character.Character, error) {
	if path != "" {
		c, err := character.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading character: %w", err)
		}
		return c, nil
	}

	charID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing character id %q: %w", id, err)
	}

	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	c, err := pool.Characters().GetByID(ctx, charID)
	if err != nil {
		return nil, fmt.Errorf("loading character %s: %w", charID, err)
	}
	return c, nil
}
