package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ersonp/family-core/internal/application/handlers"
	"github.com/ersonp/family-core/internal/domain/services"
	"github.com/ersonp/family-core/internal/domain/tree"
	"github.com/ersonp/family-core/internal/infrastructure/config"
	"github.com/ersonp/family-core/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	BasePath string
	Family   string
	Config   *config.Config
	Families *config.FamiliesConfig

	FamilyHandler *handlers.FamilyHandler
	PersonHandler *handlers.PersonHandler
	EventHandler  *handlers.EventHandler
	TreeHandler   *handlers.TreeHandler
	ImportHandler *handlers.ImportHandler
	ExportHandler *handlers.ExportHandler
}

// currentFamily returns the family selected by --family or FAMILY_NAME.
func currentFamily() (string, error) {
	family := viper.GetString(keyFamily)
	if family == "" {
		return "", errors.New("family is required (use --family flag or FAMILY_NAME)")
	}
	return family, nil
}

// withDeps builds dependencies for the selected family, then calls the
// provided function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	family, err := currentFamily()
	if err != nil {
		return err
	}
	return withFamily(ctx, family, fn)
}

// withFamily builds dependencies for the named family.
func withFamily(ctx context.Context, family string, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	families, err := config.LoadFamilies(cwd)
	if err != nil {
		return fmt.Errorf("loading families: %w", err)
	}

	sqlitePath := cfg.SQLitePathForFamily(cwd, family)
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
		return fmt.Errorf("creating family directory: %w", err)
	}

	relationalDB, err := sqlite.NewRepository(config.SQLiteConfig{Path: sqlitePath})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer relationalDB.Close()

	if err := relationalDB.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	logger := slog.Default()
	importer := services.NewImportService(logger)
	familyService := services.NewFamilyService(relationalDB, importer, services.NewExportService(), logger)
	opts := services.ImportOptions{AgeSpans: cfg.Ages.Spans}
	sizer := nodeSizer(cfg.Tree)

	deps := &Deps{
		BasePath:      cwd,
		Family:        family,
		Config:        cfg,
		Families:      families,
		FamilyHandler: handlers.NewFamilyHandler(familyService, opts),
		PersonHandler: handlers.NewPersonHandler(familyService, opts),
		EventHandler:  handlers.NewEventHandler(familyService, opts),
		TreeHandler:   handlers.NewTreeHandler(familyService, opts, sizer),
		ImportHandler: handlers.NewImportHandler(familyService, importer, opts),
		ExportHandler: handlers.NewExportHandler(familyService, opts),
	}

	return fn(deps)
}

// nodeSizer picks the node sizer from the tree config. Without a line
// height every node gets the fixed node size.
func nodeSizer(cfg config.TreeConfig) tree.NodeSizer {
	if cfg.LineHeight <= 0 {
		return tree.FixedSizer(cfg.NodeWidth, cfg.NodeHeight)
	}
	return tree.TextSizer(cfg.NodeWidth, cfg.LineHeight, DefaultCharsPerLine)
}
