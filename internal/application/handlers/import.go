package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/registry"
	"github.com/ersonp/family-core/internal/domain/services"
	"github.com/ersonp/family-core/internal/infrastructure/parsers"
)

// ImportHandler handles importing save documents from files.
type ImportHandler struct {
	families *services.FamilyService
	importer *services.ImportService
	opts     services.ImportOptions
}

// NewImportHandler creates a new import handler.
func NewImportHandler(families *services.FamilyService, importer *services.ImportService, opts services.ImportOptions) *ImportHandler {
	return &ImportHandler{
		families: families,
		importer: importer,
		opts:     opts,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string // "json", "yaml", "toml", "csv", or "auto"
	DryRun bool   // Validate without saving
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Persons int
	Events  int
	Skipped int
	Derived int
	Errors  []services.ImportError
}

// Handle imports the document at filePath as family, replacing what was
// stored. Records that cannot be resolved are dropped and reported.
func (h *ImportHandler) Handle(ctx context.Context, family, filePath string, opts ImportOptions) (*ImportResult, error) {
	doc, err := h.parseFile(family, filePath, opts.Format)
	if err != nil {
		return nil, err
	}

	var result *services.ImportResult
	if opts.DryRun {
		_, result = h.importer.Import(doc, h.opts)
	} else {
		if _, result, err = h.families.Import(ctx, family, doc, h.opts); err != nil {
			return nil, err
		}
	}
	return newImportResult(result), nil
}

// Preview resolves the document at filePath in memory. Nothing is stored
// and no audit entry is written.
func (h *ImportHandler) Preview(family, filePath string, opts ImportOptions) (*registry.Registry, *ImportResult, error) {
	doc, err := h.parseFile(family, filePath, opts.Format)
	if err != nil {
		return nil, nil, err
	}

	reg, result := h.importer.Import(doc, h.opts)
	return reg, newImportResult(result), nil
}

func (h *ImportHandler) parseFile(family, filePath, format string) (*entities.Document, error) {
	var parser parsers.Parser
	if format == "" || format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	doc, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}
	if doc.FamilyName == "" {
		doc.FamilyName = family
	}
	return doc, nil
}

func newImportResult(result *services.ImportResult) *ImportResult {
	return &ImportResult{
		Persons: result.Persons,
		Events:  result.Events,
		Skipped: result.Skipped,
		Derived: result.Derived,
		Errors:  result.Errors,
	}
}
