package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ersonp/family-core/internal/domain/services"
	"github.com/ersonp/family-core/internal/infrastructure/parsers"
)

// ExportHandler handles writing families as save documents.
type ExportHandler struct {
	familyAccess
}

// NewExportHandler creates a new export handler.
func NewExportHandler(families *services.FamilyService, opts services.ImportOptions) *ExportHandler {
	return &ExportHandler{familyAccess{families: families, opts: opts}}
}

// Handle writes family to w in format.
func (h *ExportHandler) Handle(ctx context.Context, family string, w io.Writer, format string) error {
	encoder := parsers.ForFormat(format)
	if encoder == nil {
		return fmt.Errorf("unsupported export format: %s", format)
	}

	reg, err := h.load(ctx, family)
	if err != nil {
		return err
	}

	if err := encoder.Encode(w, h.families.Export(reg)); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}

// HandleFile writes family to path. An empty format is taken from the file
// extension.
func (h *ExportHandler) HandleFile(ctx context.Context, family, path, format string) error {
	if format == "" {
		if parsers.ForFile(path) == nil {
			return fmt.Errorf("unsupported format for file: %s", path)
		}
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := h.Handle(ctx, family, file, format); err != nil {
		return err
	}
	return file.Close()
}
