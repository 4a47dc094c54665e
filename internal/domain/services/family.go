package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/ports"
	"github.com/ersonp/family-core/internal/domain/registry"
)

// ErrFamilyNotFound is returned when a family has no stored document.
var ErrFamilyNotFound = errors.New("family not found")

// FamilyService loads and saves family registries through a FamilyStore,
// recording every write in the audit log.
type FamilyService struct {
	store    ports.FamilyStore
	importer *ImportService
	exporter *ExportService
	logger   *slog.Logger
}

// NewFamilyService creates a new FamilyService.
func NewFamilyService(store ports.FamilyStore, importer *ImportService, exporter *ExportService, logger *slog.Logger) *FamilyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FamilyService{
		store:    store,
		importer: importer,
		exporter: exporter,
		logger:   logger,
	}
}

// Load returns the registry of the named family. A family that was never
// saved loads as an empty registry using opts.AgeSpans.
func (s *FamilyService) Load(ctx context.Context, family string, opts ImportOptions) (*registry.Registry, *ImportResult, error) {
	doc, err := s.store.LoadDocument(ctx, family)
	if err != nil {
		return nil, nil, fmt.Errorf("loading family %s: %w", family, err)
	}
	if doc == nil {
		s.logger.Debug("family not stored yet, starting empty", slog.String("family", family))
		var spans []int
		if opts.AgeSpans != nil {
			spans = append([]int(nil), opts.AgeSpans...)
		}
		reg := registry.New(0, spans, registry.WithLogger(s.logger))
		reg.FamilyName = family
		return reg, &ImportResult{}, nil
	}

	reg, result := s.importer.Import(doc, opts)
	return reg, result, nil
}

// Save stores reg as the named family.
func (s *FamilyService) Save(ctx context.Context, family string, reg *registry.Registry) error {
	_, err := s.save(ctx, family, reg, entities.ActionSave, nil)
	return err
}

// Import resolves doc, stores the result as the named family, and returns
// the registry together with the dropped records.
func (s *FamilyService) Import(ctx context.Context, family string, doc *entities.Document, opts ImportOptions) (*registry.Registry, *ImportResult, error) {
	reg, result := s.importer.Import(doc, opts)

	details := map[string]any{
		"skipped": result.Skipped,
		"derived": result.Derived,
		"errors":  len(result.Errors),
	}
	if _, err := s.save(ctx, family, reg, entities.ActionImport, details); err != nil {
		return nil, nil, err
	}
	return reg, result, nil
}

// Export returns the save document of reg.
func (s *FamilyService) Export(reg *registry.Registry) *entities.Document {
	return s.exporter.Export(reg)
}

func (s *FamilyService) save(ctx context.Context, family string, reg *registry.Registry, action string, details map[string]any) (string, error) {
	doc := s.exporter.Export(reg)

	id, err := s.store.SaveDocument(ctx, family, doc)
	if err != nil {
		return "", fmt.Errorf("saving family %s: %w", family, err)
	}

	if details == nil {
		details = make(map[string]any)
	}
	details["persons"] = len(doc.Sims)
	details["events"] = len(doc.Events)
	details["current_day"] = doc.CurrentDay

	if err := s.store.LogAction(ctx, action, id, details); err != nil {
		return "", fmt.Errorf("logging %s: %w", action, err)
	}
	return id, nil
}

// List returns the stored families.
func (s *FamilyService) List(ctx context.Context) ([]ports.FamilySummary, error) {
	families, err := s.store.ListFamilies(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing families: %w", err)
	}
	return families, nil
}

// Delete removes the named family.
func (s *FamilyService) Delete(ctx context.Context, family string) error {
	id, err := s.familyID(ctx, family)
	if err != nil {
		return err
	}

	if err := s.store.DeleteFamily(ctx, family); err != nil {
		return fmt.Errorf("deleting family %s: %w", family, err)
	}

	if err := s.store.LogAction(ctx, entities.ActionDelete, id, map[string]any{"family": family}); err != nil {
		return fmt.Errorf("logging %s: %w", entities.ActionDelete, err)
	}
	return nil
}

// History returns the latest audit entries of the named family.
func (s *FamilyService) History(ctx context.Context, family string, limit int) ([]entities.AuditEntry, error) {
	id, err := s.familyID(ctx, family)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.FindAuditLog(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history of %s: %w", family, err)
	}
	return entries, nil
}

func (s *FamilyService) familyID(ctx context.Context, family string) (string, error) {
	families, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	for _, f := range families {
		if f.Name == family {
			return f.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFamilyNotFound, family)
}
