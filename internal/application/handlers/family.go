package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/ports"
	"github.com/ersonp/family-core/internal/domain/registry"
	"github.com/ersonp/family-core/internal/domain/services"
)

// familyAccess loads a family, applies an edit and saves it back. Every
// handler works on whole registries: edits are validated against the loaded
// state and nothing is stored when they fail.
type familyAccess struct {
	families *services.FamilyService
	opts     services.ImportOptions
}

func (a familyAccess) load(ctx context.Context, family string) (*registry.Registry, error) {
	reg, _, err := a.families.Load(ctx, family, a.opts)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (a familyAccess) update(ctx context.Context, family string, edit func(*registry.Registry) error) (*registry.Registry, error) {
	reg, err := a.load(ctx, family)
	if err != nil {
		return nil, err
	}
	if err := edit(reg); err != nil {
		return nil, err
	}
	if err := a.families.Save(ctx, family, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func findPerson(reg *registry.Registry, id string) (*entities.Person, error) {
	p := reg.FindPerson(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrPersonNotFound, id)
	}
	return p, nil
}

func findEvent(reg *registry.Registry, canonicalID string) (*entities.Event, error) {
	e := reg.FindEvent(canonicalID)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrEventNotFound, canonicalID)
	}
	return e, nil
}

// FamilyHandler handles family lifecycle and the day counter.
type FamilyHandler struct {
	familyAccess
}

// NewFamilyHandler creates a new family handler. opts supplies the stage
// table for families that store none.
func NewFamilyHandler(families *services.FamilyService, opts services.ImportOptions) *FamilyHandler {
	return &FamilyHandler{familyAccess{families: families, opts: opts}}
}

// Create stores an empty family. It fails if the family already exists.
func (h *FamilyHandler) Create(ctx context.Context, family string) error {
	existing, err := h.families.List(ctx)
	if err != nil {
		return err
	}
	for _, f := range existing {
		if f.Name == family {
			return fmt.Errorf("family %q already exists", family)
		}
	}

	reg, err := h.load(ctx, family)
	if err != nil {
		return err
	}
	return h.families.Save(ctx, family, reg)
}

// List returns the stored families.
func (h *FamilyHandler) List(ctx context.Context) ([]ports.FamilySummary, error) {
	return h.families.List(ctx)
}

// Delete removes a family.
func (h *FamilyHandler) Delete(ctx context.Context, family string) error {
	return h.families.Delete(ctx, family)
}

// History returns the latest audit entries of a family.
func (h *FamilyHandler) History(ctx context.Context, family string, limit int) ([]entities.AuditEntry, error) {
	return h.families.History(ctx, family, limit)
}

// Day returns the current day of a family.
func (h *FamilyHandler) Day(ctx context.Context, family string) (int, error) {
	reg, err := h.load(ctx, family)
	if err != nil {
		return 0, err
	}
	return reg.CurrentDay, nil
}

// AdvanceDay moves the family clock forward and returns the new day.
func (h *FamilyHandler) AdvanceDay(ctx context.Context, family string, days int) (int, error) {
	if days < 0 {
		return 0, fmt.Errorf("%w: cannot go back %d days", entities.ErrInvalidEdit, -days)
	}
	reg, err := h.update(ctx, family, func(reg *registry.Registry) error {
		reg.AdvanceDay(days)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reg.CurrentDay, nil
}
