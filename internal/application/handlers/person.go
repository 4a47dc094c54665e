package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/registry"
	"github.com/ersonp/family-core/internal/domain/services"
)

// PersonHandler handles person edits addressed by id.
type PersonHandler struct {
	familyAccess
}

// NewPersonHandler creates a new person handler.
func NewPersonHandler(families *services.FamilyService, opts services.ImportOptions) *PersonHandler {
	return &PersonHandler{familyAccess{families: families, opts: opts}}
}

// TimelineEntry is one event of a person's timeline.
type TimelineEntry struct {
	EventID string
	Date    int
	Text    string
}

// PersonView is a person together with the values derived for display.
type PersonView struct {
	Person   *entities.Person
	Stage    entities.Stage
	Spouse   string
	Dating   string
	Parents  []string
	Children []string
	Timeline []TimelineEntry
}

// PersonEdit holds optional field changes. Nil fields are left untouched;
// Traits are toggled.
type PersonEdit struct {
	Name      *string
	Career    *string
	Place     *string
	ImageURL  *string
	Favourite *bool
	Complete  *bool
	Traits    []string
}

// Add creates a person from a display name. A nil birthday means today.
func (h *PersonHandler) Add(ctx context.Context, family, name string, birthday *int) (*entities.Person, error) {
	var p *entities.Person
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		var err error
		if p, err = reg.CreatePerson(name); err != nil {
			return err
		}
		if birthday != nil {
			return reg.ChangeBirthday(p, *birthday)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Show returns the person with id and their timeline, each event described
// from their point of view at the stage they had on the event date.
func (h *PersonHandler) Show(ctx context.Context, family, id string) (*PersonView, error) {
	reg, err := h.load(ctx, family)
	if err != nil {
		return nil, err
	}
	p, err := findPerson(reg, id)
	if err != nil {
		return nil, err
	}

	view := &PersonView{
		Person: p,
		Stage:  p.Stage(reg.CurrentDay, reg.GlobalAgeSpans),
	}
	if p.Spouse != nil {
		view.Spouse = p.Spouse.ID
	}
	if p.Dating != nil {
		view.Dating = p.Dating.ID
	}
	for _, parent := range p.EffectiveParents().Present() {
		view.Parents = append(view.Parents, parent.ID)
	}
	for _, c := range p.Children {
		view.Children = append(view.Children, c.ID)
	}
	for _, c := range p.AdoptedChildren {
		view.Children = append(view.Children, c.ID)
	}
	for _, e := range reg.FindEvents(p, true) {
		view.Timeline = append(view.Timeline, TimelineEntry{
			EventID: e.CanonicalID(),
			Date:    e.Date,
			Text:    e.Describe(p, p.Stage(e.Date, reg.GlobalAgeSpans)),
		})
	}
	return view, nil
}

// List returns every person, focus first, or the people whose name
// contains query.
func (h *PersonHandler) List(ctx context.Context, family, query string) ([]*entities.Person, error) {
	reg, err := h.load(ctx, family)
	if err != nil {
		return nil, err
	}
	if query != "" {
		return reg.SearchPersons(query), nil
	}
	return reg.Persons(), nil
}

// Edit applies field changes to the person with id.
func (h *PersonHandler) Edit(ctx context.Context, family, id string, edit PersonEdit) (*entities.Person, error) {
	var p *entities.Person
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		var err error
		if p, err = findPerson(reg, id); err != nil {
			return err
		}
		if edit.Name != nil {
			name := strings.TrimSpace(*edit.Name)
			if name == "" {
				return fmt.Errorf("%w: name is required", entities.ErrInvalidEdit)
			}
			p.Name = name
		}
		if edit.Career != nil {
			p.Career = *edit.Career
		}
		if edit.Place != nil {
			p.Place = *edit.Place
		}
		if edit.ImageURL != nil {
			p.ImageURL = *edit.ImageURL
		}
		if edit.Favourite != nil {
			p.IsFavourite = *edit.Favourite
		}
		if edit.Complete != nil {
			p.IsComplete = *edit.Complete
		}
		for _, trait := range edit.Traits {
			p.ToggleTrait(trait)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Rename changes the id of a person.
func (h *PersonHandler) Rename(ctx context.Context, family, id, newID string) error {
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		p, err := findPerson(reg, id)
		if err != nil {
			return err
		}
		return reg.RenameID(p, newID)
	})
	return err
}

// Delete removes a person and detaches them from every event.
func (h *PersonHandler) Delete(ctx context.Context, family, id string) error {
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		p, err := findPerson(reg, id)
		if err != nil {
			return err
		}
		return reg.DeletePerson(p)
	})
	return err
}

// SetBirthday moves a person's birthday together with their Birth event.
func (h *PersonHandler) SetBirthday(ctx context.Context, family, id string, day int) error {
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		p, err := findPerson(reg, id)
		if err != nil {
			return err
		}
		return reg.ChangeBirthday(p, day)
	})
	return err
}

// Kill records the death of a person at the end of their last stage and
// returns the deathday.
func (h *PersonHandler) Kill(ctx context.Context, family, id string) (int, error) {
	var day int
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		p, err := findPerson(reg, id)
		if err != nil {
			return err
		}
		if err := reg.Kill(p); err != nil {
			return err
		}
		day = *p.Deathday
		return nil
	})
	return day, err
}

// Revive clears a recorded death.
func (h *PersonHandler) Revive(ctx context.Context, family, id string) error {
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		p, err := findPerson(reg, id)
		if err != nil {
			return err
		}
		return reg.SetDeathday(p, nil)
	})
	return err
}

// SetStage holds a person in stage. An empty stage or "auto" clears the
// override.
func (h *PersonHandler) SetStage(ctx context.Context, family, id, stage string) error {
	var override *entities.Stage
	if stage != "" && !strings.EqualFold(stage, "auto") {
		s, err := entities.ParseStage(stage)
		if err != nil {
			return err
		}
		override = &s
	}

	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		p, err := findPerson(reg, id)
		if err != nil {
			return err
		}
		return reg.SetStageOverride(p, override)
	})
	return err
}

// SetAgeSpan changes how many days a person spends in one stage.
func (h *PersonHandler) SetAgeSpan(ctx context.Context, family, id, stage string, days int) error {
	s, err := entities.ParseStage(stage)
	if err != nil {
		return err
	}

	_, err = h.update(ctx, family, func(reg *registry.Registry) error {
		p, err := findPerson(reg, id)
		if err != nil {
			return err
		}
		return reg.ChangeAgeSpan(p, int(s), days)
	})
	return err
}

// Focus makes a person the default root of the tree.
func (h *PersonHandler) Focus(ctx context.Context, family, id string) error {
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		p, err := findPerson(reg, id)
		if err != nil {
			return err
		}
		return reg.SetFocus(p)
	})
	return err
}
