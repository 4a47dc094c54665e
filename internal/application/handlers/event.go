package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/registry"
	"github.com/ersonp/family-core/internal/domain/services"
)

// EventHandler handles event edits. Events are addressed by canonical id.
type EventHandler struct {
	familyAccess
}

// NewEventHandler creates a new event handler.
func NewEventHandler(families *services.FamilyService, opts services.ImportOptions) *EventHandler {
	return &EventHandler{familyAccess{families: families, opts: opts}}
}

// EventInput describes an event to add. Sims holds the participant ids;
// Parents the parent ids of a Birth or Adopt, "" marking an empty slot.
type EventInput struct {
	Type    string
	Date    int
	Sims    []string
	Parents []string
}

// Add records a new event and returns its canonical id.
func (h *EventHandler) Add(ctx context.Context, family string, in EventInput) (string, error) {
	t, err := entities.ParseEventType(in.Type)
	if err != nil {
		return "", err
	}
	if len(in.Sims) == 0 || len(in.Sims) > t.MaxParticipants() {
		return "", fmt.Errorf("%w: %s takes 1 to %d people, got %d", entities.ErrInvalidEdit, t, t.MaxParticipants(), len(in.Sims))
	}
	if len(in.Parents) > 0 && !t.IsParentage() {
		return "", fmt.Errorf("%w: %s has no parents", entities.ErrInvalidEdit, t)
	}
	if len(in.Parents) > 2 {
		return "", fmt.Errorf("%w: at most two parents", entities.ErrInvalidEdit)
	}

	var id string
	_, err = h.update(ctx, family, func(reg *registry.Registry) error {
		participants := make([]*entities.Person, 0, len(in.Sims))
		for _, sim := range in.Sims {
			p, err := findPerson(reg, sim)
			if err != nil {
				return err
			}
			participants = append(participants, p)
		}

		var e *entities.Event
		if t.IsParentage() {
			var parents entities.ParentPair
			for i, pid := range in.Parents {
				if pid == "" {
					continue
				}
				p, err := findPerson(reg, pid)
				if err != nil {
					return err
				}
				parents[i] = p
			}
			e = entities.NewParentageEvent(t, in.Date, participants[0], parents, participants[1:]...)
		} else {
			e = entities.NewEvent(t, in.Date, participants...)
		}

		id = e.CanonicalID()
		if !reg.AddEvent(e) {
			return fmt.Errorf("%w: event %s", entities.ErrDuplicateIdentifier, id)
		}
		id = e.CanonicalID()
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// List returns the event log, or the events of one person including those
// where they are a parent.
func (h *EventHandler) List(ctx context.Context, family, personID string) ([]*entities.Event, error) {
	reg, err := h.load(ctx, family)
	if err != nil {
		return nil, err
	}
	if personID == "" {
		return reg.Events(), nil
	}
	p, err := findPerson(reg, personID)
	if err != nil {
		return nil, err
	}
	return reg.FindEvents(p, true), nil
}

// Delete removes an event. Birth events cannot be deleted.
func (h *EventHandler) Delete(ctx context.Context, family, eventID string) error {
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		e, err := findEvent(reg, eventID)
		if err != nil {
			return err
		}
		return reg.DeleteEvent(e)
	})
	return err
}

// SetDate moves an event to day.
func (h *EventHandler) SetDate(ctx context.Context, family, eventID string, day int) error {
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		e, err := findEvent(reg, eventID)
		if err != nil {
			return err
		}
		return reg.ChangeEventDate(e, day)
	})
	return err
}

// SetPartner replaces the partner of subjectID in a Marriage or Date event
// and returns the new canonical id.
func (h *EventHandler) SetPartner(ctx context.Context, family, eventID, subjectID, partnerID string) (string, error) {
	var id string
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		e, err := findEvent(reg, eventID)
		if err != nil {
			return err
		}
		subject, err := findPerson(reg, subjectID)
		if err != nil {
			return err
		}
		partner, err := findPerson(reg, partnerID)
		if err != nil {
			return err
		}
		if err := reg.ChangePartner(e, subject, partner); err != nil {
			return err
		}
		id = e.CanonicalID()
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// SetParents replaces both parent slots of a Birth or Adopt event. An empty
// id clears the slot. It returns the new canonical id.
func (h *EventHandler) SetParents(ctx context.Context, family, eventID, first, second string) (string, error) {
	var id string
	_, err := h.update(ctx, family, func(reg *registry.Registry) error {
		e, err := findEvent(reg, eventID)
		if err != nil {
			return err
		}
		var slots [2]*entities.Person
		for i, pid := range []string{first, second} {
			if pid == "" {
				continue
			}
			if slots[i], err = findPerson(reg, pid); err != nil {
				return err
			}
		}
		if err := reg.ChangeParents(e, slots[0], slots[1]); err != nil {
			return err
		}
		id = e.CanonicalID()
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
