// Package relations derives current partnerships from a person's event log.
//
// Derivation is a pure function of (person, events). A union is considered
// ended if a cancelling event over the same participants exists anywhere in
// the log, regardless of where it sits chronologically.
package relations

import "github.com/ersonp/family-core/internal/domain/entities"

// DeriveSpouse returns p's current spouse, or nil.
// events must be the chronologically sorted events referencing p.
func DeriveSpouse(p *entities.Person, events []*entities.Event) *entities.Person {
	return DerivePartner(p, events, entities.EventMarriage)
}

// DeriveDating returns p's current dating partner, or nil.
// events must be the chronologically sorted events referencing p.
func DeriveDating(p *entities.Person, events []*entities.Event) *entities.Person {
	return DerivePartner(p, events, entities.EventDate)
}

// DerivePartner returns the other participant of the last union event of
// type union, unless that union has been cancelled. It returns nil when
// union is not a union type.
func DerivePartner(p *entities.Person, events []*entities.Event, union entities.EventType) *entities.Person {
	if p == nil || !union.IsUnion() {
		return nil
	}

	last := LastOfType(events, union)
	if last == nil {
		return nil
	}

	if IsCancelled(last, events) {
		return nil
	}

	return last.Partner(p.ID)
}

// LastOfType returns the last event of type t, or nil.
func LastOfType(events []*entities.Event, t entities.EventType) *entities.Event {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == t {
			return events[i]
		}
	}
	return nil
}

// IsCancelled reports whether events contains the cancelling counterpart of
// union.
func IsCancelled(union *entities.Event, events []*entities.Event) bool {
	cancel := union.CancellingCounterpart()
	if cancel == nil {
		return false
	}
	id := cancel.CanonicalID()
	for _, e := range events {
		if e.CanonicalID() == id {
			return true
		}
	}
	return false
}
