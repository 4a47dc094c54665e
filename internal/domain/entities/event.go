package entities

import (
	"fmt"
	"sort"
	"strings"
)

// EventType represents the kind of life event.
type EventType string

// Event types. The string values are the ones used in save documents.
const (
	EventBirth    EventType = "Birth"
	EventAdopt    EventType = "Adopt"
	EventDate     EventType = "Date"
	EventBreakUp  EventType = "Break Up"
	EventMarriage EventType = "Marriage"
	EventDivorce  EventType = "Divorce"
)

// eventRule describes how an event type pairs with others and how many
// people it links.
type eventRule struct {
	union           bool      // Marriage, Date
	cancels         EventType // for cancelling events: the union they end
	cancelledBy     EventType // for union events: the event that ends them
	parentage       bool      // Birth, Adopt carry parent slots
	maxParticipants int
}

var eventRules = map[EventType]eventRule{
	EventBirth:    {parentage: true, maxParticipants: 2},
	EventAdopt:    {parentage: true, maxParticipants: 2},
	EventDate:     {union: true, cancelledBy: EventBreakUp, maxParticipants: 2},
	EventBreakUp:  {cancels: EventDate, maxParticipants: 2},
	EventMarriage: {union: true, cancelledBy: EventDivorce, maxParticipants: 2},
	EventDivorce:  {cancels: EventMarriage, maxParticipants: 2},
}

// EventTypes lists every known event type in display order.
var EventTypes = []EventType{EventAdopt, EventDate, EventBirth, EventBreakUp, EventDivorce, EventMarriage}

// IsValid reports whether t is a known event type.
func (t EventType) IsValid() bool {
	_, ok := eventRules[t]
	return ok
}

// IsUnion reports whether t starts a partnership (Marriage, Date).
func (t EventType) IsUnion() bool {
	return eventRules[t].union
}

// IsParentage reports whether t establishes parentage (Birth, Adopt).
func (t EventType) IsParentage() bool {
	return eventRules[t].parentage
}

// CancelledBy returns the event type that ends a union of type t.
func (t EventType) CancelledBy() (EventType, bool) {
	r := eventRules[t]
	return r.cancelledBy, r.cancelledBy != ""
}

// Cancels returns the union type that an event of type t ends.
func (t EventType) Cancels() (EventType, bool) {
	r := eventRules[t]
	return r.cancels, r.cancels != ""
}

// MaxParticipants returns how many participant slots the type uses.
func (t EventType) MaxParticipants() int {
	return eventRules[t].maxParticipants
}

// ParseEventType converts a save-document type string to an EventType.
// Matching is case-insensitive and ignores spaces, so "BreakUp" and
// "break up" both resolve to EventBreakUp.
func ParseEventType(s string) (EventType, error) {
	key := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for _, t := range EventTypes {
		if strings.ToLower(strings.ReplaceAll(string(t), " ", "")) == key {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
}

// Event is a typed occurrence linking one or two people. Parents is only
// meaningful for Birth and Adopt events.
type Event struct {
	Type         EventType
	Date         int
	Participants []*Person
	Parents      ParentPair

	seq uint64
}

// NewEvent creates an event for the given participants. A nil participant
// stands for a partner that has not been chosen yet.
func NewEvent(t EventType, date int, participants ...*Person) *Event {
	return &Event{
		Type:         t,
		Date:         date,
		Participants: participants,
	}
}

// NewParentageEvent creates a Birth or Adopt event for child. The child is
// always the first participant; others are recorded after it.
func NewParentageEvent(t EventType, date int, child *Person, parents ParentPair, others ...*Person) *Event {
	return &Event{
		Type:         t,
		Date:         date,
		Participants: append([]*Person{child}, others...),
		Parents:      parents,
	}
}

// Seq returns the insertion sequence assigned by the registry.
func (e *Event) Seq() uint64 {
	return e.seq
}

// SetSeq assigns the insertion sequence. Only the registry should call it.
func (e *Event) SetSeq(seq uint64) {
	e.seq = seq
}

// CanonicalID returns the deduplication key of the event: the sorted
// participant ids joined by "_", followed by the type. Adopt events also
// carry their adoptive parent ids, so adoptions by different parents stay
// distinct. The key is computed from the current participants, so it
// follows every edit and rename.
func (e *Event) CanonicalID() string {
	ids := make([]string, len(e.Participants))
	for i, p := range e.Participants {
		ids[i] = PersonID(p)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(strings.Join(ids, "_"))
	b.WriteString("_")
	b.WriteString(string(e.Type))

	if e.Type == EventAdopt {
		parents := make([]string, 0, 2)
		for _, p := range e.Parents {
			if p != nil {
				parents = append(parents, p.ID)
			}
		}
		sort.Strings(parents)
		for _, id := range parents {
			b.WriteString("_")
			b.WriteString(id)
		}
	}
	return b.String()
}

// Subject returns the first participant: the child of a Birth/Adopt event
// or the initiating partner of a union event.
func (e *Event) Subject() *Person {
	if len(e.Participants) == 0 {
		return nil
	}
	return e.Participants[0]
}

// Partner returns the participant that is not id. It returns nil when the
// event has a single participant (partner not chosen yet).
func (e *Event) Partner(id string) *Person {
	if len(e.Participants) < 2 {
		return nil
	}
	if PersonID(e.Participants[0]) == id {
		return e.Participants[1]
	}
	return e.Participants[0]
}

// OtherParent returns the parent slot that is not id.
func (e *Event) OtherParent(id string) *Person {
	if !e.Type.IsParentage() {
		return nil
	}
	if e.Parents[0] != nil && e.Parents[0].ID == id {
		return e.Parents[1]
	}
	return e.Parents[0]
}

// Involves reports whether p is one of the participants.
func (e *Event) Involves(p *Person) bool {
	for _, q := range e.Participants {
		if q == p {
			return true
		}
	}
	return false
}

// HasParent reports whether p fills one of the parent slots.
func (e *Event) HasParent(p *Person) bool {
	return p != nil && e.Type.IsParentage() && e.Parents.Contains(p)
}

// CancellingCounterpart builds the event that would cancel e, over the same
// participants. It returns nil when e is not a union event.
func (e *Event) CancellingCounterpart() *Event {
	cancel, ok := e.Type.CancelledBy()
	if !ok {
		return nil
	}
	return NewEvent(cancel, -1, e.Participants...)
}

// RemoveParticipant drops p from the participant list.
func (e *Event) RemoveParticipant(p *Person) bool {
	for i, q := range e.Participants {
		if q == p {
			e.Participants = append(e.Participants[:i:i], e.Participants[i+1:]...)
			return true
		}
	}
	return false
}
