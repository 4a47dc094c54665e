// Package registry holds the person set and event log of one family and is
// the only mutation surface for them. Every edit keeps the derived fields
// (children back-references, spouse, dating) consistent with the log.
package registry

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/relations"
)

// MinSearchLength is the shortest query SearchPersons answers.
const MinSearchLength = 3

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for recoverable conditions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry owns the persons and the chronologically sorted event log of a
// family. It is not safe for concurrent use.
type Registry struct {
	CurrentDay     int
	FamilyName     string
	GlobalAgeSpans []int

	focus   *entities.Person
	persons []*entities.Person
	events  []*entities.Event
	nextSeq uint64
	logger  *slog.Logger
}

// New creates an empty registry. A nil globalAgeSpans selects
// entities.DefaultAgeSpans.
func New(currentDay int, globalAgeSpans []int, opts ...Option) *Registry {
	if globalAgeSpans == nil {
		globalAgeSpans = append([]int(nil), entities.DefaultAgeSpans...)
	}
	r := &Registry{
		CurrentDay:     currentDay,
		GlobalAgeSpans: globalAgeSpans,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Focus returns the person the tree is rooted at by default.
func (r *Registry) Focus() *entities.Person {
	return r.focus
}

// FindPerson returns the person with id, or nil. The reserved id "Unknown"
// never resolves.
func (r *Registry) FindPerson(id string) *entities.Person {
	if id == entities.UnknownID {
		return nil
	}
	for _, p := range r.persons {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Contains reports whether p belongs to the registry.
func (r *Registry) Contains(p *entities.Person) bool {
	if p == nil {
		return false
	}
	for _, q := range r.persons {
		if q == p {
			return true
		}
	}
	return false
}

// Persons returns the people with the focus person first, then by name.
func (r *Registry) Persons() []*entities.Person {
	out := append([]*entities.Person(nil), r.persons...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a == r.focus) != (b == r.focus) {
			return a == r.focus
		}
		return a.Name < b.Name
	})
	return out
}

// Len returns the number of people.
func (r *Registry) Len() int {
	return len(r.persons)
}

// Events returns the event log sorted by date, stable on ties.
func (r *Registry) Events() []*entities.Event {
	return append([]*entities.Event(nil), r.events...)
}

// FindEvents returns the events p participates in, in chronological order.
// With includeAsParent, events where p fills a parent slot are included too.
func (r *Registry) FindEvents(p *entities.Person, includeAsParent bool) []*entities.Event {
	var out []*entities.Event
	for _, e := range r.events {
		if e.Involves(p) || (includeAsParent && e.HasParent(p)) {
			out = append(out, e)
		}
	}
	return out
}

// FindEvent returns the event with the given canonical id, or nil.
func (r *Registry) FindEvent(canonicalID string) *entities.Event {
	for _, e := range r.events {
		if e.CanonicalID() == canonicalID {
			return e
		}
	}
	return nil
}

// BirthEvent returns p's Birth event, or nil.
func (r *Registry) BirthEvent(p *entities.Person) *entities.Event {
	return r.parentageEvent(p, entities.EventBirth)
}

// AdoptEvent returns p's Adopt event, or nil.
func (r *Registry) AdoptEvent(p *entities.Person) *entities.Event {
	return r.parentageEvent(p, entities.EventAdopt)
}

func (r *Registry) parentageEvent(p *entities.Person, t entities.EventType) *entities.Event {
	for _, e := range r.events {
		if e.Type == t && e.Subject() == p {
			return e
		}
	}
	return nil
}

// SearchPersons returns the people whose name contains query, ignoring
// case. Queries shorter than MinSearchLength return nothing.
func (r *Registry) SearchPersons(query string) []*entities.Person {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < MinSearchLength {
		return nil
	}
	var out []*entities.Person
	for _, p := range r.Persons() {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// DeriveSpouse recomputes and stores p's spouse from the event log.
func (r *Registry) DeriveSpouse(p *entities.Person) *entities.Person {
	if p == nil {
		return nil
	}
	p.Spouse = relations.DeriveSpouse(p, r.FindEvents(p, false))
	return p.Spouse
}

// DeriveDating recomputes and stores p's dating partner from the event log.
func (r *Registry) DeriveDating(p *entities.Person) *entities.Person {
	if p == nil {
		return nil
	}
	p.Dating = relations.DeriveDating(p, r.FindEvents(p, false))
	return p.Dating
}

// Rederive recomputes both partnerships for each given person.
func (r *Registry) Rederive(people ...*entities.Person) {
	for _, p := range people {
		if p == nil {
			continue
		}
		r.DeriveSpouse(p)
		r.DeriveDating(p)
	}
}

// RederiveAll recomputes partnerships for everyone.
func (r *Registry) RederiveAll() {
	r.Rederive(r.persons...)
}

func (r *Registry) sortEvents() {
	sort.SliceStable(r.events, func(i, j int) bool {
		a, b := r.events[i], r.events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Seq() < b.Seq()
	})
}

func (r *Registry) indexOfEvent(e *entities.Event) int {
	for i, q := range r.events {
		if q == e {
			return i
		}
	}
	return -1
}
