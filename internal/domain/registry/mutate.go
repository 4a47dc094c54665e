package registry

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ersonp/family-core/internal/domain/entities"
)

func validID(id string) bool {
	return strings.TrimSpace(id) != "" && id != entities.UnknownID
}

// AddPerson appends p. The first person added becomes the focus.
func (r *Registry) AddPerson(p *entities.Person) error {
	if p == nil {
		return fmt.Errorf("%w: nil person", entities.ErrInvalidEdit)
	}
	if !validID(p.ID) {
		return fmt.Errorf("%w: %q", entities.ErrInvalidIdentifier, p.ID)
	}
	if existing := r.FindPerson(p.ID); existing != nil {
		return fmt.Errorf("%w: %s is already used by %s", entities.ErrDuplicateIdentifier, p.ID, existing.Name)
	}

	r.persons = append(r.persons, p)
	if len(r.persons) == 1 {
		r.focus = p
	}
	return nil
}

// NextID returns the first free id made of the name's first word and a
// numeric suffix starting at 1.
func (r *Registry) NextID(name string) string {
	prefix := entities.IDPrefix(name)
	for n := 1; ; n++ {
		id := prefix + strconv.Itoa(n)
		if r.FindPerson(id) == nil {
			return id
		}
	}
}

// CreatePerson adds a person born today with unknown parents, together with
// their Birth event. Creating the first person also names the family after
// the last word of their name.
func (r *Registry) CreatePerson(name string) (*entities.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidEdit)
	}

	p := entities.NewPerson(r.NextID(name), name, r.CurrentDay)
	if err := r.AddPerson(p); err != nil {
		return nil, err
	}
	if len(r.persons) == 1 {
		fields := strings.Fields(name)
		r.FamilyName = fields[len(fields)-1]
	}

	r.AddEvent(entities.NewParentageEvent(entities.EventBirth, p.Birthday, p, entities.ParentPair{}))
	return p, nil
}

// AddEvent appends e and keeps the log sorted by date. It is a no-op, and
// returns false, when an event with the same canonical id already exists or
// when e is a second Birth for the same person.
// Parentage events update the child's parent slots and the parents'
// children; union events trigger re-derivation for their participants.
func (r *Registry) AddEvent(e *entities.Event) bool {
	if e == nil || !e.Type.IsValid() {
		return false
	}
	id := e.CanonicalID()
	if r.FindEvent(id) != nil {
		r.logger.Debug("duplicate event ignored", slog.String("event", id))
		return false
	}
	if e.Type == entities.EventBirth && e.Subject() != nil && r.BirthEvent(e.Subject()) != nil {
		r.logger.Debug("second birth ignored", slog.String("event", id))
		return false
	}

	r.nextSeq++
	e.SetSeq(r.nextSeq)
	r.events = append(r.events, e)
	r.sortEvents()

	if e.Type.IsParentage() {
		r.linkParentage(e)
	} else {
		r.Rederive(e.Participants...)
	}
	return true
}

// linkParentage reconciles the parent slots of a Birth/Adopt event with the
// child's record. The event wins when it names any parent; otherwise it is
// filled from the child.
func (r *Registry) linkParentage(e *entities.Event) {
	child := e.Subject()
	if child == nil {
		return
	}

	switch e.Type {
	case entities.EventBirth:
		if e.Parents.IsEmpty() {
			e.Parents = child.Parents
		} else {
			child.Parents = e.Parents
		}
		for _, parent := range e.Parents.Present() {
			parent.AddChild(child)
		}
	case entities.EventAdopt:
		if e.Parents.IsEmpty() && child.AdoptedParents != nil {
			e.Parents = *child.AdoptedParents
		} else {
			pp := e.Parents
			child.AdoptedParents = &pp
		}
		for _, parent := range e.Parents.Present() {
			parent.AddAdoptedChild(child)
		}
	}
}

// DeleteEvent removes e from the log. Birth events cannot be deleted since
// every person keeps exactly one event establishing parentage.
func (r *Registry) DeleteEvent(e *entities.Event) error {
	i := r.indexOfEvent(e)
	if i < 0 {
		return entities.ErrEventNotFound
	}
	if e.Type == entities.EventBirth {
		return entities.ErrBirthEventRequired
	}

	r.events = append(r.events[:i], r.events[i+1:]...)

	if e.Type == entities.EventAdopt {
		if child := e.Subject(); child != nil {
			child.AdoptedParents = nil
			for _, parent := range e.Parents.Present() {
				parent.RemoveAdoptedChild(child)
			}
		}
		return nil
	}

	r.Rederive(e.Participants...)
	return nil
}

// ChangeBirthday moves p's birthday and the date of their Birth event.
func (r *Registry) ChangeBirthday(p *entities.Person, day int) error {
	if !r.Contains(p) {
		return entities.ErrPersonNotFound
	}
	p.Birthday = day
	if birth := r.BirthEvent(p); birth != nil {
		birth.Date = day
	}
	r.sortEvents()
	return nil
}

// ChangeEventDate moves e to day. Moving a Birth event moves the birthday.
func (r *Registry) ChangeEventDate(e *entities.Event, day int) error {
	if r.indexOfEvent(e) < 0 {
		return entities.ErrEventNotFound
	}
	if e.Type == entities.EventBirth {
		if child := e.Subject(); child != nil {
			child.Birthday = day
		}
	}
	e.Date = day
	r.sortEvents()
	return nil
}

// DeletePerson removes p and every trace of them. Events where p is the only
// participant, and p's own Birth and Adopt events, are deleted; otherwise p
// is dropped from the participants.
// Parent slots naming p are emptied on both the event and the child.
func (r *Registry) DeletePerson(p *entities.Person) error {
	if !r.Contains(p) {
		return entities.ErrPersonNotFound
	}

	var affected []*entities.Person
	kept := r.events[:0]
	for _, e := range r.events {
		ownEvent := len(e.Participants) == 1 || (e.Type.IsParentage() && e.Subject() == p)
		if e.Involves(p) && ownEvent {
			for _, parent := range e.Parents.Present() {
				parent.RemoveChild(p)
				parent.RemoveAdoptedChild(p)
			}
			continue
		}
		if e.RemoveParticipant(p) {
			affected = append(affected, e.Participants...)
		}
		if e.HasParent(p) {
			e.Parents.Clear(p)
			if child := e.Subject(); child != nil {
				if e.Type == entities.EventAdopt && child.AdoptedParents != nil {
					child.AdoptedParents.Clear(p)
				} else {
					child.Parents.Clear(p)
				}
			}
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(r.events); i++ {
		r.events[i] = nil
	}
	r.events = kept

	for i, q := range r.persons {
		if q == p {
			r.persons = append(r.persons[:i], r.persons[i+1:]...)
			break
		}
	}

	for _, q := range r.persons {
		q.RemoveChild(p)
		q.RemoveAdoptedChild(p)
		if q.Spouse == p || q.Dating == p {
			affected = append(affected, q)
		}
	}
	r.Rederive(affected...)

	if r.focus == p {
		r.focus = nil
		if len(r.persons) > 0 {
			r.focus = r.Persons()[0]
		}
	}

	r.logger.Info("person deleted", slog.String("id", p.ID), slog.Int("remaining", len(r.persons)))
	return nil
}

// RenameID changes p's id. Relationships are held by reference, so nothing
// else needs updating.
func (r *Registry) RenameID(p *entities.Person, newID string) error {
	if !r.Contains(p) {
		return entities.ErrPersonNotFound
	}
	if newID == p.ID {
		return nil
	}
	if !validID(newID) {
		return fmt.Errorf("%w: %q", entities.ErrInvalidIdentifier, newID)
	}
	if existing := r.FindPerson(newID); existing != nil {
		return fmt.Errorf("%w: a person with id %s (%s) already exists",
			entities.ErrDuplicateIdentifier, newID, existing.Name)
	}
	p.ID = newID
	return nil
}

// ChangePartner replaces subject's partner on a Marriage or Date event. A
// single-participant event gains a partner slot. The subject, the previous
// partner and the new partner are re-derived once the edit is complete.
func (r *Registry) ChangePartner(e *entities.Event, subject, partner *entities.Person) error {
	if r.indexOfEvent(e) < 0 {
		return entities.ErrEventNotFound
	}
	if !e.Type.IsUnion() {
		return fmt.Errorf("%w: %s events have no partner", entities.ErrInvalidEdit, e.Type)
	}
	if !e.Involves(subject) {
		return fmt.Errorf("%w: %s is not part of this event", entities.ErrInvalidEdit, entities.PersonID(subject))
	}
	if partner == subject {
		return fmt.Errorf("%w: a person cannot partner themselves", entities.ErrInvalidEdit)
	}

	slot := 0
	switch {
	case len(e.Participants) == 1:
		slot = 1
	case e.Participants[0] == subject:
		slot = 1
	}
	var previous *entities.Person
	if slot < len(e.Participants) {
		previous = e.Participants[slot]
	}
	if previous == partner {
		return nil
	}

	participants := append([]*entities.Person(nil), e.Participants...)
	if slot == len(participants) {
		participants = append(participants, nil)
	}
	participants[slot] = partner
	candidate := entities.NewEvent(e.Type, e.Date, participants...)
	if other := r.FindEvent(candidate.CanonicalID()); other != nil && other != e {
		return fmt.Errorf("%w: event %s already exists", entities.ErrInvalidEdit, candidate.CanonicalID())
	}

	e.Participants = participants
	r.Rederive(subject, previous, partner)
	return nil
}

// ChangeParents sets the parent slots of a Birth or Adopt event and mirrors
// them on the child. A parent equal to the child, or a second parent equal
// to the first, is left empty.
func (r *Registry) ChangeParents(e *entities.Event, first, second *entities.Person) error {
	if r.indexOfEvent(e) < 0 {
		return entities.ErrEventNotFound
	}
	if !e.Type.IsParentage() {
		return fmt.Errorf("%w: %s events have no parents", entities.ErrInvalidEdit, e.Type)
	}
	child := e.Subject()
	if child == nil {
		return fmt.Errorf("%w: event has no subject", entities.ErrInvalidEdit)
	}

	if first == child {
		first = nil
	}
	if second == child || second == first {
		second = nil
	}
	parents := entities.ParentPair{first, second}

	if e.Type == entities.EventAdopt {
		candidate := entities.NewParentageEvent(e.Type, e.Date, child, parents)
		if other := r.FindEvent(candidate.CanonicalID()); other != nil && other != e {
			return fmt.Errorf("%w: event %s already exists", entities.ErrInvalidEdit, candidate.CanonicalID())
		}
	}

	for _, old := range e.Parents.Present() {
		if e.Type == entities.EventAdopt {
			old.RemoveAdoptedChild(child)
		} else {
			old.RemoveChild(child)
		}
	}
	e.Parents = parents
	if e.Type == entities.EventAdopt {
		child.AdoptedParents = &parents
	} else {
		child.Parents = parents
	}
	r.linkParentage(e)
	return nil
}

// Kill records p's death at the end of their last life stage.
func (r *Registry) Kill(p *entities.Person) error {
	if !r.Contains(p) {
		return entities.ErrPersonNotFound
	}
	day := p.Birthday + p.Lifespan(r.GlobalAgeSpans)
	p.Deathday = &day
	return nil
}

// SetDeathday records or clears p's deathday.
func (r *Registry) SetDeathday(p *entities.Person, day *int) error {
	if !r.Contains(p) {
		return entities.ErrPersonNotFound
	}
	p.Deathday = day
	return nil
}

// SetStageOverride sets or clears the stage p is held at.
func (r *Registry) SetStageOverride(p *entities.Person, stage *entities.Stage) error {
	if !r.Contains(p) {
		return entities.ErrPersonNotFound
	}
	p.StageOverride = stage
	return nil
}

// ChangeAgeSpan edits one duration of p's stage table. The override is
// dropped again once it matches the global table.
func (r *Registry) ChangeAgeSpan(p *entities.Person, index, days int) error {
	if !r.Contains(p) {
		return entities.ErrPersonNotFound
	}
	spans := append([]int(nil), p.AgeSpans(r.GlobalAgeSpans)...)
	if index < 0 || index >= len(spans) {
		return fmt.Errorf("%w: stage index %d out of range", entities.ErrInvalidEdit, index)
	}
	if days < 0 {
		return fmt.Errorf("%w: negative duration", entities.ErrInvalidEdit)
	}
	spans[index] = days

	if equalSpans(spans, r.GlobalAgeSpans) {
		p.AgeSpansOverride = nil
		return nil
	}
	p.AgeSpansOverride = spans
	return nil
}

func equalSpans(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetFocus makes p the default root of the family tree.
func (r *Registry) SetFocus(p *entities.Person) error {
	if !r.Contains(p) {
		return entities.ErrPersonNotFound
	}
	r.focus = p
	return nil
}

// AdvanceDay moves the current day forward by days and returns it.
func (r *Registry) AdvanceDay(days int) int {
	r.CurrentDay += days
	return r.CurrentDay
}
