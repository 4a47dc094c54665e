package services

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/registry"
)

// Record kinds reported in ImportError.
const (
	KindSim   = "sim"
	KindEvent = "event"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	// AgeSpans is the global stage table used when the document has none.
	AgeSpans []int
}

// ImportError represents a record dropped during import.
type ImportError struct {
	Line    int    // Position of the record (1-indexed, 0 if unknown)
	Kind    string // KindSim or KindEvent
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
	Err     error  // Sentinel classifying the error
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s %d: %s", e.Kind, e.Line, e.Message)
	}
	return e.Message
}

func (e ImportError) Unwrap() error {
	return e.Err
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Persons int // People added
	Events  int // Events added from the document
	Skipped int // Events dropped as duplicates
	Derived int // Birth/Adopt events created for people the document gave none
	Errors  []ImportError
}

// ImportService builds registries from save documents. Records that cannot
// be applied are dropped and reported; the import itself never fails.
type ImportService struct {
	logger *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{logger: logger}
}

type importedPerson struct {
	person *entities.Person
	raw    *entities.PersonRecord
}

// Import resolves doc into a new registry.
func (s *ImportService) Import(doc *entities.Document, opts ImportOptions) (*registry.Registry, *ImportResult) {
	result := &ImportResult{}

	spans := doc.AgeSpans
	if len(spans) == 0 {
		spans = opts.AgeSpans
	}
	if spans != nil {
		spans = append([]int(nil), spans...)
	}

	reg := registry.New(doc.CurrentDay, spans, registry.WithLogger(s.logger))
	reg.FamilyName = doc.FamilyName

	added := s.importPersons(reg, doc.Sims, result)
	for _, ip := range added {
		ip.person.Parents = s.resolvePair(reg, ip.raw.Parents, ip.person)
		if ip.raw.AdoptedParents != nil {
			pp := s.resolvePair(reg, ip.raw.AdoptedParents, ip.person)
			ip.person.AdoptedParents = &pp
		}
	}

	s.importEvents(reg, doc.Events, result)
	result.Derived = s.deriveParentage(reg)

	if doc.RootSim != "" {
		if root := reg.FindPerson(doc.RootSim); root != nil {
			_ = reg.SetFocus(root)
		} else {
			s.logger.Warn("root sim not found, keeping default focus", slog.String("id", doc.RootSim))
		}
	}

	reg.RederiveAll()
	result.Persons = reg.Len()

	s.logger.Info("import complete",
		slog.Int("persons", result.Persons),
		slog.Int("events", result.Events),
		slog.Int("skipped", result.Skipped),
		slog.Int("derived", result.Derived),
		slog.Int("errors", len(result.Errors)))

	return reg, result
}

func (s *ImportService) drop(result *ImportResult, ierr *ImportError) {
	s.logger.Warn("dropping record",
		slog.String("kind", ierr.Kind),
		slog.Int("line", ierr.Line),
		slog.String("reason", ierr.Message))
	result.Errors = append(result.Errors, *ierr)
}

func lineOf(lineNum, index int) int {
	if lineNum > 0 {
		return lineNum
	}
	return index + 1
}

// importPersons adds every valid person record to reg.
func (s *ImportService) importPersons(reg *registry.Registry, sims []entities.PersonRecord, result *ImportResult) []importedPerson {
	added := make([]importedPerson, 0, len(sims))

	for i := range sims {
		raw := &sims[i]
		line := lineOf(raw.LineNum, i)

		p, ierr := convertPerson(raw, line)
		if ierr != nil {
			s.drop(result, ierr)
			continue
		}

		if err := reg.AddPerson(p); err != nil {
			s.drop(result, &ImportError{
				Line: line, Kind: KindSim, Field: "id", Value: raw.ID,
				Message: err.Error(), Err: err,
			})
			continue
		}
		added = append(added, importedPerson{person: p, raw: raw})
	}

	return added
}

// convertPerson validates a person record and converts it to an entity.
func convertPerson(raw *entities.PersonRecord, line int) (*entities.Person, *ImportError) {
	malformed := func(field, value, msg string) *ImportError {
		return &ImportError{Line: line, Kind: KindSim, Field: field, Value: value, Message: msg, Err: entities.ErrMalformedRecord}
	}

	if raw.ID == "" {
		return nil, malformed("id", "", "missing required field: id")
	}

	name := raw.Name
	if name == "" {
		name = raw.ID
	}

	p := entities.NewPerson(raw.ID, name, raw.Birthday)
	if raw.Deathday != nil {
		day := *raw.Deathday
		p.Deathday = &day
	}
	p.Traits = append([]string(nil), raw.Traits...)
	if raw.Career != "" {
		p.Career = raw.Career
	}
	if raw.Place != "" {
		p.Place = raw.Place
	}
	if raw.ImageURL != "" {
		p.ImageURL = raw.ImageURL
	}
	p.IsComplete = raw.IsComplete
	p.IsFavourite = raw.IsFavourite

	if raw.StageOverride != nil {
		stage := entities.Stage(*raw.StageOverride)
		if stage < entities.StageBaby || stage > entities.StageElder {
			return nil, malformed("stageOverride", fmt.Sprintf("%d", *raw.StageOverride), "stage override out of range")
		}
		p.StageOverride = &stage
	}

	if raw.AgeSpansOverride != nil {
		for _, d := range raw.AgeSpansOverride {
			if d < 0 {
				return nil, malformed("ageSpansOverride", fmt.Sprintf("%v", raw.AgeSpansOverride), "negative stage duration")
			}
		}
		p.AgeSpansOverride = append([]int(nil), raw.AgeSpansOverride...)
	}

	return p, nil
}

// resolvePair resolves up to two parent ids. Unknown ids, empty slots and
// the child itself resolve to an empty slot.
func (s *ImportService) resolvePair(reg *registry.Registry, ids []string, child *entities.Person) entities.ParentPair {
	var pp entities.ParentPair
	for i := 0; i < len(ids) && i < len(pp); i++ {
		if ids[i] == "" {
			continue
		}
		parent := reg.FindPerson(ids[i])
		if parent == nil || parent == child {
			s.logger.Debug("unresolved parent", slog.String("child", child.ID), slog.String("parent", ids[i]))
			continue
		}
		pp[i] = parent
	}
	return pp
}

// importEvents adds every valid event record to reg.
func (s *ImportService) importEvents(reg *registry.Registry, events []entities.EventRecord, result *ImportResult) {
	for i := range events {
		raw := &events[i]
		line := lineOf(raw.LineNum, i)

		e, ierr := s.convertEvent(reg, raw, line)
		if ierr != nil {
			s.drop(result, ierr)
			continue
		}

		if !reg.AddEvent(e) {
			result.Skipped++
			continue
		}
		result.Events++
	}
}

// convertEvent validates an event record and resolves its references.
func (s *ImportService) convertEvent(reg *registry.Registry, raw *entities.EventRecord, line int) (*entities.Event, *ImportError) {
	malformed := func(field, value, msg string) *ImportError {
		return &ImportError{Line: line, Kind: KindEvent, Field: field, Value: value, Message: msg, Err: entities.ErrMalformedRecord}
	}

	t, err := entities.ParseEventType(raw.Type)
	if err != nil {
		return nil, &ImportError{
			Line: line, Kind: KindEvent, Field: "type", Value: raw.Type,
			Message: err.Error(), Err: entities.ErrUnknownEventType,
		}
	}

	if len(raw.Sims) == 0 {
		return nil, malformed("sims", "", "missing required field: sims")
	}
	if len(raw.Sims) > t.MaxParticipants() {
		return nil, malformed("sims", fmt.Sprintf("%v", raw.Sims),
			fmt.Sprintf("%s events take at most %d sims", t, t.MaxParticipants()))
	}
	if len(raw.Parents) > 2 {
		return nil, malformed("parents", fmt.Sprintf("%v", raw.Parents), "at most 2 parents allowed")
	}

	if t.IsParentage() {
		child := reg.FindPerson(raw.Sims[0])
		if child == nil {
			return nil, malformed("sims", raw.Sims[0], fmt.Sprintf("unknown subject %q", raw.Sims[0]))
		}
		parents := s.resolvePair(reg, raw.Parents, child)
		return entities.NewParentageEvent(t, raw.Date, child, parents, s.resolveSims(reg, t, raw.Sims[1:])...), nil
	}

	participants := s.resolveSims(reg, t, raw.Sims)
	if !slices.ContainsFunc(participants, func(p *entities.Person) bool { return p != nil }) {
		return nil, malformed("sims", fmt.Sprintf("%v", raw.Sims), "no known sims")
	}

	return entities.NewEvent(t, raw.Date, participants...), nil
}

// resolveSims looks up participant ids, skipping the ones that are unknown.
// UnknownID stands for an empty slot and resolves to nil.
func (s *ImportService) resolveSims(reg *registry.Registry, t entities.EventType, ids []string) []*entities.Person {
	participants := make([]*entities.Person, 0, len(ids))
	for _, id := range ids {
		if id == entities.UnknownID {
			participants = append(participants, nil)
			continue
		}
		p := reg.FindPerson(id)
		if p == nil {
			s.logger.Debug("unresolved participant", slog.String("type", string(t)), slog.String("id", id))
			continue
		}
		participants = append(participants, p)
	}
	return participants
}

// deriveParentage gives every person without one a Birth event, and an
// Adopt event when they have adoptive parents but no adoption was recorded.
func (s *ImportService) deriveParentage(reg *registry.Registry) int {
	derived := 0
	for _, p := range reg.Persons() {
		if reg.BirthEvent(p) == nil {
			reg.AddEvent(entities.NewParentageEvent(entities.EventBirth, p.Birthday, p, entities.ParentPair{}))
			derived++
		}
		if p.AdoptedParents != nil && reg.AdoptEvent(p) == nil {
			reg.AddEvent(entities.NewParentageEvent(entities.EventAdopt, p.Birthday, p, entities.ParentPair{}))
			derived++
		}
	}
	return derived
}
