package services

import (
	"slices"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/registry"
)

// ExportService projects registries onto save documents.
type ExportService struct{}

// NewExportService creates a new export service.
func NewExportService() *ExportService {
	return &ExportService{}
}

// Export returns the save document of reg. People come focus first, events
// in chronological order. Default-valued person fields are omitted, and the
// stage table only when it equals the default one.
func (s *ExportService) Export(reg *registry.Registry) *entities.Document {
	doc := &entities.Document{
		FamilyName: reg.FamilyName,
		CurrentDay: reg.CurrentDay,
	}
	if focus := reg.Focus(); focus != nil {
		doc.RootSim = focus.ID
	}
	if !slices.Equal(reg.GlobalAgeSpans, entities.DefaultAgeSpans) {
		doc.AgeSpans = append([]int(nil), reg.GlobalAgeSpans...)
	}

	persons := reg.Persons()
	doc.Sims = make([]entities.PersonRecord, 0, len(persons))
	for _, p := range persons {
		doc.Sims = append(doc.Sims, personRecord(p))
	}

	events := reg.Events()
	doc.Events = make([]entities.EventRecord, 0, len(events))
	for _, e := range events {
		doc.Events = append(doc.Events, eventRecord(e))
	}

	return doc
}

func personRecord(p *entities.Person) entities.PersonRecord {
	rec := entities.PersonRecord{
		ID:          p.ID,
		Name:        p.Name,
		Birthday:    p.Birthday,
		Traits:      append([]string(nil), p.Traits...),
		Parents:     entities.ParentIDs(p.Parents),
		IsComplete:  p.IsComplete,
		IsFavourite: p.IsFavourite,
	}
	if p.Deathday != nil {
		day := *p.Deathday
		rec.Deathday = &day
	}
	if p.Career != entities.DefaultCareer {
		rec.Career = p.Career
	}
	if p.Place != entities.DefaultPlace {
		rec.Place = p.Place
	}
	if p.ImageURL != entities.DefaultImageURL {
		rec.ImageURL = p.ImageURL
	}
	if p.AdoptedParents != nil {
		rec.AdoptedParents = entities.ParentIDs(*p.AdoptedParents)
	}
	if p.StageOverride != nil {
		stage := int(*p.StageOverride)
		rec.StageOverride = &stage
	}
	if p.AgeSpansOverride != nil {
		rec.AgeSpansOverride = append([]int(nil), p.AgeSpansOverride...)
	}
	return rec
}

func eventRecord(e *entities.Event) entities.EventRecord {
	rec := entities.EventRecord{
		Type: string(e.Type),
		Date: e.Date,
	}
	// An empty participant slot is kept as UnknownID so the event keeps its
	// canonical id on re-import.
	for _, p := range e.Participants {
		rec.Sims = append(rec.Sims, entities.PersonID(p))
	}
	if e.Type.IsParentage() {
		rec.Parents = entities.ParentIDs(e.Parents)
	}
	return rec
}
