package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/family-core/internal/domain/entities"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// smithDocument is a family of three: Alice and Bob married on day 36 and
// their son Carl born on day 38.
func smithDocument() *entities.Document {
	return &entities.Document{
		RootSim:    "B",
		FamilyName: "Smith",
		CurrentDay: 40,
		Sims: []entities.PersonRecord{
			{ID: "A", Name: "Alice", Birthday: 1},
			{ID: "B", Name: "Bob", Birthday: 1},
			{ID: "C", Name: "Carl", Birthday: 38},
		},
		Events: []entities.EventRecord{
			{Type: "Marriage", Date: 36, Sims: []string{"A", "B"}},
			{Type: "Birth", Date: 38, Sims: []string{"C"}, Parents: []string{"A", "B"}},
		},
	}
}

func TestImportService_Import_ValidDocument(t *testing.T) {
	service := NewImportService(testLogger())

	reg, result := service.Import(smithDocument(), ImportOptions{})

	require.NotNil(t, reg)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, result.Persons)
	assert.Equal(t, 2, result.Events)
	assert.Equal(t, 2, result.Derived)
	assert.Zero(t, result.Skipped)

	a, b, c := reg.FindPerson("A"), reg.FindPerson("B"), reg.FindPerson("C")
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, c)

	assert.Equal(t, "Smith", reg.FamilyName)
	assert.Equal(t, 40, reg.CurrentDay)
	assert.Equal(t, b, reg.Focus())
	assert.Equal(t, entities.ParentPair{a, b}, c.Parents)
	assert.Equal(t, []*entities.Person{c}, a.Children)
	assert.Equal(t, b, a.Spouse)
	assert.Equal(t, a, b.Spouse)
	assert.Equal(t, entities.DefaultCareer, a.Career)
	assert.Equal(t, entities.DefaultAgeSpans, reg.GlobalAgeSpans)
	assert.NotNil(t, reg.BirthEvent(a))
}

func TestImportService_Import_BirthWithTwoSims(t *testing.T) {
	doc := smithDocument()
	doc.Events[1] = entities.EventRecord{Type: "Birth", Date: 38, Sims: []string{"C", "B"}, Parents: []string{"A", "B"}}
	service := NewImportService(testLogger())

	reg, result := service.Import(doc, ImportOptions{})

	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Events)
	assert.Equal(t, 2, result.Derived, "only Alice and Bob need a derived birth")

	a, b, c := reg.FindPerson("A"), reg.FindPerson("B"), reg.FindPerson("C")
	birth := reg.BirthEvent(c)
	require.NotNil(t, birth)
	assert.Equal(t, "B_C_Birth", birth.CanonicalID())
	assert.Equal(t, []*entities.Person{c, b}, birth.Participants)
	assert.Equal(t, entities.ParentPair{a, b}, c.Parents)

	exported := NewExportService().Export(reg)
	assert.Contains(t, exported.Events, entities.EventRecord{Type: "Birth", Date: 38, Sims: []string{"C", "B"}, Parents: []string{"A", "B"}})
}

func TestImportService_Import_DropsBadEvents(t *testing.T) {
	doc := smithDocument()
	doc.Events = append(doc.Events,
		entities.EventRecord{Type: "Birth", Date: 38, Sims: []string{"C"}, Parents: []string{"B", "A"}},
		entities.EventRecord{Type: "Party", Date: 39, Sims: []string{"A", "B"}},
		entities.EventRecord{Type: "Birth", Date: 39},
		entities.EventRecord{Type: "Divorce", Date: 39, Sims: []string{"A", "B", "C"}},
		entities.EventRecord{Type: "Birth", Date: 39, Sims: []string{"X"}},
	)
	service := NewImportService(testLogger())

	reg, result := service.Import(doc, ImportOptions{})

	assert.Equal(t, 2, result.Events)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 4)

	assert.Equal(t, 4, result.Errors[0].Line)
	assert.Equal(t, KindEvent, result.Errors[0].Kind)
	assert.Equal(t, "type", result.Errors[0].Field)
	assert.Equal(t, "Party", result.Errors[0].Value)
	assert.True(t, errors.Is(result.Errors[0], entities.ErrUnknownEventType))
	assert.Contains(t, result.Errors[0].Error(), "event 4:")

	for _, ierr := range result.Errors[1:] {
		assert.ErrorIs(t, ierr, entities.ErrMalformedRecord)
	}
	assert.Equal(t, []int{5, 6, 7}, []int{result.Errors[1].Line, result.Errors[2].Line, result.Errors[3].Line})

	births := 0
	for _, e := range reg.Events() {
		if e.Type == entities.EventBirth && e.Subject() == reg.FindPerson("C") {
			births++
		}
	}
	assert.Equal(t, 1, births)
}

func TestImportService_Import_DropsBadPersons(t *testing.T) {
	doc := smithDocument()
	doc.Sims = append(doc.Sims,
		entities.PersonRecord{Name: "No Id"},
		entities.PersonRecord{ID: "A", Name: "Second Alice"},
		entities.PersonRecord{ID: "D", Name: "Dora", StageOverride: intPtr(9)},
		entities.PersonRecord{ID: "E", Name: "Eve", AgeSpansOverride: []int{1, -1}},
	)
	service := NewImportService(testLogger())

	reg, result := service.Import(doc, ImportOptions{})

	assert.Equal(t, 3, reg.Len())
	require.Len(t, result.Errors, 4)
	assert.ErrorIs(t, result.Errors[0], entities.ErrMalformedRecord)
	assert.Equal(t, "id", result.Errors[0].Field)
	assert.ErrorIs(t, result.Errors[1], entities.ErrDuplicateIdentifier)
	assert.Equal(t, 5, result.Errors[1].Line)
	assert.Equal(t, "stageOverride", result.Errors[2].Field)
	assert.Equal(t, "ageSpansOverride", result.Errors[3].Field)
	assert.Equal(t, "Alice", reg.FindPerson("A").Name)
}

func TestImportService_Import_UnresolvedReferences(t *testing.T) {
	doc := &entities.Document{
		RootSim: "Ghost",
		Sims: []entities.PersonRecord{
			{ID: "A", Name: "Alice"},
			{ID: "C", Name: "Carl", Parents: []string{"A", "Ghost"}},
		},
		Events: []entities.EventRecord{
			{Type: "Marriage", Date: 5, Sims: []string{"A", "Ghost"}},
		},
	}
	service := NewImportService(testLogger())

	reg, result := service.Import(doc, ImportOptions{})

	assert.Empty(t, result.Errors)
	a, c := reg.FindPerson("A"), reg.FindPerson("C")
	assert.Equal(t, a, reg.Focus())
	assert.Equal(t, entities.ParentPair{a, nil}, c.Parents)
	assert.Equal(t, entities.ParentPair{a, nil}, reg.BirthEvent(c).Parents)
	assert.Equal(t, []*entities.Person{c}, a.Children)

	marriage := reg.FindEvent("A_Marriage")
	require.NotNil(t, marriage)
	assert.Nil(t, a.Spouse)
}

func TestImportService_Import_UnknownParticipant(t *testing.T) {
	doc := smithDocument()
	doc.Events = append(doc.Events,
		entities.EventRecord{Type: "Date", Date: 10, Sims: []string{entities.UnknownID, "C"}},
		entities.EventRecord{Type: "Date", Date: 11, Sims: []string{entities.UnknownID}},
	)
	service := NewImportService(testLogger())

	reg, result := service.Import(doc, ImportOptions{})

	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], entities.ErrMalformedRecord)
	assert.Equal(t, "sims", result.Errors[0].Field)

	dating := reg.FindEvent("C_Unknown_Date")
	require.NotNil(t, dating)
	assert.Equal(t, []*entities.Person{nil, reg.FindPerson("C")}, dating.Participants)
}

func TestImportService_Import_AdoptedParentsWithoutEvent(t *testing.T) {
	doc := &entities.Document{
		Sims: []entities.PersonRecord{
			{ID: "C", Name: "Carl", Birthday: 3},
			{ID: "D", Name: "Dora"},
			{ID: "E", Name: "Ed", AdoptedParents: []string{"C", "D"}},
		},
	}
	service := NewImportService(testLogger())

	reg, result := service.Import(doc, ImportOptions{})

	assert.Equal(t, 4, result.Derived)
	c, d, e := reg.FindPerson("C"), reg.FindPerson("D"), reg.FindPerson("E")
	require.NotNil(t, e.AdoptedParents)
	assert.Equal(t, entities.ParentPair{c, d}, *e.AdoptedParents)

	adopt := reg.AdoptEvent(e)
	require.NotNil(t, adopt)
	assert.Equal(t, entities.ParentPair{c, d}, adopt.Parents)
	assert.Equal(t, "E_Adopt_C_D", adopt.CanonicalID())
	assert.Equal(t, []*entities.Person{e}, d.AdoptedChildren)
}

func TestImportService_Import_AgeSpans(t *testing.T) {
	service := NewImportService(testLogger())
	custom := []int{1, 1, 1, 1, 1, 1, 1}

	reg, _ := service.Import(smithDocument(), ImportOptions{AgeSpans: custom})
	assert.Equal(t, custom, reg.GlobalAgeSpans)

	doc := smithDocument()
	doc.AgeSpans = []int{3, 3, 3, 3, 3, 3, 3}
	reg, _ = service.Import(doc, ImportOptions{AgeSpans: custom})
	assert.Equal(t, doc.AgeSpans, reg.GlobalAgeSpans)
}
