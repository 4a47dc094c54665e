package handlers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/mocks"
	"github.com/ersonp/family-core/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFamilies(t *testing.T) (*services.FamilyService, *mocks.FamilyStore) {
	t.Helper()
	store := mocks.NewFamilyStore()
	service := services.NewFamilyService(store, services.NewImportService(testLogger()), services.NewExportService(), testLogger())
	return service, store
}

// seedSmith stores Alice and Bob, married on day 36, and their son Carl
// born on day 38. Bob is the focus and the current day is 40.
func seedSmith(store *mocks.FamilyStore) {
	store.Docs["smith"] = &entities.Document{
		RootSim:    "B",
		FamilyName: "Smith",
		CurrentDay: 40,
		Sims: []entities.PersonRecord{
			{ID: "A", Name: "Alice", Birthday: 1},
			{ID: "B", Name: "Bob", Birthday: 1},
			{ID: "C", Name: "Carl", Birthday: 38},
		},
		Events: []entities.EventRecord{
			{Type: "Birth", Date: 1, Sims: []string{"A"}},
			{Type: "Birth", Date: 1, Sims: []string{"B"}},
			{Type: "Marriage", Date: 36, Sims: []string{"A", "B"}},
			{Type: "Birth", Date: 38, Sims: []string{"C"}, Parents: []string{"A", "B"}},
		},
	}
	store.IDs["smith"] = "family-smith"
}

func storedSim(store *mocks.FamilyStore, family, id string) *entities.PersonRecord {
	for i, s := range store.Docs[family].Sims {
		if s.ID == id {
			return &store.Docs[family].Sims[i]
		}
	}
	return nil
}
