package integration

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/family-core/internal/application/handlers"
	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/services"
	"github.com/ersonp/family-core/internal/infrastructure/config"
	"github.com/ersonp/family-core/internal/infrastructure/parsers"
	"github.com/ersonp/family-core/internal/infrastructure/relationaldb/sqlite"
)

// stack wires the handlers over a file-backed SQLite store, the way the CLI
// does for one family workspace.
type stack struct {
	repo    *sqlite.Repository
	persons *handlers.PersonHandler
	events  *handlers.EventHandler
	tree    *handlers.TreeHandler
	imports *handlers.ImportHandler
	exports *handlers.ExportHandler
}

func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

func newStack(t *testing.T, dbPath string) *stack {
	t.Helper()

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(t.Context()))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	importer := services.NewImportService(logger)
	families := services.NewFamilyService(repo, importer, services.NewExportService(), logger)
	opts := services.ImportOptions{AgeSpans: config.Default().Ages.Spans}

	return &stack{
		repo:    repo,
		persons: handlers.NewPersonHandler(families, opts),
		events:  handlers.NewEventHandler(families, opts),
		tree:    handlers.NewTreeHandler(families, opts, nil),
		imports: handlers.NewImportHandler(families, importer, opts),
		exports: handlers.NewExportHandler(families, opts),
	}
}

func intPtr(v int) *int { return &v }

// smithDocument is three generations of Smiths: Alice and Bob marry and
// have Carl, who adopts Dora with his wife Erin.
func smithDocument() *entities.Document {
	return &entities.Document{
		RootSim:    "C",
		FamilyName: "Smith",
		CurrentDay: 120,
		Sims: []entities.PersonRecord{
			{ID: "A", Name: "Alice", Birthday: 1, Traits: []string{"Cheerful"}},
			{ID: "B", Name: "Bob", Birthday: 2, Deathday: intPtr(104), Career: "Chef"},
			{ID: "C", Name: "Carl", Birthday: 38, Parents: []string{"A", "B"}, IsFavourite: true},
			{ID: "E", Name: "Erin", Birthday: 40, Place: "Willow Creek"},
			{ID: "D", Name: "Dora", Birthday: 100, AdoptedParents: []string{"C", "E"}, StageOverride: intPtr(1)},
		},
		Events: []entities.EventRecord{
			{Type: "Marriage", Date: 36, Sims: []string{"A", "B"}},
			{Type: "Date", Date: 80, Sims: []string{"C", "E"}},
			{Type: "Marriage", Date: 90, Sims: []string{"C", "E"}},
			{Type: "Adopt", Date: 110, Sims: []string{"D"}, Parents: []string{"C", "E"}},
		},
	}
}

// writeDocument encodes doc into dir/name, the format taken from the
// extension.
func writeDocument(t *testing.T, dir, name string, doc *entities.Document) string {
	t.Helper()

	codec := parsers.ForFile(name)
	require.NotNil(t, codec, name)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, codec.Encode(f, doc))
	return path
}
