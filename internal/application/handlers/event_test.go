package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/mocks"
	"github.com/ersonp/family-core/internal/domain/services"
)

func newEventHandler(t *testing.T) (*EventHandler, *mocks.FamilyStore) {
	t.Helper()
	families, store := newTestFamilies(t)
	seedSmith(store)
	return NewEventHandler(families, services.ImportOptions{}), store
}

func TestEventHandler_Add(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   EventInput
		wantID  string
		wantErr error
	}{
		{
			name:   "divorce",
			input:  EventInput{Type: "Divorce", Date: 39, Sims: []string{"B", "A"}},
			wantID: "A_B_Divorce",
		},
		{
			name:   "break up alias",
			input:  EventInput{Type: "breakup", Date: 39, Sims: []string{"A", "B"}},
			wantID: "A_B_Break Up",
		},
		{
			name:   "adoption",
			input:  EventInput{Type: "Adopt", Date: 39, Sims: []string{"C"}, Parents: []string{"B"}},
			wantID: "C_Adopt_B",
		},
		{
			name:    "unknown type",
			input:   EventInput{Type: "Party", Date: 39, Sims: []string{"A"}},
			wantErr: entities.ErrUnknownEventType,
		},
		{
			name:    "unknown person",
			input:   EventInput{Type: "Date", Date: 39, Sims: []string{"A", "Z"}},
			wantErr: entities.ErrPersonNotFound,
		},
		{
			name:   "adoption with a second participant",
			input:  EventInput{Type: "Adopt", Date: 39, Sims: []string{"C", "A"}, Parents: []string{"B"}},
			wantID: "A_C_Adopt_B",
		},
		{
			name:    "too many people",
			input:   EventInput{Type: "Birth", Date: 39, Sims: []string{"A", "B", "C"}},
			wantErr: entities.ErrInvalidEdit,
		},
		{
			name:    "second birth",
			input:   EventInput{Type: "Birth", Date: 39, Sims: []string{"C", "A"}},
			wantErr: entities.ErrDuplicateIdentifier,
		},
		{
			name:    "parents on a union",
			input:   EventInput{Type: "Marriage", Date: 39, Sims: []string{"A", "C"}, Parents: []string{"B"}},
			wantErr: entities.ErrInvalidEdit,
		},
		{
			name:    "duplicate",
			input:   EventInput{Type: "Marriage", Date: 50, Sims: []string{"B", "A"}},
			wantErr: entities.ErrDuplicateIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, store := newEventHandler(t)

			id, err := handler.Add(ctx, "smith", tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, store.Docs["smith"].Events, 4)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Len(t, store.Docs["smith"].Events, 5)
		})
	}
}

func TestEventHandler_AddDivorceClearsSpouse(t *testing.T) {
	ctx := context.Background()
	families, store := newTestFamilies(t)
	seedSmith(store)
	events := NewEventHandler(families, services.ImportOptions{})
	persons := NewPersonHandler(families, services.ImportOptions{})

	_, err := events.Add(ctx, "smith", EventInput{Type: "Divorce", Date: 39, Sims: []string{"A", "B"}})
	require.NoError(t, err)

	view, err := persons.Show(ctx, "smith", "A")
	require.NoError(t, err)
	assert.Empty(t, view.Spouse)
}

func TestEventHandler_List(t *testing.T) {
	ctx := context.Background()
	handler, _ := newEventHandler(t)

	all, err := handler.List(ctx, "smith", "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := handler.List(ctx, "smith", "C")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "C_Birth", mine[0].CanonicalID())

	_, err = handler.List(ctx, "smith", "Z")
	assert.ErrorIs(t, err, entities.ErrPersonNotFound)
}

func TestEventHandler_Delete(t *testing.T) {
	ctx := context.Background()
	handler, store := newEventHandler(t)

	assert.ErrorIs(t, handler.Delete(ctx, "smith", "C_Birth"), entities.ErrBirthEventRequired)
	assert.ErrorIs(t, handler.Delete(ctx, "smith", "A_B_Divorce"), entities.ErrEventNotFound)

	require.NoError(t, handler.Delete(ctx, "smith", "A_B_Marriage"))
	assert.Len(t, store.Docs["smith"].Events, 3)
}

func TestEventHandler_SetDate(t *testing.T) {
	ctx := context.Background()
	handler, store := newEventHandler(t)

	require.NoError(t, handler.SetDate(ctx, "smith", "C_Birth", 37))

	assert.Equal(t, 37, storedSim(store, "smith", "C").Birthday)
	assert.Equal(t, entities.EventRecord{Type: "Birth", Date: 37, Sims: []string{"C"}, Parents: []string{"A", "B"}}, store.Docs["smith"].Events[3])
}

func TestEventHandler_SetPartner(t *testing.T) {
	ctx := context.Background()
	handler, store := newEventHandler(t)

	id, err := handler.SetPartner(ctx, "smith", "A_B_Marriage", "A", "C")
	require.NoError(t, err)
	assert.Equal(t, "A_C_Marriage", id)
	assert.Contains(t, store.Docs["smith"].Events, entities.EventRecord{Type: "Marriage", Date: 36, Sims: []string{"A", "C"}})

	_, err = handler.SetPartner(ctx, "smith", "A_C_Marriage", "A", "A")
	assert.ErrorIs(t, err, entities.ErrInvalidEdit)

	_, err = handler.SetPartner(ctx, "smith", "C_Birth", "C", "A")
	assert.ErrorIs(t, err, entities.ErrInvalidEdit)
}

func TestEventHandler_SetParents(t *testing.T) {
	ctx := context.Background()
	handler, store := newEventHandler(t)

	id, err := handler.SetParents(ctx, "smith", "C_Birth", "", "B")
	require.NoError(t, err)
	assert.Equal(t, "C_Birth", id)
	assert.Equal(t, []string{"", "B"}, storedSim(store, "smith", "C").Parents)

	_, err = handler.SetParents(ctx, "smith", "C_Birth", "Z", "")
	assert.ErrorIs(t, err, entities.ErrPersonNotFound)
}
