package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_Rules(t *testing.T) {
	tests := []struct {
		name        string
		eventType   EventType
		union       bool
		parentage   bool
		cancelledBy EventType
		cancels     EventType
	}{
		{name: "marriage", eventType: EventMarriage, union: true, cancelledBy: EventDivorce},
		{name: "date", eventType: EventDate, union: true, cancelledBy: EventBreakUp},
		{name: "divorce", eventType: EventDivorce, cancels: EventMarriage},
		{name: "break up", eventType: EventBreakUp, cancels: EventDate},
		{name: "birth", eventType: EventBirth, parentage: true},
		{name: "adopt", eventType: EventAdopt, parentage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.eventType.IsValid())
			assert.Equal(t, tt.union, tt.eventType.IsUnion())
			assert.Equal(t, tt.parentage, tt.eventType.IsParentage())

			cancel, ok := tt.eventType.CancelledBy()
			assert.Equal(t, tt.cancelledBy != "", ok)
			assert.Equal(t, tt.cancelledBy, cancel)

			union, ok := tt.eventType.Cancels()
			assert.Equal(t, tt.cancels != "", ok)
			assert.Equal(t, tt.cancels, union)
		})
	}
}

func TestParseEventType(t *testing.T) {
	tests := []struct {
		input    string
		expected EventType
		wantErr  bool
	}{
		{input: "Birth", expected: EventBirth},
		{input: "marriage", expected: EventMarriage},
		{input: "Break Up", expected: EventBreakUp},
		{input: "BreakUp", expected: EventBreakUp},
		{input: "Funeral", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEventType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownEventType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEvent_CanonicalID(t *testing.T) {
	alice := NewPerson("Alice1", "Alice Smith", 1)
	bob := NewPerson("Bob1", "Bob Smith", 1)
	carol := NewPerson("Carol1", "Carol Smith", 10)

	t.Run("union id is order independent", func(t *testing.T) {
		e1 := NewEvent(EventMarriage, 36, alice, bob)
		e2 := NewEvent(EventMarriage, 50, bob, alice)
		assert.Equal(t, "Alice1_Bob1_Marriage", e1.CanonicalID())
		assert.Equal(t, e1.CanonicalID(), e2.CanonicalID())
	})

	t.Run("type distinguishes events", func(t *testing.T) {
		m := NewEvent(EventMarriage, 36, alice, bob)
		d := NewEvent(EventDivorce, 36, alice, bob)
		assert.NotEqual(t, m.CanonicalID(), d.CanonicalID())
	})

	t.Run("missing partner renders as Unknown", func(t *testing.T) {
		e := NewEvent(EventDate, 12, alice, nil)
		assert.Equal(t, "Alice1_Unknown_Date", e.CanonicalID())
	})

	t.Run("birth ignores parents", func(t *testing.T) {
		e1 := NewParentageEvent(EventBirth, 38, carol, ParentPair{alice, bob})
		e2 := NewParentageEvent(EventBirth, 38, carol, ParentPair{nil, nil})
		assert.Equal(t, "Carol1_Birth", e1.CanonicalID())
		assert.Equal(t, e1.CanonicalID(), e2.CanonicalID())
	})

	t.Run("adopt carries parent set", func(t *testing.T) {
		e1 := NewParentageEvent(EventAdopt, 40, carol, ParentPair{bob, alice})
		e2 := NewParentageEvent(EventAdopt, 40, carol, ParentPair{alice, bob})
		e3 := NewParentageEvent(EventAdopt, 40, carol, ParentPair{alice, nil})
		assert.Equal(t, "Carol1_Adopt_Alice1_Bob1", e1.CanonicalID())
		assert.Equal(t, e1.CanonicalID(), e2.CanonicalID())
		assert.Equal(t, "Carol1_Adopt_Alice1", e3.CanonicalID())
	})

	t.Run("rename is reflected immediately", func(t *testing.T) {
		dave := NewPerson("Dave1", "Dave", 1)
		e := NewEvent(EventMarriage, 36, dave, bob)
		dave.ID = "Dave2"
		assert.Equal(t, "Bob1_Dave2_Marriage", e.CanonicalID())
	})
}

func TestEvent_Partner(t *testing.T) {
	alice := NewPerson("Alice1", "Alice", 1)
	bob := NewPerson("Bob1", "Bob", 1)

	e := NewEvent(EventMarriage, 36, alice, bob)
	assert.Same(t, bob, e.Partner("Alice1"))
	assert.Same(t, alice, e.Partner("Bob1"))

	single := NewEvent(EventMarriage, 36, alice)
	assert.Nil(t, single.Partner("Alice1"))
}

func TestEvent_OtherParent(t *testing.T) {
	alice := NewPerson("Alice1", "Alice", 1)
	bob := NewPerson("Bob1", "Bob", 1)
	carol := NewPerson("Carol1", "Carol", 38)

	e := NewParentageEvent(EventBirth, 38, carol, ParentPair{alice, bob})
	assert.Same(t, bob, e.OtherParent("Alice1"))
	assert.Same(t, alice, e.OtherParent("Bob1"))

	m := NewEvent(EventMarriage, 36, alice, bob)
	assert.Nil(t, m.OtherParent("Alice1"))
}

func TestEvent_CancellingCounterpart(t *testing.T) {
	alice := NewPerson("Alice1", "Alice", 1)
	bob := NewPerson("Bob1", "Bob", 1)

	m := NewEvent(EventMarriage, 36, bob, alice)
	c := m.CancellingCounterpart()
	require.NotNil(t, c)
	assert.Equal(t, EventDivorce, c.Type)
	assert.Equal(t, NewEvent(EventDivorce, 90, alice, bob).CanonicalID(), c.CanonicalID())

	assert.Nil(t, NewEvent(EventDivorce, 36, alice, bob).CancellingCounterpart())
}

func TestEvent_RemoveParticipant(t *testing.T) {
	alice := NewPerson("Alice1", "Alice", 1)
	bob := NewPerson("Bob1", "Bob", 1)

	e := NewEvent(EventMarriage, 36, alice, bob)
	assert.True(t, e.RemoveParticipant(alice))
	assert.Equal(t, []*Person{bob}, e.Participants)
	assert.False(t, e.RemoveParticipant(alice))
	assert.Equal(t, "Bob1_Marriage", e.CanonicalID())
}
