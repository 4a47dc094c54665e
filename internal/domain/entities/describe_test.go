package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Describe(t *testing.T) {
	alice := NewPerson("Alice1", "Alice", 1)
	bob := NewPerson("Bob1", "Bob", 1)
	carol := NewPerson("Carol1", "Carol", 38)

	birth := NewParentageEvent(EventBirth, 38, carol, ParentPair{alice, bob})
	orphan := NewParentageEvent(EventBirth, 38, carol, ParentPair{})
	adopt := NewParentageEvent(EventAdopt, 40, carol, ParentPair{alice, nil})
	marriage := NewEvent(EventMarriage, 36, alice, bob)
	date := NewEvent(EventDate, 20, alice, nil)

	tests := []struct {
		name     string
		event    *Event
		viewer   *Person
		expected string
	}{
		{name: "birth as child", event: birth, viewer: carol, expected: "Born to Alice and Bob"},
		{name: "birth with unknown parents", event: orphan, viewer: carol, expected: "Born to Unknown and Unknown"},
		{name: "birth as parent", event: birth, viewer: alice, expected: "( Adult ) Gave birth to Carol ( with Bob )"},
		{name: "adopted child", event: adopt, viewer: carol, expected: "Adopted by Alice"},
		{name: "adopting parent", event: adopt, viewer: alice, expected: "( Adult ) Adopted Carol"},
		{name: "marriage", event: marriage, viewer: bob, expected: "( Adult ) Married Alice"},
		{name: "date without partner", event: date, viewer: alice, expected: "( Adult ) Started dating Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Describe(tt.viewer, StageAdult))
		})
	}
}
