package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func stagePtr(s Stage) *Stage { return &s }

func TestPerson_Stage(t *testing.T) {
	spans := []int{2, 7, 13, 13, 24, 24, 20}

	tests := []struct {
		name     string
		person   *Person
		day      int
		expected Stage
	}{
		{name: "newborn is a baby", person: &Person{Birthday: 10}, day: 10, expected: StageBaby},
		{name: "before birth is a baby", person: &Person{Birthday: 10}, day: 0, expected: StageBaby},
		{name: "last baby day", person: &Person{Birthday: 10}, day: 11, expected: StageBaby},
		{name: "first toddler day", person: &Person{Birthday: 10}, day: 12, expected: StageToddler},
		{name: "child", person: &Person{Birthday: 0}, day: 9, expected: StageChild},
		{name: "teenager", person: &Person{Birthday: 0}, day: 22, expected: StageTeenager},
		{name: "young adult", person: &Person{Birthday: 0}, day: 35, expected: StageYoungAdult},
		{name: "adult", person: &Person{Birthday: 0}, day: 59, expected: StageAdult},
		{name: "elder", person: &Person{Birthday: 0}, day: 83, expected: StageElder},
		{name: "elder is the cap", person: &Person{Birthday: 0}, day: 10000, expected: StageElder},
		{
			name:     "death clamps the day",
			person:   &Person{Birthday: 0, Deathday: intPtr(20)},
			day:      100,
			expected: StageChild,
		},
		{
			name:     "override holds an earlier stage",
			person:   &Person{Birthday: 0, StageOverride: stagePtr(StageTeenager)},
			day:      100,
			expected: StageTeenager,
		},
		{
			name:     "override never moves later",
			person:   &Person{Birthday: 0, StageOverride: stagePtr(StageElder)},
			day:      3,
			expected: StageToddler,
		},
		{
			name:     "per-person spans",
			person:   &Person{Birthday: 0, AgeSpansOverride: []int{1, 1, 1, 1, 1, 1, 1}},
			day:      4,
			expected: StageYoungAdult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.person.Stage(tt.day, spans))
		})
	}
}

func TestPerson_StageIsMonotonic(t *testing.T) {
	spans := DefaultAgeSpans
	people := []*Person{
		{Birthday: 0},
		{Birthday: 17},
		{Birthday: 5, Deathday: intPtr(40)},
		{Birthday: 0, StageOverride: stagePtr(StageChild)},
		{Birthday: 3, AgeSpansOverride: []int{5, 1, 0, 9, 2, 2, 2}},
	}

	for _, p := range people {
		prev := p.Stage(-5, spans)
		for day := -4; day < 200; day++ {
			cur := p.Stage(day, spans)
			require.GreaterOrEqual(t, cur, prev, "stage decreased on day %d", day)
			prev = cur
		}
	}
}

func TestPerson_StageWithEmptySpans(t *testing.T) {
	p := &Person{Birthday: 0}
	assert.Equal(t, StageBaby, p.Stage(50, []int{}))
}

func TestPerson_Lifespan(t *testing.T) {
	p := &Person{}
	assert.Equal(t, 103, p.Lifespan(DefaultAgeSpans))

	p.AgeSpansOverride = []int{1, 2, 3}
	assert.Equal(t, 6, p.Lifespan(DefaultAgeSpans))
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("teenager")
	require.NoError(t, err)
	assert.Equal(t, StageTeenager, s)

	s, err = ParseStage("6")
	require.NoError(t, err)
	assert.Equal(t, StageElder, s)

	_, err = ParseStage("ancient")
	assert.Error(t, err)

	_, err = ParseStage("7")
	assert.Error(t, err)
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "YoungAdult", StageYoungAdult.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
}
