package entities

// Document is the save-document shape of a family: plain records keyed by
// person id, before references are resolved.
type Document struct {
	RootSim    string         `json:"rootSim,omitempty" yaml:"rootSim,omitempty" toml:"rootSim,omitempty"`
	FamilyName string         `json:"familyName,omitempty" yaml:"familyName,omitempty" toml:"familyName,omitempty"`
	CurrentDay int            `json:"currentDay" yaml:"currentDay" toml:"currentDay"`
	AgeSpans   []int          `json:"ageSpans,omitempty" yaml:"ageSpans,omitempty" toml:"ageSpans,omitempty"`
	Sims       []PersonRecord `json:"sims" yaml:"sims" toml:"sims"`
	Events     []EventRecord  `json:"events" yaml:"events" toml:"events"`
}

// PersonRecord is a person as stored in a save document. Fields holding
// their default value are omitted on export.
type PersonRecord struct {
	ID               string   `json:"id" yaml:"id" toml:"id"`
	Name             string   `json:"name" yaml:"name" toml:"name"`
	Birthday         int      `json:"birthday,omitempty" yaml:"birthday,omitempty" toml:"birthday,omitempty"`
	Deathday         *int     `json:"deathday,omitempty" yaml:"deathday,omitempty" toml:"deathday,omitempty"`
	Traits           []string `json:"traits,omitempty" yaml:"traits,omitempty" toml:"traits,omitempty"`
	Career           string   `json:"career,omitempty" yaml:"career,omitempty" toml:"career,omitempty"`
	Place            string   `json:"place,omitempty" yaml:"place,omitempty" toml:"place,omitempty"`
	Parents          []string `json:"parents,omitempty" yaml:"parents,omitempty" toml:"parents,omitempty"`
	AdoptedParents   []string `json:"adoptedParents,omitempty" yaml:"adoptedParents,omitempty" toml:"adoptedParents,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty" toml:"imageUrl,omitempty"`
	IsComplete       bool     `json:"isComplete,omitempty" yaml:"isComplete,omitempty" toml:"isComplete,omitempty"`
	IsFavourite      bool     `json:"isFavourite,omitempty" yaml:"isFavourite,omitempty" toml:"isFavourite,omitempty"`
	StageOverride    *int     `json:"stageOverride,omitempty" yaml:"stageOverride,omitempty" toml:"stageOverride,omitempty"`
	AgeSpansOverride []int    `json:"ageSpansOverride,omitempty" yaml:"ageSpansOverride,omitempty" toml:"ageSpansOverride,omitempty"`

	LineNum int `json:"-" yaml:"-" toml:"-"` // Position in the source (set by parser)
}

// EventRecord is an event as stored in a save document. Sims holds one or
// two person ids; Parents holds up to two, where "" marks an empty slot.
type EventRecord struct {
	Type    string   `json:"type" yaml:"type" toml:"type"`
	Date    int      `json:"date" yaml:"date" toml:"date"`
	Sims    []string `json:"sims,omitempty" yaml:"sims,omitempty" toml:"sims,omitempty"`
	Parents []string `json:"parents,omitempty" yaml:"parents,omitempty" toml:"parents,omitempty"`

	LineNum int `json:"-" yaml:"-" toml:"-"`
}

// ParentIDs returns the ids of a pair for a record: nil when both slots
// are empty, otherwise both slots with "" for an empty one. A trailing empty
// slot is dropped.
func ParentIDs(pp ParentPair) []string {
	switch {
	case pp.IsEmpty():
		return nil
	case pp[1] == nil:
		return []string{pp[0].ID}
	case pp[0] == nil:
		return []string{"", pp[1].ID}
	default:
		return []string{pp[0].ID, pp[1].ID}
	}
}
