// Package entities contains core domain data structures.
package entities

import "strings"

// UnknownID is the id rendered for an absent person reference.
const UnknownID = "Unknown"

// Defaults applied to fields that a save document may omit.
const (
	DefaultCareer   = "Unemployed"
	DefaultPlace    = "Not in the World"
	DefaultImageURL = "Default.png"
)

// ParentPair holds two parent slots; either may be empty.
type ParentPair [2]*Person

// IsEmpty reports whether both slots are empty.
func (pp ParentPair) IsEmpty() bool {
	return pp[0] == nil && pp[1] == nil
}

// Contains reports whether p fills one of the slots.
func (pp ParentPair) Contains(p *Person) bool {
	return p != nil && (pp[0] == p || pp[1] == p)
}

// Clear empties the slot holding p.
func (pp *ParentPair) Clear(p *Person) bool {
	for i := range pp {
		if pp[i] == p && p != nil {
			pp[i] = nil
			return true
		}
	}
	return false
}

// Present returns the non-empty slots in order.
func (pp ParentPair) Present() []*Person {
	out := make([]*Person, 0, 2)
	for _, p := range pp {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Person is a genealogical individual. Relationships are held by reference,
// so renaming a person never requires touching the people around them.
//
// Children, AdoptedChildren, Spouse and Dating are maintained by the registry
// and can always be recomputed from the event log.
type Person struct {
	ID       string
	Name     string
	Birthday int
	Deathday *int

	Traits      []string
	Career      string
	Place       string
	ImageURL    string
	IsComplete  bool
	IsFavourite bool

	Parents        ParentPair
	AdoptedParents *ParentPair

	Children        []*Person
	AdoptedChildren []*Person

	Spouse *Person
	Dating *Person

	StageOverride    *Stage
	AgeSpansOverride []int
}

// NewPerson creates a person with the default career, place and image.
func NewPerson(id, name string, birthday int) *Person {
	return &Person{
		ID:       id,
		Name:     name,
		Birthday: birthday,
		Career:   DefaultCareer,
		Place:    DefaultPlace,
		ImageURL: DefaultImageURL,
	}
}

// PersonID returns p's id, or UnknownID when p is nil.
func PersonID(p *Person) string {
	if p == nil {
		return UnknownID
	}
	return p.ID
}

// IDPrefix returns the id stem derived from a display name: its first word.
func IDPrefix(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Person"
	}
	return fields[0]
}

// IsDead reports whether a deathday is recorded.
func (p *Person) IsDead() bool {
	return p.Deathday != nil
}

// EffectiveParents returns the adoptive parents when recorded, otherwise the
// biological ones.
func (p *Person) EffectiveParents() ParentPair {
	if p.AdoptedParents != nil {
		return *p.AdoptedParents
	}
	return p.Parents
}

// ToggleTrait adds trait if absent, removes it otherwise.
func (p *Person) ToggleTrait(trait string) {
	for i, t := range p.Traits {
		if t == trait {
			p.Traits = append(p.Traits[:i], p.Traits[i+1:]...)
			return
		}
	}
	p.Traits = append(p.Traits, trait)
}

func addUnique(list []*Person, p *Person) []*Person {
	for _, q := range list {
		if q == p {
			return list
		}
	}
	return append(list, p)
}

func remove(list []*Person, p *Person) []*Person {
	for i, q := range list {
		if q == p {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// AddChild records c as a biological child of p.
func (p *Person) AddChild(c *Person) {
	p.Children = addUnique(p.Children, c)
}

// RemoveChild drops c from p's biological children.
func (p *Person) RemoveChild(c *Person) {
	p.Children = remove(p.Children, c)
}

// AddAdoptedChild records c as an adopted child of p.
func (p *Person) AddAdoptedChild(c *Person) {
	p.AdoptedChildren = addUnique(p.AdoptedChildren, c)
}

// RemoveAdoptedChild drops c from p's adopted children.
func (p *Person) RemoveAdoptedChild(c *Person) {
	p.AdoptedChildren = remove(p.AdoptedChildren, c)
}
