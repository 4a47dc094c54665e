package entities

import "fmt"

// PersonName returns p's name, or "Unknown" when p is nil.
func PersonName(p *Person) string {
	if p == nil {
		return UnknownID
	}
	return p.Name
}

// Describe renders the event from viewer's point of view. stage is the
// viewer's life stage on the event date.
func (e *Event) Describe(viewer *Person, stage Stage) string {
	switch e.Type {
	case EventAdopt:
		if e.Subject() == viewer {
			r := "Adopted by " + PersonName(e.Parents[0])
			if e.Parents[1] != nil {
				r += " and " + e.Parents[1].Name
			}
			return r
		}
		r := fmt.Sprintf("( %s ) Adopted %s", stage, PersonName(e.Subject()))
		if partner := e.OtherParent(PersonID(viewer)); partner != nil {
			r += fmt.Sprintf(" ( with %s )", partner.Name)
		}
		return r
	case EventBirth:
		if e.Subject() == viewer {
			return fmt.Sprintf("Born to %s and %s", PersonName(e.Parents[0]), PersonName(e.Parents[1]))
		}
		return fmt.Sprintf("( %s ) Gave birth to %s ( with %s )",
			stage, PersonName(e.Subject()), PersonName(e.OtherParent(PersonID(viewer))))
	case EventBreakUp:
		return fmt.Sprintf("( %s ) Broke up with %s", stage, PersonName(e.Partner(PersonID(viewer))))
	case EventDate:
		return fmt.Sprintf("( %s ) Started dating %s", stage, PersonName(e.Partner(PersonID(viewer))))
	case EventDivorce:
		return fmt.Sprintf("( %s ) Divorced %s", stage, PersonName(e.Partner(PersonID(viewer))))
	case EventMarriage:
		return fmt.Sprintf("( %s ) Married %s", stage, PersonName(e.Partner(PersonID(viewer))))
	default:
		return string(e.Type)
	}
}
