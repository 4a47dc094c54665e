package registry

import (
	"log/slog"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/tree"
)

// Graph reduces the registry to the input of the tree reconstructor.
// Birth and Adopt events become parent/child edges; an Adopt event replaces
// the biological parents of its subject. Co-parents and Marriage partners
// become spouses. References to people outside the registry are dropped.
func (r *Registry) Graph() []*tree.GraphNode {
	persons := r.Persons()
	nodes := make(map[*entities.Person]*tree.GraphNode, len(persons))
	out := make([]*tree.GraphNode, 0, len(persons))
	for _, p := range persons {
		n := &tree.GraphNode{ID: p.ID, Name: p.Name}
		nodes[p] = n
		out = append(out, n)
	}

	for _, e := range r.events {
		switch {
		case e.Type.IsParentage():
			child := nodes[e.Subject()]
			if child == nil {
				continue
			}
			if e.Type == entities.EventBirth && r.AdoptEvent(e.Subject()) != nil {
				continue
			}
			for _, parent := range e.Parents.Present() {
				if pn := nodes[parent]; pn != nil {
					pn.AddChild(child)
				} else {
					r.logger.Debug("skipping unresolved parent", slog.String("event", e.CanonicalID()))
				}
			}
		case e.Type == entities.EventMarriage && len(e.Participants) == 2:
			a, b := nodes[e.Participants[0]], nodes[e.Participants[1]]
			if a != nil && b != nil {
				a.AddSpouse(b)
			}
		}
	}
	return out
}
