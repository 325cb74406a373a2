package layout

import (
	"fmt"
	"sort"
)

// Problem is one inconsistency between a layout and the key geometry.
type Problem struct {
	Key string
	Msg string
}

// String formats the problem as "KEY: message".
func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Key, p.Msg)
}

// Check compares bindings against the geometry. Keys drawn on the surface
// without a base binding are reported, as are bindings no key can reach and
// variants without a name.
func Check(g Geometry, b Bindings) []Problem {
	var problems []Problem
	drawn := make(map[string]struct{}, len(g.Keys))
	for _, k := range g.Keys {
		drawn[k.ID] = struct{}{}
		if k.Fixed() || k.Action != "" {
			continue
		}
		variants, ok := b.Layout[k.ID]
		if !ok || variants[0].IsZero() {
			problems = append(problems, Problem{Key: k.ID, Msg: "no base binding"})
		}
	}
	for id, variants := range b.Layout {
		if _, ok := drawn[id]; !ok {
			problems = append(problems, Problem{Key: id, Msg: "not on the keyboard surface"})
		}
		for i, e := range variants {
			if !e.IsZero() && e.Name == "" {
				problems = append(problems, Problem{Key: id, Msg: fmt.Sprintf("variant %d has no name", i)})
			}
		}
	}
	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].Key < problems[j].Key
	})
	return problems
}
