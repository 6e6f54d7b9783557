package stage

import "sort"

// Taxonomy is the registry of canonical top-level stages. It supplies, for
// canonical names, a display name and a fixed ordering rank; names it does
// not know fall back to derived display names and dynamic ordering.
type Taxonomy struct {
	byName map[string]*Ref
}

// NewTaxonomy returns an empty taxonomy.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{byName: make(map[string]*Ref)}
}

// Define registers a canonical top-level stage with a fixed ordering rank
// and a display name derived from the identifier. Redefining a name
// replaces the previous entry.
func (t *Taxonomy) Define(name string, rank int) *Ref {
	return t.DefineNamed(name, DisplayName(name), rank)
}

// DefineNamed registers a canonical stage with an explicit display name.
func (t *Taxonomy) DefineNamed(name, display string, rank int) *Ref {
	ref := &Ref{name: name, display: display, rank: rank, fixed: true}
	t.byName[name] = ref
	return ref
}

// Lookup returns the canonical ref for a name, if one is defined.
func (t *Taxonomy) Lookup(name string) (*Ref, bool) {
	ref, ok := t.byName[name]
	return ref, ok
}

// Stages returns all canonical stages in rank order.
func (t *Taxonomy) Stages() []*Ref {
	stages := make([]*Ref, 0, len(t.byName))
	for _, ref := range t.byName {
		stages = append(stages, ref)
	}
	sort.Slice(stages, func(i, j int) bool {
		if stages[i].rank != stages[j].rank {
			return stages[i].rank < stages[j].rank
		}
		return stages[i].name < stages[j].name
	})
	return stages
}

// Len returns the number of canonical stages.
func (t *Taxonomy) Len() int { return len(t.byName) }
