// Package stage defines the hierarchical key space used to address prompt
// sections. A Ref identifies one position in the section tree; chains built
// with Child describe a path from a top-level stage down to any nested
// subsection. Canonical top-level stages carry a fixed ordering rank
// supplied by a Taxonomy; everything else orders dynamically by first use.
package stage

import (
	"strings"
	"unicode"
)

// Ref is an immutable reference to a position in the section hierarchy.
// Two refs address the same position iff their full name chains are equal.
type Ref struct {
	name    string
	display string
	rank    int
	fixed   bool
	parent  *Ref
}

// Named returns a ref for an arbitrary top-level stage name. It carries no
// fixed rank, so sections created under it order by first assignment.
func Named(name string) *Ref {
	return &Ref{name: name, display: DisplayName(name)}
}

// Child derives a ref for a subsection of r. Children never carry a fixed
// rank; only top-level canonical stages do.
func (r *Ref) Child(name string) *Ref {
	return &Ref{name: name, display: DisplayName(name), parent: r}
}

// Name returns the compact identifier of this path segment.
func (r *Ref) Name() string { return r.name }

// DisplayName returns the human-readable label for this segment.
func (r *Ref) DisplayName() string { return r.display }

// Rank returns the fixed ordering rank and whether one is present.
func (r *Ref) Rank() (int, bool) { return r.rank, r.fixed }

// Parent returns the enclosing segment, or nil for a top-level stage.
func (r *Ref) Parent() *Ref { return r.parent }

// Path returns the segment chain from the top-level stage down to r.
func (r *Ref) Path() []*Ref {
	var path []*Ref
	for cur := r; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// QualifiedName returns the dotted full address, e.g.
// "Output.OutputTemplateRules".
func (r *Ref) QualifiedName() string {
	path := r.Path()
	names := make([]string, len(path))
	for i, seg := range path {
		names[i] = seg.name
	}
	return strings.Join(names, ".")
}

// Equal reports whether two refs address the same position.
func (r *Ref) Equal(o *Ref) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.QualifiedName() == o.QualifiedName()
}

// IsDescendantOf reports whether r sits strictly below anc in the tree.
func (r *Ref) IsDescendantOf(anc *Ref) bool {
	if r == nil || anc == nil {
		return false
	}
	for cur := r.parent; cur != nil; cur = cur.parent {
		if cur.Equal(anc) {
			return true
		}
	}
	return false
}

// DisplayName derives a human-readable label from a compact identifier by
// inserting separators at word boundaries: "OutputTemplateRules" becomes
// "Output Template Rules". Runs of capitals are kept together, so
// "HTTPServer" becomes "HTTP Server". Underscores and hyphens read as
// explicit separators.
func DisplayName(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 8)

	prevSep := true
	for i, cur := range runes {
		if cur == '_' || cur == '-' {
			if !prevSep {
				b.WriteRune(' ')
				prevSep = true
			}
			continue
		}

		if !prevSep && unicode.IsUpper(cur) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(cur)
		prevSep = false
	}
	return strings.TrimSpace(b.String())
}
