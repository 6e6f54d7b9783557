package prompt

import (
	"structprompt/internal/stage"
)

// Builder owns one prompt tree and its root state. It is not safe for
// concurrent use; callers mutate it from one goroutine and read the result
// through Render.
type Builder struct {
	role     string
	prologue string
	prefs    Preferences
	taxonomy *stage.Taxonomy

	critical []CriticalStep
	sections map[string]*Section
	nextSeq  int
}

// New creates a builder bound to a stage taxonomy. A nil taxonomy is
// treated as empty: every name orders dynamically.
func New(taxonomy *stage.Taxonomy) *Builder {
	if taxonomy == nil {
		taxonomy = stage.NewTaxonomy()
	}
	return &Builder{
		prefs:    DefaultPreferences(),
		taxonomy: taxonomy,
		sections: make(map[string]*Section),
	}
}

// WithPrologue sets the free text rendered after the role line.
func (b *Builder) WithPrologue(text string) *Builder {
	b.prologue = text
	return b
}

// WithPreferences replaces the rendering preferences.
func (b *Builder) WithPreferences(p Preferences) *Builder {
	b.prefs = p
	return b
}

// SetRole sets the single line rendered boldfaced at the top of the prompt.
func (b *Builder) SetRole(role string) {
	b.role = role
}

// AddCriticalStep appends a root-level mandatory-step block. Root blocks
// render after the prologue and before the first section.
func (b *Builder) AddCriticalStep(name, description string) {
	b.critical = append(b.critical, CriticalStep{Name: name, Description: description})
}

// Append appends items, in order, to the section at addr. Missing
// ancestors are created; the target's title, subtitle, and bullet override
// are left untouched.
func (b *Builder) Append(addr *stage.Ref, items ...Item) error {
	node, err := b.resolveOrCreate(addr)
	if err != nil {
		return err
	}
	return appendItems(node, addr.QualifiedName(), items)
}

// AppendText appends exactly one text item to the section at addr.
func (b *Builder) AppendText(addr *stage.Ref, text string) error {
	return b.Append(addr, Text(text))
}

// Replace replaces the section at addr wholesale: title, subtitle, bullet
// override, critical steps, and items are all taken from sec, discarding
// prior content. An empty title falls back to the address display name.
func (b *Builder) Replace(addr *stage.Ref, sec *Section) error {
	if sec == nil {
		if addr == nil {
			return &UnresolvedAddressError{Reason: "nil stage reference"}
		}
		return &InvalidAssignmentError{Address: addr.QualifiedName(), Kind: "nil section"}
	}
	node, err := b.resolveOrCreate(addr)
	if err != nil {
		return err
	}
	if sec.title != "" {
		node.title = sec.title
	} else {
		node.title = addr.DisplayName()
	}
	node.subtitle = sec.subtitle
	node.bullet = sec.bullet
	node.critical = sec.critical
	node.items = nil
	node.children = make(map[string]*Section)
	node.adopt(sec.items)
	return nil
}

// At resolves addr to a section handle, creating the node and any missing
// ancestors. Resolution on read and write shares this one path, so
// two-step addressing through a handle is identical to one-step addressing
// with the full address.
func (b *Builder) At(addr *stage.Ref) (*Handle, error) {
	node, err := b.resolveOrCreate(addr)
	if err != nil {
		return nil, err
	}
	return &Handle{b: b, node: node, ref: addr}, nil
}

// Taxonomy returns the stage taxonomy this builder resolves against.
func (b *Builder) Taxonomy() *stage.Taxonomy { return b.taxonomy }

// resolveOrCreate walks addr's path from its top-level stage, creating
// every missing node with a title derived from the segment display name.
func (b *Builder) resolveOrCreate(addr *stage.Ref) (*Section, error) {
	if addr == nil {
		return nil, &UnresolvedAddressError{Reason: "nil stage reference"}
	}
	path := addr.Path()
	top := path[0]
	if top.Name() == "" {
		return nil, &UnresolvedAddressError{Address: addr.QualifiedName(), Reason: "empty stage name"}
	}

	node, ok := b.sections[top.Name()]
	if !ok {
		node = StageSection(top)
		if rank, fixed := top.Rank(); fixed {
			node.rank, node.fixed = rank, true
		} else if canonical, known := b.taxonomy.Lookup(top.Name()); known {
			// The same canonical stage may arrive as a bare name.
			node.rank, node.fixed = canonical.Rank()
			node.title = canonical.DisplayName()
		}
		node.seq = b.nextSeq
		b.nextSeq++
		b.sections[top.Name()] = node
	}

	for _, seg := range path[1:] {
		child, ok := node.children[seg.Name()]
		if !ok {
			child = StageSection(seg)
			node.children[seg.Name()] = child
			node.items = append(node.items, child)
		}
		node = child
	}
	return node, nil
}

// appendItems validates and appends a sequence of items to a node.
func appendItems(node *Section, address string, items []Item) error {
	for _, it := range items {
		switch v := it.(type) {
		case Text:
		case *Section:
			if v == nil {
				return &InvalidAssignmentError{Address: address, Kind: "nil section item"}
			}
		default:
			return &InvalidAssignmentError{Address: address, Kind: "unsupported item"}
		}
	}
	node.adopt(items)
	return nil
}

// Handle is an addressed view of one section. Mutations through a handle
// and mutations through the builder with a fully qualified address hit the
// same underlying node.
type Handle struct {
	b    *Builder
	node *Section
	ref  *stage.Ref
}

// Append appends items to this section.
func (h *Handle) Append(items ...Item) error {
	return appendItems(h.node, h.ref.QualifiedName(), items)
}

// AppendText appends exactly one text item to this section.
func (h *Handle) AppendText(text string) error {
	return h.Append(Text(text))
}

// AddCriticalStep appends a mandatory-step block to this section.
func (h *Handle) AddCriticalStep(name, description string) {
	h.node.AddCriticalStep(name, description)
}

// At resolves a descendant address relative to this handle. The child must
// actually sit below this handle's stage.
func (h *Handle) At(child *stage.Ref) (*Handle, error) {
	if child == nil {
		return nil, &UnresolvedAddressError{Address: h.ref.QualifiedName(), Reason: "nil child reference"}
	}
	if !child.IsDescendantOf(h.ref) {
		return nil, &UnresolvedAddressError{
			Address: child.QualifiedName(),
			Reason:  "not a descendant of " + h.ref.QualifiedName(),
		}
	}
	return h.b.At(child)
}

// AppendAt appends items at a descendant address.
func (h *Handle) AppendAt(child *stage.Ref, items ...Item) error {
	ch, err := h.At(child)
	if err != nil {
		return err
	}
	return ch.Append(items...)
}

// AppendTextAt appends one text item at a descendant address.
func (h *Handle) AppendTextAt(child *stage.Ref, text string) error {
	return h.AppendAt(child, Text(text))
}

// ReplaceAt replaces the section at a descendant address wholesale.
func (h *Handle) ReplaceAt(child *stage.Ref, sec *Section) error {
	if _, err := h.At(child); err != nil {
		return err
	}
	return h.b.Replace(child, sec)
}

// Section exposes the underlying node for read access.
func (h *Handle) Section() *Section { return h.node }
