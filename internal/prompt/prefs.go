package prompt

// Preferences controls indentation and bullet selection during rendering.
type Preferences struct {
	// SpacesPerLevel is the indent width per content depth.
	SpacesPerLevel int

	// Progression is the cyclic bullet sequence. Index 0 sets the
	// top-level heading numbering style; later indices set bullet glyphs
	// at increasing content depth, cycling when depth runs past the end.
	Progression []BulletStyle

	// BlankLineBetweenTop inserts one blank line between consecutive
	// top-level blocks in the rendered output.
	BlankLineBetweenTop bool
}

// DefaultPreferences returns the standard layout: two-space indents,
// numbered headings, dash bullets at depth one and star bullets below.
func DefaultPreferences() Preferences {
	return Preferences{
		SpacesPerLevel:      2,
		Progression:         []BulletStyle{StyleNumber, BulletDash, BulletStar},
		BlankLineBetweenTop: true,
	}
}

// glyphFor returns the bullet glyph for content at the given depth (>= 1).
func (p Preferences) glyphFor(depth int) string {
	if len(p.Progression) <= 1 {
		return "-"
	}
	idx := 1 + (depth-1)%(len(p.Progression)-1)
	if g, ok := p.Progression[idx].glyph(); ok {
		return g
	}
	return "-"
}

// indent returns the leading whitespace for content at the given depth.
func (p Preferences) indent(depth int) int {
	if p.SpacesPerLevel < 0 {
		return 0
	}
	return p.SpacesPerLevel * depth
}
