// Package prompt builds and renders large structured prompts. Sections are
// addressed through the hierarchical key space in internal/stage, mutated
// with three explicit operations (Append, AppendText, Replace), and
// rendered deterministically: numbered top-level headings, depth-driven
// bullet glyphs, hanging indents for multi-line text, and mandatory-step
// banners.
package prompt

import "structprompt/internal/stage"

// Item is one unit of content inside a section: a run of text or a nested
// section. The set is closed; only Text and *Section satisfy it.
type Item interface{ isItem() }

// Text is a text item. It may span multiple lines; continuation lines are
// rendered with a hanging indent under the first line.
type Text string

func (Text) isItem() {}

// CriticalStep is a mandatory instruction block. It renders as a banner
// line followed by its description, ahead of ordinary content at its scope.
type CriticalStep struct {
	Name        string
	Description string
}

// BulletStyle names a bullet glyph or a heading numbering style.
type BulletStyle string

const (
	// BulletInherit selects the progression glyph for the item's depth.
	BulletInherit BulletStyle = ""

	// BulletNone is a hard override: direct children of the section are
	// never bulleted, independent of item count.
	BulletNone BulletStyle = "none"

	BulletDash BulletStyle = "dash"
	BulletStar BulletStyle = "star"
	BulletDot  BulletStyle = "dot"

	// Numbering styles, valid only at progression index 0 where they set
	// the top-level heading format.
	StyleNumber     BulletStyle = "number"
	StyleLowerAlpha BulletStyle = "loweralpha"
	StyleUpperAlpha BulletStyle = "upperalpha"
)

// glyph returns the literal bullet character for a glyph style. Returns
// false for suppression, inherit, and numbering styles.
func (s BulletStyle) glyph() (string, bool) {
	switch s {
	case BulletDash:
		return "-", true
	case BulletStar:
		return "*", true
	case BulletDot:
		return "•", true
	}
	return "", false
}

// Section is a titled container of items: the node type of the prompt
// tree. A section exclusively owns its items, including nested sections.
type Section struct {
	title    string
	subtitle string
	bullet   BulletStyle
	items    []Item
	critical []CriticalStep

	// children indexes nested sections by stage name so that addressed
	// assignment converges on existing nodes instead of duplicating them.
	children map[string]*Section

	ref   *stage.Ref
	rank  int
	fixed bool
	seq   int
}

func (*Section) isItem() {}

// NewSection creates an ad-hoc section with an explicit title.
func NewSection(title string, items ...Item) *Section {
	s := &Section{title: title, children: make(map[string]*Section)}
	s.adopt(items)
	return s
}

// StageSection creates a section addressed by a stage reference; its title
// is the stage's display name.
func StageSection(ref *stage.Ref, items ...Item) *Section {
	s := NewSection("", items...)
	if ref != nil {
		s.ref = ref
		s.title = ref.DisplayName()
	}
	return s
}

// WithSubtitle sets the single line rendered under the title, before
// content.
func (s *Section) WithSubtitle(subtitle string) *Section {
	s.subtitle = subtitle
	return s
}

// WithBullet overrides how direct children are bulleted. BulletNone
// suppresses bullets entirely; a glyph style forces that glyph.
func (s *Section) WithBullet(b BulletStyle) *Section {
	s.bullet = b
	return s
}

// AddCriticalStep appends a mandatory-step block to this section. Blocks
// render before the section's other items, in insertion order.
func (s *Section) AddCriticalStep(name, description string) {
	s.critical = append(s.critical, CriticalStep{Name: name, Description: description})
}

// Title returns the display title.
func (s *Section) Title() string { return s.title }

// Subtitle returns the subtitle line, or "".
func (s *Section) Subtitle() string { return s.subtitle }

// Bullet returns the bullet override for direct children.
func (s *Section) Bullet() BulletStyle { return s.bullet }

// Items returns the ordered content of the section.
func (s *Section) Items() []Item { return s.items }

// CriticalSteps returns the section's mandatory-step blocks in insertion
// order.
func (s *Section) CriticalSteps() []CriticalStep { return s.critical }

// adopt appends items and indexes any stage-addressed nested sections.
func (s *Section) adopt(items []Item) {
	for _, it := range items {
		s.items = append(s.items, it)
		if child, ok := it.(*Section); ok && child.ref != nil {
			s.children[child.ref.Name()] = child
		}
	}
}
