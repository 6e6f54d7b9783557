package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"structprompt/internal/stage"
)

// Document is the declarative YAML form of a whole prompt. It is applied
// through the same Append/Replace operations programmatic callers use, so
// a loaded document and the equivalent API calls produce identical output.
type Document struct {
	Role          string       `yaml:"role,omitempty"`
	Prologue      string       `yaml:"prologue,omitempty"`
	Preferences   *PrefsDoc    `yaml:"preferences,omitempty"`
	CriticalSteps []StepDoc    `yaml:"critical_steps,omitempty"`
	Sections      []SectionDoc `yaml:"sections,omitempty"`
}

// PrefsDoc overrides rendering preferences. Unset fields keep defaults.
type PrefsDoc struct {
	SpacesPerLevel      *int     `yaml:"spaces_per_level,omitempty"`
	Progression         []string `yaml:"progression,omitempty"`
	BlankLineBetweenTop *bool    `yaml:"blank_line_between_top,omitempty"`
}

// StepDoc is a mandatory-step block.
type StepDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// SectionDoc targets one address. A doc that only carries items appends;
// a doc that shapes the section (title, subtitle, bullet_style, or an
// explicit replace flag) replaces the address wholesale.
type SectionDoc struct {
	Stage         string    `yaml:"stage"`
	Title         string    `yaml:"title,omitempty"`
	Subtitle      string    `yaml:"subtitle,omitempty"`
	BulletStyle   *string   `yaml:"bullet_style,omitempty"`
	Replace       bool      `yaml:"replace,omitempty"`
	CriticalSteps []StepDoc `yaml:"critical_steps,omitempty"`
	Items         []ItemDoc `yaml:"items,omitempty"`
}

// ItemDoc is either a plain scalar (a text item) or a nested section
// mapping under a "section" key.
type ItemDoc struct {
	Text    string
	Section *SectionDoc
}

// UnmarshalYAML implements the scalar-or-mapping union.
func (d *ItemDoc) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&d.Text)
	case yaml.MappingNode:
		var wrapper struct {
			Text    string      `yaml:"text"`
			Section *SectionDoc `yaml:"section"`
		}
		if err := node.Decode(&wrapper); err != nil {
			return err
		}
		if wrapper.Section == nil && wrapper.Text == "" {
			return fmt.Errorf("line %d: item must be a string or carry a text/section key", node.Line)
		}
		d.Text = wrapper.Text
		d.Section = wrapper.Section
		return nil
	default:
		return fmt.Errorf("line %d: unsupported item node", node.Line)
	}
}

// LoadDocument reads a YAML prompt document and builds a prompt from it.
func LoadDocument(path string, taxonomy *stage.Taxonomy) (*Builder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	return ParseDocument(data, taxonomy)
}

// ParseDocument builds a prompt from YAML document bytes.
func ParseDocument(data []byte, taxonomy *stage.Taxonomy) (*Builder, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc.Build(taxonomy)
}

// Build applies the document to a fresh builder.
func (d *Document) Build(taxonomy *stage.Taxonomy) (*Builder, error) {
	b := New(taxonomy)

	if d.Preferences != nil {
		prefs, err := d.Preferences.resolve()
		if err != nil {
			return nil, err
		}
		b.WithPreferences(prefs)
	}
	if d.Prologue != "" {
		b.WithPrologue(d.Prologue)
	}
	if d.Role != "" {
		b.SetRole(d.Role)
	}
	for _, cs := range d.CriticalSteps {
		b.AddCriticalStep(cs.Name, cs.Description)
	}

	for i := range d.Sections {
		if err := applySection(b, &d.Sections[i]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// resolve merges overrides onto the default preferences.
func (p *PrefsDoc) resolve() (Preferences, error) {
	prefs := DefaultPreferences()
	if p.SpacesPerLevel != nil {
		prefs.SpacesPerLevel = *p.SpacesPerLevel
	}
	if p.BlankLineBetweenTop != nil {
		prefs.BlankLineBetweenTop = *p.BlankLineBetweenTop
	}
	if len(p.Progression) > 0 {
		prog := make([]BulletStyle, 0, len(p.Progression))
		for _, tok := range p.Progression {
			style, err := parseBulletStyle(tok)
			if err != nil {
				return Preferences{}, fmt.Errorf("preferences.progression: %w", err)
			}
			prog = append(prog, style)
		}
		prefs.Progression = prog
	}
	return prefs, nil
}

// applySection routes one section doc through the mutation engine.
func applySection(b *Builder, doc *SectionDoc) error {
	if doc.Stage == "" {
		return fmt.Errorf("section missing stage address")
	}
	addr, err := parseAddress(doc.Stage, b.Taxonomy())
	if err != nil {
		return err
	}

	items, err := buildItems(doc.Items)
	if err != nil {
		return fmt.Errorf("section %s: %w", doc.Stage, err)
	}

	if doc.Replace || doc.Title != "" || doc.Subtitle != "" || doc.BulletStyle != nil {
		sec := NewSection(doc.Title, items...).WithSubtitle(doc.Subtitle)
		if doc.BulletStyle != nil {
			style, err := parseBulletStyle(*doc.BulletStyle)
			if err != nil {
				return fmt.Errorf("section %s: %w", doc.Stage, err)
			}
			sec.WithBullet(style)
		}
		for _, cs := range doc.CriticalSteps {
			sec.AddCriticalStep(cs.Name, cs.Description)
		}
		return b.Replace(addr, sec)
	}

	h, err := b.At(addr)
	if err != nil {
		return err
	}
	for _, cs := range doc.CriticalSteps {
		h.AddCriticalStep(cs.Name, cs.Description)
	}
	return h.Append(items...)
}

// buildItems converts item docs into the closed item set.
func buildItems(docs []ItemDoc) ([]Item, error) {
	items := make([]Item, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if doc.Section != nil {
			nested, err := buildNested(doc.Section)
			if err != nil {
				return nil, err
			}
			items = append(items, nested)
			continue
		}
		items = append(items, Text(doc.Text))
	}
	return items, nil
}

// buildNested converts a nested section doc into an ad-hoc section.
func buildNested(doc *SectionDoc) (*Section, error) {
	title := doc.Title
	if title == "" && doc.Stage != "" {
		title = stage.DisplayName(doc.Stage)
	}
	items, err := buildItems(doc.Items)
	if err != nil {
		return nil, err
	}
	sec := NewSection(title, items...).WithSubtitle(doc.Subtitle)
	if doc.BulletStyle != nil {
		style, err := parseBulletStyle(*doc.BulletStyle)
		if err != nil {
			return nil, err
		}
		sec.WithBullet(style)
	}
	for _, cs := range doc.CriticalSteps {
		sec.AddCriticalStep(cs.Name, cs.Description)
	}
	return sec, nil
}

// parseAddress resolves a dotted stage path against the taxonomy. The
// first segment may be canonical or arbitrary; deeper segments derive
// children.
func parseAddress(dotted string, taxonomy *stage.Taxonomy) (*stage.Ref, error) {
	segs := strings.Split(dotted, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("malformed stage address %q", dotted)
		}
	}
	ref, ok := taxonomy.Lookup(segs[0])
	if !ok {
		ref = stage.Named(segs[0])
	}
	for _, seg := range segs[1:] {
		ref = ref.Child(seg)
	}
	return ref, nil
}

// parseBulletStyle maps a document token to a bullet style.
func parseBulletStyle(tok string) (BulletStyle, error) {
	switch BulletStyle(strings.ToLower(tok)) {
	case BulletNone, BulletDash, BulletStar, BulletDot,
		StyleNumber, StyleLowerAlpha, StyleUpperAlpha:
		return BulletStyle(strings.ToLower(tok)), nil
	default:
		return BulletInherit, fmt.Errorf("unknown bullet style %q (want none, dash, star, dot, number, loweralpha, or upperalpha)", tok)
	}
}
