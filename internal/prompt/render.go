package prompt

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// criticalBanner is the literal marker wrapped around mandatory-step names.
const criticalBanner = "!!! MANDATORY STEP [%s] !!!"

// Render walks the finished tree once and returns the prompt text. It is
// pure: repeated calls on an unchanged builder are byte-identical.
//
// Layout: bold role line, prologue, root mandatory-step blocks, then every
// top-level section in ordering-policy order with a dense numbered heading
// and its body indented one level per depth.
func (b *Builder) Render() string {
	var blocks []string

	if preamble := b.renderPreamble(); len(preamble) > 0 {
		blocks = append(blocks, strings.Join(preamble, "\n"))
	}

	for i, sec := range b.orderedSections() {
		lines := []string{b.headingLine(i+1, sec.title)}
		b.renderBody(sec, 1, &lines)
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	sep := "\n"
	if b.prefs.BlankLineBetweenTop {
		sep = "\n\n"
	}
	return strings.Join(blocks, sep)
}

// renderPreamble emits the role, prologue, and root critical steps.
func (b *Builder) renderPreamble() []string {
	var lines []string
	if b.role != "" {
		lines = append(lines, "**"+b.role+"**")
	}
	if b.prologue != "" {
		lines = append(lines, strings.Split(b.prologue, "\n")...)
	}
	for _, cs := range b.critical {
		lines = append(lines, fmt.Sprintf(criticalBanner, cs.Name))
		if cs.Description != "" {
			lines = append(lines, strings.Split(cs.Description, "\n")...)
		}
	}
	return lines
}

// orderedSections returns top-level sections in display order: fixed-rank
// stages ascending by rank, then arbitrary stages by first assignment.
func (b *Builder) orderedSections() []*Section {
	secs := make([]*Section, 0, len(b.sections))
	for _, sec := range b.sections {
		secs = append(secs, sec)
	}
	sort.SliceStable(secs, func(i, j int) bool {
		a, z := secs[i], secs[j]
		if a.fixed != z.fixed {
			return a.fixed
		}
		if a.fixed && a.rank != z.rank {
			return a.rank < z.rank
		}
		return a.seq < z.seq
	})
	return secs
}

// headingLine formats a numbered top-level heading. The displayed number
// is the dense rank over the combined order, not the raw taxonomy rank.
func (b *Builder) headingLine(n int, title string) string {
	style := StyleNumber
	if len(b.prefs.Progression) > 0 {
		style = b.prefs.Progression[0]
	}
	var label string
	switch style {
	case StyleLowerAlpha:
		label = string(rune('a' + (n-1)%26))
	case StyleUpperAlpha:
		label = string(rune('A' + (n-1)%26))
	default:
		label = fmt.Sprintf("%d", n)
	}
	return label + ". " + title
}

// renderBody emits a section's subtitle, critical steps, and items at the
// given content depth.
func (b *Builder) renderBody(sec *Section, depth int, out *[]string) {
	indent := strings.Repeat(" ", b.prefs.indent(depth))

	if sec.subtitle != "" {
		for _, line := range strings.Split(sec.subtitle, "\n") {
			*out = append(*out, indent+line)
		}
	}

	for _, cs := range sec.critical {
		*out = append(*out, indent+fmt.Sprintf(criticalBanner, cs.Name))
		if cs.Description != "" {
			for _, line := range strings.Split(cs.Description, "\n") {
				*out = append(*out, indent+line)
			}
		}
	}

	glyph := b.bulletFor(sec, len(sec.items), depth)
	for _, it := range sec.items {
		switch v := it.(type) {
		case Text:
			writeText(out, indent, glyph, string(v))
		case *Section:
			writeText(out, indent, glyph, v.title)
			b.renderBody(v, depth+1, out)
		}
	}
}

// bulletFor decides the glyph for a section's direct children. BulletNone
// wins outright; an explicit glyph override applies regardless of count; a
// single item is left unbulleted; otherwise the progression decides.
func (b *Builder) bulletFor(sec *Section, count, depth int) string {
	if sec.bullet == BulletNone {
		return ""
	}
	if g, ok := sec.bullet.glyph(); ok {
		return g
	}
	if count <= 1 {
		return ""
	}
	return b.prefs.glyphFor(depth)
}

// writeText emits a possibly multi-line item. The first line carries the
// bullet; continuation lines hang one column past where the first line's
// text begins.
func writeText(out *[]string, indent, glyph, text string) {
	prefix := indent
	if glyph != "" {
		prefix = indent + glyph + " "
	}
	lines := strings.Split(text, "\n")
	*out = append(*out, prefix+lines[0])
	if len(lines) == 1 {
		return
	}
	hang := strings.Repeat(" ", utf8.RuneCountInString(prefix)+1)
	for _, line := range lines[1:] {
		*out = append(*out, hang+line)
	}
}
