package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structprompt/internal/stage"
)

const fullDocument = `
role: You are a senior SRE
prologue: K8s Resolver Prompt
preferences:
  blank_line_between_top: false
critical_steps:
  - name: CHECK OTHER NAMESPACES
    description: Explore other namespaces and compare configs.
sections:
  - stage: Scoping
    items:
      - Record incident summary and objective.
  - stage: ToolReference
    subtitle: "RULE: [name|purpose]"
    bullet_style: none
    items:
      - "[tracing|service RCA]"
      - "[metrics|correlation]"
  - stage: Output.OutputTemplateRules
    items:
      - Always format answers using valid Markdown.
  - stage: CustomStage
    items:
      - text: Custom content
      - section:
          title: Sub
          items: [A, B]
`

func TestParseDocument_Full(t *testing.T) {
	b, err := ParseDocument([]byte(fullDocument), stage.Canonical())
	require.NoError(t, err)

	want := strings.Join([]string{
		"**You are a senior SRE**",
		"K8s Resolver Prompt",
		"!!! MANDATORY STEP [CHECK OTHER NAMESPACES] !!!",
		"Explore other namespaces and compare configs.",
		"1. Scoping",
		"  Record incident summary and objective.",
		"2. Tool Reference",
		"  RULE: [name|purpose]",
		"  [tracing|service RCA]",
		"  [metrics|correlation]",
		"3. Output",
		"  Output Template Rules",
		"    Always format answers using valid Markdown.",
		"4. Custom Stage",
		"  - Custom content",
		"  - Sub",
		"    * A",
		"    * B",
	}, "\n")
	if diff := cmp.Diff(want, b.Render()); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocument_AppendVsReplace(t *testing.T) {
	t.Run("items-only docs append across entries", func(t *testing.T) {
		doc := `
sections:
  - stage: Planning
    items: [first]
  - stage: Planning
    items: [second]
`
		b, err := ParseDocument([]byte(doc), stage.Canonical())
		require.NoError(t, err)

		out := b.Render()
		assert.Contains(t, out, "- first")
		assert.Contains(t, out, "- second")
	})

	t.Run("shaped doc replaces", func(t *testing.T) {
		doc := `
sections:
  - stage: Planning
    items: [stale]
  - stage: Planning
    title: Plan of Attack
    items: [fresh]
`
		b, err := ParseDocument([]byte(doc), stage.Canonical())
		require.NoError(t, err)

		out := b.Render()
		assert.NotContains(t, out, "stale")
		assert.Contains(t, out, "1. Plan of Attack")
		assert.Contains(t, out, "fresh")
	})

	t.Run("explicit replace flag", func(t *testing.T) {
		doc := `
sections:
  - stage: Planning
    items: [stale]
  - stage: Planning
    replace: true
    items: [fresh]
`
		b, err := ParseDocument([]byte(doc), stage.Canonical())
		require.NoError(t, err)

		out := b.Render()
		assert.NotContains(t, out, "stale")
		assert.Contains(t, out, "1. Planning")
	})
}

func TestParseDocument_SectionCriticalSteps(t *testing.T) {
	doc := `
sections:
  - stage: Scoping
    critical_steps:
      - name: SCOPE SUPREMACY
        description: Investigate only the given issues.
    items:
      - Record the objective.
`
	b, err := ParseDocument([]byte(doc), stage.Canonical())
	require.NoError(t, err)

	out := b.Render()
	banner := strings.Index(out, "!!! MANDATORY STEP [SCOPE SUPREMACY] !!!")
	item := strings.Index(out, "Record the objective.")
	require.GreaterOrEqual(t, banner, 0)
	assert.Less(t, banner, item)
}

func TestParseDocument_Preferences(t *testing.T) {
	doc := `
preferences:
  spaces_per_level: 4
  progression: [loweralpha, dash, star]
sections:
  - stage: Planning
    items: [one, two]
`
	b, err := ParseDocument([]byte(doc), stage.Canonical())
	require.NoError(t, err)

	out := b.Render()
	assert.Contains(t, out, "a. Planning")
	assert.Contains(t, out, "    - one")
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "missing stage address",
			doc:     "sections:\n  - items: [x]\n",
			wantErr: "missing stage address",
		},
		{
			name:    "malformed dotted address",
			doc:     "sections:\n  - stage: Output..Rules\n    items: [x]\n",
			wantErr: "malformed stage address",
		},
		{
			name:    "unknown bullet style",
			doc:     "sections:\n  - stage: Planning\n    bullet_style: wingdings\n    items: [x]\n",
			wantErr: "unknown bullet style",
		},
		{
			name:    "unknown progression token",
			doc:     "preferences:\n  progression: [number, chevron]\n",
			wantErr: "unknown bullet style",
		},
		{
			name:    "empty item mapping",
			doc:     "sections:\n  - stage: Planning\n    items:\n      - {}\n",
			wantErr: "item must be a string",
		},
		{
			name:    "not yaml",
			doc:     "{{{",
			wantErr: "parse document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.doc), stage.Canonical())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDocument(t *testing.T) {
	t.Run("loads from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.yaml")
		require.NoError(t, os.WriteFile(path, []byte(fullDocument), 0o644))

		b, err := LoadDocument(path, stage.Canonical())
		require.NoError(t, err)
		assert.Contains(t, b.Render(), "1. Scoping")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.yaml"), stage.Canonical())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read document")
	})
}

func TestParseDocument_EquivalentToAPI(t *testing.T) {
	doc := `
prologue: Prompt
sections:
  - stage: Planning
    items: [a, b]
`
	fromDoc, err := ParseDocument([]byte(doc), stage.Canonical())
	require.NoError(t, err)

	tax := stage.Canonical()
	fromAPI := New(tax).WithPrologue("Prompt")
	planning, ok := tax.Lookup("Planning")
	require.True(t, ok)
	require.NoError(t, fromAPI.Append(planning, Text("a"), Text("b")))

	assert.Equal(t, fromAPI.Render(), fromDoc.Render())
}
