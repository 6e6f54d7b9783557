package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"structprompt/internal/prompt"
	"structprompt/internal/stage"
)

var (
	outputPath string
	pretty     bool
	watchMode  bool
)

// renderCmd renders one document to stdout or a file
var renderCmd = &cobra.Command{
	Use:   "render <document.yaml>",
	Short: "Render a prompt document to text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if watchMode {
			return runWatch(cmd, path)
		}
		out, err := renderDocument(path)
		if err != nil {
			return err
		}
		return emit(out)
	},
}

// checkCmd loads and renders without emitting, reporting diagnostics
var checkCmd = &cobra.Command{
	Use:   "check <document.yaml>",
	Short: "Validate a prompt document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		b, err := prompt.LoadDocument(path, stage.Canonical())
		if err != nil {
			return err
		}
		out := b.Render()
		logger.Debug("document rendered",
			zap.String("path", path),
			zap.Int("chars", len(out)))
		fmt.Printf("%s: ok (%d chars)\n", path, len(out))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write rendered prompt to file instead of stdout")
	renderCmd.Flags().BoolVar(&pretty, "pretty", false, "Render markdown for terminal display")
	renderCmd.Flags().BoolVar(&watchMode, "watch", false, "Re-render whenever the document changes")
}

// renderDocument loads a document against the canonical taxonomy and
// renders it.
func renderDocument(path string) (string, error) {
	b, err := prompt.LoadDocument(path, stage.Canonical())
	if err != nil {
		return "", err
	}
	logger.Debug("document loaded", zap.String("path", path))
	return b.Render(), nil
}

// emit writes the rendered prompt to the configured destination.
func emit(out string) error {
	if pretty {
		out = prettyMarkdown(out)
	}
	if outputPath != "" {
		return os.WriteFile(outputPath, []byte(out+"\n"), 0o644)
	}
	fmt.Println(out)
	return nil
}

// prettyMarkdown renders markdown with panic recovery
func prettyMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	rendered, err := glamour.Render(content, "auto")
	if err != nil {
		return content
	}
	return rendered
}
