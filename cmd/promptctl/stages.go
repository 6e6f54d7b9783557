package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"structprompt/internal/stage"
)

// stagesCmd lists the canonical taxonomy in rank order
var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List canonical stages and their fixed ordering",
	Run: func(cmd *cobra.Command, args []string) {
		rankStyle := lipgloss.NewStyle().Faint(true)
		nameStyle := lipgloss.NewStyle().Bold(true)

		for _, ref := range stage.Canonical().Stages() {
			rank, _ := ref.Rank()
			fmt.Printf("%s  %s  %s\n",
				rankStyle.Render(fmt.Sprintf("%2d", rank)),
				nameStyle.Render(fmt.Sprintf("%-18s", ref.Name())),
				ref.DisplayName())
		}
	},
}
