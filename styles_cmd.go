package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/letterpress/pkg/letterpress"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List letter styles and their palettes",
	Long:  paragraph(fmt.Sprintf("\nList the known letter styles along with the %s their synthesized glyphs draw with.", keyword("palettes"))),
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		for _, name := range letterpress.Styles() {
			pal := letterpress.StylePalette(name)
			swatch := lipgloss.NewStyle().
				Foreground(lipgloss.Color(pal.Fill)).
				Background(lipgloss.Color(pal.Background)).
				Padding(0, 1).
				Render("Aa")
			fmt.Printf("%s %-11s %s\n", swatch, name,
				subtle(fmt.Sprintf("fill %s  background %s  stroke %s  %s",
					pal.Fill, pal.Background, pal.Stroke, pal.FontFamily)))
		}
		return nil
	},
}
