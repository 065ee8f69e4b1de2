package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const helpWidth = 78

var (
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"})
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
	okBadge      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#03BF87", Dark: "#3AD787"})
	failBadge    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#D32F2F", Dark: "#FF5F56"})
)

// keyword renders a word that should stand out in help and status
// text.
func keyword(s string) string {
	return keywordStyle.Render(s)
}

// subtle renders de-emphasized text.
func subtle(s string) string {
	return subtleStyle.Render(s)
}

// paragraph wraps and indents a block of help text.
func paragraph(s string) string {
	return indent.String(wordwrap.String(s, helpWidth-2), 2)
}
