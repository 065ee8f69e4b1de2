package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/dgnsrekt/letterpress/pkg/letterpress"
)

var (
	reportHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	assetRowStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#03BF87", Dark: "#3AD787"})
	fallbackRowStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D79921", Dark: "#FABD2F"})
	passRowStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
)

// writeReport renders one row per descriptor, followed by a stats
// footer.
func writeReport(w io.Writer, descriptors []letterpress.Descriptor, stats letterpress.Stats, width int) error {
	if width < 40 {
		width = 40
	}

	styleWidth := len("STYLE")
	for _, d := range descriptors {
		if n := runewidth.StringWidth(d.Style); n > styleWidth {
			styleWidth = n
		}
	}
	sourceWidth := width - (5 + 5 + 8 + styleWidth + 2)
	if sourceWidth < 12 {
		sourceWidth = 12
	}

	header := fmt.Sprintf("%-5s%-5s%-8s%-*s  %s", "POS", "CHAR", "KIND", styleWidth, "STYLE", "SOURCE")
	if _, err := fmt.Fprintln(w, reportHeaderStyle.Render(header)); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}

	for i, d := range descriptors {
		src, rowStyle := describeSource(d)
		row := fmt.Sprintf("%-5d%-5s%-8s%-*s  %s",
			i, displayChar(d), d.Kind.String(), styleWidth, d.Style,
			runewidth.Truncate(src, sourceWidth, "…"))
		if _, err := fmt.Fprintln(w, rowStyle.Render(row)); err != nil {
			return fmt.Errorf("unable to write to writer: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", subtle(statsLine(descriptors, stats))); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}

// displayChar makes whitespace visible in the report table.
func displayChar(d letterpress.Descriptor) string {
	if d.Kind == letterpress.KindSpace {
		return "␣"
	}
	return string(d.Char)
}

// describeSource summarizes where a descriptor's glyph came from and
// picks the row color to match.
func describeSource(d letterpress.Descriptor) (string, lipgloss.Style) {
	switch {
	case d.Kind == letterpress.KindSpace:
		return "", passRowStyle
	case d.Kind == letterpress.KindSpecial:
		return "passes through", passRowStyle
	case d.Resource == nil:
		return "", passRowStyle
	case d.Resource.Synthesized:
		return "synthesized SVG", fallbackRowStyle
	default:
		return d.Resource.Source, assetRowStyle
	}
}

// statsLine condenses the pipeline stats into one footer line.
func statsLine(descriptors []letterpress.Descriptor, stats letterpress.Stats) string {
	var loadedBytes int64
	seen := make(map[string]bool)
	for _, d := range descriptors {
		if d.Resource == nil || d.Resource.Synthesized || seen[d.Resource.Source] {
			continue
		}
		seen[d.Resource.Source] = true
		loadedBytes += int64(len(d.Resource.Data))
	}

	layout := "none"
	if stats.ResolvedTemplate != "" {
		layout = stats.ResolvedTemplate
		if stats.BasePath != "" {
			layout += " under " + stats.BasePath
		}
	}
	return fmt.Sprintf("%d requested, %d loaded (%s), %d cache hits, %d synthesized, layout %s",
		stats.Requested, stats.Loaded, humanize.Bytes(uint64(loadedBytes)), //nolint:gosec
		stats.CachedHits, stats.FallbacksCreated, layout)
}

// jsonDescriptor flattens a descriptor for machine consumption.
type jsonDescriptor struct {
	Position int                   `json:"position"`
	Char     string                `json:"char"`
	Kind     string                `json:"kind"`
	Style    string                `json:"style,omitempty"`
	Resource *letterpress.Resource `json:"resource,omitempty"`
}

type jsonReport struct {
	Text        string            `json:"text"`
	Descriptors []jsonDescriptor  `json:"descriptors"`
	Stats       letterpress.Stats `json:"stats"`
}

// writeJSON emits the resolved text, descriptors and stats as
// indented JSON.
func writeJSON(w io.Writer, descriptors []letterpress.Descriptor, stats letterpress.Stats) error {
	report := jsonReport{
		Descriptors: make([]jsonDescriptor, 0, len(descriptors)),
		Stats:       stats,
	}
	var text strings.Builder
	for i, d := range descriptors {
		text.WriteRune(d.Char)
		report.Descriptors = append(report.Descriptors, jsonDescriptor{
			Position: i,
			Char:     string(d.Char),
			Kind:     d.Kind.String(),
			Style:    d.Style,
			Resource: d.Resource,
		})
	}
	report.Text = text.String()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("unable to encode report: %w", err)
	}
	return nil
}
