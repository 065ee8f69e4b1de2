package glyph

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// DefaultStyle is the style used when a requested style is unknown
const DefaultStyle = "sans"

// Case suffixes appended to letter styles
const (
	upperSuffix = "-upper"
	lowerSuffix = "-lower"
)

//go:embed palettes.yaml
var palettesYAML []byte

// Palette holds the drawing attributes for one glyph style.
type Palette struct {
	Fill       string `yaml:"fill"`
	Background string `yaml:"background"`
	Stroke     string `yaml:"stroke"`
	FontFamily string `yaml:"font-family"`
}

// paletteTable mirrors the embedded palettes.yaml layout
type paletteTable struct {
	Styles  map[string]Palette `yaml:"styles"`
	Classes map[string]Palette `yaml:"classes"`
}

// styleOrder fixes the presentation and discovery order of styles;
// every entry must exist in palettes.yaml.
var styleOrder = []string{"sans", "serif", "mono", "script", "decorative"}

var palettes paletteTable

func init() {
	if err := yaml.Unmarshal(palettesYAML, &palettes); err != nil {
		panic(fmt.Sprintf("glyph: embedded palette table is invalid: %v", err))
	}
	for _, name := range styleOrder {
		if _, ok := palettes.Styles[name]; !ok {
			panic(fmt.Sprintf("glyph: embedded palette table is missing style %q", name))
		}
	}
	for _, class := range []string{"digit", "symbol"} {
		if _, ok := palettes.Classes[class]; !ok {
			panic(fmt.Sprintf("glyph: embedded palette table is missing class %q", class))
		}
	}
}

// Styles returns the known base style names in stable order.
func Styles() []string {
	out := make([]string, len(styleOrder))
	copy(out, styleOrder)
	return out
}

// KnownStyle reports whether name is a recognized style, ignoring any
// case suffix.
func KnownStyle(name string) bool {
	_, ok := palettes.Styles[BaseStyle(name)]
	return ok
}

// BaseStyle strips the "-upper"/"-lower" case suffix from a style name.
func BaseStyle(name string) string {
	name = strings.TrimSuffix(name, upperSuffix)
	name = strings.TrimSuffix(name, lowerSuffix)
	return name
}

// WithCase appends the case suffix derived from a letter character.
// Non-letter characters keep the base style unchanged.
func WithCase(style string, ch rune) string {
	if !unicode.IsLetter(ch) {
		return BaseStyle(style)
	}
	if unicode.IsUpper(ch) {
		return BaseStyle(style) + upperSuffix
	}
	return BaseStyle(style) + lowerSuffix
}

// StylePalette returns the palette for a style name, falling back to
// the default style for unknown names.
func StylePalette(name string) Palette {
	if pal, ok := palettes.Styles[BaseStyle(name)]; ok {
		return pal
	}
	return palettes.Styles[DefaultStyle]
}

// paletteFor selects the palette for a character. Digits and symbols
// use their class palettes regardless of style; letters use the style
// table.
func paletteFor(ch rune, style string) Palette {
	switch {
	case unicode.IsDigit(ch):
		return palettes.Classes["digit"]
	case unicode.IsLetter(ch):
		return StylePalette(style)
	default:
		return palettes.Classes["symbol"]
	}
}
