// Package letterpress exposes the typesetting pipeline for embedding.
// A Typesetter resolves text against a letterform deployment, probing
// its directory layout once and caching every asset and answer it
// learns along the way:
//
//	ts, err := letterpress.New(letterpress.Config{
//		Root: "https://letters.example.com/",
//		City: "NYC",
//	})
//	if err != nil {
//		return err
//	}
//	for _, d := range ts.ResolveText(ctx, "HELLO", letterpress.Options{}) {
//		fmt.Println(d.Kind, string(d.Char), d.Style)
//	}
//
// Resolution never fails: characters without real assets come back
// with synthesized SVG glyphs instead.
package letterpress

import (
	"github.com/dgnsrekt/letterpress/internal/glyph"
	"github.com/dgnsrekt/letterpress/internal/typeset"
)

// Pipeline types, re-exported for external callers.
type (
	// Config assembles a typesetter.
	Config = typeset.Config
	// Options adjust one ResolveText call.
	Options = typeset.Options
	// Typesetter is the long-lived pipeline object.
	Typesetter = typeset.Typesetter
	// Descriptor is one resolved character.
	Descriptor = typeset.Descriptor
	// Kind classifies a descriptor.
	Kind = typeset.Kind
	// Stats is a snapshot of pipeline activity.
	Stats = typeset.Stats
	// Resource is a renderable glyph asset.
	Resource = glyph.Resource
	// Palette holds the drawing attributes of a glyph style.
	Palette = glyph.Palette
)

// Descriptor kinds.
const (
	KindLetter  = typeset.KindLetter
	KindSpace   = typeset.KindSpace
	KindSpecial = typeset.KindSpecial
)

// Case transform modes.
const (
	CaseNone  = typeset.CaseNone
	CaseUpper = typeset.CaseUpper
	CaseLower = typeset.CaseLower
	CaseTitle = typeset.CaseTitle
)

// New creates a typesetter from cfg.
func New(cfg Config) (*Typesetter, error) {
	return typeset.New(cfg)
}

// DefaultConfig returns the default typesetter configuration.
func DefaultConfig() Config {
	return typeset.DefaultConfig()
}

// Cases lists the accepted case transform modes.
func Cases() []string {
	return typeset.Cases()
}

// Styles lists the known letter styles.
func Styles() []string {
	return glyph.Styles()
}

// StylePalette returns the palette a style draws with. Unknown names
// fall back to the default style's palette.
func StylePalette(name string) Palette {
	return glyph.StylePalette(name)
}
