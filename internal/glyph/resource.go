package glyph

// Glyph box dimensions
const (
	// BoxWidth is the width of a synthesized glyph box in pixels
	BoxWidth = 40
	// BoxHeight is the height of a synthesized glyph box in pixels
	BoxHeight = 60
)

// Resource is a renderable glyph asset. Remote assets carry the URL
// they were fetched from in Source and the encoded image bytes in
// Data; synthesized glyphs carry inline SVG markup in Source and no
// Data. Resources are immutable once returned.
type Resource struct {
	Source      string `json:"source"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Fallback    bool   `json:"isFallback"`
	Synthesized bool   `json:"isSynthesized"`
	Data        []byte `json:"-"`
}

// Placeholder returns a minimal empty-box resource for the rare case
// where a load fails and no character context is available to
// synthesize a proper glyph.
func Placeholder() *Resource {
	return &Resource{
		Width:       BoxWidth,
		Height:      BoxHeight,
		Fallback:    true,
		Synthesized: true,
	}
}
