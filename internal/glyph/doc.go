// Package glyph synthesizes fallback letterform images. When no real
// asset exists for a character, a deterministic self-contained SVG is
// produced from a per-style palette table, so every character always
// has something renderable.
package glyph
