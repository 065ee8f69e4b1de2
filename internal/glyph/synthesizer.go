package glyph

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	svg "github.com/ajstarks/svgo"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Synthesizer renders fallback glyphs and caches them by
// (character, style). Synthesis never fails: unknown styles draw with
// the default palette.
type Synthesizer struct {
	mu      sync.RWMutex
	cache   map[string]*Resource
	created int64
	log     *log.Logger
}

// NewSynthesizer creates a glyph synthesizer.
func NewSynthesizer(logger *log.Logger) *Synthesizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Synthesizer{
		cache: make(map[string]*Resource),
		log:   logger.With("component", "glyph"),
	}
}

// Synthesize returns the fallback resource for a character and style.
// Repeated calls with identical inputs return the identical resource.
func (s *Synthesizer) Synthesize(ch rune, style string) *Resource {
	key := string(ch) + "|" + style

	s.mu.RLock()
	res, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return res
	}

	built := s.render(ch, style)

	s.mu.Lock()
	defer s.mu.Unlock()
	// First writer wins so repeated calls share one resource.
	if res, ok := s.cache[key]; ok {
		return res
	}
	s.cache[key] = built
	atomic.AddInt64(&s.created, 1)
	return built
}

// Created returns the number of distinct fallback glyphs rendered so
// far.
func (s *Synthesizer) Created() int64 {
	return atomic.LoadInt64(&s.created)
}

// render draws the glyph box as a standalone SVG document. Each
// document carries a unique group id so several can be inlined into
// one page without id collisions; the id has no effect on caching.
func (s *Synthesizer) render(ch rune, style string) *Resource {
	pal := paletteFor(ch, style)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(BoxWidth, BoxHeight)
	canvas.Gid("lp-" + uuid.NewString())
	canvas.Roundrect(1, 1, BoxWidth-2, BoxHeight-2, 4, 4,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", pal.Background, pal.Stroke))
	canvas.Text(BoxWidth/2, 42, string(ch),
		fmt.Sprintf("fill:%s;font-family:%s;font-size:34px;font-weight:bold;text-anchor:middle", pal.Fill, pal.FontFamily))
	canvas.Gend()
	canvas.End()

	s.log.Debug("synthesized fallback glyph", "char", string(ch), "style", style)

	return &Resource{
		Source:      buf.String(),
		Width:       BoxWidth,
		Height:      BoxHeight,
		Fallback:    true,
		Synthesized: true,
	}
}
