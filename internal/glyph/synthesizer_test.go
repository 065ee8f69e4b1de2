package glyph

import (
	"strings"
	"sync"
	"testing"
)

func TestSynthesizer_ResourceShape(t *testing.T) {
	s := NewSynthesizer(nil)

	res := s.Synthesize('A', "sans-upper")

	if res.Width != BoxWidth || res.Height != BoxHeight {
		t.Errorf("box = %dx%d, want %dx%d", res.Width, res.Height, BoxWidth, BoxHeight)
	}
	if !res.Fallback {
		t.Error("Fallback = false, want true")
	}
	if !res.Synthesized {
		t.Error("Synthesized = false, want true")
	}
	if !strings.Contains(res.Source, "<svg") || !strings.Contains(res.Source, "</svg>") {
		t.Errorf("Source is not an SVG document: %q", res.Source)
	}
	if !strings.Contains(res.Source, ">A</text>") {
		t.Errorf("Source does not draw the character: %q", res.Source)
	}
}

func TestSynthesizer_IdenticalAcrossCalls(t *testing.T) {
	s := NewSynthesizer(nil)

	first := s.Synthesize('A', "sans-upper")
	second := s.Synthesize('A', "sans-upper")

	if first != second {
		t.Error("repeated synthesis returned a different resource")
	}
	if got := s.Created(); got != 1 {
		t.Errorf("Created() = %d, want 1", got)
	}
}

func TestSynthesizer_DistinctKeys(t *testing.T) {
	s := NewSynthesizer(nil)

	a := s.Synthesize('A', "sans-upper")
	b := s.Synthesize('A', "serif-upper")
	c := s.Synthesize('B', "sans-upper")

	if a == b || a == c {
		t.Error("different keys should synthesize different resources")
	}
	if got := s.Created(); got != 3 {
		t.Errorf("Created() = %d, want 3", got)
	}
}

func TestSynthesizer_UnknownStyleUsesDefaultPalette(t *testing.T) {
	s := NewSynthesizer(nil)

	res := s.Synthesize('Q', "comic-upper")

	def := StylePalette(DefaultStyle)
	if !strings.Contains(res.Source, def.Background) {
		t.Errorf("unknown style should draw with the default palette, got %q", res.Source)
	}
}

func TestSynthesizer_ClassPalettes(t *testing.T) {
	s := NewSynthesizer(nil)

	digit := s.Synthesize('7', "sans")
	letter := s.Synthesize('G', "sans")

	if digit.Source == letter.Source {
		t.Error("digit and letter glyphs should use different palettes")
	}
}

func TestSynthesizer_ConcurrentSameKey(t *testing.T) {
	s := NewSynthesizer(nil)

	const workers = 16
	results := make([]*Resource, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Synthesize('Z', "mono-upper")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d received a different resource", i)
		}
	}
}
