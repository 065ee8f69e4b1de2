package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/dgnsrekt/letterpress/internal/layout"
	"github.com/dgnsrekt/letterpress/internal/probe"
)

// newDetectedFixture returns a catalog whose detector has one base and
// one template, with the canonical probe asset present so detection
// succeeds immediately.
func newDetectedFixture(existing ...string) (*Catalog, *probe.ScriptedProber) {
	script := probe.NewScriptedProber(append(existing,
		"assets/NYC/letters/A/sans-upper-01.png")...)

	detector := layout.NewDetector(layout.Config{
		City:  "NYC",
		Bases: []string{"assets/"},
		Templates: []layout.Template{
			{Name: "city-nested", Pattern: "{base}{city}/letters/{letter}/{style}-{variant}.png"},
		},
	}, script, nil)

	return New(DefaultConfig(), detector, script, nil), script
}

// newExhaustedFixture returns a catalog whose detector finds nothing,
// so every character is fallback-only.
func newExhaustedFixture() (*Catalog, *probe.ScriptedProber) {
	script := probe.NewScriptedProber()
	detector := layout.NewDetector(layout.Config{
		City:  "NYC",
		Bases: []string{"assets/"},
		Templates: []layout.Template{
			{Name: "city-nested", Pattern: "{base}{city}/letters/{letter}/{style}-{variant}.png"},
		},
	}, script, nil)
	return New(DefaultConfig(), detector, script, nil), script
}

func TestCatalog_LetterVariantsInIndexOrder(t *testing.T) {
	// Variants 1 and 3 exist, 2 does not; the result keeps index
	// order with the gap.
	cat, _ := newDetectedFixture(
		"assets/NYC/letters/B/sans-upper-01.png",
		"assets/NYC/letters/B/sans-upper-03.png",
	)

	variants := cat.Resolve(context.Background(), Request{Char: 'B', Style: "sans", City: "NYC"})

	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2: %+v", len(variants), variants)
	}
	if variants[0].Index != 1 || variants[1].Index != 3 {
		t.Errorf("indices = %d,%d; want 1,3", variants[0].Index, variants[1].Index)
	}
	if variants[0].URL != "assets/NYC/letters/B/sans-upper-01.png" {
		t.Errorf("URL = %q", variants[0].URL)
	}
	for _, v := range variants {
		if v.Synthetic {
			t.Errorf("variant %d flagged synthetic", v.Index)
		}
		if v.Style != "sans-upper" {
			t.Errorf("variant style = %q, want %q", v.Style, "sans-upper")
		}
		if v.Char != 'B' {
			t.Errorf("variant char = %q, want 'B'", v.Char)
		}
	}
}

func TestCatalog_LowercaseLetterFolder(t *testing.T) {
	// Lowercase letters share the uppercase letter folder but use the
	// -lower style suffix.
	cat, _ := newDetectedFixture("assets/NYC/letters/B/sans-lower-01.png")

	variants := cat.Resolve(context.Background(), Request{Char: 'b', Style: "sans", City: "NYC"})

	if len(variants) != 1 {
		t.Fatalf("got %d variants, want 1", len(variants))
	}
	if variants[0].URL != "assets/NYC/letters/B/sans-lower-01.png" {
		t.Errorf("URL = %q", variants[0].URL)
	}
	if variants[0].Style != "sans-lower" {
		t.Errorf("style = %q, want sans-lower", variants[0].Style)
	}
}

func TestCatalog_StyleFolderMapping(t *testing.T) {
	// The mono style key maps to the monospace folder on disk.
	cat, script := newDetectedFixture()

	cat.Resolve(context.Background(), Request{Char: 'C', Style: "mono", City: "NYC"})

	probed := false
	for _, call := range script.Calls() {
		if strings.Contains(call, "monospace-upper") {
			probed = true
		}
		if strings.Contains(call, "/mono-") {
			t.Errorf("probed unmapped style folder: %q", call)
		}
	}
	if !probed {
		t.Errorf("no probe used the mapped folder name; calls: %v", script.Calls())
	}
}

func TestCatalog_NoAssetsYieldsOneSyntheticVariant(t *testing.T) {
	cat, _ := newExhaustedFixture()

	variants := cat.Resolve(context.Background(), Request{Char: 'A', Style: "sans", City: "NYC"})

	if len(variants) != 1 {
		t.Fatalf("got %d variants, want exactly 1", len(variants))
	}
	v := variants[0]
	if !v.Synthetic {
		t.Error("Synthetic = false, want true")
	}
	if v.URL != "" {
		t.Errorf("synthetic variant carries URL %q", v.URL)
	}
	if v.Style != "sans-upper" {
		t.Errorf("style = %q, want sans-upper", v.Style)
	}
}

func TestCatalog_FallbackOnlySkipsVariantProbes(t *testing.T) {
	cat, script := newExhaustedFixture()

	before := len(script.Calls())
	if before != 0 {
		t.Fatalf("unexpected probes before resolution: %v", script.Calls())
	}

	cat.Resolve(context.Background(), Request{Char: 'A', Style: "sans", City: "NYC"})

	// The only traffic is the one-time detection pass (1 base × 1
	// template); no per-variant probes happen without a detected
	// layout.
	if got := len(script.Calls()); got != 1 {
		t.Errorf("probe count = %d, want 1 (detection only); calls: %v", got, script.Calls())
	}
}

func TestCatalog_SkipFallbackReturnsEmpty(t *testing.T) {
	cat, _ := newExhaustedFixture()

	variants := cat.Resolve(context.Background(), Request{
		Char: 'A', Style: "sans", City: "NYC", SkipFallback: true,
	})

	if len(variants) != 0 {
		t.Errorf("got %d variants with SkipFallback, want 0", len(variants))
	}
}

func TestCatalog_DigitsAreStyleIndependent(t *testing.T) {
	cat, _ := newDetectedFixture("assets/digits/7/02.png")

	variants := cat.Resolve(context.Background(), Request{Char: '7', Style: "script", City: "NYC"})

	if len(variants) != 1 {
		t.Fatalf("got %d variants, want 1", len(variants))
	}
	if variants[0].URL != "assets/digits/7/02.png" {
		t.Errorf("URL = %q", variants[0].URL)
	}
	if variants[0].Index != 2 {
		t.Errorf("Index = %d, want 2", variants[0].Index)
	}
	// Digits take the base style, no case suffix.
	if variants[0].Style != "script" {
		t.Errorf("style = %q, want script", variants[0].Style)
	}
}

func TestCatalog_SymbolsUseNameTable(t *testing.T) {
	cat, _ := newDetectedFixture("assets/symbols/exclamation/01.png")

	variants := cat.Resolve(context.Background(), Request{Char: '!', Style: "sans", City: "NYC"})

	if len(variants) != 1 {
		t.Fatalf("got %d variants, want 1", len(variants))
	}
	if variants[0].URL != "assets/symbols/exclamation/01.png" {
		t.Errorf("URL = %q", variants[0].URL)
	}
	if variants[0].Style != "sans" {
		t.Errorf("style = %q, want sans", variants[0].Style)
	}
}

func TestCatalog_UnknownStyleFallsBack(t *testing.T) {
	cat, script := newDetectedFixture()

	variants := cat.Resolve(context.Background(), Request{Char: 'Q', Style: "comic", City: "NYC"})

	if len(variants) != 1 || !variants[0].Synthetic {
		t.Fatalf("got %+v, want one synthetic variant", variants)
	}
	if variants[0].Style != "comic-upper" {
		t.Errorf("style = %q, want comic-upper", variants[0].Style)
	}

	// An unknown style must not generate probe traffic for the
	// character.
	for _, call := range script.Calls() {
		if strings.Contains(call, "comic") {
			t.Errorf("probed with unknown style: %q", call)
		}
	}
}

func TestCatalog_PassThroughCharacters(t *testing.T) {
	cat, script := newDetectedFixture()

	for _, ch := range []rune{' ', '.', ',', '\n'} {
		if got := cat.Resolve(context.Background(), Request{Char: ch, Style: "sans"}); got != nil {
			t.Errorf("Resolve(%q) = %+v, want nil", ch, got)
		}
	}
	if got := len(script.Calls()); got != 0 {
		t.Errorf("pass-through characters generated %d probes", got)
	}
}

func TestCatalog_MaxVariantsClamped(t *testing.T) {
	cat, script := newDetectedFixture()
	ctx := context.Background()

	// Requesting far too many candidates probes the cap, not the ask.
	cat.Resolve(ctx, Request{Char: 'D', Style: "sans", City: "NYC", MaxVariants: 99})

	countD := 0
	for _, call := range script.Calls() {
		if strings.Contains(call, "/D/") {
			countD++
		}
	}
	if countD != MaxMaxVariants {
		t.Errorf("probed %d candidates for D, want %d", countD, MaxMaxVariants)
	}

	// Zero falls back to the configured default.
	script.Reset()
	cat.Resolve(ctx, Request{Char: 'E', Style: "sans", City: "NYC"})

	countE := 0
	for _, call := range script.Calls() {
		if strings.Contains(call, "/E/") {
			countE++
		}
	}
	if countE != DefaultMaxVariants {
		t.Errorf("probed %d candidates for E, want %d", countE, DefaultMaxVariants)
	}
}

func TestCatalog_CityFlowsIntoLetterURLs(t *testing.T) {
	script := probe.NewScriptedProber("PDX/letters/A/sans-upper-01.png")
	detector := layout.NewDetector(layout.Config{
		City:  "PDX",
		Bases: []string{""},
		Templates: []layout.Template{
			{Name: "city-nested", Pattern: "{base}{city}/letters/{letter}/{style}-{variant}.png"},
		},
	}, script, nil)
	cat := New(DefaultConfig(), detector, script, nil)

	cat.Resolve(context.Background(), Request{Char: 'K', Style: "sans", City: "PDX"})

	found := false
	for _, call := range script.Calls() {
		if strings.HasPrefix(call, "PDX/letters/K/") {
			found = true
		}
	}
	if !found {
		t.Errorf("no probe scoped to the requested city; calls: %v", script.Calls())
	}
}

func TestSuggestStyle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"close miss", "serf", "serif"},
		{"prefix", "mon", "mono"},
		{"suffixed input", "sns-upper", "sans"},
		{"hopeless", "comic", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestStyle(tt.input); got != tt.want {
				t.Errorf("SuggestStyle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
