package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/dgnsrekt/letterpress/internal/glyph"
	"github.com/dgnsrekt/letterpress/internal/layout"
	"github.com/dgnsrekt/letterpress/internal/probe"
)

// Variant count bounds
const (
	// DefaultMaxVariants is how many numbered candidates are probed
	// per character by default
	DefaultMaxVariants = 3
	// MinMaxVariants is the lowest allowed candidate count
	MinMaxVariants = 1
	// MaxMaxVariants is the highest allowed candidate count
	MaxMaxVariants = 8
)

// Catalog errors.
var (
	// ErrUnknownStyle flags a style key missing from the palette table.
	ErrUnknownStyle = errors.New("unknown style key")
)

// Variant is one candidate asset for a character. Real variants carry
// the URL they were probed at and their 1-based index; synthetic
// variants carry no URL and are rendered by the synthesizer at load
// time. The Synthetic flag, not a URL convention, is what separates
// the two.
type Variant struct {
	URL       string
	Char      rune
	Style     string
	Index     int
	Synthetic bool
}

// Request asks for the variants of one character.
type Request struct {
	Char  rune
	Style string
	City  string
	// MaxVariants caps the numbered candidates; zero means the
	// configured default.
	MaxVariants int
	// SkipFallback returns an empty set instead of a synthetic
	// variant when nothing real exists. Style discovery uses this to
	// tell real assets from synthesized ones.
	SkipFallback bool
}

// Config controls variant expansion.
type Config struct {
	// MaxVariants is the default candidate count per character.
	MaxVariants int
}

// DefaultConfig returns the default catalog configuration.
func DefaultConfig() Config {
	return Config{MaxVariants: DefaultMaxVariants}
}

// Catalog builds and probes candidate URLs for characters. All error
// conditions are absorbed here: the catalog logs and falls back, it
// never fails a character outward.
type Catalog struct {
	detector *layout.Detector
	prober   probe.Prober
	cfg      Config
	log      *log.Logger
}

// New creates a catalog over a detector and a prober.
func New(cfg Config, detector *layout.Detector, prober probe.Prober, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxVariants == 0 {
		cfg.MaxVariants = DefaultMaxVariants
	}
	return &Catalog{
		detector: detector,
		prober:   prober,
		cfg:      cfg,
		log:      logger.With("component", "catalog"),
	}
}

// Resolve expands a character into its existing variants, in index
// order with gaps permitted. An empty result means the character
// passes through (ClassOther) or, with SkipFallback set, that nothing
// real exists. Otherwise a character with no real assets yields
// exactly one synthetic variant.
func (c *Catalog) Resolve(ctx context.Context, req Request) []Variant {
	class := Classify(req.Char)
	if class == ClassOther {
		return nil
	}

	if req.City == "" {
		req.City = layout.ProbeCity
	}
	maxVariants := clampVariants(req.MaxVariants, c.cfg.MaxVariants)

	// Letters need a recognized style; digits and symbols are
	// style-independent.
	if class == ClassLetter && !glyph.KnownStyle(req.Style) {
		c.logUnknownStyle(req)
		if req.SkipFallback {
			return nil
		}
		return []Variant{c.synthetic(req)}
	}

	// First resolution triggers detection; afterwards this is a read.
	resolved := c.detector.Resolve(ctx)

	var existing []Variant
	if resolved.Detected {
		candidates := c.candidates(class, req, resolved, maxVariants)
		existing = c.probeAll(ctx, candidates, req)
	}

	if len(existing) > 0 {
		return existing
	}
	if req.SkipFallback {
		return nil
	}
	return []Variant{c.synthetic(req)}
}

// candidates builds the numbered URL list for one character.
func (c *Catalog) candidates(class Class, req Request, resolved layout.Resolved, maxVariants int) []string {
	urls := make([]string, 0, maxVariants)

	switch class {
	case ClassDigit:
		for i := 1; i <= maxVariants; i++ {
			urls = append(urls, fmt.Sprintf("%sdigits/%c/%02d.png", resolved.BasePath, req.Char, i))
		}

	case ClassSymbol:
		name, _ := SymbolName(req.Char)
		for i := 1; i <= maxVariants; i++ {
			urls = append(urls, fmt.Sprintf("%ssymbols/%s/%02d.png", resolved.BasePath, name, i))
		}

	case ClassLetter:
		folder := styleFolder(req.Style) + caseSuffix(req.Char)
		letter := strings.ToUpper(string(req.Char))
		for i := 1; i <= maxVariants; i++ {
			urls = append(urls, resolved.Template.Expand(layout.Vars{
				Base:    resolved.BasePath,
				City:    req.City,
				Letter:  letter,
				Style:   folder,
				Variant: fmt.Sprintf("%02d", i),
			}))
		}
	}

	return urls
}

// probeAll probes every candidate concurrently and keeps the existing
// subset in index order.
func (c *Catalog) probeAll(ctx context.Context, urls []string, req Request) []Variant {
	if len(urls) == 0 {
		return nil
	}

	found := make([]bool, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u // per-iteration copies: go directive is below 1.22
		g.Go(func() error {
			found[i] = c.prober.Exists(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	style := glyph.WithCase(req.Style, req.Char)
	var out []Variant
	for i, u := range urls {
		if found[i] {
			out = append(out, Variant{
				URL:   u,
				Char:  req.Char,
				Style: style,
				Index: i + 1,
			})
		}
	}
	return out
}

// synthetic builds the single fallback variant for a character.
// Letters keep their case suffix; digits and symbols use the base
// style.
func (c *Catalog) synthetic(req Request) Variant {
	return Variant{
		Char:      req.Char,
		Style:     glyph.WithCase(req.Style, req.Char),
		Synthetic: true,
	}
}

// logUnknownStyle reports a style configuration error, with a fuzzy
// suggestion when one is close enough to be useful.
func (c *Catalog) logUnknownStyle(req Request) {
	keyvals := []interface{}{
		"style", req.Style,
		"char", string(req.Char),
		"error", ErrUnknownStyle,
	}
	if hint := SuggestStyle(req.Style); hint != "" {
		keyvals = append(keyvals, "did_you_mean", hint)
	}
	c.log.Error("falling back to synthesized glyph", keyvals...)
}

// SuggestStyle returns the closest known style name for a
// misspelled key, or empty when nothing matches.
func SuggestStyle(input string) string {
	matches := fuzzy.Find(glyph.BaseStyle(input), glyph.Styles())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// styleFolders maps public style keys to their on-disk folder names.
var styleFolders = map[string]string{
	"sans":       "sans",
	"serif":      "serif",
	"mono":       "monospace",
	"script":     "script",
	"decorative": "deco",
}

// styleFolder maps a style key to its folder name, tolerating case
// suffixes on the input.
func styleFolder(style string) string {
	base := glyph.BaseStyle(style)
	if folder, ok := styleFolders[base]; ok {
		return folder
	}
	return base
}

// caseSuffix derives the upper/lower folder suffix from a letter.
func caseSuffix(ch rune) string {
	if unicode.IsUpper(ch) {
		return "-upper"
	}
	return "-lower"
}

// clampVariants bounds a requested candidate count.
func clampVariants(requested, fallback int) int {
	n := requested
	if n == 0 {
		n = fallback
	}
	if n < MinMaxVariants {
		n = MinMaxVariants
	}
	if n > MaxMaxVariants {
		n = MaxMaxVariants
	}
	return n
}
