package typeset

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/dgnsrekt/letterpress/internal/catalog"
	"github.com/dgnsrekt/letterpress/internal/glyph"
	"github.com/dgnsrekt/letterpress/internal/layout"
	"github.com/dgnsrekt/letterpress/internal/loader"
	"github.com/dgnsrekt/letterpress/internal/probe"
)

// DefaultConcurrency bounds how many characters resolve at once.
const DefaultConcurrency = 8

// Options adjust one ResolveText call. Zero-value fields fall back to
// the typesetter's configuration.
type Options struct {
	// Style is the letter style key.
	Style string
	// City names the asset collection.
	City string
	// Case is applied to the whole input before resolution: one of
	// none, upper, lower, title.
	Case string
	// MaxVariants caps probed candidates per character.
	MaxVariants int
	// RandomStyle picks a style per letter, preferring styles with
	// real assets over synthesis.
	RandomStyle bool
}

// withDefaults fills empty options from the typesetter configuration.
func (o Options) withDefaults(cfg Config) Options {
	if o.Style == "" {
		o.Style = cfg.Style
	}
	if o.City == "" {
		o.City = cfg.City
	}
	if o.MaxVariants == 0 {
		o.MaxVariants = cfg.MaxVariants
	}
	return o
}

// Config assembles a typesetter.
type Config struct {
	// Root is the URL asset paths resolve against.
	Root string
	// City is the default asset collection.
	City string
	// Style is the default letter style.
	Style string
	// MaxVariants is the default candidate cap per character.
	MaxVariants int
	// Local trims layout detection to local-friendly base paths.
	Local bool
	// Concurrency bounds per-character fan-out; zero means
	// DefaultConcurrency.
	Concurrency int

	// Prober answers existence checks; nil builds an HTTP prober
	// over Root.
	Prober probe.Prober
	// Fetcher retrieves asset bytes; nil builds an HTTP fetcher over
	// Root.
	Fetcher loader.Fetcher
	// Rand drives variant and style picks; nil seeds from the clock.
	Rand *rand.Rand
	// Logger is the parent logger for every component.
	Logger *log.Logger
}

// DefaultConfig returns the default typesetter configuration.
func DefaultConfig() Config {
	return Config{
		City:        layout.ProbeCity,
		Style:       glyph.DefaultStyle,
		MaxVariants: catalog.DefaultMaxVariants,
		Concurrency: DefaultConcurrency,
	}
}

// Typesetter is the long-lived pipeline object. Everything learned
// while resolving, the detected layout, probe answers, loaded assets
// and rendered fallbacks, is held here and reused across calls.
type Typesetter struct {
	cfg      Config
	detector *layout.Detector
	catalog  *catalog.Catalog
	loader   *loader.Loader
	synth    *glyph.Synthesizer
	log      *log.Logger

	randMu sync.Mutex
	rand   *rand.Rand

	requested int64
}

// New creates a typesetter from cfg.
func New(cfg Config) (*Typesetter, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	if cfg.City == "" {
		cfg.City = layout.ProbeCity
	}
	if cfg.Style == "" {
		cfg.Style = glyph.DefaultStyle
	}
	if cfg.MaxVariants == 0 {
		cfg.MaxVariants = catalog.DefaultMaxVariants
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	prober := cfg.Prober
	if prober == nil {
		probeCfg := probe.DefaultConfig()
		probeCfg.Root = cfg.Root
		p, err := probe.NewHTTPProber(probeCfg, logger)
		if err != nil {
			return nil, err
		}
		prober = p
	}
	// The memo sits above whichever prober is in play, so detection
	// answers are reused by catalog probes and vice versa.
	memo := probe.NewMemoProber(prober)

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetchCfg := loader.DefaultFetchConfig()
		fetchCfg.Root = cfg.Root
		f, err := loader.NewHTTPFetcher(fetchCfg, logger)
		if err != nil {
			return nil, err
		}
		fetcher = f
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	synth := glyph.NewSynthesizer(logger)
	detector := layout.NewDetector(layout.Config{City: cfg.City, Local: cfg.Local}, memo, logger)

	return &Typesetter{
		cfg:      cfg,
		detector: detector,
		catalog:  catalog.New(catalog.Config{MaxVariants: cfg.MaxVariants}, detector, memo, logger),
		loader:   loader.New(fetcher, synth, logger),
		synth:    synth,
		log:      logger.With("component", "typeset"),
		rand:     rng,
	}, nil
}

// ResolveText resolves text into one descriptor per character of the
// case-transformed input, in input order. It never fails: characters
// whose assets are missing or broken resolve to synthesized
// fallbacks, and characters outside the letterform repertoire pass
// through.
func (t *Typesetter) ResolveText(ctx context.Context, text string, opts Options) []Descriptor {
	opts = opts.withDefaults(t.cfg)
	runes := []rune(applyCase(text, opts.Case))
	out := make([]Descriptor, len(runes))

	// Results are keyed by position, so concurrent resolution cannot
	// disturb input order.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Concurrency)
	for i, ch := range runes {
		i, ch := i, ch // per-iteration copies: go directive is below 1.22
		g.Go(func() error {
			out[i] = t.resolveChar(gctx, ch, opts)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// resolveChar resolves a single character of the transformed input.
func (t *Typesetter) resolveChar(ctx context.Context, ch rune, opts Options) Descriptor {
	if unicode.IsSpace(ch) {
		return Descriptor{Kind: KindSpace, Char: ch}
	}
	if catalog.Classify(ch) == catalog.ClassOther {
		return Descriptor{Kind: KindSpecial, Char: ch}
	}

	atomic.AddInt64(&t.requested, 1)

	if opts.RandomStyle {
		return t.resolveRandomStyle(ctx, ch, opts)
	}

	variants := t.catalog.Resolve(ctx, catalog.Request{
		Char:        ch,
		Style:       opts.Style,
		City:        opts.City,
		MaxVariants: opts.MaxVariants,
	})
	return t.materialize(ctx, ch, variants)
}

// resolveRandomStyle tries styles in randomized order and keeps the
// first with a real backing asset. Synthesis only happens when no
// style has real assets, in a random style.
func (t *Typesetter) resolveRandomStyle(ctx context.Context, ch rune, opts Options) Descriptor {
	styles := glyph.Styles()
	t.shuffle(styles)

	for _, style := range styles {
		variants := t.catalog.Resolve(ctx, catalog.Request{
			Char:         ch,
			Style:        style,
			City:         opts.City,
			MaxVariants:  opts.MaxVariants,
			SkipFallback: true,
		})
		if len(variants) > 0 {
			return t.materialize(ctx, ch, variants)
		}
	}

	style := glyph.WithCase(styles[0], ch)
	return Descriptor{
		Kind:     KindLetter,
		Char:     ch,
		Style:    style,
		Resource: t.loader.Load(ctx, catalog.Variant{Char: ch, Style: style, Synthetic: true}),
	}
}

// materialize picks one variant uniformly and loads it.
func (t *Typesetter) materialize(ctx context.Context, ch rune, variants []catalog.Variant) Descriptor {
	if len(variants) == 0 {
		// The catalog always falls back for letterform classes, so an
		// empty set here means the character cannot be drawn at all.
		return Descriptor{Kind: KindSpecial, Char: ch}
	}

	v := variants[t.pick(len(variants))]
	return Descriptor{
		Kind:     KindLetter,
		Char:     ch,
		Style:    v.Style,
		Resource: t.loader.Load(ctx, v),
	}
}

// pick returns a uniform index below n. The shared rand is guarded
// because characters resolve concurrently.
func (t *Typesetter) pick(n int) int {
	t.randMu.Lock()
	defer t.randMu.Unlock()
	return t.rand.Intn(n)
}

// shuffle permutes items in place under the rand lock.
func (t *Typesetter) shuffle(items []string) {
	t.randMu.Lock()
	defer t.randMu.Unlock()
	t.rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// Stats returns a snapshot of pipeline activity. It reads the stored
// detection outcome and never triggers a detection pass itself.
func (t *Typesetter) Stats() Stats {
	counts := t.loader.Counts()
	snap := Stats{
		Requested:        atomic.LoadInt64(&t.requested),
		Loaded:           counts.Loaded,
		Failed:           counts.Failed,
		CachedHits:       counts.CachedHits,
		FallbacksCreated: t.synth.Created(),
	}
	if resolved, ok := t.detector.Outcome(); ok {
		snap.DetectionComplete = true
		snap.BasePath = resolved.BasePath
		snap.ResolvedTemplate = resolved.Template.Name
	}
	return snap
}
