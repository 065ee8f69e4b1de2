package loader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	// Registered codecs for remote letterform assets.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/dgnsrekt/letterpress/internal/catalog"
	"github.com/dgnsrekt/letterpress/internal/glyph"
)

// Counts is a snapshot of loader activity.
type Counts struct {
	Loaded     int64
	Failed     int64
	CachedHits int64
}

// Loader resolves variants to resources. The URL cache and the
// singleflight group together enforce the load contract: at most one
// fetch in flight per URL, every caller of that URL sharing its
// outcome, and no failure ever propagating to the render path.
type Loader struct {
	fetcher Fetcher
	synth   *glyph.Synthesizer
	log     *log.Logger

	mu    sync.RWMutex
	cache map[string]*glyph.Resource
	group singleflight.Group

	loaded     int64
	failed     int64
	cachedHits int64
}

// New creates a loader over a fetcher and a synthesizer.
func New(fetcher Fetcher, synth *glyph.Synthesizer, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		fetcher: fetcher,
		synth:   synth,
		cache:   make(map[string]*glyph.Resource),
		log:     logger.With("component", "loader"),
	}
}

// Load resolves one variant to a renderable resource. Synthetic
// variants resolve immediately through the synthesizer. Remote
// variants are served from cache, joined to an in-flight load, or
// fetched; on any failure the character's fallback glyph is returned
// instead. Load never returns nil.
func (l *Loader) Load(ctx context.Context, v catalog.Variant) *glyph.Resource {
	if v.Synthetic {
		return l.synth.Synthesize(v.Char, v.Style)
	}

	l.mu.RLock()
	res, ok := l.cache[v.URL]
	l.mu.RUnlock()
	if ok {
		atomic.AddInt64(&l.cachedHits, 1)
		return res
	}

	// The group guarantees one flight per URL; late arrivals join it
	// and share the returned resource.
	out, _, _ := l.group.Do(v.URL, func() (interface{}, error) {
		return l.fetch(ctx, v), nil
	})
	return out.(*glyph.Resource)
}

// fetch performs the actual load for one URL. Failures resolve to a
// fallback resource and are never cached, so a later request may
// retry.
func (l *Loader) fetch(ctx context.Context, v catalog.Variant) *glyph.Resource {
	// A finished flight may have populated the cache while this call
	// was queued on the group.
	l.mu.RLock()
	res, ok := l.cache[v.URL]
	l.mu.RUnlock()
	if ok {
		atomic.AddInt64(&l.cachedHits, 1)
		return res
	}

	data, err := l.fetcher.Fetch(ctx, v.URL)
	if err != nil {
		return l.fail(v, err)
	}

	width, height, err := decodeSize(data)
	if err != nil {
		return l.fail(v, err)
	}

	res = &glyph.Resource{
		Source: v.URL,
		Width:  width,
		Height: height,
		Data:   data,
	}

	l.mu.Lock()
	l.cache[v.URL] = res
	l.mu.Unlock()

	atomic.AddInt64(&l.loaded, 1)
	l.log.Debug("asset loaded", "url", v.URL, "width", width, "height", height, "bytes", len(data))
	return res
}

// fail substitutes a fallback resource for a broken load.
func (l *Loader) fail(v catalog.Variant, err error) *glyph.Resource {
	atomic.AddInt64(&l.failed, 1)
	l.log.Warn("asset load failed, substituting fallback", "url", v.URL, "error", err)

	if v.Char == 0 {
		return glyph.Placeholder()
	}
	return l.synth.Synthesize(v.Char, v.Style)
}

// Cached reports how many resources the URL cache holds.
func (l *Loader) Cached() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

// Counts returns a snapshot of loader activity.
func (l *Loader) Counts() Counts {
	return Counts{
		Loaded:     atomic.LoadInt64(&l.loaded),
		Failed:     atomic.LoadInt64(&l.failed),
		CachedHits: atomic.LoadInt64(&l.cachedHits),
	}
}

// decodeSize reads the dimensions from encoded image bytes.
func decodeSize(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return cfg.Width, cfg.Height, nil
}
