package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Probe timeout bounds
const (
	// DefaultTimeout is the per-probe timeout
	DefaultTimeout = 2 * time.Second
	// MinTimeout is the lowest allowed per-probe timeout
	MinTimeout = 1 * time.Second
	// MaxTimeout is the highest allowed per-probe timeout
	MaxTimeout = 3 * time.Second
)

// bustParam is the query parameter appended to defeat intermediary caches
const bustParam = "t"

// probeUserAgent identifies probe traffic in server logs
const probeUserAgent = "letterpress/1.0"

// Prober reports whether a URL resolves to a loadable asset. It never
// returns an error: timeouts, network failures and bad responses all
// read as false.
type Prober interface {
	Exists(ctx context.Context, url string) bool
}

// Config controls HTTP probe behavior.
type Config struct {
	// Root is the URL all relative candidate paths resolve against.
	Root string
	// Timeout bounds a single probe; clamped to [MinTimeout, MaxTimeout].
	Timeout time.Duration
	// RatePerSec caps outgoing probes per second; zero disables limiting.
	RatePerSec float64
	// Burst is the limiter burst size when limiting is enabled.
	Burst int
}

// DefaultConfig returns the default probe configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    DefaultTimeout,
		RatePerSec: 20,
		Burst:      10,
	}
}

// HTTPProber checks asset existence with GET requests. Candidate
// paths are resolved against the configured root the way a browser
// resolves references against the page URL, then a cache-busting
// parameter is appended.
type HTTPProber struct {
	root    *url.URL
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	log     *log.Logger
}

// NewHTTPProber creates an HTTP prober for the given root URL.
func NewHTTPProber(cfg Config, logger *log.Logger) (*HTTPProber, error) {
	if logger == nil {
		logger = log.Default()
	}

	root, err := url.Parse(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid probe root %q: %w", cfg.Root, err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < MinTimeout {
		timeout = MinTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	return &HTTPProber{
		root:    root,
		client:  &http.Client{},
		timeout: timeout,
		limiter: limiter,
		log:     logger.With("component", "probe"),
	}, nil
}

// Exists probes one candidate URL. Any failure reads as false.
func (p *HTTPProber) Exists(ctx context.Context, candidate string) bool {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return false
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	target := Bust(p.Resolve(candidate))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		p.log.Debug("probe request invalid", "url", candidate, "error", err)
		return false
	}
	req.Header.Set("User-Agent", probeUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("probe failed", "url", candidate, "error", err)
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	// Drain a little so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Debug("probe miss", "url", candidate, "status", resp.StatusCode)
		return false
	}

	// SPA-style hosts answer 200 with an HTML page for any path; an
	// image content type separates real assets from such responses.
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		p.log.Debug("probe hit non-image", "url", candidate, "content-type", ct)
		return false
	}

	return true
}

// Resolve joins a candidate path with the prober root. Absolute URLs
// pass through unchanged; absolute and relative paths resolve the way
// a browser would against a page URL.
func (p *HTTPProber) Resolve(candidate string) string {
	ref, err := url.Parse(candidate)
	if err != nil {
		return candidate
	}
	return p.root.ResolveReference(ref).String()
}

// Bust appends the cache-busting parameter to a URL, preserving any
// existing query values.
func Bust(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set(bustParam, strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
