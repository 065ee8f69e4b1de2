package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/letterpress/internal/probe"
)

// Load limits
const (
	// DefaultLoadTimeout bounds a single asset fetch
	DefaultLoadTimeout = 5 * time.Second
	// maxAssetSize caps how many bytes one asset may occupy (8MB)
	maxAssetSize = 8 << 20
)

// loadUserAgent identifies load traffic in server logs
const loadUserAgent = "letterpress/1.0"

// Fetch errors.
var (
	// ErrBadStatus flags a non-2xx response
	ErrBadStatus = errors.New("unexpected response status")
	// ErrAssetTooLarge flags an asset over the size cap
	ErrAssetTooLarge = errors.New("asset exceeds size limit")
	// ErrEmptyAsset flags a zero-byte response body
	ErrEmptyAsset = errors.New("asset body is empty")
	// ErrUndecodable flags bytes no registered image codec accepts
	ErrUndecodable = errors.New("asset is not a decodable image")
)

// Fetcher retrieves the raw bytes of a remote asset.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchConfig controls HTTP fetching.
type FetchConfig struct {
	// Root is the URL relative asset paths resolve against.
	Root string
	// Timeout bounds a single fetch; zero means DefaultLoadTimeout.
	Timeout time.Duration
}

// DefaultFetchConfig returns the default fetch configuration.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{Timeout: DefaultLoadTimeout}
}

// HTTPFetcher fetches assets over HTTP with cache-busting and a
// bounded timeout.
type HTTPFetcher struct {
	root    *url.URL
	client  *http.Client
	timeout time.Duration
	log     *log.Logger
}

// NewHTTPFetcher creates an HTTP fetcher for the given root URL.
func NewHTTPFetcher(cfg FetchConfig, logger *log.Logger) (*HTTPFetcher, error) {
	if logger == nil {
		logger = log.Default()
	}

	root, err := url.Parse(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid fetch root %q: %w", cfg.Root, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}

	return &HTTPFetcher{
		root:    root,
		client:  &http.Client{},
		timeout: timeout,
		log:     logger.With("component", "loader"),
	}, nil
}

// Fetch retrieves one asset. The candidate path resolves against the
// root the same way probe candidates do.
func (f *HTTPFetcher) Fetch(ctx context.Context, candidate string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	ref, err := url.Parse(candidate)
	if err != nil {
		return nil, fmt.Errorf("invalid asset path %q: %w", candidate, err)
	}
	target := probe.Bust(f.root.ResolveReference(ref).String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %q: %w", candidate, err)
	}
	req.Header.Set("User-Agent", loadUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", candidate, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d for %q", ErrBadStatus, resp.StatusCode, candidate)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", candidate, err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("%w: %q", ErrAssetTooLarge, candidate)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyAsset, candidate)
	}

	return data, nil
}

// CountingFetcher is a deterministic Fetcher for tests: it serves
// fixed payloads, counts fetches per URL, and can hold fetches open
// until released so in-flight coalescing is observable.
type CountingFetcher struct {
	mu       sync.Mutex
	payloads map[string][]byte
	counts   map[string]int
	gate     chan struct{}
}

// NewCountingFetcher creates an empty counting fetcher.
func NewCountingFetcher() *CountingFetcher {
	return &CountingFetcher{
		payloads: make(map[string][]byte),
		counts:   make(map[string]int),
	}
}

// SetPayload registers the bytes served for a URL.
func (cf *CountingFetcher) SetPayload(url string, data []byte) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	cf.payloads[url] = data
}

// Hold makes subsequent fetches block until Release is called.
func (cf *CountingFetcher) Hold() {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	cf.gate = make(chan struct{})
}

// Release unblocks held fetches.
func (cf *CountingFetcher) Release() {
	cf.mu.Lock()
	gate := cf.gate
	cf.gate = nil
	cf.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Fetch serves the registered payload, or an error for unknown URLs.
func (cf *CountingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	cf.mu.Lock()
	cf.counts[url]++
	data, ok := cf.payloads[url]
	gate := cf.gate
	cf.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if !ok {
		return nil, fmt.Errorf("%w: 404 for %q", ErrBadStatus, url)
	}
	return data, nil
}

// Count returns how many times url has been fetched.
func (cf *CountingFetcher) Count(url string) int {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.counts[url]
}
