package layout

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/letterpress/internal/probe"
)

// State represents where layout detection stands.
type State int32

const (
	// StateUninitialized means detection has not started.
	StateUninitialized State = iota
	// StateDetecting means a detection pass is in flight.
	StateDetecting
	// StateDetected means a working base and template were found.
	StateDetected
	// StateFallbackOnly means every combination failed and only
	// synthesized glyphs will be served.
	StateFallbackOnly
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDetecting:
		return "detecting"
	case StateDetected:
		return "detected"
	case StateFallbackOnly:
		return "fallback-only"
	default:
		return "unknown"
	}
}

// Resolved is the outcome of detection. It is assigned at most once
// per detector and immutable afterwards. Detected false means
// fallback-only mode, which is a valid terminal outcome, not an error.
type Resolved struct {
	BasePath string
	Template Template
	Detected bool
}

// Config controls the detection pass.
type Config struct {
	// City scopes city-aware templates; defaults to ProbeCity.
	City string
	// Local switches to the reduced base list.
	Local bool
	// Bases and Templates override the default candidate lists.
	Bases     []string
	Templates []Template
}

// Detector runs the one-time layout discovery. A detector probes the
// base×template cross product in fixed nested order (bases outer,
// templates inner) with the canonical instantiation, stopping at the
// first hit. Detection runs exactly once: concurrent callers during
// the pass wait for it, later callers get the stored outcome with no
// further probing.
type Detector struct {
	prober    probe.Prober
	city      string
	bases     []string
	templates []Template
	log       *log.Logger

	once     sync.Once
	state    atomic.Int32
	resolved Resolved
}

// NewDetector creates a detector over the given prober.
func NewDetector(cfg Config, prober probe.Prober, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.Default()
	}

	city := cfg.City
	if city == "" {
		city = ProbeCity
	}

	bases := cfg.Bases
	if bases == nil {
		if cfg.Local {
			bases = LocalBases()
		} else {
			bases = DefaultBases()
		}
	}

	templates := cfg.Templates
	if templates == nil {
		templates = DefaultTemplates()
	}

	return &Detector{
		prober:    prober,
		city:      city,
		bases:     bases,
		templates: templates,
		log:       logger.With("component", "layout"),
	}
}

// Resolve runs detection on first call and returns the outcome.
// Worst case the pass costs (bases × templates) sequential probes;
// every later call is a plain read.
func (d *Detector) Resolve(ctx context.Context) Resolved {
	d.once.Do(func() { d.detect(ctx) })
	return d.resolved
}

// State returns the current detection state.
func (d *Detector) State() State {
	return State(d.state.Load())
}

// Complete reports whether detection has reached a terminal state.
func (d *Detector) Complete() bool {
	s := d.State()
	return s == StateDetected || s == StateFallbackOnly
}

// Outcome returns the stored outcome without triggering detection.
// The boolean reports whether detection has completed.
func (d *Detector) Outcome() (Resolved, bool) {
	if !d.Complete() {
		return Resolved{}, false
	}
	return d.resolved, true
}

// detect probes the candidate cross product sequentially. Callers
// depend on the base-major order and the stop at the first hit.
func (d *Detector) detect(ctx context.Context) {
	d.state.Store(int32(StateDetecting))
	start := time.Now()

	vars := Vars{
		City:    d.city,
		Letter:  ProbeLetter,
		Style:   ProbeStyle,
		Variant: ProbeVariant,
	}

	attempts := 0
	for _, base := range d.bases {
		for _, tmpl := range d.templates {
			vars.Base = base
			candidate := tmpl.Expand(vars)
			attempts++

			if d.prober.Exists(ctx, candidate) {
				d.resolved = Resolved{BasePath: base, Template: tmpl, Detected: true}
				d.state.Store(int32(StateDetected))
				d.log.Info("asset layout detected",
					"base", base,
					"template", tmpl.Name,
					"attempts", attempts,
					"took", time.Since(start))
				return
			}
		}
	}

	d.resolved = Resolved{}
	d.state.Store(int32(StateFallbackOnly))
	d.log.Warn("no asset layout found, serving synthesized glyphs only",
		"attempts", attempts,
		"took", time.Since(start))
}
