// Package doctor inspects a letterform deployment and validates
// rendering options. It answers the questions behind most support
// reports: is the asset layout findable, which styles have real
// coverage, and are the requested options even valid.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/letterpress/internal/catalog"
	"github.com/dgnsrekt/letterpress/internal/glyph"
	"github.com/dgnsrekt/letterpress/internal/layout"
	"github.com/dgnsrekt/letterpress/internal/probe"
	"github.com/dgnsrekt/letterpress/internal/typeset"
)

// Check errors.
var (
	// ErrNoLayout means no base/template combination matched.
	ErrNoLayout = errors.New("no asset layout found")
	// ErrUnknownCase flags a case mode outside the accepted set.
	ErrUnknownCase = errors.New("unknown case mode")
	// ErrVariantsOutOfRange flags a variant cap outside the bounds.
	ErrVariantsOutOfRange = errors.New("variant count out of range")
)

// Result describes what a deployment check found.
type Result struct {
	// Available is true when the deployment serves real assets.
	Available bool
	// Error holds the failure when Available is false.
	Error error
	// Guidance gives setup instructions when the check failed.
	Guidance string
	// Details carries findings keyed by name.
	Details map[string]string
}

// Config controls a deployment check.
type Config struct {
	// Root is the URL asset paths resolve against.
	Root string
	// City scopes city-aware templates.
	City string
	// Local trims detection to local-friendly base paths.
	Local bool
	// Prober overrides the HTTP prober.
	Prober probe.Prober
	// Logger receives component logs.
	Logger *log.Logger
}

// Check runs layout detection against the deployment and, when a
// layout is found, takes a per-style census of real assets.
func Check(ctx context.Context, cfg Config) *Result {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	result := &Result{Details: make(map[string]string)}

	prober := cfg.Prober
	if prober == nil {
		probeCfg := probe.DefaultConfig()
		probeCfg.Root = cfg.Root
		p, err := probe.NewHTTPProber(probeCfg, logger)
		if err != nil {
			result.Error = err
			result.Guidance = "The asset root is not a valid URL. Pass --base with a reachable http(s) root."
			return result
		}
		prober = p
	}
	memo := probe.NewMemoProber(prober)
	detector := layout.NewDetector(layout.Config{City: cfg.City, Local: cfg.Local}, memo, logger)

	resolved := detector.Resolve(ctx)
	result.Details["probes"] = fmt.Sprintf("%d", memo.Len())

	if !resolved.Detected {
		result.Error = ErrNoLayout
		result.Guidance = buildLayoutGuidance(cfg.Root)
		return result
	}

	result.Details["base"] = displayBase(resolved.BasePath)
	result.Details["template"] = resolved.Template.Name

	// Census: how many real variants back the canonical letter in
	// each style, plus the style-independent classes.
	cat := catalog.New(catalog.DefaultConfig(), detector, memo, logger)
	for _, style := range glyph.Styles() {
		variants := cat.Resolve(ctx, catalog.Request{
			Char:         'A',
			Style:        style,
			City:         cfg.City,
			SkipFallback: true,
		})
		result.Details["style:"+style] = fmt.Sprintf("%d", len(variants))
	}
	digits := cat.Resolve(ctx, catalog.Request{
		Char:         '0',
		Style:        glyph.DefaultStyle,
		City:         cfg.City,
		SkipFallback: true,
	})
	result.Details["digits"] = fmt.Sprintf("%d", len(digits))
	symbols := cat.Resolve(ctx, catalog.Request{
		Char:         '!',
		Style:        glyph.DefaultStyle,
		City:         cfg.City,
		SkipFallback: true,
	})
	result.Details["symbols"] = fmt.Sprintf("%d", len(symbols))

	result.Available = true
	return result
}

// ValidateStyle checks a style key against the palette table, with a
// fuzzy suggestion when one is close.
func ValidateStyle(style string) error {
	if glyph.KnownStyle(style) {
		return nil
	}
	if hint := catalog.SuggestStyle(style); hint != "" {
		return fmt.Errorf("%w: %q (did you mean %q?)", catalog.ErrUnknownStyle, style, hint)
	}
	return fmt.Errorf("%w: %q (known styles: %s)", catalog.ErrUnknownStyle, style, strings.Join(glyph.Styles(), ", "))
}

// ValidateCase checks a case transform mode.
func ValidateCase(mode string) error {
	for _, known := range typeset.Cases() {
		if mode == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (accepted: %s)", ErrUnknownCase, mode, strings.Join(typeset.Cases(), ", "))
}

// ValidateVariants checks a per-character variant cap. Zero is
// allowed and means the configured default.
func ValidateVariants(n int) error {
	if n == 0 {
		return nil
	}
	if n < catalog.MinMaxVariants || n > catalog.MaxMaxVariants {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrVariantsOutOfRange, n, catalog.MinMaxVariants, catalog.MaxMaxVariants)
	}
	return nil
}

// ValidateOptions aggregates the option checks the CLI runs before
// resolving.
func ValidateOptions(style, mode string, variants int) error {
	if err := ValidateStyle(style); err != nil {
		return err
	}
	if err := ValidateCase(mode); err != nil {
		return err
	}
	return ValidateVariants(variants)
}

// displayBase shows the empty base as the deployment root.
func displayBase(base string) string {
	if base == "" {
		return "(root)"
	}
	return base
}

// buildLayoutGuidance explains how to get detection to pass.
func buildLayoutGuidance(root string) string {
	target := root
	if target == "" {
		target = "the asset root"
	}
	return fmt.Sprintf(`No asset layout was found at %s. Detection looks for one
canonical file and gives up after trying every known base path and
directory template. To fix:

1. Serve the canonical probe asset at one of the known layouts, for
   example:
     assets/NYC/letters/A/sans-upper-01.png
     alphabet/A/sans-upper-01.png

2. Or point --base at the deployment that has the files:
     letterpress check --base https://letters.example.com/

3. For a local tree, serve it and probe with the reduced base list:
     letterpress serve ./assets
     letterpress check --base http://localhost:8070/ --local

Until a layout is found every character renders as a synthesized
glyph.`, target)
}
