package layout

import "strings"

// Canonical probe instantiation used during detection. One known-good
// combination is enough to identify the layout; letter A in the
// default style is the asset every deployment ships first.
const (
	ProbeLetter  = "A"
	ProbeStyle   = "sans-upper"
	ProbeCity    = "NYC"
	ProbeVariant = "01"
)

// Template is a parametrized URL pattern for letter assets.
// Recognized placeholders: {base}, {city}, {letter}, {style},
// {variant}.
type Template struct {
	Name    string
	Pattern string
}

// Vars holds the placeholder values for one expansion.
type Vars struct {
	Base    string
	City    string
	Letter  string
	Style   string
	Variant string
}

// Expand substitutes every placeholder in the template pattern.
func (t Template) Expand(v Vars) string {
	r := strings.NewReplacer(
		"{base}", v.Base,
		"{city}", v.City,
		"{letter}", v.Letter,
		"{style}", v.Style,
		"{variant}", v.Variant,
	)
	return r.Replace(t.Pattern)
}

// DefaultTemplates returns the candidate templates in priority order:
// city-scoped nested folders, a flat alphabet folder, style-first
// folders, and a flat filename encoding.
func DefaultTemplates() []Template {
	return []Template{
		{Name: "city-nested", Pattern: "{base}{city}/letters/{letter}/{style}-{variant}.png"},
		{Name: "alphabet", Pattern: "{base}alphabet/{letter}/{style}-{variant}.png"},
		{Name: "style-first", Pattern: "{base}{style}/{letter}/{variant}.png"},
		{Name: "flat", Pattern: "{base}{city}-{letter}-{style}-{variant}.png"},
	}
}

// DefaultBases returns the candidate base paths in probe order.
func DefaultBases() []string {
	return []string{"", "assets/", "/assets/", "./assets/", "images/", "fonts/", "letters/"}
}

// LocalBases returns the reduced candidate list used for local
// deployments, where the layout is close at hand and extra probing is
// just noise.
func LocalBases() []string {
	return []string{"", "assets/"}
}
