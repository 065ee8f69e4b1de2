package layout

import (
	"strings"
	"testing"
)

func TestTemplate_Expand(t *testing.T) {
	vars := Vars{
		Base:    "assets/",
		City:    "NYC",
		Letter:  "A",
		Style:   "sans-upper",
		Variant: "01",
	}

	tests := []struct {
		name     string
		template Template
		want     string
	}{
		{
			"city nested",
			Template{Name: "city-nested", Pattern: "{base}{city}/letters/{letter}/{style}-{variant}.png"},
			"assets/NYC/letters/A/sans-upper-01.png",
		},
		{
			"alphabet",
			Template{Name: "alphabet", Pattern: "{base}alphabet/{letter}/{style}-{variant}.png"},
			"assets/alphabet/A/sans-upper-01.png",
		},
		{
			"style first",
			Template{Name: "style-first", Pattern: "{base}{style}/{letter}/{variant}.png"},
			"assets/sans-upper/A/01.png",
		},
		{
			"flat",
			Template{Name: "flat", Pattern: "{base}{city}-{letter}-{style}-{variant}.png"},
			"assets/NYC-A-sans-upper-01.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.template.Expand(vars); got != tt.want {
				t.Errorf("Expand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplate_ExpandEmptyBase(t *testing.T) {
	tmpl := DefaultTemplates()[0]
	got := tmpl.Expand(Vars{
		Base:    "",
		City:    ProbeCity,
		Letter:  ProbeLetter,
		Style:   ProbeStyle,
		Variant: ProbeVariant,
	})

	want := "NYC/letters/A/sans-upper-01.png"
	if got != want {
		t.Errorf("Expand() = %q, want %q", got, want)
	}
	if strings.Contains(got, "{") {
		t.Errorf("unexpanded placeholder left in %q", got)
	}
}

func TestDefaultCandidates(t *testing.T) {
	bases := DefaultBases()
	if len(bases) == 0 || bases[0] != "" {
		t.Errorf("first base = %q, want empty root", bases[0])
	}

	local := LocalBases()
	if len(local) >= len(bases) {
		t.Errorf("local base list (%d) should be shorter than the default (%d)", len(local), len(bases))
	}

	templates := DefaultTemplates()
	wantOrder := []string{"city-nested", "alphabet", "style-first", "flat"}
	if len(templates) != len(wantOrder) {
		t.Fatalf("got %d templates, want %d", len(templates), len(wantOrder))
	}
	for i, name := range wantOrder {
		if templates[i].Name != name {
			t.Errorf("template %d = %q, want %q", i, templates[i].Name, name)
		}
	}
}
