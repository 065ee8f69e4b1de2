package glyph

import "testing"

func TestBaseStyle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain style", "sans", "sans"},
		{"upper suffix", "sans-upper", "sans"},
		{"lower suffix", "serif-lower", "serif"},
		{"no double strip", "mono-upper-lower", "mono-upper"},
		{"unknown style", "comic", "comic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseStyle(tt.input); got != tt.want {
				t.Errorf("BaseStyle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWithCase(t *testing.T) {
	tests := []struct {
		name  string
		style string
		ch    rune
		want  string
	}{
		{"upper letter", "sans", 'A', "sans-upper"},
		{"lower letter", "sans", 'a', "sans-lower"},
		{"digit keeps base", "sans", '1', "sans"},
		{"symbol keeps base", "serif", '!', "serif"},
		{"existing suffix replaced", "sans-upper", 'a', "sans-lower"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithCase(tt.style, tt.ch); got != tt.want {
				t.Errorf("WithCase(%q, %q) = %q, want %q", tt.style, tt.ch, got, tt.want)
			}
		})
	}
}

func TestKnownStyle(t *testing.T) {
	for _, name := range Styles() {
		if !KnownStyle(name) {
			t.Errorf("KnownStyle(%q) = false, want true", name)
		}
		if !KnownStyle(name + "-upper") {
			t.Errorf("KnownStyle(%q) = false, want true", name+"-upper")
		}
	}

	if KnownStyle("comic") {
		t.Error("KnownStyle(\"comic\") = true, want false")
	}
}

func TestStylePalette_UnknownFallsBack(t *testing.T) {
	unknown := StylePalette("comic")
	def := StylePalette(DefaultStyle)

	if unknown != def {
		t.Errorf("unknown style palette = %+v, want default %+v", unknown, def)
	}
}

func TestPaletteFor_ClassSelection(t *testing.T) {
	digit := paletteFor('7', "sans")
	symbol := paletteFor('!', "sans")
	letter := paletteFor('A', "sans")

	// Digits and symbols ignore the style and use their class palettes.
	if digit == letter {
		t.Error("digit palette should differ from the letter palette")
	}
	if symbol == letter {
		t.Error("symbol palette should differ from the letter palette")
	}
	if digit == symbol {
		t.Error("digit and symbol palettes should be distinct")
	}

	if got := paletteFor('7', "script"); got != digit {
		t.Error("digit palette should not vary by style")
	}
}

func TestStyles_StableOrder(t *testing.T) {
	want := []string{"sans", "serif", "mono", "script", "decorative"}
	got := Styles()

	if len(got) != len(want) {
		t.Fatalf("Styles() returned %d names, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Styles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Mutating the returned slice must not affect later calls.
	got[0] = "mutated"
	if Styles()[0] != want[0] {
		t.Error("Styles() should return a copy")
	}
}
