package catalog

import (
	"sort"
	"unicode"
)

// Class identifies the asset-naming rule for a character.
type Class int

const (
	// ClassLetter follows the detected template with case-suffixed styles.
	ClassLetter Class = iota
	// ClassDigit uses the style-independent digits folder.
	ClassDigit
	// ClassSymbol uses the style-independent symbols folder.
	ClassSymbol
	// ClassOther is not resolved at all; such characters pass through.
	ClassOther
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case ClassLetter:
		return "letter"
	case ClassDigit:
		return "digit"
	case ClassSymbol:
		return "symbol"
	default:
		return "other"
	}
}

// symbolNames maps the display symbols that ship as assets to their
// folder names. Sentence punctuation is not mapped; it passes
// through rendering untouched.
var symbolNames = map[rune]string{
	'!': "exclamation",
	'?': "question",
	'&': "ampersand",
	'@': "at",
	'#': "hash",
	'$': "dollar",
	'%': "percent",
	'+': "plus",
	'*': "asterisk",
	'=': "equals",
}

// Classify places a character into its asset class.
func Classify(ch rune) Class {
	switch {
	case unicode.IsDigit(ch):
		return ClassDigit
	case unicode.IsLetter(ch):
		return ClassLetter
	default:
		if _, ok := symbolNames[ch]; ok {
			return ClassSymbol
		}
		return ClassOther
	}
}

// SymbolName returns the asset folder name for a display symbol.
func SymbolName(ch rune) (string, bool) {
	name, ok := symbolNames[ch]
	return name, ok
}

// Symbols returns the display symbols that ship as assets, in a
// stable order.
func Symbols() []rune {
	out := make([]rune, 0, len(symbolNames))
	for ch := range symbolNames {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
