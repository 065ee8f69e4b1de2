package typeset

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Case transform modes.
const (
	CaseNone  = "none"
	CaseUpper = "upper"
	CaseLower = "lower"
	CaseTitle = "title"
)

// Cases lists the accepted case transform modes.
func Cases() []string {
	return []string{CaseNone, CaseUpper, CaseLower, CaseTitle}
}

// applyCase transforms the whole input up front, so every resolution
// key derives from the transformed text. Unrecognized modes leave the
// text unchanged.
func applyCase(text, mode string) string {
	switch mode {
	case CaseUpper:
		return cases.Upper(language.Und).String(text)
	case CaseLower:
		return cases.Lower(language.Und).String(text)
	case CaseTitle:
		return cases.Title(language.Und).String(text)
	default:
		return text
	}
}
