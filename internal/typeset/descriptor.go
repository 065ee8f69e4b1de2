package typeset

import "github.com/dgnsrekt/letterpress/internal/glyph"

// Kind classifies a descriptor.
type Kind int

const (
	// KindLetter is a renderable letterform cell: a letter, digit or
	// listed symbol.
	KindLetter Kind = iota
	// KindSpace is inter-word spacing.
	KindSpace
	// KindSpecial is text that passes through without a letterform,
	// such as unlisted punctuation.
	KindSpecial
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLetter:
		return "letter"
	case KindSpace:
		return "space"
	case KindSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Descriptor is one resolved character of the transformed input.
// Letter descriptors always carry a resource; space and special
// descriptors never do.
type Descriptor struct {
	Kind     Kind
	Char     rune
	Style    string
	Resource *glyph.Resource
}

// Stats is a read-only snapshot of pipeline activity. Counters are
// monotonic for the life of the typesetter; the detection fields
// reflect the stored outcome and never trigger detection.
type Stats struct {
	Requested         int64  `json:"requested"`
	Loaded            int64  `json:"loaded"`
	Failed            int64  `json:"failed"`
	CachedHits        int64  `json:"cachedHits"`
	FallbacksCreated  int64  `json:"fallbacksCreated"`
	BasePath          string `json:"basePath"`
	ResolvedTemplate  string `json:"resolvedTemplate"`
	DetectionComplete bool   `json:"detectionComplete"`
}
