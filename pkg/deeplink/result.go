package deeplink

import (
	"fmt"
	"strings"
)

// Result is the outcome of a single handler invocation.
type Result int

const (
	// NotHandled means the handler took no action.
	NotHandled Result = iota

	// PartiallyHandled means the handler acted but the link must remain
	// available to other handlers and to handlers registered later.
	PartiallyHandled

	// FullyHandled means the handler claims the link; no further
	// processing is needed.
	FullyHandled
)

// String returns a human-readable representation of the result.
func (r Result) String() string {
	switch r {
	case NotHandled:
		return "NotHandled"
	case PartiallyHandled:
		return "PartiallyHandled"
	case FullyHandled:
		return "FullyHandled"
	default:
		return "Unknown"
	}
}

// ParseResult converts a textual result as found in configuration files.
// Matching ignores case, underscores and dashes, and accepts the short forms
// "fully", "partially" and "not".
func ParseResult(s string) (Result, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	switch norm {
	case "fully", "fullyhandled":
		return FullyHandled, nil
	case "partially", "partiallyhandled":
		return PartiallyHandled, nil
	case "not", "nothandled":
		return NotHandled, nil
	}
	return NotHandled, fmt.Errorf("%w: %q", ErrInvalidResult, s)
}
