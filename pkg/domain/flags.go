package domain

import "strings"

// DisplayFlags is a bitmask of event categories the tracker reports.
type DisplayFlags uint

const (
	// DisplayNone disables all event reporting.
	DisplayNone DisplayFlags = 0
	// DisplayCreate reports object creation and finalization.
	DisplayCreate DisplayFlags = 1
	// DisplayRefs reports reference count transitions.
	DisplayRefs DisplayFlags = 1 << 2
	// DisplayBacktrace appends a symbolic stack trace to each event.
	DisplayBacktrace DisplayFlags = 1 << 3
	// DisplayAll enables every category.
	DisplayAll = DisplayCreate | DisplayRefs | DisplayBacktrace
	// DisplayDefault is the configuration used when nothing is set.
	DisplayDefault = DisplayCreate
)

var displayFlagNames = map[string]DisplayFlags{
	"none":      DisplayNone,
	"create":    DisplayCreate,
	"refs":      DisplayRefs,
	"backtrace": DisplayBacktrace,
	"all":       DisplayAll,
}

// ParseDisplayFlags parses a comma-separated category list.
//
// An empty string yields DisplayDefault. A non-empty string replaces
// the default entirely: only the recognized tokens are enabled.
// Tokens are case-insensitive; unrecognized tokens are ignored.
func ParseDisplayFlags(s string) DisplayFlags {
	if s == "" {
		return DisplayDefault
	}

	flags := DisplayNone
	for _, token := range strings.Split(s, ",") {
		if f, ok := displayFlagNames[strings.ToLower(strings.TrimSpace(token))]; ok {
			flags |= f
		}
	}
	return flags
}

// Has reports whether every bit of f is enabled in d.
func (d DisplayFlags) Has(f DisplayFlags) bool {
	return d&f == f
}
