package tracker

import (
	"strings"

	"github.com/refscope/refscope/pkg/domain"
)

// displayFilter reports whether the given event category is enabled.
// The category configuration is parsed from the environment exactly
// once per tracker; subsequent calls reuse the cached bitmask.
func (t *Tracker) displayFilter(flag domain.DisplayFlags) bool {
	t.displayOnce.Do(func() {
		t.displayFlags = domain.ParseDisplayFlags(t.getenv(EnvDisplay))
	})
	return t.displayFlags.Has(flag)
}

// objectFilter reports whether events for the given type name should
// be reported: true when no prefix is configured, or when the name
// begins with the configured prefix (case-sensitive byte comparison).
//
// The prefix is re-read from the environment on every call; callers
// tolerate this as a per-call cost.
func (t *Tracker) objectFilter(typeName string) bool {
	filter := t.getenv(EnvFilter)
	if filter == "" {
		return true
	}
	return strings.HasPrefix(typeName, filter)
}
