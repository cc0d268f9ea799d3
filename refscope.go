package refscope

import (
	"fmt"

	"github.com/refscope/refscope/pkg/ports"
	"github.com/refscope/refscope/pkg/tracker"
)

// Version of the refscope library.
var Version = "0.3.0"

// Tracker is the interception and bookkeeping engine. See pkg/tracker
// for the full surface.
type Tracker = tracker.Tracker

// Option configures a Tracker.
type Option = tracker.Option

// Re-exported tracker options, so library consumers only need the root
// package for common setups.
var (
	WithOutput       = tracker.WithOutput
	WithLogger       = tracker.WithLogger
	WithBacktracer   = tracker.WithBacktracer
	WithGetenv       = tracker.WithGetenv
	WithMetrics      = tracker.WithMetrics
	WithSignals      = tracker.WithSignals
	WithProgramName  = tracker.WithProgramName
	WithLibraryNames = tracker.WithLibraryNames
)

// New initializes a Tracker that resolves the real lifecycle
// implementations through opener. Nothing is resolved until the first
// intercepted call; the first resolution also installs the signal
// monitor and scrubs the injection variable from the environment.
func New(opener ports.LibraryOpener, opts ...Option) (*Tracker, error) {
	if opener == nil {
		return nil, fmt.Errorf("opener is required")
	}
	return tracker.New(opener, opts...), nil
}
