package tracker

import (
	"fmt"
	"runtime"

	"github.com/refscope/refscope/pkg/domain"
	"github.com/refscope/refscope/pkg/ports"
)

// printTrace writes the current call stack to the diagnostic stream,
// one frame per line. It is a no-op unless a backtracer is configured
// and the backtrace category is enabled. Callers hold outputMu.
func (t *Tracker) printTrace() {
	if t.backtracer == nil || !t.displayFilter(domain.DisplayBacktrace) {
		return
	}
	for i, frame := range t.backtracer.Frames() {
		fmt.Fprintf(t.out, "#%d  %s + [0x%08x]\n", i, frame.Function, frame.Offset)
	}
}

// RuntimeBacktracer captures stacks with the runtime's caller
// information. It is the default Backtracer.
type RuntimeBacktracer struct {
	// Skip is the number of stack frames to drop beyond the capture
	// machinery itself, so traces start at the intercepted caller.
	Skip int
}

// NewRuntimeBacktracer returns a backtracer that skips the tracker's
// own interception frames.
func NewRuntimeBacktracer() *RuntimeBacktracer {
	return &RuntimeBacktracer{Skip: 2}
}

// Frames captures and symbolizes the calling goroutine's stack.
func (b *RuntimeBacktracer) Frames() []ports.Frame {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2+b.Skip, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	var out []ports.Frame
	for {
		frame, more := frames.Next()
		name := frame.Function
		if name == "" {
			name = "???"
		}
		var offset uintptr
		if frame.Func != nil {
			offset = frame.PC - frame.Func.Entry()
		}
		out = append(out, ports.Frame{Function: name, Offset: offset})
		if !more {
			break
		}
	}
	return out
}
