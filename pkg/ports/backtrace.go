package ports

// Frame is one symbolic stack frame: a function name plus the offset
// of the call site within it.
type Frame struct {
	Function string
	Offset   uintptr
}

// Backtracer captures the call stack of the calling goroutine.
// Implementations should skip their own frames and the tracker's
// interception frames so the trace starts at the intercepted caller.
type Backtracer interface {
	Frames() []Frame
}
