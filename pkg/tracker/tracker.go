package tracker

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/refscope/refscope/pkg/domain"
	"github.com/refscope/refscope/pkg/ports"
)

// Environment variables understood by the tracker.
const (
	// EnvDisplay selects the reported event categories
	// (comma-separated: none, create, refs, backtrace, all).
	EnvDisplay = "REFSCOPE_DISPLAY"

	// EnvFilter restricts reporting to type names with this prefix.
	EnvFilter = "REFSCOPE_FILTER"

	// EnvPropagate, when set, leaves the injection variable intact so
	// child processes are instrumented too.
	EnvPropagate = "REFSCOPE_PROPAGATE_PRELOAD"

	// envInjection is the variable scrubbed on first initialization
	// unless EnvPropagate is set.
	envInjection = "LD_PRELOAD"
)

// Default library names the resolver opens. They are opaque keys the
// LibraryOpener interprets; the defaults match the libraries the
// original interposition target loads.
const (
	DefaultPrimaryLibrary   = "libgobject-2.0.so.0"
	DefaultSecondaryLibrary = "libgstreamer-1.0.so.0"
)

// Symbols resolved against the primary library.
const (
	symObjectNew     = "object_new"
	symObjectRef     = "object_ref"
	symObjectUnref   = "object_unref"
	symObjectWeakRef = "object_weak_ref"
)

// Symbols resolved against the secondary library.
const (
	symBufferNew         = "buffer_new"
	symBufferNewAllocate = "buffer_new_allocate"
	symBufferNewWrapped  = "buffer_new_wrapped"
	symMiniObjectInit    = "mini_object_init"
	symMiniObjectRef     = "mini_object_ref"
	symMiniObjectUnref   = "mini_object_unref"
	symMiniObjectWeakRef = "mini_object_weak_ref"
)

// Tracker is the interception and bookkeeping engine. One Tracker
// observes one process-wide object system; construct it with New and
// attach it by routing the system's lifecycle entry points through the
// intercepting methods.
//
// Tracker is safe for concurrent use from any number of goroutines.
type Tracker struct {
	// mu is the global lock. It protects the registry and all lazy
	// initialization state, and is held for the full duration of every
	// registry mutation or inspection, including dumps.
	mu sync.Mutex

	// outputMu serializes formatted event output and backtraces so
	// multi-line reports from different goroutines do not interleave.
	// It is acquired after registry decisions and never held across a
	// delegated call. Lock order: mu before outputMu.
	outputMu sync.Mutex

	opener        ports.LibraryOpener
	primaryName   string
	secondaryName string

	// primary is the lazily opened primary library, guarded by mu with
	// a double-checked fast path. secondary has an independent
	// once-only guard.
	primary       ports.Library
	secondaryOnce sync.Once
	secondary     ports.Library

	// initOnce guards the first-use side effects: registry allocation,
	// signal monitor start and injection-variable scrubbing.
	initOnce sync.Once
	state    *registry

	displayOnce  sync.Once
	displayFlags domain.DisplayFlags

	out        io.Writer
	logger     *slog.Logger
	backtracer ports.Backtracer
	metrics    *metrics
	progName   string
	signals    bool

	getenv   func(string) string
	unsetenv func(string)
	fatalf   func(format string, args ...any)

	sigCh    chan os.Signal
	sigDone  chan struct{}
	exitOnce sync.Once
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithOutput sets the diagnostic stream for event lines and dumps.
// Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(t *Tracker) { t.out = w }
}

// WithLogger sets the structured logger for the tracker's own
// operational messages (initialization, resolution failures).
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// WithBacktracer sets the stack capture implementation. Passing nil
// disables the backtrace category entirely.
func WithBacktracer(b ports.Backtracer) Option {
	return func(t *Tracker) { t.backtracer = b }
}

// WithGetenv overrides how configuration variables are read.
// Defaults to os.Getenv.
func WithGetenv(fn func(string) string) Option {
	return func(t *Tracker) { t.getenv = fn }
}

// WithMetrics registers lifecycle metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(t *Tracker) { t.metrics = newMetrics(reg) }
}

// WithSignals controls whether the operator signal monitor is started
// on first initialization. Defaults to true.
func WithSignals(enabled bool) Option {
	return func(t *Tracker) { t.signals = enabled }
}

// WithProgramName sets the name printed in the still-alive report.
// Defaults to the basename of os.Args[0].
func WithProgramName(name string) Option {
	return func(t *Tracker) { t.progName = name }
}

// WithLibraryNames overrides the names the resolver opens for the
// primary and secondary object kinds.
func WithLibraryNames(primary, secondary string) Option {
	return func(t *Tracker) {
		t.primaryName = primary
		t.secondaryName = secondary
	}
}

// WithFatalHandler overrides the abort behavior on unrecoverable
// resolution failures. The default logs the diagnostic and exits the
// process; tests inject a panic to observe the failure path.
func WithFatalHandler(fn func(format string, args ...any)) Option {
	return func(t *Tracker) { t.fatalf = fn }
}

// New creates a Tracker that resolves real implementations through
// opener. Nothing is opened until the first intercepted call.
func New(opener ports.LibraryOpener, opts ...Option) *Tracker {
	t := &Tracker{
		opener:        opener,
		primaryName:   DefaultPrimaryLibrary,
		secondaryName: DefaultSecondaryLibrary,
		out:           os.Stderr,
		logger:        slog.Default(),
		backtracer:    NewRuntimeBacktracer(),
		progName:      filepath.Base(os.Args[0]),
		signals:       true,
		getenv:        os.Getenv,
		unsetenv:      func(key string) { _ = os.Unsetenv(key) },
	}
	t.fatalf = func(format string, args ...any) {
		t.logger.Error(fmt.Sprintf(format, args...))
		os.Exit(1)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Construct intercepts the primary constructor. It delegates to the
// real implementation, then tracks the new instance if it is not
// already known and the object filter accepts its type name.
// The constructor's result is returned unmodified.
func (t *Tracker) Construct(typeName string, props ...any) ports.Object {
	construct := resolvePrimary[ports.ConstructFunc](t, symObjectNew)
	weakRef := resolvePrimary[ports.WeakRefFunc](t, symObjectWeakRef)

	obj := construct(typeName, props...)
	name := obj.TypeName()

	t.mu.Lock()
	if !t.state.tracked(obj.ID()) && t.objectFilter(name) {
		if t.displayFilter(domain.DisplayCreate) {
			t.outputMu.Lock()
			t.eventf(" ++ Created object %s (%s)", name, obj.ID())
			t.printTrace()
			t.outputMu.Unlock()
		}

		weakRef(obj, t.objectFinalized)
		t.state.recordCreate(obj)
		t.metrics.objectCreated()
	}
	t.mu.Unlock()

	return obj
}

// Ref intercepts the primary reference acquisition. The pre-increment
// count is read before delegating; the read is unsynchronized with the
// real increment, a benign race accepted for display purposes only.
func (t *Tracker) Ref(obj ports.Object) ports.Object {
	ref := resolvePrimary[ports.RefFunc](t, symObjectRef)

	name := obj.TypeName()
	refCount := obj.RefCount()
	ret := ref(obj)

	if t.objectFilter(name) && t.displayFilter(domain.DisplayRefs) {
		t.outputMu.Lock()
		t.eventf(" +  Reffed object %s (%s); ref_count: %d -> %d",
			name, obj.ID(), refCount, refCount+1)
		t.printTrace()
		t.outputMu.Unlock()
	}
	t.metrics.refAcquired()

	return ret
}

// Unref intercepts the primary reference release. The event line is
// emitted before delegating: the real decrement may synchronously
// destroy the instance and fire the finalization hook before this
// method returns.
func (t *Tracker) Unref(obj ports.Object) {
	unref := resolvePrimary[ports.UnrefFunc](t, symObjectUnref)

	name := obj.TypeName()
	refCount := obj.RefCount()

	if t.objectFilter(name) && t.displayFilter(domain.DisplayRefs) {
		t.outputMu.Lock()
		t.eventf(" -  Unreffed object %s (%s); ref_count: %d -> %d",
			name, obj.ID(), refCount, refCount-1)
		t.printTrace()
		t.outputMu.Unlock()
	}
	t.metrics.refReleased()

	unref(obj)
}

// objectFinalized is the finalization hook registered on every tracked
// instance, for both object kinds. It is the sole path by which the
// registry learns of destruction, and may run on any goroutine,
// including one already inside another intercepted call.
func (t *Tracker) objectFinalized(obj ports.Object) {
	// Captured while the instance is still minimally valid.
	name := obj.TypeName()

	t.mu.Lock()
	if t.displayFilter(domain.DisplayCreate) {
		t.outputMu.Lock()
		t.eventf(" -- Finalized %s (%s)", name, obj.ID())
		t.printTrace()
		t.outputMu.Unlock()
	}

	t.state.recordDestroy(obj.ID(), name)
	t.metrics.objectFinalized()
	t.mu.Unlock()
}

// eventf writes one event line to the diagnostic stream. Callers hold
// outputMu.
func (t *Tracker) eventf(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}
