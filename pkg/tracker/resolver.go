package tracker

// Lazy symbol resolution. The primary library is opened at most once,
// double-checked under the global lock; the secondary library has an
// independent once-only guard. A library or symbol that cannot be
// resolved is fatal: without the real implementation there is nothing
// to delegate to, so the tracker reports the diagnostic and aborts.

// getFunc resolves a symbol against the primary library, opening it on
// first use. Opening the primary library also performs the tracker's
// first-use initialization.
func (t *Tracker) getFunc(symbol string) any {
	t.mu.Lock()
	if t.primary == nil {
		lib, err := t.opener.Open(t.primaryName)
		if err != nil {
			t.mu.Unlock()
			t.fatalf("failed to open %s: %v", t.primaryName, err)
			return nil
		}
		t.primary = lib
	}
	lib := t.primary
	t.mu.Unlock()

	t.initialize()

	fn, err := lib.Lookup(symbol)
	if err != nil {
		t.fatalf("failed to find symbol: %s: %v", symbol, err)
		return nil
	}
	return fn
}

// getMiniFunc resolves a symbol against the secondary library.
func (t *Tracker) getMiniFunc(symbol string) any {
	t.secondaryOnce.Do(func() {
		lib, err := t.opener.Open(t.secondaryName)
		if err != nil {
			t.fatalf("failed to open %s: %v", t.secondaryName, err)
			return
		}
		t.secondary = lib
	})
	lib := t.secondary
	if lib == nil {
		// Reachable only when the fatal handler did not abort.
		t.fatalf("%s unavailable", t.secondaryName)
		return nil
	}

	t.initialize()

	fn, err := lib.Lookup(symbol)
	if err != nil {
		t.fatalf("failed to find symbol: %s: %v", symbol, err)
		return nil
	}
	return fn
}

// initialize performs the first-use side effects exactly once: it
// allocates the registry containers, starts the signal monitor and
// scrubs the injection variable so child processes spawned later are
// not also instrumented (unless propagation is explicitly requested).
//
// Both resolution paths call it, so the registry exists no matter
// which object kind is intercepted first.
func (t *Tracker) initialize() {
	t.initOnce.Do(func() {
		t.mu.Lock()
		t.state = newRegistry()
		t.mu.Unlock()

		if t.signals {
			t.startSignalMonitor()
		}

		if t.getenv(EnvPropagate) == "" {
			t.unsetenv(envInjection)
		}

		t.logger.Debug("tracker initialized", "program", t.progName)
	})
}

// resolvePrimary resolves a primary-library symbol and asserts its
// callable type. A symbol of the wrong shape is as fatal as a missing
// one.
func resolvePrimary[T any](t *Tracker, symbol string) T {
	fn, ok := t.getFunc(symbol).(T)
	if !ok {
		t.fatalf("symbol %s has unexpected type", symbol)
	}
	return fn
}

// resolveSecondary is the secondary-library counterpart of
// resolvePrimary.
func resolveSecondary[T any](t *Tracker, symbol string) T {
	fn, ok := t.getMiniFunc(symbol).(T)
	if !ok {
		t.fatalf("symbol %s has unexpected type", symbol)
	}
	return fn
}
