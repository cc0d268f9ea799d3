package tracker

import (
	"fmt"
	"io"
	"slices"

	"github.com/refscope/refscope/pkg/domain"
	"github.com/refscope/refscope/pkg/ports"
)

// dumpObjects writes one line per live entry plus a trailing count.
// Entries whose instance is nil or already appears structurally dead
// (zero reference count) are skipped silently; the dump must never
// crash the observed process over a partially torn down instance.
// Callers hold the global lock.
func dumpObjects(w io.Writer, objects map[domain.ObjectID]ports.Object) {
	for _, id := range sortedIDs(objects) {
		obj := objects[id]
		if obj == nil || obj.RefCount() == 0 {
			continue
		}
		fmt.Fprintf(w, " - %s (%s): %d refs\n", obj.TypeName(), id, obj.RefCount())
	}
	fmt.Fprintf(w, "%d objects\n", len(objects))
}

func sortedIDs[V any](m map[domain.ObjectID]V) []domain.ObjectID {
	ids := make([]domain.ObjectID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// WriteLiveDump writes all currently-live tracked identities to w.
func (t *Tracker) WriteLiveDump(w io.Writer) {
	fmt.Fprintf(w, "Living Objects:\n")

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		fmt.Fprintf(w, "0 objects\n")
		return
	}
	dumpObjects(w, t.state.objects)
}

// LiveDump prints the live set to the diagnostic stream. Triggered by
// the first operator signal.
func (t *Tracker) LiveDump() {
	t.WriteLiveDump(t.out)
}

// WriteCheckpointDump writes the added set, then the removed set with
// the type names recorded at removal time, then resets the delta to
// establish a new checkpoint baseline.
func (t *Tracker) WriteCheckpointDump(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(w, "Added Objects:\n")
	if t.state == nil {
		fmt.Fprintf(w, "0 objects\n\nRemoved Objects:\n0 objects\n\nSaved new check point\n")
		return
	}
	dumpObjects(w, t.state.added)

	fmt.Fprintf(w, "\nRemoved Objects:\n")
	for _, id := range sortedIDs(t.state.removed) {
		fmt.Fprintf(w, " - %s (%s)\n", t.state.removed[id], id)
	}
	fmt.Fprintf(w, "%d objects\n", len(t.state.removed))

	t.state.checkpointReset()
	fmt.Fprintf(w, "\nSaved new check point\n")
}

// CheckpointDump prints the added/removed delta to the diagnostic
// stream and resets it. Triggered by the second operator signal.
func (t *Tracker) CheckpointDump() {
	t.WriteCheckpointDump(t.out)
}

// printStillAlive writes the exit-time report: whatever is still in
// the live set, in the same format as the live dump.
func (t *Tracker) printStillAlive() {
	fmt.Fprintf(t.out, "\nStill Alive in %s:\n", t.progName)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		fmt.Fprintf(t.out, "0 objects\n")
		return
	}
	dumpObjects(t.out, t.state.objects)
}

// Close emits the exit report once and stops the signal monitor. Go
// offers no process atexit hook, so the host arranges for Close to run
// at shutdown (typically via defer in main); the fatal-signal path
// emits the same report before re-raising.
func (t *Tracker) Close() error {
	t.exitOnce.Do(func() {
		t.printStillAlive()
		t.stopSignalMonitor()
	})
	return nil
}
