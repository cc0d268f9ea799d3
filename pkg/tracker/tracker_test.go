package tracker

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refscope/refscope/internal/logging"
	"github.com/refscope/refscope/pkg/adapters/fakeobj"
)

func newTestTracker(sys *fakeobj.System, env map[string]string, out io.Writer) *Tracker {
	if out == nil {
		out = io.Discard
	}
	return New(sys,
		WithOutput(out),
		WithLogger(logging.NewNop()),
		WithSignals(false),
		WithGetenv(mapEnv(env)),
		WithFatalHandler(fatalAsPanic),
		WithProgramName("tracker.test"),
	)
}

// liveCount reads the tracked live-set size under the global lock.
func liveCount(tr *Tracker) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.state == nil {
		return 0
	}
	return len(tr.state.objects)
}

func TestTracker_LiveSetFollowsLifecycle(t *testing.T) {
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, nil, nil)

	a := tr.Construct("GObject")
	b := tr.Construct("GstElement")
	assert.Equal(t, 2, liveCount(tr))

	// A ref/unref pair does not change the live set.
	tr.Ref(a)
	tr.Unref(a)
	assert.Equal(t, 2, liveCount(tr))

	// Dropping the last reference finalizes and untracks.
	tr.Unref(a)
	assert.Equal(t, 1, liveCount(tr))
	assert.Equal(t, 1, sys.LiveCount())

	tr.Unref(b)
	assert.Equal(t, 0, liveCount(tr))
	assert.Equal(t, 0, sys.LiveCount())
}

func TestTracker_ReturnsDelegateResultUnchanged(t *testing.T) {
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, nil, nil)

	obj := tr.Construct("GObject")
	require.NotNil(t, obj)
	assert.Equal(t, "GObject", obj.TypeName())
	assert.Equal(t, uint32(1), obj.RefCount())

	same := tr.Ref(obj)
	assert.Same(t, obj, same)
	assert.Equal(t, uint32(2), obj.RefCount())
}

func TestTracker_ObjectFilterSkipsTracking(t *testing.T) {
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, map[string]string{EnvFilter: "Gst"}, nil)

	rejected := tr.Construct("GObject")
	accepted := tr.Construct("GstBuffer")

	assert.Equal(t, 1, liveCount(tr))

	// The real system still created both; filtering only affects
	// tracking and reporting, never the delegated call.
	assert.Equal(t, 2, sys.LiveCount())
	assert.NotNil(t, rejected)
	assert.NotNil(t, accepted)
}

func TestTracker_CreateEventLine(t *testing.T) {
	var out bytes.Buffer
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, nil, &out)

	obj := tr.Construct("GObject")
	tr.Unref(obj)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, fmt.Sprintf(" ++ Created object GObject (%s)", obj.ID()), lines[0])
	assert.Equal(t, fmt.Sprintf(" -- Finalized GObject (%s)", obj.ID()), lines[1])
}

func TestTracker_RefEventLinesNeedRefsCategory(t *testing.T) {
	var out bytes.Buffer
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, map[string]string{EnvDisplay: "refs"}, &out)

	obj := tr.Construct("GObject")
	tr.Ref(obj)
	tr.Unref(obj)

	got := out.String()
	// Creation events are disabled by the exhaustive "refs" config.
	assert.NotContains(t, got, "Created")
	assert.Contains(t, got,
		fmt.Sprintf(" +  Reffed object GObject (%s); ref_count: 1 -> 2", obj.ID()))
	assert.Contains(t, got,
		fmt.Sprintf(" -  Unreffed object GObject (%s); ref_count: 2 -> 1", obj.ID()))
}

func TestTracker_BacktraceFollowsEvent(t *testing.T) {
	var out bytes.Buffer
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, map[string]string{EnvDisplay: "create,backtrace"}, &out)

	tr.Construct("GObject")

	lines := strings.Split(out.String(), "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], " ++ Created object GObject"))
	assert.True(t, strings.HasPrefix(lines[1], "#0  "), "expected a stack frame, got %q", lines[1])
	assert.Contains(t, lines[1], " + [0x")
}

func TestTracker_NoBacktracerDisablesCategory(t *testing.T) {
	var out bytes.Buffer
	sys := fakeobj.NewSystem()
	tr := New(sys,
		WithOutput(&out),
		WithLogger(logging.NewNop()),
		WithSignals(false),
		WithGetenv(mapEnv(map[string]string{EnvDisplay: "all"})),
		WithBacktracer(nil),
	)

	tr.Construct("GObject")

	assert.NotContains(t, out.String(), "#0")
}

func TestTracker_MiniObjectConstructorsFunnel(t *testing.T) {
	var out bytes.Buffer
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, nil, &out)

	b1 := tr.NewBuffer()
	b2 := tr.NewBufferAllocate(64)
	b3 := tr.NewBufferWrapped([]byte("payload"))

	assert.Equal(t, 3, liveCount(tr))
	assert.Equal(t, 3, strings.Count(out.String(), " ++ Created GstBuffer"))

	tr.MiniUnref(b1)
	tr.MiniUnref(b2)
	tr.MiniUnref(b3)
	assert.Equal(t, 0, liveCount(tr))
	assert.Equal(t, 0, sys.LiveCount())
}

func TestTracker_InitMiniObjectTracksInPlace(t *testing.T) {
	var out bytes.Buffer
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, nil, &out)

	obj := sys.AllocUninitialized()
	tr.InitMiniObject(obj, "GstEvent")

	assert.Equal(t, "GstEvent", obj.TypeName())
	assert.Equal(t, uint32(1), obj.RefCount())
	assert.Equal(t, 1, liveCount(tr))
	assert.Contains(t, out.String(), fmt.Sprintf(" ++ Created GstEvent (%s)", obj.ID()))

	tr.MiniUnref(obj)
	assert.Equal(t, 0, liveCount(tr))
}

func TestTracker_MiniRefUnrefLines(t *testing.T) {
	var out bytes.Buffer
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, map[string]string{EnvDisplay: "refs"}, &out)

	buf := tr.NewBuffer()
	tr.MiniRef(buf)
	tr.MiniUnref(buf)

	got := out.String()
	assert.Contains(t, got,
		fmt.Sprintf(" +  Reffed GstBuffer (%s); ref_count: 1 -> 2", buf.ID()))
	assert.Contains(t, got,
		fmt.Sprintf(" -  Unreffed GstBuffer (%s); ref_count: 2 -> 1", buf.ID()))
}

func TestTracker_ConcurrentLifecycleKeepsRegistryConsistent(t *testing.T) {
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, nil, nil)

	const (
		workers   = 8
		perWorker = 200
		kept      = 3 // instances each worker leaves alive
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				obj := tr.Construct("GObject")
				if i >= kept {
					tr.Ref(obj)
					tr.Unref(obj)
					tr.Unref(obj)
				}
			}
			for i := 0; i < perWorker/2; i++ {
				tr.MiniUnref(tr.NewBuffer())
			}
		}()
	}
	wg.Wait()

	// Everything not deliberately kept alive was finalized; the
	// tracked live set must agree exactly with the system's.
	assert.Equal(t, workers*kept, liveCount(tr))
	assert.Equal(t, workers*kept, sys.LiveCount())
}

func TestTracker_FinalizeFromAnotherGoroutine(t *testing.T) {
	sys := fakeobj.NewSystem()
	tr := newTestTracker(sys, nil, nil)

	obj := tr.Construct("GObject")

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Last reference dropped on a different goroutine than the
		// one that constructed; the weak notify must still land.
		tr.Unref(obj)
	}()
	<-done

	assert.Equal(t, 0, liveCount(tr))
}
