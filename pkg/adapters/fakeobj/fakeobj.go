// Package fakeobj implements an instrumented in-memory rendition of
// the observed reference-counted object system, exposing its entry
// points through the ports.Library seam.
//
// It exists for tests and for the demo workloads of the CLI: it has
// real reference counting, weak finalize notifications fired when a
// count reaches zero, and both object kinds (the primary constructed
// kind and the lighter-weight buffer kind with in-place initialization).
package fakeobj

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/refscope/refscope/pkg/domain"
	"github.com/refscope/refscope/pkg/ports"
)

// Library names the fake answers to. They match the tracker's
// defaults, so a System can be handed to refscope.New unadorned.
const (
	PrimaryLibrary   = "libgobject-2.0.so.0"
	SecondaryLibrary = "libgstreamer-1.0.so.0"
)

// System is a fake object system. The zero value is not usable; call
// NewSystem. It implements ports.LibraryOpener for the two library
// names the tracker resolves by default.
type System struct {
	mu       sync.Mutex
	nextAddr uintptr
	live     map[domain.ObjectID]*Object

	constructs atomic.Int64
	finalizes  atomic.Int64
}

// NewSystem creates an empty fake object system.
func NewSystem() *System {
	return &System{
		nextAddr: 0x1000,
		live:     make(map[domain.ObjectID]*Object),
	}
}

// Object is a fake reference-counted instance.
type Object struct {
	sys      *System
	id       domain.ObjectID
	typeName string
	refs     atomic.Int32
	data     []byte

	// weak holds finalize notifications; guarded by sys.mu.
	weak []ports.FinalizeFunc
}

// ID implements ports.Object.
func (o *Object) ID() domain.ObjectID { return o.id }

// TypeName implements ports.Object. After finalization it returns the
// last recorded name, mirroring a best-effort read of freed memory
// that happens to still hold the old value.
func (o *Object) TypeName() string { return o.typeName }

// RefCount implements ports.Object.
func (o *Object) RefCount() uint32 {
	n := o.refs.Load()
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// Data returns the buffer payload, if any.
func (o *Object) Data() []byte { return o.data }

func (s *System) allocate(typeName string, refs int32) *Object {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj := &Object{sys: s, id: domain.ObjectID(s.nextAddr), typeName: typeName}
	obj.refs.Store(refs)
	s.nextAddr += 0x40
	if refs > 0 {
		s.live[obj.id] = obj
		s.constructs.Add(1)
	}
	return obj
}

// New is the real primary constructor: a fresh instance of the named
// type with one reference. Construction properties are accepted and
// ignored.
func (s *System) New(typeName string, _ ...any) ports.Object {
	return s.allocate(typeName, 1)
}

// Ref is the real reference acquisition.
func (s *System) Ref(obj ports.Object) ports.Object {
	o := obj.(*Object)
	o.refs.Add(1)
	return o
}

// Unref is the real reference release. Dropping the last reference
// destroys the instance synchronously: finalize notifications fire on
// the calling goroutine before Unref returns, after the system lock is
// released.
func (s *System) Unref(obj ports.Object) {
	o := obj.(*Object)
	if o.refs.Add(-1) != 0 {
		return
	}

	s.mu.Lock()
	delete(s.live, o.id)
	notify := o.weak
	o.weak = nil
	s.mu.Unlock()

	s.finalizes.Add(1)
	for _, fn := range notify {
		fn(o)
	}
}

// WeakRef registers a finalize notification without taking a reference.
func (s *System) WeakRef(obj ports.Object, fn ports.FinalizeFunc) {
	o := obj.(*Object)
	s.mu.Lock()
	o.weak = append(o.weak, fn)
	s.mu.Unlock()
}

// NewBuffer is the real plain buffer constructor.
func (s *System) NewBuffer() ports.Object {
	return s.allocate("GstBuffer", 1)
}

// NewBufferAllocate is the real allocating buffer constructor.
func (s *System) NewBufferAllocate(size int) ports.Object {
	o := s.allocate("GstBuffer", 1)
	o.data = make([]byte, size)
	return o
}

// NewBufferWrapped is the real wrapping buffer constructor.
func (s *System) NewBufferWrapped(data []byte) ports.Object {
	o := s.allocate("GstBuffer", 1)
	o.data = data
	return o
}

// AllocUninitialized hands out an instance that has not been
// initialized yet: no type, no references, not alive. Callers follow
// up with the init-in-place entry point.
func (s *System) AllocUninitialized() *Object {
	return s.allocate("", 0)
}

// InitMini is the real in-place initializer: it gives the instance its
// type and first reference and makes it live.
func (s *System) InitMini(obj ports.Object, typeName string) {
	o := obj.(*Object)
	o.typeName = typeName
	o.refs.Store(1)

	s.mu.Lock()
	s.live[o.id] = o
	s.mu.Unlock()
	s.constructs.Add(1)
}

// LiveCount reports how many instances the system itself considers
// alive. Test instrumentation; the observed system offers no such
// query, which is the reason refscope exists.
func (s *System) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Constructed reports the total number of instances ever made live.
func (s *System) Constructed() int64 { return s.constructs.Load() }

// Finalized reports the total number of instances destroyed.
func (s *System) Finalized() int64 { return s.finalizes.Load() }

// symbolTable resolves entry points by name, the dlsym shape.
type symbolTable map[string]any

func (st symbolTable) Lookup(symbol string) (any, error) {
	fn, ok := st[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, domain.ErrSymbolNotFound)
	}
	return fn, nil
}

// Open implements ports.LibraryOpener for the tracker's default
// primary and secondary library names.
func (s *System) Open(name string) (ports.Library, error) {
	switch name {
	case PrimaryLibrary:
		return symbolTable{
			"object_new":      ports.ConstructFunc(s.New),
			"object_ref":      ports.RefFunc(s.Ref),
			"object_unref":    ports.UnrefFunc(s.Unref),
			"object_weak_ref": ports.WeakRefFunc(s.WeakRef),
		}, nil
	case SecondaryLibrary:
		return symbolTable{
			"buffer_new":           ports.MiniNewFunc(s.NewBuffer),
			"buffer_new_allocate":  ports.MiniNewAllocateFunc(s.NewBufferAllocate),
			"buffer_new_wrapped":   ports.MiniNewWrappedFunc(s.NewBufferWrapped),
			"mini_object_init":     ports.MiniInitFunc(s.InitMini),
			"mini_object_ref":      ports.MiniRefFunc(s.Ref),
			"mini_object_unref":    ports.MiniUnrefFunc(s.Unref),
			"mini_object_weak_ref": ports.MiniWeakRefFunc(s.WeakRef),
		}, nil
	default:
		return nil, fmt.Errorf("%s: %w", name, domain.ErrLibraryNotFound)
	}
}
