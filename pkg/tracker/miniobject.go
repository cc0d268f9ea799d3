package tracker

// Interception of the secondary, lighter-weight reference-counted kind
// used by the media extension of the observed system. Three
// construction entry points funnel through one shared new-instance
// handler; an initialize-in-place entry point performs the same
// bookkeeping inline for instances that are not freshly constructed.

import (
	"github.com/refscope/refscope/pkg/domain"
	"github.com/refscope/refscope/pkg/ports"
)

// newMiniObject performs the shared create-time bookkeeping for a
// freshly constructed mini object and returns it unchanged.
func (t *Tracker) newMiniObject(obj ports.Object) ports.Object {
	weakRef := resolveSecondary[ports.MiniWeakRefFunc](t, symMiniObjectWeakRef)
	name := obj.TypeName()

	t.mu.Lock()
	if t.displayFilter(domain.DisplayCreate) && t.objectFilter(name) {
		t.outputMu.Lock()
		t.eventf(" ++ Created %s (%s)", name, obj.ID())
		t.printTrace()
		t.outputMu.Unlock()
	}

	weakRef(obj, t.objectFinalized)
	t.state.recordCreate(obj)
	t.metrics.objectCreated()
	t.mu.Unlock()

	return obj
}

// NewBuffer intercepts the plain buffer constructor.
func (t *Tracker) NewBuffer() ports.Object {
	newBuffer := resolveSecondary[ports.MiniNewFunc](t, symBufferNew)
	return t.newMiniObject(newBuffer())
}

// NewBufferAllocate intercepts the allocating buffer constructor.
func (t *Tracker) NewBufferAllocate(size int) ports.Object {
	newAllocate := resolveSecondary[ports.MiniNewAllocateFunc](t, symBufferNewAllocate)
	return t.newMiniObject(newAllocate(size))
}

// NewBufferWrapped intercepts the wrapping buffer constructor.
func (t *Tracker) NewBufferWrapped(data []byte) ports.Object {
	newWrapped := resolveSecondary[ports.MiniNewWrappedFunc](t, symBufferNewWrapped)
	return t.newMiniObject(newWrapped(data))
}

// InitMiniObject intercepts in-place initialization: the instance is
// not freshly constructed, so the create-time bookkeeping happens
// inline before delegating to the real initializer. The type name is
// taken from the initializer's arguments since the instance carries no
// valid type until the delegate runs.
func (t *Tracker) InitMiniObject(obj ports.Object, typeName string) {
	initObject := resolveSecondary[ports.MiniInitFunc](t, symMiniObjectInit)
	weakRef := resolveSecondary[ports.MiniWeakRefFunc](t, symMiniObjectWeakRef)

	t.mu.Lock()
	if t.displayFilter(domain.DisplayCreate) && t.objectFilter(typeName) {
		t.outputMu.Lock()
		t.eventf(" ++ Created %s (%s)", typeName, obj.ID())
		t.printTrace()
		t.outputMu.Unlock()
	}

	weakRef(obj, t.objectFinalized)
	t.state.recordCreate(obj)
	t.metrics.objectCreated()
	t.mu.Unlock()

	initObject(obj, typeName)
}

// MiniRef intercepts reference acquisition for the secondary kind.
func (t *Tracker) MiniRef(obj ports.Object) ports.Object {
	ref := resolveSecondary[ports.MiniRefFunc](t, symMiniObjectRef)

	name := obj.TypeName()
	refCount := obj.RefCount()
	ret := ref(obj)

	if t.objectFilter(name) && t.displayFilter(domain.DisplayRefs) {
		t.outputMu.Lock()
		t.eventf(" +  Reffed %s (%s); ref_count: %d -> %d",
			name, obj.ID(), refCount, refCount+1)
		t.printTrace()
		t.outputMu.Unlock()
	}
	t.metrics.refAcquired()

	return ret
}

// MiniUnref intercepts reference release for the secondary kind. As
// with Unref, the delegate may destroy the instance synchronously.
func (t *Tracker) MiniUnref(obj ports.Object) {
	unref := resolveSecondary[ports.MiniUnrefFunc](t, symMiniObjectUnref)

	name := obj.TypeName()
	refCount := obj.RefCount()

	if t.objectFilter(name) && t.displayFilter(domain.DisplayRefs) {
		t.outputMu.Lock()
		t.eventf(" -  Unreffed %s (%s); ref_count: %d -> %d",
			name, obj.ID(), refCount, refCount-1)
		t.printTrace()
		t.outputMu.Unlock()
	}
	t.metrics.refReleased()

	unref(obj)
}
