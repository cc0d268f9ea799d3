package ports

import "github.com/refscope/refscope/pkg/domain"

// Object is a live reference-counted instance of the observed object
// system. The tracker holds Object values only as non-owning handles:
// it never acquires a reference of its own, since doing so would
// distort the lifetime it is trying to observe.
//
// TypeName and RefCount are only reliable while the instance is alive;
// after finalization both are best-effort and may return stale values.
type Object interface {
	// ID returns the stable identity of the instance (its address).
	ID() domain.ObjectID

	// TypeName returns the dynamic type name of the instance.
	TypeName() string

	// RefCount returns the current reference count. Reading it
	// unsynchronized with a concurrent ref/unref is a benign race;
	// the value is used for display only.
	RefCount() uint32
}

// FinalizeFunc is a weak (non-owning) notification invoked by the
// observed system when an instance's reference count reaches zero.
// It may be called from any goroutine, including one that is already
// inside another intercepted operation.
type FinalizeFunc func(obj Object)

// Resolved callables for the primary object kind. These are the "real
// implementations" the tracker delegates to; their shapes mirror the
// entry points of the observed library.
type (
	// ConstructFunc creates a new instance of the named type with
	// variadic construction properties.
	ConstructFunc func(typeName string, props ...any) Object

	// RefFunc increments the reference count and returns the object.
	RefFunc func(obj Object) Object

	// UnrefFunc decrements the reference count. It may synchronously
	// destroy the instance and fire finalize notifications before it
	// returns.
	UnrefFunc func(obj Object)

	// WeakRefFunc registers a finalize notification on the instance
	// without taking a reference.
	WeakRefFunc func(obj Object, fn FinalizeFunc)
)

// Resolved callables for the secondary, lighter-weight object kind
// used by the media extension of the observed system.
type (
	// MiniNewFunc creates a fresh buffer instance.
	MiniNewFunc func() Object

	// MiniNewAllocateFunc creates a buffer backed by a newly allocated
	// region of the given size.
	MiniNewAllocateFunc func(size int) Object

	// MiniNewWrappedFunc creates a buffer wrapping caller-owned data.
	MiniNewWrappedFunc func(data []byte) Object

	// MiniInitFunc initializes an instance in place rather than
	// constructing a fresh one.
	MiniInitFunc func(obj Object, typeName string)

	// MiniRefFunc increments the reference count and returns the object.
	MiniRefFunc func(obj Object) Object

	// MiniUnrefFunc decrements the reference count, possibly destroying
	// the instance synchronously.
	MiniUnrefFunc func(obj Object)

	// MiniWeakRefFunc registers a finalize notification without taking
	// a reference.
	MiniWeakRefFunc func(obj Object, fn FinalizeFunc)
)

// Library resolves symbols by name against one already-loaded library.
// Lookup returns the real implementation as one of the callable types
// above; a failed lookup wraps domain.ErrSymbolNotFound.
type Library interface {
	Lookup(symbol string) (any, error)
}

// LibraryOpener opens a library by name. A failed open wraps
// domain.ErrLibraryNotFound. Openers must tolerate concurrent calls;
// the tracker guarantees it opens each library at most once.
type LibraryOpener interface {
	Open(name string) (Library, error)
}
