package tracker

import (
	"github.com/refscope/refscope/pkg/domain"
	"github.com/refscope/refscope/pkg/ports"
)

// registry holds the three tracking containers. It has no lock of its
// own: every access must happen with the owning Tracker's global lock
// held for the full duration of the operation.
//
// Object handles stored here are presence markers, never strong
// references; the values are kept only so dumps can inspect instances
// that are still alive.
type registry struct {
	// objects is the set of currently-live tracked identities.
	objects map[domain.ObjectID]ports.Object

	// added is the set of identities created since the last checkpoint.
	added map[domain.ObjectID]ports.Object

	// removed maps identities destroyed since the last checkpoint to
	// the type name recorded at the moment of removal. The name must be
	// captured then: afterwards the instance may be invalid or reused
	// memory.
	removed map[domain.ObjectID]string
}

func newRegistry() *registry {
	return &registry{
		objects: make(map[domain.ObjectID]ports.Object),
		added:   make(map[domain.ObjectID]ports.Object),
		removed: make(map[domain.ObjectID]string),
	}
}

// tracked reports whether id is already in the live set.
func (r *registry) tracked(id domain.ObjectID) bool {
	_, ok := r.objects[id]
	return ok
}

// recordCreate inserts obj into the live set and the added set.
func (r *registry) recordCreate(obj ports.Object) {
	r.objects[obj.ID()] = obj
	r.added[obj.ID()] = obj
}

// recordDestroy removes id from the live and added sets. If the object
// predates the last checkpoint (it is not in added), it is recorded in
// removed under the type name captured at destruction time; an object
// created and destroyed within the same checkpoint window cancels out
// and appears in neither delta set.
func (r *registry) recordDestroy(id domain.ObjectID, typeName string) {
	if _, justAdded := r.added[id]; !justAdded {
		r.removed[id] = typeName
	}
	delete(r.objects, id)
	delete(r.added, id)
}

// checkpointReset clears the added and removed sets together,
// establishing a new delta baseline. The live set is unaffected.
func (r *registry) checkpointReset() {
	clear(r.added)
	clear(r.removed)
}
