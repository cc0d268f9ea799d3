package domain

import "fmt"

// ObjectID identifies a tracked instance by its runtime address.
// It is an opaque key: refscope never dereferences it, and never owns
// the instance behind it.
type ObjectID uintptr

// String formats the identity the way the diagnostic stream prints
// addresses.
func (id ObjectID) String() string {
	return fmt.Sprintf("0x%x", uintptr(id))
}
