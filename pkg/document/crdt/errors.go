package crdt

import "errors"

var (
	// ErrUnsupportedValueType is returned when a Go value cannot be
	// represented as a CRDT Primitive.
	ErrUnsupportedValueType = errors.New("crdt: unsupported value type")

	// ErrCounterTypeMismatch is returned when a counter operation targets
	// a counter of a different numeric width than it was created with.
	ErrCounterTypeMismatch = errors.New("crdt: counter type mismatch")

	// ErrInvalidTreePos is returned when a tree edit references a
	// position that no longer exists in the live tree.
	ErrInvalidTreePos = errors.New("crdt: invalid tree position")

	// ErrOutOfRange is returned when a text/array index is out of range.
	ErrOutOfRange = errors.New("crdt: index out of range")

	// ErrChildNotFound is returned when Container.Purge is asked to drop
	// a child it does not (or no longer) own.
	ErrChildNotFound = errors.New("crdt: child element not found")

	// ErrTreeEditNotSupported is returned when Tree.Edit is asked to
	// delete a range whose two ends resolve under different parents.
	// Deleting such a range would need to merge the elements on either
	// side of it (delete the boundary, then re-parent), whose semantics
	// under concurrent operations are not implemented here.
	ErrTreeEditNotSupported = errors.New("crdt: tree edit range crosses an element boundary")
)
