package operations

import "errors"

var (
	// ErrParentNotFound is returned when an operation's ParentCreatedAt
	// ticket does not resolve to any element Root currently indexes (the
	// container was concurrently removed and already garbage collected).
	ErrParentNotFound = errors.New("operations: parent container not found")

	// ErrNotApplicable is returned when an operation's target container is
	// indexed but is not of the kind the operation expects (e.g. a Set
	// operation whose ParentCreatedAt resolves to an Array).
	ErrNotApplicable = errors.New("operations: operation not applicable to target")
)
