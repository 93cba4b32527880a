package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Set installs Value under Key on the Object identified by
// ParentCreatedAt, tombstoning whatever Set/Delete already won that key
// if Value's createdAt loses the tiebreak.
type Set struct {
	ParentCreatedAt *time.Ticket
	Key             string
	Value           crdt.Element
	executedAt      *time.Ticket
}

// NewSet creates a Set operation. value must already carry the ticket it
// was created at; executedAt is recorded separately since a remote
// replica may replay this operation after having locally issued later
// tickets of its own.
func NewSet(parentCreatedAt *time.Ticket, key string, value crdt.Element, executedAt *time.Ticket) *Set {
	return &Set{
		ParentCreatedAt: parentCreatedAt,
		Key:             key,
		Value:           value,
		executedAt:      executedAt,
	}
}

// Execute installs Value on the target Object and tombstones the value it
// overwrote, if any.
func (op *Set) Execute(root *crdt.Root) ([]OpInfo, error) {
	parent, err := findObject(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	value, err := op.Value.DeepCopy()
	if err != nil {
		return nil, err
	}
	root.RegisterElement(value, parent)
	if tombstoned := parent.Set(op.Key, value); tombstoned != nil {
		root.RegisterRemovedElement(tombstoned)
	}

	return []OpInfo{{Path: op.Key, Type: TypeSet}}, nil
}

// ExecutedAt returns the ticket this Set was executed at.
func (op *Set) ExecutedAt() *time.Ticket {
	return op.executedAt
}

func findObject(root *crdt.Root, createdAt *time.Ticket) (*crdt.Object, error) {
	elem := root.FindByCreatedAt(createdAt)
	if elem == nil {
		return nil, ErrParentNotFound
	}
	obj, ok := elem.(*crdt.Object)
	if !ok {
		return nil, ErrNotApplicable
	}
	return obj, nil
}
