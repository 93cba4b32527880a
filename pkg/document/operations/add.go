package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Add inserts Value into the Array identified by ParentCreatedAt,
// immediately after the element created at PrevCreatedAt (nil for the
// front).
type Add struct {
	ParentCreatedAt *time.Ticket
	PrevCreatedAt   *time.Ticket
	Value           crdt.Element
	executedAt      *time.Ticket
}

// NewAdd creates an Add operation.
func NewAdd(parentCreatedAt, prevCreatedAt *time.Ticket, value crdt.Element, executedAt *time.Ticket) *Add {
	return &Add{
		ParentCreatedAt: parentCreatedAt,
		PrevCreatedAt:   prevCreatedAt,
		Value:           value,
		executedAt:      executedAt,
	}
}

// Execute inserts Value into the target Array.
func (op *Add) Execute(root *crdt.Root) ([]OpInfo, error) {
	parent, err := findArray(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	value, err := op.Value.DeepCopy()
	if err != nil {
		return nil, err
	}
	if err := parent.InsertAfter(op.PrevCreatedAt, value); err != nil {
		return nil, err
	}
	root.RegisterElement(value, parent)

	return []OpInfo{{Path: value.CreatedAt().Key(), Type: TypeAdd}}, nil
}

// ExecutedAt returns the ticket this Add was executed at.
func (op *Add) ExecutedAt() *time.Ticket {
	return op.executedAt
}

func findArray(root *crdt.Root, createdAt *time.Ticket) (*crdt.Array, error) {
	elem := root.FindByCreatedAt(createdAt)
	if elem == nil {
		return nil, ErrParentNotFound
	}
	arr, ok := elem.(*crdt.Array)
	if !ok {
		return nil, ErrNotApplicable
	}
	return arr, nil
}
