package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Remove tombstones the element created at CreatedAt within the Array
// identified by ParentCreatedAt.
type Remove struct {
	ParentCreatedAt *time.Ticket
	CreatedAt       *time.Ticket
	executedAt      *time.Ticket
}

// NewRemove creates a Remove operation.
func NewRemove(parentCreatedAt, createdAt, executedAt *time.Ticket) *Remove {
	return &Remove{ParentCreatedAt: parentCreatedAt, CreatedAt: createdAt, executedAt: executedAt}
}

// Execute tombstones the target element within its Array.
func (op *Remove) Execute(root *crdt.Root) ([]OpInfo, error) {
	parent, err := findArray(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	removed, err := parent.Delete(op.CreatedAt, op.executedAt)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, nil
	}
	root.RegisterRemovedElement(removed)

	return []OpInfo{{Path: op.CreatedAt.Key(), Type: TypeRemove}}, nil
}

// ExecutedAt returns the ticket this Remove was executed at.
func (op *Remove) ExecutedAt() *time.Ticket {
	return op.executedAt
}
