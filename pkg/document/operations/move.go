package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Move reparents the element created at CreatedAt to immediately after
// PrevCreatedAt within the Array identified by ParentCreatedAt.
type Move struct {
	ParentCreatedAt *time.Ticket
	PrevCreatedAt   *time.Ticket
	CreatedAt       *time.Ticket
	executedAt      *time.Ticket
}

// NewMove creates a Move operation.
func NewMove(parentCreatedAt, prevCreatedAt, createdAt, executedAt *time.Ticket) *Move {
	return &Move{
		ParentCreatedAt: parentCreatedAt,
		PrevCreatedAt:   prevCreatedAt,
		CreatedAt:       createdAt,
		executedAt:      executedAt,
	}
}

// Execute reorders the target element within its Array.
func (op *Move) Execute(root *crdt.Root) ([]OpInfo, error) {
	parent, err := findArray(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	if err := parent.MoveAfter(op.PrevCreatedAt, op.CreatedAt, op.executedAt); err != nil {
		return nil, err
	}

	return []OpInfo{{Path: op.CreatedAt.Key(), Type: TypeMove}}, nil
}

// ExecutedAt returns the ticket this Move was executed at.
func (op *Move) ExecutedAt() *time.Ticket {
	return op.executedAt
}
