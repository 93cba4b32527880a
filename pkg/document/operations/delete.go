package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Delete tombstones the value at Key on the Object identified by
// ParentCreatedAt.
type Delete struct {
	ParentCreatedAt *time.Ticket
	Key             string
	executedAt      *time.Ticket
}

// NewDelete creates a Delete operation.
func NewDelete(parentCreatedAt *time.Ticket, key string, executedAt *time.Ticket) *Delete {
	return &Delete{ParentCreatedAt: parentCreatedAt, Key: key, executedAt: executedAt}
}

// Execute tombstones the current value at Key, if any.
func (op *Delete) Execute(root *crdt.Root) ([]OpInfo, error) {
	parent, err := findObject(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	removed := parent.Delete(op.Key, op.executedAt)
	if removed == nil {
		return nil, nil
	}
	root.RegisterRemovedElement(removed)

	return []OpInfo{{Path: op.Key, Type: TypeRemove}}, nil
}

// ExecutedAt returns the ticket this Delete was executed at.
func (op *Delete) ExecutedAt() *time.Ticket {
	return op.executedAt
}
