package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// TreeDelete tombstones the node (and its subtree) created at NodeID
// within the Tree identified by ParentCreatedAt.
type TreeDelete struct {
	ParentCreatedAt *time.Ticket
	NodeID          *time.Ticket
	executedAt      *time.Ticket
}

// NewTreeDelete creates a TreeDelete operation.
func NewTreeDelete(parentCreatedAt, nodeID, executedAt *time.Ticket) *TreeDelete {
	return &TreeDelete{ParentCreatedAt: parentCreatedAt, NodeID: nodeID, executedAt: executedAt}
}

// Execute tombstones the target subtree.
func (op *TreeDelete) Execute(root *crdt.Root) ([]OpInfo, error) {
	tree, err := findTree(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tree.Delete(op.NodeID, op.executedAt); err != nil {
		return nil, err
	}

	return []OpInfo{{Path: op.ParentCreatedAt.Key(), Type: TypeRemove}}, nil
}

// ExecutedAt returns the ticket this TreeDelete was executed at.
func (op *TreeDelete) ExecutedAt() *time.Ticket {
	return op.executedAt
}
