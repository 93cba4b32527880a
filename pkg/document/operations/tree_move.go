package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// TreeMove reparents the node created at NodeID to be a child of
// NewParentID, immediately after AfterSiblingID, within the Tree
// identified by ParentCreatedAt.
type TreeMove struct {
	ParentCreatedAt *time.Ticket
	NodeID          *time.Ticket
	NewParentID     *time.Ticket
	AfterSiblingID  *time.Ticket
	executedAt      *time.Ticket
}

// NewTreeMove creates a TreeMove operation.
func NewTreeMove(parentCreatedAt, nodeID, newParentID, afterSiblingID, executedAt *time.Ticket) *TreeMove {
	return &TreeMove{
		ParentCreatedAt: parentCreatedAt,
		NodeID:          nodeID,
		NewParentID:     newParentID,
		AfterSiblingID:  afterSiblingID,
		executedAt:      executedAt,
	}
}

// Execute reparents the target node within the target Tree.
func (op *TreeMove) Execute(root *crdt.Root) ([]OpInfo, error) {
	tree, err := findTree(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tree.Move(op.NodeID, op.NewParentID, op.AfterSiblingID, op.executedAt); err != nil {
		return nil, err
	}

	return []OpInfo{{Path: op.ParentCreatedAt.Key(), Type: TypeMove}}, nil
}

// ExecutedAt returns the ticket this TreeMove was executed at.
func (op *TreeMove) ExecutedAt() *time.Ticket {
	return op.executedAt
}
