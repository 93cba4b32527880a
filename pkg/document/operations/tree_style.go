package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// TreeStyle installs or clears a single attribute entry on the element
// node created at NodeID within the Tree identified by ParentCreatedAt.
// A non-empty Value installs it as an LWW entry; an empty Value with
// Remove set clears it.
type TreeStyle struct {
	ParentCreatedAt *time.Ticket
	NodeID          *time.Ticket
	Key             string
	Value           string
	Remove          bool
	executedAt      *time.Ticket
}

// NewTreeSetAttribute creates a TreeStyle operation that installs key=value.
func NewTreeSetAttribute(parentCreatedAt, nodeID *time.Ticket, key, value string, executedAt *time.Ticket) *TreeStyle {
	return &TreeStyle{ParentCreatedAt: parentCreatedAt, NodeID: nodeID, Key: key, Value: value, executedAt: executedAt}
}

// NewTreeRemoveAttribute creates a TreeStyle operation that clears key.
func NewTreeRemoveAttribute(parentCreatedAt, nodeID *time.Ticket, key string, executedAt *time.Ticket) *TreeStyle {
	return &TreeStyle{ParentCreatedAt: parentCreatedAt, NodeID: nodeID, Key: key, Remove: true, executedAt: executedAt}
}

// Execute applies the attribute change to the target node.
func (op *TreeStyle) Execute(root *crdt.Root) ([]OpInfo, error) {
	tree, err := findTree(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	if op.Remove {
		if err := tree.RemoveAttribute(op.NodeID, op.Key, op.executedAt); err != nil {
			return nil, err
		}
	} else {
		if err := tree.SetAttribute(op.NodeID, op.Key, op.Value, op.executedAt); err != nil {
			return nil, err
		}
	}

	return []OpInfo{{Path: op.ParentCreatedAt.Key(), Type: TypeStyle}}, nil
}

// ExecutedAt returns the ticket this TreeStyle was executed at.
func (op *TreeStyle) ExecutedAt() *time.Ticket {
	return op.executedAt
}
