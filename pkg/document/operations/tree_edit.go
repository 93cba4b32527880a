package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// TreeEdit replays a previously resolved index-based tree edit: the
// concrete, ticket-identified sequence of splits, deletions and inserts
// crdt.Tree.Edit decided against the local clone when the mutator called
// it. Replaying that fixed step sequence (rather than re-resolving
// fromIdx/toIdx against whatever shape the target tree happens to be in)
// is what keeps the edit idempotent and safe to execute against an
// independently cloned root.
type TreeEdit struct {
	ParentCreatedAt *time.Ticket
	Steps           []crdt.TreeEditStep
	executedAt      *time.Ticket
}

// NewTreeEdit creates a TreeEdit operation replaying steps against the
// Tree identified by parentCreatedAt.
func NewTreeEdit(parentCreatedAt *time.Ticket, steps []crdt.TreeEditStep, executedAt *time.Ticket) *TreeEdit {
	return &TreeEdit{
		ParentCreatedAt: parentCreatedAt,
		Steps:           steps,
		executedAt:      executedAt,
	}
}

// Execute replays this edit's steps against the target Tree.
func (op *TreeEdit) Execute(root *crdt.Root) ([]OpInfo, error) {
	tree, err := findTree(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}
	if err := tree.ApplyEditSteps(op.Steps); err != nil {
		return nil, err
	}
	return []OpInfo{{Path: op.ParentCreatedAt.Key(), Type: TypeEdit}}, nil
}

// ExecutedAt returns the ticket this TreeEdit was executed at.
func (op *TreeEdit) ExecutedAt() *time.Ticket {
	return op.executedAt
}
