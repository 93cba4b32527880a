package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// TreeInsert inserts a new element or text node as a child of ParentID,
// immediately after AfterSiblingID (nil for the front of the parent's
// children), into the Tree identified by ParentCreatedAt. Exactly one of
// Tag/Text is set: Tag for an element node, Text for a text leaf.
type TreeInsert struct {
	ParentCreatedAt *time.Ticket
	ParentID        *time.Ticket
	AfterSiblingID  *time.Ticket
	Tag             string
	Text            string
	executedAt      *time.Ticket
}

// NewTreeInsertElement creates a TreeInsert operation for an element node.
func NewTreeInsertElement(parentCreatedAt, parentID, afterSiblingID *time.Ticket, tag string, executedAt *time.Ticket) *TreeInsert {
	return &TreeInsert{
		ParentCreatedAt: parentCreatedAt,
		ParentID:        parentID,
		AfterSiblingID:  afterSiblingID,
		Tag:             tag,
		executedAt:      executedAt,
	}
}

// NewTreeInsertText creates a TreeInsert operation for a text leaf.
func NewTreeInsertText(parentCreatedAt, parentID, afterSiblingID *time.Ticket, text string, executedAt *time.Ticket) *TreeInsert {
	return &TreeInsert{
		ParentCreatedAt: parentCreatedAt,
		ParentID:        parentID,
		AfterSiblingID:  afterSiblingID,
		Text:            text,
		executedAt:      executedAt,
	}
}

// Execute inserts the node into the target Tree.
func (op *TreeInsert) Execute(root *crdt.Root) ([]OpInfo, error) {
	tree, err := findTree(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	if op.Tag != "" {
		if _, err := tree.InsertElement(op.ParentID, op.AfterSiblingID, op.Tag, op.executedAt); err != nil {
			return nil, err
		}
	} else {
		if _, err := tree.InsertText(op.ParentID, op.AfterSiblingID, op.Text, op.executedAt); err != nil {
			return nil, err
		}
	}

	return []OpInfo{{Path: op.ParentCreatedAt.Key(), Type: TypeEdit}}, nil
}

// ExecutedAt returns the ticket this TreeInsert was executed at.
func (op *TreeInsert) ExecutedAt() *time.Ticket {
	return op.executedAt
}

func findTree(root *crdt.Root, createdAt *time.Ticket) (*crdt.Tree, error) {
	elem := root.FindByCreatedAt(createdAt)
	if elem == nil {
		return nil, ErrParentNotFound
	}
	tree, ok := elem.(*crdt.Tree)
	if !ok {
		return nil, ErrNotApplicable
	}
	return tree, nil
}
