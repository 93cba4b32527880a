package json

import (
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Tree is the mutator-facing handle onto a crdt.Tree.
type Tree struct {
	ctx  *change.Context
	tree *crdt.Tree
}

// NewTree creates a new instance of Tree bound to ctx.
func NewTree(ctx *change.Context, tree *crdt.Tree) *Tree {
	return &Tree{ctx: ctx, tree: tree}
}

// RootID returns the ticket identifying the tree's synthetic root node,
// the ParentID every top-level Edit call inserts under.
func (t *Tree) RootID() *time.Ticket {
	return t.tree.Root().ID()
}

// EditElement inserts a new element node tagged tag as a child of
// parentID, immediately after afterSiblingID (nil for the front), and
// returns the ticket identifying the new node.
func (t *Tree) EditElement(parentID, afterSiblingID *time.Ticket, tag string) (*time.Ticket, error) {
	ticket := t.ctx.IssueTimeTicket()
	if _, err := t.tree.InsertElement(parentID, afterSiblingID, tag, ticket); err != nil {
		return nil, err
	}
	t.ctx.Push(operations.NewTreeInsertElement(t.tree.CreatedAt(), parentID, afterSiblingID, tag, ticket))
	return ticket, nil
}

// EditText inserts a new text leaf as a child of parentID, immediately
// after afterSiblingID (nil for the front), and returns the ticket
// identifying the new node.
func (t *Tree) EditText(parentID, afterSiblingID *time.Ticket, value string) (*time.Ticket, error) {
	ticket := t.ctx.IssueTimeTicket()
	if _, err := t.tree.InsertText(parentID, afterSiblingID, value, ticket); err != nil {
		return nil, err
	}
	t.ctx.Push(operations.NewTreeInsertText(t.tree.CreatedAt(), parentID, afterSiblingID, value, ticket))
	return ticket, nil
}

// Edit resolves the linear index range [fromIdx, toIdx) against the
// tree's current content (each element contributes one index unit for
// its open tag and one for its close tag; each text leaf contributes
// one unit per UTF-16 code unit of its value), deletes whatever whole
// nodes lie strictly between the resolved boundaries, cuts splitLevel
// enclosing ancestors at the resulting edit point, and inserts a new
// element tagged tag (tag != "") or a new text leaf holding value
// (tag == "" and value != "") there. With both tag and value empty,
// Edit performs a pure split/delete with no new content. It returns the
// ticket of the inserted node, nil if none was inserted.
//
// fromIdx and toIdx must resolve under the same parent; a range that
// crosses an element boundary returns crdt.ErrTreeEditNotSupported,
// since closing that range would require merging the elements on either
// side of it.
func (t *Tree) Edit(fromIdx, toIdx int, tag, value string, splitLevel int) (*time.Ticket, error) {
	steps, err := t.tree.Edit(fromIdx, toIdx, tag, value, splitLevel, t.ctx.IssueTimeTicket)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, nil
	}

	t.ctx.Push(operations.NewTreeEdit(t.tree.CreatedAt(), steps, t.ctx.IssueTimeTicket()))

	last := steps[len(steps)-1]
	if last.Kind == crdt.TreeEditInsertElement || last.Kind == crdt.TreeEditInsertText {
		return last.Ticket, nil
	}
	return nil, nil
}

// Delete tombstones the node (and its subtree) created at id.
func (t *Tree) Delete(id *time.Ticket) error {
	ticket := t.ctx.IssueTimeTicket()
	if err := t.tree.Delete(id, ticket); err != nil {
		return err
	}
	t.ctx.Push(operations.NewTreeDelete(t.tree.CreatedAt(), id, ticket))
	return nil
}

// Move reparents the node created at id to be a child of newParentID,
// immediately after afterSiblingID.
func (t *Tree) Move(id, newParentID, afterSiblingID *time.Ticket) error {
	ticket := t.ctx.IssueTimeTicket()
	if err := t.tree.Move(id, newParentID, afterSiblingID, ticket); err != nil {
		return err
	}
	t.ctx.Push(operations.NewTreeMove(t.tree.CreatedAt(), id, newParentID, afterSiblingID, ticket))
	return nil
}

// Style installs key=value on the element node created at id.
func (t *Tree) Style(id *time.Ticket, key, value string) error {
	ticket := t.ctx.IssueTimeTicket()
	if err := t.tree.SetAttribute(id, key, value, ticket); err != nil {
		return err
	}
	t.ctx.Push(operations.NewTreeSetAttribute(t.tree.CreatedAt(), id, key, value, ticket))
	return nil
}

// RemoveStyle clears key on the element node created at id.
func (t *Tree) RemoveStyle(id *time.Ticket, key string) error {
	ticket := t.ctx.IssueTimeTicket()
	if err := t.tree.RemoveAttribute(id, key, ticket); err != nil {
		return err
	}
	t.ctx.Push(operations.NewTreeRemoveAttribute(t.tree.CreatedAt(), id, key, ticket))
	return nil
}

// ToXML renders the tree's currently visible nodes as an XML fragment.
func (t *Tree) ToXML() string {
	return t.tree.ToXML()
}

// Marshal returns the canonical JSON encoding of this tree.
func (t *Tree) Marshal() string {
	return t.tree.Marshal()
}
