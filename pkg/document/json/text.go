package json

import (
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
)

// Text is the mutator-facing handle onto a crdt.Text.
type Text struct {
	ctx  *change.Context
	text *crdt.Text
}

// NewText creates a new instance of Text bound to ctx.
func NewText(ctx *change.Context, text *crdt.Text) *Text {
	return &Text{ctx: ctx, text: text}
}

// Edit replaces the UTF-16 range [from, to) with content, installing
// attrs (if any) on the newly inserted run.
func (t *Text) Edit(from, to int, content string, attrs map[string]string) error {
	fromPos, toPos, err := t.text.FindRange(from, to)
	if err != nil {
		return err
	}
	ticket := t.ctx.IssueTimeTicket()
	if err := t.text.EditByPos(fromPos, toPos, content, attrs, ticket); err != nil {
		return err
	}
	t.ctx.Push(operations.NewEdit(t.text.CreatedAt(), fromPos, toPos, content, attrs, ticket))
	return nil
}

// SetStyle installs attrs as LWW entries on every run in [from, to).
func (t *Text) SetStyle(from, to int, attrs map[string]string) error {
	fromPos, toPos, err := t.text.FindRange(from, to)
	if err != nil {
		return err
	}
	ticket := t.ctx.IssueTimeTicket()
	if err := t.text.SetStyleByPos(fromPos, toPos, attrs, ticket); err != nil {
		return err
	}
	t.ctx.Push(operations.NewSetStyle(t.text.CreatedAt(), fromPos, toPos, attrs, ticket))
	return nil
}

// RemoveStyle clears keys on every run in [from, to).
func (t *Text) RemoveStyle(from, to int, keys []string) error {
	fromPos, toPos, err := t.text.FindRange(from, to)
	if err != nil {
		return err
	}
	ticket := t.ctx.IssueTimeTicket()
	if err := t.text.RemoveStyleByPos(fromPos, toPos, keys, ticket); err != nil {
		return err
	}
	t.ctx.Push(operations.NewRemoveStyle(t.text.CreatedAt(), fromPos, toPos, keys, ticket))
	return nil
}

// String returns the visible text content.
func (t *Text) String() string {
	return t.text.String()
}

// Len returns the number of visible UTF-16 code units.
func (t *Text) Len() int {
	return t.text.Len()
}

// Marshal returns the canonical JSON encoding of this text.
func (t *Text) Marshal() string {
	return t.text.Marshal()
}
