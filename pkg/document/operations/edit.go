package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Edit replaces the already-resolved [From, To) anchor range of the Text
// identified by ParentCreatedAt with Content, installing Attrs (if any)
// on the newly inserted run. From/To are crdt.TextPos values resolved
// once, locally, by the proxy that created this operation, so replaying
// it on any replica targets the same anchors regardless of what else
// that replica has applied concurrently.
type Edit struct {
	ParentCreatedAt *time.Ticket
	From            crdt.TextPos
	To              crdt.TextPos
	Content         string
	Attrs           map[string]string
	executedAt      *time.Ticket
}

// NewEdit creates an Edit operation.
func NewEdit(parentCreatedAt *time.Ticket, from, to crdt.TextPos, content string, attrs map[string]string, executedAt *time.Ticket) *Edit {
	return &Edit{
		ParentCreatedAt: parentCreatedAt,
		From:            from,
		To:              to,
		Content:         content,
		Attrs:           attrs,
		executedAt:      executedAt,
	}
}

// Execute replays this edit against the target Text.
func (op *Edit) Execute(root *crdt.Root) ([]OpInfo, error) {
	text, err := findText(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	if err := text.EditByPos(op.From, op.To, op.Content, op.Attrs, op.executedAt); err != nil {
		return nil, err
	}

	return []OpInfo{{Path: op.ParentCreatedAt.Key(), Type: TypeEdit}}, nil
}

// ExecutedAt returns the ticket this Edit was executed at.
func (op *Edit) ExecutedAt() *time.Ticket {
	return op.executedAt
}

func findText(root *crdt.Root, createdAt *time.Ticket) (*crdt.Text, error) {
	elem := root.FindByCreatedAt(createdAt)
	if elem == nil {
		return nil, ErrParentNotFound
	}
	text, ok := elem.(*crdt.Text)
	if !ok {
		return nil, ErrNotApplicable
	}
	return text, nil
}
