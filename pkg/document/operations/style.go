package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Style installs or clears attribute entries over the already-resolved
// [From, To) anchor range of the Text identified by ParentCreatedAt. A
// non-empty Attrs installs LWW entries; a non-empty RemoveKeys installs
// explicit tombstone entries instead. Exactly one of the two is set per
// operation.
type Style struct {
	ParentCreatedAt *time.Ticket
	From            crdt.TextPos
	To              crdt.TextPos
	Attrs           map[string]string
	RemoveKeys      []string
	executedAt      *time.Ticket
}

// NewSetStyle creates a Style operation that installs attrs.
func NewSetStyle(parentCreatedAt *time.Ticket, from, to crdt.TextPos, attrs map[string]string, executedAt *time.Ticket) *Style {
	return &Style{ParentCreatedAt: parentCreatedAt, From: from, To: to, Attrs: attrs, executedAt: executedAt}
}

// NewRemoveStyle creates a Style operation that clears keys.
func NewRemoveStyle(parentCreatedAt *time.Ticket, from, to crdt.TextPos, keys []string, executedAt *time.Ticket) *Style {
	return &Style{ParentCreatedAt: parentCreatedAt, From: from, To: to, RemoveKeys: keys, executedAt: executedAt}
}

// Execute replays this style change against the target Text.
func (op *Style) Execute(root *crdt.Root) ([]OpInfo, error) {
	text, err := findText(root, op.ParentCreatedAt)
	if err != nil {
		return nil, err
	}

	var applyErr error
	if len(op.RemoveKeys) > 0 {
		applyErr = text.RemoveStyleByPos(op.From, op.To, op.RemoveKeys, op.executedAt)
	} else {
		applyErr = text.SetStyleByPos(op.From, op.To, op.Attrs, op.executedAt)
	}
	if applyErr != nil {
		return nil, applyErr
	}

	return []OpInfo{{Path: op.ParentCreatedAt.Key(), Type: TypeStyle}}, nil
}

// ExecutedAt returns the ticket this Style was executed at.
func (op *Style) ExecutedAt() *time.Ticket {
	return op.executedAt
}
