package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Increase applies Delta to the Counter identified by ParentCreatedAt.
// Delta carries the same numeric width the counter was created with;
// increases are commutative, so concurrent Increase operations converge
// to the sum of every delta regardless of application order.
type Increase struct {
	ParentCreatedAt *time.Ticket
	Delta           *crdt.Primitive
	executedAt      *time.Ticket
}

// NewIncrease creates an Increase operation.
func NewIncrease(parentCreatedAt *time.Ticket, delta *crdt.Primitive, executedAt *time.Ticket) *Increase {
	return &Increase{ParentCreatedAt: parentCreatedAt, Delta: delta, executedAt: executedAt}
}

// Execute applies Delta to the target Counter.
func (op *Increase) Execute(root *crdt.Root) ([]OpInfo, error) {
	elem := root.FindByCreatedAt(op.ParentCreatedAt)
	if elem == nil {
		return nil, ErrParentNotFound
	}
	counter, ok := elem.(*crdt.Counter)
	if !ok {
		return nil, ErrNotApplicable
	}

	if err := counter.Increase(op.Delta); err != nil {
		return nil, err
	}

	return []OpInfo{{Path: op.ParentCreatedAt.Key(), Type: TypeIncrease}}, nil
}

// ExecutedAt returns the ticket this Increase was executed at.
func (op *Increase) ExecutedAt() *time.Ticket {
	return op.executedAt
}
