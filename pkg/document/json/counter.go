package json

import (
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
)

// Counter is the mutator-facing handle onto a crdt.Counter.
type Counter struct {
	ctx     *change.Context
	counter *crdt.Counter
}

// NewCounter creates a new instance of Counter bound to ctx.
func NewCounter(ctx *change.Context, counter *crdt.Counter) *Counter {
	return &Counter{ctx: ctx, counter: counter}
}

// Increase applies delta to this counter. delta must carry the same
// numeric width the counter was created with.
func (c *Counter) Increase(delta interface{}) error {
	ticket := c.ctx.IssueTimeTicket()
	deltaPrimitive, err := crdt.NewPrimitive(delta, ticket)
	if err != nil {
		return err
	}
	if err := c.counter.Increase(deltaPrimitive); err != nil {
		return err
	}
	c.ctx.Push(operations.NewIncrease(c.counter.CreatedAt(), deltaPrimitive, ticket))
	return nil
}

// Value returns the current numeric value as its native Go type.
func (c *Counter) Value() interface{} {
	return c.counter.Value()
}

// Marshal returns the canonical JSON encoding of this counter.
func (c *Counter) Marshal() string {
	return c.counter.Marshal()
}
