package json

import (
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Array is the mutator-facing handle onto a crdt.Array.
type Array struct {
	ctx   *change.Context
	array *crdt.Array
}

// NewArray creates a new instance of Array bound to ctx.
func NewArray(ctx *change.Context, array *crdt.Array) *Array {
	return &Array{ctx: ctx, array: array}
}

// Len returns the number of live elements.
func (a *Array) Len() int {
	return a.array.Len()
}

// Append adds value to the end of the array.
func (a *Array) Append(value interface{}) error {
	primitive, err := a.newPrimitive(value)
	if err != nil {
		return err
	}
	a.insertElem(a.array.LastCreatedAt(), primitive)
	return nil
}

// AppendNewObject appends a new, empty nested Object and returns a
// handle onto it.
func (a *Array) AppendNewObject() *Object {
	ticket := a.ctx.IssueTimeTicket()
	nested := crdt.NewObject(ticket)
	a.insertElem(a.array.LastCreatedAt(), nested)
	return NewObject(a.ctx, nested)
}

// AppendNewArray appends a new, empty nested Array and returns a handle
// onto it.
func (a *Array) AppendNewArray() *Array {
	ticket := a.ctx.IssueTimeTicket()
	nested := crdt.NewArray(ticket)
	a.insertElem(a.array.LastCreatedAt(), nested)
	return NewArray(a.ctx, nested)
}

// Insert inserts value immediately after the idx-th live element (-1 for
// the front of the array).
func (a *Array) Insert(idx int, value interface{}) error {
	primitive, err := a.newPrimitive(value)
	if err != nil {
		return err
	}
	a.insertElem(a.prevCreatedAtFor(idx), primitive)
	return nil
}

func (a *Array) prevCreatedAtFor(idx int) *time.Ticket {
	if idx < 0 {
		return nil
	}
	elem := a.array.Get(idx)
	if elem == nil {
		return nil
	}
	return elem.CreatedAt()
}

func (a *Array) newPrimitive(value interface{}) (*crdt.Primitive, error) {
	ticket := a.ctx.IssueTimeTicket()
	return crdt.NewPrimitive(value, ticket)
}

// insertElem inserts elem into the underlying array after prevCreatedAt,
// pushing the matching Add operation and keeping the Root index in sync.
// elem must already carry the ticket it was created at.
func (a *Array) insertElem(prevCreatedAt *time.Ticket, elem crdt.Element) {
	_ = a.array.InsertAfter(prevCreatedAt, elem)
	a.ctx.Push(operations.NewAdd(a.array.CreatedAt(), prevCreatedAt, elem, elem.CreatedAt()))
	a.ctx.Root().RegisterElement(elem, a.array)
}

// MoveAfter reparents the element at idx to immediately after the
// element at afterIdx.
func (a *Array) MoveAfter(afterIdx, idx int) error {
	target := a.array.Get(idx)
	prev := a.array.Get(afterIdx)
	if target == nil || prev == nil {
		return crdt.ErrOutOfRange
	}
	ticket := a.ctx.IssueTimeTicket()
	if err := a.array.MoveAfter(prev.CreatedAt(), target.CreatedAt(), ticket); err != nil {
		return err
	}
	a.ctx.Push(operations.NewMove(a.array.CreatedAt(), prev.CreatedAt(), target.CreatedAt(), ticket))
	return nil
}

// Remove tombstones the idx-th live element.
func (a *Array) Remove(idx int) error {
	target := a.array.Get(idx)
	if target == nil {
		return crdt.ErrOutOfRange
	}
	ticket := a.ctx.IssueTimeTicket()
	removed, err := a.array.Delete(target.CreatedAt(), ticket)
	if err != nil {
		return err
	}
	a.ctx.Push(operations.NewRemove(a.array.CreatedAt(), target.CreatedAt(), ticket))
	if removed != nil {
		a.ctx.Root().RegisterRemovedElement(removed)
	}
	return nil
}

// Get returns the native Go value of the idx-th live element if it is a
// primitive, nil otherwise.
func (a *Array) Get(idx int) interface{} {
	elem := a.array.Get(idx)
	if p, ok := elem.(*crdt.Primitive); ok {
		return p.Value()
	}
	return nil
}

// GetObject returns a handle onto the idx-th element if it is a nested
// Object, nil otherwise. This is Array's subscript accessor for
// container children.
func (a *Array) GetObject(idx int) *Object {
	nested, ok := a.array.Get(idx).(*crdt.Object)
	if !ok {
		return nil
	}
	return NewObject(a.ctx, nested)
}

// GetArray returns a handle onto the idx-th element if it is a nested
// Array, nil otherwise.
func (a *Array) GetArray(idx int) *Array {
	nested, ok := a.array.Get(idx).(*crdt.Array)
	if !ok {
		return nil
	}
	return NewArray(a.ctx, nested)
}

// Marshal returns the canonical JSON encoding of this array.
func (a *Array) Marshal() string {
	return a.array.Marshal()
}
