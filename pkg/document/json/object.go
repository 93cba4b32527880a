/*
 * Copyright 2019 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package json implements the typed handles an Update() mutator uses to
// read and mutate a document's CRDT tree: every call mutates the crdt
// element it wraps (an element of the Document's cloned root) and records
// an operations.Operation against the change.Context it was built with.
// The committed root changes only when those operations are replayed, so
// a failed mutator can be discarded without tainting it.
package json

import (
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
)

// Object is the mutator-facing handle onto a crdt.Object.
type Object struct {
	ctx    *change.Context
	object *crdt.Object
}

// NewObject creates a new instance of Object bound to ctx.
func NewObject(ctx *change.Context, object *crdt.Object) *Object {
	return &Object{ctx: ctx, object: object}
}

// SetString installs a string value under key.
func (o *Object) SetString(key, value string) *Object {
	o.setPrimitive(key, value)
	return o
}

// SetBool installs a bool value under key.
func (o *Object) SetBool(key string, value bool) *Object {
	o.setPrimitive(key, value)
	return o
}

// SetInteger installs an int32 value under key.
func (o *Object) SetInteger(key string, value int32) *Object {
	o.setPrimitive(key, value)
	return o
}

// SetLong installs an int64 value under key.
func (o *Object) SetLong(key string, value int64) *Object {
	o.setPrimitive(key, value)
	return o
}

// SetDouble installs a float64 value under key.
func (o *Object) SetDouble(key string, value float64) *Object {
	o.setPrimitive(key, value)
	return o
}

// SetBytes installs a []byte value under key.
func (o *Object) SetBytes(key string, value []byte) *Object {
	o.setPrimitive(key, value)
	return o
}

// SetNull installs a JSON null under key.
func (o *Object) SetNull(key string) *Object {
	o.setPrimitive(key, nil)
	return o
}

// Set is the dynamic fallback: it installs whatever native Go value is
// passed, dispatching to the matching CRDT primitive type. Returns
// ErrUnsupportedValueType if value isn't one of the supported kinds.
func (o *Object) Set(key string, value interface{}) error {
	return o.setPrimitiveChecked(key, value)
}

func (o *Object) setPrimitive(key string, value interface{}) {
	_ = o.setPrimitiveChecked(key, value)
}

func (o *Object) setPrimitiveChecked(key string, value interface{}) error {
	ticket := o.ctx.IssueTimeTicket()
	primitive, err := crdt.NewPrimitive(value, ticket)
	if err != nil {
		return err
	}
	o.ctx.Push(operations.NewSet(o.object.CreatedAt(), key, primitive, ticket))
	o.set(key, primitive)
	return nil
}

// set installs elem under key and keeps the change.Context's Root index
// in sync: the tombstoned loser (if any) is registered for GC and elem
// itself (plus any children it already owns) is indexed under o.object.
func (o *Object) set(key string, elem crdt.Element) {
	if tombstoned := o.object.Set(key, elem); tombstoned != nil {
		o.ctx.Root().RegisterRemovedElement(tombstoned)
	}
	o.ctx.Root().RegisterElement(elem, o.object)
}

// SetNewObject installs a new, empty nested Object under key and returns
// a handle onto it.
func (o *Object) SetNewObject(key string) *Object {
	ticket := o.ctx.IssueTimeTicket()
	nested := crdt.NewObject(ticket)
	o.ctx.Push(operations.NewSet(o.object.CreatedAt(), key, nested, ticket))
	o.set(key, nested)
	return NewObject(o.ctx, nested)
}

// SetNewArray installs a new, empty nested Array under key and returns a
// handle onto it.
func (o *Object) SetNewArray(key string) *Array {
	ticket := o.ctx.IssueTimeTicket()
	nested := crdt.NewArray(ticket)
	o.ctx.Push(operations.NewSet(o.object.CreatedAt(), key, nested, ticket))
	o.set(key, nested)
	return NewArray(o.ctx, nested)
}

// SetNewText installs a new, empty Text under key and returns a handle
// onto it.
func (o *Object) SetNewText(key string) *Text {
	ticket := o.ctx.IssueTimeTicket()
	nested := crdt.NewText(ticket)
	o.ctx.Push(operations.NewSet(o.object.CreatedAt(), key, nested, ticket))
	o.set(key, nested)
	return NewText(o.ctx, nested)
}

// SetNewCounter installs a new Counter under key, seeded with value, and
// returns a handle onto it.
func (o *Object) SetNewCounter(key string, valueType crdt.ValueType, value interface{}) (*Counter, error) {
	ticket := o.ctx.IssueTimeTicket()
	nested, err := crdt.NewCounter(valueType, value, ticket)
	if err != nil {
		return nil, err
	}
	o.ctx.Push(operations.NewSet(o.object.CreatedAt(), key, nested, ticket))
	o.set(key, nested)
	return NewCounter(o.ctx, nested), nil
}

// SetNewTree installs a new, empty Tree under key and returns a handle
// onto it.
func (o *Object) SetNewTree(key string) *Tree {
	ticket := o.ctx.IssueTimeTicket()
	nested := crdt.NewTree(ticket)
	o.ctx.Push(operations.NewSet(o.object.CreatedAt(), key, nested, ticket))
	o.set(key, nested)
	return NewTree(o.ctx, nested)
}

// Delete tombstones the value at key, if any.
func (o *Object) Delete(key string) {
	if !o.object.Has(key) {
		return
	}
	ticket := o.ctx.IssueTimeTicket()
	o.ctx.Push(operations.NewDelete(o.object.CreatedAt(), key, ticket))
	if removed := o.object.Delete(key, ticket); removed != nil {
		o.ctx.Root().RegisterRemovedElement(removed)
	}
}

// Has reports whether key currently has a visible value.
func (o *Object) Has(key string) bool {
	return o.object.Has(key)
}

// Keys returns the currently visible keys, in lexicographic order.
func (o *Object) Keys() []string {
	return o.object.Keys()
}

// Get returns the native Go value at key if it is a primitive, nil
// otherwise (use GetObject/GetArray/GetText/GetCounter/GetTree for
// container values).
func (o *Object) Get(key string) interface{} {
	elem := o.object.Get(key)
	if p, ok := elem.(*crdt.Primitive); ok {
		return p.Value()
	}
	return nil
}

// GetObject returns a handle onto the nested Object at key, or nil if
// key doesn't hold one.
func (o *Object) GetObject(key string) *Object {
	nested, ok := o.object.Get(key).(*crdt.Object)
	if !ok {
		return nil
	}
	return NewObject(o.ctx, nested)
}

// GetArray returns a handle onto the nested Array at key, or nil.
func (o *Object) GetArray(key string) *Array {
	nested, ok := o.object.Get(key).(*crdt.Array)
	if !ok {
		return nil
	}
	return NewArray(o.ctx, nested)
}

// GetText returns a handle onto the Text at key, or nil.
func (o *Object) GetText(key string) *Text {
	nested, ok := o.object.Get(key).(*crdt.Text)
	if !ok {
		return nil
	}
	return NewText(o.ctx, nested)
}

// GetCounter returns a handle onto the Counter at key, or nil.
func (o *Object) GetCounter(key string) *Counter {
	nested, ok := o.object.Get(key).(*crdt.Counter)
	if !ok {
		return nil
	}
	return NewCounter(o.ctx, nested)
}

// GetTree returns a handle onto the Tree at key, or nil.
func (o *Object) GetTree(key string) *Tree {
	nested, ok := o.object.Get(key).(*crdt.Tree)
	if !ok {
		return nil
	}
	return NewTree(o.ctx, nested)
}

// Marshal returns the canonical JSON encoding of this object.
func (o *Object) Marshal() string {
	return o.object.Marshal()
}
