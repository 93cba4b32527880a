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

package change

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Context accumulates everything one update() mutator call produces:
// every operation it recorded against the cloned Root it was handed,
// and the presence delta it made (if any). The proxy layer pushes onto
// it as the mutator runs; ToChange() freezes the result into a Change
// once the mutator returns without error.
type Context struct {
	root           *crdt.Root
	id             ID
	delimiter      uint32
	message        string
	operations     []operations.Operation
	presenceChange *innerpresence.PresenceChange
}

// NewContext creates a new instance of Context bound to root and the
// change ID this mutator call will produce.
func NewContext(root *crdt.Root, id ID, message string) *Context {
	return &Context{
		root:    root,
		id:      id,
		message: message,
	}
}

// Root returns the cloned Root this context's mutator operates against.
func (ctx *Context) Root() *crdt.Root {
	return ctx.root
}

// IssueTimeTicket issues the ticket for the next operation or CRDT node
// created inside this mutator call. Every ticket issued by the same
// context shares the context's lamport value; the delimiter increments
// on each call, which is what gives several operations recorded within
// one update() call a deterministic relative order without needing
// distinct lamport values of their own.
func (ctx *Context) IssueTimeTicket() *time.Ticket {
	ticket := ctx.id.NewTimeTicket(ctx.delimiter)
	ctx.delimiter++
	return ticket
}

// Push records op as having been produced by this mutator call.
func (ctx *Context) Push(op operations.Operation) {
	ctx.operations = append(ctx.operations, op)
}

// SetPresenceChange records change as this mutator call's pending
// presence delta, replacing whatever was recorded before. Callers that
// want several Set calls within one mutator to accumulate rather than
// clobber each other must merge against PresenceChange themselves before
// calling this, the way presence.Presence.Set does.
func (ctx *Context) SetPresenceChange(presenceChange *innerpresence.PresenceChange) {
	ctx.presenceChange = presenceChange
}

// PresenceChange returns this context's pending presence delta, nil if
// none has been recorded yet.
func (ctx *Context) PresenceChange() *innerpresence.PresenceChange {
	return ctx.presenceChange
}

// HasOperations reports whether this context has recorded any
// operations yet.
func (ctx *Context) HasOperations() bool {
	return len(ctx.operations) > 0
}

// HasChange reports whether this context has anything worth committing:
// either an operation or a presence change.
func (ctx *Context) HasChange() bool {
	return ctx.HasOperations() || ctx.presenceChange != nil
}

// ToChange freezes this context's recorded operations and presence
// delta into a Change, to be appended to the document's local change
// log once the mutator that produced it returns without error.
func (ctx *Context) ToChange() *Change {
	return New(ctx.id, ctx.message, ctx.operations, ctx.presenceChange)
}
