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

// Package crdt implements the JSON-like CRDT primitives: Object, Array,
// Primitive, Counter, Text and Tree, plus Root, the element-by-ticket
// index every document holds.
package crdt

import (
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Element represents a node in the CRDT tree of a Document. Every node is
// tagged with the ticket of its creating change so concurrent operations
// can be ordered deterministically.
type Element interface {
	// CreatedAt returns the creation ticket of this element.
	CreatedAt() *time.Ticket

	// MovedAt returns the last move ticket of this element, or nil if it
	// has never been moved.
	MovedAt() *time.Ticket

	// SetMovedAt sets the move ticket of this element.
	SetMovedAt(movedAt *time.Ticket)

	// RemovedAt returns the tombstone ticket of this element, or nil if
	// it is still live.
	RemovedAt() *time.Ticket

	// Remove tombstones this element with removedAt, if removedAt wins
	// over any existing moved/removed ticket. Returns whether the
	// removal was applied.
	Remove(removedAt *time.Ticket) bool

	// DeepCopy returns a deep copy of this element.
	DeepCopy() (Element, error)

	// Marshal returns the canonical (sorted-key) JSON encoding of this
	// element's value.
	Marshal() string

	// DataSize returns the (data, meta) byte breakdown of this element,
	// for Document.GetDocSize accounting.
	DataSize() DataSize
}

// Container is an Element that owns child elements (Object, Array). It
// can be asked to drop its reference to a child once that child has been
// garbage collected.
type Container interface {
	Element

	// Purge removes the internal reference to elem. Called by Root once
	// elem's tombstone has been garbage collected.
	Purge(elem Element) error
}

// GCElement is implemented by elements that hold garbage internally
// (Text and Tree tombstone their own nodes rather than registering each
// one with Root). PurgeTombstonesBefore reclaims nodes whose removedAt
// is dominated by ticket and returns how many were purged.
type GCElement interface {
	Element

	PurgeTombstonesBefore(ticket *time.Ticket) int
}

// DataSize is the (data, meta) byte breakdown used for document size
// accounting and admission control.
type DataSize struct {
	// Data is the size of the user payload in bytes.
	Data int

	// Meta is the size of ticket/link overhead in bytes.
	Meta int
}

// AddDataSize returns the element-wise sum of a and b.
func AddDataSize(a, b DataSize) DataSize {
	return DataSize{Data: a.Data + b.Data, Meta: a.Meta + b.Meta}
}

// ticketMetaSize is the accounting weight of a single TimeTicket
// reference (lamport + delimiter + actor id), used across primitives to
// estimate structural overhead.
const ticketMetaSize = 8 + 4 + 12
