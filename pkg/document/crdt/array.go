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

package crdt

import (
	"strings"

	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Array is the CRDT ordered list of child elements. Insertion order
// ties are broken by createdAt ticket and moves reparent by ticket
// tiebreak (see RGATreeList).
type Array struct {
	elements  *RGATreeList
	createdAt *time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewArray creates a new instance of Array.
func NewArray(createdAt *time.Ticket) *Array {
	return &Array{
		elements:  NewRGATreeList(),
		createdAt: createdAt,
	}
}

// InsertAfter inserts elem immediately after the element created at
// prevCreatedAt (nil for the front of the array).
func (a *Array) InsertAfter(prevCreatedAt *time.Ticket, elem Element) error {
	return a.elements.InsertAfter(prevCreatedAt, elem)
}

// LastCreatedAt returns the createdAt ticket of the last element, used as
// the insertion anchor for append.
func (a *Array) LastCreatedAt() *time.Ticket {
	return a.elements.LastCreatedAt()
}

// MoveAfter reparents the element created at targetCreatedAt to
// immediately after prevCreatedAt.
func (a *Array) MoveAfter(prevCreatedAt, targetCreatedAt, executedAt *time.Ticket) error {
	return a.elements.MoveAfter(prevCreatedAt, targetCreatedAt, executedAt)
}

// Delete tombstones the element created at createdAt.
func (a *Array) Delete(createdAt, removedAt *time.Ticket) (Element, error) {
	return a.elements.Delete(createdAt, removedAt)
}

// Get returns the idx-th live element, or nil if idx is out of range.
func (a *Array) Get(idx int) Element {
	return a.elements.Get(idx)
}

// Elements returns the live elements in logical order.
func (a *Array) Elements() []Element {
	return a.elements.Elements()
}

// AllElements returns every element this array has ever held, live and
// tombstoned.
func (a *Array) AllElements() []Element {
	return a.elements.AllElements()
}

// Len returns the number of live elements.
func (a *Array) Len() int {
	return a.elements.Len()
}

// Purge drops the internal reference to elem once its tombstone has been
// garbage collected.
func (a *Array) Purge(elem Element) error {
	return a.elements.Purge(elem)
}

// CreatedAt returns the creation ticket of this array.
func (a *Array) CreatedAt() *time.Ticket {
	return a.createdAt
}

// MovedAt returns the last move ticket of this array, if any.
func (a *Array) MovedAt() *time.Ticket {
	return a.movedAt
}

// SetMovedAt sets the move ticket of this array.
func (a *Array) SetMovedAt(movedAt *time.Ticket) {
	a.movedAt = movedAt
}

// RemovedAt returns the tombstone ticket of this array, if any.
func (a *Array) RemovedAt() *time.Ticket {
	return a.removedAt
}

// Remove tombstones this array if removedAt wins over any existing
// moved/removed ticket.
func (a *Array) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && (a.movedAt == nil || removedAt.After(a.movedAt)) &&
		(a.removedAt == nil || removedAt.After(a.removedAt)) {
		a.removedAt = removedAt
		return true
	}
	return false
}

// DeepCopy returns a deep copy of this array.
func (a *Array) DeepCopy() (Element, error) {
	copiedElements, err := a.elements.DeepCopy()
	if err != nil {
		return nil, err
	}
	return &Array{
		elements:  copiedElements,
		createdAt: a.createdAt,
		movedAt:   a.movedAt,
		removedAt: a.removedAt,
	}, nil
}

// Marshal returns the canonical JSON encoding of this array's live
// elements in logical order.
func (a *Array) Marshal() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, elem := range a.Elements() {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(elem.Marshal())
	}
	sb.WriteString("]")
	return sb.String()
}

// DataSize estimates the byte footprint of this array's live elements.
func (a *Array) DataSize() DataSize {
	size := DataSize{Meta: ticketMetaSize}
	for _, elem := range a.Elements() {
		size = AddDataSize(size, elem.DataSize())
	}
	return size
}
