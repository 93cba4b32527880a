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
	"sort"
	"strings"

	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Object is the CRDT mapping from string key to child element. Every Set
// is resolved against every other value ever set for that key: whichever
// non-tombstoned entry carries the larger createdAt ticket wins,
// regardless of the order the Set calls were actually applied in. This
// makes convergence independent of arrival order.
type Object struct {
	nodeMapByKey map[string][]Element
	createdAt    *time.Ticket
	movedAt      *time.Ticket
	removedAt    *time.Ticket
}

// NewObject creates a new instance of Object.
func NewObject(createdAt *time.Ticket) *Object {
	return &Object{
		nodeMapByKey: make(map[string][]Element),
		createdAt:    createdAt,
	}
}

// Set installs elem as the value of key, resolving against any value(s)
// already set for that key by createdAt ticket. Returns the element that
// this call tombstoned, if any (nil if elem is the first or losing
// write).
func (o *Object) Set(key string, elem Element) Element {
	var tombstoned Element
	for _, existing := range o.nodeMapByKey[key] {
		if existing.RemovedAt() != nil {
			continue
		}
		if elem.CreatedAt().After(existing.CreatedAt()) {
			existing.Remove(elem.CreatedAt())
			tombstoned = existing
		} else if existing.CreatedAt().After(elem.CreatedAt()) {
			elem.Remove(existing.CreatedAt())
		}
	}
	o.nodeMapByKey[key] = append(o.nodeMapByKey[key], elem)
	return tombstoned
}

// Delete tombstones every currently visible element at key with
// removedAt. Returns the removed element, or nil if key has no visible
// value.
func (o *Object) Delete(key string, removedAt *time.Ticket) Element {
	var removed Element
	for _, existing := range o.nodeMapByKey[key] {
		if existing.RemovedAt() == nil && existing.Remove(removedAt) {
			removed = existing
		}
	}
	return removed
}

// Get returns the currently visible element at key, or nil.
func (o *Object) Get(key string) Element {
	for _, existing := range o.nodeMapByKey[key] {
		if existing.RemovedAt() == nil {
			return existing
		}
	}
	return nil
}

// Has reports whether key currently has a visible value.
func (o *Object) Has(key string) bool {
	return o.Get(key) != nil
}

// Keys returns the currently visible keys, in lexicographic order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.nodeMapByKey))
	for k := range o.nodeMapByKey {
		if o.Get(k) != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// AllElements returns every element this Object has ever held for any
// key, live and tombstoned, for Root indexing and GC.
func (o *Object) AllElements() []Element {
	var all []Element
	for _, list := range o.nodeMapByKey {
		all = append(all, list...)
	}
	return all
}

// Purge drops the internal reference to elem once its tombstone has been
// garbage collected.
func (o *Object) Purge(elem Element) error {
	for k, list := range o.nodeMapByKey {
		for i, e := range list {
			if e == elem {
				o.nodeMapByKey[k] = append(list[:i], list[i+1:]...)
				if len(o.nodeMapByKey[k]) == 0 {
					delete(o.nodeMapByKey, k)
				}
				return nil
			}
		}
	}
	return ErrChildNotFound
}

// CreatedAt returns the creation ticket of this object.
func (o *Object) CreatedAt() *time.Ticket {
	return o.createdAt
}

// MovedAt returns the last move ticket of this object, if any.
func (o *Object) MovedAt() *time.Ticket {
	return o.movedAt
}

// SetMovedAt sets the move ticket of this object.
func (o *Object) SetMovedAt(movedAt *time.Ticket) {
	o.movedAt = movedAt
}

// RemovedAt returns the tombstone ticket of this object, if any.
func (o *Object) RemovedAt() *time.Ticket {
	return o.removedAt
}

// Remove tombstones this object if removedAt wins over any existing
// moved/removed ticket.
func (o *Object) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && (o.movedAt == nil || removedAt.After(o.movedAt)) &&
		(o.removedAt == nil || removedAt.After(o.removedAt)) {
		o.removedAt = removedAt
		return true
	}
	return false
}

// DeepCopy returns a deep copy of this object, including all tombstoned
// versions (needed so Root's element index stays consistent after copy).
func (o *Object) DeepCopy() (Element, error) {
	copied := NewObject(o.createdAt)
	copied.movedAt = o.movedAt
	copied.removedAt = o.removedAt

	for k, list := range o.nodeMapByKey {
		newList := make([]Element, len(list))
		for i, e := range list {
			copiedElem, err := e.DeepCopy()
			if err != nil {
				return nil, err
			}
			newList[i] = copiedElem
		}
		copied.nodeMapByKey[k] = newList
	}
	return copied, nil
}

// Marshal returns the canonical (sorted-key) JSON encoding of the visible
// key/value pairs. Tombstones are omitted.
func (o *Object) Marshal() string {
	keys := o.Keys()
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(marshalString(k))
		sb.WriteString(":")
		sb.WriteString(o.Get(k).Marshal())
	}
	sb.WriteString("}")
	return sb.String()
}

// DataSize estimates the byte footprint of the visible key/value pairs.
func (o *Object) DataSize() DataSize {
	size := DataSize{Meta: ticketMetaSize}
	for _, k := range o.Keys() {
		size.Data += len(k)
		size = AddDataSize(size, o.Get(k).DataSize())
	}
	return size
}
