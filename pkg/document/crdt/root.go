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
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Root is the in-memory index over a document's CRDT tree: every element
// ever created, reachable by its createdAt ticket, plus the set of
// tombstoned elements awaiting garbage collection. Operations look up
// their target container through Root rather than walking the tree from
// the object root, so they stay O(1) regardless of document depth.
type Root struct {
	object            *Object
	elementMapByKey   map[string]Element
	removedElementSet map[string]Element
	parentMapByKey    map[string]Container
}

// NewRoot builds a Root over object, indexing object itself and every
// element already reachable from it.
func NewRoot(object *Object) *Root {
	root := &Root{
		object:            object,
		elementMapByKey:   make(map[string]Element),
		removedElementSet: make(map[string]Element),
		parentMapByKey:    make(map[string]Container),
	}
	root.index(object, nil)
	return root
}

func (r *Root) index(elem Element, parent Container) {
	r.elementMapByKey[elem.CreatedAt().Key()] = elem
	if parent != nil {
		r.parentMapByKey[elem.CreatedAt().Key()] = parent
	}
	if elem.RemovedAt() != nil {
		r.removedElementSet[elem.CreatedAt().Key()] = elem
	}

	switch e := elem.(type) {
	case *Object:
		for _, child := range e.AllElements() {
			r.index(child, e)
		}
	case *Array:
		for _, child := range e.AllElements() {
			r.index(child, e)
		}
	}
}

// Object returns the document's root Object.
func (r *Root) Object() *Object {
	return r.object
}

// FindByCreatedAt returns the element created at the given ticket, or
// nil if Root has never indexed one.
func (r *Root) FindByCreatedAt(createdAt *time.Ticket) Element {
	return r.elementMapByKey[createdAt.Key()]
}

// RegisterElement indexes a newly created element (and recursively its
// children, if it is a Container) under parent, so later operations can
// address it by ticket and GC can find its owner.
func (r *Root) RegisterElement(elem Element, parent Container) {
	r.index(elem, parent)
}

// RegisterRemovedElement marks elem as tombstoned and awaiting GC. Called
// whenever an operation removes or overwrites an element.
func (r *Root) RegisterRemovedElement(elem Element) {
	r.removedElementSet[elem.CreatedAt().Key()] = elem
}

// ElementMapSize returns the number of elements currently indexed,
// including tombstoned ones still awaiting GC.
func (r *Root) ElementMapSize() int {
	return len(r.elementMapByKey)
}

// tombstoneCounter is implemented by GCElement containers that can
// report how many internally tombstoned nodes they're still holding
// (Text's runs, Tree's nodes) without reclaiming them.
type tombstoneCounter interface {
	TombstoneCount() int
}

// GarbageLen returns the number of tombstoned elements (and, for
// GCElement containers, their internally tombstoned nodes) awaiting GC.
func (r *Root) GarbageLen() int {
	count := len(r.removedElementSet)
	for _, elem := range r.elementMapByKey {
		if elem.RemovedAt() != nil {
			continue
		}
		if tc, ok := elem.(tombstoneCounter); ok {
			count += tc.TombstoneCount()
		}
	}
	return count
}

// GarbageCollect reclaims every element tombstoned at or before ticket:
// it drops Root's index entry, asks the owning Container to purge its
// reference, and asks GCElement containers to purge their internally
// tombstoned nodes. Returns the number of elements reclaimed.
func (r *Root) GarbageCollect(ticket *time.Ticket) int {
	reclaimed := 0
	for key, elem := range r.removedElementSet {
		if elem.RemovedAt() == nil || elem.RemovedAt().After(ticket) {
			continue
		}
		if parent, ok := r.parentMapByKey[key]; ok {
			_ = parent.Purge(elem)
			delete(r.parentMapByKey, key)
		}
		delete(r.elementMapByKey, key)
		delete(r.removedElementSet, key)
		reclaimed++
	}

	for _, elem := range r.elementMapByKey {
		if gc, ok := elem.(GCElement); ok {
			reclaimed += gc.PurgeTombstonesBefore(ticket)
		}
	}
	return reclaimed
}

// DeepCopy returns a deep copy of the whole document tree, rebuilding the
// element index over the copy.
func (r *Root) DeepCopy() (*Root, error) {
	copiedElem, err := r.object.DeepCopy()
	if err != nil {
		return nil, err
	}
	return NewRoot(copiedElem.(*Object)), nil
}
