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

// rgaTreeListNode is one slot of a RGATreeList: the element it carries
// plus bookkeeping needed to resolve concurrent inserts after the same
// left sibling.
type rgaTreeListNode struct {
	elem Element

	// insPrevKey is the ticket key of the left sibling this node was
	// originally inserted after. It never changes, even across Move, so
	// concurrent inserts anchored to the same sibling can still be
	// ordered by comparing createdAt tickets.
	insPrevKey string

	prev *rgaTreeListNode
	next *rgaTreeListNode
}

// RGATreeList is a Replicated Growable Array: an ordered sequence of
// elements where concurrent insertions after the same left sibling are
// ordered deterministically by createdAt ticket, and moves reparent by
// ticket tiebreak. It backs both Array and, conceptually, the ordering
// half of Text's character sequence.
type RGATreeList struct {
	dummyHead          *rgaTreeListNode
	last               *rgaTreeListNode
	nodeMapByCreatedAt map[string]*rgaTreeListNode
	length             int
}

// NewRGATreeList creates a new, empty instance of RGATreeList.
func NewRGATreeList() *RGATreeList {
	dummyHead := &rgaTreeListNode{}
	return &RGATreeList{
		dummyHead:          dummyHead,
		last:               dummyHead,
		nodeMapByCreatedAt: make(map[string]*rgaTreeListNode),
	}
}

// headKey is the synthetic key under which the list's dummy head can be
// addressed as a left-sibling anchor (i.e. "insert at the very front").
const headKey = ""

// InsertAfter inserts elem immediately after the element created at
// prevCreatedAt (or at the front, if prevCreatedAt is nil), resolving
// concurrent inserts at the same anchor by createdAt ticket.
func (l *RGATreeList) InsertAfter(prevCreatedAt *time.Ticket, elem Element) error {
	key := headKey
	if prevCreatedAt != nil {
		key = prevCreatedAt.Key()
	}
	anchor, ok := l.findAnchor(key)
	if !ok {
		return ErrChildNotFound
	}
	l.insertAfterNode(anchor, key, elem)
	return nil
}

func (l *RGATreeList) findAnchor(key string) (*rgaTreeListNode, bool) {
	if key == headKey {
		return l.dummyHead, true
	}
	node, ok := l.nodeMapByCreatedAt[key]
	return node, ok
}

func (l *RGATreeList) insertAfterNode(anchor *rgaTreeListNode, anchorKey string, elem Element) *rgaTreeListNode {
	prev := anchor
	current := anchor.next
	for current != nil && current.insPrevKey == anchorKey {
		if elem.CreatedAt().After(current.elem.CreatedAt()) {
			break
		}
		prev = current
		current = current.next
	}

	node := &rgaTreeListNode{elem: elem, insPrevKey: anchorKey, prev: prev, next: current}
	prev.next = node
	if current != nil {
		current.prev = node
	} else {
		l.last = node
	}

	l.nodeMapByCreatedAt[elem.CreatedAt().Key()] = node
	l.length++
	return node
}

// MoveAfter reparents the element created at targetCreatedAt to
// immediately after prevCreatedAt, provided executedAt wins over any
// move that already applied to the target (so concurrent moves resolve
// by higher ticket and a stale move is a no-op).
func (l *RGATreeList) MoveAfter(prevCreatedAt *time.Ticket, targetCreatedAt *time.Ticket, executedAt *time.Ticket) error {
	node, ok := l.nodeMapByCreatedAt[targetCreatedAt.Key()]
	if !ok {
		return ErrChildNotFound
	}

	if node.elem.MovedAt() != nil && node.elem.MovedAt().After(executedAt) {
		return nil
	}

	key := headKey
	if prevCreatedAt != nil {
		key = prevCreatedAt.Key()
	}
	anchor, ok := l.findAnchor(key)
	if !ok {
		return ErrChildNotFound
	}

	l.unlink(node)
	node.elem.SetMovedAt(executedAt)

	prev := anchor
	current := anchor.next
	for current != nil && current.insPrevKey == key {
		if executedAt.After(current.elem.CreatedAt()) {
			break
		}
		prev = current
		current = current.next
	}
	node.insPrevKey = key
	node.prev = prev
	node.next = current
	prev.next = node
	if current != nil {
		current.prev = node
	} else {
		l.last = node
	}
	return nil
}

func (l *RGATreeList) unlink(node *rgaTreeListNode) {
	if node.prev != nil {
		node.prev.next = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.last = node.prev
	}
}

// Delete tombstones the element created at createdAt. The node stays
// linked (a concurrent move racing with this delete must still be able
// to find it), only the underlying element's RemovedAt ticket changes.
func (l *RGATreeList) Delete(createdAt *time.Ticket, removedAt *time.Ticket) (Element, error) {
	node, ok := l.nodeMapByCreatedAt[createdAt.Key()]
	if !ok {
		return nil, ErrChildNotFound
	}
	node.elem.Remove(removedAt)
	return node.elem, nil
}

// Purge drops the internal reference to elem entirely, once its
// tombstone has been garbage collected.
func (l *RGATreeList) Purge(elem Element) error {
	node, ok := l.nodeMapByCreatedAt[elem.CreatedAt().Key()]
	if !ok {
		return ErrChildNotFound
	}
	l.unlink(node)
	delete(l.nodeMapByCreatedAt, elem.CreatedAt().Key())
	l.length--
	return nil
}

// LastCreatedAt returns the createdAt ticket of the last (tail) node, or
// nil if the list is empty. Used as the insertion anchor for append.
func (l *RGATreeList) LastCreatedAt() *time.Ticket {
	if l.last == l.dummyHead || l.last == nil {
		return nil
	}
	return l.last.elem.CreatedAt()
}

// Get returns the idx-th live (non-tombstoned) element, or nil if idx is
// out of range.
func (l *RGATreeList) Get(idx int) Element {
	i := 0
	for node := l.dummyHead.next; node != nil; node = node.next {
		if node.elem.RemovedAt() != nil {
			continue
		}
		if i == idx {
			return node.elem
		}
		i++
	}
	return nil
}

// Elements returns the live elements in logical order.
func (l *RGATreeList) Elements() []Element {
	var elems []Element
	for node := l.dummyHead.next; node != nil; node = node.next {
		if node.elem.RemovedAt() == nil {
			elems = append(elems, node.elem)
		}
	}
	return elems
}

// AllElements returns every element this list has ever held, live and
// tombstoned, for Root indexing and GC.
func (l *RGATreeList) AllElements() []Element {
	var elems []Element
	for node := l.dummyHead.next; node != nil; node = node.next {
		elems = append(elems, node.elem)
	}
	return elems
}

// Len returns the number of live elements.
func (l *RGATreeList) Len() int {
	n := 0
	for node := l.dummyHead.next; node != nil; node = node.next {
		if node.elem.RemovedAt() == nil {
			n++
		}
	}
	return n
}

// DeepCopy returns a deep copy of this list, preserving physical order
// exactly (insertion anchors are copied verbatim; they remain valid
// since ticket identities are unchanged by copying).
func (l *RGATreeList) DeepCopy() (*RGATreeList, error) {
	copied := NewRGATreeList()
	tail := copied.dummyHead
	for node := l.dummyHead.next; node != nil; node = node.next {
		copiedElem, err := node.elem.DeepCopy()
		if err != nil {
			return nil, err
		}
		newNode := &rgaTreeListNode{elem: copiedElem, insPrevKey: node.insPrevKey, prev: tail}
		tail.next = newNode
		copied.nodeMapByCreatedAt[copiedElem.CreatedAt().Key()] = newNode
		copied.length++
		tail = newNode
	}
	copied.last = tail
	return copied, nil
}
