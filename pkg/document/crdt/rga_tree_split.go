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
	"fmt"
	"sort"
	"unicode/utf16"

	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// TextPos identifies a fixed point in a Text's original insertion
// timeline: the ticket of the run that was created, plus the UTF-16
// offset within that original run. Splitting a run never changes the
// identity of its left half, so a TextPos captured once by the
// originating replica (the "translate the index range to a left-sibling
// pair" step) remains resolvable on any replica that has applied the
// same creating change, regardless of what else that replica has split
// or inserted around it since.
type TextPos struct {
	CreatedAt *time.Ticket
	Offset    int
}

// Key returns a unique string key identifying this position.
func (id TextPos) Key() string {
	return fmt.Sprintf("%s:%d", id.CreatedAt.Key(), id.Offset)
}

// textNode is one run of a RGATreeSplit: contiguous text sharing a
// creation ticket, with its own removedAt tombstone and attribute map.
type textNode struct {
	id         TextPos
	value      []uint16
	insPrevKey string
	removedAt  *time.Ticket
	attrs      *RHT

	prev *textNode
	next *textNode
}

func (n *textNode) length() int {
	return len(n.value)
}

func (n *textNode) isRemoved() bool {
	return n.removedAt != nil
}

func (n *textNode) end() int {
	return n.id.Offset + n.length()
}

// RGATreeSplit is the ordering engine behind Text: an ordered sequence of
// textNodes where concurrent inserts anchored to the same left sibling
// are ordered by createdAt ticket, and a TextPos captured against one
// replica's state stays resolvable against any other replica that has
// applied the same creating change.
type RGATreeSplit struct {
	head         *textNode
	nodeMapByPos map[string]*textNode
	runsByTicket map[string][]*textNode // kept sorted by Offset
}

// NewRGATreeSplit creates a new, empty instance of RGATreeSplit.
func NewRGATreeSplit() *RGATreeSplit {
	head := &textNode{id: TextPos{CreatedAt: time.InitialTicket, Offset: 0}}
	s := &RGATreeSplit{
		head:         head,
		nodeMapByPos: make(map[string]*textNode),
		runsByTicket: make(map[string][]*textNode),
	}
	s.register(head)
	return s
}

func (s *RGATreeSplit) register(n *textNode) {
	s.nodeMapByPos[n.id.Key()] = n
	tk := n.id.CreatedAt.Key()
	runs := s.runsByTicket[tk]
	runs = append(runs, n)
	sort.Slice(runs, func(i, j int) bool { return runs[i].id.Offset < runs[j].id.Offset })
	s.runsByTicket[tk] = runs
}

func (s *RGATreeSplit) unregister(n *textNode) {
	delete(s.nodeMapByPos, n.id.Key())
	tk := n.id.CreatedAt.Key()
	runs := s.runsByTicket[tk]
	for i, r := range runs {
		if r == n {
			s.runsByTicket[tk] = append(runs[:i], runs[i+1:]...)
			break
		}
	}
	if len(s.runsByTicket[tk]) == 0 {
		delete(s.runsByTicket, tk)
	}
}

// split cuts n at the given UTF-16 offset (relative to n's start),
// linking a new right-hand node immediately after n in the structural
// list. n itself becomes the left-hand piece in place, so its TextPos
// (and anything anchored to it) stays valid.
func (s *RGATreeSplit) split(n *textNode, offset int) {
	if offset == 0 || offset == n.length() {
		return
	}
	right := &textNode{
		id:         TextPos{CreatedAt: n.id.CreatedAt, Offset: n.id.Offset + offset},
		value:      append([]uint16{}, n.value[offset:]...),
		insPrevKey: n.id.Key(),
		removedAt:  n.removedAt,
		attrs:      n.attrs,
	}
	n.value = n.value[:offset]
	right.prev = n
	right.next = n.next
	if n.next != nil {
		n.next.prev = right
	}
	n.next = right
	s.register(right)
}

// findByIndex walks the visible (logical) sequence to the node
// containing UTF-16 index, splitting it there if index falls strictly
// inside it, and returns the node that now ends exactly at index (the
// left-sibling anchor for an edit at that position).
func (s *RGATreeSplit) findByIndex(index int) (*textNode, error) {
	node := s.head
	remaining := index
	for {
		if !node.isRemoved() {
			if remaining < node.length() {
				s.split(node, remaining)
				return node, nil
			}
			remaining -= node.length()
			if remaining == 0 {
				return node, nil
			}
		}
		if node.next == nil {
			if remaining == 0 {
				return node, nil
			}
			return nil, ErrOutOfRange
		}
		node = node.next
	}
}

// resolvePos locates (splitting if necessary) the exact node ending at
// pos, regardless of how many further splits have happened around it on
// this replica.
func (s *RGATreeSplit) resolvePos(pos TextPos) (*textNode, error) {
	if existing, ok := s.nodeMapByPos[pos.Key()]; ok {
		return existing, nil
	}

	runs := s.runsByTicket[pos.CreatedAt.Key()]
	for _, run := range runs {
		if pos.Offset > run.id.Offset && pos.Offset < run.end() {
			s.split(run, pos.Offset-run.id.Offset)
			return run, nil
		}
	}
	return nil, ErrInvalidTreePos
}

// FindPos returns the TextPos of the node ending exactly at the given
// UTF-16 index, splitting as needed. Called once by the replica
// originating an edit; the result is stable and resolvable by any
// replica that applies the same creating changes.
func (s *RGATreeSplit) FindPos(index int) (TextPos, error) {
	node, err := s.findByIndex(index)
	if err != nil {
		return TextPos{}, err
	}
	return node.id, nil
}

// InsertAfterPos inserts a new run with the given value immediately after
// the node identified by anchor, resolving concurrent inserts at the
// same anchor by createdAt ticket.
func (s *RGATreeSplit) InsertAfterPos(anchor TextPos, value string, createdAt *time.Ticket) (TextPos, error) {
	anchorNode, err := s.resolvePos(anchor)
	if err != nil {
		return TextPos{}, err
	}

	anchorKey := anchorNode.id.Key()
	prev := anchorNode
	current := anchorNode.next
	for current != nil && current.insPrevKey == anchorKey {
		if createdAt.After(current.id.CreatedAt) {
			break
		}
		prev = current
		current = current.next
	}

	node := &textNode{
		id:         TextPos{CreatedAt: createdAt, Offset: 0},
		value:      utf16.Encode([]rune(value)),
		insPrevKey: anchorKey,
		attrs:      NewRHT(),
	}
	node.prev = prev
	node.next = current
	prev.next = node
	if current != nil {
		current.prev = node
	}
	s.register(node)
	return node.id, nil
}

// SetAttrsAt installs attrs as LWW entries directly on the run
// identified by pos (used to style a run immediately after inserting
// it, where pos is the exact id InsertAfterPos returned).
func (s *RGATreeSplit) SetAttrsAt(pos TextPos, attrs map[string]string, updatedAt *time.Ticket) error {
	node, ok := s.nodeMapByPos[pos.Key()]
	if !ok {
		return ErrInvalidTreePos
	}
	for k, v := range attrs {
		node.attrs.Set(k, v, updatedAt)
	}
	return nil
}

// DeleteBetweenPos tombstones every run strictly between fromPos and
// toPos (exclusive of both boundaries) in structural list order.
func (s *RGATreeSplit) DeleteBetweenPos(fromPos, toPos TextPos, removedAt *time.Ticket) error {
	return s.forEachBetween(fromPos, toPos, func(n *textNode) {
		if n.removedAt == nil || removedAt.After(n.removedAt) {
			n.removedAt = removedAt
		}
	})
}

// SetAttrsBetweenPos installs attrs as LWW entries on every run strictly
// between fromPos and toPos.
func (s *RGATreeSplit) SetAttrsBetweenPos(fromPos, toPos TextPos, attrs map[string]string, updatedAt *time.Ticket) error {
	return s.forEachBetween(fromPos, toPos, func(n *textNode) {
		for k, v := range attrs {
			n.attrs.Set(k, v, updatedAt)
		}
	})
}

// RemoveAttrsBetweenPos installs an explicit tombstone entry for each key
// on every run strictly between fromPos and toPos.
func (s *RGATreeSplit) RemoveAttrsBetweenPos(fromPos, toPos TextPos, keys []string, updatedAt *time.Ticket) error {
	return s.forEachBetween(fromPos, toPos, func(n *textNode) {
		for _, k := range keys {
			n.attrs.Remove(k, updatedAt)
		}
	})
}

// forEachBetween calls fn on every run from just after fromPos's node up
// to and including toPos's node — i.e. the run ending at toPos is the
// last one included, matching how FindPos resolves an index to "the node
// whose end is at this boundary". fromPos == toPos means an empty range
// (pure insert, nothing to touch).
func (s *RGATreeSplit) forEachBetween(fromPos, toPos TextPos, fn func(n *textNode)) error {
	from, err := s.resolvePos(fromPos)
	if err != nil {
		return err
	}
	to, err := s.resolvePos(toPos)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}

	for node := from.next; node != nil; node = node.next {
		fn(node)
		if node == to {
			return nil
		}
	}
	return ErrInvalidTreePos
}

// String returns the visible (non-tombstoned) text in logical order.
func (s *RGATreeSplit) String() string {
	var units []uint16
	for node := s.head.next; node != nil; node = node.next {
		if !node.isRemoved() {
			units = append(units, node.value...)
		}
	}
	return string(utf16.Decode(units))
}

// Len returns the number of visible UTF-16 code units.
func (s *RGATreeSplit) Len() int {
	n := 0
	for node := s.head.next; node != nil; node = node.next {
		if !node.isRemoved() {
			n += node.length()
		}
	}
	return n
}

// TombstoneCount returns the number of tombstoned runs still held.
func (s *RGATreeSplit) TombstoneCount() int {
	count := 0
	for node := s.head.next; node != nil; node = node.next {
		if node.isRemoved() {
			count++
		}
	}
	return count
}

// PurgeTombstonesBefore reclaims runs tombstoned at or before ticket,
// returning the number of runs purged.
func (s *RGATreeSplit) PurgeTombstonesBefore(ticket *time.Ticket) int {
	count := 0
	node := s.head.next
	for node != nil {
		next := node.next
		if node.isRemoved() && !node.removedAt.After(ticket) {
			if node.prev != nil {
				node.prev.next = next
			}
			if next != nil {
				next.prev = node.prev
			}
			s.unregister(node)
			count++
		}
		node = next
	}
	return count
}

// DeepCopy returns a deep copy of this split list.
func (s *RGATreeSplit) DeepCopy() *RGATreeSplit {
	copied := NewRGATreeSplit()
	tail := copied.head
	for node := s.head.next; node != nil; node = node.next {
		newNode := &textNode{
			id:         node.id,
			value:      append([]uint16{}, node.value...),
			insPrevKey: node.insPrevKey,
			removedAt:  node.removedAt,
			attrs:      node.attrs.DeepCopy(),
			prev:       tail,
		}
		tail.next = newNode
		copied.register(newNode)
		tail = newNode
	}
	return copied
}

// segments returns the visible runs in logical order, used by Text to
// render per-range attributes for Marshal/inspection.
func (s *RGATreeSplit) segments() []*textNode {
	var out []*textNode
	for node := s.head.next; node != nil; node = node.next {
		if !node.isRemoved() {
			out = append(out, node)
		}
	}
	return out
}

// DataSize estimates the byte footprint of the visible runs.
func (s *RGATreeSplit) DataSize() DataSize {
	size := DataSize{}
	for _, node := range s.segments() {
		size.Data += len(node.value) * 2
		size.Meta += ticketMetaSize
		size = AddDataSize(size, node.attrs.DataSize())
	}
	return size
}
