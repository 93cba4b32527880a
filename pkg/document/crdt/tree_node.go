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

// TreeNode is one node of a Tree: either an element node carrying a tag
// name, an attribute map and ordered children, or a text leaf carrying a
// value. Its sibling position is resolved the same way RGATreeList
// resolves array elements: concurrent inserts after the same left
// sibling are ordered by createdAt ticket.
type TreeNode struct {
	id        *time.Ticket
	parent    *TreeNode
	tag       string
	isText    bool
	value     string
	attrs     *RHT
	removedAt *time.Ticket
	movedAt   *time.Ticket

	// insPrevKey is the ticket key of the left sibling this node was
	// originally inserted after within its parent's child list ("" for
	// the front). It never changes, even across Move, so concurrent
	// inserts anchored to the same sibling can still be ordered.
	insPrevKey string

	prev     *TreeNode
	next     *TreeNode
	children *TreeNode // head sentinel of this node's child chain
}

func newElementNode(createdAt *time.Ticket, tag string) *TreeNode {
	n := &TreeNode{id: createdAt, tag: tag, attrs: NewRHT()}
	n.children = &TreeNode{}
	return n
}

func newTextNode(createdAt *time.Ticket, value string) *TreeNode {
	return &TreeNode{id: createdAt, isText: true, value: value}
}

// ID returns this node's creation ticket, used to address it as a parent
// or sibling anchor in subsequent edits.
func (n *TreeNode) ID() *time.Ticket {
	return n.id
}

// IsText reports whether this node is a text leaf.
func (n *TreeNode) IsText() bool {
	return n.isText
}

// Tag returns the element tag name (meaningless for text nodes).
func (n *TreeNode) Tag() string {
	return n.tag
}

// Value returns the text leaf's value (meaningless for element nodes).
func (n *TreeNode) Value() string {
	return n.value
}

// IsRemoved reports whether this node has been tombstoned.
func (n *TreeNode) IsRemoved() bool {
	return n.removedAt != nil
}

// Attributes returns the element node's currently visible attributes.
func (n *TreeNode) Attributes() map[string]string {
	if n.attrs == nil {
		return nil
	}
	return n.attrs.Elements()
}

// Children returns the node's live children in logical order.
func (n *TreeNode) Children() []*TreeNode {
	if n.children == nil {
		return nil
	}
	var out []*TreeNode
	for c := n.children.next; c != nil; c = c.next {
		if !c.IsRemoved() {
			out = append(out, c)
		}
	}
	return out
}

// findChildAnchor resolves key ("" for the front sentinel) to the node
// in n's child chain that new inserts should be linked after.
func (n *TreeNode) findChildAnchor(key string) (*TreeNode, bool) {
	if key == "" {
		return n.children, true
	}
	for c := n.children.next; c != nil; c = c.next {
		if c.id.Key() == key {
			return c, true
		}
	}
	return nil, false
}

// insertChildAfter links child immediately after the node in n's child
// chain identified by anchorKey, resolving concurrent inserts at the
// same anchor by createdAt ticket.
func (n *TreeNode) insertChildAfter(anchorKey string, child *TreeNode) error {
	anchor, ok := n.findChildAnchor(anchorKey)
	if !ok {
		return ErrChildNotFound
	}

	prev := anchor
	current := anchor.next
	for current != nil && current.insPrevKey == anchorKey {
		if child.id.After(current.id) {
			break
		}
		prev = current
		current = current.next
	}

	child.parent = n
	child.insPrevKey = anchorKey
	child.prev = prev
	child.next = current
	prev.next = child
	if current != nil {
		current.prev = child
	}
	return nil
}

// prevVisibleSibling returns the nearest non-tombstoned node before n in
// its parent's physical child chain, nil if n is at the front.
func (n *TreeNode) prevVisibleSibling() *TreeNode {
	for p := n.prev; p != nil; p = p.prev {
		if !p.IsRemoved() {
			return p
		}
	}
	return nil
}

// indexSize returns how many linear-index units n occupies inside its
// parent's content: a text leaf's UTF-16 length, or 2 (for its own
// open/close tag) plus the index sizes of its live children.
func (n *TreeNode) indexSize() int {
	if n.isText {
		return utf16Len(n.value)
	}
	size := 2
	for _, c := range n.Children() {
		size += c.indexSize()
	}
	return size
}

func (n *TreeNode) unlinkFromParent() {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
}

// findByID searches this node's subtree (including itself) for the node
// with the given creation ticket.
func (n *TreeNode) findByID(id *time.Ticket) *TreeNode {
	if n.id != nil && n.id.Key() == id.Key() {
		return n
	}
	if n.children == nil {
		return nil
	}
	for c := n.children.next; c != nil; c = c.next {
		if found := c.findByID(id); found != nil {
			return found
		}
	}
	return nil
}

// deepCopy returns a structural deep copy of this node and its subtree,
// re-linking parent/children/sibling pointers in the copy.
func (n *TreeNode) deepCopy() *TreeNode {
	copied := &TreeNode{
		id:         n.id,
		tag:        n.tag,
		isText:     n.isText,
		value:      n.value,
		removedAt:  n.removedAt,
		movedAt:    n.movedAt,
		insPrevKey: n.insPrevKey,
	}
	if n.attrs != nil {
		copied.attrs = n.attrs.DeepCopy()
	}
	if n.children != nil {
		copied.children = &TreeNode{}
		tail := copied.children
		for c := n.children.next; c != nil; c = c.next {
			copiedChild := c.deepCopy()
			copiedChild.parent = copied
			copiedChild.prev = tail
			tail.next = copiedChild
			tail = copiedChild
		}
	}
	return copied
}

// allNodes appends this node (if it carries a real ticket, i.e. is not a
// synthetic children-chain head) and every descendant, live and
// tombstoned, into out.
func (n *TreeNode) allNodes(out *[]*TreeNode) {
	if n.id != nil {
		*out = append(*out, n)
	}
	if n.children == nil {
		return
	}
	for c := n.children.next; c != nil; c = c.next {
		c.allNodes(out)
	}
}
