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
	"unicode/utf16"

	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Tree is the CRDT ordered tree of element and text nodes, the
// replicated counterpart of a small XML/HTML document. Each node's
// position among its siblings is resolved like Array: concurrent
// inserts after the same left sibling are ordered by createdAt ticket,
// and moves reparent by ticket tiebreak against any move already applied
// to the target.
type Tree struct {
	root      *TreeNode
	createdAt *time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewTree creates a new Tree rooted at a synthetic "root" element node.
func NewTree(createdAt *time.Ticket) *Tree {
	return &Tree{
		root:      newElementNode(createdAt, "root"),
		createdAt: createdAt,
	}
}

// Root returns the tree's root element node.
func (t *Tree) Root() *TreeNode {
	return t.root
}

// FindNode returns the node created at id, or nil if it has never
// existed in this tree.
func (t *Tree) FindNode(id *time.Ticket) *TreeNode {
	return t.root.findByID(id)
}

// InsertElement inserts a new element node tagged tag as a child of
// parentID, immediately after the sibling identified by afterSiblingID
// (nil for the front of parent's children).
func (t *Tree) InsertElement(parentID *time.Ticket, afterSiblingID *time.Ticket, tag string, createdAt *time.Ticket) (*TreeNode, error) {
	parent := t.root.findByID(parentID)
	if parent == nil || parent.isText {
		return nil, ErrInvalidTreePos
	}
	node := newElementNode(createdAt, tag)
	if err := parent.insertChildAfter(siblingKey(afterSiblingID), node); err != nil {
		return nil, err
	}
	return node, nil
}

// InsertText inserts a new text leaf as a child of parentID, immediately
// after the sibling identified by afterSiblingID (nil for the front).
func (t *Tree) InsertText(parentID *time.Ticket, afterSiblingID *time.Ticket, value string, createdAt *time.Ticket) (*TreeNode, error) {
	parent := t.root.findByID(parentID)
	if parent == nil || parent.isText {
		return nil, ErrInvalidTreePos
	}
	node := newTextNode(createdAt, value)
	if err := parent.insertChildAfter(siblingKey(afterSiblingID), node); err != nil {
		return nil, err
	}
	return node, nil
}

// Delete tombstones the node created at id and its entire subtree.
func (t *Tree) Delete(id *time.Ticket, removedAt *time.Ticket) error {
	node := t.root.findByID(id)
	if node == nil {
		return ErrInvalidTreePos
	}
	markRemoved(node, removedAt)
	return nil
}

func markRemoved(node *TreeNode, removedAt *time.Ticket) {
	if node.removedAt == nil || removedAt.After(node.removedAt) {
		node.removedAt = removedAt
	}
	if node.children == nil {
		return
	}
	for c := node.children.next; c != nil; c = c.next {
		markRemoved(c, removedAt)
	}
}

// Move reparents the node created at id to be a child of newParentID,
// immediately after afterSiblingID, provided executedAt wins over any
// move already applied to it.
func (t *Tree) Move(id *time.Ticket, newParentID *time.Ticket, afterSiblingID *time.Ticket, executedAt *time.Ticket) error {
	node := t.root.findByID(id)
	if node == nil {
		return ErrInvalidTreePos
	}
	newParent := t.root.findByID(newParentID)
	if newParent == nil || newParent.isText {
		return ErrInvalidTreePos
	}
	if node.movedAt != nil && node.movedAt.After(executedAt) {
		return nil
	}

	node.unlinkFromParent()
	node.movedAt = executedAt
	node.prev, node.next, node.parent = nil, nil, nil
	return newParent.insertChildAfter(siblingKey(afterSiblingID), node)
}

// SetAttribute installs key=value as an LWW entry on the element node
// created at id.
func (t *Tree) SetAttribute(id *time.Ticket, key, value string, updatedAt *time.Ticket) error {
	node := t.root.findByID(id)
	if node == nil || node.isText {
		return ErrInvalidTreePos
	}
	node.attrs.Set(key, value, updatedAt)
	return nil
}

// RemoveAttribute installs an explicit tombstone entry for key on the
// element node created at id.
func (t *Tree) RemoveAttribute(id *time.Ticket, key string, updatedAt *time.Ticket) error {
	node := t.root.findByID(id)
	if node == nil || node.isText {
		return ErrInvalidTreePos
	}
	node.attrs.Remove(key, updatedAt)
	return nil
}

func siblingKey(t *time.Ticket) string {
	if t == nil {
		return ""
	}
	return t.Key()
}

// ToXML renders the tree's currently visible nodes as an XML fragment.
func (t *Tree) ToXML() string {
	var sb strings.Builder
	writeXML(&sb, t.root)
	return sb.String()
}

func writeXML(sb *strings.Builder, node *TreeNode) {
	if node.isText {
		sb.WriteString(escapeXML(node.value))
		return
	}
	sb.WriteString("<")
	sb.WriteString(node.tag)
	if node.attrs != nil {
		attrs := node.attrs.Elements()
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(" ")
			sb.WriteString(k)
			sb.WriteString("=\"")
			sb.WriteString(escapeXML(attrs[k]))
			sb.WriteString("\"")
		}
	}
	sb.WriteString(">")
	for _, c := range node.Children() {
		writeXML(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(node.tag)
	sb.WriteString(">")
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
	)
	return replacer.Replace(s)
}

// PurgeTombstonesBefore unlinks every tombstoned node (and its subtree)
// whose removedAt is at or before ticket from its parent's child chain,
// returning the number of top-level nodes purged.
func (t *Tree) PurgeTombstonesBefore(ticket *time.Ticket) int {
	return purgeSubtree(t.root, ticket)
}

func purgeSubtree(node *TreeNode, ticket *time.Ticket) int {
	if node.children == nil {
		return 0
	}
	count := 0
	c := node.children.next
	for c != nil {
		next := c.next
		if c.IsRemoved() && !c.removedAt.After(ticket) {
			c.unlinkFromParent()
			count++
		} else {
			count += purgeSubtree(c, ticket)
		}
		c = next
	}
	return count
}

// TombstoneCount returns the number of tombstoned nodes still held.
func (t *Tree) TombstoneCount() int {
	var nodes []*TreeNode
	t.root.allNodes(&nodes)
	count := 0
	for _, n := range nodes {
		if n.IsRemoved() {
			count++
		}
	}
	return count
}

// CreatedAt returns the creation ticket of this tree.
func (t *Tree) CreatedAt() *time.Ticket {
	return t.createdAt
}

// MovedAt returns the last move ticket of this tree, if any.
func (t *Tree) MovedAt() *time.Ticket {
	return t.movedAt
}

// SetMovedAt sets the move ticket of this tree.
func (t *Tree) SetMovedAt(movedAt *time.Ticket) {
	t.movedAt = movedAt
}

// RemovedAt returns the tombstone ticket of this tree, if any.
func (t *Tree) RemovedAt() *time.Ticket {
	return t.removedAt
}

// Remove tombstones this tree if removedAt wins over any existing
// moved/removed ticket.
func (t *Tree) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && (t.movedAt == nil || removedAt.After(t.movedAt)) &&
		(t.removedAt == nil || removedAt.After(t.removedAt)) {
		t.removedAt = removedAt
		return true
	}
	return false
}

// DeepCopy returns a deep copy of this tree.
func (t *Tree) DeepCopy() (Element, error) {
	return &Tree{
		root:      t.root.deepCopy(),
		createdAt: t.createdAt,
		movedAt:   t.movedAt,
		removedAt: t.removedAt,
	}, nil
}

// Marshal returns the canonical JSON encoding of this tree, as a JSON
// string of its rendered XML.
func (t *Tree) Marshal() string {
	return marshalString(t.ToXML())
}

// DataSize estimates the byte footprint of this tree's nodes.
func (t *Tree) DataSize() DataSize {
	var nodes []*TreeNode
	t.root.allNodes(&nodes)

	size := DataSize{Meta: ticketMetaSize}
	for _, n := range nodes {
		if n.IsRemoved() {
			continue
		}
		size.Meta += ticketMetaSize
		if n.isText {
			size.Data += len(n.value)
		} else {
			size.Data += len(n.tag)
			size = AddDataSize(size, n.attrs.DataSize())
		}
	}
	return size
}

// utf16Len counts s's length in UTF-16 code units, matching how a
// browser's JS runtime measures and indexes string content.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// splitStringAtUTF16 splits s into two strings at the given UTF-16 code
// unit offset.
func splitStringAtUTF16(s string, offset int) (string, string) {
	if offset <= 0 {
		return "", s
	}
	units := 0
	for i, r := range s {
		if units == offset {
			return s[:i], s[i:]
		}
		units += utf16.RuneLen(r)
	}
	return s, ""
}

// treeLocation is the node a linear index falls inside, and the local
// offset within it: a UTF-16 offset into a text leaf's value, or a
// child-count offset into an element's children.
type treeLocation struct {
	node   *TreeNode
	offset int
}

// locate translates index, a linear position over the tree's rendered
// content (each element contributes one unit for its open tag and one
// for its close tag; each text leaf contributes one unit per UTF-16
// code unit), into the node whose interior it falls inside.
func (t *Tree) locate(index int) (treeLocation, error) {
	if index < 0 {
		return treeLocation{}, ErrInvalidTreePos
	}
	return locateIn(t.root, index)
}

func locateIn(node *TreeNode, index int) (treeLocation, error) {
	if node.isText {
		length := utf16Len(node.value)
		if index < 0 || index > length {
			return treeLocation{}, ErrInvalidTreePos
		}
		return treeLocation{node: node, offset: index}, nil
	}

	children := node.Children()
	pos := 0
	for i, c := range children {
		size := c.indexSize()
		if index == pos {
			return treeLocation{node: node, offset: i}, nil
		}
		if index < pos+size {
			local := index - pos
			if !c.isText {
				local--
			}
			return locateIn(c, local)
		}
		pos += size
	}
	if index == pos {
		return treeLocation{node: node, offset: len(children)}, nil
	}
	return treeLocation{}, ErrInvalidTreePos
}

// SplitText splits the text leaf created at id into two siblings at the
// given UTF-16 offset: the original node keeps its ticket and the
// content up to offset, and a new leaf ticketed newID, holding the
// remainder, is linked immediately after it. A no-op if offset already
// sits at an edge of the leaf's content.
func (t *Tree) SplitText(id *time.Ticket, offset int, newID *time.Ticket) error {
	node := t.root.findByID(id)
	if node == nil || !node.isText {
		return ErrInvalidTreePos
	}
	length := utf16Len(node.value)
	if offset <= 0 || offset >= length {
		return nil
	}

	left, right := splitStringAtUTF16(node.value, offset)
	node.value = left
	newNode := newTextNode(newID, right)
	return node.parent.insertChildAfter(node.id.Key(), newNode)
}

// SplitElement cuts the element created at id into two siblings carrying
// the same tag: every child from childOffset onward moves onto a new
// sibling, ticketed newID, linked immediately after id. A no-op if
// childOffset already sits at an edge (front or back) of id's children.
func (t *Tree) SplitElement(id *time.Ticket, childOffset int, newID *time.Ticket) error {
	node := t.root.findByID(id)
	if node == nil || node.isText || node.parent == nil {
		return ErrInvalidTreePos
	}
	children := node.Children()
	if childOffset <= 0 || childOffset >= len(children) {
		return nil
	}

	sibling := newElementNode(newID, node.tag)
	cut := children[childOffset-1]
	tail := sibling.children
	for c := cut.next; c != nil; {
		next := c.next
		c.parent = sibling
		c.prev = tail
		c.next = nil
		tail.next = c
		tail = c
		c = next
	}
	cut.next = nil

	return node.parent.insertChildAfter(node.id.Key(), sibling)
}

// TreeEditStepKind distinguishes the primitive steps Tree.Edit composes
// an index-based edit out of.
type TreeEditStepKind int

// The kinds of step a Tree.Edit call can record.
const (
	TreeEditSplitText TreeEditStepKind = iota
	TreeEditSplitElement
	TreeEditRemove
	TreeEditInsertElement
	TreeEditInsertText
)

// TreeEditStep is one concrete, ticket-identified mutation Tree.Edit
// performed while resolving an index-based edit against the local tree.
// Recording these lets ApplyEditSteps replay the exact same decisions
// on another Tree instance, rather than re-resolving fromIdx/toIdx
// against what may by then be a differently shaped tree.
type TreeEditStep struct {
	Kind           TreeEditStepKind
	TargetID       *time.Ticket
	ParentID       *time.Ticket
	AfterSiblingID *time.Ticket
	Offset         int
	Tag            string
	Text           string
	Ticket         *time.Ticket
}

// resolveAnchor translates index into an insertion anchor (the element
// to link into, and the existing child to link immediately after, nil
// for the front), splitting the text leaf it lands inside, if any, via a
// freshly issued ticket.
func (t *Tree) resolveAnchor(index int, issueTicket func() *time.Ticket) (parent *TreeNode, afterSibling *TreeNode, step *TreeEditStep, err error) {
	loc, err := t.locate(index)
	if err != nil {
		return nil, nil, nil, err
	}

	if !loc.node.isText {
		children := loc.node.Children()
		if loc.offset == 0 {
			return loc.node, nil, nil, nil
		}
		return loc.node, children[loc.offset-1], nil, nil
	}

	// locateIn only ever recurses into a text leaf with a strictly
	// interior offset (an edge offset resolves to the parent element's
	// child-offset instead), so this leaf always needs splitting.
	node := loc.node
	ticket := issueTicket()
	if err := t.SplitText(node.id, loc.offset, ticket); err != nil {
		return nil, nil, nil, err
	}
	s := TreeEditStep{Kind: TreeEditSplitText, TargetID: node.id, Offset: loc.offset, Ticket: ticket}
	return node.parent, node, &s, nil
}

func collectRangeSameParent(parent *TreeNode, afterFrom, afterTo *TreeNode) ([]*TreeNode, error) {
	if afterFrom == afterTo {
		return nil, nil
	}
	start := parent.children.next
	if afterFrom != nil {
		start = afterFrom.next
	}
	var out []*TreeNode
	for c := start; c != nil; c = c.next {
		out = append(out, c)
		if c == afterTo {
			return out, nil
		}
	}
	return nil, ErrInvalidTreePos
}

// Edit resolves the linear index range [fromIdx, toIdx) into anchors,
// deletes whatever whole nodes lie strictly between them, cuts
// splitLevel enclosing ancestors at the resulting boundary, and inserts
// a new element tagged tag (tag != "") or a new text leaf holding value
// (value != "") at the final anchor. issueTicket mints one ticket per
// sub-mutation performed; the returned steps record exactly what
// happened so ApplyEditSteps can replay the same decisions elsewhere.
//
// fromIdx and toIdx must resolve under the same parent: a range that
// crosses an element boundary would need to merge the elements on
// either side of it, which is not supported (ErrTreeEditNotSupported).
func (t *Tree) Edit(fromIdx, toIdx int, tag, value string, splitLevel int, issueTicket func() *time.Ticket) ([]TreeEditStep, error) {
	if toIdx < fromIdx {
		return nil, ErrInvalidTreePos
	}

	var steps []TreeEditStep

	parent, afterFrom, fromSplit, err := t.resolveAnchor(fromIdx, issueTicket)
	if err != nil {
		return nil, err
	}
	if fromSplit != nil {
		steps = append(steps, *fromSplit)
	}

	if toIdx > fromIdx {
		toParent, afterTo, toSplit, err := t.resolveAnchor(toIdx, issueTicket)
		if err != nil {
			return nil, err
		}
		if toSplit != nil {
			steps = append(steps, *toSplit)
		}
		if toParent != parent {
			return nil, ErrTreeEditNotSupported
		}

		removed, err := collectRangeSameParent(parent, afterFrom, afterTo)
		if err != nil {
			return nil, err
		}
		for _, n := range removed {
			ticket := issueTicket()
			if err := t.Delete(n.id, ticket); err != nil {
				return nil, err
			}
			steps = append(steps, TreeEditStep{Kind: TreeEditRemove, TargetID: n.id, Ticket: ticket})
		}
	}

	for i := 0; i < splitLevel && parent.parent != nil; i++ {
		children := parent.Children()
		switch {
		case afterFrom == nil:
			// Already at the very front of parent: move up one level
			// without creating an empty split sibling.
			afterFrom = parent.prevVisibleSibling()
			parent = parent.parent
		case len(children) > 0 && afterFrom == children[len(children)-1]:
			// Already at the very back of parent: likewise move up
			// without splitting.
			afterFrom = parent
			parent = parent.parent
		default:
			childOffset := 0
			for idx, c := range children {
				if c == afterFrom {
					childOffset = idx + 1
					break
				}
			}
			ticket := issueTicket()
			splitID := parent.id
			original := parent
			if err := t.SplitElement(splitID, childOffset, ticket); err != nil {
				return nil, err
			}
			steps = append(steps, TreeEditStep{Kind: TreeEditSplitElement, TargetID: splitID, Offset: childOffset, Ticket: ticket})
			// The insertion point is now the boundary between original
			// and its new sibling, one level further up the tree: that
			// is exactly "immediately after original" from original's
			// own parent's point of view.
			parent, afterFrom = original.parent, original
		}
	}

	if tag == "" && value == "" {
		return steps, nil
	}

	ticket := issueTicket()
	var anchorID *time.Ticket
	if afterFrom != nil {
		anchorID = afterFrom.id
	}
	if tag != "" {
		if _, err := t.InsertElement(parent.id, anchorID, tag, ticket); err != nil {
			return nil, err
		}
		steps = append(steps, TreeEditStep{Kind: TreeEditInsertElement, ParentID: parent.id, AfterSiblingID: anchorID, Tag: tag, Ticket: ticket})
	} else {
		if _, err := t.InsertText(parent.id, anchorID, value, ticket); err != nil {
			return nil, err
		}
		steps = append(steps, TreeEditStep{Kind: TreeEditInsertText, ParentID: parent.id, AfterSiblingID: anchorID, Text: value, Ticket: ticket})
	}
	return steps, nil
}

// ApplyEditSteps replays steps, previously produced by Edit against a
// different (or the same) Tree instance, verbatim by ticket.
func (t *Tree) ApplyEditSteps(steps []TreeEditStep) error {
	for _, s := range steps {
		var err error
		switch s.Kind {
		case TreeEditSplitText:
			err = t.SplitText(s.TargetID, s.Offset, s.Ticket)
		case TreeEditSplitElement:
			err = t.SplitElement(s.TargetID, s.Offset, s.Ticket)
		case TreeEditRemove:
			err = t.Delete(s.TargetID, s.Ticket)
		case TreeEditInsertElement:
			_, err = t.InsertElement(s.ParentID, s.AfterSiblingID, s.Tag, s.Ticket)
		case TreeEditInsertText:
			_, err = t.InsertText(s.ParentID, s.AfterSiblingID, s.Text, s.Ticket)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
