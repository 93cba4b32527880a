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
	"unicode/utf16"

	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// TextSegment describes one visible run of Text, used for introspection
// (e.g. rendering rich-text attributes in a UI layer).
type TextSegment struct {
	Value string
	Attrs map[string]string
}

// Text is the CRDT ordered sequence of UTF-16-indexed characters with
// per-range attribute maps. Edits translate an index range into a
// left-sibling anchor and split runs at the boundary; concurrent inserts
// at the same anchor are ordered by createdAt ticket.
type Text struct {
	nodes     *RGATreeSplit
	createdAt *time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewText creates a new, empty instance of Text.
func NewText(createdAt *time.Ticket) *Text {
	return &Text{
		nodes:     NewRGATreeSplit(),
		createdAt: createdAt,
	}
}

// Edit replaces the UTF-16 range [from, to) with content, installing
// attrs (if any) on the newly inserted run. It resolves from/to into
// fixed TextPos anchors against the CURRENT local state: this is the
// step a replica performs once, locally, before shipping the edit as an
// operation so that a remote replica can replay it with EditByPos
// against the same anchors regardless of what else it has applied
// concurrently. Concurrent inserts at the same anchor are ordered by
// executedAt ticket.
func (t *Text) Edit(from, to int, content string, attrs map[string]string, executedAt *time.Ticket) error {
	fromPos, toPos, err := t.FindRange(from, to)
	if err != nil {
		return err
	}
	return t.EditByPos(fromPos, toPos, content, attrs, executedAt)
}

// FindRange resolves a UTF-16 [from, to) index range into fixed TextPos
// anchors against the current local state.
func (t *Text) FindRange(from, to int) (fromPos, toPos TextPos, err error) {
	if to < from {
		return TextPos{}, TextPos{}, ErrOutOfRange
	}
	fromPos, err = t.nodes.FindPos(from)
	if err != nil {
		return TextPos{}, TextPos{}, err
	}
	toPos, err = t.nodes.FindPos(to)
	if err != nil {
		return TextPos{}, TextPos{}, err
	}
	return fromPos, toPos, nil
}

// EditByPos replaces the already-resolved [fromPos, toPos) anchor range
// with content, installing attrs (if any) on the newly inserted run.
// This is the replay path: both local commits and remote changes funnel
// through it using the same anchors so application order never affects
// the converged result.
func (t *Text) EditByPos(fromPos, toPos TextPos, content string, attrs map[string]string, executedAt *time.Ticket) error {
	if fromPos != toPos {
		if err := t.nodes.DeleteBetweenPos(fromPos, toPos, executedAt); err != nil {
			return err
		}
	}
	if content == "" {
		return nil
	}
	id, err := t.nodes.InsertAfterPos(fromPos, content, executedAt)
	if err != nil {
		return err
	}
	if len(attrs) > 0 {
		if err := t.nodes.SetAttrsAt(id, attrs, executedAt); err != nil {
			return err
		}
	}
	return nil
}

// SetStyle resolves [from, to) and installs attrs as LWW entries on every
// run strictly inside it.
func (t *Text) SetStyle(from, to int, attrs map[string]string, executedAt *time.Ticket) error {
	fromPos, toPos, err := t.FindRange(from, to)
	if err != nil {
		return err
	}
	return t.SetStyleByPos(fromPos, toPos, attrs, executedAt)
}

// RemoveStyle resolves [from, to) and installs an explicit tombstone
// entry for each key on every run strictly inside it. Absence of an
// entry means "inherited"; a tombstone means "explicitly cleared".
func (t *Text) RemoveStyle(from, to int, keys []string, executedAt *time.Ticket) error {
	fromPos, toPos, err := t.FindRange(from, to)
	if err != nil {
		return err
	}
	return t.RemoveStyleByPos(fromPos, toPos, keys, executedAt)
}

// SetStyleByPos installs attrs over the already-resolved [fromPos, toPos)
// anchor range. This is the replay path used by operations.
func (t *Text) SetStyleByPos(fromPos, toPos TextPos, attrs map[string]string, executedAt *time.Ticket) error {
	return t.nodes.SetAttrsBetweenPos(fromPos, toPos, attrs, executedAt)
}

// RemoveStyleByPos clears keys over the already-resolved [fromPos, toPos)
// anchor range. This is the replay path used by operations.
func (t *Text) RemoveStyleByPos(fromPos, toPos TextPos, keys []string, executedAt *time.Ticket) error {
	return t.nodes.RemoveAttrsBetweenPos(fromPos, toPos, keys, executedAt)
}

// String returns the visible text content.
func (t *Text) String() string {
	return t.nodes.String()
}

// Len returns the number of visible UTF-16 code units.
func (t *Text) Len() int {
	return t.nodes.Len()
}

// Segments returns the visible runs with their resolved attributes, in
// logical order.
func (t *Text) Segments() []TextSegment {
	var segments []TextSegment
	for _, node := range t.nodes.segments() {
		segments = append(segments, TextSegment{
			Value: string(utf16.Decode(node.value)),
			Attrs: node.attrs.Elements(),
		})
	}
	return segments
}

// PurgeTombstonesBefore reclaims runs tombstoned at or before ticket.
func (t *Text) PurgeTombstonesBefore(ticket *time.Ticket) int {
	return t.nodes.PurgeTombstonesBefore(ticket)
}

// TombstoneCount returns the number of tombstoned runs still held.
func (t *Text) TombstoneCount() int {
	return t.nodes.TombstoneCount()
}

// CreatedAt returns the creation ticket of this text.
func (t *Text) CreatedAt() *time.Ticket {
	return t.createdAt
}

// MovedAt returns the last move ticket of this text, if any.
func (t *Text) MovedAt() *time.Ticket {
	return t.movedAt
}

// SetMovedAt sets the move ticket of this text.
func (t *Text) SetMovedAt(movedAt *time.Ticket) {
	t.movedAt = movedAt
}

// RemovedAt returns the tombstone ticket of this text, if any.
func (t *Text) RemovedAt() *time.Ticket {
	return t.removedAt
}

// Remove tombstones this text if removedAt wins over any existing
// moved/removed ticket.
func (t *Text) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && (t.movedAt == nil || removedAt.After(t.movedAt)) &&
		(t.removedAt == nil || removedAt.After(t.removedAt)) {
		t.removedAt = removedAt
		return true
	}
	return false
}

// DeepCopy returns a deep copy of this text.
func (t *Text) DeepCopy() (Element, error) {
	return &Text{
		nodes:     t.nodes.DeepCopy(),
		createdAt: t.createdAt,
		movedAt:   t.movedAt,
		removedAt: t.removedAt,
	}, nil
}

// Marshal returns the canonical JSON encoding of this text's visible
// content, as a JSON string.
func (t *Text) Marshal() string {
	return marshalString(t.String())
}

// DataSize estimates the byte footprint of this text's visible content.
func (t *Text) DataSize() DataSize {
	size := t.nodes.DataSize()
	size.Meta += ticketMetaSize
	return size
}
