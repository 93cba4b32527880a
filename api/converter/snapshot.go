/*
 * Copyright 2020 The Yorkie Authors. All rights reserved.
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

// Package converter implements the wire-shape this module exchanges with
// the coordinator: structpb/timestamppb encodings for ChangePack and
// presence values, and the snappy-compressed snapshot format a document
// installs once its change log has grown past the sync threshold.
package converter

import (
	"encoding/json"
	"fmt"
	"unicode/utf16"

	"github.com/golang/snappy"

	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// snapshotTicket is the wire shape of a time.Ticket.
type snapshotTicket struct {
	Lamport   uint64 `json:"lamport"`
	Delimiter uint32 `json:"delimiter"`
	ActorID   string `json:"actorId"`
}

func encodeTicket(ticket *time.Ticket) snapshotTicket {
	return snapshotTicket{
		Lamport:   ticket.Lamport(),
		Delimiter: ticket.Delimiter(),
		ActorID:   ticket.ActorID().String(),
	}
}

func decodeTicket(wire snapshotTicket) (*time.Ticket, error) {
	actorID, err := time.ActorIDFromHex(wire.ActorID)
	if err != nil {
		return nil, err
	}
	return time.NewTicket(wire.Lamport, wire.Delimiter, actorID), nil
}

// snapshotField is one key/value pair of a snapshotted Object.
type snapshotField struct {
	Key     string          `json:"key"`
	Element snapshotElement `json:"element"`
}

// snapshotTreeNode is one node of a snapshotted Tree. Only the visible
// structure is carried: a snapshot is only ever installed once every
// attached client has synced past the snapshot's minSyncedTicket, so no
// concurrent operation can still be addressing an already-collected
// tombstone by its original ticket.
type snapshotTreeNode struct {
	Tag      string             `json:"tag,omitempty"`
	IsText   bool               `json:"isText,omitempty"`
	Value    string             `json:"value,omitempty"`
	Attrs    map[string]string  `json:"attrs,omitempty"`
	Children []snapshotTreeNode `json:"children,omitempty"`
}

// snapshotElement is the tagged union carrying one CRDT element, tagged
// by Type. Object/Array/Primitive/Counter carry their original creation
// ticket, so replaying InsertAfter/Set against them after a snapshot load
// still orders correctly against anything a peer created before the
// snapshot was taken. Text/Tree are flattened to their visible content;
// EditByPos/node-ID anchors a peer might still be holding from before the
// snapshot was taken have necessarily already been resolved, for the same
// reason tombstones are safe to compact away.
type snapshotElement struct {
	Type      string         `json:"type"`
	CreatedAt snapshotTicket `json:"createdAt"`

	ObjectFields []snapshotField   `json:"objectFields,omitempty"`
	ArrayItems   []snapshotElement `json:"arrayItems,omitempty"`

	ValueType int         `json:"valueType,omitempty"`
	Value     interface{} `json:"value,omitempty"`

	TextSegments []snapshotTextSegment `json:"textSegments,omitempty"`

	TreeRoot *snapshotTreeNode `json:"treeRoot,omitempty"`
}

type snapshotTextSegment struct {
	Value string            `json:"value"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// snapshotEnvelope is the top-level wire message: the root Object plus
// the highest lamport value observed anywhere in the tree, used to seed
// fresh tickets for the Text/Tree nodes rebuilt on decode.
type snapshotEnvelope struct {
	Root      snapshotElement `json:"root"`
	MaxLamport uint64         `json:"maxLamport"`
}

// objectToSnapshot encodes root's currently visible state into the wire
// envelope used by EncodeSnapshot. Tombstoned elements are not encoded.
func objectToSnapshot(root *crdt.Object) (snapshotEnvelope, error) {
	enc := &snapshotEncoder{}
	wire, err := enc.encodeElement(root)
	if err != nil {
		return snapshotEnvelope{}, err
	}
	return snapshotEnvelope{Root: wire, MaxLamport: enc.maxLamport}, nil
}

type snapshotEncoder struct {
	maxLamport uint64
}

func (e *snapshotEncoder) observe(ticket *time.Ticket) {
	if ticket != nil && ticket.Lamport() > e.maxLamport {
		e.maxLamport = ticket.Lamport()
	}
}

func (e *snapshotEncoder) encodeElement(elem crdt.Element) (snapshotElement, error) {
	e.observe(elem.CreatedAt())
	e.observe(elem.RemovedAt())

	switch v := elem.(type) {
	case *crdt.Object:
		var fields []snapshotField
		for _, key := range v.Keys() {
			child, err := e.encodeElement(v.Get(key))
			if err != nil {
				return snapshotElement{}, err
			}
			fields = append(fields, snapshotField{Key: key, Element: child})
		}
		return snapshotElement{Type: "object", CreatedAt: encodeTicket(v.CreatedAt()), ObjectFields: fields}, nil
	case *crdt.Array:
		var items []snapshotElement
		for _, child := range v.Elements() {
			wireChild, err := e.encodeElement(child)
			if err != nil {
				return snapshotElement{}, err
			}
			items = append(items, wireChild)
		}
		return snapshotElement{Type: "array", CreatedAt: encodeTicket(v.CreatedAt()), ArrayItems: items}, nil
	case *crdt.Primitive:
		return snapshotElement{
			Type:      "primitive",
			CreatedAt: encodeTicket(v.CreatedAt()),
			ValueType: int(v.ValueType()),
			Value:     v.Value(),
		}, nil
	case *crdt.Counter:
		return snapshotElement{
			Type:      "counter",
			CreatedAt: encodeTicket(v.CreatedAt()),
			ValueType: int(v.ValueType()),
			Value:     v.Value(),
		}, nil
	case *crdt.Text:
		var segments []snapshotTextSegment
		for _, seg := range v.Segments() {
			segments = append(segments, snapshotTextSegment{Value: seg.Value, Attrs: seg.Attrs})
		}
		return snapshotElement{Type: "text", CreatedAt: encodeTicket(v.CreatedAt()), TextSegments: segments}, nil
	case *crdt.Tree:
		root := e.encodeTreeNode(v.Root())
		return snapshotElement{Type: "tree", CreatedAt: encodeTicket(v.CreatedAt()), TreeRoot: &root}, nil
	default:
		return snapshotElement{}, fmt.Errorf("encode snapshot: %T: %w", elem, ErrUnsupportedElement)
	}
}

func (e *snapshotEncoder) encodeTreeNode(node *crdt.TreeNode) snapshotTreeNode {
	wire := snapshotTreeNode{Tag: node.Tag(), IsText: node.IsText(), Value: node.Value(), Attrs: node.Attributes()}
	for _, child := range node.Children() {
		wire.Children = append(wire.Children, e.encodeTreeNode(child))
	}
	return wire
}

// snapshotToObject decodes a wire envelope back into a fresh crdt.Object.
// Text/Tree leaves are rebuilt with freshly minted tickets drawn from a
// counter seeded one past env.MaxLamport, so they sort after everything
// the snapshot carried while staying internally consistent.
func snapshotToObject(env snapshotEnvelope) (*crdt.Object, error) {
	dec := &snapshotDecoder{nextLamport: env.MaxLamport + 1}
	elem, err := dec.decodeElement(env.Root)
	if err != nil {
		return nil, err
	}
	obj, ok := elem.(*crdt.Object)
	if !ok {
		return nil, ErrUnsupportedElement
	}
	return obj, nil
}

type snapshotDecoder struct {
	nextLamport uint64
}

func (d *snapshotDecoder) freshTicket() *time.Ticket {
	ticket := time.NewTicket(d.nextLamport, 0, time.InitialActorID)
	d.nextLamport++
	return ticket
}

func (d *snapshotDecoder) decodeElement(wire snapshotElement) (crdt.Element, error) {
	createdAt, err := decodeTicket(wire.CreatedAt)
	if err != nil {
		return nil, err
	}

	switch wire.Type {
	case "object":
		obj := crdt.NewObject(createdAt)
		for _, field := range wire.ObjectFields {
			child, err := d.decodeElement(field.Element)
			if err != nil {
				return nil, err
			}
			obj.Set(field.Key, child)
		}
		return obj, nil
	case "array":
		arr := crdt.NewArray(createdAt)
		for _, item := range wire.ArrayItems {
			child, err := d.decodeElement(item)
			if err != nil {
				return nil, err
			}
			if err := arr.InsertAfter(arr.LastCreatedAt(), child); err != nil {
				return nil, err
			}
		}
		return arr, nil
	case "primitive":
		return crdt.NewPrimitive(normalizeJSONValue(crdt.ValueType(wire.ValueType), wire.Value), createdAt)
	case "counter":
		return crdt.NewCounter(crdt.ValueType(wire.ValueType), normalizeJSONValue(crdt.ValueType(wire.ValueType), wire.Value), createdAt)
	case "text":
		text := crdt.NewText(createdAt)
		offset := 0
		for _, seg := range wire.TextSegments {
			if err := text.Edit(offset, offset, seg.Value, seg.Attrs, d.freshTicket()); err != nil {
				return nil, err
			}
			offset += len(utf16.Encode([]rune(seg.Value)))
		}
		return text, nil
	case "tree":
		tree := crdt.NewTree(createdAt)
		if wire.TreeRoot != nil {
			if err := d.decodeTreeChildren(tree, tree.Root().ID(), *wire.TreeRoot); err != nil {
				return nil, err
			}
		}
		return tree, nil
	default:
		return nil, fmt.Errorf("decode snapshot: %s: %w", wire.Type, ErrUnsupportedElement)
	}
}

func (d *snapshotDecoder) decodeTreeChildren(tree *crdt.Tree, parentID *time.Ticket, wire snapshotTreeNode) error {
	var afterSiblingID *time.Ticket
	for _, child := range wire.Children {
		node, err := d.decodeTreeNode(tree, parentID, afterSiblingID, child)
		if err != nil {
			return err
		}
		afterSiblingID = node
	}
	return nil
}

func (d *snapshotDecoder) decodeTreeNode(
	tree *crdt.Tree,
	parentID, afterSiblingID *time.Ticket,
	wire snapshotTreeNode,
) (*time.Ticket, error) {
	if wire.IsText {
		node, err := tree.InsertText(parentID, afterSiblingID, wire.Value, d.freshTicket())
		if err != nil {
			return nil, err
		}
		return node.ID(), nil
	}

	node, err := tree.InsertElement(parentID, afterSiblingID, wire.Tag, d.freshTicket())
	if err != nil {
		return nil, err
	}
	for key, value := range wire.Attrs {
		if err := tree.SetAttribute(node.ID(), key, value, d.freshTicket()); err != nil {
			return nil, err
		}
	}
	if err := d.decodeTreeChildren(tree, node.ID(), wire); err != nil {
		return nil, err
	}
	return node.ID(), nil
}

// normalizeJSONValue re-types the interface{} encoding/json hands back
// (float64/string/bool/nil) into the concrete Go type NewPrimitive and
// NewCounter expect for valueType.
func normalizeJSONValue(valueType crdt.ValueType, value interface{}) interface{} {
	switch valueType {
	case crdt.ValueTypeInteger:
		if f, ok := value.(float64); ok {
			return int32(f)
		}
	case crdt.ValueTypeLong:
		if f, ok := value.(float64); ok {
			return int64(f)
		}
	case crdt.ValueTypeBytes:
		if s, ok := value.(string); ok {
			return []byte(s)
		}
	}
	return value
}

// EncodeSnapshot serializes root into the compressed byte form a Pack
// carries as its Snapshot payload.
func EncodeSnapshot(root *crdt.Object) ([]byte, error) {
	env, err := objectToSnapshot(root)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

// DecodeSnapshot reverses EncodeSnapshot, rebuilding a fresh root Object.
func DecodeSnapshot(snapshot []byte) (*crdt.Object, error) {
	raw, err := snappy.Decode(nil, snapshot)
	if err != nil {
		return nil, err
	}
	var env snapshotEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return snapshotToObject(env)
}
