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

// Package operations implements the recorded mutations a Change replays
// against a document's CRDT tree: one type per JSONObject/JSONArray/
// JSONText/JSONTree/JSONCounter mutator call. Every operation addresses
// its target container by the ticket Root indexed it under rather than
// by walking the tree. Operations carry no JSON path; OpInfo describes
// what each one reports instead.
package operations

import (
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// OpInfo describes one applied operation for event emission: what it
// touched and what kind of change occurred. Path is the object key for
// Set and Delete, and the createdAt ticket key of the touched element or
// container for every other operation; it is not a JSON path.
type OpInfo struct {
	Path string
	Type string
}

const (
	// TypeSet is emitted by Object.Set.
	TypeSet = "set"
	// TypeRemove is emitted by Object.Delete and Array.Remove.
	TypeRemove = "remove"
	// TypeAdd is emitted by Array.InsertAfter.
	TypeAdd = "add"
	// TypeMove is emitted by Array.MoveAfter and Tree.Move.
	TypeMove = "move"
	// TypeEdit is emitted by Text.Edit and Tree element/text inserts.
	TypeEdit = "edit"
	// TypeStyle is emitted by Text.SetStyle/RemoveStyle and Tree attribute
	// operations.
	TypeStyle = "style"
	// TypeIncrease is emitted by Counter.Increase.
	TypeIncrease = "increase"
)

// Operation is one recorded mutation, replayable against any replica's
// Root. Execute resolves its target container via root.FindByCreatedAt,
// applies the mutation, and returns the OpInfo records for event
// fan-out.
type Operation interface {
	// Execute applies this operation to root and returns the resulting
	// OpInfo records.
	Execute(root *crdt.Root) ([]OpInfo, error)

	// ExecutedAt returns the ticket this operation was executed (or is to
	// be executed) at.
	ExecutedAt() *time.Ticket
}
