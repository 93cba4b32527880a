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

package document

import (
	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
)

// DocEventType represents the type of an event that occurred in the
// document.
type DocEventType string

const (
	// WatchedEvent means the client has established a connection with the
	// server, enabling real-time synchronization.
	WatchedEvent DocEventType = "watched"

	// UnwatchedEvent means a peer has disconnected from the document.
	UnwatchedEvent DocEventType = "unwatched"

	// PresenceChangedEvent means the presence of one of the clients editing
	// the document has changed.
	PresenceChangedEvent DocEventType = "presence-changed"

	// OperationAppliedEvent means a remote change was applied to this
	// document's root.
	OperationAppliedEvent DocEventType = "operation-applied"
)

// DocEvent represents an event that occurred in the document.
type DocEvent struct {
	Type      DocEventType
	Presences map[string]innerpresence.Presence
	OpInfos   []operations.OpInfo
}
