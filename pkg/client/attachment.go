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

package client

import (
	"context"
	"sync"

	"github.com/hugehoo/yorkie-client/pkg/document"
)

// attachment is everything a Client tracks about one attached document:
// the document itself, its sync mode, and (in realtime mode) the
// running watch stream and coalescing state.
type attachment struct {
	doc      *document.Document
	syncMode SyncMode

	mu          sync.Mutex
	dirty       bool // a local change or documentChanged event arrived since the last sync
	syncing     bool // a push-pull round is currently in flight
	watchCancel context.CancelFunc
	peers       map[string]bool
}

func newAttachment(doc *document.Document, mode SyncMode) *attachment {
	return &attachment{
		doc:      doc,
		syncMode: mode,
		peers:    make(map[string]bool),
	}
}

// markDirty records that this attachment has something worth syncing,
// returning true the first time it transitions from clean to dirty so
// the realtime loop schedules at most one sync per round regardless of
// how many triggers arrived.
func (a *attachment) markDirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dirty {
		return false
	}
	a.dirty = true
	return true
}

// tryStartSync clears the dirty flag and reports whether a sync round
// may start, refusing to start a second one while one is already in
// flight.
func (a *attachment) tryStartSync() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.syncing {
		return false
	}
	a.syncing = true
	a.dirty = false
	return true
}

func (a *attachment) finishSync() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.syncing = false
}

func (a *attachment) isDirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

func (a *attachment) addPeer(clientID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.peers[clientID] = true
}

func (a *attachment) removePeer(clientID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.peers, clientID)
}
