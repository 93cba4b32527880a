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

package change

import (
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Pack is the batch exchanged in one sync round: either a run of local
// Changes to push, or (past the snapshot threshold) a full snapshot of
// the document plus whatever changes have accumulated since it was
// taken. A Pack received from the server additionally carries the
// checkpoint to advance to and, once the document has been removed
// server-side, IsRemoved.
type Pack struct {
	documentKey     key.Key
	checkpoint      Checkpoint
	isRemoved       bool
	changes         []*Change
	snapshot        []byte
	minSyncedTicket *time.Ticket
}

// NewPack creates a Pack carrying changes (no snapshot).
func NewPack(documentKey key.Key, checkpoint Checkpoint, changes []*Change, minSyncedTicket *time.Ticket) *Pack {
	return &Pack{
		documentKey:     documentKey,
		checkpoint:      checkpoint,
		changes:         changes,
		minSyncedTicket: minSyncedTicket,
	}
}

// NewSnapshotPack creates a Pack carrying a snapshot instead of a change
// run, used once the change log has grown past the snapshot threshold.
func NewSnapshotPack(documentKey key.Key, checkpoint Checkpoint, snapshot []byte, minSyncedTicket *time.Ticket) *Pack {
	return &Pack{
		documentKey:     documentKey,
		checkpoint:      checkpoint,
		snapshot:        snapshot,
		minSyncedTicket: minSyncedTicket,
	}
}

// DocumentKey returns the key of the document this pack belongs to.
func (p *Pack) DocumentKey() key.Key {
	return p.documentKey
}

// Checkpoint returns the checkpoint this pack was built (or received)
// at.
func (p *Pack) Checkpoint() Checkpoint {
	return p.checkpoint
}

// SetCheckpoint returns a copy of this pack with checkpoint replaced,
// used once a push/pull response reports the server's view of it.
func (p *Pack) SetCheckpoint(checkpoint Checkpoint) *Pack {
	copied := *p
	copied.checkpoint = checkpoint
	return &copied
}

// IsRemoved reports whether the document this pack describes has been
// removed server-side.
func (p *Pack) IsRemoved() bool {
	return p.isRemoved
}

// SetIsRemoved marks this pack's document as removed.
func (p *Pack) SetIsRemoved(isRemoved bool) {
	p.isRemoved = isRemoved
}

// Changes returns the changes carried in this pack, in application
// order. Empty if this is a snapshot pack.
func (p *Pack) Changes() []*Change {
	return p.changes
}

// HasChanges reports whether this pack carries any changes.
func (p *Pack) HasChanges() bool {
	return len(p.changes) > 0
}

// Snapshot returns the raw snapshot bytes this pack carries, nil if this
// is a change-run pack.
func (p *Pack) Snapshot() []byte {
	return p.snapshot
}

// HasSnapshot reports whether this pack carries a snapshot instead of a
// change run.
func (p *Pack) HasSnapshot() bool {
	return len(p.snapshot) > 0
}

// MinSyncedTicket returns the minimum ticket every attached client has
// synced past, the safe watermark for GarbageCollect. Nil if unknown
// (e.g. this client has no server connection to learn it from).
func (p *Pack) MinSyncedTicket() *time.Ticket {
	return p.minSyncedTicket
}
