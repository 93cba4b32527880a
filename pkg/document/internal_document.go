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

package document

import (
	"go.uber.org/multierr"

	"github.com/hugehoo/yorkie-client/api/converter"
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// InternalDocument holds the committed state of a document: its CRDT
// tree, the presence table, and the bookkeeping (checkpoint, change ID,
// unacknowledged local changes) a sync round advances. Document wraps it
// with the clone-on-Update protection a live mutator call needs.
type InternalDocument struct {
	key          key.Key
	status       StatusType
	root         *crdt.Root
	presences    *innerpresence.Map
	checkpoint   change.Checkpoint
	changeID     change.ID
	localChanges []*change.Change

	// appliedLamports tracks, per actor, the lamport value of the most
	// recent Change from that actor already executed against root. A
	// change's lamport strictly increases within its own actor's
	// sequence, so comparing against this high-water mark is enough to
	// recognize one already incorporated (e.g. a change redelivered by a
	// retried sync round) without keeping every change ID ever seen.
	appliedLamports map[string]uint64

	onlineClients map[string]bool
}

// NewInternalDocument creates a new, empty InternalDocument under k.
func NewInternalDocument(k key.Key) *InternalDocument {
	return &InternalDocument{
		key:             k,
		status:          StatusDetached,
		root:            crdt.NewRoot(crdt.NewObject(time.InitialTicket)),
		presences:       innerpresence.NewMap(),
		checkpoint:      change.InitialCheckpoint,
		changeID:        change.InitialID,
		appliedLamports: make(map[string]uint64),
		onlineClients:   make(map[string]bool),
	}
}

// Key returns the key of this document.
func (d *InternalDocument) Key() key.Key {
	return d.key
}

// RootObject returns the root crdt.Object of this document.
func (d *InternalDocument) RootObject() *crdt.Object {
	return d.root.Object()
}

// Marshal returns the JSON encoding of this document.
func (d *InternalDocument) Marshal() string {
	return d.root.Object().Marshal()
}

// SetActor attributes every local change not yet acknowledged by the
// server (and this document's own change ID) to actorID. Called once
// when a client activates and learns its server-assigned actor ID.
func (d *InternalDocument) SetActor(actorID time.ActorID) {
	for _, c := range d.localChanges {
		c.SetActor(actorID)
	}
	d.changeID = d.changeID.SetActorID(actorID)
}

// ActorID returns ID of the actor currently editing this document.
func (d *InternalDocument) ActorID() time.ActorID {
	return d.changeID.ActorID()
}

// HasLocalChanges returns whether this document has changes not yet
// acknowledged by the server.
func (d *InternalDocument) HasLocalChanges() bool {
	return len(d.localChanges) > 0
}

// Checkpoint returns the checkpoint of this document.
func (d *InternalDocument) Checkpoint() change.Checkpoint {
	return d.checkpoint
}

// CreateChangePack bundles every local change not yet sent to the
// server into a Pack for the next push.
func (d *InternalDocument) CreateChangePack() *change.Pack {
	changes := make([]*change.Change, len(d.localChanges))
	copy(changes, d.localChanges)
	cp := d.checkpoint.IncreaseClientSeq(uint32(len(changes)))
	return change.NewPack(d.key, cp, changes, nil)
}

// UnappliedChanges filters changes down to those this document has not
// already incorporated, per actor's lamport high-water mark. It does not
// mutate that mark; callers that go on to execute the result against
// more than one root (Document.ApplyChangePack replays the same remote
// batch against both its clone and its committed root) must do so with
// the identical filtered slice, and record it applied exactly once via
// markApplied, to keep both roots and the mark in agreement.
func (d *InternalDocument) UnappliedChanges(changes []*change.Change) []*change.Change {
	fresh := make([]*change.Change, 0, len(changes))
	seen := make(map[string]uint64, len(d.appliedLamports))
	for actor, lamport := range d.appliedLamports {
		seen[actor] = lamport
	}
	for _, c := range changes {
		actor := c.ID().ActorID().String()
		if c.ID().Lamport() <= seen[actor] {
			continue
		}
		seen[actor] = c.ID().Lamport()
		fresh = append(fresh, c)
	}
	return fresh
}

// markApplied advances the applied-lamport high-water mark for each
// change's actor, so a later redelivery of the same (or an older) change
// is recognized as already incorporated.
func (d *InternalDocument) markApplied(changes ...*change.Change) {
	for _, c := range changes {
		actor := c.ID().ActorID().String()
		if c.ID().Lamport() > d.appliedLamports[actor] {
			d.appliedLamports[actor] = c.ID().Lamport()
		}
	}
}

// ApplyChanges replays changes against the committed root and presence
// table, returning the DocEvents they produced for Document.Events().
// changes should already have passed through UnappliedChanges; this
// additionally guards direct callers by skipping anything it recognizes
// as already applied rather than silently double-executing it.
func (d *InternalDocument) ApplyChanges(changes ...*change.Change) ([]DocEvent, error) {
	var events []DocEvent
	var errs error

	for _, c := range changes {
		actor := c.ID().ActorID().String()
		if c.ID().Lamport() <= d.appliedLamports[actor] {
			continue
		}

		opInfos, err := c.Execute(d.root, d.presences)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		d.markApplied(c)
		if len(opInfos) > 0 {
			events = append(events, DocEvent{Type: OperationAppliedEvent, OpInfos: opInfos})
		}
		if c.HasPresenceChange() {
			events = append(events, DocEvent{
				Type:      PresenceChangedEvent,
				Presences: map[string]innerpresence.Presence{c.ID().ActorID().String(): *d.presences.LoadOrStore(c.ID().ActorID().String())},
			})
		}
	}

	return events, errs
}

// applySnapshot replaces the committed root with the one encoded in
// snapshot and advances the checkpoint's server sequence to serverSeq.
// Local changes and presences survive: a snapshot only ever compacts the
// document's own history, never a peer's in-flight session state.
func (d *InternalDocument) applySnapshot(snapshot []byte, serverSeq uint64) error {
	obj, err := converter.DecodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	d.root = crdt.NewRoot(obj)
	d.checkpoint = d.checkpoint.SyncServerSeq(serverSeq)
	return nil
}

// GarbageCollect purges elements tombstoned at or before ticket.
func (d *InternalDocument) GarbageCollect(ticket *time.Ticket) (int, error) {
	return d.root.GarbageCollect(ticket), nil
}

// GarbageLen returns the count of elements awaiting garbage collection.
func (d *InternalDocument) GarbageLen() int {
	return d.root.GarbageLen()
}

// SetStatus updates the status of this document.
func (d *InternalDocument) SetStatus(status StatusType) {
	d.status = status
}

// Status returns the status of this document.
func (d *InternalDocument) Status() StatusType {
	return d.status
}

// IsAttached reports whether this document is currently attached.
func (d *InternalDocument) IsAttached() bool {
	return d.status == StatusAttached
}

// Presence returns the presence of the given actor.
func (d *InternalDocument) Presence(actorID string) *innerpresence.Presence {
	if p := d.presences.Get(actorID); p != nil {
		return p
	}
	return innerpresence.New()
}

// MyPresence returns the presence of this document's own actor.
func (d *InternalDocument) MyPresence() *innerpresence.Presence {
	return d.Presence(d.ActorID().String())
}

// SetOnlineClientSet replaces the online-client set with clientIDs.
func (d *InternalDocument) SetOnlineClientSet(clientIDs ...string) {
	d.onlineClients = make(map[string]bool, len(clientIDs))
	for _, id := range clientIDs {
		d.onlineClients[id] = true
	}
}

// AddOnlineClient marks clientID as online.
func (d *InternalDocument) AddOnlineClient(clientID string) {
	d.onlineClients[clientID] = true
}

// RemoveOnlineClient marks clientID as no longer online.
func (d *InternalDocument) RemoveOnlineClient(clientID string) {
	delete(d.onlineClients, clientID)
}

// OnlinePresence returns clientID's presence if it is currently online,
// the zero Presence otherwise.
func (d *InternalDocument) OnlinePresence(clientID string) *innerpresence.Presence {
	if !d.onlineClients[clientID] {
		return innerpresence.New()
	}
	return d.Presence(clientID)
}
