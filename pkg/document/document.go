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

// Package document provides the client-side CRDT document: a JSON-like
// tree any number of replicas can concurrently edit through the typed
// json proxy API, converging on the same state regardless of the order
// changes are applied in.
package document

import (
	"fmt"

	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
	"github.com/hugehoo/yorkie-client/pkg/document/json"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/presence"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
	docerrors "github.com/hugehoo/yorkie-client/pkg/errors"
)

// Document represents a document accessible to the caller. Every mutator
// runs against a clone of the committed root, so a mutator that returns
// an error never taints what's already been committed.
//
// How Document works: Update hands the caller a proxy onto a cloned
// root. The proxy records operations.Operation values against a
// change.Context as the mutator runs; once the mutator returns
// successfully those operations are replayed against the real,
// committed root via Change.Execute, and the clone is kept as the new
// base for the next Update call.
type Document struct {
	doc *InternalDocument

	cloneRoot      *crdt.Root
	clonePresences *innerpresence.Map

	maxSize int

	events chan DocEvent
}

// Option configures a Document at construction time.
type Option func(*Document)

// WithMaxSize sets the admission-control limit Update enforces against
// this document's total size, in bytes. Zero (the default) means
// unlimited.
func WithMaxSize(max int) Option {
	return func(d *Document) { d.maxSize = max }
}

// New creates a new, empty Document under k.
func New(k key.Key, opts ...Option) *Document {
	d := &Document{
		doc:    NewInternalDocument(k),
		events: make(chan DocEvent, 64),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetMaxSize updates the admission-control limit Update enforces. Zero
// means unlimited.
func (d *Document) SetMaxSize(max int) {
	d.maxSize = max
}

// Update executes updater against this document, committing the
// operations and presence change it records if updater returns nil.
func (d *Document) Update(
	updater func(root *json.Object, p *presence.Presence) error,
	msgAndArgs ...interface{},
) error {
	if d.doc.Status() == StatusRemoved {
		return docerrors.ErrDocumentRemoved
	}

	if err := d.ensureClone(); err != nil {
		return err
	}

	ctx := change.NewContext(d.cloneRoot, d.doc.changeID.Next(), messageFromMsgAndArgs(msgAndArgs...))

	actorKey := d.ActorID().String()
	if err := updater(
		json.NewObject(ctx, d.cloneRoot.Object()),
		presence.New(ctx, d.clonePresences.LoadOrStore(actorKey)),
	); err != nil {
		// The clone is contaminated by a partially applied mutator; drop it
		// so the next Update call rebuilds it from the last committed root.
		d.cloneRoot = nil
		d.clonePresences = nil
		return err
	}

	if ctx.HasChange() {
		if d.maxSize > 0 {
			size := d.cloneRoot.Object().DataSize()
			if size.Data+size.Meta > d.maxSize {
				d.cloneRoot = nil
				d.clonePresences = nil
				return docerrors.ErrSizeLimitExceeded
			}
		}

		c := ctx.ToChange()
		if _, err := c.Execute(d.doc.root, d.doc.presences); err != nil {
			return err
		}
		d.doc.markApplied(c)

		d.doc.localChanges = append(d.doc.localChanges, c)
		d.doc.changeID = c.ID()
	}

	return nil
}

// ApplyChangePack applies pack, received from the server, to this
// document.
func (d *Document) ApplyChangePack(pack *change.Pack) error {
	if pack.HasSnapshot() {
		d.cloneRoot = nil
		d.clonePresences = nil
		if err := d.doc.applySnapshot(pack.Snapshot(), pack.Checkpoint().ServerSeq()); err != nil {
			return err
		}
	} else if pack.HasChanges() {
		if err := d.ensureClone(); err != nil {
			return err
		}

		// A sync round can redeliver changes this document already
		// incorporated (a retried push-pull, an overlapping watch
		// notification): replaying one verbatim would double an
		// already-applied Counter.Increase or duplicate a Text edit, so
		// both the clone and the committed root only ever see the same,
		// once-filtered batch.
		fresh := d.doc.UnappliedChanges(pack.Changes())
		for _, c := range fresh {
			if _, err := c.Execute(d.cloneRoot, d.clonePresences); err != nil {
				return err
			}
		}

		events, err := d.doc.ApplyChanges(fresh...)
		if err != nil {
			return err
		}
		for _, e := range events {
			d.emit(e)
		}
	}

	for d.HasLocalChanges() {
		c := d.doc.localChanges[0]
		if c.ID().ClientSeq() > pack.Checkpoint().ClientSeq() {
			break
		}
		d.doc.localChanges = d.doc.localChanges[1:]
	}

	d.doc.checkpoint = d.doc.checkpoint.Forward(pack.Checkpoint())

	d.GarbageCollect(pack.MinSyncedTicket())

	if pack.IsRemoved() {
		d.SetStatus(StatusRemoved)
	}

	return nil
}

// InternalDocument returns the internal document this Document wraps.
func (d *Document) InternalDocument() *InternalDocument {
	return d.doc
}

// Key returns the key of this document.
func (d *Document) Key() key.Key {
	return d.doc.Key()
}

// Checkpoint returns the checkpoint of this document.
func (d *Document) Checkpoint() change.Checkpoint {
	return d.doc.Checkpoint()
}

// HasLocalChanges reports whether this document has changes the server
// hasn't acknowledged yet.
func (d *Document) HasLocalChanges() bool {
	return d.doc.HasLocalChanges()
}

// Marshal returns the JSON encoding of this document.
func (d *Document) Marshal() string {
	return d.doc.Marshal()
}

// CreateChangePack bundles this document's local changes for the next
// push to the server.
func (d *Document) CreateChangePack() *change.Pack {
	return d.doc.CreateChangePack()
}

// SetActor attributes this document (and its unacknowledged local
// changes) to actor.
func (d *Document) SetActor(actor time.ActorID) {
	d.doc.SetActor(actor)
}

// ActorID returns the ID of the actor currently editing this document.
func (d *Document) ActorID() time.ActorID {
	return d.doc.ActorID()
}

// SetStatus updates the status of this document.
func (d *Document) SetStatus(status StatusType) {
	d.doc.SetStatus(status)
}

// Status returns the status of this document.
func (d *Document) Status() StatusType {
	return d.doc.Status()
}

// IsAttached reports whether this document is currently attached.
func (d *Document) IsAttached() bool {
	return d.doc.IsAttached()
}

// RootObject returns the internal root crdt.Object of this document.
func (d *Document) RootObject() *crdt.Object {
	return d.doc.RootObject()
}

// Root returns a mutator-facing handle onto a clone of the committed
// root, for read-only inspection outside of Update.
func (d *Document) Root() *json.Object {
	if err := d.ensureClone(); err != nil {
		panic(err)
	}
	ctx := change.NewContext(d.cloneRoot, d.doc.changeID.Next(), "")
	return json.NewObject(ctx, d.cloneRoot.Object())
}

// GarbageCollect purges elements tombstoned at or before ticket from both
// the committed root and, if one exists, the live clone. A nil ticket
// means the minimum synced watermark is unknown (no server connection
// yet), so nothing is safe to reclaim.
func (d *Document) GarbageCollect(ticket *time.Ticket) int {
	if ticket == nil {
		return 0
	}
	if d.cloneRoot != nil {
		d.cloneRoot.GarbageCollect(ticket)
	}
	n, _ := d.doc.GarbageCollect(ticket)
	return n
}

// GarbageLen returns the count of elements awaiting garbage collection.
func (d *Document) GarbageLen() int {
	return d.doc.GarbageLen()
}

// GetDocSize estimates this document's serialized footprint in bytes,
// summing the DataSize of every visible element in the committed root.
func (d *Document) GetDocSize() int {
	size := d.doc.RootObject().DataSize()
	return size.Data + size.Meta
}

func (d *Document) ensureClone() error {
	if d.cloneRoot == nil {
		copied, err := d.doc.root.DeepCopy()
		if err != nil {
			return err
		}
		d.cloneRoot = copied
	}

	if d.clonePresences == nil {
		d.clonePresences = d.doc.presences.DeepCopy()
	}

	return nil
}

// Presences returns every actor's current presence.
func (d *Document) Presences() map[string]innerpresence.Presence {
	presences := make(map[string]innerpresence.Presence)
	for _, actorID := range d.doc.presences.Actors() {
		presences[actorID] = *d.doc.presences.Get(actorID)
	}
	return presences
}

// Presence returns the presence of the given actor.
func (d *Document) Presence(actorID string) *innerpresence.Presence {
	return d.doc.Presence(actorID)
}

// MyPresence returns the presence of this document's own actor.
func (d *Document) MyPresence() *innerpresence.Presence {
	return d.doc.MyPresence()
}

// SetOnlineClientSet replaces the set of clients this document considers
// online, used on the initial WatchDocument response.
func (d *Document) SetOnlineClientSet(clientIDs ...string) {
	d.doc.SetOnlineClientSet(clientIDs...)
}

// AddOnlineClient marks clientID as online.
func (d *Document) AddOnlineClient(clientID string) {
	d.doc.AddOnlineClient(clientID)
}

// RemoveOnlineClient marks clientID as no longer online.
func (d *Document) RemoveOnlineClient(clientID string) {
	d.doc.RemoveOnlineClient(clientID)
}

// OnlinePresence returns clientID's presence if it is currently online.
func (d *Document) OnlinePresence(clientID string) *innerpresence.Presence {
	return d.doc.OnlinePresence(clientID)
}

// Events returns the channel DocEvents are delivered on.
func (d *Document) Events() <-chan DocEvent {
	return d.events
}

// emit delivers event without ever blocking the caller: if the buffer is
// full (no one is draining Events()), the oldest pending event is
// dropped to make room. A missed event here only costs a subscriber
// notification; it never corrupts document state.
func (d *Document) emit(event DocEvent) {
	select {
	case d.events <- event:
	default:
		select {
		case <-d.events:
		default:
		}
		select {
		case d.events <- event:
		default:
		}
	}
}

func messageFromMsgAndArgs(msgAndArgs ...interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%+v", msgAndArgs[0])
	}
	if s, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(s, msgAndArgs[1:]...)
	}
	return ""
}
