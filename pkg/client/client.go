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

// Package client implements the client state machine: activation,
// document attach/detach/remove, the three sync modes, realtime
// watch-stream handling and presence fan-out, and broadcast. It is the
// caller-facing entry point into this module; Document and the CRDT
// package underneath never talk to the network directly.
package client

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hugehoo/yorkie-client/internal/locker"
	"github.com/hugehoo/yorkie-client/internal/log"
	"github.com/hugehoo/yorkie-client/pkg/document"
	"github.com/hugehoo/yorkie-client/pkg/document/json"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/presence"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
	docerrors "github.com/hugehoo/yorkie-client/pkg/errors"
)

// Status is the activation status of a Client.
type Status int

const (
	// StatusDeactivated is the initial and post-Deactivate status.
	StatusDeactivated Status = iota
	// StatusActivated means the client holds a server-assigned actor ID.
	StatusActivated
)

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == StatusActivated {
		return "activated"
	}
	return "deactivated"
}

// StatusChangedEvent is emitted on Events() whenever the client's own
// activation Status changes.
type StatusChangedEvent struct {
	Status Status
}

// PeersChangedEvent is emitted on Events() as peers watch/unwatch a
// document or update their presence.
type PeersChangedEvent struct {
	DocumentKey key.Key
	ClientID    string
	Kind        PeersChangedEventKind
}

// PeersChangedEventKind distinguishes the four ways a document's peer
// table can change, per §4.6.
type PeersChangedEventKind string

const (
	PeersChangedInitialized     PeersChangedEventKind = "initialized"
	PeersChangedWatched         PeersChangedEventKind = "watched"
	PeersChangedUnwatched       PeersChangedEventKind = "unwatched"
	PeersChangedPresenceChanged PeersChangedEventKind = "presenceChanged"
)

// BroadcastEvent is emitted on Events() when a peer broadcasts a payload
// on a document this client has attached.
type BroadcastEvent struct {
	DocumentKey key.Key
	Topic       string
	Payload     []byte
}

// Client is the caller-facing handle onto one actor's session with the
// coordinator: it owns the RPC connection, the set of attached
// documents, and the client-level activation state machine.
type Client struct {
	conn Connector
	opts *Options

	stateMu sync.Mutex
	status  Status
	actorID time.ActorID

	docLocks    *locker.Locker
	attachments map[key.Key]*attachment

	events chan interface{}
}

// New creates a Client that talks to the coordinator through conn.
func New(conn Connector, opts *Options) (*Client, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		conn:        conn,
		opts:        opts,
		status:      StatusDeactivated,
		actorID:     time.InitialActorID,
		docLocks:    locker.New(),
		attachments: make(map[key.Key]*attachment),
		events:      make(chan interface{}, 16),
	}, nil
}

// Events returns the channel StatusChangedEvent, PeersChangedEvent and
// BroadcastEvent values are delivered on.
func (c *Client) Events() <-chan interface{} {
	return c.events
}

// Key returns this client's identifying key.
func (c *Client) Key() string {
	return c.opts.Key
}

// IsActive reports whether this client currently holds an actor ID.
func (c *Client) IsActive() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.status == StatusActivated
}

// ActorID returns the actor ID assigned on the last successful Activate.
func (c *Client) ActorID() time.ActorID {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.actorID
}

// Activate acquires an actor ID from the coordinator. Fails fast if this
// client is already activated.
func (c *Client) Activate(ctx context.Context) error {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if c.status == StatusActivated {
		return docerrors.New(docerrors.KindClientState, "client is already activated")
	}

	actorIDHex, err := c.conn.ActivateClient(ctx, c.opts.Key)
	if err != nil {
		log.Logger().Error("activate failed", zap.String("key", c.opts.Key), zap.Error(err))
		return docerrors.Wrap(docerrors.KindTransport, "activate client", err)
	}
	actorID, err := time.ActorIDFromHex(actorIDHex)
	if err != nil {
		return docerrors.Wrap(docerrors.KindInvalidArgument, "parse actor id", err)
	}

	c.actorID = actorID
	c.status = StatusActivated
	log.Logger().Info("client activated", zap.String("actorID", actorID.String()))
	c.emit(StatusChangedEvent{Status: StatusActivated})
	return nil
}

// Deactivate detaches every attachment, releases this client's actor ID,
// and stops every background realtime/watch loop. Errors detaching
// individual documents are aggregated rather than aborting the others,
// since one stuck document should never strand the rest.
func (c *Client) Deactivate(ctx context.Context) error {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if c.status == StatusDeactivated {
		return nil
	}

	var errs error
	for k, a := range c.attachments {
		if err := c.detachLocked(ctx, k, a); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if err := c.conn.DeactivateClient(ctx, c.actorID.String()); err != nil {
		errs = multierr.Append(errs, docerrors.Wrap(docerrors.KindTransport, "deactivate client", err))
	}

	c.status = StatusDeactivated
	c.actorID = time.InitialActorID
	log.Logger().Info("client deactivated")
	c.emit(StatusChangedEvent{Status: StatusDeactivated})
	return errs
}

// AttachOption customizes Attach.
type AttachOption func(*attachOptions)

type attachOptions struct {
	initialPresence map[string]string
	syncMode        SyncMode
}

// WithInitialPresence seeds the attaching client's presence before the
// attach RPC, so peers see it from the first WatchDocument response.
func WithInitialPresence(initial map[string]string) AttachOption {
	return func(o *attachOptions) { o.initialPresence = initial }
}

// WithSyncMode sets the attachment's sync mode; SyncModeRealtime is the
// default.
func WithSyncMode(mode SyncMode) AttachOption {
	return func(o *attachOptions) { o.syncMode = mode }
}

// Attach attaches doc to this client: the document must be detached and
// not removed, and this client must be activated. On success the
// document transitions to attached and, in realtime mode, a background
// sync/watch loop starts.
func (c *Client) Attach(ctx context.Context, doc *document.Document, opts ...AttachOption) error {
	c.stateMu.Lock()
	if c.status != StatusActivated {
		c.stateMu.Unlock()
		return docerrors.ErrClientNotActivated
	}
	actorID := c.actorID
	c.stateMu.Unlock()

	if doc.Status() != document.StatusDetached {
		return docerrors.ErrDocumentNotDetached
	}

	o := &attachOptions{syncMode: SyncModeRealtime}
	for _, opt := range opts {
		opt(o)
	}

	doc.SetActor(actorID)
	if len(o.initialPresence) > 0 {
		if err := doc.Update(func(root *json.Object, p *presence.Presence) error {
			for k, v := range o.initialPresence {
				p.Set(k, v)
			}
			return nil
		}, "set initial presence"); err != nil {
			return err
		}
	}

	c.docLocks.Lock(doc.Key().String())
	defer func() {
		_ = c.docLocks.Unlock(doc.Key().String())
	}()

	pack := doc.CreateChangePack()
	respPack, err := c.conn.AttachDocument(ctx, actorID.String(), pack)
	if err != nil {
		return docerrors.Wrap(docerrors.KindTransport, "attach document", err)
	}
	if err := doc.ApplyChangePack(respPack); err != nil {
		return err
	}
	c.drainDocEvents(doc.Key(), doc)
	doc.SetStatus(document.StatusAttached)

	a := newAttachment(doc, o.syncMode)
	c.stateMu.Lock()
	c.attachments[doc.Key()] = a
	c.stateMu.Unlock()

	if o.syncMode == SyncModeRealtime {
		c.startRealtimeLoop(doc.Key(), a)
	}

	log.Logger().Info("document attached", zap.String("key", doc.Key().String()), zap.String("mode", o.syncMode.String()))
	return nil
}

// emit delivers event on the Events() channel without blocking the
// caller forever: a full channel drops the oldest pending event, since
// these are status notifications, not a replication-critical stream.
func (c *Client) emit(event interface{}) {
	select {
	case c.events <- event:
	default:
		select {
		case <-c.events:
		default:
		}
		select {
		case c.events <- event:
		default:
		}
	}
}
