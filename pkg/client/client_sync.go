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
	"time"

	"go.uber.org/zap"

	"github.com/hugehoo/yorkie-client/internal/log"
	"github.com/hugehoo/yorkie-client/pkg/document"
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	docerrors "github.com/hugehoo/yorkie-client/pkg/errors"
)

// Detach sends a final push for doc and transitions it to detached. The
// document must currently be attached to this client.
func (c *Client) Detach(ctx context.Context, doc *document.Document) error {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if c.status != StatusActivated {
		return docerrors.ErrClientNotActivated
	}
	a, ok := c.attachments[doc.Key()]
	if !ok || !doc.IsAttached() {
		return docerrors.ErrDocumentNotAttached
	}
	return c.detachLocked(ctx, doc.Key(), a)
}

// detachLocked does the work of Detach, assuming the caller already
// holds stateMu (Deactivate calls this directly while iterating every
// attachment under its own lock).
func (c *Client) detachLocked(ctx context.Context, k key.Key, a *attachment) error {
	if a.watchCancel != nil {
		a.watchCancel()
	}

	c.docLocks.Lock(k.String())
	defer func() { _ = c.docLocks.Unlock(k.String()) }()

	pack := a.doc.CreateChangePack()
	respPack, err := c.conn.DetachDocument(ctx, c.actorID.String(), pack)
	if err != nil {
		return docerrors.Wrap(docerrors.KindTransport, "detach document", err)
	}
	if err := a.doc.ApplyChangePack(respPack); err != nil {
		return err
	}
	a.doc.SetStatus(document.StatusDetached)
	delete(c.attachments, k)

	log.Logger().Info("document detached", zap.String("key", k.String()))
	return nil
}

// Remove sends a final push marking doc removed server-side. Once this
// returns successfully the document rejects every further mutation.
func (c *Client) Remove(ctx context.Context, doc *document.Document) error {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if c.status != StatusActivated {
		return docerrors.ErrClientNotActivated
	}
	a, ok := c.attachments[doc.Key()]
	if !ok || !doc.IsAttached() {
		return docerrors.ErrDocumentNotAttached
	}
	if a.watchCancel != nil {
		a.watchCancel()
	}

	c.docLocks.Lock(doc.Key().String())
	defer func() { _ = c.docLocks.Unlock(doc.Key().String()) }()

	pack := a.doc.CreateChangePack()
	pack.SetIsRemoved(true)
	respPack, err := c.conn.RemoveDocument(ctx, c.actorID.String(), pack)
	if err != nil {
		return docerrors.Wrap(docerrors.KindTransport, "remove document", err)
	}
	if err := a.doc.ApplyChangePack(respPack); err != nil {
		return err
	}
	a.doc.SetStatus(document.StatusRemoved)
	delete(c.attachments, doc.Key())

	log.Logger().Info("document removed", zap.String("key", doc.Key().String()))
	return nil
}

// Sync performs one push-pull round (or push-only/pull-only, per mode)
// for doc, which must already be attached to this client. At most one
// sync round runs per document at a time; a call that arrives while one
// is already in flight is a no-op, relying on the realtime loop (or the
// next explicit Sync call) to pick up whatever triggered it.
func (c *Client) Sync(ctx context.Context, doc *document.Document, mode ...PushPullMode) error {
	m := PushPull
	if len(mode) > 0 {
		m = mode[0]
	}

	c.stateMu.Lock()
	if c.status != StatusActivated {
		c.stateMu.Unlock()
		return docerrors.ErrClientNotActivated
	}
	actorID := c.actorID
	a, ok := c.attachments[doc.Key()]
	c.stateMu.Unlock()

	if !ok || !doc.IsAttached() {
		return docerrors.ErrDocumentNotAttached
	}

	return c.syncAttachment(ctx, actorID.String(), doc.Key(), a, m)
}

func (c *Client) syncAttachment(ctx context.Context, actorID string, k key.Key, a *attachment, mode PushPullMode) error {
	if !a.tryStartSync() {
		return nil
	}
	defer a.finishSync()

	c.docLocks.Lock(k.String())
	defer func() { _ = c.docLocks.Unlock(k.String()) }()

	pack := a.doc.CreateChangePack()
	if mode == PullOnly {
		pack = change.NewPack(k, a.doc.Checkpoint(), nil, nil)
	}

	respPack, err := c.conn.PushPull(ctx, actorID, pack, mode)
	if err != nil {
		log.Logger().Warn("sync failed, will retry", zap.String("key", k.String()), zap.Error(err))
		return docerrors.Wrap(docerrors.KindTransport, "sync document", err)
	}

	if mode == PushOnly {
		stripped := change.NewPack(respPack.DocumentKey(), respPack.Checkpoint(), nil, respPack.MinSyncedTicket())
		stripped.SetIsRemoved(respPack.IsRemoved())
		respPack = stripped
	}

	if err := a.doc.ApplyChangePack(respPack); err != nil {
		log.Logger().Error("apply change pack failed, sync aborted", zap.String("key", k.String()), zap.Error(err))
		return docerrors.Wrap(docerrors.KindConflict, "sync failed applying remote change", err)
	}
	c.drainDocEvents(k, a.doc)

	log.Logger().Debug("sync completed", zap.String("key", k.String()), zap.String("mode", mode.String()), zap.String("checkpoint", a.doc.Checkpoint().String()))
	return nil
}

// drainDocEvents forwards doc-level presence events as client-level
// PeersChangedEvent(presenceChanged) notifications; operation-applied
// events stay internal to Document's own subscribers.
func (c *Client) drainDocEvents(k key.Key, doc *document.Document) {
	for {
		select {
		case e := <-doc.Events():
			if e.Type != document.PresenceChangedEvent {
				continue
			}
			for actorID := range e.Presences {
				c.emit(PeersChangedEvent{DocumentKey: k, ClientID: actorID, Kind: PeersChangedPresenceChanged})
			}
		default:
			return
		}
	}
}

// Broadcast publishes payload under topic to every other peer currently
// watching doc.
func (c *Client) Broadcast(ctx context.Context, doc *document.Document, topic string, payload []byte) error {
	c.stateMu.Lock()
	if c.status != StatusActivated {
		c.stateMu.Unlock()
		return docerrors.ErrClientNotActivated
	}
	actorID := c.actorID
	_, ok := c.attachments[doc.Key()]
	c.stateMu.Unlock()

	if !ok || !doc.IsAttached() {
		return docerrors.ErrDocumentNotAttached
	}

	if err := c.conn.Broadcast(ctx, actorID.String(), doc.Key(), topic, payload); err != nil {
		return docerrors.Wrap(docerrors.KindTransport, "broadcast", err)
	}
	return nil
}

// startRealtimeLoop launches the background sync ticker and watch-stream
// consumer for a realtime-mode attachment. Both goroutines exit once
// a.watchCancel is called (on Detach/Remove/Deactivate).
func (c *Client) startRealtimeLoop(k key.Key, a *attachment) {
	ctx, cancel := context.WithCancel(context.Background())
	a.watchCancel = cancel

	go c.syncLoop(ctx, k, a)
	go c.watchLoop(ctx, k, a)
}

func (c *Client) syncLoop(ctx context.Context, k key.Key, a *attachment) {
	ticker := time.NewTicker(c.opts.ParseSyncLoopDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.isDirty() && !a.doc.HasLocalChanges() {
				continue
			}
			c.stateMu.Lock()
			actorID := c.actorID.String()
			c.stateMu.Unlock()
			if err := c.syncAttachment(context.Background(), actorID, k, a, PushPull); err != nil {
				log.Logger().Warn("realtime sync failed", zap.String("key", k.String()), zap.Error(err))
			}
		}
	}
}

func (c *Client) watchLoop(ctx context.Context, k key.Key, a *attachment) {
	backoff := c.opts.ParseReconnectStreamDelay()
	initialBackoff := backoff

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		c.stateMu.Lock()
		actorID := c.actorID.String()
		c.stateMu.Unlock()

		events, err := c.conn.WatchDocument(ctx, actorID, k)
		if err != nil {
			log.Logger().Warn("watch stream dial failed, reconnecting",
				zap.String("key", k.String()), zap.Duration("backoff", backoff), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > MaxReconnectStreamDelay {
				backoff = MaxReconnectStreamDelay
			}
			continue
		}
		backoff = initialBackoff

		for ev := range events {
			c.handleWatchResponse(k, a, ev)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (c *Client) handleWatchResponse(k key.Key, a *attachment, ev WatchResponse) {
	switch ev.Type {
	case WatchResponseInitialized:
		a.doc.AddOnlineClient(ev.ClientID)
		a.addPeer(ev.ClientID)
		c.emit(PeersChangedEvent{DocumentKey: k, ClientID: ev.ClientID, Kind: PeersChangedInitialized})
	case WatchResponsePeerWatched:
		a.doc.AddOnlineClient(ev.ClientID)
		a.addPeer(ev.ClientID)
		c.emit(PeersChangedEvent{DocumentKey: k, ClientID: ev.ClientID, Kind: PeersChangedWatched})
	case WatchResponsePeerUnwatched:
		a.doc.RemoveOnlineClient(ev.ClientID)
		a.removePeer(ev.ClientID)
		c.emit(PeersChangedEvent{DocumentKey: k, ClientID: ev.ClientID, Kind: PeersChangedUnwatched})
	case WatchResponseDocumentChanged:
		a.markDirty()
	}
}
