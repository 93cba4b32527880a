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

// Package memconn is an in-process implementation of client.Connector,
// standing in for a coordinator reachable over the network. It backs
// cmd/ycli's demo commands and is useful anywhere a caller wants to
// exercise the Client state machine without standing up a server.
package memconn

import (
	"context"
	"sync"

	"github.com/hugehoo/yorkie-client/pkg/client"
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Hub is the shared state every Connector created with New talks to: one
// change log per document key. Multiple Connectors sharing a Hub behave
// like multiple clients of the same coordinator.
type Hub struct {
	mu   sync.Mutex
	docs map[string]*hubDoc
}

type hubDoc struct {
	changes      []*change.Change
	isRemoved    bool
	seenByClient map[string]int
	watchers     map[string]chan client.WatchResponse
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{docs: make(map[string]*hubDoc)}
}

func (h *Hub) doc(k key.Key) *hubDoc {
	d, ok := h.docs[k.String()]
	if !ok {
		d = &hubDoc{
			seenByClient: make(map[string]int),
			watchers:     make(map[string]chan client.WatchResponse),
		}
		h.docs[k.String()] = d
	}
	return d
}

// Connector implements client.Connector against a Hub.
type Connector struct {
	hub *Hub
}

// New creates a Connector backed by hub.
func New(hub *Hub) *Connector {
	return &Connector{hub: hub}
}

// ActivateClient issues a fresh actor ID; the in-memory hub has no
// concept of a client registry keyed by clientKey, since nothing here
// needs to survive a process restart.
func (c *Connector) ActivateClient(_ context.Context, _ string) (string, error) {
	actorID, err := time.NewActorID()
	if err != nil {
		return "", err
	}
	return actorID.String(), nil
}

// DeactivateClient is a no-op: the hub holds no per-client state beyond
// the watch channel, which WatchDocument's context already tears down.
func (c *Connector) DeactivateClient(_ context.Context, _ string) error {
	return nil
}

// AttachDocument pushes pack's changes (there normally are none yet)
// and returns whatever the document already holds.
func (c *Connector) AttachDocument(_ context.Context, clientID string, pack *change.Pack) (*change.Pack, error) {
	resp, err := c.pushPull(clientID, pack, client.PushPull)
	if err != nil {
		return nil, err
	}
	c.broadcastPeerEvent(pack.DocumentKey(), clientID, client.WatchResponsePeerWatched)
	return resp, nil
}

// DetachDocument does a final push-pull before the caller marks the
// document detached.
func (c *Connector) DetachDocument(_ context.Context, clientID string, pack *change.Pack) (*change.Pack, error) {
	resp, err := c.pushPull(clientID, pack, client.PushPull)
	if err != nil {
		return nil, err
	}
	c.broadcastPeerEvent(pack.DocumentKey(), clientID, client.WatchResponsePeerUnwatched)
	return resp, nil
}

// RemoveDocument marks the document removed hub-side and does a final
// push-pull with the response's IsRemoved flag set.
func (c *Connector) RemoveDocument(_ context.Context, clientID string, pack *change.Pack) (*change.Pack, error) {
	c.hub.mu.Lock()
	d := c.hub.doc(pack.DocumentKey())
	d.isRemoved = true
	c.hub.mu.Unlock()

	resp, err := c.pushPull(clientID, pack, client.PushPull)
	if err != nil {
		return nil, err
	}
	resp.SetIsRemoved(true)
	return resp, nil
}

// PushPull exchanges pack per mode.
func (c *Connector) PushPull(_ context.Context, clientID string, pack *change.Pack, mode client.PushPullMode) (*change.Pack, error) {
	resp, err := c.pushPull(clientID, pack, mode)
	if err != nil {
		return nil, err
	}
	if mode != client.PullOnly && pack.HasChanges() {
		c.broadcastChangeEvent(pack.DocumentKey(), clientID)
	}
	return resp, nil
}

func (c *Connector) pushPull(clientID string, pack *change.Pack, mode client.PushPullMode) (*change.Pack, error) {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()

	d := c.hub.doc(pack.DocumentKey())
	prevSeen := min(d.seenByClient[clientID], len(d.changes))

	if mode != client.PullOnly {
		d.changes = append(d.changes, pack.Changes()...)
	}

	var remote []*change.Change
	if mode != client.PushOnly {
		upTo := len(d.changes)
		if mode != client.PullOnly {
			upTo -= len(pack.Changes())
		}
		remote = append(remote, d.changes[prevSeen:upTo]...)
		d.seenByClient[clientID] = len(d.changes)
	}

	cp := change.NewCheckpoint(uint64(len(d.changes)), pack.Checkpoint().ClientSeq())
	resp := change.NewPack(pack.DocumentKey(), cp, remote, nil)
	if d.isRemoved {
		resp.SetIsRemoved(true)
	}
	return resp, nil
}

// WatchDocument returns a channel fed by future pushes other clients
// make to docKey, until ctx is cancelled.
func (c *Connector) WatchDocument(ctx context.Context, clientID string, docKey key.Key) (<-chan client.WatchResponse, error) {
	c.hub.mu.Lock()
	d := c.hub.doc(docKey)
	events := make(chan client.WatchResponse, 16)
	d.watchers[clientID] = events
	c.hub.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.hub.mu.Lock()
		if d.watchers[clientID] == events {
			delete(d.watchers, clientID)
		}
		c.hub.mu.Unlock()
		close(events)
	}()

	return events, nil
}

// Broadcast fans payload out to every other client currently watching
// docKey, delivered as a WatchResponseDocumentChanged nudge; memconn has
// no separate broadcast-topic channel, so the receiving Client learns
// only that something happened and schedules a sync.
func (c *Connector) Broadcast(_ context.Context, clientID string, docKey key.Key, _ string, _ []byte) error {
	c.broadcastChangeEvent(docKey, clientID)
	return nil
}

func (c *Connector) broadcastChangeEvent(docKey key.Key, from string) {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	d := c.hub.doc(docKey)
	for id, ch := range d.watchers {
		if id == from {
			continue
		}
		select {
		case ch <- client.WatchResponse{Type: client.WatchResponseDocumentChanged, ClientID: from}:
		default:
		}
	}
}

func (c *Connector) broadcastPeerEvent(docKey key.Key, from string, typ client.WatchResponseType) {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	d := c.hub.doc(docKey)
	for id, ch := range d.watchers {
		if id == from {
			continue
		}
		select {
		case ch <- client.WatchResponse{Type: typ, ClientID: from}:
		default:
		}
	}
}
