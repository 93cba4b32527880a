package client_test

import (
	"context"
	"sync"

	"github.com/hugehoo/yorkie-client/pkg/client"
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// fakeHub is a minimal in-memory stand-in for the coordinator: one
// global change log per document key, shared by every fakeConnector
// instance attached to it. It lets tests exercise the real Client state
// machine without a network.
type fakeHub struct {
	mu   sync.Mutex
	docs map[string]*fakeDoc
}

type fakeDoc struct {
	changes      []*change.Change
	isRemoved    bool
	seenByClient map[string]int
}

func newFakeHub() *fakeHub {
	return &fakeHub{docs: make(map[string]*fakeDoc)}
}

func (h *fakeHub) doc(k key.Key) *fakeDoc {
	d, ok := h.docs[k.String()]
	if !ok {
		d = &fakeDoc{seenByClient: make(map[string]int)}
		h.docs[k.String()] = d
	}
	return d
}

// fakeConnector implements client.Connector against a shared fakeHub,
// playing the role of the out-of-scope wire transport in these tests.
type fakeConnector struct {
	hub *fakeHub
}

func newFakeConnector(hub *fakeHub) *fakeConnector {
	return &fakeConnector{hub: hub}
}

func (f *fakeConnector) ActivateClient(_ context.Context, _ string) (string, error) {
	actorID, err := time.NewActorID()
	if err != nil {
		return "", err
	}
	return actorID.String(), nil
}

func (f *fakeConnector) DeactivateClient(_ context.Context, _ string) error {
	return nil
}

func (f *fakeConnector) AttachDocument(ctx context.Context, clientID string, pack *change.Pack) (*change.Pack, error) {
	return f.pushPullLocked(clientID, pack, client.PushPull)
}

func (f *fakeConnector) DetachDocument(ctx context.Context, clientID string, pack *change.Pack) (*change.Pack, error) {
	return f.pushPullLocked(clientID, pack, client.PushPull)
}

func (f *fakeConnector) RemoveDocument(ctx context.Context, clientID string, pack *change.Pack) (*change.Pack, error) {
	f.hub.mu.Lock()
	d := f.hub.doc(pack.DocumentKey())
	d.isRemoved = true
	f.hub.mu.Unlock()
	resp, err := f.pushPullLocked(clientID, pack, client.PushPull)
	if err != nil {
		return nil, err
	}
	resp.SetIsRemoved(true)
	return resp, nil
}

func (f *fakeConnector) PushPull(ctx context.Context, clientID string, pack *change.Pack, mode client.PushPullMode) (*change.Pack, error) {
	return f.pushPullLocked(clientID, pack, mode)
}

func (f *fakeConnector) pushPullLocked(clientID string, pack *change.Pack, mode client.PushPullMode) (*change.Pack, error) {
	f.hub.mu.Lock()
	defer f.hub.mu.Unlock()

	d := f.hub.doc(pack.DocumentKey())
	prevSeen := min(d.seenByClient[clientID], len(d.changes))

	if mode != client.PullOnly {
		d.changes = append(d.changes, pack.Changes()...)
	}

	var remote []*change.Change
	if mode != client.PushOnly {
		// Everything since prevSeen, except the changes this same call just
		// pushed (the client already has those). Only a call that actually
		// pulls advances the watermark: a push-only call learns nothing
		// about the remote log, so it must not be marked as having seen it.
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

func (f *fakeConnector) WatchDocument(ctx context.Context, _ string, _ key.Key) (<-chan client.WatchResponse, error) {
	events := make(chan client.WatchResponse)
	go func() {
		<-ctx.Done()
		close(events)
	}()
	return events, nil
}

func (f *fakeConnector) Broadcast(ctx context.Context, _ string, _ key.Key, _ string, _ []byte) error {
	return nil
}
