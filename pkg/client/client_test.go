package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/client"
	"github.com/hugehoo/yorkie-client/pkg/document"
	"github.com/hugehoo/yorkie-client/pkg/document/json"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/presence"
	docerrors "github.com/hugehoo/yorkie-client/pkg/errors"
)

func newTestClient(t *testing.T, hub *fakeHub) *client.Client {
	t.Helper()
	c, err := client.New(newFakeConnector(hub), nil)
	require.NoError(t, err)
	return c
}

// S1: activate/deactivate.
func TestClient_ActivateDeactivate(t *testing.T) {
	hub := newFakeHub()
	c := newTestClient(t, hub)
	ctx := context.Background()

	assert.False(t, c.IsActive())
	require.NoError(t, c.Activate(ctx))
	assert.True(t, c.IsActive())

	require.NoError(t, c.Deactivate(ctx))
	assert.False(t, c.IsActive())
}

// S5: state guard errors fire fast on the wrong client/document state.
func TestClient_AttachRequiresActivation(t *testing.T) {
	hub := newFakeHub()
	c := newTestClient(t, hub)
	doc := document.New(key.NewKey("needs-activation"))

	err := c.Attach(context.Background(), doc, client.WithSyncMode(client.SyncModeManual))
	assert.ErrorIs(t, err, docerrors.ErrClientNotActivated)
}

func TestClient_DetachRequiresAttached(t *testing.T) {
	hub := newFakeHub()
	c := newTestClient(t, hub)
	ctx := context.Background()
	require.NoError(t, c.Activate(ctx))

	doc := document.New(key.NewKey("not-attached"))
	err := c.Detach(ctx, doc)
	assert.ErrorIs(t, err, docerrors.ErrDocumentNotAttached)
}

func TestClient_AttachTwiceFails(t *testing.T) {
	hub := newFakeHub()
	c := newTestClient(t, hub)
	ctx := context.Background()
	require.NoError(t, c.Activate(ctx))

	doc := document.New(key.NewKey("double-attach"))
	require.NoError(t, c.Attach(ctx, doc, client.WithSyncMode(client.SyncModeManual)))

	err := c.Attach(ctx, doc, client.WithSyncMode(client.SyncModeManual))
	assert.ErrorIs(t, err, docerrors.ErrDocumentNotDetached)
}

// After RemoveDocument, every further attach/sync/detach/remove on the
// document fails as not-attached.
func TestClient_RemovedDocumentRejectsFurtherOps(t *testing.T) {
	hub := newFakeHub()
	c := newTestClient(t, hub)
	ctx := context.Background()
	require.NoError(t, c.Activate(ctx))

	doc := document.New(key.NewKey("to-remove"))
	require.NoError(t, c.Attach(ctx, doc, client.WithSyncMode(client.SyncModeManual)))
	require.NoError(t, c.Remove(ctx, doc))

	assert.Equal(t, document.StatusRemoved, doc.Status())
	assert.ErrorIs(t, c.Sync(ctx, doc), docerrors.ErrDocumentNotAttached)
	assert.ErrorIs(t, c.Detach(ctx, doc), docerrors.ErrDocumentNotAttached)

	err := doc.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetString("x", "y")
		return nil
	})
	assert.ErrorIs(t, err, docerrors.ErrDocumentRemoved)
}

// S2-style: two clients attach to the same document; manual push-pull
// syncs converge them to the same content.
func TestClient_SyncConvergesTwoClients(t *testing.T) {
	hub := newFakeHub()
	ctx := context.Background()

	c1 := newTestClient(t, hub)
	c2 := newTestClient(t, hub)
	require.NoError(t, c1.Activate(ctx))
	require.NoError(t, c2.Activate(ctx))

	docKey := key.NewKey("shared-doc")
	d1 := document.New(docKey)
	d2 := document.New(docKey)
	require.NoError(t, c1.Attach(ctx, d1, client.WithSyncMode(client.SyncModeManual)))
	require.NoError(t, c2.Attach(ctx, d2, client.WithSyncMode(client.SyncModeManual)))

	require.NoError(t, d1.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetInteger("c1", 1)
		return nil
	}))
	require.NoError(t, d2.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetInteger("c2", 2)
		return nil
	}))

	require.NoError(t, c1.Sync(ctx, d1))
	require.NoError(t, c2.Sync(ctx, d2))
	require.NoError(t, c1.Sync(ctx, d1))

	assert.Equal(t, d1.Marshal(), d2.Marshal())
	assert.Contains(t, d1.Marshal(), `"c1":1`)
	assert.Contains(t, d1.Marshal(), `"c2":2`)
}

// S2: pushOnly ignores the remote changes the response carries.
func TestClient_PushOnlyIgnoresRemoteChanges(t *testing.T) {
	hub := newFakeHub()
	ctx := context.Background()

	c1 := newTestClient(t, hub)
	c2 := newTestClient(t, hub)
	require.NoError(t, c1.Activate(ctx))
	require.NoError(t, c2.Activate(ctx))

	docKey := key.NewKey("push-only-doc")
	d1 := document.New(docKey)
	d2 := document.New(docKey)
	require.NoError(t, c1.Attach(ctx, d1, client.WithSyncMode(client.SyncModeManual)))
	require.NoError(t, c2.Attach(ctx, d2, client.WithSyncMode(client.SyncModeManual)))

	require.NoError(t, d1.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetInteger("c1", 1)
		return nil
	}))
	require.NoError(t, d2.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetInteger("c2", 1)
		return nil
	}))

	require.NoError(t, c1.Sync(ctx, d1, client.PushOnly))
	require.NoError(t, c2.Sync(ctx, d2, client.PushOnly))

	assert.NotEqual(t, d1.Marshal(), d2.Marshal())

	c3 := newTestClient(t, hub)
	require.NoError(t, c3.Activate(ctx))
	d3 := document.New(docKey)
	require.NoError(t, c3.Attach(ctx, d3, client.WithSyncMode(client.SyncModeManual)))
	require.NoError(t, c3.Sync(ctx, d3))
	assert.JSONEq(t, `{"c1":1,"c2":1}`, d3.Marshal())
}

func TestClient_Broadcast(t *testing.T) {
	hub := newFakeHub()
	ctx := context.Background()
	c := newTestClient(t, hub)
	require.NoError(t, c.Activate(ctx))

	doc := document.New(key.NewKey("broadcast-doc"))
	require.NoError(t, c.Attach(ctx, doc, client.WithSyncMode(client.SyncModeManual)))

	require.NoError(t, c.Broadcast(ctx, doc, "cursor", []byte(`{"x":1}`)))
}

func TestClient_AttachSeedsInitialPresence(t *testing.T) {
	hub := newFakeHub()
	ctx := context.Background()
	c := newTestClient(t, hub)
	require.NoError(t, c.Activate(ctx))

	doc := document.New(key.NewKey("presence-doc"))
	require.NoError(t, c.Attach(
		ctx,
		doc,
		client.WithSyncMode(client.SyncModeManual),
		client.WithInitialPresence(map[string]string{"color": "blue"}),
	))

	color, ok := doc.MyPresence().Get("color")
	assert.True(t, ok)
	assert.Equal(t, "blue", color)
}
