package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/api/converter"
	"github.com/hugehoo/yorkie-client/pkg/document"
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/json"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
	"github.com/hugehoo/yorkie-client/pkg/document/presence"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
	docerrors "github.com/hugehoo/yorkie-client/pkg/errors"
)

func TestDocument_UpdateCommitsOnSuccessAndDropsCloneOnError(t *testing.T) {
	doc := document.New(key.NewKey("updates"))

	require.NoError(t, doc.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetString("title", "hello")
		p.Set("color", "red")
		return nil
	}))

	assert.Equal(t, `{"title":"hello"}`, doc.Marshal())
	assert.True(t, doc.HasLocalChanges())
	color, ok := doc.MyPresence().Get("color")
	assert.True(t, ok)
	assert.Equal(t, "red", color)

	sentinel := assert.AnError
	err := doc.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetString("title", "contaminated")
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	// The failed mutator never touched the committed document.
	assert.Equal(t, `{"title":"hello"}`, doc.Marshal())
}

func TestDocument_CreateChangePackBundlesLocalChanges(t *testing.T) {
	doc := document.New(key.NewKey("pack-source"))
	require.NoError(t, doc.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetInteger("count", 1)
		return nil
	}))

	pack := doc.CreateChangePack()
	assert.True(t, pack.HasChanges())
	assert.Equal(t, uint32(1), pack.Checkpoint().ClientSeq())
}

func TestDocument_ApplyChangePackAdvancesCheckpointAndTrimsLocalChanges(t *testing.T) {
	doc := document.New(key.NewKey("pack-apply"))
	require.NoError(t, doc.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetInteger("count", 1)
		return nil
	}))

	pack := doc.CreateChangePack()
	ackedCheckpoint := pack.Checkpoint().SyncServerSeq(1)
	acked := pack.SetCheckpoint(ackedCheckpoint)

	require.NoError(t, doc.ApplyChangePack(acked))
	assert.False(t, doc.HasLocalChanges())
	assert.Equal(t, uint64(1), doc.Checkpoint().ServerSeq())
}

func TestDocument_GetDocSizeGrowsWithContent(t *testing.T) {
	doc := document.New(key.NewKey("sizing"))
	before := doc.GetDocSize()

	require.NoError(t, doc.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetString("body", "some reasonably sized content")
		return nil
	}))

	assert.Greater(t, doc.GetDocSize(), before)
}

// S4: a snapshot pack replaces the committed root wholesale and advances
// the checkpoint's server sequence, without disturbing local changes or
// presence the snapshot predates.
func TestDocument_ApplyChangePackWithSnapshotReplacesRoot(t *testing.T) {
	source := document.New(key.NewKey("snapshot-source"))
	require.NoError(t, source.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetString("title", "from snapshot")
		root.SetInteger("count", 42)
		return nil
	}))
	snapshot, err := converter.EncodeSnapshot(source.RootObject())
	require.NoError(t, err)

	doc := document.New(key.NewKey("snapshot-target"))
	require.NoError(t, doc.Update(func(root *json.Object, p *presence.Presence) error {
		p.Set("color", "blue")
		return nil
	}))

	pack := change.NewSnapshotPack(
		doc.Key(),
		change.NewCheckpoint(7, doc.Checkpoint().ClientSeq()),
		snapshot,
		nil,
	)
	require.NoError(t, doc.ApplyChangePack(pack))

	assert.Equal(t, source.Marshal(), doc.Marshal())
	assert.Equal(t, uint64(7), doc.Checkpoint().ServerSeq())

	color, ok := doc.MyPresence().Get("color")
	assert.True(t, ok)
	assert.Equal(t, "blue", color)
}

// A remote change redelivered in a second sync round (a retried
// push-pull, an overlapping watch notification) must not be replayed: a
// Counter.Increase applied twice would silently double its value.
func TestDocument_ApplyChangePackIsIdempotentUnderRedelivery(t *testing.T) {
	doc := document.New(key.NewKey("idempotent-apply"))
	require.NoError(t, doc.Update(func(root *json.Object, p *presence.Presence) error {
		_, err := root.SetNewCounter("cnt", crdt.ValueTypeInteger, int32(0))
		return err
	}))
	counterID := doc.RootObject().Get("cnt").(*crdt.Counter).CreatedAt()

	remoteActor, err := time.NewActorID()
	require.NoError(t, err)
	id := change.NewID(0, 1, remoteActor, 1)
	ticket := id.NewTimeTicket(0)
	delta, err := crdt.NewPrimitive(int32(5), ticket)
	require.NoError(t, err)
	remoteChange := change.New(id, "", []operations.Operation{
		operations.NewIncrease(counterID, delta, ticket),
	}, nil)

	pack := change.NewPack(
		doc.Key(),
		change.NewCheckpoint(1, doc.Checkpoint().ClientSeq()),
		[]*change.Change{remoteChange},
		nil,
	)

	require.NoError(t, doc.ApplyChangePack(pack))
	assert.Equal(t, int32(5), doc.RootObject().Get("cnt").(*crdt.Counter).Value())

	// The same pack arrives again (e.g. the ack for the first round was
	// lost and the sync retried): the already-applied change must be
	// skipped, not replayed.
	require.NoError(t, doc.ApplyChangePack(pack))
	assert.Equal(t, int32(5), doc.RootObject().Get("cnt").(*crdt.Counter).Value())
}

// S6: a project-level size limit rejects the local update that would
// exceed it, rolling the clone back and leaving the committed document
// untouched.
func TestDocument_UpdateRejectsWhenOverMaxSize(t *testing.T) {
	doc := document.New(key.NewKey("size-limited"), document.WithMaxSize(70))

	require.NoError(t, doc.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetNewText("body")
		return nil
	}))
	baseline := doc.GetDocSize()

	err := doc.Update(func(root *json.Object, p *presence.Presence) error {
		return root.GetText("body").Edit(0, 0, "helloworld", nil)
	})
	assert.ErrorIs(t, err, docerrors.ErrSizeLimitExceeded)
	assert.Equal(t, docerrors.KindSizeLimitExceeded, docerrors.KindOf(err))
	assert.Equal(t, baseline, doc.GetDocSize())
}
