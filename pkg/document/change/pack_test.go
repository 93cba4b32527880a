package change_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
)

func TestPack_SetCheckpointDoesNotMutateOriginal(t *testing.T) {
	p := change.NewPack(key.NewKey("doc-1"), change.InitialCheckpoint, nil, nil)
	updated := p.SetCheckpoint(change.NewCheckpoint(3, 2))

	assert.Equal(t, change.InitialCheckpoint, p.Checkpoint())
	assert.Equal(t, change.NewCheckpoint(3, 2), updated.Checkpoint())
}

func TestPack_HasChangesAndHasSnapshot(t *testing.T) {
	withChanges := change.NewPack(key.NewKey("doc-1"), change.InitialCheckpoint, []*change.Change{{}}, nil)
	assert.True(t, withChanges.HasChanges())
	assert.False(t, withChanges.HasSnapshot())

	withSnapshot := change.NewSnapshotPack(key.NewKey("doc-1"), change.InitialCheckpoint, []byte("snap"), nil)
	assert.False(t, withSnapshot.HasChanges())
	assert.True(t, withSnapshot.HasSnapshot())
}
