package change_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

func TestID_Next(t *testing.T) {
	actor, err := time.NewActorID()
	require.NoError(t, err)
	id := change.NewID(0, 0, actor, 0)

	next := id.Next()
	assert.Equal(t, uint32(1), next.ClientSeq())
	assert.Equal(t, uint64(1), next.Lamport())
}

func TestID_NewTimeTicketSharesLamportAcrossDelimiters(t *testing.T) {
	actor, err := time.NewActorID()
	require.NoError(t, err)
	id := change.NewID(1, 5, actor, 0)

	t1 := id.NewTimeTicket(0)
	t2 := id.NewTimeTicket(1)
	assert.Equal(t, t1.Lamport(), t2.Lamport())
	assert.NotEqual(t, t1.Delimiter(), t2.Delimiter())
	assert.True(t, t2.After(t1))
}

func TestID_SyncLamportAdvancesPastLarger(t *testing.T) {
	actor, err := time.NewActorID()
	require.NoError(t, err)
	id := change.NewID(0, 3, actor, 0)

	synced := id.SyncLamport(10)
	assert.Equal(t, uint64(11), synced.Lamport())

	synced = id.SyncLamport(1)
	assert.Equal(t, uint64(4), synced.Lamport())
}
