package change_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hugehoo/yorkie-client/pkg/document/change"
)

func TestCheckpoint_IncreaseClientSeq(t *testing.T) {
	cp := change.InitialCheckpoint
	cp = cp.IncreaseClientSeq(3)
	assert.Equal(t, uint32(3), cp.ClientSeq())
	assert.Equal(t, uint64(0), cp.ServerSeq())
}

func TestCheckpoint_SyncServerSeq(t *testing.T) {
	cp := change.NewCheckpoint(0, 5)
	cp = cp.SyncServerSeq(10)
	assert.Equal(t, uint64(10), cp.ServerSeq())
	assert.Equal(t, uint32(5), cp.ClientSeq())
}

func TestCheckpoint_ForwardNeverRewinds(t *testing.T) {
	cp := change.NewCheckpoint(5, 5)
	forwarded := cp.Forward(change.NewCheckpoint(3, 3))
	assert.Equal(t, cp, forwarded)

	forwarded = cp.Forward(change.NewCheckpoint(8, 2))
	assert.Equal(t, uint64(8), forwarded.ServerSeq())
	assert.Equal(t, uint32(5), forwarded.ClientSeq())
}
