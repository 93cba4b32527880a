package time_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

func TestTicket_Compare(t *testing.T) {
	actorA, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)
	actorB, err := time.ActorIDFromHex("000000000000000000000002")
	assert.NoError(t, err)

	t.Run("orders by lamport first", func(t *testing.T) {
		t1 := time.NewTicket(1, 0, actorA)
		t2 := time.NewTicket(2, 0, actorA)
		assert.True(t, t2.After(t1))
		assert.False(t, t1.After(t2))
	})

	t.Run("falls back to delimiter on lamport tie", func(t *testing.T) {
		t1 := time.NewTicket(5, 0, actorA)
		t2 := time.NewTicket(5, 1, actorA)
		assert.True(t, t2.After(t1))
	})

	t.Run("falls back to actor id on lamport+delimiter tie", func(t *testing.T) {
		t1 := time.NewTicket(5, 0, actorA)
		t2 := time.NewTicket(5, 0, actorB)
		assert.True(t, t2.After(t1))
		assert.Equal(t, 0, t1.Compare(t1))
	})

	t.Run("InitialTicket is smaller than any random ticket", func(t *testing.T) {
		other := time.NewTicket(1, 0, actorA)
		assert.True(t, other.After(time.InitialTicket))
	})

	t.Run("MaxTicket dominates", func(t *testing.T) {
		other := time.NewTicket(1<<40, 10, actorB)
		assert.True(t, time.MaxTicket.After(other))
	})
}

func TestActorID(t *testing.T) {
	id, err := time.NewActorID()
	assert.NoError(t, err)
	assert.Len(t, id.String(), time.ActorIDLen)

	roundTripped, err := time.ActorIDFromHex(id.String())
	assert.NoError(t, err)
	assert.Equal(t, 0, id.Compare(roundTripped))

	_, err = time.ActorIDFromHex("not-hex")
	assert.Error(t, err)
}
