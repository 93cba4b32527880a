package crdt_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// testActor is shared by every ticketAt call, so two calls with the same
// lamport yield equal tickets.
var testActor, _ = time.NewActorID()

func ticketAt(lamport uint64) *time.Ticket {
	return time.NewTicket(lamport, 0, testActor)
}

func TestCounter_Commutativity(t *testing.T) {
	c1, err := crdt.NewCounter(crdt.ValueTypeInteger, int32(0), ticketAt(1))
	require.NoError(t, err)
	c2, err := crdt.NewCounter(crdt.ValueTypeInteger, int32(0), ticketAt(1))
	require.NoError(t, err)

	a, err := crdt.NewPrimitive(int32(3), ticketAt(2))
	require.NoError(t, err)
	b, err := crdt.NewPrimitive(int32(5), ticketAt(3))
	require.NoError(t, err)

	require.NoError(t, c1.Increase(a))
	require.NoError(t, c1.Increase(b))

	require.NoError(t, c2.Increase(b))
	require.NoError(t, c2.Increase(a))

	assert.Equal(t, c1.Value(), c2.Value())
	assert.Equal(t, int32(8), c1.Value())
}

func TestCounter_TypeMismatch(t *testing.T) {
	c, err := crdt.NewCounter(crdt.ValueTypeInteger, int32(0), ticketAt(1))
	require.NoError(t, err)

	delta, err := crdt.NewPrimitive(int64(1), ticketAt(2))
	require.NoError(t, err)

	err = c.Increase(delta)
	assert.ErrorIs(t, err, crdt.ErrCounterTypeMismatch)
}

func TestCounter_IntegerOverflowWraps(t *testing.T) {
	c, err := crdt.NewCounter(crdt.ValueTypeInteger, int32(math.MaxInt32), ticketAt(1))
	require.NoError(t, err)

	one, err := crdt.NewPrimitive(int32(1), ticketAt(2))
	require.NoError(t, err)

	require.NoError(t, c.Increase(one))
	assert.Equal(t, int32(math.MinInt32), c.Value())
}

func TestCounter_RejectsNonNumericType(t *testing.T) {
	_, err := crdt.NewCounter(crdt.ValueTypeString, "nope", ticketAt(1))
	assert.ErrorIs(t, err, crdt.ErrUnsupportedValueType)
}
