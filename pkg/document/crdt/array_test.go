package crdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
)

func TestArray_InsertAppendsInLogicalOrder(t *testing.T) {
	arr := crdt.NewArray(ticketAt(0))

	v1, _ := crdt.NewPrimitive(int32(1), ticketAt(1))
	require.NoError(t, arr.InsertAfter(nil, v1))

	v2, _ := crdt.NewPrimitive(int32(2), ticketAt(2))
	require.NoError(t, arr.InsertAfter(arr.LastCreatedAt(), v2))

	v3, _ := crdt.NewPrimitive(int32(3), ticketAt(3))
	require.NoError(t, arr.InsertAfter(arr.LastCreatedAt(), v3))

	assert.Equal(t, "[1,2,3]", arr.Marshal())
}

func TestArray_ConcurrentInsertAfterSameAnchorConvergesByTicket(t *testing.T) {
	base, _ := crdt.NewPrimitive(int32(0), ticketAt(1))

	build := func(order []struct {
		val int32
		t   uint64
	}) string {
		arr := crdt.NewArray(ticketAt(0))
		b, _ := crdt.NewPrimitive(int32(0), ticketAt(1))
		require.NoError(t, arr.InsertAfter(nil, b))
		for _, o := range order {
			v, _ := crdt.NewPrimitive(o.val, ticketAt(o.t))
			require.NoError(t, arr.InsertAfter(b.CreatedAt(), v))
		}
		return arr.Marshal()
	}

	_ = base
	orderA := []struct {
		val int32
		t   uint64
	}{{2, 2}, {3, 3}}
	orderB := []struct {
		val int32
		t   uint64
	}{{3, 3}, {2, 2}}

	assert.Equal(t, build(orderA), build(orderB))
}

func TestArray_DeleteAndMove(t *testing.T) {
	arr := crdt.NewArray(ticketAt(0))
	v1, _ := crdt.NewPrimitive(int32(1), ticketAt(1))
	require.NoError(t, arr.InsertAfter(nil, v1))
	v2, _ := crdt.NewPrimitive(int32(2), ticketAt(2))
	require.NoError(t, arr.InsertAfter(v1.CreatedAt(), v2))
	v3, _ := crdt.NewPrimitive(int32(3), ticketAt(3))
	require.NoError(t, arr.InsertAfter(v2.CreatedAt(), v3))

	require.NoError(t, arr.MoveAfter(nil, v3.CreatedAt(), ticketAt(4)))
	assert.Equal(t, "[3,1,2]", arr.Marshal())

	_, err := arr.Delete(v1.CreatedAt(), ticketAt(5))
	require.NoError(t, err)
	assert.Equal(t, "[3,2]", arr.Marshal())
}

func TestArray_StaleMoveIsNoOp(t *testing.T) {
	arr := crdt.NewArray(ticketAt(0))
	v1, _ := crdt.NewPrimitive(int32(1), ticketAt(1))
	require.NoError(t, arr.InsertAfter(nil, v1))
	v2, _ := crdt.NewPrimitive(int32(2), ticketAt(2))
	require.NoError(t, arr.InsertAfter(v1.CreatedAt(), v2))

	require.NoError(t, arr.MoveAfter(nil, v2.CreatedAt(), ticketAt(10)))
	assert.Equal(t, "[2,1]", arr.Marshal())

	// A move with an older ticket than the one already applied must be
	// ignored so convergence doesn't depend on arrival order.
	require.NoError(t, arr.MoveAfter(v1.CreatedAt(), v2.CreatedAt(), ticketAt(5)))
	assert.Equal(t, "[2,1]", arr.Marshal())
}
