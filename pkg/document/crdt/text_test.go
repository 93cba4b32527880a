package crdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
)

func TestText_EditAppendsAndDeletes(t *testing.T) {
	text := crdt.NewText(ticketAt(0))

	require.NoError(t, text.Edit(0, 0, "hello", nil, ticketAt(1)))
	assert.Equal(t, "hello", text.String())

	require.NoError(t, text.Edit(5, 5, " world", nil, ticketAt(2)))
	assert.Equal(t, "hello world", text.String())

	require.NoError(t, text.Edit(0, 6, "", nil, ticketAt(3)))
	assert.Equal(t, "world", text.String())
}

func TestText_IndexingMatchesEditPositions(t *testing.T) {
	text := crdt.NewText(ticketAt(0))
	require.NoError(t, text.Edit(0, 0, "abcdef", nil, ticketAt(1)))
	require.NoError(t, text.Edit(2, 4, "XY", nil, ticketAt(2)))
	assert.Equal(t, "abXYef", text.String())
	assert.Equal(t, len("abXYef"), text.Len())
}

func TestText_StyleAndRemoveStyle(t *testing.T) {
	text := crdt.NewText(ticketAt(0))
	require.NoError(t, text.Edit(0, 0, "hello", nil, ticketAt(1)))
	require.NoError(t, text.SetStyle(0, 5, map[string]string{"bold": "true"}, ticketAt(2)))

	segments := text.Segments()
	require.Len(t, segments, 1)
	assert.Equal(t, "true", segments[0].Attrs["bold"])

	require.NoError(t, text.RemoveStyle(0, 5, []string{"bold"}, ticketAt(3)))
	segments = text.Segments()
	require.Len(t, segments, 1)
	_, ok := segments[0].Attrs["bold"]
	assert.False(t, ok, "removed style must not resurface as a visible attribute")
}

func TestText_ConcurrentInsertAtSamePositionConvergesByTicket(t *testing.T) {
	// Two replicas start from the same ancestor state ("base") and each
	// independently resolves index 2 into a fixed anchor before the other
	// replica's concurrent insert is known, mirroring how a real client
	// resolves an edit's position once, locally, before broadcasting it.
	ancestor := crdt.NewText(ticketAt(0))
	require.NoError(t, ancestor.Edit(0, 0, "base", nil, ticketAt(1)))

	fromA, toA, err := ancestor.FindRange(2, 2)
	require.NoError(t, err)
	fromB, toB, err := ancestor.FindRange(2, 2)
	require.NoError(t, err)
	require.Equal(t, fromA, fromB, "both replicas must resolve the same anchor from the common ancestor")

	replicate := func() *crdt.Text {
		text := crdt.NewText(ticketAt(0))
		require.NoError(t, text.Edit(0, 0, "base", nil, ticketAt(1)))
		return text
	}

	// Replica 1 applies insert A (ticket 10) then insert B (ticket 20),
	// both anchored against the pre-recorded ancestor position.
	r1 := replicate()
	require.NoError(t, r1.EditByPos(fromA, toA, "A", nil, ticketAt(10)))
	require.NoError(t, r1.EditByPos(fromB, toB, "B", nil, ticketAt(20)))

	// Replica 2 applies the same two operations in the opposite order.
	r2 := replicate()
	require.NoError(t, r2.EditByPos(fromB, toB, "B", nil, ticketAt(20)))
	require.NoError(t, r2.EditByPos(fromA, toA, "A", nil, ticketAt(10)))

	assert.Equal(t, r1.String(), r2.String())
}
