package crdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

func TestTree_InsertElementsAndText(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))

	p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)
	_, err = tree.InsertText(p.ID(), nil, "hello", ticketAt(2))
	require.NoError(t, err)

	assert.Equal(t, "<root><p>hello</p></root>", tree.ToXML())
}

func TestTree_InsertAfterSiblingOrdersCorrectly(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)

	a, err := tree.InsertText(p.ID(), nil, "a", ticketAt(2))
	require.NoError(t, err)
	_, err = tree.InsertText(p.ID(), a.ID(), "b", ticketAt(3))
	require.NoError(t, err)

	assert.Equal(t, "<root><p>ab</p></root>", tree.ToXML())
}

func TestTree_ConcurrentInsertAfterSameSiblingConvergesByTicket(t *testing.T) {
	build := func(first, second uint64) string {
		tree := crdt.NewTree(ticketAt(0))
		p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
		require.NoError(t, err)
		_, err = tree.InsertText(p.ID(), nil, "X", ticketAt(first))
		require.NoError(t, err)
		_, err = tree.InsertText(p.ID(), nil, "Y", ticketAt(second))
		require.NoError(t, err)
		return tree.ToXML()
	}

	a := build(10, 20)
	b := build(20, 10)
	assert.Equal(t, a, b)
}

func TestTree_DeleteRemovesSubtree(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)
	_, err = tree.InsertText(p.ID(), nil, "gone", ticketAt(2))
	require.NoError(t, err)

	require.NoError(t, tree.Delete(p.ID(), ticketAt(3)))
	assert.Equal(t, "<root></root>", tree.ToXML())
}

func TestTree_SetAndRemoveAttribute(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)

	require.NoError(t, tree.SetAttribute(p.ID(), "class", "note", ticketAt(2)))
	assert.Equal(t, `<root><p class="note"></p></root>`, tree.ToXML())

	require.NoError(t, tree.RemoveAttribute(p.ID(), "class", ticketAt(3)))
	assert.Equal(t, "<root><p></p></root>", tree.ToXML())
}

func TestTree_MoveReparentsNode(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	a, err := tree.InsertElement(tree.Root().ID(), nil, "a", ticketAt(1))
	require.NoError(t, err)
	b, err := tree.InsertElement(tree.Root().ID(), a.ID(), "b", ticketAt(2))
	require.NoError(t, err)
	leaf, err := tree.InsertText(a.ID(), nil, "x", ticketAt(3))
	require.NoError(t, err)

	require.NoError(t, tree.Move(leaf.ID(), b.ID(), nil, ticketAt(4)))
	assert.Equal(t, "<root><a></a><b>x</b></root>", tree.ToXML())
}

func TestTree_StaleMoveIsNoOp(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	a, err := tree.InsertElement(tree.Root().ID(), nil, "a", ticketAt(1))
	require.NoError(t, err)
	b, err := tree.InsertElement(tree.Root().ID(), a.ID(), "b", ticketAt(2))
	require.NoError(t, err)
	leaf, err := tree.InsertText(a.ID(), nil, "x", ticketAt(3))
	require.NoError(t, err)

	require.NoError(t, tree.Move(leaf.ID(), b.ID(), nil, ticketAt(10)))
	assert.Equal(t, "<root><a></a><b>x</b></root>", tree.ToXML())

	// A move with an older ticket than the one already applied must be
	// ignored so convergence doesn't depend on arrival order.
	require.NoError(t, tree.Move(leaf.ID(), a.ID(), nil, ticketAt(5)))
	assert.Equal(t, "<root><a></a><b>x</b></root>", tree.ToXML())
}

// ticketIssuer returns a func() *time.Ticket minting strictly increasing
// tickets, standing in for change.Context.IssueTimeTicket in tests that
// drive crdt.Tree.Edit directly.
func ticketIssuer(start uint64) func() *time.Ticket {
	n := start
	return func() *time.Ticket {
		ticket := ticketAt(n)
		n++
		return ticket
	}
}

func TestTree_EditInsertsElementAtPlainIndex(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	_, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)

	steps, err := tree.Edit(0, 0, "h1", "", 0, ticketIssuer(10))
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, crdt.TreeEditInsertElement, steps[0].Kind)
	assert.Equal(t, "<root><h1></h1><p></p></root>", tree.ToXML())
}

func TestTree_EditSplitsTextLeafAndInsertsAtMidpoint(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)
	_, err = tree.InsertText(p.ID(), nil, "hello world", ticketAt(2))
	require.NoError(t, err)

	steps, err := tree.Edit(6, 6, "", "NEW", 0, ticketIssuer(10))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, crdt.TreeEditSplitText, steps[0].Kind)
	assert.Equal(t, crdt.TreeEditInsertText, steps[1].Kind)
	assert.Equal(t, "<root><p>helloNEW world</p></root>", tree.ToXML())
}

func TestTree_EditSplitLevelBreaksParagraphInTwo(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)
	_, err = tree.InsertText(p.ID(), nil, "hello world", ticketAt(2))
	require.NoError(t, err)

	steps, err := tree.Edit(6, 6, "", "", 1, ticketIssuer(10))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, crdt.TreeEditSplitText, steps[0].Kind)
	assert.Equal(t, crdt.TreeEditSplitElement, steps[1].Kind)
	assert.Equal(t, "<root><p>hello</p><p> world</p></root>", tree.ToXML())
}

func TestTree_EditDeletesWholeNodesBetweenAnchors(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)
	a, err := tree.InsertText(p.ID(), nil, "a", ticketAt(2))
	require.NoError(t, err)
	_, err = tree.InsertText(p.ID(), a.ID(), "b", ticketAt(3))
	require.NoError(t, err)
	require.Equal(t, "<root><p>ab</p></root>", tree.ToXML())

	// Deletes just the "b" leaf: index 2 lands right after "a", index 3
	// right after "b".
	steps, err := tree.Edit(2, 3, "", "", 0, ticketIssuer(10))
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, crdt.TreeEditRemove, steps[0].Kind)
	assert.Equal(t, "<root><p>a</p></root>", tree.ToXML())
}

func TestTree_EditAcrossElementBoundaryIsUnsupported(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	p1, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)
	_, err = tree.InsertText(p1.ID(), nil, "A", ticketAt(2))
	require.NoError(t, err)
	p2, err := tree.InsertElement(tree.Root().ID(), p1.ID(), "p", ticketAt(3))
	require.NoError(t, err)
	_, err = tree.InsertText(p2.ID(), nil, "B", ticketAt(4))
	require.NoError(t, err)

	require.Equal(t, "<root><p>A</p><p>B</p></root>", tree.ToXML())

	_, err = tree.Edit(2, 4, "", "", 0, ticketIssuer(10))
	assert.ErrorIs(t, err, crdt.ErrTreeEditNotSupported)
}

func TestTree_ApplyEditStepsReplaysIdenticalResult(t *testing.T) {
	original := crdt.NewTree(ticketAt(0))
	p, err := original.InsertElement(original.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)
	_, err = original.InsertText(p.ID(), nil, "hello world", ticketAt(2))
	require.NoError(t, err)

	// A deep copy shares every node's ticket with original, the same way
	// a remote peer's clone would after syncing up to this point, so
	// replaying the recorded steps against it lands on identical IDs.
	copied, err := original.DeepCopy()
	require.NoError(t, err)
	replica := copied.(*crdt.Tree)

	steps, err := original.Edit(6, 6, "", "", 1, ticketIssuer(10))
	require.NoError(t, err)

	require.NoError(t, replica.ApplyEditSteps(steps))
	assert.Equal(t, original.ToXML(), replica.ToXML())
}

func TestTree_DeepCopyIsIndependent(t *testing.T) {
	tree := crdt.NewTree(ticketAt(0))
	p, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(1))
	require.NoError(t, err)
	_, err = tree.InsertText(p.ID(), nil, "hello", ticketAt(2))
	require.NoError(t, err)

	copiedElem, err := tree.DeepCopy()
	require.NoError(t, err)
	copied := copiedElem.(*crdt.Tree)

	_, err = copied.InsertText(p.ID(), nil, "!", ticketAt(3))
	require.NoError(t, err)

	assert.Equal(t, "<root><p>hello</p></root>", tree.ToXML())
	assert.Equal(t, "<root><p>!hello</p></root>", copied.ToXML())
}
