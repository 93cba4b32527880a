package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

func ticketAt(lamport uint64) *time.Ticket {
	actor, _ := time.NewActorID()
	return time.NewTicket(lamport, 0, actor)
}

func TestSet_InstallsAndTombstonesPreviousValue(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	root := crdt.NewRoot(obj)

	v1, _ := crdt.NewPrimitive("a", ticketAt(1))
	set1 := operations.NewSet(obj.CreatedAt(), "k", v1, ticketAt(1))
	_, err := set1.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, `{"k":"a"}`, obj.Marshal())

	v2, _ := crdt.NewPrimitive("b", ticketAt(2))
	set2 := operations.NewSet(obj.CreatedAt(), "k", v2, ticketAt(2))
	infos, err := set2.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, `{"k":"b"}`, obj.Marshal())
	assert.Equal(t, []operations.OpInfo{{Path: "k", Type: operations.TypeSet}}, infos)
	assert.Equal(t, 1, root.GarbageLen())
}

func TestDelete_RemovesVisibleValue(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	v1, _ := crdt.NewPrimitive("a", ticketAt(1))
	obj.Set("k", v1)
	root := crdt.NewRoot(obj)

	del := operations.NewDelete(obj.CreatedAt(), "k", ticketAt(2))
	infos, err := del.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, `{}`, obj.Marshal())
	assert.Equal(t, []operations.OpInfo{{Path: "k", Type: operations.TypeRemove}}, infos)
}

func TestAdd_AppendsToArrayWithinObject(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	arr := crdt.NewArray(ticketAt(1))
	obj.Set("list", arr)
	root := crdt.NewRoot(obj)

	v1, _ := crdt.NewPrimitive("x", ticketAt(2))
	add := operations.NewAdd(arr.CreatedAt(), nil, v1, ticketAt(2))
	infos, err := add.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, arr.Marshal())
	assert.Equal(t, operations.TypeAdd, infos[0].Type)

	v2, _ := crdt.NewPrimitive("y", ticketAt(3))
	add2 := operations.NewAdd(arr.CreatedAt(), v1.CreatedAt(), v2, ticketAt(3))
	_, err = add2.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, `["x","y"]`, arr.Marshal())
}

func TestMove_ReordersArray(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	arr := crdt.NewArray(ticketAt(1))
	obj.Set("list", arr)
	v1, _ := crdt.NewPrimitive("a", ticketAt(2))
	v2, _ := crdt.NewPrimitive("b", ticketAt(3))
	require.NoError(t, arr.InsertAfter(nil, v1))
	require.NoError(t, arr.InsertAfter(v1.CreatedAt(), v2))
	root := crdt.NewRoot(obj)

	mv := operations.NewMove(arr.CreatedAt(), nil, v2.CreatedAt(), ticketAt(4))
	_, err := mv.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, `["b","a"]`, arr.Marshal())
}

func TestRemove_TombstonesArrayElement(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	arr := crdt.NewArray(ticketAt(1))
	obj.Set("list", arr)
	v1, _ := crdt.NewPrimitive("a", ticketAt(2))
	require.NoError(t, arr.InsertAfter(nil, v1))
	root := crdt.NewRoot(obj)

	rm := operations.NewRemove(arr.CreatedAt(), v1.CreatedAt(), ticketAt(3))
	infos, err := rm.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, `[]`, arr.Marshal())
	assert.Equal(t, operations.TypeRemove, infos[0].Type)
}

func TestEdit_InsertsIntoText(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	text := crdt.NewText(ticketAt(1))
	obj.Set("body", text)
	root := crdt.NewRoot(obj)

	fromPos, toPos, err := text.FindRange(0, 0)
	require.NoError(t, err)
	edit := operations.NewEdit(text.CreatedAt(), fromPos, toPos, "hi", nil, ticketAt(2))
	infos, err := edit.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, "hi", text.String())
	assert.Equal(t, operations.TypeEdit, infos[0].Type)
}

func TestStyle_SetsAndRemovesAttributes(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	text := crdt.NewText(ticketAt(1))
	obj.Set("body", text)
	require.NoError(t, text.Edit(0, 0, "hello", nil, ticketAt(2)))
	root := crdt.NewRoot(obj)

	fromPos, toPos, err := text.FindRange(0, 5)
	require.NoError(t, err)

	setStyle := operations.NewSetStyle(text.CreatedAt(), fromPos, toPos, map[string]string{"bold": "true"}, ticketAt(3))
	infos, err := setStyle.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, operations.TypeStyle, infos[0].Type)
	assert.Equal(t, "true", text.Segments()[0].Attrs["bold"])

	removeStyle := operations.NewRemoveStyle(text.CreatedAt(), fromPos, toPos, []string{"bold"}, ticketAt(4))
	_, err = removeStyle.Execute(root)
	require.NoError(t, err)
	_, ok := text.Segments()[0].Attrs["bold"]
	assert.False(t, ok)
}

func TestIncrease_AccumulatesCommutatively(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	counter, err := crdt.NewCounter(crdt.ValueTypeInteger, int32(0), ticketAt(1))
	require.NoError(t, err)
	obj.Set("count", counter)
	root := crdt.NewRoot(obj)

	delta, _ := crdt.NewPrimitive(int32(3), ticketAt(2))
	inc := operations.NewIncrease(counter.CreatedAt(), delta, ticketAt(2))
	infos, err := inc.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, "3", counter.Marshal())
	assert.Equal(t, operations.TypeIncrease, infos[0].Type)
}

func TestTreeInsert_AddsElementAndTextChildren(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	tree := crdt.NewTree(ticketAt(1))
	obj.Set("doc", tree)
	root := crdt.NewRoot(obj)

	insertP := operations.NewTreeInsertElement(tree.CreatedAt(), tree.Root().ID(), nil, "p", ticketAt(2))
	_, err := insertP.Execute(root)
	require.NoError(t, err)

	p := tree.Root().Children()[0]
	insertText := operations.NewTreeInsertText(tree.CreatedAt(), p.ID(), nil, "hi", ticketAt(3))
	_, err = insertText.Execute(root)
	require.NoError(t, err)

	assert.Equal(t, "<root><p>hi</p></root>", tree.ToXML())
}

func TestTreeDelete_RemovesSubtree(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	tree := crdt.NewTree(ticketAt(1))
	obj.Set("doc", tree)
	node, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(2))
	require.NoError(t, err)
	root := crdt.NewRoot(obj)

	del := operations.NewTreeDelete(tree.CreatedAt(), node.ID(), ticketAt(3))
	_, err = del.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, "<root></root>", tree.ToXML())
}

func TestTreeMove_ReparentsNode(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	tree := crdt.NewTree(ticketAt(1))
	obj.Set("doc", tree)
	p1, err := tree.InsertElement(tree.Root().ID(), nil, "p1", ticketAt(2))
	require.NoError(t, err)
	p2, err := tree.InsertElement(tree.Root().ID(), p1.ID(), "p2", ticketAt(3))
	require.NoError(t, err)
	child, err := tree.InsertElement(p1.ID(), nil, "c", ticketAt(4))
	require.NoError(t, err)
	root := crdt.NewRoot(obj)

	mv := operations.NewTreeMove(tree.CreatedAt(), child.ID(), p2.ID(), nil, ticketAt(5))
	_, err = mv.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, "<root><p1></p1><p2><c></c></p2></root>", tree.ToXML())
}

func TestTreeStyle_SetsAndRemovesAttribute(t *testing.T) {
	obj := crdt.NewObject(ticketAt(0))
	tree := crdt.NewTree(ticketAt(1))
	obj.Set("doc", tree)
	node, err := tree.InsertElement(tree.Root().ID(), nil, "p", ticketAt(2))
	require.NoError(t, err)
	root := crdt.NewRoot(obj)

	set := operations.NewTreeSetAttribute(tree.CreatedAt(), node.ID(), "class", "a", ticketAt(3))
	_, err = set.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, `<root><p class="a"></p></root>`, tree.ToXML())

	remove := operations.NewTreeRemoveAttribute(tree.CreatedAt(), node.ID(), "class", ticketAt(4))
	_, err = remove.Execute(root)
	require.NoError(t, err)
	assert.Equal(t, "<root><p></p></root>", tree.ToXML())
}
