package json_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/json"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

func newProxy(t *testing.T) (*change.Context, *json.Object, *crdt.Root) {
	t.Helper()
	actor, err := time.NewActorID()
	require.NoError(t, err)
	obj := crdt.NewObject(time.InitialTicket)
	root := crdt.NewRoot(obj)
	id := change.NewID(0, 0, actor, 0)
	ctx := change.NewContext(root, id, "")
	return ctx, json.NewObject(ctx, obj), root
}

func TestObject_SetAndGetPrimitives(t *testing.T) {
	_, o, _ := newProxy(t)
	o.SetString("name", "alice")
	o.SetInteger("age", 30)
	o.SetBool("active", true)

	assert.Equal(t, "alice", o.Get("name"))
	assert.Equal(t, int32(30), o.Get("age"))
	assert.Equal(t, true, o.Get("active"))
	assert.Equal(t, `{"active":true,"age":30,"name":"alice"}`, o.Marshal())
}

func TestObject_SetOverwriteTombstonesPreviousAndRegistersGC(t *testing.T) {
	_, o, root := newProxy(t)
	o.SetString("k", "a")
	o.SetString("k", "b")

	assert.Equal(t, "b", o.Get("k"))
	assert.Equal(t, 1, root.GarbageLen())
}

func TestObject_DeleteRemovesKey(t *testing.T) {
	_, o, _ := newProxy(t)
	o.SetString("k", "a")
	o.Delete("k")
	assert.False(t, o.Has("k"))
}

func TestObject_NestedObjectRoundTrips(t *testing.T) {
	_, o, root := newProxy(t)
	nested := o.SetNewObject("child")
	nested.SetString("x", "y")

	roundTripped := o.GetObject("child")
	require.NotNil(t, roundTripped)
	assert.Equal(t, "y", roundTripped.Get("x"))
	assert.Equal(t, 3, root.ElementMapSize()) // root object + child + its "x" value
}

func TestArray_AppendInsertMoveRemove(t *testing.T) {
	_, o, _ := newProxy(t)
	arr := o.SetNewArray("list")
	require.NoError(t, arr.Append("a"))
	require.NoError(t, arr.Append("b"))
	require.NoError(t, arr.Append("c"))
	assert.Equal(t, `["a","b","c"]`, arr.Marshal())

	require.NoError(t, arr.MoveAfter(0, 2))
	assert.Equal(t, `["a","c","b"]`, arr.Marshal())

	require.NoError(t, arr.Remove(1))
	assert.Equal(t, `["a","b"]`, arr.Marshal())
}

func TestText_EditAndStyle(t *testing.T) {
	_, o, _ := newProxy(t)
	text := o.SetNewText("body")
	require.NoError(t, text.Edit(0, 0, "hello", nil))
	assert.Equal(t, "hello", text.String())

	require.NoError(t, text.SetStyle(0, 5, map[string]string{"bold": "true"}))
	require.NoError(t, text.RemoveStyle(0, 5, []string{"bold"}))
}

func TestCounter_Increase(t *testing.T) {
	_, o, _ := newProxy(t)
	counter, err := o.SetNewCounter("count", crdt.ValueTypeInteger, int32(0))
	require.NoError(t, err)

	require.NoError(t, counter.Increase(int32(5)))
	assert.Equal(t, int32(5), counter.Value())
}

func TestTree_InsertAndRender(t *testing.T) {
	_, o, _ := newProxy(t)
	tree := o.SetNewTree("doc")

	pID, err := tree.EditElement(tree.RootID(), nil, "p")
	require.NoError(t, err)
	_, err = tree.EditText(pID, nil, "hi")
	require.NoError(t, err)

	assert.Equal(t, "<root><p>hi</p></root>", tree.ToXML())
}
