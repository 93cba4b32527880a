package change_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

func TestContext_ToChangeCarriesPushedOperationsAndPresence(t *testing.T) {
	actor, err := time.NewActorID()
	require.NoError(t, err)
	obj := crdt.NewObject(time.InitialTicket)
	root := crdt.NewRoot(obj)

	id := change.NewID(0, 0, actor, 0)
	ctx := change.NewContext(root, id, "edit")

	ticket := ctx.IssueTimeTicket()
	v, _ := crdt.NewPrimitive("a", ticket)
	ctx.Push(operations.NewSet(obj.CreatedAt(), "k", v, ticket))
	ctx.SetPresenceChange(innerpresence.NewPutChange(map[string]string{"name": `"bob"`}))

	require.True(t, ctx.HasChange())
	c := ctx.ToChange()
	assert.Len(t, c.Operations(), 1)
	assert.NotNil(t, c.PresenceChange())
	assert.Equal(t, "edit", c.Message())
}

func TestChange_ExecuteAppliesOperationsAndPresence(t *testing.T) {
	actor, err := time.NewActorID()
	require.NoError(t, err)
	obj := crdt.NewObject(time.InitialTicket)
	root := crdt.NewRoot(obj)

	id := change.NewID(0, 1, actor, 0)
	ticket := id.NewTimeTicket(0)
	v, _ := crdt.NewPrimitive("a", ticket)
	set := operations.NewSet(obj.CreatedAt(), "k", v, ticket)
	presenceChange := innerpresence.NewPutChange(map[string]string{"name": `"bob"`})

	c := change.New(id, "edit", []operations.Operation{set}, presenceChange)
	presences := innerpresence.NewMap()
	infos, err := c.Execute(root, presences)
	require.NoError(t, err)
	assert.Equal(t, []operations.OpInfo{{Path: "k", Type: operations.TypeSet}}, infos)
	assert.Equal(t, `{"k":"a"}`, obj.Marshal())

	p := presences.Get(actor.String())
	require.NotNil(t, p)
	name, _ := p.Get("name")
	assert.Equal(t, `"bob"`, name)
}

func TestChange_ExecuteAggregatesErrorsWithoutStopping(t *testing.T) {
	actor, err := time.NewActorID()
	require.NoError(t, err)
	obj := crdt.NewObject(time.InitialTicket)
	root := crdt.NewRoot(obj)

	id := change.NewID(0, 1, actor, 0)
	stale := operations.NewDelete(time.NewTicket(999, 0, actor), "missing", id.NewTimeTicket(0))
	ticket := id.NewTimeTicket(1)
	v, _ := crdt.NewPrimitive("a", ticket)
	set := operations.NewSet(obj.CreatedAt(), "k", v, ticket)

	c := change.New(id, "", []operations.Operation{stale, set}, nil)
	infos, err := c.Execute(root, innerpresence.NewMap())
	require.Error(t, err)
	assert.Equal(t, []operations.OpInfo{{Path: "k", Type: operations.TypeSet}}, infos)
}
