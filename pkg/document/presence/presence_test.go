package presence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
	"github.com/hugehoo/yorkie-client/pkg/document/presence"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

func newContext(t *testing.T) *change.Context {
	t.Helper()
	actor, err := time.NewActorID()
	require.NoError(t, err)
	obj := crdt.NewObject(time.InitialTicket)
	root := crdt.NewRoot(obj)
	id := change.NewID(0, 0, actor, 0)
	return change.NewContext(root, id, "")
}

func TestPresence_SetRecordsPresenceChange(t *testing.T) {
	ctx := newContext(t)
	p := presence.New(ctx, innerpresence.New())

	p.Set("cursor", `{"x":1}`)
	v, ok := p.Get("cursor")
	require.True(t, ok)
	assert.Equal(t, `{"x":1}`, v)

	c := ctx.ToChange()
	require.NotNil(t, c.PresenceChange())
	assert.Equal(t, innerpresence.Put, c.PresenceChange().ChangeType)
}

func TestPresence_MultipleSetCallsMergeIntoOnePresenceChange(t *testing.T) {
	ctx := newContext(t)
	p := presence.New(ctx, innerpresence.New())

	p.Set("name", `"bob"`)
	p.Set("color", `"blue"`)

	c := ctx.ToChange()
	require.NotNil(t, c.PresenceChange())
	assert.Equal(t, innerpresence.Put, c.PresenceChange().ChangeType)
	assert.Equal(t, map[string]string{
		"name":  `"bob"`,
		"color": `"blue"`,
	}, c.PresenceChange().Presence.Data())
}

func TestPresence_SecondSetOfSameKeyOverwritesFirst(t *testing.T) {
	ctx := newContext(t)
	p := presence.New(ctx, innerpresence.New())

	p.Set("color", `"blue"`)
	p.Set("color", `"red"`)

	c := ctx.ToChange()
	assert.Equal(t, map[string]string{"color": `"red"`}, c.PresenceChange().Presence.Data())
}

func TestPresence_ClearRecordsClearChange(t *testing.T) {
	ctx := newContext(t)
	seed := innerpresence.New()
	seed.Set("cursor", `{"x":1}`)
	p := presence.New(ctx, seed)

	p.Clear()
	_, ok := p.Get("cursor")
	assert.False(t, ok)

	c := ctx.ToChange()
	require.NotNil(t, c.PresenceChange())
	assert.Equal(t, innerpresence.Clear, c.PresenceChange().ChangeType)
}
