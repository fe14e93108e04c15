package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededMemoryLists(t *testing.T) {
	ctx := context.Background()
	m := NewSeededMemory()

	groups, err := m.ListGroups(ctx, false)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Chiang Mai Urban Green", groups[0].Name)
	assert.Equal(t, "เชียงใหม่", groups[0].Province)

	owned, err := m.ListGroupsByOwner(ctx, "mock-user-123")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "2", owned[0].ID)

	acts, err := m.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, acts, 3)
	assert.Equal(t, "101", acts[0].ID, "sorted by date ascending")
	assert.Equal(t, "103", acts[1].ID)

	ga, err := m.ListGroupActivities(ctx, "Songkhla Heritage Youth")
	require.NoError(t, err)
	require.Len(t, ga, 1)
	assert.Equal(t, "103", ga[0].ID)

	p, err := m.GetProject(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "ฟื้นฟูเมืองเก่าสงขลา", p.Title)
	_, err = m.GetProject(ctx, "99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGroupLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewSeededMemory()

	created, err := m.CreateGroup(ctx, Group{OwnerID: "u1", Name: "Phuket Youth", Province: "ภูเก็ต", Issues: []string{"สิทธิดิจิทัล"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	groups, _ := m.ListGroups(ctx, false)
	require.Len(t, groups, 4)
	assert.Equal(t, created.ID, groups[0].ID, "newest first")

	upd, err := m.UpdateGroup(ctx, created.ID, Group{ID: "ignored", OwnerID: "someone-else", Name: "Phuket Youth Net", Province: "ภูเก็ต"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, upd.ID)
	assert.Equal(t, "u1", upd.OwnerID)
	assert.Equal(t, "Phuket Youth Net", upd.Name)

	require.NoError(t, m.SetGroupHidden(ctx, created.ID, true))
	visible, _ := m.ListGroups(ctx, false)
	assert.Len(t, visible, 3)
	all, _ := m.ListGroups(ctx, true)
	assert.Len(t, all, 4)

	require.NoError(t, m.DeleteGroup(ctx, created.ID))
	_, err = m.GetGroup(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteGroup(ctx, created.ID), ErrNotFound)
	assert.ErrorIs(t, m.SetGroupHidden(ctx, "nope", true), ErrNotFound)
	_, err = m.UpdateGroup(ctx, "nope", Group{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewSeededMemory()
	g, err := m.GetGroup(ctx, "1")
	require.NoError(t, err)
	g.Issues[0] = "mutated"
	g.Name = "mutated"

	again, _ := m.GetGroup(ctx, "1")
	assert.Equal(t, "การพัฒนาเมือง", again.Issues[0])
	assert.Equal(t, "Chiang Mai Urban Green", again.Name)
}

func TestCheckOwner(t *testing.T) {
	g := &Group{OwnerID: "u1"}
	assert.NoError(t, CheckOwner(g, "u1", false))
	assert.NoError(t, CheckOwner(g, "u2", true))
	assert.ErrorIs(t, CheckOwner(g, "u2", false), ErrForbidden)
	assert.ErrorIs(t, CheckOwner(&Group{}, "", false), ErrForbidden)
}
