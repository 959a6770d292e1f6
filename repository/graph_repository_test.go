package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphRepo_AddEdge_Symmetry(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	repo := NewGraphRepo(rdb)

	require.NoError(t, repo.AddEdge(ctx, 2, 1))

	following, err := repo.Following(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, following)

	followers, err := repo.Followers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, followers)

	// Raw key layout, both sides.
	assert.ElementsMatch(t, []string{"1"}, rdb.SMembers(ctx, "uid:2:following").Val())
	assert.ElementsMatch(t, []string{"2"}, rdb.SMembers(ctx, "uid:1:followers").Val())
}

func TestGraphRepo_AddEdge_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepo(newTestClient(t))

	require.NoError(t, repo.AddEdge(ctx, 2, 1))
	require.NoError(t, repo.AddEdge(ctx, 2, 1))

	following, err := repo.Following(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, following, 1)

	followers, err := repo.Followers(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, followers, 1)
}

func TestGraphRepo_RemoveEdge_BothSides(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepo(newTestClient(t))

	require.NoError(t, repo.AddEdge(ctx, 2, 1))

	removed, err := repo.RemoveEdge(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	following, err := repo.Following(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, following)

	followers, err := repo.Followers(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, followers, "unfollow must remove the reciprocal edge too")
}

func TestGraphRepo_RemoveEdge_NotFollowing(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepo(newTestClient(t))

	removed, err := repo.RemoveEdge(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGraphRepo_Members_EmptySet(t *testing.T) {
	ctx := context.Background()
	repo := NewGraphRepo(newTestClient(t))

	following, err := repo.Following(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, following)
}
