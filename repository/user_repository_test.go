package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestUserRepo_Create_KeyLayout(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	repo := NewUserRepo(rdb)

	uid, err := repo.Create(ctx, "alice", "salt:digest", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), uid)

	// The layout is shared with existing deployments, so check raw keys.
	assert.Equal(t, "1", rdb.Get(ctx, "username:alice:uid").Val())
	assert.Equal(t, "alice", rdb.Get(ctx, "uid:1:username").Val())
	assert.Equal(t, "salt:digest", rdb.Get(ctx, "uid:1:password").Val())
	assert.Equal(t, "a@x.com", rdb.Get(ctx, "uid:1:email").Val())
	assert.Equal(t, "1", rdb.Get(ctx, "global:nextUserId").Val())
}

func TestUserRepo_Create_MonotonicIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestClient(t))

	first, err := repo.Create(ctx, "alice", "h1", "a@x.com")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "bob", "h2", "b@x.com")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	repo := NewUserRepo(rdb)

	uid, err := repo.Create(ctx, "alice", "h1", "a@x.com")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "alice", "h2", "other@x.com")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// The loser's writes must not clobber the existing mappings.
	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uid, user.ID)
	assert.Equal(t, "a@x.com", user.Email)

	hash, err := repo.PasswordHashByID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "h1", hash)
}

func TestUserRepo_BidirectionalMapping(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestClient(t))

	uid, err := repo.Create(ctx, "alice", "h1", "a@x.com")
	require.NoError(t, err)

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uid, user.ID)

	name, err := repo.UsernameByID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestUserRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestClient(t))

	_, err := repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.UsernameByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.PasswordHashByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_ConcurrentCreate_SameUsername(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	repo := NewUserRepo(rdb)

	const writers = 8
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			_, err := repo.Create(ctx, "alice", "h", "a@x.com")
			results <- err
		}()
	}

	var wins, losses int
	for i := 0; i < writers; i++ {
		if err := <-results; err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateUsername)
			losses++
		}
	}

	// The SETNX on the username key serializes the race: exactly one winner.
	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, losses)

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	name, err := repo.UsernameByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestUserRepo_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewUserRepo(rdb)

	mr.Close()

	_, err := repo.GetByUsername(ctx, "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
