package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

type GraphRepository interface {
	AddEdge(ctx context.Context, followerID, followeeID uint64) error
	RemoveEdge(ctx context.Context, followerID, followeeID uint64) (bool, error)
	Following(ctx context.Context, id uint64) ([]uint64, error)
	Followers(ctx context.Context, id uint64) ([]uint64, error)
}

type graphRepo struct {
	rdb *redis.Client
}

func NewGraphRepo(rdb *redis.Client) *graphRepo {
	return &graphRepo{rdb: rdb}
}

// AddEdge records follower -> followee on both sides of the edge. The two
// SADDs are individually atomic but not transactional across keys; a reader
// between them can observe a half-written edge until the second write lands.
// SADD is a no-op for an existing member, so repeated calls are idempotent.
func (gr *graphRepo) AddEdge(ctx context.Context, followerID, followeeID uint64) error {
	if err := gr.rdb.SAdd(ctx, followersKey(followeeID), followerID).Err(); err != nil {
		return fmt.Errorf("failed to add follower edge: %w", err)
	}
	if err := gr.rdb.SAdd(ctx, followingKey(followerID), followeeID).Err(); err != nil {
		return fmt.Errorf("failed to add following edge: %w", err)
	}
	return nil
}

// RemoveEdge removes both sides of the edge and reports whether the
// following-side entry was actually present.
func (gr *graphRepo) RemoveEdge(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	removed, err := gr.rdb.SRem(ctx, followingKey(followerID), followeeID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to remove following edge: %w", err)
	}
	if err := gr.rdb.SRem(ctx, followersKey(followeeID), followerID).Err(); err != nil {
		return false, fmt.Errorf("failed to remove follower edge: %w", err)
	}
	return removed > 0, nil
}

func (gr *graphRepo) Following(ctx context.Context, id uint64) ([]uint64, error) {
	return gr.members(ctx, followingKey(id))
}

func (gr *graphRepo) Followers(ctx context.Context, id uint64) ([]uint64, error) {
	return gr.members(ctx, followersKey(id))
}

func (gr *graphRepo) members(ctx context.Context, key string) ([]uint64, error) {
	vals, err := gr.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read set %s: %w", key, err)
	}

	ids := make([]uint64, 0, len(vals))
	for _, val := range vals {
		id, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt member %q in %s: %v", val, key, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
