package service

import (
	"context"
	"errors"
	"log"

	"statusgraph/broker"
	"statusgraph/repository"
)

type GraphService struct {
	users  repository.UserRepository
	graph  repository.GraphRepository
	events broker.EventPublisher
}

func NewGraphService(users repository.UserRepository, graph repository.GraphRepository, events broker.EventPublisher) *GraphService {
	return &GraphService{users: users, graph: graph, events: events}
}

// Follow adds targetUsername to the actor's following set and the actor to
// the target's followers set. Already-followed targets succeed without
// changing state.
func (gs *GraphService) Follow(ctx context.Context, actorID uint64, targetUsername string) error {
	target, err := gs.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("user to follow does not exist")
		}
		return StoreUnavailable("failed to resolve follow target", err)
	}

	if err := gs.graph.AddEdge(ctx, actorID, target.ID); err != nil {
		return StoreUnavailable("failed to write follow edge", err)
	}

	if err := gs.events.PublishFollow(actorID, target.ID); err != nil {
		log.Printf("failed to publish follow event: %v", err)
	}

	return nil
}

// Unfollow removes the edge in both directions and reports whether the actor
// was actually following the target. An unknown target username is treated
// as "not following".
func (gs *GraphService) Unfollow(ctx context.Context, actorID uint64, targetUsername string) (bool, error) {
	target, err := gs.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, StoreUnavailable("failed to resolve unfollow target", err)
	}

	removed, err := gs.graph.RemoveEdge(ctx, actorID, target.ID)
	if err != nil {
		return false, StoreUnavailable("failed to remove follow edge", err)
	}

	if removed {
		if err := gs.events.PublishUnfollow(actorID, target.ID); err != nil {
			log.Printf("failed to publish unfollow event: %v", err)
		}
	}

	return removed, nil
}

func (gs *GraphService) Followers(ctx context.Context, id uint64) ([]string, error) {
	ids, err := gs.graph.Followers(ctx, id)
	if err != nil {
		return nil, StoreUnavailable("failed to read followers", err)
	}
	return gs.resolveNames(ctx, ids)
}

func (gs *GraphService) Following(ctx context.Context, id uint64) ([]string, error) {
	ids, err := gs.graph.Following(ctx, id)
	if err != nil {
		return nil, StoreUnavailable("failed to read following", err)
	}
	return gs.resolveNames(ctx, ids)
}

// resolveNames maps member ids back to usernames. A member without a
// username mapping is skipped; under the bidirectional mapping invariant
// that only happens mid-registration or after manual store surgery.
func (gs *GraphService) resolveNames(ctx context.Context, ids []uint64) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, err := gs.users.UsernameByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, StoreUnavailable("failed to resolve member username", err)
		}
		names = append(names, name)
	}
	return names, nil
}
