package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"statusgraph/entities"
)

var (
	// ErrNotFound is returned when a username or id has no mapping.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when the username key already exists.
	ErrDuplicateUsername = errors.New("username already taken")
)

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash, email string) (uint64, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	UsernameByID(ctx context.Context, id uint64) (string, error)
	EmailByID(ctx context.Context, id uint64) (string, error)
	PasswordHashByID(ctx context.Context, id uint64) (string, error)
}

type userRepo struct {
	rdb *redis.Client
}

func NewUserRepo(rdb *redis.Client) *userRepo {
	return &userRepo{rdb: rdb}
}

// Create allocates the next id and writes the four user mappings. The
// username key is written with SETNX and serves as the serialization point
// for concurrent registrations of the same name; a lost race discards the
// allocated id (the counter stays monotonic, not dense).
func (ur *userRepo) Create(ctx context.Context, username, passwordHash, email string) (uint64, error) {
	id, err := ur.rdb.Incr(ctx, nextUserIDKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate user id: %w", err)
	}
	uid := uint64(id)

	ok, err := ur.rdb.SetNX(ctx, usernameKey(username), uid, 0).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to claim username: %w", err)
	}
	if !ok {
		return 0, ErrDuplicateUsername
	}

	if err := ur.rdb.Set(ctx, usernameOfKey(uid), username, 0).Err(); err != nil {
		return 0, fmt.Errorf("failed to write username mapping: %w", err)
	}
	if err := ur.rdb.Set(ctx, passwordKey(uid), passwordHash, 0).Err(); err != nil {
		return 0, fmt.Errorf("failed to write password hash: %w", err)
	}
	if err := ur.rdb.Set(ctx, emailKey(uid), email, 0).Err(); err != nil {
		return 0, fmt.Errorf("failed to write email: %w", err)
	}

	return uid, nil
}

func (ur *userRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	val, err := ur.rdb.Get(ctx, usernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	uid, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt uid mapping for %q: %v", username, err)
	}

	email, err := ur.EmailByID(ctx, uid)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return &entities.User{
		ID:       uid,
		Username: username,
		Email:    email,
	}, nil
}

func (ur *userRepo) UsernameByID(ctx context.Context, id uint64) (string, error) {
	return ur.getString(ctx, usernameOfKey(id))
}

func (ur *userRepo) EmailByID(ctx context.Context, id uint64) (string, error) {
	return ur.getString(ctx, emailKey(id))
}

func (ur *userRepo) PasswordHashByID(ctx context.Context, id uint64) (string, error) {
	return ur.getString(ctx, passwordKey(id))
}

func (ur *userRepo) getString(ctx context.Context, key string) (string, error) {
	val, err := ur.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, nil
}
