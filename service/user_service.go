package service

import (
	"context"
	"errors"
	"fmt"

	"statusgraph/entities"
	"statusgraph/repository"
	"statusgraph/utils"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user and returns its id. The username key in the
// store is the serialization point: a concurrent registration of the same
// name surfaces as Conflict even when both callers pass the pre-check.
func (us *UserService) Register(ctx context.Context, username, password, email string) (uint64, error) {
	if username == "" || password == "" || email == "" {
		return 0, BadRequest("user_name, password and email are required")
	}

	_, err := us.repo.GetByUsername(ctx, username)
	if err == nil {
		return 0, Conflict("username already taken")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, StoreUnavailable("failed to check existing user", err)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %v", err)
	}

	uid, err := us.repo.Create(ctx, username, passwordHash, email)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return 0, Conflict("username already taken")
		}
		return 0, StoreUnavailable("failed to create user", err)
	}

	return uid, nil
}

// ResolveID maps a username to its id.
func (us *UserService) ResolveID(ctx context.Context, username string) (uint64, error) {
	user, err := us.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, NotFound("user does not exist")
		}
		return 0, StoreUnavailable("failed to resolve username", err)
	}
	return user.ID, nil
}

func (us *UserService) ProfileByID(ctx context.Context, id uint64) (*entities.Profile, error) {
	username, err := us.repo.UsernameByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("user does not exist")
		}
		return nil, StoreUnavailable("failed to load profile", err)
	}

	email, err := us.repo.EmailByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, StoreUnavailable("failed to load profile", err)
	}

	return &entities.Profile{
		UID:      id,
		Username: username,
		Email:    email,
	}, nil
}

// VerifyPassword reports whether password matches the stored digest for id.
// A mismatch, an empty password or a missing credential all yield false with
// a nil error; only a store failure is returned as an error.
func (us *UserService) VerifyPassword(ctx context.Context, id uint64, password string) (bool, error) {
	if password == "" {
		return false, nil
	}

	storedHash, err := us.repo.PasswordHashByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, StoreUnavailable("failed to load credentials", err)
	}

	return utils.VerifyPassword(storedHash, password), nil
}
