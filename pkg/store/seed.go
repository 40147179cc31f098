package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/seefood/mooring/internal/logger"
)

// AdminSeed describes the admin account to ensure. Exactly one of
// Password or PasswordHash must be set; PasswordHash wins when both are.
type AdminSeed struct {
	Username     string
	Email        string
	Password     string
	PasswordHash string
}

// DemoUser is a development account seeded alongside the admin.
type DemoUser struct {
	Username string
	Email    string
	Role     Role
}

// DemoUsers is the demo roster seeded in development environments: one
// manager, two sales accounts, two kitchen accounts.
var DemoUsers = []DemoUser{
	{Username: "manager1", Email: "manager1@seefood.com", Role: RoleManager},
	{Username: "sale1", Email: "sale1@seefood.com", Role: RoleSale},
	{Username: "sale2", Email: "sale2@seefood.com", Role: RoleSale},
	{Username: "kitchen1", Email: "kitchen1@seefood.com", Role: RoleKitchen},
	{Username: "kitchen2", Email: "kitchen2@seefood.com", Role: RoleKitchen},
}

// EnsureAdmin creates the admin account if no user with the configured
// username exists. It never creates a second admin: re-running against a
// seeded database is a no-op, and a concurrent creation racing this call
// loses benignly to the unique constraint. Returns whether a user was
// created.
func (s *Store) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	exists, err := s.UserExists(ctx, seed.Username)
	if err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}
	if exists {
		logger.Info("admin user already exists", "username", seed.Username)
		return false, nil
	}

	hash := seed.PasswordHash
	if hash == "" {
		hash, err = HashPassword(seed.Password)
		if err != nil {
			return false, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}

	_, err = s.CreateUser(ctx, &User{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		Superuser:    true,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			// Lost a race with another bootstrap instance; the admin
			// exists, which is all this step guarantees.
			logger.Info("admin user created concurrently", "username", seed.Username)
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created", "username", seed.Username)
	return true, nil
}

// EnsureDemoUsers creates any missing demo accounts, sharing the given
// password. Existing accounts are left untouched. Returns the number of
// users created.
func (s *Store) EnsureDemoUsers(ctx context.Context, password string) (int, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash demo password: %w", err)
	}

	created := 0
	for _, demo := range DemoUsers {
		exists, err := s.UserExists(ctx, demo.Username)
		if err != nil {
			return created, fmt.Errorf("failed to check user %q: %w", demo.Username, err)
		}
		if exists {
			continue
		}

		_, err = s.CreateUser(ctx, &User{
			Username:     demo.Username,
			Email:        demo.Email,
			PasswordHash: hash,
			Role:         demo.Role,
		})
		if err != nil {
			if errors.Is(err, ErrDuplicateUser) {
				continue
			}
			return created, fmt.Errorf("failed to create user %q: %w", demo.Username, err)
		}
		logger.Info("demo user created", "username", demo.Username, "role", string(demo.Role))
		created++
	}
	return created, nil
}

// DemoUsersExist reports whether every demo account already exists.
func (s *Store) DemoUsersExist(ctx context.Context) (bool, error) {
	for _, demo := range DemoUsers {
		exists, err := s.UserExists(ctx, demo.Username)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}
