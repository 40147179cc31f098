package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GetUser retrieves a user by username.
func (s *Store) GetUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, convertNotFoundError(err, ErrUserNotFound)
	}
	return &user, nil
}

// UserExists reports whether a user with the given username exists.
// This is the satisfaction predicate behind idempotent seeding.
func (s *Store) UserExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUser inserts a new user, assigning a UUID if the record has none.
// Unique constraint violations are converted to ErrDuplicateUser.
func (s *Store) CreateUser(ctx context.Context, user *User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", ErrDuplicateUser
		}
		return "", err
	}
	return user.ID, nil
}

// ListUsers returns all users ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	var users []*User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByRole returns the number of users holding the given role.
func (s *Store) CountByRole(ctx context.Context, role Role) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).
		Where("role = ?", role).Count(&count).Error
	return count, err
}
