package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStore creates an in-memory SQLite store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Backend: BackendSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenUnsupportedBackend(t *testing.T) {
	_, err := Open(Options{Backend: "mysql"})
	assert.Error(t, err)
}

func TestUserOperations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	t.Run("create user", func(t *testing.T) {
		id, err := s.CreateUser(ctx, &User{
			Username:     "alice",
			PasswordHash: "hashed",
			Role:         RoleManager,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("duplicate user fails", func(t *testing.T) {
		_, err := s.CreateUser(ctx, &User{Username: "alice", PasswordHash: "hashed"})
		assert.True(t, errors.Is(err, ErrDuplicateUser), "expected ErrDuplicateUser, got %v", err)
	})

	t.Run("get user", func(t *testing.T) {
		user, err := s.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, RoleManager, user.Role)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("get user not found", func(t *testing.T) {
		_, err := s.GetUser(ctx, "nobody")
		assert.True(t, errors.Is(err, ErrUserNotFound), "expected ErrUserNotFound, got %v", err)
	})

	t.Run("user exists", func(t *testing.T) {
		exists, err := s.UserExists(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.UserExists(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list users ordered", func(t *testing.T) {
		_, err := s.CreateUser(ctx, &User{Username: "bob", PasswordHash: "hashed"})
		require.NoError(t, err)

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)
	})

	t.Run("count by role", func(t *testing.T) {
		count, err := s.CountByRole(ctx, RoleManager)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("changeme123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "changeme123"))
	assert.False(t, CheckPassword(hash, "wrong-password"))

	_, err = HashPassword("short")
	assert.True(t, errors.Is(err, ErrPasswordTooShort))

	long := make([]byte, MaxPasswordLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = HashPassword(string(long))
	assert.True(t, errors.Is(err, ErrPasswordTooLong))
}
