package repositories

import (
	"testing"

	"chatline/domain"
	"chatline/errors"

	"github.com/stretchr/testify/require"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	_, err := store.CreateUser("Alice", "alice@example.com", "hash")
	req.NoError(err)

	_, err = store.CreateUser("Alice Again", "alice@example.com", "hash2")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestGetUserByEmail(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	id, err := store.CreateUser("Alice", "alice@example.com", "hash")
	req.NoError(err)

	user, err := store.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(id, user.ID)
	req.Equal("Alice", user.Name)
	req.Equal("hash", user.PasswordHash)

	_, err = store.GetUserByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestGetUsersByIDs_PreservesOrderSkipsUnknown(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")

	users, err := store.GetUsersByIDs([]domain.UserID{bob, 999, alice})
	req.NoError(err)
	req.Len(users, 2)
	req.Equal(bob, users[0].ID)
	req.Equal(alice, users[1].ID)

	users, err = store.GetUsersByIDs(nil)
	req.NoError(err)
	req.Empty(users)
}
