package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"chatline/auth"
	"chatline/domain"
	"chatline/errors"
	"chatline/repositories"
	"chatline/search"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	auth      *AuthService
	directory *DirectoryService
	tokens    *auth.TokenManager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	store, err := repositories.Open(filepath.Join(t.TempDir(), "chat.db"), log)
	req.NoError(err)
	t.Cleanup(func() { _ = store.Close() })

	index, err := search.Open("", log)
	req.NoError(err)
	t.Cleanup(func() { _ = index.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return &authFixture{
		auth:      NewAuthService(log, store, index, tokens),
		directory: NewDirectoryService(log, store, index),
		tokens:    tokens,
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t)

	session, err := f.auth.Register("Alice", "alice@example.com", "Sup3r$ecretPass!")
	req.NoError(err)
	req.NotEmpty(session.Token)
	req.Equal("Alice", session.Name)

	// The token authenticates as the new user
	userID, err := f.tokens.Validate(session.Token)
	req.NoError(err)
	req.Equal(session.UserID, userID)

	// And the credentials work for login
	again, err := f.auth.Login("alice@example.com", "Sup3r$ecretPass!")
	req.NoError(err)
	req.Equal(session.UserID, again.UserID)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t)

	_, err := f.auth.Register("Alice", "alice@example.com", "Sup3r$ecretPass!")
	req.NoError(err)

	_, err = f.auth.Register("Imposter", "alice@example.com", "An0ther$ecret!")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t)

	_, err := f.auth.Register("Alice", "alice@example.com", "weakpassword")
	req.ErrorIs(err, errors.ErrValidation)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t)

	_, err := f.auth.Register("Alice", "alice@example.com", "Sup3r$ecretPass!")
	req.NoError(err)

	_, err = f.auth.Login("alice@example.com", "Wr0ng$ecretPass!")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t)

	// Unknown email and wrong password look the same to the caller
	_, err := f.auth.Login("nobody@example.com", "Sup3r$ecretPass!")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}

func TestDirectoryService_SearchFindsRegisteredUsers(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t)

	alice, err := f.auth.Register("Alice Martin", "alice@example.com", "Sup3r$ecretPass!")
	req.NoError(err)
	bob, err := f.auth.Register("Bob Durand", "bob@example.com", "An0ther$ecret!")
	req.NoError(err)

	peers, err := f.directory.SearchUsers(context.Background(), bob.UserID, "alice")
	req.NoError(err)
	req.Len(peers, 1)
	req.Equal(alice.UserID, peers[0].ID)
	req.Equal("Alice Martin", peers[0].Name)
}

func TestDirectoryService_SearchExcludesRequester(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t)

	alice, err := f.auth.Register("Alice Martin", "alice@example.com", "Sup3r$ecretPass!")
	req.NoError(err)

	peers, err := f.directory.SearchUsers(context.Background(), alice.UserID, "alice")
	req.NoError(err)
	req.Empty(peers)
}

func TestDirectoryService_SearchQueryTooShort(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t)

	_, err := f.directory.SearchUsers(context.Background(), domain.UserID(1), "a")
	req.ErrorIs(err, errors.ErrQueryTooShort)
}
