package services

import (
	"log/slog"

	"chatline/auth"
	"chatline/domain"
	"chatline/errors"
	"chatline/repositories"
	"chatline/search"
)

type IAuthService interface {
	Register(name, email, password string) (Session, error)
	Login(email, password string) (Session, error)
}

// Session is the result of a successful register or login.
type Session struct {
	UserID domain.UserID
	Name   string
	Email  string
	Token  string
}

type AuthService struct {
	log    *slog.Logger
	store  *repositories.Store
	index  *search.Index
	tokens *auth.TokenManager
}

func NewAuthService(log *slog.Logger, store *repositories.Store,
	index *search.Index, tokens *auth.TokenManager) *AuthService {
	return &AuthService{log: log, store: store, index: index, tokens: tokens}
}

// Register validates the request, stores the account and indexes it for
// discovery, then issues a session token.
func (s *AuthService) Register(name, email, password string) (Session, error) {
	if err := auth.ValidateRegister(auth.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}); err != nil {
		return Session{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, err
	}

	userID, err := s.store.CreateUser(name, email, hash)
	if err != nil {
		return Session{}, err
	}

	// The index is a projection: a failed index write should not fail the
	// registration, the account already exists.
	if err := s.index.IndexUser(userID, name, email); err != nil {
		s.log.Warn("failed to index new user", "user", userID, "error", err)
	}

	token, err := s.tokens.Generate(userID)
	if err != nil {
		return Session{}, errors.ErrTokenGeneration
	}

	s.log.Info("user registered", "user", userID)
	return Session{UserID: userID, Name: name, Email: email, Token: token}, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (Session, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return Session{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return Session{}, errors.ErrTokenGeneration
	}

	s.log.Info("user logged in", "user", user.ID)
	return Session{UserID: user.ID, Name: user.Name, Email: user.Email, Token: token}, nil
}
