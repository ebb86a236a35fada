package services

import (
	"context"
	"log/slog"

	"chatline/domain"
	"chatline/errors"
	"chatline/repositories"
	"chatline/search"

	"github.com/samber/lo"
)

const (
	minQueryLength = 2
	searchLimit    = 20
)

type IDirectoryService interface {
	SearchUsers(ctx context.Context, requester domain.UserID, query string) ([]domain.Peer, error)
}

// DirectoryService answers "who can I talk to" queries against the search
// index, then hydrates the hits from the store.
type DirectoryService struct {
	log   *slog.Logger
	store *repositories.Store
	index *search.Index
}

func NewDirectoryService(log *slog.Logger, store *repositories.Store, index *search.Index) *DirectoryService {
	return &DirectoryService{log: log, store: store, index: index}
}

// SearchUsers finds users matching the query by name or email, excluding
// the requester themselves.
func (s *DirectoryService) SearchUsers(ctx context.Context, requester domain.UserID, query string) ([]domain.Peer, error) {
	if len([]rune(query)) < minQueryLength {
		return nil, errors.ErrQueryTooShort
	}

	ids, err := s.index.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	ids = lo.Without(ids, requester)

	users, err := s.store.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	return lo.Map(users, func(u repositories.User, _ int) domain.Peer {
		return domain.Peer{ID: u.ID, Name: u.Name, Email: u.Email}
	}), nil
}
