package search

import (
	"context"
	"log/slog"
	"testing"

	"chatline/domain"

	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	index, err := Open("", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func TestIndex_SearchByName(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)

	req.NoError(index.IndexUser(1, "Alice Martin", "alice@example.com"))
	req.NoError(index.IndexUser(2, "Bob Durand", "bob@example.com"))

	ids, err := index.Search(context.Background(), "alice", 10)
	req.NoError(err)
	req.Equal([]domain.UserID{1}, ids)
}

func TestIndex_SearchByNamePrefix(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)

	req.NoError(index.IndexUser(1, "Alice Martin", "alice@example.com"))
	req.NoError(index.IndexUser(2, "Albert Camus", "albert@example.com"))
	req.NoError(index.IndexUser(3, "Bob Durand", "bob@example.com"))

	ids, err := index.Search(context.Background(), "al", 10)
	req.NoError(err)
	req.Len(ids, 2)
	req.Contains(ids, domain.UserID(1))
	req.Contains(ids, domain.UserID(2))
}

func TestIndex_SearchByEmail(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)

	req.NoError(index.IndexUser(1, "Alice Martin", "alice@example.com"))
	req.NoError(index.IndexUser(2, "Bob Durand", "bob@example.com"))

	ids, err := index.Search(context.Background(), "bob@example.com", 10)
	req.NoError(err)
	req.Contains(ids, domain.UserID(2))
}

func TestIndex_ReindexReplacesDocument(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)

	req.NoError(index.IndexUser(1, "Alice Martin", "alice@example.com"))
	req.NoError(index.IndexUser(1, "Alicia Renamed", "alicia@example.com"))

	ids, err := index.Search(context.Background(), "alicia", 10)
	req.NoError(err)
	req.Equal([]domain.UserID{1}, ids)
}

func TestIndex_NoMatch(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)

	req.NoError(index.IndexUser(1, "Alice Martin", "alice@example.com"))

	ids, err := index.Search(context.Background(), "zzzz", 10)
	req.NoError(err)
	req.Empty(ids)
}
