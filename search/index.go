// Package search maintains the full-text index used to find users to start
// a conversation with. The index is a projection of the users table; the
// store remains the source of truth.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"chatline/domain"

	"github.com/blugelabs/bluge"
)

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// Open creates or opens the index at path. An empty path keeps the index
// in memory, which is what tests and single-shot tools want.
func Open(path string, log *slog.Logger) (*Index, error) {
	config := bluge.InMemoryOnlyConfig()
	if path != "" {
		config = bluge.DefaultConfig(path)
	}
	writer, err := bluge.OpenWriter(config)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// IndexUser upserts one user document. Called on registration; re-indexing
// the same id replaces the previous document.
func (i *Index) IndexUser(id domain.UserID, name, email string) error {
	doc := bluge.NewDocument(strconv.FormatInt(int64(id), 10)).
		AddField(bluge.NewTextField("name", name).StoreValue()).
		AddField(bluge.NewTextField("email", email).StoreValue())

	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index user %d: %w", id, err)
	}
	return nil
}

// Search matches the term against names and emails, by full token or by
// prefix, and returns matching user ids best first.
func (i *Index) Search(ctx context.Context, term string, limit int) ([]domain.UserID, error) {
	term = strings.ToLower(strings.TrimSpace(term))

	query := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(term).SetField("name")).
		AddShould(bluge.NewMatchQuery(term).SetField("email")).
		AddShould(bluge.NewPrefixQuery(term).SetField("name")).
		AddShould(bluge.NewPrefixQuery(term).SetField("email")).
		SetMinShould(1)

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("search reader: %w", err)
	}
	defer reader.Close()

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	var ids []domain.UserID
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if id, parseErr := strconv.ParseInt(string(value), 10, 64); parseErr == nil {
					ids = append(ids, domain.UserID(id))
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, fmt.Errorf("visit search match: %w", visitErr)
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("iterate search matches: %w", err)
	}
	return ids, nil
}
