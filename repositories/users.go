package repositories

import (
	"chatline/domain"
	"chatline/errors"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// User is the repository-level representation of an account. The core chat
// subsystem only ever sees the ID; name and email surface in conversation
// views and search results.
type User struct {
	ID           domain.UserID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUser persists a new account and returns its store-assigned ID.
// The unique constraint on email turns duplicate registrations into
// ErrUserAlreadyExists.
func (s *Store) CreateUser(name, email, passwordHash string) (domain.UserID, error) {
	res, err := s.db.Exec(
		`INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, nowUnixMilli(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if stderrors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, errors.ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read user id for %q: %w", email, err)
	}
	return domain.UserID(id), nil
}

// GetUserByID fetches one account.
func (s *Store) GetUserByID(id domain.UserID) (User, error) {
	row := s.db.QueryRow(
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`,
		int64(id),
	)
	return scanUser(row)
}

// GetUserByEmail fetches one account by its unique email.
func (s *Store) GetUserByEmail(email string) (User, error) {
	row := s.db.QueryRow(
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

// GetUsersByIDs resolves a batch of identifiers, preserving the input
// order. Unknown ids are silently skipped; the search index may briefly
// know users the store no longer does.
func (s *Store) GetUsersByIDs(ids []domain.UserID) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}
	rows, err := s.db.Query(
		`SELECT id, name, email, password_hash, created_at FROM users
		WHERE id IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[domain.UserID]User, len(ids))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		byID[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	users := make([]User, 0, len(byID))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		user      User
		id        int64
		createdAt int64
	)
	err := row.Scan(&id, &user.Name, &user.Email, &user.PasswordHash, &createdAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return User{}, errors.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user row: %w", err)
	}
	user.ID = domain.UserID(id)
	user.CreatedAt = fromUnixMilli(createdAt)
	return user, nil
}
