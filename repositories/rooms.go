package repositories

import (
	"chatline/domain"
	"chatline/errors"
	"database/sql"
	stderrors "errors"
	"fmt"
)

// CreateOrGetRoom inserts the room and both participant rows in a single
// transaction, or returns the existing room untouched. The INSERT OR IGNORE
// on the primary key serializes racing first calls for the same pair: the
// loser simply reads the winner's row instead of erroring.
func (s *Store) CreateOrGetRoom(a, b domain.UserID) (domain.Room, error) {
	key, err := domain.DeriveRoomKey(a, b)
	if err != nil {
		return domain.Room{}, err
	}

	now := nowUnixMilli()
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Room{}, fmt.Errorf("begin create room %q: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO rooms (id, created_at, last_activity) VALUES (?, ?, ?)`,
		string(key), now, now,
	); err != nil {
		return domain.Room{}, fmt.Errorf("insert room %q: %w", key, err)
	}
	for _, user := range []domain.UserID{a, b} {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO participants (room_id, user_id) VALUES (?, ?)`,
			string(key), int64(user),
		); err != nil {
			return domain.Room{}, fmt.Errorf("insert participant %d in %q: %w", user, key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Room{}, fmt.Errorf("commit create room %q: %w", key, err)
	}

	return s.GetRoom(key)
}

// GetRoom fetches one room by key.
func (s *Store) GetRoom(key domain.RoomKey) (domain.Room, error) {
	var createdAt, lastActivity int64
	err := s.db.QueryRow(
		`SELECT created_at, last_activity FROM rooms WHERE id = ?`, string(key),
	).Scan(&createdAt, &lastActivity)
	if stderrors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("get room %q: %w", key, err)
	}
	return domain.Room{
		Key:          key,
		CreatedAt:    fromUnixMilli(createdAt),
		LastActivity: fromUnixMilli(lastActivity),
	}, nil
}

// IsParticipant is the membership check used for authorization before any
// read or write on a room.
func (s *Store) IsParticipant(key domain.RoomKey, user domain.UserID) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM participants WHERE room_id = ? AND user_id = ?`,
		string(key), int64(user),
	).Scan(&one)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("membership check %q/%d: %w", key, user, err)
	}
	return true, nil
}
