package repositories

import (
	"chatline/domain"
	"chatline/errors"
	"fmt"
	"strings"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

// AppendMessage persists a new message and bumps the room's last-activity
// timestamp in the same transaction, so conversation ordering can never
// drift from the message log. The returned message carries the
// store-assigned, strictly increasing identifier.
func (s *Store) AppendMessage(room domain.RoomKey, sender domain.UserID, body string) (domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return domain.Message{}, errors.ErrEmptyBody
	}

	now := nowUnixMilli()
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Message{}, fmt.Errorf("begin append in %q: %w", room, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO messages (room_id, sender_id, body, sent_at) VALUES (?, ?, ?, ?)`,
		string(room), int64(sender), body, now,
	)
	if err != nil {
		return domain.Message{}, fmt.Errorf("insert message in %q: %w", room, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Message{}, fmt.Errorf("read message id in %q: %w", room, err)
	}
	if _, err := tx.Exec(
		`UPDATE rooms SET last_activity = ? WHERE id = ?`, now, string(room),
	); err != nil {
		return domain.Message{}, fmt.Errorf("bump activity of %q: %w", room, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Message{}, fmt.Errorf("commit append in %q: %w", room, err)
	}

	return domain.Message{
		ID:     id,
		Room:   room,
		Sender: sender,
		Body:   body,
		SentAt: fromUnixMilli(now),
	}, nil
}

// ListByRoom returns messages newest first, ordered by sent-at then id as a
// tie-break within the same millisecond. Callers display them reversed.
// Out-of-range paging values are normalized rather than rejected.
func (s *Store) ListByRoom(room domain.RoomKey, limit, offset int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(
		`SELECT id, room_id, sender_id, body, sent_at, read_at
		FROM messages
		WHERE room_id = ?
		ORDER BY sent_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		string(room), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages of %q: %w", room, err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0, limit)
	for rows.Next() {
		var (
			m        domain.Message
			roomID   string
			sender   int64
			sentAt   int64
			readAt   *int64
		)
		if err := rows.Scan(&m.ID, &roomID, &sender, &m.Body, &sentAt, &readAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		m.Room = domain.RoomKey(roomID)
		m.Sender = domain.UserID(sender)
		m.SentAt = fromUnixMilli(sentAt)
		m.ReadAt = nullableTime(readAt)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return messages, nil
}

// MarkRead stamps read-at on every unread message in the room that the
// reader did not send, and returns how many were newly marked. Calling it
// again immediately yields 0: the transition is monotone and idempotent.
// The reader's participant row keeps an informational last-read timestamp.
func (s *Store) MarkRead(room domain.RoomKey, reader domain.UserID) (int64, error) {
	now := nowUnixMilli()
	res, err := s.db.Exec(
		`UPDATE messages SET read_at = ?
		WHERE room_id = ? AND sender_id != ? AND read_at IS NULL`,
		now, string(room), int64(reader),
	)
	if err != nil {
		return 0, fmt.Errorf("mark read in %q: %w", room, err)
	}
	marked, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read rows affected for mark read in %q: %w", room, err)
	}
	if _, err := s.db.Exec(
		`UPDATE participants SET last_read_at = ? WHERE room_id = ? AND user_id = ?`,
		now, string(room), int64(reader),
	); err != nil {
		return 0, fmt.Errorf("stamp last read of %d in %q: %w", reader, room, err)
	}
	return marked, nil
}

// CountUnreadForUser sums, over every room the user participates in, the
// messages sent by someone else that are still unread. Backs the badge next
// to the chat entry point.
func (s *Store) CountUnreadForUser(user domain.UserID) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM messages m
		INNER JOIN participants p ON m.room_id = p.room_id
		WHERE p.user_id = ? AND m.sender_id != ? AND m.read_at IS NULL`,
		int64(user), int64(user),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread for user %d: %w", user, err)
	}
	return count, nil
}

// CountUnreadInRoom restricts the unread count to one room.
func (s *Store) CountUnreadInRoom(room domain.RoomKey, user domain.UserID) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM messages
		WHERE room_id = ? AND sender_id != ? AND read_at IS NULL`,
		string(room), int64(user),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread in %q for user %d: %w", room, user, err)
	}
	return count, nil
}
