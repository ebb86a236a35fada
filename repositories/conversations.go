package repositories

import (
	"chatline/domain"
	"fmt"
)

const (
	defaultConversationLimit = 20
	maxConversationLimit     = 100
)

// ListConversations returns one derived row per room the user belongs to,
// newest activity first: the other participant, the latest message body and
// the unread count, all computed in a single query against the current
// state. Nothing here is cached between requests.
func (s *Store) ListConversations(user domain.UserID, limit, offset int) ([]domain.ConversationView, error) {
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	if limit > maxConversationLimit {
		limit = maxConversationLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(
		`SELECT
			r.id,
			r.last_activity,
			u.id,
			u.name,
			u.email,
			COALESCE((
				SELECT body FROM messages
				WHERE room_id = r.id
				ORDER BY sent_at DESC, id DESC LIMIT 1
			), ''),
			(
				SELECT COUNT(*) FROM messages
				WHERE room_id = r.id AND sender_id != ? AND read_at IS NULL
			)
		FROM participants p
		INNER JOIN rooms r ON p.room_id = r.id
		INNER JOIN participants other ON r.id = other.room_id AND other.user_id != ?
		INNER JOIN users u ON other.user_id = u.id
		WHERE p.user_id = ?
		ORDER BY r.last_activity DESC
		LIMIT ? OFFSET ?`,
		int64(user), int64(user), int64(user), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations of user %d: %w", user, err)
	}
	defer rows.Close()

	views := make([]domain.ConversationView, 0, limit)
	for rows.Next() {
		var (
			v            domain.ConversationView
			roomID       string
			lastActivity int64
			peerID       int64
		)
		if err := rows.Scan(&roomID, &lastActivity, &peerID,
			&v.Peer.Name, &v.Peer.Email, &v.LastMessage, &v.Unread); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		v.Room = domain.RoomKey(roomID)
		v.Peer.ID = domain.UserID(peerID)
		v.LastActivity = fromUnixMilli(lastActivity)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation rows: %w", err)
	}
	return views, nil
}
