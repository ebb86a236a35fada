package repositories

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rooms (
	id            TEXT PRIMARY KEY,
	created_at    INTEGER NOT NULL,
	last_activity INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
	room_id      TEXT NOT NULL REFERENCES rooms(id),
	user_id      INTEGER NOT NULL REFERENCES users(id),
	last_read_at INTEGER,
	PRIMARY KEY (room_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_participants_user ON participants(user_id);

CREATE TABLE IF NOT EXISTS messages (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id   TEXT NOT NULL REFERENCES rooms(id),
	sender_id INTEGER NOT NULL REFERENCES users(id),
	body      TEXT NOT NULL,
	sent_at   INTEGER NOT NULL,
	read_at   INTEGER
);
CREATE INDEX IF NOT EXISTS idx_messages_room_sent ON messages(room_id, sent_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(room_id, sender_id) WHERE read_at IS NULL;
`

// Store is the durable log of users, rooms and messages backed by SQLite.
// All timestamps are persisted as unix milliseconds; they only become
// time.Time again at the domain boundary.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the database at path and applies the schema.
// The busy timeout lets concurrent writers queue on SQLite's single write
// lock instead of failing immediately.
func Open(path string, log *slog.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func nowUnixMilli() int64 {
	return time.Now().UTC().UnixMilli()
}

func fromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullableTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := fromUnixMilli(*ms)
	return &t
}
