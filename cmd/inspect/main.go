// Command inspect dumps the rooms and the most recent messages of a chat
// database to the terminal. Read-only; safe to run against a live server's
// database file.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/mattn/go-sqlite3"
	"github.com/olekukonko/tablewriter"
)

type config struct {
	SQLiteFilepath string `envconfig:"SQLITE_FILEPATH" required:"true"`
	Limit          int    `envconfig:"INSPECT_LIMIT" default:"20"`
}

func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Config error: ", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", cfg.SQLiteFilepath))
	if err != nil {
		log.Fatal("Error while opening SQLite: ", err)
	}
	defer db.Close()

	if err := printRooms(db, cfg.Limit); err != nil {
		log.Fatal(err)
	}
	if err := printMessages(db, cfg.Limit); err != nil {
		log.Fatal(err)
	}
}

func printRooms(db *sql.DB, limit int) error {
	color.Cyan.Println("\n== Rooms ==")

	rows, err := db.Query(`
		SELECT r.id, r.last_activity,
			(SELECT COUNT(*) FROM messages m WHERE m.room_id = r.id)
		FROM rooms r
		ORDER BY r.last_activity DESC
		LIMIT ?`, limit)
	if err != nil {
		return err
	}
	defer rows.Close()

	table := newTable([]string{"Room", "Last Activity", "Messages"})
	for rows.Next() {
		var (
			key          string
			lastActivity int64
			count        int64
		)
		if err := rows.Scan(&key, &lastActivity, &count); err != nil {
			return err
		}
		table.Append([]string{
			key,
			time.UnixMilli(lastActivity).UTC().Format(time.RFC3339),
			fmt.Sprintf("%d", count),
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	table.Render()
	return nil
}

func printMessages(db *sql.DB, limit int) error {
	color.Cyan.Println("\n== Recent messages ==")

	rows, err := db.Query(`
		SELECT id, room_id, sender_id, body, sent_at, read_at
		FROM messages
		ORDER BY sent_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return err
	}
	defer rows.Close()

	table := newTable([]string{"ID", "Room", "Sender", "Body", "Sent At", "Read"})
	for rows.Next() {
		var (
			id     int64
			room   string
			sender int64
			body   string
			sentAt int64
			readAt sql.NullInt64
		)
		if err := rows.Scan(&id, &room, &sender, &body, &sentAt, &readAt); err != nil {
			return err
		}

		// Long bodies are truncated for readability
		display := body
		if len([]rune(display)) > 48 {
			display = string([]rune(display)[:45]) + "..."
		}

		read := "no"
		if readAt.Valid {
			read = "yes"
		}
		table.Append([]string{
			fmt.Sprintf("%d", id),
			room,
			fmt.Sprintf("%d", sender),
			display,
			time.UnixMilli(sentAt).UTC().Format("15:04:05"),
			read,
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	table.Render()
	return nil
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
