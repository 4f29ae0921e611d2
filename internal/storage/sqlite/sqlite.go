// Package sqlite backs the coin ledger, per-chat settings and
// moderation records with a single on-disk database. The file lives at
// a fixed configurable path so balances survive redeployment.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS balances (
	user_id INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0)
);
CREATE TABLE IF NOT EXISTS cooldowns (
	user_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	last_used_at TEXT NOT NULL,
	PRIMARY KEY (user_id, action)
);
CREATE TABLE IF NOT EXISTS chat_settings (
	chat_id INTEGER PRIMARY KEY,
	mode TEXT NOT NULL DEFAULT 'normal',
	scenario TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS warns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	chat_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS mutes (
	chat_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	muted_until TEXT NOT NULL,
	PRIMARY KEY (chat_id, user_id)
);
CREATE TABLE IF NOT EXISTS filters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	chat_id INTEGER NOT NULL,
	keyword TEXT NOT NULL,
	is_regex INTEGER NOT NULL DEFAULT 0,
	UNIQUE (chat_id, keyword)
);
`

// Open opens (creating if needed) the store at path. The connection
// pool is capped at one so writes are serialized through a single
// SQLite writer.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}
