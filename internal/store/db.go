package store

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps the sqlite handle backing rounds, player responses and the
// local trivia catalog.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and brings
// the schema up to date. Use ":memory:" for an ephemeral database.
func Open(path string) (*DB, error) {
	if path == "" {
		path = "bluetrivia.db"
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite handles one writer; a single pooled connection avoids
	// SQLITE_BUSY and keeps :memory: databases coherent.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
