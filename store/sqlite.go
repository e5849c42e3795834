package store

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv (
		name TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated TIMESTAMP NOT NULL
	)`

type sqliteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if needed) a sqlite database at path and returns a Backend
// storing entries in its kv table.
func NewSQLiteBackend(ctx context.Context, path string) (Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database %q", path)
	}
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		goutils.UncheckedError(db.Close())
		return nil, errors.Wrap(err, "failed to create kv table")
	}
	return &sqliteBackend{db: db}, nil
}

func (sb *sqliteBackend) Load(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := sb.db.QueryRowContext(ctx, `SELECT data FROM kv WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %q", name)
	}
	return []byte(data), nil
}

func (sb *sqliteBackend) Save(ctx context.Context, name string, data []byte) error {
	_, err := sb.db.ExecContext(ctx, `
		INSERT INTO kv (name, data, updated) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated = excluded.updated`,
		name, string(data), time.Now().UTC())
	return errors.Wrapf(err, "failed to save %q", name)
}

func (sb *sqliteBackend) Remove(ctx context.Context, name string) error {
	res, err := sb.db.ExecContext(ctx, `DELETE FROM kv WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "failed to remove %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return nil
}

func (sb *sqliteBackend) List(ctx context.Context, prefix string) (names []string, err error) {
	rows, err := sb.db.QueryContext(ctx,
		`SELECT name FROM kv WHERE substr(name, 1, ?) = ? ORDER BY name`,
		utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list entries")
	}
	defer goutils.UncheckedErrorFunc(rows.Close)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (sb *sqliteBackend) Close() error {
	return sb.db.Close()
}
