package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/query"
)

// SQLiteStore implements Connector using modernc.org/sqlite. Records live in
// a single JSON-document table; filtering happens in Go through the predicate
// matcher after an insertion-ordered scan, so operator semantics match the
// memory backend exactly.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS animals (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	doc        TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS users (
	username       TEXT PRIMARY KEY,
	password_hash  BLOB NOT NULL,
	role           TEXT NOT NULL,
	email          TEXT NOT NULL DEFAULT '',
	active         INTEGER NOT NULL DEFAULT 1,
	created_at     DATETIME NOT NULL,
	created_by     TEXT NOT NULL DEFAULT '',
	deactivated_at DATETIME,
	deactivated_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS audit_log (
	id        TEXT PRIMARY KEY,
	username  TEXT NOT NULL,
	action    TEXT NOT NULL,
	details   TEXT NOT NULL,
	timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_audit_log_user_ts ON audit_log(username, timestamp DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

// scanAll loads every document in insertion order, keyed by row id.
func (s *SQLiteStore) scanAll(ctx context.Context) ([]string, []model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM animals ORDER BY seq`)
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: scan animals")
	}
	defer rows.Close()

	var ids []string
	var records []model.Record
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, nil, eris.Wrap(err, "sqlite: scan row")
		}
		var rec model.Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, nil, eris.Wrapf(err, "sqlite: unmarshal doc %s", id)
		}
		ids = append(ids, id)
		records = append(records, rec)
	}
	return ids, records, eris.Wrap(rows.Err(), "sqlite: scan iterate")
}

func (s *SQLiteStore) FindAll(ctx context.Context, q query.Query) ([]model.Record, error) {
	_, records, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	return q.Filter(records), nil
}

func (s *SQLiteStore) InsertOne(ctx context.Context, rec model.Record) (bool, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: marshal record")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO animals (id, doc, created_at) VALUES (?, ?, ?)`,
		uuid.New().String(), string(doc), time.Now().UTC(),
	)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: insert record")
	}
	return true, nil
}

func (s *SQLiteStore) UpdateMany(ctx context.Context, q query.Query, patch model.Record, multiple bool) (int, error) {
	ids, records, err := s.scanAll(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin update")
	}
	defer tx.Rollback()

	updated := 0
	for i, rec := range records {
		if !q.Matches(rec) {
			continue
		}
		applyPatch(rec, patch)
		doc, err := json.Marshal(rec)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal patched record")
		}
		if _, err := tx.ExecContext(ctx, `UPDATE animals SET doc = ? WHERE id = ?`, string(doc), ids[i]); err != nil {
			return 0, eris.Wrapf(err, "sqlite: update record %s", ids[i])
		}
		updated++
		if !multiple {
			break
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit update")
	}
	return updated, nil
}

func (s *SQLiteStore) DeleteMany(ctx context.Context, q query.Query, multiple bool) (int, error) {
	ids, records, err := s.scanAll(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin delete")
	}
	defer tx.Rollback()

	deleted := 0
	for i, rec := range records {
		if !q.Matches(rec) {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM animals WHERE id = ?`, ids[i]); err != nil {
			return 0, eris.Wrapf(err, "sqlite: delete record %s", ids[i])
		}
		deleted++
		if !multiple {
			break
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit delete")
	}
	return deleted, nil
}

func (s *SQLiteStore) FindUser(ctx context.Context, username string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT username, password_hash, role, email, active, created_at, created_by, deactivated_at, deactivated_by
		 FROM users WHERE username = ?`, username)
	u, err := scanUserRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: find user %s", username)
	}
	return u, nil
}

func (s *SQLiteStore) InsertUser(ctx context.Context, u model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, email, active, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, string(u.Role), u.Email, boolToInt(u.Active), u.CreatedAt, u.CreatedBy,
	)
	return eris.Wrapf(err, "sqlite: insert user %s", u.Username)
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, password_hash, role, email, active, created_at, created_by, deactivated_at, deactivated_by
		 FROM users ORDER BY created_at, username`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list users")
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan user")
		}
		u.PasswordHash = nil
		users = append(users, *u)
	}
	return users, eris.Wrap(rows.Err(), "sqlite: list users iterate")
}

func (s *SQLiteStore) DeactivateUser(ctx context.Context, username, by string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET active = 0, deactivated_at = ?, deactivated_by = ? WHERE username = ? AND active = 1`,
		time.Now().UTC(), by, username,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: deactivate user %s", username)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	return n > 0, nil
}

func (s *SQLiteStore) AppendAudit(ctx context.Context, e model.AuditEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, username, action, details, timestamp) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Username, e.Action, e.Details, e.Timestamp,
	)
	return eris.Wrap(err, "sqlite: append audit")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanUserRow(row scannable) (*model.User, error) {
	var u model.User
	var role string
	var active int
	var deactivatedAt sql.NullTime
	err := row.Scan(&u.Username, &u.PasswordHash, &role, &u.Email, &active,
		&u.CreatedAt, &u.CreatedBy, &deactivatedAt, &u.DeactivatedBy)
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.Active = active != 0
	if deactivatedAt.Valid {
		t := deactivatedAt.Time
		u.DeactivatedAt = &t
	}
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
