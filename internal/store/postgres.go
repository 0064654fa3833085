package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/query"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock's pool mock
// satisfies it, which keeps the Postgres backend unit-testable without a
// live server.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Connector over a JSONB document table.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			pgxCfg.MaxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			pgxCfg.MinConns = poolCfg.MinConns
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool (used by tests with pgxmock).
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS animals (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	doc        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
	username       TEXT PRIMARY KEY,
	password_hash  BYTEA NOT NULL,
	role           TEXT NOT NULL,
	email          TEXT NOT NULL DEFAULT '',
	active         BOOLEAN NOT NULL DEFAULT TRUE,
	created_at     TIMESTAMPTZ NOT NULL,
	created_by     TEXT NOT NULL DEFAULT '',
	deactivated_at TIMESTAMPTZ,
	deactivated_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS audit_log (
	id        TEXT PRIMARY KEY,
	username  TEXT NOT NULL,
	action    TEXT NOT NULL,
	details   TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_audit_log_user_ts ON audit_log(username, timestamp DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) scanAll(ctx context.Context) ([]string, []model.Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, doc FROM animals ORDER BY seq`)
	if err != nil {
		return nil, nil, eris.Wrap(err, "postgres: scan animals")
	}
	defer rows.Close()

	var ids []string
	var records []model.Record
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, nil, eris.Wrap(err, "postgres: scan row")
		}
		var rec model.Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, nil, eris.Wrapf(err, "postgres: unmarshal doc %s", id)
		}
		ids = append(ids, id)
		records = append(records, rec)
	}
	return ids, records, eris.Wrap(rows.Err(), "postgres: scan iterate")
}

func (s *PostgresStore) FindAll(ctx context.Context, q query.Query) ([]model.Record, error) {
	_, records, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	return q.Filter(records), nil
}

func (s *PostgresStore) InsertOne(ctx context.Context, rec model.Record) (bool, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return false, eris.Wrap(err, "postgres: marshal record")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO animals (id, doc, created_at) VALUES ($1, $2, $3)`,
		uuid.New().String(), doc, time.Now().UTC(),
	)
	if err != nil {
		return false, eris.Wrap(err, "postgres: insert record")
	}
	return true, nil
}

func (s *PostgresStore) UpdateMany(ctx context.Context, q query.Query, patch model.Record, multiple bool) (int, error) {
	ids, records, err := s.scanAll(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin update")
	}
	defer tx.Rollback(ctx)

	updated := 0
	for i, rec := range records {
		if !q.Matches(rec) {
			continue
		}
		applyPatch(rec, patch)
		doc, err := json.Marshal(rec)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal patched record")
		}
		if _, err := tx.Exec(ctx, `UPDATE animals SET doc = $1 WHERE id = $2`, doc, ids[i]); err != nil {
			return 0, eris.Wrapf(err, "postgres: update record %s", ids[i])
		}
		updated++
		if !multiple {
			break
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit update")
	}
	return updated, nil
}

func (s *PostgresStore) DeleteMany(ctx context.Context, q query.Query, multiple bool) (int, error) {
	ids, records, err := s.scanAll(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin delete")
	}
	defer tx.Rollback(ctx)

	deleted := 0
	for i, rec := range records {
		if !q.Matches(rec) {
			continue
		}
		if _, err := tx.Exec(ctx, `DELETE FROM animals WHERE id = $1`, ids[i]); err != nil {
			return 0, eris.Wrapf(err, "postgres: delete record %s", ids[i])
		}
		deleted++
		if !multiple {
			break
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit delete")
	}
	return deleted, nil
}

func (s *PostgresStore) FindUser(ctx context.Context, username string) (*model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT username, password_hash, role, email, active, created_at, created_by, deactivated_at, deactivated_by
		 FROM users WHERE username = $1`, username)

	u, err := scanPgUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: find user %s", username)
	}
	return u, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, u model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (username, password_hash, role, email, active, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.Username, u.PasswordHash, string(u.Role), u.Email, u.Active, u.CreatedAt, u.CreatedBy,
	)
	return eris.Wrapf(err, "postgres: insert user %s", u.Username)
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT username, password_hash, role, email, active, created_at, created_by, deactivated_at, deactivated_by
		 FROM users ORDER BY created_at, username`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list users")
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanPgUser(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan user")
		}
		u.PasswordHash = nil
		users = append(users, *u)
	}
	return users, eris.Wrap(rows.Err(), "postgres: list users iterate")
}

func (s *PostgresStore) DeactivateUser(ctx context.Context, username, by string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET active = FALSE, deactivated_at = $1, deactivated_by = $2 WHERE username = $3 AND active`,
		time.Now().UTC(), by, username,
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: deactivate user %s", username)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) AppendAudit(ctx context.Context, e model.AuditEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_log (id, username, action, details, timestamp) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Username, e.Action, e.Details, e.Timestamp,
	)
	return eris.Wrap(err, "postgres: append audit")
}

func scanPgUser(row scannable) (*model.User, error) {
	var u model.User
	var role string
	var deactivatedAt *time.Time
	err := row.Scan(&u.Username, &u.PasswordHash, &role, &u.Email, &u.Active,
		&u.CreatedAt, &u.CreatedBy, &deactivatedAt, &u.DeactivatedBy)
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.DeactivatedAt = deactivatedAt
	return &u, nil
}
