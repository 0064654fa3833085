// Package store provides the backing collections for shelter records, users,
// and the audit log, with interchangeable memory, SQLite, and Postgres
// backends. Records are stored as schema-less documents; query filtering runs
// through the same predicate matcher on every backend so operator semantics
// never depend on the driver.
package store

import (
	"context"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/query"
)

// Connector is the contract the data layer consumes. The engine never depends
// on a specific store's wire protocol; unavailability is a state reported by
// Ping, not an error surfaced from individual operations.
type Connector interface {
	// Ping reports backend reachability.
	Ping(ctx context.Context) error

	// Animal records. FindAll preserves insertion order; UpdateMany and
	// DeleteMany stop after the first match unless multiple is set, and
	// return the count of records actually touched.
	FindAll(ctx context.Context, q query.Query) ([]model.Record, error)
	InsertOne(ctx context.Context, rec model.Record) (bool, error)
	UpdateMany(ctx context.Context, q query.Query, patch model.Record, multiple bool) (int, error)
	DeleteMany(ctx context.Context, q query.Query, multiple bool) (int, error)

	// Users. FindUser returns (nil, nil) when the username is unknown.
	FindUser(ctx context.Context, username string) (*model.User, error)
	InsertUser(ctx context.Context, u model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	DeactivateUser(ctx context.Context, username, by string) (bool, error)

	// AppendAudit records one mutation-log entry. Entries are immutable;
	// there is no update or delete path.
	AppendAudit(ctx context.Context, e model.AuditEntry) error

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}

// applyPatch merges patch fields into rec, overwriting on collision and
// leaving unspecified fields untouched.
func applyPatch(rec, patch model.Record) {
	for k, v := range patch {
		rec[k] = v
	}
}
