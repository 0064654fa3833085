// Package shelter is the record CRUD engine. It validates caller input,
// routes operations to the backing connector, appends the mutation log after
// successful mutations, and substitutes the demo dataset when no backing
// store is reachable so the consuming application stays renderable.
package shelter

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/grazioso-salvare/shelter-cli/internal/audit"
	"github.com/grazioso-salvare/shelter-cli/internal/demo"
	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/query"
	"github.com/grazioso-salvare/shelter-cli/internal/store"
)

// ErrInvalidInput is returned when a record, query, or patch argument is not
// a well-formed mapping. It is the only error CRUD raises to callers: no
// match found is a zero result, and backend unavailability is a silent
// substitution, never an error.
var ErrInvalidInput = eris.New("shelter: argument must be a non-nil mapping")

// DataStore is the engine handle. Availability is fixed at construction: the
// connector is pinged once, and an unreachable (or absent) connector puts the
// store into demo mode for its lifetime rather than being re-inspected via
// ambient state.
type DataStore struct {
	conn      store.Connector
	log       *audit.Logger
	available bool
}

// New constructs a DataStore around conn, which may be nil for a pure demo
// store. The audit logger may be nil to disable the mutation log.
func New(ctx context.Context, conn store.Connector, log *audit.Logger) *DataStore {
	available := false
	if conn != nil {
		if err := conn.Ping(ctx); err != nil {
			zap.L().Warn("backing store unreachable, running in demo mode", zap.Error(err))
		} else {
			available = true
		}
	} else {
		zap.L().Info("no backing store configured, running in demo mode")
	}
	return &DataStore{conn: conn, log: log, available: available}
}

// Available reports whether a live backing store is attached.
func (d *DataStore) Available() bool { return d.available }

// Create appends one record. The record must be a mapping; anything else is
// ErrInvalidInput. In demo mode the call is a no-op returning false.
func (d *DataStore) Create(ctx context.Context, data any, actor string) (bool, error) {
	rec, ok := asRecord(data)
	if !ok {
		return false, ErrInvalidInput
	}
	if !d.available {
		return false, nil
	}

	ok, err := d.conn.InsertOne(ctx, rec)
	if err != nil {
		return false, eris.Wrap(err, "shelter: create")
	}
	if ok {
		d.log.Record(ctx, actor, audit.ActionCreateRecord,
			"created animal record "+rec.Str(model.FieldAnimalID))
	}
	return ok, nil
}

// Read returns every record matching the query, preserving insertion order.
// An empty query matches all records. In demo mode the canned dataset is
// filtered by the same predicate matcher.
func (d *DataStore) Read(ctx context.Context, querySpec any, actor string) ([]model.Record, error) {
	spec, ok := asMapping(querySpec)
	if !ok {
		return nil, ErrInvalidInput
	}
	q := query.Parse(spec)

	if !d.available {
		return q.Filter(demo.Records()), nil
	}

	records, err := d.conn.FindAll(ctx, q)
	if err != nil {
		return nil, eris.Wrap(err, "shelter: read")
	}
	d.log.Record(ctx, actor, audit.ActionReadRecords, "query: "+compactJSON(spec))
	return records, nil
}

// Update merges patch fields into matching records and returns the count
// modified. With multiple false, at most the first match changes. In demo
// mode no mutation is possible and the count is 0.
func (d *DataStore) Update(ctx context.Context, querySpec, patch any, actor string, multiple bool) (int, error) {
	spec, ok := asMapping(querySpec)
	if !ok {
		return 0, ErrInvalidInput
	}
	patchRec, ok := asRecord(patch)
	if !ok {
		return 0, ErrInvalidInput
	}
	if !d.available {
		return 0, nil
	}

	n, err := d.conn.UpdateMany(ctx, query.Parse(spec), patchRec, multiple)
	if err != nil {
		return 0, eris.Wrap(err, "shelter: update")
	}
	if n > 0 {
		action := audit.ActionUpdateRecord
		if multiple {
			action = audit.ActionUpdateRecords
		}
		d.log.Record(ctx, actor, action, "updated "+itoa(n)+" record(s) matching "+compactJSON(spec))
	}
	return n, nil
}

// Delete removes matching records and returns the count removed. With
// multiple false, only the first match is removed. In demo mode the count
// is 0.
func (d *DataStore) Delete(ctx context.Context, querySpec any, actor string, multiple bool) (int, error) {
	spec, ok := asMapping(querySpec)
	if !ok {
		return 0, ErrInvalidInput
	}
	if !d.available {
		return 0, nil
	}

	n, err := d.conn.DeleteMany(ctx, query.Parse(spec), multiple)
	if err != nil {
		return 0, eris.Wrap(err, "shelter: delete")
	}
	if n > 0 {
		action := audit.ActionDeleteRecord
		if multiple {
			action = audit.ActionDeleteRecords
		}
		d.log.Record(ctx, actor, action, "deleted "+itoa(n)+" record(s) matching "+compactJSON(spec))
	}
	return n, nil
}

func asRecord(v any) (model.Record, bool) {
	switch m := v.(type) {
	case model.Record:
		return m, m != nil
	case map[string]any:
		return model.Record(m), m != nil
	}
	return nil, false
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case model.Record:
		return m, m != nil
	}
	return nil, false
}

func compactJSON(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return "<unencodable>"
	}
	return string(b)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
