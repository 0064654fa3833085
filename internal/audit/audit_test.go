package audit

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
)

type captureSink struct {
	entries []model.AuditEntry
	err     error
}

func (c *captureSink) AppendAudit(_ context.Context, e model.AuditEntry) error {
	if c.err != nil {
		return c.err
	}
	c.entries = append(c.entries, e)
	return nil
}

func TestRecord(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	l := New(sink)
	l.Record(context.Background(), "admin", ActionCreateRecord, "created animal record A1")

	require.Len(t, sink.entries, 1)
	e := sink.entries[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "admin", e.Username)
	assert.Equal(t, ActionCreateRecord, e.Action)
	assert.Equal(t, "created animal record A1", e.Details)
	assert.False(t, e.Timestamp.IsZero())
}

func TestRecordAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	l := New(sink)
	l.Record(context.Background(), "admin", ActionReadRecords, "query: {}")
	l.Record(context.Background(), "admin", ActionReadRecords, "query: {}")

	require.Len(t, sink.entries, 2)
	assert.NotEqual(t, sink.entries[0].ID, sink.entries[1].ID)
}

func TestRecordSwallowsSinkFailure(t *testing.T) {
	t.Parallel()

	l := New(&captureSink{err: eris.New("sink down")})
	assert.NotPanics(t, func() {
		l.Record(context.Background(), "admin", ActionDeleteRecord, "deleted 1 record(s)")
	})
}

func TestRecordNilSafe(t *testing.T) {
	t.Parallel()

	var l *Logger
	assert.NotPanics(t, func() {
		l.Record(context.Background(), "admin", ActionCreateRecord, "x")
	})
	assert.NotPanics(t, func() {
		New(nil).Record(context.Background(), "admin", ActionCreateRecord, "x")
	})
}
