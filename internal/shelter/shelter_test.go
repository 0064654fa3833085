package shelter

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grazioso-salvare/shelter-cli/internal/audit"
	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/store"
)

func newLiveStore(t *testing.T) (*DataStore, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	d := New(context.Background(), mem, audit.New(mem))
	require.True(t, d.Available())
	return d, mem
}

func newDemoStore(t *testing.T) *DataStore {
	t.Helper()
	d := New(context.Background(), nil, nil)
	require.False(t, d.Available())
	return d
}

func TestCreateRejectsNonMapping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, mem := newLiveStore(t)

	for _, bad := range []any{nil, 42, "dog", []any{"a"}, 3.14} {
		ok, err := d.Create(ctx, bad, "admin")
		assert.False(t, ok)
		assert.True(t, eris.Is(err, ErrInvalidInput))
	}
	assert.Zero(t, mem.Len())
}

func TestCreateAndRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, mem := newLiveStore(t)

	ok, err := d.Create(ctx, map[string]any{"animal_id": "A1", "animal_type": "Dog"}, "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Create(ctx, model.Record{"animal_id": "A2", "animal_type": "Cat"}, "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := d.Read(ctx, map[string]any{}, "admin")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0]["animal_id"])
	assert.Equal(t, "A2", got[1]["animal_id"])

	dogs, err := d.Read(ctx, map[string]any{"animal_type": "Dog"}, "admin")
	require.NoError(t, err)
	require.Len(t, dogs, 1)

	// Two creates plus two reads hit the mutation log.
	entries := mem.AuditEntries()
	require.Len(t, entries, 4)
	assert.Equal(t, audit.ActionCreateRecord, entries[0].Action)
	assert.Equal(t, audit.ActionReadRecords, entries[2].Action)
}

func TestReadRejectsNonMapping(t *testing.T) {
	t.Parallel()
	d, _ := newLiveStore(t)

	_, err := d.Read(context.Background(), "not a query", "admin")
	assert.True(t, eris.Is(err, ErrInvalidInput))
}

func TestUpdateCounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, mem := newLiveStore(t)
	mem.Load([]model.Record{
		{"animal_id": "A1", "breed": "Beagle"},
		{"animal_id": "A2", "breed": "Beagle"},
		{"animal_id": "A3", "breed": "Husky"},
	})

	n, err := d.Update(ctx, map[string]any{"breed": "Beagle"}, map[string]any{"outcome_type": "Adoption"}, "admin", false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = d.Update(ctx, map[string]any{"breed": "Beagle"}, map[string]any{"outcome_type": "Adoption"}, "admin", true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = d.Update(ctx, map[string]any{"breed": "Poodle"}, map[string]any{"outcome_type": "Adoption"}, "admin", true)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = d.Update(ctx, map[string]any{"breed": "Beagle"}, 7, "admin", false)
	assert.True(t, eris.Is(err, ErrInvalidInput))
}

func TestDeleteCounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, mem := newLiveStore(t)
	mem.Load([]model.Record{
		{"animal_id": "A1", "breed": "Beagle"},
		{"animal_id": "A2", "breed": "Beagle"},
		{"animal_id": "A3", "breed": "Husky"},
	})

	n, err := d.Delete(ctx, map[string]any{"breed": "Beagle"}, "admin", false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, mem.Len())

	n, err = d.Delete(ctx, map[string]any{"breed": "Beagle"}, "admin", true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, mem.Len())

	n, err = d.Delete(ctx, map[string]any{"breed": "Beagle"}, "admin", true)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDemoModeReads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newDemoStore(t)

	all, err := d.Read(ctx, map[string]any{}, "anonymous")
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	dogs, err := d.Read(ctx, map[string]any{"animal_type": "Dog"}, "anonymous")
	require.NoError(t, err)
	for _, rec := range dogs {
		assert.Equal(t, "Dog", rec["animal_type"])
	}

	// Deterministic across calls.
	again, err := d.Read(ctx, map[string]any{}, "anonymous")
	require.NoError(t, err)
	assert.Equal(t, all, again)
}

func TestDemoModeMutationsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newDemoStore(t)

	ok, err := d.Create(ctx, map[string]any{"animal_id": "X1"}, "anonymous")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := d.Update(ctx, map[string]any{}, map[string]any{"name": "x"}, "anonymous", true)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = d.Delete(ctx, map[string]any{}, "anonymous", true)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Input validation still applies in demo mode.
	_, err = d.Create(ctx, 42, "anonymous")
	assert.True(t, eris.Is(err, ErrInvalidInput))
}
