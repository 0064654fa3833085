package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/query"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func animalRows(docs ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "doc"})
	for i, doc := range docs {
		rows.AddRow(string(rune('a'+i)), []byte(doc))
	}
	return rows
}

func TestPostgresFindAll(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectQuery("SELECT id, doc FROM animals ORDER BY seq").
		WillReturnRows(animalRows(
			`{"animal_id":"A1","animal_type":"Dog"}`,
			`{"animal_id":"A2","animal_type":"Cat"}`,
			`{"animal_id":"A3","animal_type":"Dog"}`,
		))

	got, err := s.FindAll(context.Background(), query.Parse(map[string]any{"animal_type": "Dog"}))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0]["animal_id"])
	assert.Equal(t, "A3", got[1]["animal_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertOne(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectExec("INSERT INTO animals").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ok, err := s.InsertOne(context.Background(), model.Record{"animal_id": "A1"})
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteSingleStopsAtFirstMatch(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectQuery("SELECT id, doc FROM animals ORDER BY seq").
		WillReturnRows(animalRows(
			`{"animal_id":"A1","breed":"Beagle"}`,
			`{"animal_id":"A2","breed":"Beagle"}`,
		))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM animals").
		WithArgs("a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	n, err := s.DeleteMany(context.Background(), query.Parse(map[string]any{"breed": "Beagle"}), false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateMultiple(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectQuery("SELECT id, doc FROM animals ORDER BY seq").
		WillReturnRows(animalRows(
			`{"animal_id":"A1","breed":"Beagle"}`,
			`{"animal_id":"A2","breed":"Husky"}`,
			`{"animal_id":"A3","breed":"Beagle"}`,
		))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE animals SET doc").
		WithArgs(pgxmock.AnyArg(), "a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE animals SET doc").
		WithArgs(pgxmock.AnyArg(), "c").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	n, err := s.UpdateMany(context.Background(),
		query.Parse(map[string]any{"breed": "Beagle"}),
		model.Record{"outcome_type": "Adoption"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindUserUnknown(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	u, err := s.FindUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeactivateUser(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectExec("UPDATE users SET active").
		WithArgs(pgxmock.AnyArg(), "admin", "casey").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET active").
		WithArgs(pgxmock.AnyArg(), "admin", "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := s.DeactivateUser(context.Background(), "casey", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeactivateUser(context.Background(), "ghost", "admin")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendAudit(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs("id-1", "admin", "CREATE_RECORD", "animal_id=A1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.AppendAudit(context.Background(), model.AuditEntry{
		ID:        "id-1",
		Username:  "admin",
		Action:    "CREATE_RECORD",
		Details:   "animal_id=A1",
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS animals").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
