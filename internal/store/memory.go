package store

import (
	"context"
	"sync"
	"time"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/query"
)

// Memory is the in-memory backend: an ordered record collection scanned with
// the predicate matcher, typically hydrated from a local CSV dataset. It is
// always reachable. Mutations serialize on a write lock for the duration of
// the scan-and-mutate pass; reads copy before returning so a concurrent
// mutation can never corrupt an aggregation pass.
type Memory struct {
	mu      sync.RWMutex
	records []model.Record
	users   map[string]*model.User
	order   []string // usernames in creation order
	audit   []model.AuditEntry
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]*model.User)}
}

// Load replaces the record collection, preserving the given order.
func (m *Memory) Load(records []model.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make([]model.Record, len(records))
	copy(m.records, records)
}

// Len reports the current record count.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) FindAll(_ context.Context, q query.Query) ([]model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Record, 0, len(m.records))
	for _, rec := range m.records {
		if q.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (m *Memory) InsertOne(_ context.Context, rec model.Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec.Clone())
	return true, nil
}

func (m *Memory) UpdateMany(_ context.Context, q query.Query, patch model.Record, multiple bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	updated := 0
	for _, rec := range m.records {
		if !q.Matches(rec) {
			continue
		}
		applyPatch(rec, patch)
		updated++
		if !multiple {
			break
		}
	}
	return updated, nil
}

func (m *Memory) DeleteMany(_ context.Context, q query.Query, multiple bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0:0]
	deleted := 0
	for _, rec := range m.records {
		if q.Matches(rec) && (multiple || deleted == 0) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	m.records = kept
	return deleted, nil
}

func (m *Memory) FindUser(_ context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) InsertUser(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Username]; !exists {
		m.order = append(m.order, u.Username)
	}
	cp := u
	m.users[u.Username] = &cp
	return nil
}

func (m *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.User, 0, len(m.order))
	for _, name := range m.order {
		u := *m.users[name]
		u.PasswordHash = nil
		out = append(out, u)
	}
	return out, nil
}

func (m *Memory) DeactivateUser(_ context.Context, username, by string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok || !u.Active {
		return false, nil
	}
	now := time.Now().UTC()
	u.Active = false
	u.DeactivatedAt = &now
	u.DeactivatedBy = by
	return true, nil
}

func (m *Memory) AppendAudit(_ context.Context, e model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, e)
	return nil
}

// AuditEntries returns a copy of the audit log, oldest first.
func (m *Memory) AuditEntries() []model.AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.AuditEntry, len(m.audit))
	copy(out, m.audit)
	return out
}

func (m *Memory) Migrate(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
