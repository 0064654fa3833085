// Package audit appends the mutation log: who did what, when. Appends are
// best-effort; a failed append must never abort the operation that triggered
// it, so failures are logged and swallowed.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
)

// Action kinds written to the log.
const (
	ActionCreateRecord    = "CREATE_RECORD"
	ActionReadRecords     = "READ_RECORDS"
	ActionUpdateRecord    = "UPDATE_RECORD"
	ActionUpdateRecords   = "UPDATE_RECORDS"
	ActionDeleteRecord    = "DELETE_RECORD"
	ActionDeleteRecords   = "DELETE_RECORDS"
	ActionLoginSuccess    = "LOGIN_SUCCESS"
	ActionLoginFailed     = "LOGIN_FAILED"
	ActionUserCreated     = "USER_CREATED"
	ActionUserDeactivated = "USER_DEACTIVATED"
)

// Sink receives finished entries. Store connectors implement it.
type Sink interface {
	AppendAudit(ctx context.Context, e model.AuditEntry) error
}

// Logger writes mutation-log entries to a sink.
type Logger struct {
	sink Sink
}

// New creates a Logger. A nil sink disables the log entirely (demo mode).
func New(sink Sink) *Logger {
	return &Logger{sink: sink}
}

// Record appends one entry. Errors are logged at warn and discarded.
func (l *Logger) Record(ctx context.Context, actor, action, details string) {
	if l == nil || l.sink == nil {
		return
	}
	entry := model.AuditEntry{
		ID:        uuid.New().String(),
		Username:  actor,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	if err := l.sink.AppendAudit(ctx, entry); err != nil {
		zap.L().Warn("audit append failed",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
