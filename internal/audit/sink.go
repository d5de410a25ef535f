// Package audit writes application lifecycle events to Postgres. The trail is
// a side channel: every write is best effort and never blocks the flow that
// produced the event.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	stderrors "loanflow/internal/common/errors"
	"loanflow/internal/common/logger"
	"loanflow/internal/models"
)

type Sink struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSink(db *sql.DB, log logger.Logger) *Sink {
	return &Sink{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "audit"}),
	}
}

// RecordCreated inserts an application-created event. Origin is "form" or
// "agent". Insert failures are logged and swallowed.
func (s *Sink) RecordCreated(ctx context.Context, app models.Application, origin string) {
	details, err := json.Marshal(map[string]interface{}{
		"name":     app.Name,
		"loanType": app.Type,
		"amount":   app.AmountMinor,
		"currency": app.Currency,
		"progress": app.Progress,
		"status":   string(app.Status),
		"origin":   origin,
	})
	if err != nil {
		s.logger.Warn("failed to marshal audit details", map[string]interface{}{"error": err.Error()})
		details = []byte("{}")
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"application_created",
		"application",
		app.ID,
		details,
		createdAt,
	)
	if err != nil {
		s.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         stderrors.NewAuditWriteFailedError(err).Error(),
			"applicationId": app.ID,
		})
	}
}
