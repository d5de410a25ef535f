// Package intake is the form-driven application path: validate, materialize,
// track, and fan out the best-effort side channels.
package intake

import (
	"context"

	"loanflow/internal/audit"
	"loanflow/internal/common/logger"
	"loanflow/internal/common/metrics"
	"loanflow/internal/ledger"
	"loanflow/internal/loan"
	"loanflow/internal/models"
	"loanflow/internal/notify"
)

type Service struct {
	factory  *loan.Factory
	store    *ledger.Ledger
	audit    *audit.Sink      // nil when postgres is disabled
	notifier *notify.Notifier // nil when notifications are disabled
	logger   logger.Logger
}

func NewService(factory *loan.Factory, store *ledger.Ledger, auditSink *audit.Sink,
	notifier *notify.Notifier, log logger.Logger) *Service {

	return &Service{
		factory:  factory,
		store:    store,
		audit:    auditSink,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"component": "intake"}),
	}
}

// Submit validates the form and tracks the resulting application. A validation
// error blocks the submission; side-channel failures never do.
func (s *Service) Submit(ctx context.Context, in loan.FormInput) (models.Application, error) {
	app, err := s.factory.NewFromForm(in)
	if err != nil {
		s.logger.Debug("form submission rejected", map[string]interface{}{"error": err.Error()})
		return models.Application{}, err
	}

	s.store.Prepend(app)
	metrics.ApplicationsCreatedTotal.WithLabelValues("form").Inc()

	s.logger.Info("application submitted", map[string]interface{}{
		"applicationId": app.ID,
		"loanType":      app.Type,
		"amount":        app.AmountMinor,
		"status":        string(app.Status),
	})

	if s.audit != nil {
		s.audit.RecordCreated(ctx, app, "form")
	}
	if s.notifier != nil {
		s.notifier.SubmissionConfirmation(ctx, app, in.Phone)
	}

	return app, nil
}
