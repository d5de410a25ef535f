package agent

import (
	"context"

	"loanflow/internal/audit"
	"loanflow/internal/common/logger"
	"loanflow/internal/common/metrics"
	"loanflow/internal/ledger"
	"loanflow/internal/loan"
	"loanflow/internal/models"
)

// Classifier turns one backend chat result into session and ledger state.
// Apply is the last line of defense before the user sees a reply, so it never
// fails: malformed payloads degrade to defaults at every step.
type Classifier struct {
	factory *loan.Factory
	ledger  *ledger.Ledger
	audit   *audit.Sink // nil when postgres is disabled
	logger  logger.Logger
}

func NewClassifier(factory *loan.Factory, store *ledger.Ledger, auditSink *audit.Sink, log logger.Logger) *Classifier {
	return &Classifier{
		factory: factory,
		ledger:  store,
		audit:   auditSink,
		logger:  log.WithFields(map[string]interface{}{"component": "classifier"}),
	}
}

// Outcome reports what Apply did with a turn.
type Outcome struct {
	Agent   models.Agent
	Created *models.Application // non-nil only for approve decisions
}

// Apply attributes the reply, merges customer state, records the sticky
// customer id, and materializes a new application when the turn signals an
// approve decision. Any other decision leaves the ledger untouched.
func (c *Classifier) Apply(ctx context.Context, session *models.ConversationSession, payload map[string]interface{}, customerID string) Outcome {
	result := ParseTurnResult(payload)
	outcome := Outcome{Agent: result.Stage.Agent()}

	if result.CustomerData != nil {
		session.ReplaceCustomerData(result.CustomerData)
	}
	session.SetCustomerID(customerID)

	if result.Decision != DecisionApprove {
		return outcome
	}

	facts := loan.CustomerFacts{
		Name:     stringField(result.CustomerData, "name"),
		LoanType: stringField(result.CustomerData, "loan_type"),
		Email:    stringField(result.CustomerData, "email"),
	}

	app := c.factory.NewFromAgentOutcome(facts, result.LoanAmount)
	c.ledger.Prepend(app)
	metrics.ApplicationsCreatedTotal.WithLabelValues("agent").Inc()
	if c.audit != nil {
		c.audit.RecordCreated(ctx, app, "agent")
	}

	c.logger.Info("application materialized from agent approval", map[string]interface{}{
		"applicationId": app.ID,
		"loanType":      app.Type,
		"amount":        app.AmountMinor,
		"progress":      app.Progress,
		"status":        string(app.Status),
	})

	outcome.Created = &app
	return outcome
}
