// Package session orchestrates one authenticated user session: the chat
// transcript, the application ledger, and the backend round trips.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"loanflow/internal/agent"
	"loanflow/internal/backend"
	stderrors "loanflow/internal/common/errors"
	"loanflow/internal/common/logger"
	"loanflow/internal/common/metrics"
	"loanflow/internal/common/observability"
	"loanflow/internal/intake"
	"loanflow/internal/ledger"
	"loanflow/internal/loan"
	"loanflow/internal/models"
)

const welcomeText = "Welcome! I'm your AI Loan Assistant. How can I help you today?\n\n" +
	"I can assist with:\nLoan applications\nEligibility checks\nProduct information\nApplication status"

// BackendClient is the slice of the backend API the manager consumes.
type BackendClient interface {
	Chat(ctx context.Context, req backend.ChatRequest) backend.ChatResponse
	ListApplications(ctx context.Context) ([]models.Application, error)
}

// Manager owns the conversation session and its side effects. Chat turns are
// not serialized: concurrent Sends produce independently in-flight requests
// whose completions may interleave; transcript position is append order.
type Manager struct {
	mu      sync.Mutex
	id      string
	session *models.ConversationSession
	nextSeq int

	store      *ledger.Ledger
	classifier *agent.Classifier
	intake     *intake.Service
	backend    BackendClient
	cache      *ledger.SnapshotCache // nil when redis is disabled
	obs        *observability.Observability
	logger     logger.Logger
}

func NewManager(store *ledger.Ledger, classifier *agent.Classifier, intakeSvc *intake.Service,
	client BackendClient, cache *ledger.SnapshotCache, obs *observability.Observability,
	log logger.Logger) *Manager {

	m := &Manager{
		id:         uuid.New().String(),
		session:    &models.ConversationSession{CustomerData: map[string]interface{}{}},
		store:      store,
		classifier: classifier,
		intake:     intakeSvc,
		backend:    client,
		cache:      cache,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "session"}),
	}

	// seed the greeting the assistant opens every session with
	m.appendLocked(models.AgentMessage{
		Role:  models.RoleAssistant,
		Agent: models.AgentSales,
		Text:  welcomeText,
	})
	return m
}

// ID returns the session identifier used for snapshot keys.
func (m *Manager) ID() string {
	return m.id
}

// appendLocked assigns the next sequence id and timestamp; the caller holds
// the lock.
func (m *Manager) appendLocked(msg models.AgentMessage) models.AgentMessage {
	m.nextSeq++
	msg.ID = m.nextSeq
	msg.Timestamp = time.Now()
	m.session.Messages = append(m.session.Messages, msg)
	return msg
}

// Send runs one chat turn: the user message is appended immediately, the
// backend round trip happens outside the lock, and the assistant reply is
// appended on completion. The returned message is the assistant's.
//
// The only error is validation of empty input; backend failures surface as a
// synthesized apology reply, never as an error.
func (m *Manager) Send(ctx context.Context, text string) (models.AgentMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.AgentMessage{}, stderrors.NewValidationError("message", "message text is empty")
	}

	m.mu.Lock()
	m.appendLocked(models.AgentMessage{Role: models.RoleUser, Text: text})
	req := backend.ChatRequest{
		Message:      text,
		CustomerData: m.session.CustomerData,
		Documents:    []string{},
	}
	if m.session.CustomerID != "" {
		id := m.session.CustomerID
		req.CustomerID = &id
	}
	m.mu.Unlock()

	start := time.Now()
	resp := m.backend.Chat(ctx, req)
	metrics.ChatTurnDuration.Observe(time.Since(start).Seconds())

	m.mu.Lock()
	attributed := models.AgentSales
	var created *models.Application
	if resp.Success {
		outcome := m.classifier.Apply(ctx, m.session, resp.Result, resp.CustomerID)
		attributed = outcome.Agent
		created = outcome.Created
	}
	reply := m.appendLocked(models.AgentMessage{
		Role:  models.RoleAssistant,
		Agent: attributed,
		Text:  resp.Response,
	})
	m.mu.Unlock()

	metrics.ChatTurnsTotal.WithLabelValues(string(attributed)).Inc()
	if m.obs != nil {
		m.obs.RecordTurn(ctx, string(attributed))
		m.obs.RecordTurnDuration(ctx, time.Since(start), turnStatus(resp.Success))
	}

	if created != nil && m.cache != nil {
		m.cache.Save(ctx, m.id, m.store)
	}

	return reply, nil
}

func turnStatus(success bool) string {
	if success {
		return "ok"
	}
	return "fallback"
}

// SubmitForm runs the form-driven intake path and persists the ledger
// snapshot when caching is enabled. A validation error blocks the submission;
// nothing else can fail.
func (m *Manager) SubmitForm(ctx context.Context, in loan.FormInput) (models.Application, error) {
	app, err := m.intake.Submit(ctx, in)
	if err != nil {
		return models.Application{}, err
	}
	if m.cache != nil {
		m.cache.Save(ctx, m.id, m.store)
	}
	return app, nil
}

// Applications returns the server-side list when the backend is reachable and
// falls back to the locally known ledger (or its cached snapshot) otherwise.
func (m *Manager) Applications(ctx context.Context) []models.Application {
	apps, err := m.backend.ListApplications(ctx)
	if err == nil {
		return apps
	}

	m.logger.Warn("application list fetch failed, using local ledger", map[string]interface{}{
		"error": err.Error(),
	})

	if m.store.Len() == 0 && m.cache != nil {
		if cached := m.cache.Load(ctx, m.id); len(cached) > 0 {
			m.store.Replace(cached)
		}
	}
	return m.store.All()
}

// Transcript returns a copy of the conversation so far, in append order.
func (m *Manager) Transcript() []models.AgentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AgentMessage, len(m.session.Messages))
	copy(out, m.session.Messages)
	return out
}

// CustomerID returns the sticky backend-assigned customer id, if any.
func (m *Manager) CustomerID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.CustomerID
}

// Close tears the session down at logout: the ledger is discarded with the
// manager and the remote snapshot is removed best effort.
func (m *Manager) Close(ctx context.Context) {
	if m.cache != nil {
		m.cache.Delete(ctx, m.id)
	}

	m.mu.Lock()
	messageCount := len(m.session.Messages)
	m.mu.Unlock()

	m.logger.Info("session closed", map[string]interface{}{
		"sessionId": m.id,
		"messages":  messageCount,
		"tracked":   m.store.Len(),
	})
}
