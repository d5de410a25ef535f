package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanflow/internal/agent"
	"loanflow/internal/backend"
	"loanflow/internal/common/config"
	stderrors "loanflow/internal/common/errors"
	"loanflow/internal/common/logger"
	"loanflow/internal/intake"
	"loanflow/internal/ledger"
	"loanflow/internal/loan"
	"loanflow/internal/models"
)

// fakeBackend scripts one canned chat response and list result per test.
type fakeBackend struct {
	chatResp  backend.ChatResponse
	chatReqs  []backend.ChatRequest
	listApps  []models.Application
	listErr   error
	listCalls int
}

func (f *fakeBackend) Chat(_ context.Context, req backend.ChatRequest) backend.ChatResponse {
	f.chatReqs = append(f.chatReqs, req)
	return f.chatResp
}

func (f *fakeBackend) ListApplications(context.Context) ([]models.Application, error) {
	f.listCalls++
	return f.listApps, f.listErr
}

func newTestManager(fb *fakeBackend) (*Manager, *ledger.Ledger) {
	cfg := config.LoanConfig{
		Currency:         "INR",
		DefaultType:      "Personal Loan",
		DefaultAmount:    500000,
		InitialProgress:  25,
		ApprovedProgress: 90,
	}
	log := logger.NewNoOpLogger()
	factory := loan.NewFactory(cfg)
	store := ledger.New()
	classifier := agent.NewClassifier(factory, store, nil, log)
	intakeSvc := intake.NewService(factory, store, nil, nil, log)

	return NewManager(store, classifier, intakeSvc, fb, nil, nil, log), store
}

func TestNewManager_SeedsGreeting(t *testing.T) {
	mgr, _ := newTestManager(&fakeBackend{})

	transcript := mgr.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, models.RoleAssistant, transcript[0].Role)
	assert.Equal(t, models.AgentSales, transcript[0].Agent)
	assert.Contains(t, transcript[0].Text, "AI Loan Assistant")
	assert.Equal(t, 1, transcript[0].ID)
}

func TestSend_AppendsUserAndReply(t *testing.T) {
	fb := &fakeBackend{chatResp: backend.ChatResponse{
		Success:    true,
		Response:   "Let me check your eligibility.",
		CustomerID: "CUST-1",
		Result:     map[string]interface{}{"verification_result": map[string]interface{}{}},
	}}
	mgr, _ := newTestManager(fb)

	reply, err := mgr.Send(context.Background(), "Am I eligible?")
	require.NoError(t, err)

	assert.Equal(t, models.RoleAssistant, reply.Role)
	assert.Equal(t, models.AgentVerification, reply.Agent)
	assert.Equal(t, "Let me check your eligibility.", reply.Text)

	transcript := mgr.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, models.RoleUser, transcript[1].Role)
	assert.Equal(t, "Am I eligible?", transcript[1].Text)
	assert.Equal(t, reply, transcript[2])

	assert.Equal(t, "CUST-1", mgr.CustomerID())
}

func TestSend_EmptyMessageRejected(t *testing.T) {
	mgr, _ := newTestManager(&fakeBackend{})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := mgr.Send(context.Background(), text)
		require.Error(t, err)
		assert.True(t, stderrors.IsValidation(err))
	}

	assert.Len(t, mgr.Transcript(), 1, "rejected sends leave no trace in the transcript")
}

func TestSend_FailedTurnAttributedToSales(t *testing.T) {
	fb := &fakeBackend{chatResp: backend.ChatResponse{
		Success:  false,
		Response: "Sorry, I'm having trouble connecting to the backend. Please try again.",
	}}
	mgr, store := newTestManager(fb)

	reply, err := mgr.Send(context.Background(), "hello?")
	require.NoError(t, err, "backend failures are replies, not errors")

	assert.Equal(t, models.AgentSales, reply.Agent)
	assert.Contains(t, reply.Text, "trouble connecting")
	assert.Equal(t, 0, store.Len())
}

func TestSend_StickyCustomerIDOnSubsequentRequests(t *testing.T) {
	fb := &fakeBackend{chatResp: backend.ChatResponse{
		Success:    true,
		Response:   "Noted.",
		CustomerID: "CUST-1",
	}}
	mgr, _ := newTestManager(fb)

	_, err := mgr.Send(context.Background(), "first")
	require.NoError(t, err)
	_, err = mgr.Send(context.Background(), "second")
	require.NoError(t, err)

	require.Len(t, fb.chatReqs, 2)
	assert.Nil(t, fb.chatReqs[0].CustomerID, "first turn has no id yet")
	require.NotNil(t, fb.chatReqs[1].CustomerID)
	assert.Equal(t, "CUST-1", *fb.chatReqs[1].CustomerID)
}

func TestSend_ApprovalTracksApplication(t *testing.T) {
	fb := &fakeBackend{chatResp: backend.ChatResponse{
		Success:  true,
		Response: "Congratulations, your loan is approved!",
		Result: map[string]interface{}{
			"sanction_result": map[string]interface{}{},
			"final_decision":  "approve",
			"customer_data":   map[string]interface{}{"name": "Asha"},
		},
	}}
	mgr, store := newTestManager(fb)

	reply, err := mgr.Send(context.Background(), "any update?")
	require.NoError(t, err)

	assert.Equal(t, models.AgentSanctionLetter, reply.Agent)
	require.Equal(t, 1, store.Len())
	assert.Equal(t, "Asha", store.All()[0].Name)
}

func TestSubmitForm(t *testing.T) {
	mgr, store := newTestManager(&fakeBackend{})

	app, err := mgr.SubmitForm(context.Background(), loan.FormInput{
		FullName: "Ravi Kumar",
		Email:    "ravi@email.com",
		LoanType: "home",
		Amount:   "2500000",
	})
	require.NoError(t, err)

	assert.Equal(t, "Home Loan", app.Type)
	assert.Equal(t, int64(2500000), app.AmountMinor)
	assert.Equal(t, 1, store.Len())

	_, err = mgr.SubmitForm(context.Background(), loan.FormInput{Amount: "free money"})
	require.Error(t, err)
	assert.True(t, stderrors.IsValidation(err))
	assert.Equal(t, 1, store.Len())
}

func TestApplications_PrefersBackendList(t *testing.T) {
	fb := &fakeBackend{listApps: []models.Application{{ID: "APP-remote"}}}
	mgr, store := newTestManager(fb)
	store.Prepend(models.Application{ID: "APP-local"})

	apps := mgr.Applications(context.Background())
	require.Len(t, apps, 1)
	assert.Equal(t, "APP-remote", apps[0].ID)
}

func TestApplications_FallsBackToLedger(t *testing.T) {
	fb := &fakeBackend{listErr: errors.New("connection refused")}
	mgr, store := newTestManager(fb)
	store.Prepend(models.Application{ID: "APP-local"})

	apps := mgr.Applications(context.Background())
	require.Len(t, apps, 1)
	assert.Equal(t, "APP-local", apps[0].ID)
	assert.Equal(t, 1, fb.listCalls)
}
