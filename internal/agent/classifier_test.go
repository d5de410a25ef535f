package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanflow/internal/common/config"
	"loanflow/internal/common/logger"
	"loanflow/internal/ledger"
	"loanflow/internal/loan"
	"loanflow/internal/models"
)

func newTestClassifier() (*Classifier, *ledger.Ledger) {
	factory := loan.NewFactory(config.LoanConfig{
		Currency:         "INR",
		DefaultType:      "Personal Loan",
		DefaultAmount:    500000,
		InitialProgress:  25,
		ApprovedProgress: 90,
	})
	store := ledger.New()
	return NewClassifier(factory, store, nil, logger.NewNoOpLogger()), store
}

func TestClassifier_ApproveCreatesOneApplication(t *testing.T) {
	classifier, store := newTestClassifier()
	session := &models.ConversationSession{}

	payload := map[string]interface{}{
		"underwriting_result": map[string]interface{}{"loan_amount": float64(750000)},
		"final_decision":      "approve",
		"customer_data": map[string]interface{}{
			"name":      "Asha",
			"loan_type": "Business Loan",
			"email":     "asha@email.com",
		},
	}

	outcome := classifier.Apply(context.Background(), session, payload, "CUST-1")

	assert.Equal(t, models.AgentUnderwriting, outcome.Agent)
	require.NotNil(t, outcome.Created)

	apps := store.All()
	require.Len(t, apps, 1, "one approval produces exactly one ledger entry")

	app := apps[0]
	assert.Equal(t, "Asha", app.Name)
	assert.Equal(t, "Business Loan", app.Type)
	assert.Equal(t, int64(750000), app.AmountMinor)
	assert.Equal(t, 90, app.Progress)
	assert.Equal(t, models.StatusUnderwriting, app.Status)
	assert.Equal(t, "asha@email.com", app.Email)
}

func TestClassifier_NonApproveLeavesLedgerUntouched(t *testing.T) {
	classifier, store := newTestClassifier()
	session := &models.ConversationSession{}

	for _, payload := range []map[string]interface{}{
		{"sales_result": map[string]interface{}{}},
		{"final_decision": "reject", "sanction_result": map[string]interface{}{}},
		nil,
	} {
		outcome := classifier.Apply(context.Background(), session, payload, "")
		assert.Nil(t, outcome.Created)
	}

	assert.Equal(t, 0, store.Len())
}

func TestClassifier_UnrecognizedPayloadDefaultsToSales(t *testing.T) {
	classifier, store := newTestClassifier()
	session := &models.ConversationSession{}

	outcome := classifier.Apply(context.Background(), session, map[string]interface{}{"noise": true}, "")

	assert.Equal(t, models.AgentSales, outcome.Agent)
	assert.Equal(t, 0, store.Len())
	assert.Nil(t, session.CustomerData)
}

func TestClassifier_CustomerDataReplacedWholesale(t *testing.T) {
	classifier, _ := newTestClassifier()
	session := &models.ConversationSession{
		CustomerData: map[string]interface{}{"name": "Asha", "phone": "9999999999"},
	}

	classifier.Apply(context.Background(), session, map[string]interface{}{
		"customer_data": map[string]interface{}{"name": "Asha K"},
	}, "")

	assert.Equal(t, "Asha K", session.CustomerData["name"])
	_, hasPhone := session.CustomerData["phone"]
	assert.False(t, hasPhone, "old keys do not survive a replacement snapshot")
}

func TestClassifier_CustomerIDIsSticky(t *testing.T) {
	classifier, _ := newTestClassifier()
	session := &models.ConversationSession{}

	classifier.Apply(context.Background(), session, nil, "CUST-1")
	classifier.Apply(context.Background(), session, nil, "CUST-2")

	assert.Equal(t, "CUST-1", session.CustomerID)
}

func TestClassifier_ApproveWithEmptyFactsUsesDefaults(t *testing.T) {
	classifier, store := newTestClassifier()
	session := &models.ConversationSession{}

	outcome := classifier.Apply(context.Background(), session, map[string]interface{}{
		"sanction_result": map[string]interface{}{},
		"final_decision":  "approve",
	}, "")

	require.NotNil(t, outcome.Created)
	assert.Equal(t, models.AgentSanctionLetter, outcome.Agent)

	app := store.All()[0]
	assert.Equal(t, "Applicant", app.Name)
	assert.Equal(t, "Personal Loan", app.Type)
	assert.Equal(t, int64(500000), app.AmountMinor)
}
