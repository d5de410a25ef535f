package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanflow/internal/common/config"
	"loanflow/internal/common/logger"
	"loanflow/internal/models"
)

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, input)
	return &ses.SendEmailOutput{}, m.err
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, input)
	return &sns.PublishOutput{}, m.err
}

func testConfig(email, sms bool) config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = email
	cfg.Email.FromEmail = "loans@example.com"
	cfg.SMS.Enabled = sms
	cfg.SMS.SenderID = "LOANFLOW"
	return cfg
}

func testApp() models.Application {
	return models.Application{
		ID:          "APP-TEST12345",
		Name:        "Asha",
		AmountMinor: 750000,
		Currency:    "INR",
		Type:        "Business Loan",
		Status:      models.StatusUnderwriting,
		Email:       "asha@email.com",
	}
}

func TestSubmissionConfirmation_BothChannels(t *testing.T) {
	sesMock, snsMock := &mockSES{}, &mockSNS{}
	n := NewWithClients(testConfig(true, true), sesMock, snsMock, logger.NewNoOpLogger())

	n.SubmissionConfirmation(context.Background(), testApp(), "+919999999999")

	require.Len(t, sesMock.inputs, 1)
	email := sesMock.inputs[0]
	assert.Equal(t, "loans@example.com", *email.Source)
	assert.Equal(t, []string{"asha@email.com"}, email.Destination.ToAddresses)
	assert.Contains(t, *email.Message.Subject.Data, "APP-TEST12345")
	assert.Contains(t, *email.Message.Body.Text.Data, "₹7,50,000")

	require.Len(t, snsMock.inputs, 1)
	smsInput := snsMock.inputs[0]
	assert.Equal(t, "+919999999999", *smsInput.PhoneNumber)
	assert.Contains(t, *smsInput.Message, "APP-TEST12345")
	require.Contains(t, smsInput.MessageAttributes, "AWS.SNS.SMS.SenderID")
	assert.Equal(t, "LOANFLOW", *smsInput.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
}

func TestSubmissionConfirmation_ChannelGating(t *testing.T) {
	tests := []struct {
		name       string
		email, sms bool
		appEmail   string
		phone      string
		wantEmails int
		wantSMS    int
	}{
		{"all disabled", false, false, "asha@email.com", "+919999999999", 0, 0},
		{"email only", true, false, "asha@email.com", "+919999999999", 1, 0},
		{"sms only", false, true, "asha@email.com", "+919999999999", 0, 1},
		{"no address known", true, true, "", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sesMock, snsMock := &mockSES{}, &mockSNS{}
			n := NewWithClients(testConfig(tt.email, tt.sms), sesMock, snsMock, logger.NewNoOpLogger())

			app := testApp()
			app.Email = tt.appEmail
			n.SubmissionConfirmation(context.Background(), app, tt.phone)

			assert.Len(t, sesMock.inputs, tt.wantEmails)
			assert.Len(t, snsMock.inputs, tt.wantSMS)
		})
	}
}

func TestSubmissionConfirmation_SendFailuresAreSwallowed(t *testing.T) {
	sesMock := &mockSES{err: errors.New("throttled")}
	snsMock := &mockSNS{err: errors.New("invalid number")}
	n := NewWithClients(testConfig(true, true), sesMock, snsMock, logger.NewNoOpLogger())

	// Neither failure may panic or propagate.
	n.SubmissionConfirmation(context.Background(), testApp(), "+919999999999")

	assert.Len(t, sesMock.inputs, 1)
	assert.Len(t, snsMock.inputs, 1)
}
