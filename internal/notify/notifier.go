// Package notify delivers submission confirmations over SES email and SNS SMS.
// Delivery is config-gated and best effort; a failed send never blocks intake.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	awsclient "loanflow/internal/common/aws"
	"loanflow/internal/common/config"
	stderrors "loanflow/internal/common/errors"
	"loanflow/internal/common/logger"
	"loanflow/internal/loan"
	"loanflow/internal/models"
)

// SESService and SNSService mirror the AWS client methods used, so tests can
// substitute mocks.
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Notifier struct {
	cfg    config.NotificationConfig
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	sesClient, err := awsclient.NewSESClient(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, fmt.Errorf("init SES client: %w", err)
	}
	snsClient, err := awsclient.NewSNSClient(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, fmt.Errorf("init SNS client: %w", err)
	}
	return NewWithClients(cfg, sesClient, snsClient, log), nil
}

// NewWithClients wires explicit service clients, used by tests.
func NewWithClients(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// SubmissionConfirmation sends the post-submission email and, when enabled and
// a phone number is known, an SMS. Failures are logged per channel.
func (n *Notifier) SubmissionConfirmation(ctx context.Context, app models.Application, phone string) {
	if n.cfg.Email.Enabled && app.Email != "" {
		n.sendEmail(ctx, app)
	}
	if n.cfg.SMS.Enabled && phone != "" {
		n.sendSMS(ctx, app, phone)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, app models.Application) {
	subject := fmt.Sprintf("Loan application %s received", app.ID)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour %s application for %s has been submitted successfully.\n"+
			"Application ID: %s\nCurrent status: %s\n\nYou'll receive updates via email shortly.",
		app.Name, app.Type, loan.DisplayAmount(app.AmountMinor, app.Currency), app.ID, app.Status,
	)

	input := &ses.SendEmailInput{
		Source: aws.String(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{app.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	}

	if _, err := n.ses.SendEmail(ctx, input); err != nil {
		n.logger.Warn("confirmation email failed", map[string]interface{}{
			"applicationId": app.ID,
			"error":         stderrors.NewNotificationSendFailedError("email", err).Error(),
		})
		return
	}

	n.logger.Info("confirmation email sent", map[string]interface{}{
		"applicationId": app.ID,
	})
}

func (n *Notifier) sendSMS(ctx context.Context, app models.Application, phone string) {
	message := fmt.Sprintf("Your loan application %s is %s. Amount: %s",
		app.ID, app.Status, loan.DisplayAmount(app.AmountMinor, app.Currency))

	input := &sns.PublishInput{
		Message:     aws.String(message),
		PhoneNumber: aws.String(phone),
	}
	if n.cfg.SMS.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.cfg.SMS.SenderID),
			},
		}
	}

	if _, err := n.sns.Publish(ctx, input); err != nil {
		n.logger.Warn("confirmation SMS failed", map[string]interface{}{
			"applicationId": app.ID,
			"error":         stderrors.NewNotificationSendFailedError("sms", err).Error(),
		})
		return
	}

	n.logger.Info("confirmation SMS sent", map[string]interface{}{
		"applicationId": app.ID,
	})
}
