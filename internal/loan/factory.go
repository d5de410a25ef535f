package loan

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"loanflow/internal/common/config"
	stderrors "loanflow/internal/common/errors"
	"loanflow/internal/common/validation"
	"loanflow/internal/models"
)

// FormInput carries the raw intake-form fields.
type FormInput struct {
	FullName         string
	Email            string
	Phone            string
	LoanType         string
	Amount           string // raw user input, validated here
	Purpose          string
	EmploymentStatus string
	AnnualIncome     string
	CreditScore      string
}

// CustomerFacts are the applicant attributes accumulated over a conversation.
// Any field may be empty; the factory degrades to placeholders.
type CustomerFacts struct {
	Name     string
	LoanType string
	Email    string
}

// Factory builds Application records from form or agent input. Progress
// constants and placeholder defaults come from configuration.
type Factory struct {
	cfg   config.LoanConfig
	now   func() time.Time
	newID func() string
}

func NewFactory(cfg config.LoanConfig) *Factory {
	return &Factory{
		cfg:   cfg,
		now:   time.Now,
		newID: newApplicationID,
	}
}

// newApplicationID generates a fresh "APP-<token>" identifier.
func newApplicationID() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "APP-" + token[:9]
}

// NewFromForm validates the intake form and materializes an application at the
// initial "just submitted" progress. The only failure mode is validation.
func (f *Factory) NewFromForm(in FormInput) (models.Application, error) {
	amount, err := ParseINR(in.Amount)
	if err != nil || amount <= 0 {
		return models.Application{}, stderrors.NewValidationError(
			"amount", fmt.Sprintf("loan amount must be a positive integer, got %q", in.Amount))
	}

	if in.Email != "" && !validation.ValidEmail(in.Email) {
		return models.Application{}, stderrors.NewValidationError(
			"email", fmt.Sprintf("email address %q is not valid", in.Email))
	}
	if in.Phone != "" && !validation.ValidPhone(in.Phone) {
		return models.Application{}, stderrors.NewValidationError(
			"phone", fmt.Sprintf("phone number %q is not valid", in.Phone))
	}

	progress := f.cfg.InitialProgress
	return models.Application{
		ID:          f.newID(),
		Name:        in.FullName,
		AmountMinor: amount,
		Currency:    f.cfg.Currency,
		Type:        NormalizeType(in.LoanType),
		Status:      StatusForProgress(progress),
		Progress:    progress,
		Date:        f.now().UTC().Format("2006-01-02"),
		Email:       in.Email,
	}, nil
}

// NewFromAgentOutcome materializes an application when a conversation ends in
// an approval-equivalent outcome. It never fails; incomplete facts degrade to
// placeholders.
func (f *Factory) NewFromAgentOutcome(facts CustomerFacts, loanAmount int64) models.Application {
	name := facts.Name
	if name == "" {
		name = "Applicant"
	}

	loanType := facts.LoanType
	if loanType == "" {
		loanType = f.cfg.DefaultType
	}

	if loanAmount <= 0 {
		loanAmount = f.cfg.DefaultAmount
	}

	progress := f.cfg.ApprovedProgress
	return models.Application{
		ID:          f.newID(),
		Name:        name,
		AmountMinor: loanAmount,
		Currency:    f.cfg.Currency,
		Type:        loanType,
		Status:      StatusForProgress(progress),
		Progress:    progress,
		Date:        f.now().UTC().Format("2006-01-02"),
		Email:       facts.Email,
	}
}
