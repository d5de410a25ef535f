// Package agent classifies conversational backend results and applies their
// side effects to the session and the application ledger.
package agent

import "loanflow/internal/models"

// Stage is the closed set of pipeline result variants a backend payload can
// carry. Parsing the opaque payload into a Stage once keeps the rest of the
// classification free of defensive branching.
type Stage int

const (
	StageUnknown Stage = iota
	StageSales
	StageVerification
	StageUnderwriting
	StageSanction
)

// stageKeys lists the payload sub-object keys in attribution priority order:
// the first present key wins. Only one stage result is expected per turn in
// practice; the order matters when payloads carry forwarded trace data.
var stageKeys = []struct {
	Key   string
	Stage Stage
}{
	{"sales_result", StageSales},
	{"verification_result", StageVerification},
	{"underwriting_result", StageUnderwriting},
	{"sanction_result", StageSanction},
}

// Agent returns the pipeline agent a stage attributes a reply to. Unknown
// payloads default to the sales agent.
func (s Stage) Agent() models.Agent {
	switch s {
	case StageVerification:
		return models.AgentVerification
	case StageUnderwriting:
		return models.AgentUnderwriting
	case StageSanction:
		return models.AgentSanctionLetter
	default:
		return models.AgentSales
	}
}

// Decision is the final decision signaled by a turn, if any.
type Decision string

const (
	DecisionNone    Decision = ""
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// TurnResult is the parsed form of one backend result payload.
type TurnResult struct {
	Stage        Stage
	Decision     Decision
	CustomerData map[string]interface{} // nil when the payload carried none
	LoanAmount   int64                  // from the underwriting result, 0 when absent
}

// ParseTurnResult inspects an opaque backend result payload and reduces it to
// a TurnResult. It is total: any shape, including nil, parses to a usable
// value with defaults in place of missing or mistyped fields.
func ParseTurnResult(raw map[string]interface{}) TurnResult {
	result := TurnResult{Stage: StageUnknown}
	if raw == nil {
		return result
	}

	for _, entry := range stageKeys {
		if sub, ok := raw[entry.Key]; ok && sub != nil {
			result.Stage = entry.Stage
			break
		}
	}

	if decision, ok := raw["final_decision"].(string); ok {
		switch Decision(decision) {
		case DecisionApprove:
			result.Decision = DecisionApprove
		case DecisionReject:
			result.Decision = DecisionReject
		}
	}

	if data, ok := raw["customer_data"].(map[string]interface{}); ok {
		result.CustomerData = data
	}

	if uw, ok := raw["underwriting_result"].(map[string]interface{}); ok {
		result.LoanAmount = toInt64(uw["loan_amount"])
	}

	return result
}

// toInt64 coerces the numeric shapes JSON decoding can produce.
func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// stringField reads a string value out of a customer snapshot, tolerating
// absence and wrong types.
func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
