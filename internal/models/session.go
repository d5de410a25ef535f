package models

// ConversationSession groups a transcript with the applicant facts accumulated
// over the conversation.
type ConversationSession struct {
	// CustomerID is assigned by the backend on first response and sticky for
	// the rest of the session.
	CustomerID string `json:"customerId,omitempty"`

	// CustomerData is replaced wholesale whenever the backend returns an
	// updated snapshot; it is never merged per field.
	CustomerData map[string]interface{} `json:"customerData"`

	Messages []AgentMessage `json:"messages"`
}

// SetCustomerID records the backend-assigned id. The first assignment wins;
// later values are ignored.
func (s *ConversationSession) SetCustomerID(id string) {
	if s.CustomerID == "" && id != "" {
		s.CustomerID = id
	}
}

// ReplaceCustomerData swaps the accumulated applicant snapshot. Last writer
// wins at payload granularity.
func (s *ConversationSession) ReplaceCustomerData(data map[string]interface{}) {
	if data != nil {
		s.CustomerData = data
	}
}
