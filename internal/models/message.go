package models

import "time"

// Role identifies who produced a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Agent is a named logical stage in the review pipeline. Assistant replies are
// attributed to exactly one agent.
type Agent string

const (
	AgentSales          Agent = "SalesAgent"
	AgentVerification   Agent = "VerificationAgent"
	AgentUnderwriting   Agent = "UnderwritingAgent"
	AgentSanctionLetter Agent = "SanctionLetterAgent"
)

// AgentMessage is one turn of the conversational transcript. The transcript is
// append-only; sequence ids increase monotonically within a session.
type AgentMessage struct {
	ID        int       `json:"id"`
	Role      Role      `json:"role"`
	Agent     Agent     `json:"agent,omitempty"` // assistant turns only
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}
