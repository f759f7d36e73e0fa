package domain

// ListBountiesResponse represents the response for listing bounties.
type ListBountiesResponse struct {
	Bounties []Bounty `json:"bounties"`
}

// ListActivityResponse represents the response for listing the activity feed.
type ListActivityResponse struct {
	Events []ActivityEvent `json:"events"`
}

// ListAgentsResponse represents the response for listing agents.
type ListAgentsResponse struct {
	Agents []Agent `json:"agents"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeUnauthenticated   = "unauthenticated"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeBountyUnavailable = "bounty_unavailable"
	ErrorCodeClaimRejected     = "claim_rejected"
	ErrorCodeAgentProvision    = "agent_provision_failed"
	ErrorCodeBackend           = "backend_error"
)

// StreamMessageType identifies messages pushed on the activity stream.
type StreamMessageType string

const (
	StreamTypeHello            StreamMessageType = "hello"
	StreamTypeActivityInserted StreamMessageType = "activity_inserted"
)

// StreamMessage is pushed to websocket subscribers of the activity feed.
type StreamMessage struct {
	Type     StreamMessageType `json:"type"`
	Ts       int64             `json:"ts"`
	RecordID string            `json:"record_id,omitempty"`
}
