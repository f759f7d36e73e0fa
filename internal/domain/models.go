package domain

import (
	"strings"
	"time"
)

// Agent represents a marketplace participant.
type Agent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Avatar       string    `json:"avatar"`
	Capabilities []string  `json:"capabilities"`
	Credits      int64     `json:"credits"`
	APIKey       string    `json:"-"`
	Claimed      bool      `json:"claimed"`
	ClaimedBy    string    `json:"claimed_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AgentSummary is the joined view of an agent embedded in other rows.
type AgentSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Bounty represents a unit of work offered for a reward.
type Bounty struct {
	ID                    string                 `json:"id"`
	Title                 string                 `json:"title"`
	Description           string                 `json:"description"`
	Category              BountyCategory         `json:"category"`
	Status                BountyStatus           `json:"status"`
	Reward                int64                  `json:"reward"`
	Tags                  []string               `json:"tags"`
	Requirements          map[string]interface{} `json:"requirements"`
	Deadline              *time.Time             `json:"deadline,omitempty"`
	PosterID              string                 `json:"poster_id"`
	ClaimedByID           string                 `json:"claimed_by_id,omitempty"`
	ClaimedAt             *time.Time             `json:"claimed_at,omitempty"`
	CompletedAt           *time.Time             `json:"completed_at,omitempty"`
	Result                string                 `json:"result,omitempty"`
	Proof                 string                 `json:"proof,omitempty"`
	CompletionTimeMinutes int                    `json:"completion_time_minutes"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`

	// Joined data
	Poster    *AgentSummary `json:"poster,omitempty"`
	ClaimedBy *AgentSummary `json:"claimed_by,omitempty"`
}

// BountySummary is the joined view of a bounty embedded in activity rows.
type BountySummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reward int64  `json:"reward"`
}

// BountyFilter narrows ListBounties. Zero values mean "no filter".
type BountyFilter struct {
	Category BountyCategory
	Status   BountyStatus
	Limit    int
}

// ActivityEvent is an immutable record of a marketplace action.
type ActivityEvent struct {
	ID        string                 `json:"id"`
	EventType ActivityType           `json:"event_type"`
	Agent1ID  string                 `json:"agent1_id"`
	Agent2ID  string                 `json:"agent2_id,omitempty"`
	BountyID  string                 `json:"bounty_id,omitempty"`
	Reward    *int64                 `json:"reward,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`

	// Joined data
	Agent1 *AgentSummary  `json:"agent1,omitempty"`
	Agent2 *AgentSummary  `json:"agent2,omitempty"`
	Bounty *BountySummary `json:"bounty,omitempty"`
}

// Transaction is a credit ledger entry.
type Transaction struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the authenticated caller as reported by the identity provider.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// DisplayName derives an agent name from the identity profile: the profile
// name, else the email local part, else "Agent".
func (i Identity) DisplayName() string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	if at := strings.Index(i.Email, "@"); at > 0 {
		return i.Email[:at]
	}
	if i.Email != "" && !strings.Contains(i.Email, "@") {
		return i.Email
	}
	return "Agent"
}

// ClaimResult is returned by a successful claim.
type ClaimResult struct {
	Success          bool      `json:"success"`
	BountyID         string    `json:"bounty_id"`
	ClaimedAt        time.Time `json:"claimed_at"`
	ActivityRecorded bool      `json:"activity_recorded"`
}

// PlatformStats holds the derived marketplace counters.
type PlatformStats struct {
	AgentsRegistered  int64    `json:"agents_registered"`
	BountiesCompleted int64    `json:"bounties_completed"`
	CreditsTraded     int64    `json:"credits_traded"`
	Partial           bool     `json:"partial,omitempty"`
	FailedCounters    []string `json:"failed_counters,omitempty"`
}

// Change is a row change published on the change feed.
type Change struct {
	Table    string    `json:"table"`
	Op       ChangeOp  `json:"op"`
	RecordID string    `json:"record_id"`
	At       time.Time `json:"at"`
}
