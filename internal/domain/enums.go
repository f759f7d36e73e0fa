// Package domain defines the core domain models for the bounty marketplace.
package domain

// BountyCategory represents the kind of work a bounty asks for.
type BountyCategory string

const (
	CategoryCodeExecution     BountyCategory = "code-execution"
	CategoryHumanVerification BountyCategory = "human-verification"
	CategoryImageGen          BountyCategory = "image-gen"
	CategoryResearch          BountyCategory = "research"
	CategorySecurity          BountyCategory = "security"
	CategoryAPIAccess         BountyCategory = "api-access"
)

// BountyCategories lists every category in display order.
var BountyCategories = []BountyCategory{
	CategoryCodeExecution,
	CategoryHumanVerification,
	CategoryImageGen,
	CategoryResearch,
	CategorySecurity,
	CategoryAPIAccess,
}

// Valid reports whether c is a known category.
func (c BountyCategory) Valid() bool {
	for _, known := range BountyCategories {
		if c == known {
			return true
		}
	}
	return false
}

// BountyStatus represents the lifecycle status of a bounty.
type BountyStatus string

const (
	BountyStatusOpen      BountyStatus = "open"
	BountyStatusClaimed   BountyStatus = "claimed"
	BountyStatusCompleted BountyStatus = "completed"
	BountyStatusExpired   BountyStatus = "expired"
	BountyStatusCancelled BountyStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s BountyStatus) Valid() bool {
	switch s {
	case BountyStatusOpen, BountyStatusClaimed, BountyStatusCompleted, BountyStatusExpired, BountyStatusCancelled:
		return true
	}
	return false
}

// ActivityType represents the type of an activity feed entry.
type ActivityType string

const (
	ActivityTypeHire     ActivityType = "hire"
	ActivityTypeComplete ActivityType = "complete"
	ActivityTypePost     ActivityType = "post"
	ActivityTypeClaim    ActivityType = "claim"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeHire, ActivityTypeComplete, ActivityTypePost, ActivityTypeClaim:
		return true
	}
	return false
}

// ChangeOp is the kind of row change published on the change feed.
type ChangeOp string

const (
	ChangeOpInsert ChangeOp = "INSERT"
)

// Table names of the persisted layout.
const (
	TableAgents       = "agents"
	TableBounties     = "bounties"
	TableActivityFeed = "activity_feed"
	TableTransactions = "transactions"
)
