// Package repository defines the storage interface and implementations.
package repository

import (
	"context"
	"time"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Agent operations
	UpsertAgent(ctx context.Context, agent *domain.Agent) error
	GetAgent(ctx context.Context, agentID string) (*domain.Agent, error)
	ListAgents(ctx context.Context, limit int) ([]domain.Agent, error)
	CountAgents(ctx context.Context) (int64, error)

	// Bounty operations
	CreateBounty(ctx context.Context, bounty *domain.Bounty) error
	GetBounty(ctx context.Context, bountyID string) (*domain.Bounty, error)
	ListBounties(ctx context.Context, filter domain.BountyFilter) ([]domain.Bounty, error)
	ClaimOpenBounty(ctx context.Context, bountyID, claimantID string, claimedAt time.Time) (bool, error)
	GetBountyPosterReward(ctx context.Context, bountyID string) (string, int64, error)
	CountBountiesByStatus(ctx context.Context, status domain.BountyStatus) (int64, error)
	ListOverdueBounties(ctx context.Context, now time.Time, limit int) ([]string, error)
	ExpireBountyIfOpen(ctx context.Context, bountyID string, now time.Time) (bool, error)

	// Activity operations
	CreateActivity(ctx context.Context, event *domain.ActivityEvent) error
	ListActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error)

	// Ledger operations
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	SumTransactionAmounts(ctx context.Context) (int64, error)

	// Lifecycle
	Close() error
}

// ChangePublisher receives a change for every committed insert.
type ChangePublisher interface {
	Publish(change domain.Change)
}
