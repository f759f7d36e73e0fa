package service

import (
	"context"
	"fmt"

	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/internal/repository"
)

// Default page sizes used when the caller passes a non-positive limit.
const (
	DefaultActivityLimit = 10
	DefaultAgentLimit    = 10
)

func (s *Service) ListBounties(ctx context.Context, filter domain.BountyFilter) ([]domain.Bounty, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, filter.Category)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, filter.Status)
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}

	ctx, cancel := s.backendContext(ctx)
	defer cancel()

	bounties, err := s.store.ListBounties(ctx, filter)
	if err != nil {
		return nil, &domain.QueryError{Op: "list_bounties", Err: err}
	}
	return bounties, nil
}

// GetBounty returns nil without error when the bounty does not exist.
func (s *Service) GetBounty(ctx context.Context, bountyID string) (*domain.Bounty, error) {
	ctx, cancel := s.backendContext(ctx)
	defer cancel()

	bounty, err := s.store.GetBounty(ctx, bountyID)
	if err != nil {
		return nil, &domain.QueryError{Op: "get_bounty", Err: err}
	}
	return bounty, nil
}

func (s *Service) ListActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	ctx, cancel := s.backendContext(ctx)
	defer cancel()

	events, err := s.store.ListActivity(ctx, limit)
	if err != nil {
		return nil, &domain.QueryError{Op: "list_activity", Err: err}
	}
	return events, nil
}

func (s *Service) ListAgents(ctx context.Context, limit int) ([]domain.Agent, error) {
	if limit <= 0 {
		limit = DefaultAgentLimit
	}

	ctx, cancel := s.backendContext(ctx)
	defer cancel()

	agents, err := s.store.ListAgents(ctx, limit)
	if err != nil {
		return nil, &domain.QueryError{Op: "list_agents", Err: err}
	}
	return agents, nil
}

// SeedDemoData loads the demo marketplace into an empty backend.
func (s *Service) SeedDemoData(ctx context.Context) error {
	if err := repository.SeedDemoData(ctx, s.store); err != nil {
		return &domain.QueryError{Op: "seed_demo_data", Err: err}
	}
	return nil
}
