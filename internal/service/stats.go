package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// Counter names reported in PlatformStats.FailedCounters.
const (
	CounterAgentsRegistered  = "agents_registered"
	CounterBountiesCompleted = "bounties_completed"
	CounterCreditsTraded     = "credits_traded"
)

// GetStats computes the platform counters concurrently. A failing counter is
// reported as zero with Partial set; only when every counter fails is a
// QueryError returned.
func (s *Service) GetStats(ctx context.Context) (*domain.PlatformStats, error) {
	stats := &domain.PlatformStats{}

	counters := []struct {
		name  string
		dst   *int64
		query func(context.Context) (int64, error)
	}{
		{CounterAgentsRegistered, &stats.AgentsRegistered, s.store.CountAgents},
		{CounterBountiesCompleted, &stats.BountiesCompleted, func(ctx context.Context) (int64, error) {
			return s.store.CountBountiesByStatus(ctx, domain.BountyStatusCompleted)
		}},
		{CounterCreditsTraded, &stats.CreditsTraded, s.store.SumTransactionAmounts},
	}

	errs := make([]error, len(counters))
	var g errgroup.Group
	for i, c := range counters {
		i, c := i, c
		g.Go(func() error {
			cctx, cancel := s.backendContext(ctx)
			defer cancel()

			v, err := c.query(cctx)
			if err != nil {
				errs[i] = err
				return nil
			}
			*c.dst = v
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	for i, err := range errs {
		if err != nil {
			stats.FailedCounters = append(stats.FailedCounters, counters[i].name)
			failed = append(failed, err)
		}
	}

	if len(failed) == len(counters) {
		return nil, &domain.QueryError{Op: "get_stats", Err: errors.Join(failed...)}
	}
	if len(failed) > 0 {
		stats.Partial = true
		log.Printf("WARN: partial stats, failed counters %s: %v", strings.Join(stats.FailedCounters, ","), errors.Join(failed...))
	}
	return stats, nil
}
