package service

import (
	"context"
	"log"
	"time"
)

// expirySweepBatch bounds how many bounties one sweep expires.
const expirySweepBatch = 100

// RunExpiryMonitor expires open bounties past their deadline until ctx is
// done.
func (s *Service) RunExpiryMonitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepExpiredBounties(ctx)
		}
	}
}

// SweepExpiredBounties expires open bounties whose deadline has passed and
// returns how many were expired.
func (s *Service) SweepExpiredBounties(ctx context.Context) int {
	sweepCtx, cancel := s.backendContext(ctx)
	defer cancel()

	now := s.now()
	overdue, err := s.store.ListOverdueBounties(sweepCtx, now, expirySweepBatch)
	if err != nil {
		log.Printf("WARN: bounty expiry sweep failed: %v", err)
		return 0
	}

	expired := 0
	for _, id := range overdue {
		updated, err := s.store.ExpireBountyIfOpen(sweepCtx, id, now)
		if err != nil {
			log.Printf("WARN: failed to expire bounty %s: %v", id, err)
			continue
		}
		// A claim that won the race keeps the bounty.
		if !updated {
			continue
		}
		expired++
	}
	if expired > 0 {
		log.Printf("Expired %d overdue bounties", expired)
	}
	return expired
}
