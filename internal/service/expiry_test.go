package service

import (
	"context"
	"testing"
	"time"

	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/tests/helpers"
)

func createBountyWithDeadline(t *testing.T, svc *Service, id string, status domain.BountyStatus, deadline time.Time) {
	t.Helper()
	now := time.Now().UTC()
	b := &domain.Bounty{
		ID:        id,
		Title:     "Bounty " + id,
		Category:  domain.CategoryResearch,
		Status:    status,
		Reward:    25,
		PosterID:  "P1",
		Deadline:  &deadline,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.store.CreateBounty(context.Background(), b); err != nil {
		t.Fatalf("CreateBounty(%s): %v", id, err)
	}
}

func TestExpirySweepExpiresOverdueOpenBounties(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestService(t, nil)
	helpers.CreateAgent(t, db, "P1", "Poster")

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	createBountyWithDeadline(t, svc, "overdue", domain.BountyStatusOpen, past)
	createBountyWithDeadline(t, svc, "overdue-claimed", domain.BountyStatusClaimed, past)
	createBountyWithDeadline(t, svc, "upcoming", domain.BountyStatusOpen, future)
	helpers.CreateBounty(t, db, "no-deadline", "P1", domain.CategoryResearch, domain.BountyStatusOpen, 10)

	if n := svc.SweepExpiredBounties(ctx); n != 1 {
		t.Fatalf("expected 1 expired bounty, got %d", n)
	}

	want := map[string]domain.BountyStatus{
		"overdue":         domain.BountyStatusExpired,
		"overdue-claimed": domain.BountyStatusClaimed,
		"upcoming":        domain.BountyStatusOpen,
		"no-deadline":     domain.BountyStatusOpen,
	}
	for id, status := range want {
		got, err := db.GetBounty(ctx, id)
		if err != nil {
			t.Fatalf("GetBounty(%s): %v", id, err)
		}
		if got == nil {
			t.Fatalf("expected bounty %s", id)
		}
		if got.Status != status {
			t.Fatalf("bounty %s: expected status %s, got %s", id, status, got.Status)
		}
	}

	if n := svc.SweepExpiredBounties(ctx); n != 0 {
		t.Fatalf("expected second sweep to be a no-op, got %d", n)
	}
}

func TestExpiryMonitorStopsWithContext(t *testing.T) {
	svc, db, _ := newTestService(t, nil)
	helpers.CreateAgent(t, db, "P1", "Poster")
	createBountyWithDeadline(t, svc, "overdue", domain.BountyStatusOpen, time.Now().UTC().Add(-time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunExpiryMonitor(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := db.GetBounty(context.Background(), "overdue")
		if err != nil {
			t.Fatalf("GetBounty: %v", err)
		}
		if got.Status == domain.BountyStatusExpired {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("monitor did not expire bounty, status %s", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
