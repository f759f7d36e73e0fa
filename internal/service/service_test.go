package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agentbounty/bountyboard/internal/config"
	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/internal/realtime"
	"github.com/agentbounty/bountyboard/internal/repository"
	"github.com/agentbounty/bountyboard/policy"
	"github.com/agentbounty/bountyboard/tests/helpers"
)

var errBackendDown = errors.New("backend unavailable")

// faultyStore fails selected operations and delegates the rest.
type faultyStore struct {
	repository.Store
	upsertErr      error
	activityErr    error
	posterErr      error
	countAgentsErr error
	countStatusErr error
	sumErr         error
}

func (f *faultyStore) UpsertAgent(ctx context.Context, agent *domain.Agent) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.Store.UpsertAgent(ctx, agent)
}

func (f *faultyStore) CreateActivity(ctx context.Context, event *domain.ActivityEvent) error {
	if f.activityErr != nil {
		return f.activityErr
	}
	return f.Store.CreateActivity(ctx, event)
}

func (f *faultyStore) GetBountyPosterReward(ctx context.Context, bountyID string) (string, int64, error) {
	if f.posterErr != nil {
		return "", 0, f.posterErr
	}
	return f.Store.GetBountyPosterReward(ctx, bountyID)
}

func (f *faultyStore) CountAgents(ctx context.Context) (int64, error) {
	if f.countAgentsErr != nil {
		return 0, f.countAgentsErr
	}
	return f.Store.CountAgents(ctx)
}

func (f *faultyStore) CountBountiesByStatus(ctx context.Context, status domain.BountyStatus) (int64, error) {
	if f.countStatusErr != nil {
		return 0, f.countStatusErr
	}
	return f.Store.CountBountiesByStatus(ctx, status)
}

func (f *faultyStore) SumTransactionAmounts(ctx context.Context) (int64, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	return f.Store.SumTransactionAmounts(ctx)
}

func testConfig() *config.Config {
	return &config.Config{BackendTimeout: time.Second, FeedBufferSize: 16}
}

// newTestService wires a service over an in-memory store whose inserts are
// published on hub. store may wrap db.
func newTestService(t *testing.T, wrap func(repository.Store) repository.Store) (*Service, *repository.SQLiteStore, *realtime.Hub) {
	t.Helper()

	db := helpers.NewTestSQLiteStore(t)
	hub := realtime.NewHub(16)
	db.SetChangeFeed(hub)

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	var store repository.Store = db
	if wrap != nil {
		store = wrap(db)
	}
	return New(store, hub, testConfig(), policyEngine), db, hub
}

// stallingStore blocks selected calls until their context is done.
type stallingStore struct {
	repository.Store
}

func (s *stallingStore) ListBounties(ctx context.Context, _ domain.BountyFilter) ([]domain.Bounty, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *stallingStore) ClaimOpenBounty(ctx context.Context, _, _ string, _ time.Time) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}
