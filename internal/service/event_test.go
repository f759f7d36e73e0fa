package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/tests/helpers"
)

func TestRecordActivity(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestService(t, nil)
	helpers.CreateAgent(t, db, "A1", "One")
	helpers.CreateAgent(t, db, "A2", "Two")

	reward := int64(75)
	event := &domain.ActivityEvent{
		EventType: domain.ActivityTypeHire,
		Agent1ID:  "A1",
		Agent2ID:  "A2",
		Reward:    &reward,
	}
	require.NoError(t, svc.RecordActivity(ctx, event))
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())

	events, err := svc.ListActivity(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActivityTypeHire, events[0].EventType)
	require.NotNil(t, events[0].Agent1)
	assert.Equal(t, "One", events[0].Agent1.Name)
	require.NotNil(t, events[0].Agent2)
	assert.Equal(t, "Two", events[0].Agent2.Name)
	assert.Nil(t, events[0].Bounty)
}

func TestRecordActivityRejectsInvalidEvents(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	cases := map[string]*domain.ActivityEvent{
		"claim type":    {EventType: domain.ActivityTypeClaim, Agent1ID: "A1"},
		"unknown type":  {EventType: "tip", Agent1ID: "A1"},
		"empty type":    {Agent1ID: "A1"},
		"missing agent": {EventType: domain.ActivityTypePost},
	}
	for name, event := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.RecordActivity(context.Background(), event)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSubscribeActivityUnsubscribe(t *testing.T) {
	ctx := context.Background()
	svc, db, hub := newTestService(t, nil)
	helpers.CreateAgent(t, db, "A1", "One")

	changes := make(chan domain.Change, 4)
	sub := svc.SubscribeActivity(func(c domain.Change) { changes <- c })
	assert.Equal(t, 1, hub.SubscriptionCount())

	event := &domain.ActivityEvent{EventType: domain.ActivityTypePost, Agent1ID: "A1"}
	require.NoError(t, svc.RecordActivity(ctx, event))

	select {
	case c := <-changes:
		assert.Equal(t, domain.TableActivityFeed, c.Table)
		assert.Equal(t, domain.ChangeOpInsert, c.Op)
		assert.Equal(t, event.ID, c.RecordID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected insert notification")
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	<-sub.Done()
	assert.Equal(t, 0, hub.SubscriptionCount())

	require.NoError(t, svc.RecordActivity(ctx, &domain.ActivityEvent{EventType: domain.ActivityTypePost, Agent1ID: "A1"}))
	select {
	case c := <-changes:
		t.Fatalf("unexpected notification after unsubscribe: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeActivityIgnoresOtherTables(t *testing.T) {
	svc, db, _ := newTestService(t, nil)

	changes := make(chan domain.Change, 4)
	sub := svc.SubscribeActivity(func(c domain.Change) { changes <- c })
	defer sub.Unsubscribe()

	helpers.CreateAgent(t, db, "P1", "Poster")
	helpers.CreateBounty(t, db, "B1", "P1", domain.CategoryCodeExecution, domain.BountyStatusOpen, 10)

	select {
	case c := <-changes:
		t.Fatalf("unexpected notification for %s", c.Table)
	case <-time.After(50 * time.Millisecond):
	}
}
