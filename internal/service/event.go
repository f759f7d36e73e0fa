package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/internal/realtime"
)

// appendActivity assigns an id and timestamp and inserts the entry. The store
// publishes the insert on the change feed.
func (s *Service) appendActivity(ctx context.Context, event *domain.ActivityEvent) error {
	event.ID = uuid.New().String()
	event.CreatedAt = s.now()
	if event.Metadata == nil {
		event.Metadata = map[string]interface{}{}
	}

	ctx, cancel := s.backendContext(ctx)
	defer cancel()
	return s.store.CreateActivity(ctx, event)
}

// RecordActivity appends a hire, complete or post entry on behalf of a
// collaborator. Claim entries are only written by ClaimBounty.
func (s *Service) RecordActivity(ctx context.Context, event *domain.ActivityEvent) error {
	if !event.EventType.Valid() || event.EventType == domain.ActivityTypeClaim {
		return fmt.Errorf("%w: event type %q cannot be recorded directly", domain.ErrInvalidInput, event.EventType)
	}
	if event.Agent1ID == "" {
		return fmt.Errorf("%w: agent1_id is required", domain.ErrInvalidInput)
	}
	if err := s.appendActivity(ctx, event); err != nil {
		return &domain.QueryError{Op: "record_activity", Err: err}
	}
	return nil
}

// SubscribeActivity invokes onInsert once per activity feed insert until the
// returned subscription is unsubscribed.
func (s *Service) SubscribeActivity(onInsert func(domain.Change)) *realtime.Subscription {
	return s.hub.Subscribe(domain.TableActivityFeed, onInsert)
}

// ActivitySubscriptionCount reports the number of live change feed
// subscriptions.
func (s *Service) ActivitySubscriptionCount() int {
	return s.hub.SubscriptionCount()
}
