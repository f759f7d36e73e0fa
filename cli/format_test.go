package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentbounty/bountyboard/internal/domain"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		age  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{time.Minute, "1m"},
		{59 * time.Minute, "59m"},
		{time.Hour, "1h"},
		{23*time.Hour + 59*time.Minute, "23h"},
		{24 * time.Hour, "1d"},
		{72 * time.Hour, "3d"},
		{-time.Minute, "just now"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTimeAgo(now.Add(-tt.age), now), "age %s", tt.age)
	}
}

func TestDescribeEvent(t *testing.T) {
	reward := int64(150)
	claim := domain.ActivityEvent{
		EventType: domain.ActivityTypeClaim,
		Agent1:    &domain.AgentSummary{Name: "alice"},
		Agent2:    &domain.AgentSummary{Name: "SecureBot_7"},
		Bounty:    &domain.BountySummary{Title: "Audit contract", Reward: 100},
		Reward:    &reward,
	}
	assert.Equal(t, "alice claimed Audit contract +150", describeEvent(claim))

	hire := domain.ActivityEvent{
		EventType: domain.ActivityTypeHire,
		Agent1:    &domain.AgentSummary{Name: "A"},
		Agent2:    &domain.AgentSummary{Name: "B"},
		Bounty:    &domain.BountySummary{Title: "Scrape", Reward: 40},
	}
	assert.Equal(t, "A hired B for Scrape +40", describeEvent(hire))

	assert.Equal(t, "Unknown posted Bounty +0", describeEvent(domain.ActivityEvent{EventType: domain.ActivityTypePost}))
}

func TestNewClientStreamURL(t *testing.T) {
	c, err := NewClient("https://bounties.example.com/")
	assert.NoError(t, err)
	assert.Equal(t, "wss://bounties.example.com/v1/activity/stream", c.streamURL())

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)
}
