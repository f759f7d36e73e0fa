package main

import (
	"fmt"
	"io"
	"time"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// formatTimeAgo renders the age of t relative to now in whole minutes, hours
// or days.
func formatTimeAgo(t, now time.Time) string {
	mins := int(now.Sub(t) / time.Minute)
	if mins < 1 {
		return "just now"
	}
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	hours := mins / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dd", hours/24)
}

func describeEvent(e domain.ActivityEvent) string {
	agent1 := "Unknown"
	if e.Agent1 != nil {
		agent1 = e.Agent1.Name
	}

	title := "Bounty"
	var reward int64
	if e.Bounty != nil {
		title = e.Bounty.Title
		reward = e.Bounty.Reward
	}
	if e.Reward != nil && *e.Reward != 0 {
		reward = *e.Reward
	}

	var verb string
	switch e.EventType {
	case domain.ActivityTypeHire:
		agent2 := ""
		if e.Agent2 != nil {
			agent2 = e.Agent2.Name
		}
		verb = "hired " + agent2 + " for"
	case domain.ActivityTypeComplete:
		verb = "completed"
	case domain.ActivityTypePost:
		verb = "posted"
	case domain.ActivityTypeClaim:
		verb = "claimed"
	}
	return fmt.Sprintf("%s %s %s +%d", agent1, verb, title, reward)
}

func printFeed(w io.Writer, events []domain.ActivityEvent) {
	now := time.Now()
	fmt.Fprintln(w, "--- live activity ---")
	for _, e := range events {
		fmt.Fprintf(w, "%-60s %s\n", describeEvent(e), formatTimeAgo(e.CreatedAt, now))
	}
}
