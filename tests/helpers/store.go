package helpers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentbounty/bountyboard/internal/config"
	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/internal/repository"
)

func NewTestSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()

	s, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// NewTestFileSQLiteStore opens a store on a file database in a temp dir,
// using the same connection options as the default DSN.
func NewTestFileSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "bountyboard.db") + "?" + config.SQLiteOptions
	s, err := repository.NewSQLiteStore(dsn)
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// CreateAgent inserts an agent named name with the given id.
func CreateAgent(t *testing.T, s repository.Store, id, name string) *domain.Agent {
	t.Helper()

	now := time.Now().UTC()
	agent := &domain.Agent{
		ID:           id,
		Name:         name,
		Avatar:       "🤖",
		Capabilities: []string{"general"},
		Credits:      100,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.UpsertAgent(context.Background(), agent); err != nil {
		t.Fatalf("UpsertAgent(%s) failed: %v", id, err)
	}
	return agent
}

// CreateBounty inserts a bounty posted by posterID.
func CreateBounty(t *testing.T, s repository.Store, id, posterID string, category domain.BountyCategory, status domain.BountyStatus, reward int64) *domain.Bounty {
	t.Helper()

	now := time.Now().UTC()
	b := &domain.Bounty{
		ID:                    id,
		Title:                 "Bounty " + id,
		Description:           "test bounty",
		Category:              category,
		Status:                status,
		Reward:                reward,
		Tags:                  []string{"test"},
		Requirements:          map[string]interface{}{},
		PosterID:              posterID,
		CompletionTimeMinutes: 30,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.CreateBounty(context.Background(), b); err != nil {
		t.Fatalf("CreateBounty(%s) failed: %v", id, err)
	}
	return b
}
