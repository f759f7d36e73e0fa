package internalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agentbounty/bountyboard/internal/config"
	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/internal/realtime"
	"github.com/agentbounty/bountyboard/internal/repository"
	"github.com/agentbounty/bountyboard/internal/service"
	"github.com/agentbounty/bountyboard/tests/helpers"
)

func newTestHandler(t *testing.T) (*Handler, *repository.SQLiteStore) {
	cfg := &config.Config{BackendTimeout: time.Second}
	db := helpers.NewTestSQLiteStore(t)
	hub := realtime.NewHub(16)
	db.SetChangeFeed(hub)
	svc := service.New(db, hub, cfg, nil)
	return NewHandler(svc), db
}

func post(t *testing.T, handler echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRecordActivityValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, body := range []string{
		`{"event_type":"claim","agent1_id":"A1"}`,
		`{"event_type":"tip","agent1_id":"A1"}`,
		`{"event_type":"post"}`,
		`not json`,
	} {
		rec := post(t, h.RecordActivity, "/internal/activity", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestRecordActivity(t *testing.T) {
	h, db := newTestHandler(t)
	helpers.CreateAgent(t, db, "A1", "One")
	helpers.CreateAgent(t, db, "A2", "Two")

	rec := post(t, h.RecordActivity, "/internal/activity", `{"event_type":"hire","agent1_id":"A1","agent2_id":"A2","reward":40}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var event domain.ActivityEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.ID == "" {
		t.Fatalf("expected assigned id")
	}

	events, err := db.ListActivity(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(events) != 1 || events[0].EventType != domain.ActivityTypeHire {
		t.Fatalf("unexpected feed: %+v", events)
	}
}

func TestExpireBounties(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	err := db.CreateBounty(ctx, &domain.Bounty{
		ID: "B1", Title: "late", Category: domain.CategoryCodeExecution, Status: domain.BountyStatusOpen,
		Reward: 10, PosterID: "P1", Deadline: &past, CreatedAt: past, UpdatedAt: past,
	})
	if err != nil {
		t.Fatalf("CreateBounty: %v", err)
	}

	rec := post(t, h.ExpireBounties, "/internal/bounties/expire", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Expired int `json:"expired"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Expired != 1 {
		t.Fatalf("expected 1 expired, got %d", resp.Expired)
	}
}

func TestSeedDemoData(t *testing.T) {
	h, db := newTestHandler(t)

	for i := 0; i < 2; i++ {
		rec := post(t, h.SeedDemoData, "/internal/seed", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	count, err := db.CountAgents(context.Background())
	if err != nil {
		t.Fatalf("CountAgents: %v", err)
	}
	if count != 12 {
		t.Fatalf("expected 12 seeded agents, got %d", count)
	}
}
