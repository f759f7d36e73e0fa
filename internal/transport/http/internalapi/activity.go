package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// RecordActivityRequest is the request to append an activity entry.
type RecordActivityRequest struct {
	EventType domain.ActivityType    `json:"event_type"`
	Agent1ID  string                 `json:"agent1_id"`
	Agent2ID  string                 `json:"agent2_id,omitempty"`
	BountyID  string                 `json:"bounty_id,omitempty"`
	Reward    *int64                 `json:"reward,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// RecordActivity appends a hire, complete or post entry.
// POST /internal/activity
func (h *Handler) RecordActivity(c echo.Context) error {
	ctx := c.Request().Context()

	var req RecordActivityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body", Code: domain.ErrorCodeInvalidRequest})
	}

	event := &domain.ActivityEvent{
		EventType: req.EventType,
		Agent1ID:  req.Agent1ID,
		Agent2ID:  req.Agent2ID,
		BountyID:  req.BountyID,
		Reward:    req.Reward,
		Metadata:  req.Metadata,
	}
	if err := h.service.RecordActivity(ctx, event); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}
