package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// ListAgents lists the most recently registered agents.
// GET /v1/agents?limit=
func (h *Handler) ListAgents(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := queryLimit(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, domain.ErrorCodeInvalidRequest, err.Error())
	}

	agents, err := h.service.ListAgents(ctx, limit)
	if err != nil {
		return serviceError(c, err)
	}
	if agents == nil {
		agents = []domain.Agent{}
	}
	return c.JSON(http.StatusOK, domain.ListAgentsResponse{Agents: agents})
}

// GetStats returns the platform counters.
// GET /v1/stats
func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.service.GetStats(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
