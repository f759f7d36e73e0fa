// Package internalapi provides HTTP handlers for trusted collaborators.
// These routes are served on the internal port only.
package internalapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/internal/service"
)

// Handler handles internal HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new internal API handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers internal routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Activity written by the hiring, completion and posting flows
	e.POST("/internal/activity", h.RecordActivity)

	// Maintenance
	e.POST("/internal/bounties/expire", h.ExpireBounties)
	e.POST("/internal/seed", h.SeedDemoData)
}

func errorJSON(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: err.Error(), Code: domain.ErrorCodeInvalidRequest})
	}
	return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: err.Error(), Code: domain.ErrorCodeBackend})
}
