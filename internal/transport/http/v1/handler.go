// Package v1 provides the versioned HTTP handlers of the marketplace.
package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/agentbounty/bountyboard/internal/config"
	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	config   *config.Config
	upgrader websocket.Upgrader
}

// Stream defaults applied when the config leaves them unset.
const (
	defaultStreamBuffer = 64
	defaultPingInterval = 30 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultReadTimeout  = 60 * time.Second
)

// NewHandler creates a new handler.
func NewHandler(service *service.Service, cfg *config.Config) *Handler {
	streamCfg := *cfg
	if streamCfg.FeedBufferSize <= 0 {
		streamCfg.FeedBufferSize = defaultStreamBuffer
	}
	if streamCfg.PingInterval <= 0 {
		streamCfg.PingInterval = defaultPingInterval
	}
	if streamCfg.WriteTimeout <= 0 {
		streamCfg.WriteTimeout = defaultWriteTimeout
	}
	if streamCfg.ReadTimeout <= 0 {
		streamCfg.ReadTimeout = defaultReadTimeout
	}

	return &Handler{
		service: service,
		config:  &streamCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Bounties
	e.GET("/v1/bounties", h.ListBounties)
	e.GET("/v1/bounties/:bounty_id", h.GetBounty)
	e.POST("/v1/bounties/:bounty_id/claim", h.ClaimBounty)

	// Activity feed
	e.GET("/v1/activity", h.ListActivity)
	e.GET("/v1/activity/stream", h.StreamActivity)

	e.GET("/v1/agents", h.ListAgents)
	e.GET("/v1/stats", h.GetStats)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorJSON writes an ErrorResponse.
func errorJSON(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, domain.ErrorResponse{Error: msg, Code: code})
}

// serviceError maps a service error to its HTTP status and code.
func serviceError(c echo.Context, err error) error {
	var (
		conflict  *domain.ClaimConflictError
		rejected  *domain.ClaimRejectedError
		provision *domain.AgentProvisionError
		query     *domain.QueryError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, http.StatusBadRequest, domain.ErrorCodeInvalidRequest, err.Error())
	case errors.As(err, &conflict):
		return errorJSON(c, http.StatusConflict, domain.ErrorCodeBountyUnavailable, "Bounty is no longer available")
	case errors.As(err, &rejected):
		return errorJSON(c, http.StatusForbidden, domain.ErrorCodeClaimRejected, err.Error())
	case errors.As(err, &provision):
		return errorJSON(c, http.StatusBadGateway, domain.ErrorCodeAgentProvision, err.Error())
	case errors.As(err, &query):
		return errorJSON(c, http.StatusBadGateway, domain.ErrorCodeBackend, err.Error())
	default:
		return errorJSON(c, http.StatusInternalServerError, domain.ErrorCodeBackend, err.Error())
	}
}

// queryLimit parses the optional limit query parameter. Zero means unset.
func queryLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return limit, nil
}
