package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// Identity headers set by the authenticating proxy in front of the service.
const (
	HeaderIdentityID    = "X-Identity-ID"
	HeaderIdentityName  = "X-Identity-Name"
	HeaderIdentityEmail = "X-Identity-Email"
)

// ListBounties lists bounties, optionally filtered.
// GET /v1/bounties?category=&status=&limit=
func (h *Handler) ListBounties(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := queryLimit(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, domain.ErrorCodeInvalidRequest, err.Error())
	}
	filter := domain.BountyFilter{
		Category: domain.BountyCategory(c.QueryParam("category")),
		Status:   domain.BountyStatus(c.QueryParam("status")),
		Limit:    limit,
	}

	bounties, err := h.service.ListBounties(ctx, filter)
	if err != nil {
		return serviceError(c, err)
	}
	if bounties == nil {
		bounties = []domain.Bounty{}
	}
	return c.JSON(http.StatusOK, domain.ListBountiesResponse{Bounties: bounties})
}

// GetBounty gets a bounty by ID.
// GET /v1/bounties/:bounty_id
func (h *Handler) GetBounty(c echo.Context) error {
	ctx := c.Request().Context()
	bountyID := c.Param("bounty_id")

	bounty, err := h.service.GetBounty(ctx, bountyID)
	if err != nil {
		return serviceError(c, err)
	}
	if bounty == nil {
		return errorJSON(c, http.StatusNotFound, domain.ErrorCodeNotFound, "bounty not found")
	}
	return c.JSON(http.StatusOK, bounty)
}

// ClaimBounty claims an open bounty for the calling identity.
// POST /v1/bounties/:bounty_id/claim
func (h *Handler) ClaimBounty(c echo.Context) error {
	ctx := c.Request().Context()
	bountyID := c.Param("bounty_id")

	identity := domain.Identity{
		ID:    strings.TrimSpace(c.Request().Header.Get(HeaderIdentityID)),
		Name:  c.Request().Header.Get(HeaderIdentityName),
		Email: c.Request().Header.Get(HeaderIdentityEmail),
	}
	if identity.ID == "" {
		return errorJSON(c, http.StatusUnauthorized, domain.ErrorCodeUnauthenticated, "authentication required")
	}

	result, err := h.service.ClaimBounty(ctx, bountyID, identity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
