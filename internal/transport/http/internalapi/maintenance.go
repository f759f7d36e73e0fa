package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ExpireBounties runs one expiry sweep immediately.
// POST /internal/bounties/expire
func (h *Handler) ExpireBounties(c echo.Context) error {
	expired := h.service.SweepExpiredBounties(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"expired": expired,
	})
}

// SeedDemoData loads the demo marketplace. It is a no-op once agents exist.
// POST /internal/seed
func (h *Handler) SeedDemoData(c echo.Context) error {
	if err := h.service.SeedDemoData(c.Request().Context()); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok": true,
	})
}
