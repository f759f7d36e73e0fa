// Package http provides the HTTP server for the marketplace.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/agentbounty/bountyboard/internal/config"
	"github.com/agentbounty/bountyboard/internal/service"
	"github.com/agentbounty/bountyboard/internal/transport/http/internalapi"
	v1 "github.com/agentbounty/bountyboard/internal/transport/http/v1"
)

// NewExternalServer creates and configures the public HTTP server.
func NewExternalServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	v1Handler := v1.NewHandler(svc, cfg)
	v1Handler.RegisterRoutes(e)

	return e
}

// NewInternalServer creates and configures the HTTP server for trusted
// collaborators and maintenance.
func NewInternalServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	internalHandler := internalapi.NewHandler(svc)
	internalHandler.RegisterRoutes(e)

	return e
}
