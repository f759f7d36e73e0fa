package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentbounty/bountyboard/internal/config"
	"github.com/agentbounty/bountyboard/internal/realtime"
	"github.com/agentbounty/bountyboard/internal/service"
	"github.com/agentbounty/bountyboard/tests/helpers"
)

func TestServersKeepInternalRoutesOffThePublicPort(t *testing.T) {
	cfg := &config.Config{BackendTimeout: time.Second}
	db := helpers.NewTestSQLiteStore(t)
	svc := service.New(db, realtime.NewHub(4), cfg, nil)

	external := NewExternalServer(svc, cfg)
	internal := NewInternalServer(svc)

	rec := httptest.NewRecorder()
	external.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/seed", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	internal.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/seed", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	external.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
