// Package service implements the marketplace operations on top of the store.
package service

import (
	"context"
	"time"

	"github.com/agentbounty/bountyboard/internal/config"
	"github.com/agentbounty/bountyboard/internal/realtime"
	"github.com/agentbounty/bountyboard/internal/repository"
	"github.com/agentbounty/bountyboard/policy"
)

type Service struct {
	store        repository.Store
	hub          *realtime.Hub
	config       *config.Config
	policyEngine *policy.Engine
	now          func() time.Time
}

// New creates a Service. hub must be the change feed the store publishes to;
// policyEngine may be nil to skip the claim policy.
func New(store repository.Store, hub *realtime.Hub, cfg *config.Config, policyEngine *policy.Engine) *Service {
	return &Service{
		store:        store,
		hub:          hub,
		config:       cfg,
		policyEngine: policyEngine,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// backendContext bounds a single backend call by the configured timeout.
func (s *Service) backendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config == nil || s.config.BackendTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.BackendTimeout)
}
