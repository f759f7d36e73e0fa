package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/policy"
)

// Defaults for agents provisioned on first claim.
const (
	DefaultAgentDescription = "New agent on the platform"
	DefaultAgentAvatar      = "🤖"
	DefaultAgentCredits     = 100
)

// DefaultAgentCapabilities returns the capability set of a provisioned agent.
func DefaultAgentCapabilities() []string {
	return []string{"general"}
}

// ClaimBounty moves an open bounty to claimed on behalf of identity.
//
// The identity's agent is upserted first; a failure aborts before the bounty
// is touched. The bounty update is guarded by status = open, so among
// concurrent callers exactly one succeeds and the rest get
// ClaimConflictError. The claim activity is recorded afterwards on a best
// effort basis and never undoes a committed claim.
func (s *Service) ClaimBounty(ctx context.Context, bountyID string, identity domain.Identity) (*domain.ClaimResult, error) {
	if bountyID == "" {
		return nil, fmt.Errorf("%w: bounty id is required", domain.ErrInvalidInput)
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("%w: identity id is required", domain.ErrInvalidInput)
	}

	if err := s.provisionAgent(ctx, identity); err != nil {
		return nil, err
	}

	if err := s.checkClaimPolicy(ctx, bountyID, identity.ID); err != nil {
		return nil, err
	}

	claimedAt := s.now()
	claimed, err := s.claimOpenBounty(ctx, bountyID, identity.ID, claimedAt)
	if err != nil {
		return nil, &domain.QueryError{Op: "claim_bounty", Err: err}
	}
	if !claimed {
		return nil, &domain.ClaimConflictError{BountyID: bountyID}
	}

	// The claim is committed; the activity entry must outlive a caller that
	// goes away now.
	recorded := s.recordClaimActivity(context.WithoutCancel(ctx), bountyID, identity.ID)

	log.Printf("Bounty %s claimed by %s", bountyID, identity.ID)
	return &domain.ClaimResult{
		Success:          true,
		BountyID:         bountyID,
		ClaimedAt:        claimedAt,
		ActivityRecorded: recorded,
	}, nil
}

func (s *Service) provisionAgent(ctx context.Context, identity domain.Identity) error {
	now := s.now()
	agent := &domain.Agent{
		ID:           identity.ID,
		Name:         identity.DisplayName(),
		Description:  DefaultAgentDescription,
		Avatar:       DefaultAgentAvatar,
		Capabilities: DefaultAgentCapabilities(),
		Credits:      DefaultAgentCredits,
		Claimed:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := s.backendContext(ctx)
	defer cancel()

	if err := s.store.UpsertAgent(ctx, agent); err != nil {
		return &domain.AgentProvisionError{AgentID: identity.ID, Err: err}
	}
	return nil
}

// checkClaimPolicy reads the bounty and evaluates the claim policy. The read
// only feeds the policy; the conditional update remains the sole guard on the
// open -> claimed transition.
func (s *Service) checkClaimPolicy(ctx context.Context, bountyID, identityID string) error {
	if s.policyEngine == nil {
		return nil
	}

	bounty, err := s.GetBounty(ctx, bountyID)
	if err != nil {
		return err
	}
	if bounty == nil {
		return &domain.ClaimConflictError{BountyID: bountyID}
	}

	input := policy.ClaimInput{
		IdentityID: identityID,
		Now:        s.now().UnixMilli(),
		Bounty: policy.BountyInput{
			ID:       bounty.ID,
			PosterID: bounty.PosterID,
			Status:   string(bounty.Status),
			Category: string(bounty.Category),
			Reward:   bounty.Reward,
		},
	}
	if bounty.Deadline != nil {
		input.Bounty.Deadline = bounty.Deadline.UnixMilli()
	}

	evalCtx, cancel := s.backendContext(ctx)
	defer cancel()

	reasons, err := s.policyEngine.Evaluate(evalCtx, input)
	if err != nil {
		return &domain.QueryError{Op: "claim_policy", Err: err}
	}
	if len(reasons) > 0 {
		return &domain.ClaimRejectedError{BountyID: bountyID, Reasons: reasons}
	}
	return nil
}

func (s *Service) claimOpenBounty(ctx context.Context, bountyID, claimantID string, claimedAt time.Time) (bool, error) {
	ctx, cancel := s.backendContext(ctx)
	defer cancel()
	return s.store.ClaimOpenBounty(ctx, bountyID, claimantID, claimedAt)
}

// recordClaimActivity appends the claim entry and reports whether it was
// written. Failures are logged as ActivityRecordWarning.
func (s *Service) recordClaimActivity(ctx context.Context, bountyID, claimantID string) bool {
	posterID, reward, err := s.bountyPosterReward(ctx, bountyID)
	if err != nil {
		log.Printf("WARN: %v", &domain.ActivityRecordWarning{BountyID: bountyID, Err: err})
		return false
	}

	event := &domain.ActivityEvent{
		EventType: domain.ActivityTypeClaim,
		Agent1ID:  claimantID,
		Agent2ID:  posterID,
		BountyID:  bountyID,
		Reward:    &reward,
		Metadata:  map[string]interface{}{},
	}
	if err := s.appendActivity(ctx, event); err != nil {
		log.Printf("WARN: %v", &domain.ActivityRecordWarning{BountyID: bountyID, Err: err})
		return false
	}
	return true
}

func (s *Service) bountyPosterReward(ctx context.Context, bountyID string) (string, int64, error) {
	ctx, cancel := s.backendContext(ctx)
	defer cancel()
	return s.store.GetBountyPosterReward(ctx, bountyID)
}
