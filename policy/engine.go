package policy

import (
	"context"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA claim policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content. The
// module must define data.claim_policy.deny as a set of reason strings.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.claim_policy.deny"),
		rego.Module("claim_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// ClaimInput is the document the claim policy is evaluated against.
type ClaimInput struct {
	IdentityID string      `json:"identity_id"`
	Now        int64       `json:"now"` // Unix milliseconds
	Bounty     BountyInput `json:"bounty"`
}

// BountyInput is the bounty as seen by the claim policy.
type BountyInput struct {
	ID       string `json:"id"`
	PosterID string `json:"poster_id"`
	Status   string `json:"status"`
	Category string `json:"category"`
	Reward   int64  `json:"reward"`
	Deadline int64  `json:"deadline,omitempty"` // Unix milliseconds, 0 when unset
}

// Evaluate returns the deny reasons for input, sorted. An empty result means
// the claim is allowed.
func (e *Engine) Evaluate(ctx context.Context, input ClaimInput) ([]string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return nil, nil
	}

	values, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}

	reasons := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected deny reason type %T", v)
		}
		reasons = append(reasons, s)
	}
	sort.Strings(reasons)
	return reasons, nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package claim_policy

import rego.v1

# Posters cannot claim their own bounty
deny contains "poster cannot claim own bounty" if {
	input.identity_id == input.bounty.poster_id
}

# Bounties past their deadline are no longer claimable
deny contains "bounty deadline has passed" if {
	input.bounty.deadline > 0
	input.now > input.bounty.deadline
}
`
