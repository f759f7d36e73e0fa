package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShapeMismatch is wrapped by QueryError when a row cannot be decoded.
var ErrShapeMismatch = errors.New("unexpected row shape")

// QueryError reports a backend read, write or aggregate failure.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// AgentProvisionError reports a failed agent upsert during a claim.
type AgentProvisionError struct {
	AgentID string
	Err     error
}

func (e *AgentProvisionError) Error() string {
	return fmt.Sprintf("failed to create agent %s: %v", e.AgentID, e.Err)
}

func (e *AgentProvisionError) Unwrap() error { return e.Err }

// ClaimConflictError reports that a bounty was no longer open when the
// conditional update ran.
type ClaimConflictError struct {
	BountyID string
}

func (e *ClaimConflictError) Error() string {
	return fmt.Sprintf("bounty %s is no longer available", e.BountyID)
}

// ClaimRejectedError reports that the claim policy denied the claim.
type ClaimRejectedError struct {
	BountyID string
	Reasons  []string
}

func (e *ClaimRejectedError) Error() string {
	return fmt.Sprintf("claim of bounty %s rejected: %s", e.BountyID, strings.Join(e.Reasons, "; "))
}

// ActivityRecordWarning reports a failed activity insert after a committed
// claim. It is logged, never returned to callers.
type ActivityRecordWarning struct {
	BountyID string
	Err      error
}

func (e *ActivityRecordWarning) Error() string {
	return fmt.Sprintf("claim of bounty %s committed but activity was not recorded: %v", e.BountyID, e.Err)
}

func (e *ActivityRecordWarning) Unwrap() error { return e.Err }

// ErrInvalidInput reports a request the service refuses before touching the
// backend.
var ErrInvalidInput = errors.New("invalid input")
