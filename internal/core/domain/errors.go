package domain

import "errors"

// Session errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotInitialized   = errors.New("session not initialized")
	ErrAccountDeleted   = errors.New("account deleted")
	ErrNoStoredSession  = errors.New("no stored session")
)

// Draft lifecycle errors
var (
	ErrNoDraft           = errors.New("no open draft for resource")
	ErrDraftAlreadyOpen  = errors.New("resource already has an open draft or pending change")
	ErrDraftSubmitted    = errors.New("draft already submitted and read-only")
	ErrNotTracked        = errors.New("resource not tracked by any view")
	ErrOperationInFlight = errors.New("another operation on this resource is still in flight")
)

// Triage errors
var (
	ErrAssigneeConflict = errors.New("assignee and auto-assign are mutually exclusive")
	ErrNoAssignee       = errors.New("either assignee or auto-assign is required")
	ErrEmptyReason      = errors.New("reason must not be empty")
	ErrEmptyComment     = errors.New("comment text must not be empty")
	ErrNoTargets        = errors.New("no target ids supplied")
)

// Auth flow errors
var (
	ErrResendCooldown = errors.New("resend cooldown still active")
	ErrFlowTerminated = errors.New("authentication flow terminated")
	ErrNoPendingOTP   = errors.New("no OTP was requested")
)
