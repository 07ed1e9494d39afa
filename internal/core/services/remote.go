package services

import (
	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/core/domain"
)

// handleRemoteError converts a failed backend call into user feedback.
// Authorization failures tear the session down and force re-login; business
// rejections are surfaced verbatim; network failures (incl. timeouts) become
// a generic retryable message. Nothing is retried automatically.
func handleRemoteError(session *SessionService, notify *NotificationService, op string, err error) error {
	switch {
	case gateway.IsUnauthorized(err):
		session.ClearAuth()
		notify.Error("%s failed: session expired, please log in again", op)
	case gateway.IsAccountDeleted(err):
		session.ClearAuth()
		notify.Error("%s failed: account no longer exists", op)
	case gateway.IsNetwork(err):
		notify.Error("%s failed: network error, please try again", op)
	default:
		notify.Error("%s failed: %v", op, err)
	}
	return err
}

// requireAuth takes a session snapshot and rejects the operation unless the
// session is initialized and authenticated
func requireAuth(session *SessionService) (Snapshot, error) {
	snap := session.Snapshot()
	if !snap.Initialized {
		return snap, domain.ErrNotInitialized
	}
	if !snap.Authenticated {
		return snap, domain.ErrNotAuthenticated
	}
	return snap, nil
}
