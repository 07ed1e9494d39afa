package services

import (
	"context"
	"log"
	"sync"
	"time"

	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/core/domain"
	"realhub-app/internal/pkg/validate"
)

// ============================================================
// Phone/OTP authentication flow
// ============================================================

// AuthBackend is the slice of the gateway the OTP flow needs
type AuthBackend interface {
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, otp string) (*gateway.VerifyResult, error)
}

// AuthPhase is the state of the OTP flow
type AuthPhase int

const (
	PhaseIdle AuthPhase = iota
	PhaseOTPSent
	PhaseVerifying
	PhaseAuthenticated
	PhaseFailed
	// PhaseAccountDeleted is terminal: no further input is accepted.
	PhaseAccountDeleted
)

const (
	// ResendCooldown gates re-issuance of an OTP
	ResendCooldown = 30 * time.Second
	// OTPLength is the exact code length that auto-triggers verification
	OTPLength = 4
)

// AuthFlow drives the phone/OTP login state machine
type AuthFlow struct {
	mu      sync.Mutex
	backend AuthBackend
	session *SessionService
	notify  *NotificationService

	phase          AuthPhase
	phone          string
	resendDeadline time.Time

	now func() time.Time
}

// NewAuthFlow creates an OTP login flow
func NewAuthFlow(backend AuthBackend, session *SessionService, notify *NotificationService) *AuthFlow {
	return &AuthFlow{
		backend: backend,
		session: session,
		notify:  notify,
		phase:   PhaseIdle,
		now:     time.Now,
	}
}

// Phase returns the current flow state
func (f *AuthFlow) Phase() AuthPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// ResendRemaining returns how long the resend cooldown has left (0 if open)
func (f *AuthFlow) ResendRemaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	remaining := f.resendDeadline.Sub(f.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RequestOTP asks the backend to send an OTP. A request inside the cooldown
// window is rejected client-side with no call issued and the timer untouched.
func (f *AuthFlow) RequestOTP(ctx context.Context, phone string) error {
	f.mu.Lock()
	if f.phase == PhaseAccountDeleted {
		f.mu.Unlock()
		return domain.ErrFlowTerminated
	}
	if f.now().Before(f.resendDeadline) {
		f.mu.Unlock()
		return domain.ErrResendCooldown
	}
	f.mu.Unlock()

	if err := validate.Phone(phone); err != nil {
		return err
	}

	if err := f.backend.SendOTP(ctx, phone); err != nil {
		return handleRemoteError(f.session, f.notify, "send OTP", err)
	}

	f.mu.Lock()
	f.phase = PhaseOTPSent
	f.phone = phone
	f.resendDeadline = f.now().Add(ResendCooldown)
	f.mu.Unlock()

	f.notify.Info("OTP sent to %s", phone)
	return nil
}

// InputCode feeds OTP input into the flow. Verification auto-triggers if and
// only if the entered code is exactly OTPLength characters; anything else is
// ignored without a network call.
func (f *AuthFlow) InputCode(ctx context.Context, code string) error {
	if len(code) != OTPLength {
		return nil
	}

	f.mu.Lock()
	switch f.phase {
	case PhaseAccountDeleted:
		f.mu.Unlock()
		return domain.ErrFlowTerminated
	case PhaseOTPSent, PhaseFailed:
		// verification may start
	default:
		f.mu.Unlock()
		return domain.ErrNoPendingOTP
	}
	phone := f.phone
	f.phase = PhaseVerifying
	f.mu.Unlock()

	result, err := f.backend.VerifyOTP(ctx, phone, code)
	if err != nil {
		f.setPhase(PhaseFailed)
		if gateway.IsAccountDeleted(err) {
			f.terminateDeleted()
			return domain.ErrAccountDeleted
		}
		return handleRemoteError(f.session, f.notify, "verify OTP", err)
	}

	// The backend may authenticate a deleted account's credentials before
	// checking the deletion flag; deleted always overrides the nominal
	// success in the same response.
	if result.User.Deleted {
		f.terminateDeleted()
		return domain.ErrAccountDeleted
	}

	result.User.ProfileCompleted = result.ProfileCompleted
	if err := f.session.SetAuth(result.User, result.Token); err != nil {
		f.terminateDeleted()
		return err
	}

	f.setPhase(PhaseAuthenticated)
	f.notify.Success("Logged in as %s", result.User.Phone)
	log.Printf("✅ OTP login completed for user %d", result.User.ID)
	return nil
}

func (f *AuthFlow) setPhase(p AuthPhase) {
	f.mu.Lock()
	f.phase = p
	f.mu.Unlock()
}

func (f *AuthFlow) terminateDeleted() {
	f.setPhase(PhaseAccountDeleted)
	f.session.ClearAuth()
	f.notify.Error("This account has been deleted")
	log.Printf("🛑 OTP flow terminated: account deleted")
}
