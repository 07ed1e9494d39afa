package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/core/domain"
)

type stubAuthBackend struct {
	sendCalls   int
	verifyCalls int
	sendErr     error
	verifyErr   error
	result      *gateway.VerifyResult
}

func (b *stubAuthBackend) SendOTP(ctx context.Context, phone string) error {
	b.sendCalls++
	return b.sendErr
}

func (b *stubAuthBackend) VerifyOTP(ctx context.Context, phone, otp string) (*gateway.VerifyResult, error) {
	b.verifyCalls++
	if b.verifyErr != nil {
		return nil, b.verifyErr
	}
	return b.result, nil
}

func newAuthFlow(t *testing.T, backend *stubAuthBackend) (*AuthFlow, *SessionService) {
	t.Helper()
	session := NewSessionService(newStore(t))
	flow := NewAuthFlow(backend, session, NewNotificationService())
	return flow, session
}

func TestRequestOTPCooldownRejectedWithoutCall(t *testing.T) {
	backend := &stubAuthBackend{}
	flow, _ := newAuthFlow(t, backend)

	now := time.Now()
	flow.now = func() time.Time { return now }

	if err := flow.RequestOTP(context.Background(), "0812345678"); err != nil {
		t.Fatalf("first RequestOTP: %v", err)
	}
	if backend.sendCalls != 1 {
		t.Fatalf("send calls = %d, want 1", backend.sendCalls)
	}

	// Inside the cooldown window: rejected locally, timer untouched.
	now = now.Add(10 * time.Second)
	err := flow.RequestOTP(context.Background(), "0812345678")
	if !errors.Is(err, domain.ErrResendCooldown) {
		t.Fatalf("RequestOTP = %v, want ErrResendCooldown", err)
	}
	if backend.sendCalls != 1 {
		t.Fatal("cooldown rejection must not issue a backend call")
	}
	if got := flow.ResendRemaining(); got != 20*time.Second {
		t.Fatalf("ResendRemaining = %s, want 20s (timer must not restart)", got)
	}

	// Past the window the resend goes through.
	now = now.Add(ResendCooldown)
	if err := flow.RequestOTP(context.Background(), "0812345678"); err != nil {
		t.Fatalf("RequestOTP after cooldown: %v", err)
	}
	if backend.sendCalls != 2 {
		t.Fatalf("send calls = %d, want 2", backend.sendCalls)
	}
}

func TestRequestOTPValidatesPhone(t *testing.T) {
	backend := &stubAuthBackend{}
	flow, _ := newAuthFlow(t, backend)

	if err := flow.RequestOTP(context.Background(), "not-a-phone"); err == nil {
		t.Fatal("invalid phone must be rejected")
	}
	if backend.sendCalls != 0 {
		t.Fatal("invalid phone must not issue a backend call")
	}
}

func TestInputCodeLengthGate(t *testing.T) {
	user := activeUser()
	backend := &stubAuthBackend{result: &gateway.VerifyResult{Token: "tok", User: user, ProfileCompleted: true}}
	flow, session := newAuthFlow(t, backend)

	if err := flow.RequestOTP(context.Background(), "0812345678"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}

	// Short and long inputs are ignored without a call.
	for _, code := range []string{"", "1", "123", "12345"} {
		if err := flow.InputCode(context.Background(), code); err != nil {
			t.Fatalf("InputCode(%q): %v", code, err)
		}
	}
	if backend.verifyCalls != 0 {
		t.Fatalf("verify calls = %d, want 0 before a full-length code", backend.verifyCalls)
	}
	if flow.Phase() != PhaseOTPSent {
		t.Fatalf("phase = %d, want PhaseOTPSent", flow.Phase())
	}

	// Exactly four characters triggers verification.
	if err := flow.InputCode(context.Background(), "1234"); err != nil {
		t.Fatalf("InputCode: %v", err)
	}
	if backend.verifyCalls != 1 {
		t.Fatalf("verify calls = %d, want 1", backend.verifyCalls)
	}
	if flow.Phase() != PhaseAuthenticated {
		t.Fatalf("phase = %d, want PhaseAuthenticated", flow.Phase())
	}
	if !session.Snapshot().Authenticated {
		t.Fatal("session should be authenticated after verification")
	}
}

func TestInputCodeWithoutPendingOTP(t *testing.T) {
	backend := &stubAuthBackend{}
	flow, _ := newAuthFlow(t, backend)

	if err := flow.InputCode(context.Background(), "1234"); !errors.Is(err, domain.ErrNoPendingOTP) {
		t.Fatalf("InputCode = %v, want ErrNoPendingOTP", err)
	}
}

func TestInputCodeWrongCodeAllowsRetry(t *testing.T) {
	backend := &stubAuthBackend{verifyErr: &gateway.APIError{Kind: gateway.KindBusiness, Message: "incorrect OTP"}}
	flow, _ := newAuthFlow(t, backend)

	if err := flow.RequestOTP(context.Background(), "0812345678"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	if err := flow.InputCode(context.Background(), "9999"); err == nil {
		t.Fatal("wrong code should surface an error")
	}
	if flow.Phase() != PhaseFailed {
		t.Fatalf("phase = %d, want PhaseFailed", flow.Phase())
	}

	// A failed attempt may verify again.
	user := activeUser()
	backend.verifyErr = nil
	backend.result = &gateway.VerifyResult{Token: "tok", User: user, ProfileCompleted: true}
	if err := flow.InputCode(context.Background(), "1234"); err != nil {
		t.Fatalf("retry InputCode: %v", err)
	}
	if flow.Phase() != PhaseAuthenticated {
		t.Fatalf("phase = %d, want PhaseAuthenticated", flow.Phase())
	}
}

func TestDeletedAccountOverridesSuccess(t *testing.T) {
	user := activeUser()
	user.Deleted = true
	backend := &stubAuthBackend{result: &gateway.VerifyResult{Token: "tok", User: user, ProfileCompleted: true}}
	flow, session := newAuthFlow(t, backend)

	if err := flow.RequestOTP(context.Background(), "0812345678"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	if err := flow.InputCode(context.Background(), "1234"); !errors.Is(err, domain.ErrAccountDeleted) {
		t.Fatalf("InputCode = %v, want ErrAccountDeleted", err)
	}
	if flow.Phase() != PhaseAccountDeleted {
		t.Fatalf("phase = %d, want PhaseAccountDeleted", flow.Phase())
	}
	if session.Snapshot().Authenticated {
		t.Fatal("deleted account must never authenticate")
	}

	// The flow is terminal: no further input or resend is accepted.
	if err := flow.InputCode(context.Background(), "1234"); !errors.Is(err, domain.ErrFlowTerminated) {
		t.Fatalf("InputCode after termination = %v, want ErrFlowTerminated", err)
	}
	if err := flow.RequestOTP(context.Background(), "0812345678"); !errors.Is(err, domain.ErrFlowTerminated) {
		t.Fatalf("RequestOTP after termination = %v, want ErrFlowTerminated", err)
	}
}

func TestDeletedAccountVia410(t *testing.T) {
	backend := &stubAuthBackend{verifyErr: &gateway.APIError{Kind: gateway.KindAccountDeleted, Status: 410}}
	flow, _ := newAuthFlow(t, backend)

	if err := flow.RequestOTP(context.Background(), "0812345678"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	if err := flow.InputCode(context.Background(), "1234"); !errors.Is(err, domain.ErrAccountDeleted) {
		t.Fatalf("InputCode = %v, want ErrAccountDeleted", err)
	}
	if flow.Phase() != PhaseAccountDeleted {
		t.Fatalf("phase = %d, want PhaseAccountDeleted", flow.Phase())
	}
}
