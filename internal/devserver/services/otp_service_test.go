package services

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateFourDigitCode(t *testing.T) {
	svc := NewOTPService()

	code, err := svc.Generate("0812345678")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(code) != 4 {
		t.Fatalf("code length = %d, want 4", len(code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("code %q contains non-digit", code)
		}
	}
}

func TestVerifyConsumesCode(t *testing.T) {
	svc := NewOTPService()
	code, err := svc.Generate("0812345678")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if err := svc.Verify("0812345678", code); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	// Code is one-shot.
	if err := svc.Verify("0812345678", code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("second Verify = %v, want ErrOTPNotFound", err)
	}
}

func TestVerifyWithoutIssuedCode(t *testing.T) {
	svc := NewOTPService()
	if err := svc.Verify("0899999999", "1234"); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("Verify = %v, want ErrOTPNotFound", err)
	}
}

func TestVerifyMismatchThenSuccess(t *testing.T) {
	svc := NewOTPService()
	code, err := svc.Generate("0812345678")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wrong := "0000"
	if wrong == code {
		wrong = "1111"
	}
	if err := svc.Verify("0812345678", wrong); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("Verify = %v, want ErrOTPMismatch", err)
	}
	// A wrong attempt does not consume the code.
	if err := svc.Verify("0812345678", code); err != nil {
		t.Fatalf("Verify after mismatch: %v", err)
	}
}

func TestVerifyAttemptLimit(t *testing.T) {
	svc := NewOTPService()
	code, err := svc.Generate("0812345678")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wrong := "0000"
	if wrong == code {
		wrong = "1111"
	}
	for i := 0; i < 5; i++ {
		if err := svc.Verify("0812345678", wrong); !errors.Is(err, ErrOTPMismatch) {
			t.Fatalf("attempt %d = %v, want ErrOTPMismatch", i+1, err)
		}
	}
	if err := svc.Verify("0812345678", code); !errors.Is(err, ErrOTPTooMany) {
		t.Fatalf("Verify = %v, want ErrOTPTooMany", err)
	}
	// The record is gone after the limit trips.
	if err := svc.Verify("0812345678", code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("Verify = %v, want ErrOTPNotFound", err)
	}
}

func TestGenerateRateLimited(t *testing.T) {
	svc := NewOTPService()
	if _, err := svc.Generate("0812345678"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Generate("0812345678"); !errors.Is(err, ErrOTPRateLimited) {
		t.Fatalf("immediate retry = %v, want ErrOTPRateLimited", err)
	}
	// Another phone is unaffected.
	if _, err := svc.Generate("0899999999"); err != nil {
		t.Fatalf("Generate other phone: %v", err)
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	svc := NewOTPService()
	code, err := svc.Generate("0812345678")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	svc.mu.Lock()
	svc.store["0812345678"].ExpiresAt = time.Now().Add(-time.Second)
	svc.mu.Unlock()

	if err := svc.Verify("0812345678", code); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("Verify = %v, want ErrOTPExpired", err)
	}
}
