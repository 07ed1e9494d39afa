package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// ============================================================
// OTP Service - phone verification for the dev stub
// ============================================================

// OTP errors
var (
	ErrOTPNotFound    = errors.New("no OTP issued for this phone, request a new one")
	ErrOTPExpired     = errors.New("OTP expired, request a new one")
	ErrOTPTooMany     = errors.New("too many wrong attempts, request a new one")
	ErrOTPMismatch    = errors.New("incorrect OTP")
	ErrOTPRateLimited = errors.New("please wait before requesting a new OTP")
)

// otpLength matches the app's auto-verify trigger length
const otpLength = 4

// otpEntry represents a single OTP record in memory
type otpEntry struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// OTPService handles OTP generation and verification. Codes live in memory
// only; the dev stub logs them instead of sending SMS.
type OTPService struct {
	store map[string]*otpEntry // key = phone
	mu    sync.RWMutex
}

// NewOTPService creates a new OTP service
func NewOTPService() *OTPService {
	svc := &OTPService{
		store: make(map[string]*otpEntry),
	}
	// Cleanup expired OTPs every 5 minutes
	go svc.cleanupLoop()
	return svc
}

// Generate creates a new 4-digit OTP for a phone number.
// Returns the code so the caller can log it.
func (s *OTPService) Generate(phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Rate limit: OTP lives 5 minutes; more than 4.5 left means it was just issued
	if existing, ok := s.store[phone]; ok {
		if time.Until(existing.ExpiresAt) > 4*time.Minute+30*time.Second {
			return "", ErrOTPRateLimited
		}
	}

	code, err := generateSecureOTP(otpLength)
	if err != nil {
		return "", fmt.Errorf("generate OTP: %w", err)
	}

	s.store[phone] = &otpEntry{
		Code:      code,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}

	return code, nil
}

// Verify checks the provided OTP and consumes it on success
func (s *OTPService) Verify(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.store[phone]
	if !ok {
		return ErrOTPNotFound
	}

	if time.Now().After(entry.ExpiresAt) {
		delete(s.store, phone)
		return ErrOTPExpired
	}

	// Max 5 attempts
	if entry.Attempts >= 5 {
		delete(s.store, phone)
		return ErrOTPTooMany
	}

	entry.Attempts++
	if entry.Code != code {
		return ErrOTPMismatch
	}

	delete(s.store, phone)
	return nil
}

// cleanupLoop periodically removes expired OTPs
func (s *OTPService) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		s.mu.Lock()
		for key, entry := range s.store {
			if time.Now().After(entry.ExpiresAt) {
				delete(s.store, key)
			}
		}
		s.mu.Unlock()
	}
}

// generateSecureOTP generates a cryptographically secure random OTP
func generateSecureOTP(length int) (string, error) {
	result := ""
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		result += fmt.Sprintf("%d", n.Int64())
	}
	return result, nil
}
