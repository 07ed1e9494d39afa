package services

import (
	"errors"
	"log"

	"realhub-app/internal/config"
	"realhub-app/internal/devserver/models"
	"realhub-app/internal/pkg/jwt"
	"realhub-app/internal/pkg/password"

	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUserDeleted        = errors.New("account deleted")
)

// AuthService handles OTP login, staff login and token validation
type AuthService struct {
	db  *gorm.DB
	otp *OTPService
	cfg *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, otp *OTPService, cfg *config.Config) *AuthService {
	return &AuthService{db: db, otp: otp, cfg: cfg}
}

// AuthResult is what a successful login returns to the client
type AuthResult struct {
	Token            string               `json:"token"`
	User             *models.UserResponse `json:"user"`
	ProfileCompleted bool                 `json:"profile_completed"`
}

// SendOTP issues an OTP for a phone number. The dev stub has no SMS
// delivery; the code is logged for the developer to read.
func (s *AuthService) SendOTP(phone string) error {
	code, err := s.otp.Generate(phone)
	if err != nil {
		return err
	}

	log.Printf("📱 OTP for %s: %s", phone, code)
	return nil
}

// VerifyOTP checks the code and returns a token for the phone's account,
// creating a customer account on first login. A deleted account still
// authenticates here; the handler converts it into the fatal 410.
func (s *AuthService) VerifyOTP(phone, code string) (*AuthResult, error) {
	// 1. Check the code
	if err := s.otp.Verify(phone, code); err != nil {
		return nil, err
	}

	// 2. Find or create the account
	var user models.User
	err := s.db.Where("phone = ?", phone).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{Phone: phone, Role: "CUSTOMER", IsActive: true}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		log.Printf("✅ New customer account created for %s", phone)
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive && !user.Deleted {
		return nil, ErrUserInactive
	}

	// 3. Issue token
	token, err := jwt.GenerateAccessToken(user.ID, user.Phone, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ OTP verified for %s (user %d)", phone, user.ID)

	return &AuthResult{
		Token:            token,
		User:             user.ToResponse(),
		ProfileCompleted: user.ProfileCompleted,
	}, nil
}

// StaffLogin authenticates an employee or admin by username/password
func (s *AuthService) StaffLogin(username, pass string) (*AuthResult, error) {
	var user models.User
	err := s.db.Where("username = ? AND role IN ?", username, []string{"EMPLOYEE", "ADMIN"}).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if user.Deleted {
		return nil, ErrUserDeleted
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !password.Verify(pass, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Phone, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Staff login: %s [%s]", username, user.Role)

	return &AuthResult{
		Token:            token,
		User:             user.ToResponse(),
		ProfileCompleted: user.ProfileCompleted,
	}, nil
}

// GetUserByID loads an account by id
func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
