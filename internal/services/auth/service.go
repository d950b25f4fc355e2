package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"ajopay/internal/models"
	"ajopay/internal/repositories"
	"ajopay/internal/services/audit"
	"ajopay/internal/utils"
	"ajopay/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Email    string
	Phone    string
	Name     string
	Password string
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, phone, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(userID uint) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	GetUserTokenVersion(userID uint) (int, error)
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
}

type service struct {
	userRepo repositories.UserRepository
	audit    audit.Service
}

func NewService(userRepo repositories.UserRepository, auditSvc audit.Service) Service {
	if userRepo == nil {
		panic("user repository is required")
	}
	if auditSvc == nil {
		panic("audit service is required")
	}
	return &service{userRepo: userRepo, audit: auditSvc}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Email == "" || input.Phone == "" || input.Name == "" {
		return nil, errors.New("email, phone and name are required")
	}
	if len(input.Password) < 8 || !validation.HasSpecialChar(input.Password) {
		return nil, errors.New("password must be at least 8 characters and contain special characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Email:     input.Email,
		Phone:     input.Phone,
		Name:      input.Name,
		Password:  string(hashed),
		Role:      "user",
		Status:    models.UserStatusActive,
		KYCTier:   models.TierUnverified,
		KYCStatus: models.KYCStatusPending,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, err
		}
		return nil, errors.New("failed to create user")
	}

	s.audit.LogEvent(ctx, audit.Event{
		Category: models.AuditCategoryAuthentication,
		Severity: models.AuditSeverityLow,
		Action:   "register",
		UserID:   user.ID,
		Status:   models.AuditStatusSuccess,
	})
	return user, nil
}

func (s *service) Login(ctx context.Context, email, phone, password string) (*models.User, string, string, error) {
	user, err := s.getUserByIdentifier(email, phone)
	if err != nil {
		log.Printf("auth: login failed, no user for identifier %s", email+phone)
		return nil, "", "", ErrInvalidCredentials
	}

	if user.AccountLockoutUntil != nil && time.Now().Before(*user.AccountLockoutUntil) {
		s.emitLogin(ctx, user.ID, models.AuditStatusFailure, "locked")
		return nil, "", "", ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.recordFailedLogin(ctx, user)
		return nil, "", "", ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.AccountLockoutUntil = nil
	user.LastLoginAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("auth: failed to record login for user %d: %v", user.ID, err)
	}

	accessToken, refreshToken, err := utils.GenerateTokens(s.claimsFor(user))
	if err != nil {
		log.Printf("auth: error generating tokens: %v", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	s.emitLogin(ctx, user.ID, models.AuditStatusSuccess, "")
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(s.claimsFor(user))
}

func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errors.New("failed to get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	if len(newPassword) < 8 || !validation.HasSpecialChar(newPassword) {
		return errors.New("password must be at least 8 characters and contain special characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashedPassword)
	user.TokenVersion++ // Invalidate existing tokens

	if err := s.userRepo.Update(user); err != nil {
		return errors.New("failed to update password")
	}

	s.audit.LogEvent(ctx, audit.Event{
		Category: models.AuditCategoryAuthentication,
		Severity: models.AuditSeverityMedium,
		Action:   "password_change",
		UserID:   userID,
		Status:   models.AuditStatusSuccess,
	})
	return nil
}

func (s *service) GetUserTokenVersion(userID uint) (int, error) {
	return s.userRepo.GetTokenVersion(userID)
}

func (s *service) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *service) claimsFor(user *models.User) *models.UserClaims {
	return &models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		KYCTier:      user.KYCTier,
		KYCStatus:    user.KYCStatus,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	}
}

func (s *service) recordFailedLogin(ctx context.Context, user *models.User) {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= maxFailedLogins {
		until := time.Now().Add(lockoutDuration)
		user.AccountLockoutUntil = &until
		log.Printf("auth: user %d locked out after %d failed attempts", user.ID, user.FailedLoginAttempts)
	}
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("auth: failed to record failed login for user %d: %v", user.ID, err)
	}
	s.emitLogin(ctx, user.ID, models.AuditStatusFailure, "bad_password")
}

func (s *service) emitLogin(ctx context.Context, userID uint, status, reason string) {
	severity := models.AuditSeverityLow
	var details map[string]interface{}
	if status == models.AuditStatusFailure {
		severity = models.AuditSeverityMedium
		details = map[string]interface{}{"reason": reason}
	}
	s.audit.LogEvent(ctx, audit.Event{
		Category: models.AuditCategoryAuthentication,
		Severity: severity,
		Action:   "login",
		UserID:   userID,
		Status:   status,
		Details:  details,
	})
}

func (s *service) getUserByIdentifier(email, phone string) (*models.User, error) {
	if email != "" {
		return s.userRepo.GetByEmail(email)
	}
	return s.userRepo.GetByPhone(phone)
}
