package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/repos"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

const (
	maxFailedLogins   = 5
	loginLockDuration = 15 * time.Minute
	twoFASetupTTL     = 10 * time.Minute
	bcryptCost        = 12
)

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

type LoginInput struct {
	TenantSlug string
	Username   string
	Password   string
	OTPCode    string
}

type AdminProfile struct {
	ID                 uint   `json:"id"`
	TenantID           uint   `json:"tenant_id"`
	TenantSlug         string `json:"tenant_slug"`
	TenantName         string `json:"tenant_name"`
	Username           string `json:"username"`
	DisplayName        string `json:"display_name"`
	MustChangePassword bool   `json:"must_change_password"`
	TwoFAEnabled       bool   `json:"twofa_enabled"`
}

type LoginResult struct {
	Token string       `json:"token"`
	Admin AdminProfile `json:"admin"`
}

type SessionClaims struct {
	TenantID uint `json:"tenant_id"`
	AdminID  uint `json:"admin_id"`
	jwt.RegisteredClaims
}

// TwoFactorSetupInfo is handed to the admin UI to render the QR code.
// The secret is not yet active; it lives in a pending setup record until
// the admin confirms with a valid code.
type TwoFactorSetupInfo struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	ParseToken(tokenString string) (*SessionClaims, error)
	ChangePassword(ctx context.Context, tenantID, adminID uint, currentPassword, newPassword string) error
	ValidatePasswordPolicy(password string) error
	PrepareTwoFactorSetup(ctx context.Context, tenantID, adminID uint) (*TwoFactorSetupInfo, error)
	EnableTwoFactor(ctx context.Context, tenantID, adminID uint, otpCode string) error
	DisableTwoFactor(ctx context.Context, tenantID, adminID uint) error
	HashPassword(password string) (string, error)
}

type authService struct {
	db         *gorm.DB
	log        *logger.Logger
	cfg        AuthConfig
	adminRepo  repos.AdminRepo
	tenantRepo repos.TenantRepo
	setupRepo  repos.TwoFactorSetupRepo
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg AuthConfig,
	adminRepo repos.AdminRepo,
	tenantRepo repos.TenantRepo,
	setupRepo repos.TwoFactorSetupRepo,
) AuthService {
	return &authService{
		db:         db,
		log:        baseLog.With("service", "AuthService"),
		cfg:        cfg,
		adminRepo:  adminRepo,
		tenantRepo: tenantRepo,
		setupRepo:  setupRepo,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	tenant, err := s.tenantRepo.FindBySlug(ctx, nil, strings.TrimSpace(input.TenantSlug))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apierr.Unauthorized(apierr.CodeInvalidCredentials, "unknown tenant")
	}

	admin, err := s.adminRepo.FindByUsername(ctx, nil, tenant.ID, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, apierr.Unauthorized(apierr.CodeInvalidCredentials, "invalid credentials")
	}

	if admin.LockedUntil != nil && admin.LockedUntil.After(time.Now()) {
		return nil, apierr.Unauthorized(apierr.CodeAccountLocked,
			"account locked until %s", admin.LockedUntil.Format(time.RFC3339))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		nextCount := admin.FailedLoginCount + 1
		var lockUntil *time.Time
		if nextCount >= maxFailedLogins {
			t := time.Now().Add(loginLockDuration)
			lockUntil = &t
		}
		if err := s.adminRepo.MarkFailedLogin(ctx, nil, tenant.ID, admin.ID, nextCount, lockUntil); err != nil {
			s.log.Error("Recording failed login failed", "tenant_id", tenant.ID, "admin_id", admin.ID, "error", err)
		}
		if lockUntil != nil {
			return nil, apierr.Unauthorized(apierr.CodeAccountLocked,
				"too many failed attempts, login locked for %s", loginLockDuration)
		}
		return nil, apierr.Unauthorized(apierr.CodeInvalidCredentials, "invalid credentials")
	}

	if admin.TwoFAEnabled {
		code := strings.TrimSpace(input.OTPCode)
		if code == "" {
			return nil, apierr.Unauthorized(apierr.CodeOTPRequired, "one-time code required")
		}
		if !totp.Validate(code, admin.TwoFASecret) {
			return nil, apierr.Unauthorized(apierr.CodeOTPInvalid, "one-time code is not valid")
		}
	}

	if err := s.adminRepo.ResetLoginFailures(ctx, nil, tenant.ID, admin.ID); err != nil {
		return nil, err
	}

	token, err := s.issueToken(tenant.ID, admin.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Admin logged in", "tenant_id", tenant.ID, "admin_id", admin.ID)
	return &LoginResult{
		Token: token,
		Admin: AdminProfile{
			ID:                 admin.ID,
			TenantID:           tenant.ID,
			TenantSlug:         tenant.Slug,
			TenantName:         tenant.Name,
			Username:           admin.Username,
			DisplayName:        admin.DisplayName,
			MustChangePassword: admin.MustChangePassword,
			TwoFAEnabled:       admin.TwoFAEnabled,
		},
	}, nil
}

func (s *authService) issueToken(tenantID, adminID uint) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		TenantID: tenantID,
		AdminID:  adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.Unauthorized(apierr.CodeInvalidCredentials, "invalid session token")
	}
	return claims, nil
}

// ValidatePasswordPolicy enforces the admin password rules: at least 10
// characters with upper, lower, digit and special characters.
func (s *authService) ValidatePasswordPolicy(password string) error {
	if len(password) < 10 {
		return apierr.Validation("password must be at least 10 characters")
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		return apierr.Validation("password must contain an uppercase letter")
	}
	if !hasLower {
		return apierr.Validation("password must contain a lowercase letter")
	}
	if !hasDigit {
		return apierr.Validation("password must contain a digit")
	}
	if !hasSpecial {
		return apierr.Validation("password must contain a special character")
	}
	return nil
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) ChangePassword(ctx context.Context, tenantID, adminID uint, currentPassword, newPassword string) error {
	admin, err := s.adminRepo.FindByID(ctx, nil, tenantID, adminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return apierr.NotFound("admin %d not found", adminID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)); err != nil {
		return apierr.Unauthorized(apierr.CodeInvalidCredentials, "current password is not correct")
	}
	if err := s.ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}
	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.adminRepo.UpdatePassword(ctx, nil, tenantID, adminID, hash)
}

func (s *authService) PrepareTwoFactorSetup(ctx context.Context, tenantID, adminID uint) (*TwoFactorSetupInfo, error) {
	admin, err := s.adminRepo.FindByID(ctx, nil, tenantID, adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, apierr.NotFound("admin %d not found", adminID)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.cfg.Issuer,
		AccountName: admin.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	setup := &types.TwoFactorSetup{
		TenantID:  tenantID,
		AdminID:   adminID,
		Secret:    key.Secret(),
		ExpiresAt: time.Now().Add(twoFASetupTTL),
	}
	if err := s.setupRepo.Create(ctx, nil, setup); err != nil {
		return nil, err
	}

	return &TwoFactorSetupInfo{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

func (s *authService) EnableTwoFactor(ctx context.Context, tenantID, adminID uint, otpCode string) error {
	setup, err := s.setupRepo.GetPending(ctx, nil, tenantID, adminID)
	if err != nil {
		return err
	}
	if setup == nil {
		return apierr.Validation("no pending two-factor setup, start over")
	}
	if !totp.Validate(strings.TrimSpace(otpCode), setup.Secret) {
		return apierr.Unauthorized(apierr.CodeOTPInvalid, "one-time code is not valid")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.adminRepo.UpdateTwoFactor(ctx, tx, tenantID, adminID, true, setup.Secret); err != nil {
			return err
		}
		return s.setupRepo.DeleteForAdmin(ctx, tx, tenantID, adminID)
	})
}

func (s *authService) DisableTwoFactor(ctx context.Context, tenantID, adminID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.adminRepo.UpdateTwoFactor(ctx, tx, tenantID, adminID, false, ""); err != nil {
			return err
		}
		return s.setupRepo.DeleteForAdmin(ctx, tx, tenantID, adminID)
	})
}
