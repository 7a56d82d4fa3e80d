package services

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/repos"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

type authFixture struct {
	db     *gorm.DB
	auth   AuthService
	tenant *types.Tenant
	admin  *types.AdminUser
}

const testPassword = "Sup3r-Secret!"

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	tenant := &types.Tenant{Name: "Studio", Slug: "studio"}
	require.NoError(t, db.Create(tenant).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &types.AdminUser{
		TenantID:     tenant.ID,
		Username:     "owner",
		DisplayName:  "Owner",
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(admin).Error)

	auth := NewAuthService(db, log, AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Issuer:    "showcase-test",
	}, repos.NewAdminRepo(db, log), repos.NewTenantRepo(db, log), repos.NewTwoFactorSetupRepo(db, log))

	return &authFixture{db: db, auth: auth, tenant: tenant, admin: admin}
}

func TestLoginIssuesParsableToken(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.auth.Login(context.Background(), LoginInput{
		TenantSlug: "studio", Username: "owner", Password: testPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, f.admin.ID, result.Admin.ID)

	claims, err := f.auth.ParseToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, f.tenant.ID, claims.TenantID)
	require.Equal(t, f.admin.ID, claims.AdminID)
}

func TestLoginRejectsUnknownTenantAndUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.Login(ctx, LoginInput{TenantSlug: "nope", Username: "owner", Password: testPassword})
	require.True(t, apierr.IsCode(err, apierr.CodeInvalidCredentials))

	_, err = f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "ghost", Password: testPassword})
	require.True(t, apierr.IsCode(err, apierr.CodeInvalidCredentials))
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < maxFailedLogins-1; i++ {
		_, err := f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "owner", Password: "wrong"})
		require.True(t, apierr.IsCode(err, apierr.CodeInvalidCredentials))
	}
	_, err := f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "owner", Password: "wrong"})
	require.True(t, apierr.IsCode(err, apierr.CodeAccountLocked))

	// even the right password is refused while locked
	_, err = f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "owner", Password: testPassword})
	require.True(t, apierr.IsCode(err, apierr.CodeAccountLocked))
}

func TestLoginResetsFailureCountOnSuccess(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "owner", Password: "wrong"})
	require.Error(t, err)
	_, err = f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "owner", Password: testPassword})
	require.NoError(t, err)

	var admin types.AdminUser
	require.NoError(t, f.db.First(&admin, f.admin.ID).Error)
	require.Zero(t, admin.FailedLoginCount)
	require.Nil(t, admin.LockedUntil)
}

func TestPasswordPolicy(t *testing.T) {
	f := newAuthFixture(t)

	cases := []struct {
		password string
		ok       bool
	}{
		{"Sup3r-Secret!", true},
		{"short1A!", false},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigitsHere!", false},
		{"NoSpecials123A", false},
	}
	for _, tc := range cases {
		err := f.auth.ValidatePasswordPolicy(tc.password)
		if tc.ok {
			require.NoError(t, err, "password %q", tc.password)
		} else {
			require.True(t, apierr.IsValidation(err), "password %q", tc.password)
		}
	}
}

func TestChangePasswordRequiresCurrentPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.auth.ChangePassword(ctx, f.tenant.ID, f.admin.ID, "wrong", "N3w-Passw0rd!")
	require.True(t, apierr.IsCode(err, apierr.CodeInvalidCredentials))

	require.NoError(t, f.auth.ChangePassword(ctx, f.tenant.ID, f.admin.ID, testPassword, "N3w-Passw0rd!"))

	_, err = f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "owner", Password: "N3w-Passw0rd!"})
	require.NoError(t, err)
}

func TestTwoFactorSetupEnableAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	info, err := f.auth.PrepareTwoFactorSetup(ctx, f.tenant.ID, f.admin.ID)
	require.NoError(t, err)
	require.NotEmpty(t, info.Secret)
	require.Contains(t, info.OTPAuthURL, "otpauth://")

	// wrong code does not enable
	err = f.auth.EnableTwoFactor(ctx, f.tenant.ID, f.admin.ID, "000000")
	require.True(t, apierr.IsCode(err, apierr.CodeOTPInvalid))

	code, err := totp.GenerateCode(info.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.auth.EnableTwoFactor(ctx, f.tenant.ID, f.admin.ID, code))

	// password alone is no longer enough
	_, err = f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "owner", Password: testPassword})
	require.True(t, apierr.IsCode(err, apierr.CodeOTPRequired))

	code, err = totp.GenerateCode(info.Secret, time.Now())
	require.NoError(t, err)
	result, err := f.auth.Login(ctx, LoginInput{
		TenantSlug: "studio", Username: "owner", Password: testPassword, OTPCode: code,
	})
	require.NoError(t, err)
	require.True(t, result.Admin.TwoFAEnabled)

	require.NoError(t, f.auth.DisableTwoFactor(ctx, f.tenant.ID, f.admin.ID))
	_, err = f.auth.Login(ctx, LoginInput{TenantSlug: "studio", Username: "owner", Password: testPassword})
	require.NoError(t, err)
}
