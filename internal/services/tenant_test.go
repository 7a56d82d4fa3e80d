package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/repos"
)

func newTenantService(t *testing.T) TenantService {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	return NewTenantService(db, log, repos.NewTenantRepo(db, log))
}

func TestGetSettingsCreatesDefaults(t *testing.T) {
	svc := newTenantService(t)
	ctx := context.Background()

	created, err := svc.CreateTenant(ctx, TenantInput{Name: "Studio One"})
	require.NoError(t, err)
	require.Equal(t, "studio-one", created.Tenant.Slug)
	require.Equal(t, defaultInquiryRetentionDays, created.Settings.InquiryRetentionDays)
	require.NotEmpty(t, created.Settings.PrivacyPolicyText)

	settings, err := svc.GetSettings(ctx, created.Tenant.ID)
	require.NoError(t, err)
	require.Equal(t, created.Tenant.ID, settings.TenantID)
}

func TestCreateTenantRejectsDuplicateSlug(t *testing.T) {
	svc := newTenantService(t)
	ctx := context.Background()

	_, err := svc.CreateTenant(ctx, TenantInput{Name: "Studio"})
	require.NoError(t, err)
	_, err = svc.CreateTenant(ctx, TenantInput{Name: "Studio"})
	require.True(t, apierr.IsCode(err, apierr.CodeConflict))

	_, err = svc.CreateTenant(ctx, TenantInput{Name: "   "})
	require.True(t, apierr.IsValidation(err))
}

func TestUpdateCurrentTenantNormalizesInput(t *testing.T) {
	svc := newTenantService(t)
	ctx := context.Background()

	created, err := svc.CreateTenant(ctx, TenantInput{Name: "Studio"})
	require.NoError(t, err)

	updated, err := svc.UpdateCurrentTenant(ctx, created.Tenant.ID, TenantInput{
		Name:                 "Studio Renamed",
		Slug:                 "My Studio!!",
		InquiryRetentionDays: -5,
	})
	require.NoError(t, err)
	require.Equal(t, "Studio Renamed", updated.Tenant.Name)
	require.Equal(t, "my-studio", updated.Tenant.Slug)
	require.Equal(t, defaultInquiryRetentionDays, updated.Settings.InquiryRetentionDays)
	require.NotEmpty(t, updated.Settings.PrivacyPolicyText)
}
