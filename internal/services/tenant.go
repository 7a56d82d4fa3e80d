package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/repos"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

const (
	defaultInquiryRetentionDays = 365
	defaultPrivacyPolicyText    = "Personal data submitted with an inquiry (name, contact, company) is collected and used only for consultation purposes."
)

type TenantInput struct {
	Name                 string
	Slug                 string
	InquiryRetentionDays int
	PrivacyPolicyText    string
}

type TenantWithSettings struct {
	Tenant   *types.Tenant         `json:"tenant"`
	Settings *types.TenantSettings `json:"settings"`
}

type TenantService interface {
	FindBySlug(ctx context.Context, slug string) (*types.Tenant, error)
	FindByID(ctx context.Context, tenantID uint) (*types.Tenant, error)
	ListAll(ctx context.Context) ([]*types.Tenant, error)
	GetSettings(ctx context.Context, tenantID uint) (*types.TenantSettings, error)
	UpdateCurrentTenant(ctx context.Context, tenantID uint, input TenantInput) (*TenantWithSettings, error)
	CreateTenant(ctx context.Context, input TenantInput) (*TenantWithSettings, error)
}

type tenantService struct {
	db         *gorm.DB
	log        *logger.Logger
	tenantRepo repos.TenantRepo
}

func NewTenantService(db *gorm.DB, baseLog *logger.Logger, tenantRepo repos.TenantRepo) TenantService {
	return &tenantService{
		db:         db,
		log:        baseLog.With("service", "TenantService"),
		tenantRepo: tenantRepo,
	}
}

func (s *tenantService) FindBySlug(ctx context.Context, slug string) (*types.Tenant, error) {
	return s.tenantRepo.FindBySlug(ctx, nil, slug)
}

func (s *tenantService) FindByID(ctx context.Context, tenantID uint) (*types.Tenant, error) {
	return s.tenantRepo.FindByID(ctx, nil, tenantID)
}

func (s *tenantService) ListAll(ctx context.Context) ([]*types.Tenant, error) {
	return s.tenantRepo.ListAll(ctx, nil)
}

// GetSettings returns the tenant's settings, creating the default row on
// first access.
func (s *tenantService) GetSettings(ctx context.Context, tenantID uint) (*types.TenantSettings, error) {
	settings, err := s.tenantRepo.GetSettings(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	defaults := &types.TenantSettings{
		TenantID:             tenantID,
		InquiryRetentionDays: defaultInquiryRetentionDays,
		PrivacyPolicyText:    defaultPrivacyPolicyText,
	}
	if err := s.tenantRepo.UpsertSettings(ctx, nil, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

func normalizeTenantInput(input *TenantInput) {
	base := input.Slug
	if strings.TrimSpace(base) == "" {
		base = input.Name
	}
	input.Slug = Slugify(base)
	if input.InquiryRetentionDays <= 0 {
		input.InquiryRetentionDays = defaultInquiryRetentionDays
	}
	if strings.TrimSpace(input.PrivacyPolicyText) == "" {
		input.PrivacyPolicyText = defaultPrivacyPolicyText
	}
}

func (s *tenantService) UpdateCurrentTenant(ctx context.Context, tenantID uint, input TenantInput) (*TenantWithSettings, error) {
	normalizeTenantInput(&input)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tenantRepo.UpdateTenant(ctx, tx, tenantID, input.Name, input.Slug); err != nil {
			return err
		}
		return s.tenantRepo.UpsertSettings(ctx, tx, &types.TenantSettings{
			TenantID:             tenantID,
			InquiryRetentionDays: input.InquiryRetentionDays,
			PrivacyPolicyText:    input.PrivacyPolicyText,
		})
	})
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	settings, err := s.tenantRepo.GetSettings(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	return &TenantWithSettings{Tenant: tenant, Settings: settings}, nil
}

func (s *tenantService) CreateTenant(ctx context.Context, input TenantInput) (*TenantWithSettings, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation("tenant name is required")
	}
	normalizeTenantInput(&input)

	existing, err := s.tenantRepo.FindBySlug(ctx, nil, input.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.Conflict("tenant slug %q is already in use", input.Slug)
	}

	tenant := &types.Tenant{Name: input.Name, Slug: input.Slug}
	settings := &types.TenantSettings{
		InquiryRetentionDays: input.InquiryRetentionDays,
		PrivacyPolicyText:    input.PrivacyPolicyText,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tenantRepo.CreateTenant(ctx, tx, tenant); err != nil {
			return err
		}
		settings.TenantID = tenant.ID
		return s.tenantRepo.UpsertSettings(ctx, tx, settings)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Tenant created", "tenant_id", tenant.ID, "slug", tenant.Slug)
	return &TenantWithSettings{Tenant: tenant, Settings: settings}, nil
}
