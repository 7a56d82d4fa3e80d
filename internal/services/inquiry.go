package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/notify"
	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/repos"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

// Audit actions written to the inquiry trail.
const (
	AuditActionPublicSubmit = "PUBLIC_SUBMIT"
	AuditActionAlertSent    = "ALERT_SENT"
	AuditActionAlertFailed  = "ALERT_FAILED"
	AuditActionStatusUpdate = "STATUS_UPDATE"
	AuditActionPurge        = "PURGE"
)

type InquiryInput struct {
	Name         string
	Phone        string
	Company      string
	Message      string
	ConsentGiven bool
	IPAddress    string
	UserAgent    string
}

type InquiryService interface {
	Create(ctx context.Context, tenantID uint, input InquiryInput) (*types.Inquiry, error)
	ListAll(ctx context.Context, tenantID uint) ([]*types.Inquiry, error)
	GetByID(ctx context.Context, tenantID, id uint) (*types.Inquiry, error)
	UpdateStatus(ctx context.Context, tenantID, id uint, status string, actorID uint) (*types.Inquiry, error)
	PurgeExpired(ctx context.Context, tenantID uint) (int, error)
	ListLogs(ctx context.Context, tenantID uint, limit int) ([]*types.InquiryAuditLog, error)
}

type inquiryService struct {
	db          *gorm.DB
	log         *logger.Logger
	inquiryRepo repos.InquiryRepo
	tenantRepo  repos.TenantRepo
	tenants     TenantService
	alerts      *notify.AlertService
}

func NewInquiryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	inquiryRepo repos.InquiryRepo,
	tenantRepo repos.TenantRepo,
	tenants TenantService,
	alerts *notify.AlertService,
) InquiryService {
	return &inquiryService{
		db:          db,
		log:         baseLog.With("service", "InquiryService"),
		inquiryRepo: inquiryRepo,
		tenantRepo:  tenantRepo,
		tenants:     tenants,
		alerts:      alerts,
	}
}

func validateInquiryInput(input InquiryInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apierr.Validation("name is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return apierr.Validation("message is required")
	}
	if !input.ConsentGiven {
		return apierr.Validation("privacy consent is required")
	}
	return nil
}

// Create stores a public inquiry with its retention deadline, writes the
// submit audit row, then fans out alerts. Alert failures are audited but
// never fail the submission.
func (s *inquiryService) Create(ctx context.Context, tenantID uint, input InquiryInput) (*types.Inquiry, error) {
	if err := validateInquiryInput(input); err != nil {
		return nil, err
	}

	settings, err := s.tenants.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	retentionUntil := now.AddDate(0, 0, settings.InquiryRetentionDays)
	inquiry := &types.Inquiry{
		TenantID:       tenantID,
		Name:           strings.TrimSpace(input.Name),
		Phone:          strings.TrimSpace(input.Phone),
		Company:        strings.TrimSpace(input.Company),
		Message:        strings.TrimSpace(input.Message),
		Status:         types.InquiryStatusNew,
		ConsentGiven:   true,
		ConsentAt:      &now,
		RetentionUntil: &retentionUntil,
		IPAddress:      input.IPAddress,
		UserAgent:      input.UserAgent,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.inquiryRepo.Create(ctx, tx, inquiry); err != nil {
			return err
		}
		return s.inquiryRepo.AddAuditLog(ctx, tx, &types.InquiryAuditLog{
			TenantID:  tenantID,
			InquiryID: &inquiry.ID,
			Action:    AuditActionPublicSubmit,
			Detail:    fmt.Sprintf("inquiry from %s", inquiry.Name),
			ActorType: types.ActorTypePublic,
		})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Inquiry created", "tenant_id", tenantID, "inquiry_id", inquiry.ID)

	s.sendAlerts(ctx, tenantID, inquiry)
	return inquiry, nil
}

func (s *inquiryService) sendAlerts(ctx context.Context, tenantID uint, inquiry *types.Inquiry) {
	if s.alerts == nil || !s.alerts.HasChannels() {
		return
	}
	tenant, err := s.tenantRepo.FindByID(ctx, nil, tenantID)
	if err != nil {
		s.log.Warn("Tenant lookup for alert failed", "tenant_id", tenantID, "error", err)
	}

	for _, outcome := range s.alerts.NotifyInquiryCreated(ctx, tenant, inquiry) {
		entry := &types.InquiryAuditLog{
			TenantID:  tenantID,
			InquiryID: &inquiry.ID,
			ActorType: types.ActorTypeSystem,
		}
		if outcome.Err != nil {
			entry.Action = AuditActionAlertFailed
			entry.Detail = fmt.Sprintf("%s: %v", outcome.Channel, outcome.Err)
		} else {
			entry.Action = AuditActionAlertSent
			entry.Detail = fmt.Sprintf("%s: %d target(s)", outcome.Channel, outcome.SuccessCount)
		}
		if err := s.inquiryRepo.AddAuditLog(ctx, nil, entry); err != nil {
			s.log.Error("Writing alert audit row failed", "tenant_id", tenantID, "inquiry_id", inquiry.ID, "error", err)
		}
	}
}

func (s *inquiryService) ListAll(ctx context.Context, tenantID uint) ([]*types.Inquiry, error) {
	return s.inquiryRepo.ListAll(ctx, nil, tenantID)
}

func (s *inquiryService) GetByID(ctx context.Context, tenantID, id uint) (*types.Inquiry, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, nil, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, apierr.NotFound("inquiry %d not found", id)
	}
	return inquiry, nil
}

func (s *inquiryService) UpdateStatus(ctx context.Context, tenantID, id uint, status string, actorID uint) (*types.Inquiry, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !types.IsValidInquiryStatus(status) {
		return nil, apierr.Validation("unknown inquiry status %q", status)
	}

	inquiry, err := s.inquiryRepo.GetByID(ctx, nil, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, apierr.NotFound("inquiry %d not found", id)
	}

	previous := inquiry.Status
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.inquiryRepo.UpdateStatus(ctx, tx, tenantID, id, status); err != nil {
			return err
		}
		return s.inquiryRepo.AddAuditLog(ctx, tx, &types.InquiryAuditLog{
			TenantID:  tenantID,
			InquiryID: &inquiry.ID,
			Action:    AuditActionStatusUpdate,
			Detail:    fmt.Sprintf("%s -> %s", previous, status),
			ActorType: types.ActorTypeAdmin,
			ActorID:   strconv.FormatUint(uint64(actorID), 10),
		})
	})
	if err != nil {
		return nil, err
	}

	inquiry.Status = status
	return inquiry, nil
}

// PurgeExpired hard-deletes inquiries whose retention deadline has passed,
// leaving a purge audit row per record. Returns the number deleted.
func (s *inquiryService) PurgeExpired(ctx context.Context, tenantID uint) (int, error) {
	expired, err := s.inquiryRepo.ListExpiredForPurge(ctx, nil, tenantID, time.Now())
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, inquiry := range expired {
		inquiryID := inquiry.ID
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.inquiryRepo.AddAuditLog(ctx, tx, &types.InquiryAuditLog{
				TenantID:  tenantID,
				InquiryID: &inquiryID,
				Action:    AuditActionPurge,
				Detail:    fmt.Sprintf("retention expired %s", inquiry.RetentionUntil.Format(time.RFC3339)),
				ActorType: types.ActorTypeSystem,
			}); err != nil {
				return err
			}
			return s.inquiryRepo.HardDelete(ctx, tx, tenantID, inquiryID)
		})
		if err != nil {
			s.log.Error("Purging inquiry failed", "tenant_id", tenantID, "inquiry_id", inquiryID, "error", err)
			continue
		}
		purged++
	}

	if purged > 0 {
		s.log.Info("Expired inquiries purged", "tenant_id", tenantID, "count", purged)
	}
	return purged, nil
}

func (s *inquiryService) ListLogs(ctx context.Context, tenantID uint, limit int) ([]*types.InquiryAuditLog, error) {
	return s.inquiryRepo.ListAuditLogs(ctx, nil, tenantID, limit)
}
