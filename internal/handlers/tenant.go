package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/services"
)

type TenantHandler struct {
	log           *logger.Logger
	tenantService services.TenantService
}

func NewTenantHandler(baseLog *logger.Logger, tenantService services.TenantService) *TenantHandler {
	return &TenantHandler{
		log:           baseLog.With("handler", "TenantHandler"),
		tenantService: tenantService,
	}
}

// GET /api/admin/tenant/settings
func (h *TenantHandler) GetSettings(c *gin.Context) {
	tid := tenantID(c)
	tenant, err := h.tenantService.FindByID(c.Request.Context(), tid)
	if err != nil {
		RespondError(c, err)
		return
	}
	if tenant == nil {
		RespondError(c, apierr.NotFound("tenant %d not found", tid))
		return
	}
	settings, err := h.tenantService.GetSettings(c.Request.Context(), tid)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, services.TenantWithSettings{Tenant: tenant, Settings: settings})
}

type tenantUpdateRequest struct {
	Name                 string `json:"name"`
	Slug                 string `json:"slug"`
	InquiryRetentionDays int    `json:"inquiry_retention_days"`
	PrivacyPolicyText    string `json:"privacy_policy_text"`
}

// PUT /api/admin/tenant/settings
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	var req tenantUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid payload"))
		return
	}
	result, err := h.tenantService.UpdateCurrentTenant(c.Request.Context(), tenantID(c), services.TenantInput{
		Name:                 req.Name,
		Slug:                 req.Slug,
		InquiryRetentionDays: req.InquiryRetentionDays,
		PrivacyPolicyText:    req.PrivacyPolicyText,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}
