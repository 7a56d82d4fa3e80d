package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/services"
)

// PublicHandler serves the unauthenticated site API. Every route is nested
// under a tenant slug so one deployment can host multiple sites.
type PublicHandler struct {
	log            *logger.Logger
	tenantService  services.TenantService
	contentService services.ContentService
	inquiryService services.InquiryService
}

func NewPublicHandler(
	baseLog *logger.Logger,
	tenantService services.TenantService,
	contentService services.ContentService,
	inquiryService services.InquiryService,
) *PublicHandler {
	return &PublicHandler{
		log:            baseLog.With("handler", "PublicHandler"),
		tenantService:  tenantService,
		contentService: contentService,
		inquiryService: inquiryService,
	}
}

func (h *PublicHandler) resolveTenant(c *gin.Context) (uint, bool) {
	slug := c.Param("tenantSlug")
	tenant, err := h.tenantService.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		RespondError(c, err)
		return 0, false
	}
	if tenant == nil {
		RespondError(c, apierr.NotFound("site %q not found", slug))
		return 0, false
	}
	return tenant.ID, true
}

// GET /api/public/:tenantSlug/content/:type
func (h *PublicHandler) ListPublished(c *gin.Context) {
	tid, ok := h.resolveTenant(c)
	if !ok {
		return
	}
	items, err := h.contentService.ListPublished(c.Request.Context(), tid, c.Param("type"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}

// GET /api/public/:tenantSlug/content/:type/:slug
func (h *PublicHandler) GetBySlug(c *gin.Context) {
	tid, ok := h.resolveTenant(c)
	if !ok {
		return
	}
	detail, err := h.contentService.GetBySlug(c.Request.Context(), tid, c.Param("type"), c.Param("slug"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if detail == nil {
		RespondError(c, apierr.NotFound("content %q not found", c.Param("slug")))
		return
	}
	RespondOK(c, detail)
}

// GET /api/public/:tenantSlug/privacy-policy
func (h *PublicHandler) PrivacyPolicy(c *gin.Context) {
	tid, ok := h.resolveTenant(c)
	if !ok {
		return
	}
	settings, err := h.tenantService.GetSettings(c.Request.Context(), tid)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"privacy_policy_text": settings.PrivacyPolicyText})
}

type inquiryRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Message      string `json:"message"`
	ConsentGiven bool   `json:"consent_given"`
}

// POST /api/public/:tenantSlug/inquiries
func (h *PublicHandler) SubmitInquiry(c *gin.Context) {
	tid, ok := h.resolveTenant(c)
	if !ok {
		return
	}
	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid inquiry payload"))
		return
	}
	inquiry, err := h.inquiryService.Create(c.Request.Context(), tid, services.InquiryInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Company:      req.Company,
		Message:      req.Message,
		ConsentGiven: req.ConsentGiven,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"id": inquiry.ID, "status": inquiry.Status})
}
