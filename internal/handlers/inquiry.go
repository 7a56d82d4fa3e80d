package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/services"
)

type InquiryHandler struct {
	log            *logger.Logger
	inquiryService services.InquiryService
}

func NewInquiryHandler(baseLog *logger.Logger, inquiryService services.InquiryService) *InquiryHandler {
	return &InquiryHandler{
		log:            baseLog.With("handler", "InquiryHandler"),
		inquiryService: inquiryService,
	}
}

// GET /api/admin/inquiries
func (h *InquiryHandler) List(c *gin.Context) {
	inquiries, err := h.inquiryService.ListAll(c.Request.Context(), tenantID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"inquiries": inquiries})
}

// GET /api/admin/inquiries/:id
func (h *InquiryHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	inquiry, err := h.inquiryService.GetByID(c.Request.Context(), tenantID(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, inquiry)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// PATCH /api/admin/inquiries/:id/status
func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid payload"))
		return
	}
	inquiry, err := h.inquiryService.UpdateStatus(c.Request.Context(), tenantID(c), id, req.Status, adminID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, inquiry)
}

// POST /api/admin/inquiries/purge-expired
func (h *InquiryHandler) PurgeExpired(c *gin.Context) {
	count, err := h.inquiryService.PurgeExpired(c.Request.Context(), tenantID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"purged": count})
}

// GET /api/admin/inquiry-logs
func (h *InquiryHandler) ListLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	logs, err := h.inquiryService.ListLogs(c.Request.Context(), tenantID(c), limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"logs": logs})
}
