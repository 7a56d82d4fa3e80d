package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(baseLog *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:         baseLog.With("handler", "AuthHandler"),
		authService: authService,
	}
}

type loginRequest struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid login payload"))
		return
	}
	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		TenantSlug: req.Tenant,
		Username:   req.Username,
		Password:   req.Password,
		OTPCode:    req.OTPCode,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// POST /api/admin/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid payload"))
		return
	}
	err := h.authService.ChangePassword(c.Request.Context(), tenantID(c), adminID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"changed": true})
}

// POST /api/admin/auth/2fa/setup
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	info, err := h.authService.PrepareTwoFactorSetup(c.Request.Context(), tenantID(c), adminID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, info)
}

type twoFactorConfirmRequest struct {
	OTPCode string `json:"otp_code"`
}

// POST /api/admin/auth/2fa/enable
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	var req twoFactorConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid payload"))
		return
	}
	if err := h.authService.EnableTwoFactor(c.Request.Context(), tenantID(c), adminID(c), req.OTPCode); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"twofa_enabled": true})
}

// POST /api/admin/auth/2fa/disable
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	if err := h.authService.DisableTwoFactor(c.Request.Context(), tenantID(c), adminID(c)); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"twofa_enabled": false})
}
