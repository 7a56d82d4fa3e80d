package app

import (
	"github.com/gin-gonic/gin"

	"github.com/hanbit-dev/showcase-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware, uploadsDir string) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		UploadsDir:     uploadsDir,
		AuthMiddleware: middlewareset.Auth,
		AuthHandler:    handlerset.Auth,
		PublicHandler:  handlerset.Public,
		ContentHandler: handlerset.Content,
		InquiryHandler: handlerset.Inquiry,
		TenantHandler:  handlerset.Tenant,
	})
}
