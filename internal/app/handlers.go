package app

import (
	"github.com/hanbit-dev/showcase-backend/internal/handlers"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Public  *handlers.PublicHandler
	Content *handlers.ContentHandler
	Inquiry *handlers.InquiryHandler
	Tenant  *handlers.TenantHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:    handlers.NewAuthHandler(log, serviceset.Auth),
		Public:  handlers.NewPublicHandler(log, serviceset.Tenant, serviceset.Content, serviceset.Inquiry),
		Content: handlers.NewContentHandler(log, serviceset.Content),
		Inquiry: handlers.NewInquiryHandler(log, serviceset.Inquiry),
		Tenant:  handlers.NewTenantHandler(log, serviceset.Tenant),
	}
}
