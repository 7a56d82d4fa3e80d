package app

import (
	"github.com/hanbit-dev/showcase-backend/internal/middleware"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, serviceset.Auth),
	}
}
