package app

import (
	"time"

	"github.com/hanbit-dev/showcase-backend/internal/db"
	"github.com/hanbit-dev/showcase-backend/internal/platform/envutil"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
)

type Config struct {
	Port    string
	LogMode string

	DB db.Config

	JWTSecret string
	TokenTTL  time.Duration
	JWTIssuer string

	UploadRoot     string
	GCSBucketName  string
	GCSCredentials string
	GCSPublicBase  string

	AdminBaseURL   string
	AllowedOrigins []string

	SeedTenantName    string
	SeedTenantSlug    string
	SeedAdminUsername string
	SeedAdminPassword string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		DB: db.Config{
			Backend:          envutil.String("DB_BACKEND", db.BackendSQLite),
			SQLitePath:       envutil.String("SQLITE_PATH", "data/app.db"),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_DB", "showcase"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		},
		JWTSecret:         envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		TokenTTL:          time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		JWTIssuer:         envutil.String("JWT_ISSUER", "showcase-backend"),
		UploadRoot:        envutil.String("UPLOAD_ROOT", "uploads"),
		GCSBucketName:     envutil.String("MEDIA_GCS_BUCKET_NAME", ""),
		GCSCredentials:    envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GCSPublicBase:     envutil.String("MEDIA_GCS_PUBLIC_BASE_URL", ""),
		AdminBaseURL:      envutil.String("ADMIN_BASE_URL", ""),
		AllowedOrigins:    envutil.List("CORS_ALLOWED_ORIGINS"),
		SeedTenantName:    envutil.String("SEED_TENANT_NAME", "Default Studio"),
		SeedTenantSlug:    envutil.String("SEED_TENANT_SLUG", "default"),
		SeedAdminUsername: envutil.String("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword: envutil.String("SEED_ADMIN_PASSWORD", ""),
	}
	if cfg.JWTSecret == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using default secret")
	}
	return cfg
}
