package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend string

	// sqlite
	SQLitePath string

	// postgres
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string
	PostgresSSLMode  string
}

// Service owns the single gorm handle for the process. The backend is
// chosen once at startup; everything above it sees one *gorm.DB.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(log *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendSQLite
	}

	var (
		db  *gorm.DB
		err error
	)
	switch backend {
	case BackendSQLite:
		serviceLog.Info("Connecting to sqlite", "path", cfg.SQLitePath)
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err == nil {
			err = db.Exec("PRAGMA foreign_keys = ON").Error
		}
	case BackendPostgres:
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.PostgresUser, cfg.PostgresPassword,
			cfg.PostgresHost, cfg.PostgresPort,
			cfg.PostgresName, cfg.PostgresSSLMode,
		)
		serviceLog.Info("Connecting to postgres", "host", cfg.PostgresHost, "db", cfg.PostgresName)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported db backend %q", cfg.Backend)
	}
	if err != nil {
		serviceLog.Error("Database connection failed", "backend", backend, "error", err)
		return nil, fmt.Errorf("connect %s: %w", backend, err)
	}

	return &Service{db: db, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(
		&types.Tenant{},
		&types.TenantSettings{},
		&types.AdminUser{},
		&types.TwoFactorSetup{},
		&types.ContentItem{},
		&types.ContentBlock{},
		&types.MediaAsset{},
		&types.ContentMediaLink{},
		&types.Inquiry{},
		&types.InquiryAuditLog{},
	); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
