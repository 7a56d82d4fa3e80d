package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/repos"
	"github.com/hanbit-dev/showcase-backend/internal/storage"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

// fakeStore is an in-memory storage.Provider that records every upload and
// delete so tests can assert on cleanup behavior.
type fakeStore struct {
	mu      sync.Mutex
	seq     int
	uploads []string
	deletes []string
}

func (f *fakeStore) Upload(ctx context.Context, tenantID uint, category string, file storage.FileUpload) (storage.Stored, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	name := storage.SafeFileName(file.OriginalName)
	path := fmt.Sprintf("/uploads/%d/%s/%d-%s", tenantID, category, f.seq, name)
	f.uploads = append(f.uploads, path)
	return storage.Stored{FileName: name, StoragePath: path}, nil
}

func (f *fakeStore) DeleteByStoragePath(ctx context.Context, storagePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, storagePath)
	return nil
}

func (f *fakeStore) deleteCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.deletes {
		if p == path {
			n++
		}
	}
	return n
}

type contentFixture struct {
	db      *gorm.DB
	store   *fakeStore
	content ContentService
	media   repos.MediaRepo
	blocks  repos.ContentRepo
	tenant  *types.Tenant
}

func newContentFixture(t *testing.T) *contentFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	tenant := &types.Tenant{Name: "Studio", Slug: "studio"}
	require.NoError(t, db.Create(tenant).Error)

	store := &fakeStore{}
	contentRepo := repos.NewContentRepo(db, log)
	mediaRepo := repos.NewMediaRepo(db, log)
	return &contentFixture{
		db:      db,
		store:   store,
		content: NewContentService(db, log, contentRepo, mediaRepo, store),
		media:   mediaRepo,
		blocks:  contentRepo,
		tenant:  tenant,
	}
}

// seedAsset inserts a media asset row directly, the way an earlier upload
// would have left it.
func (f *contentFixture) seedAsset(t *testing.T, path string) *types.MediaAsset {
	t.Helper()
	asset := &types.MediaAsset{
		TenantID:     f.tenant.ID,
		FileName:     filepath.Base(path),
		OriginalName: filepath.Base(path),
		MimeType:     "image/png",
		FileSize:     128,
		StoragePath:  path,
	}
	require.NoError(t, f.db.Create(asset).Error)
	return asset
}
