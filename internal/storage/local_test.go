package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
)

func TestSafeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hero Image.PNG", "hero-image.png"},
		{"../../etc/passwd", "passwd"},
		{"???.jpg", "asset.jpg"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, SafeFileName(tc.in), "input %q", tc.in)
	}
}

func TestLocalProviderUploadAndDelete(t *testing.T) {
	p, err := NewLocalProvider(logger.NewNop(), t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := p.Upload(ctx, 3, CategoryAttachments, FileUpload{
		OriginalName: "Team Photo.png",
		MimeType:     "image/png",
		Size:         9,
		Reader:       strings.NewReader("png bytes"),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored.StoragePath, "/uploads/3/attachments/"))

	rel := strings.TrimPrefix(stored.StoragePath, "/uploads/")
	onDisk := filepath.Join(p.Root(), filepath.FromSlash(rel))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	require.Equal(t, "png bytes", string(data))

	require.NoError(t, p.DeleteByStoragePath(ctx, stored.StoragePath))
	_, err = os.Stat(onDisk)
	require.True(t, os.IsNotExist(err))

	// deleting again, or deleting foreign paths, is a no-op
	require.NoError(t, p.DeleteByStoragePath(ctx, stored.StoragePath))
	require.NoError(t, p.DeleteByStoragePath(ctx, "https://storage.googleapis.com/bucket/obj.png"))
	require.NoError(t, p.DeleteByStoragePath(ctx, "/uploads/../outside.txt"))
}
