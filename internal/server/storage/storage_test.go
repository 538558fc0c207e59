package storage

import (
	"context"
	"net/url"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageBackend = backend
	return cfg
}

func TestNewResumeKey(t *testing.T) {
	now := time.Date(2025, 3, 7, 23, 59, 0, 0, time.UTC)

	a := NewResumeKey(now)
	b := NewResumeKey(now)

	assert.Regexp(t, regexp.MustCompile(`^resumes/2025/03/07/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`), a)
	assert.NotEqual(t, a, b)
}

func TestContentDisposition(t *testing.T) {
	assert.Empty(t, contentDisposition(""))
	assert.Equal(t, "attachment; filename=cv.pdf", contentDisposition("cv.pdf"))
	assert.Equal(t, `attachment; filename="my cv.pdf"`, contentDisposition("my cv.pdf"))
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		host    string
		secure  bool
		wantErr bool
	}{
		{in: "http://127.0.0.1:9000/", host: "127.0.0.1:9000"},
		{in: "https://s3.example.com", host: "s3.example.com", secure: true},
		{in: "127.0.0.1:9000", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, secure, err := splitEndpoint(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig(t, "ftp")

	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestS3Store_PresignGetOffline(t *testing.T) {
	cfg := testConfig(t, config.StorageS3)

	store, err := NewS3Store(context.Background(), cfg)
	require.NoError(t, err)

	raw, err := store.PresignGet(context.Background(), "resumes/2025/01/01/abc", 15*time.Minute, "cv.pdf")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/resumes/resumes/2025/01/01/abc", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, "attachment; filename=cv.pdf", u.Query().Get("response-content-disposition"))
}

func TestMinioStore_PresignGetOffline(t *testing.T) {
	cfg := testConfig(t, config.StorageMinio)

	client, err := newMinioClient(cfg)
	require.NoError(t, err)
	store := &MinioStore{bucket: cfg.S3Bucket, client: client}

	raw, err := store.PresignGet(context.Background(), "resumes/2025/01/01/abc", time.Hour, "")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.Empty(t, u.Query().Get("response-content-disposition"))
}
