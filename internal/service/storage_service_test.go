package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"workplace_training_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: root}})
	ctx := context.Background()

	url, err := s.Upload(ctx, "pdfs/guide.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/pdfs/guide.pdf", url)
	assert.FileExists(t, filepath.Join(root, "pdfs", "guide.pdf"))

	body, err := s.Open(ctx, "pdfs/guide.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	body.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	src := filepath.Join(t.TempDir(), "thumb.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg"), 0644))
	url, err = s.UploadFile(ctx, "thumbnails/a.jpg", src, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/thumbnails/a.jpg", url)

	s.Cleanup(ctx, "pdfs/guide.pdf", "", "pdfs/missing.pdf")
	assert.NoFileExists(t, filepath.Join(root, "pdfs", "guide.pdf"))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()}})

	_, err := s.Upload(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
	_, err = s.Open(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
