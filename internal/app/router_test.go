package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRoutesHideCertificates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	for _, name := range []string{
		filepath.Join(util.DirPdfs, "guide.pdf"),
		filepath.Join(util.DirCertificates, "CERT-ABCDEF12.pdf"),
	} {
		full := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("%PDF-1.4"), 0644))
	}

	router := gin.New()
	registerUploadRoutes(router, root)

	get := func(path string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/uploads/pdfs/guide.pdf"))
	assert.Equal(t, http.StatusNotFound, get("/uploads/certificates/CERT-ABCDEF12.pdf"))
}
