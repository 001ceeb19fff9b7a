package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"inventory-automation-service/internal/export"
	"inventory-automation-service/internal/models"
)

type fakeExportStore struct {
	files map[export.Type][]models.ExportFile
	paths map[string]string
	err   error
}

func (f *fakeExportStore) List(t export.Type) ([]models.ExportFile, error) {
	return f.files[t], f.err
}

func (f *fakeExportStore) ListAll() ([]models.ExportFile, error) {
	var all []models.ExportFile
	for _, files := range f.files {
		all = append(all, files...)
	}
	return all, f.err
}

func (f *fakeExportStore) FilePath(t export.Type, name string) (string, error) {
	if path, ok := f.paths[string(t)+"/"+name]; ok {
		return path, nil
	}
	return "", os.ErrNotExist
}

func setupExportRouter(store ExportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewExportHandler(store)

	router := gin.New()
	router.GET("/api/v1/exports", h.ListExports)
	router.GET("/api/v1/exports/:type/:name", h.DownloadExport)
	return router
}

func getRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListExportsFiltered(t *testing.T) {
	store := &fakeExportStore{files: map[export.Type][]models.ExportFile{
		export.TypeAdd: {
			{Type: "import_add", Name: "import_add_20260828_090000.csv", SizeBytes: 120, CreatedAt: time.Now()},
		},
	}}

	w := getRequest(setupExportRouter(store), "/api/v1/exports?type=import_add")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ExportListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "import_add_20260828_090000.csv", resp.Data[0].Name)
}

func TestListExportsUnknownType(t *testing.T) {
	w := getRequest(setupExportRouter(&fakeExportStore{}), "/api/v1/exports?type=bogus")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_EXPORT_TYPE", resp.Error.Code)
}

func TestListExportsEmptyIsArrayNotNull(t *testing.T) {
	w := getRequest(setupExportRouter(&fakeExportStore{}), "/api/v1/exports")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestDownloadExportStreamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import_add_20260828_090000.csv")
	assert.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	store := &fakeExportStore{paths: map[string]string{
		"import_add/import_add_20260828_090000.csv": path,
	}}

	w := getRequest(setupExportRouter(store), "/api/v1/exports/import_add/import_add_20260828_090000.csv")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a,b\n1,2\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestDownloadExportNotFound(t *testing.T) {
	w := getRequest(setupExportRouter(&fakeExportStore{}), "/api/v1/exports/import_add/missing.csv")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestDownloadExportUnknownType(t *testing.T) {
	w := getRequest(setupExportRouter(&fakeExportStore{}), "/api/v1/exports/bogus/file.csv")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
