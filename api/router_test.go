package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/app-fetch-go/api/handlers"
	"github.com/yourusername/app-fetch-go/internal/app"
	"github.com/yourusername/app-fetch-go/internal/domain"
	"github.com/yourusername/app-fetch-go/pkg/logger"
)

const installer = "installer-bytes"

// newVendorServer serves a discovery page linking to Tool-1.2.3.exe
func newVendorServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/files/readme.txt">docs</a><a href="/files/Tool-1.2.3.exe">Download</a></body></html>`)
	})
	mux.HandleFunc("/files/Tool-1.2.3.exe", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, installer)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type testServer struct {
	router   http.Handler
	services *app.Services
	dir      string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	vendor := newVendorServer(t)

	catalog := fmt.Sprintf(`apps:
  - name: Tool
    extension: exe
    discovery_url: %s/page
    pattern: 'Tool-([\d\.]+)'
    strategy: direct
    base_url: %s
    checked: true
  - name: Ghost
    extension: exe
    discovery_url: %s/page
    pattern: 'Ghost-([\d\.]+)'
    strategy: direct
    base_url: %s
`, vendor.URL, vendor.URL, vendor.URL, vendor.URL)

	root := t.TempDir()
	catalogPath := filepath.Join(root, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalog), 0644))

	config := domain.DefaultConfig()
	config.Catalog.Path = catalogPath
	config.Download.Dir = filepath.Join(root, "Apps")
	config.Download.RetryDelay = 0
	logsDir := config.Download.LogsDir()

	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: logsDir})
	require.NoError(t, err)
	t.Cleanup(func() { multiLog.Close() })

	services, err := app.NewServices(config, zap.NewNop(), multiLog)
	require.NoError(t, err)

	router := SetupRouter(services, RouterConfig{DefaultDir: config.Download.Dir, LogsDir: logsDir}, zap.NewNop(), multiLog)
	t.Cleanup(services.BatchMgr.Wait)

	return &testServer{router: router, services: services, dir: config.Download.Dir}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var health map[string]interface{}
	decode(t, w, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, float64(2), health["apps"])

	w = s.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListApps(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/apps", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var apps []domain.Application
	decode(t, w, &apps)
	require.Len(t, apps, 2)
	assert.Equal(t, "Tool", apps[0].Name)
	assert.Equal(t, "Ghost", apps[1].Name)
}

func TestResolveApp(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/apps/Tool/resolve", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res map[string]interface{}
	decode(t, w, &res)
	assert.Equal(t, true, res["found"])
	assert.Equal(t, "1.2.3", res["version"])
	assert.True(t, strings.HasSuffix(res["url"].(string), "/files/Tool-1.2.3.exe"))
	assert.Equal(t, "Tool_1.2.3.exe", res["file_name"])

	w = s.do(t, http.MethodGet, "/api/v1/apps/Ghost/resolve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, false, res["found"])

	w = s.do(t, http.MethodGet, "/api/v1/apps/Nope/resolve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBatchLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/batches/current", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/batches", handlers.StartBatchRequest{All: true})
	require.Equal(t, http.StatusAccepted, w.Code)

	var batch domain.Batch
	decode(t, w, &batch)
	assert.Equal(t, []string{"Tool", "Ghost"}, batch.Apps)

	// Cancel joins the batch; it may already have finished
	w = s.do(t, http.MethodPost, "/api/v1/batches/current/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/batches/current", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var current struct {
		Batch     domain.Batch       `json:"batch"`
		Downloads []*domain.Download `json:"downloads"`
	}
	decode(t, w, &current)
	assert.Equal(t, batch.ID, current.Batch.ID)
	assert.False(t, current.Batch.IsRunning())
	require.Len(t, current.Downloads, 2)
	assert.Equal(t, "Tool", current.Downloads[0].App)

	w = s.do(t, http.MethodGet, "/api/v1/downloads?batch_id="+batch.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var downloads []*domain.Download
	decode(t, w, &downloads)
	assert.Len(t, downloads, 2)

	w = s.do(t, http.MethodGet, "/api/v1/downloads/"+current.Downloads[0].ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/downloads/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/downloads/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats domain.DownloadStats
	decode(t, w, &stats)
	assert.Equal(t, int64(2), stats.Total)

	w = s.do(t, http.MethodDelete, "/api/v1/downloads/"+current.Downloads[1].ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/downloads/"+current.Downloads[1].ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/downloads/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartBatch_DownloadsCheckedApps(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/batches", handlers.StartBatchRequest{})
	require.Equal(t, http.StatusAccepted, w.Code)

	var batch domain.Batch
	decode(t, w, &batch)
	assert.Equal(t, []string{"Tool"}, batch.Apps)

	s.services.BatchMgr.Wait()

	data, err := os.ReadFile(filepath.Join(s.dir, "Tool_1.2.3.exe"))
	require.NoError(t, err)
	assert.Equal(t, installer, string(data))

	w = s.do(t, http.MethodGet, "/api/v1/downloads?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var downloads []*domain.Download
	decode(t, w, &downloads)
	require.Len(t, downloads, 1)
	assert.Equal(t, "1.2.3", downloads[0].Version)
	assert.Equal(t, 100, downloads[0].Percent)

	w = s.do(t, http.MethodGet, "/api/v1/logs/batch", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs struct {
		Count   int               `json:"count"`
		Entries []logger.LogEntry `json:"entries"`
	}
	decode(t, w, &logs)
	require.NotZero(t, logs.Count)
	assert.Equal(t, "batch_started", logs.Entries[0].Message)
}

func TestStartBatch_Errors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/batches", handlers.StartBatchRequest{Apps: []string{"Nope"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/batches/current/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogs_InvalidCategory(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/logs/queue", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/logs/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNoRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
