package handlers_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdminh/imagebatch/internal/config"
	"github.com/pdminh/imagebatch/internal/handlers"
	"github.com/pdminh/imagebatch/internal/services/processor"
	"github.com/pdminh/imagebatch/server/routes"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Encoding: config.EncodingConfig{MaxDimension: 1200, TargetFormat: "jpeg", Quality: 0.8},
		Batch:    config.BatchConfig{Workers: 2},
		Intake:   config.IntakeConfig{MaxFileSize: 10 * 1024 * 1024},
	}
	h := handlers.NewBatchHandler(processor.NewImageProcessor(), nil, nil, nil, zap.NewNop(), cfg)
	return routes.NewRouter(h, zap.NewNop()).SetupRoutes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	fields := make(map[string]json.RawMessage)
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		if len(envelope.Data) > 0 {
			require.NoError(t, json.Unmarshal(envelope.Data, &fields))
		}
	}
	return rec, fields
}

func createBatch(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec, fields := doJSON(t, router, http.MethodPost, "/api/v1/batches", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var id string
	require.NoError(t, json.Unmarshal(fields["batch_id"], &id))
	require.NotEmpty(t, id)
	return id
}

func uploadImages(t *testing.T, router *gin.Engine, batchID string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/"+batchID+"/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBatchConversionFlow(t *testing.T) {
	router := newTestRouter()
	batchID := createBatch(t, router)

	rec := uploadImages(t, router, batchID, map[string][]byte{
		"wide-a.jpeg": jpegBytes(t, 2000, 1000),
		"wide-b.jpeg": jpegBytes(t, 2000, 1000),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, fields := doJSON(t, router, http.MethodPost, "/api/v1/batches/"+batchID+"/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome string
	require.NoError(t, json.Unmarshal(fields["outcome"], &outcome))
	require.Equal(t, "all_succeeded", outcome)

	var summary struct {
		Done   int `json:"done"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(fields["summary"], &summary))
	require.Equal(t, 2, summary.Done)
	require.Zero(t, summary.Failed)

	// Download and inspect the archive.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batchID+"/archive", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "converted_images.zip")

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.ElementsMatch(t, []string{"wide-a.jpg", "wide-b.jpg"}, names)
}

func TestIntakeRejectsNonImages(t *testing.T) {
	router := newTestRouter()
	batchID := createBatch(t, router)

	rec := uploadImages(t, router, batchID, map[string][]byte{
		"ok.jpeg":    jpegBytes(t, 100, 100),
		"garbage.js": []byte("alert('not an image')"),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Accepted []json.RawMessage `json:"accepted"`
			Rejected []json.RawMessage `json:"rejected"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Accepted, 1)
	require.Len(t, envelope.Data.Rejected, 1)
}

func TestRunWithPolicyOverride(t *testing.T) {
	router := newTestRouter()
	batchID := createBatch(t, router)
	uploadImages(t, router, batchID, map[string][]byte{"a.jpeg": jpegBytes(t, 2000, 1000)})

	body := []byte(`{"max_dimension": 500}`)
	rec, fields := doJSON(t, router, http.MethodPost, "/api/v1/batches/"+batchID+"/run", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []struct {
		Status     string `json:"status"`
		OutputSize int    `json:"output_size"`
	}
	require.NoError(t, json.Unmarshal(fields["items"], &items))
	require.Len(t, items, 1)
	require.Equal(t, "done", items[0].Status)
	require.Positive(t, items[0].OutputSize)
}

// A run with an overridden target format must produce archive entries
// whose extensions match the bytes actually encoded, not the configured
// default.
func TestArchiveEntryMatchesOverriddenFormat(t *testing.T) {
	router := newTestRouter()
	batchID := createBatch(t, router)
	uploadImages(t, router, batchID, map[string][]byte{"pic.jpeg": jpegBytes(t, 400, 300)})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/batches/"+batchID+"/run", []byte(`{"target_format": "png"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batchID+"/archive", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	require.Equal(t, "pic.png", zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	magic := make([]byte, 8)
	_, err = io.ReadFull(rc, magic)
	require.NoError(t, err)
	require.Equal(t, []byte("\x89PNG\r\n\x1a\n"), magic)
}

func TestRunRejectsBadOverride(t *testing.T) {
	router := newTestRouter()
	batchID := createBatch(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/batches/"+batchID+"/run", []byte(`{"quality": 3}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/batches/"+batchID+"/run", []byte(`{"target_format": "heic"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownBatch(t *testing.T) {
	router := newTestRouter()

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/batches/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/batches/nope/run", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyBatchArchiveIsValid(t *testing.T) {
	router := newTestRouter()
	batchID := createBatch(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batchID+"/archive", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Empty(t, zr.File)
}
