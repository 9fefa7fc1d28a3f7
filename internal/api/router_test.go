package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facex/internal/analysis"
	"github.com/saturnino-fabrica-de-software/facex/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/facex/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/facex/internal/report"
	"github.com/saturnino-fabrica-de-software/facex/internal/scratch"
	"github.com/saturnino-fabrica-de-software/facex/internal/session"
)

// newTestRouter wires the full stack against the deterministic mock
// provider and a throwaway scratch directory.
func newTestRouter(t *testing.T) *Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir, err := scratch.New(t.TempDir())
	require.NoError(t, err)

	router := NewRouter(logger, &Dependencies{
		Store:    session.NewStore(),
		Analyzer: analysis.NewGateway(mock.New(), dir, logger),
		Compiler: report.NewCompiler(logger),
	})
	router.Setup()
	return router
}

func pngUpload(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		img.Set(x, x, color.RGBA{R: uint8(x * 8), A: 255})
	}
	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, img))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("images", filename)
	require.NoError(t, err)
	_, err = part.Write(encoded.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)
	app := router.App()

	// Upload
	body, contentType := pngUpload(t, "portrait.png")
	req := httptest.NewRequest("POST", "/v1/images", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var uploaded handler.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	require.Equal(t, 1, uploaded.Added)
	id := uploaded.Records[0].ID

	// Analyze through the real gateway
	resp, err = app.Test(httptest.NewRequest("POST", "/v1/images/0/analyze", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var detail handler.RecordDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Equal(t, id, detail.ID)
	require.NotNil(t, detail.Analysis)
	assert.Greater(t, detail.Analysis.Age, 0)
	assert.NotEmpty(t, detail.Analysis.DominantEmotion)
	assert.Len(t, detail.SearchLinks, 4)

	// Report carries the analyzed record
	resp, err = app.Test(httptest.NewRequest("GET", "/v1/report", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="facex_report.pdf"`, resp.Header.Get("Content-Disposition"))

	doc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	// Clear and verify the gallery is empty
	resp, err = app.Test(httptest.NewRequest("DELETE", "/v1/session", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/images", nil))
	require.NoError(t, err)

	var listed handler.ListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Equal(t, 0, listed.Count)
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestRouter(t).App()

	for _, path := range []string{"/health", "/ready"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestDashboardServed(t *testing.T) {
	app := newTestRouter(t).App()

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(page), "FaceX"))
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	app := newTestRouter(t).App()

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var got struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "HTTP_ERROR", got.Error.Code)
}
