package handler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register upload decoders
	_ "image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
	"github.com/saturnino-fabrica-de-software/facex/internal/search"
	"github.com/saturnino-fabrica-de-software/facex/internal/session"
)

const (
	// uploadField is the multipart field carrying the image files
	uploadField = "images"
	// maxImageSize bounds a single uploaded file (10MB)
	maxImageSize = 10 * 1024 * 1024
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Analyzer is the gateway boundary the handler depends on
type Analyzer interface {
	Analyze(ctx context.Context, rec domain.ImageRecord) (*domain.AnalysisResult, string, error)
}

// ImagesHandler drives the upload, gallery and analysis views
type ImagesHandler struct {
	store    *session.Store
	analyzer Analyzer
	logger   *slog.Logger
}

func NewImagesHandler(store *session.Store, analyzer Analyzer, logger *slog.Logger) *ImagesHandler {
	return &ImagesHandler{
		store:    store,
		analyzer: analyzer,
		logger:   logger,
	}
}

// RecordSummary is the gallery representation of one record
type RecordSummary struct {
	ID         int       `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Analyzed   bool      `json:"analyzed"`
	ImageURL   string    `json:"image_url"`
}

// RecordDetail adds the analysis payload consumed by the analysis view
type RecordDetail struct {
	RecordSummary
	Analysis    *domain.AnalysisResult `json:"analysis,omitempty"`
	SearchLinks []search.Link          `json:"search_links,omitempty"`
}

// UploadFailure reports one file of a batch that could not be accepted
type UploadFailure struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
	Reason   string `json:"reason"`
}

// UploadResponse reports the outcome of one upload batch
type UploadResponse struct {
	Added    int             `json:"added"`
	Records  []RecordSummary `json:"records"`
	Failures []UploadFailure `json:"failures,omitempty"`
}

// ListResponse is the gallery listing
type ListResponse struct {
	Count   int             `json:"count"`
	Records []RecordSummary `json:"records"`
}

// Upload handles POST /v1/images. Every file of the batch is decoded
// independently; one corrupt file never aborts the rest.
func (h *ImagesHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	files := form.File[uploadField]
	if len(files) == 0 {
		return domain.ErrBadRequest.WithError(fmt.Errorf("no files in %q field", uploadField))
	}

	resp := UploadResponse{Records: []RecordSummary{}}
	for _, file := range files {
		rec, failure := h.acceptUpload(file)
		if failure != nil {
			resp.Failures = append(resp.Failures, *failure)
			continue
		}

		id := h.store.Append(*rec)
		rec.ID = id
		resp.Added++
		resp.Records = append(resp.Records, summarize(*rec))
	}

	h.logger.Info("upload batch processed",
		slog.Int("added", resp.Added),
		slog.Int("rejected", len(resp.Failures)),
	)
	return c.JSON(resp)
}

// acceptUpload validates a single multipart file and builds its record
func (h *ImagesHandler) acceptUpload(file *multipart.FileHeader) (*domain.ImageRecord, *UploadFailure) {
	fail := func(reason string) *UploadFailure {
		return &UploadFailure{
			Filename: file.Filename,
			Code:     domain.ErrUploadDecode.Code,
			Reason:   reason,
		}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return nil, fail(fmt.Sprintf("unsupported file extension %q (jpg, jpeg, png)", ext))
	}
	if file.Size == 0 || file.Size > maxImageSize {
		return nil, fail(fmt.Sprintf("file size %d out of bounds", file.Size))
	}

	f, err := file.Open()
	if err != nil {
		return nil, fail(err.Error())
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fail(err.Error())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fail(fmt.Sprintf("not a decodable image: %v", err))
	}

	return &domain.ImageRecord{
		Filename:   file.Filename,
		UploadedAt: time.Now().UTC(),
		Data:       data,
		Format:     format,
		Width:      cfg.Width,
		Height:     cfg.Height,
	}, nil
}

// List handles GET /v1/images
func (h *ImagesHandler) List(c *fiber.Ctx) error {
	snapshot := h.store.Snapshot()

	resp := ListResponse{
		Count:   len(snapshot),
		Records: make([]RecordSummary, 0, len(snapshot)),
	}
	for _, rec := range snapshot {
		resp.Records = append(resp.Records, summarize(rec))
	}
	return c.JSON(resp)
}

// Get handles GET /v1/images/:id. Reverse-image-search links are only
// built for analyzed records; the analysis view guides the user back to
// the gallery otherwise.
func (h *ImagesHandler) Get(c *fiber.Ctx) error {
	rec, err := h.record(c)
	if err != nil {
		return err
	}

	detail := RecordDetail{
		RecordSummary: summarize(rec),
		Analysis:      rec.Analysis,
	}
	if rec.Analyzed() {
		links, err := search.Links(rec)
		if err != nil {
			h.logger.Warn("search links unavailable",
				slog.Int("record_id", rec.ID),
				slog.Any("error", err),
			)
		} else {
			detail.SearchLinks = links
		}
	}
	return c.JSON(detail)
}

// Raw handles GET /v1/images/:id/raw, serving the original upload bytes
// for gallery thumbnails and the analysis view.
func (h *ImagesHandler) Raw(c *fiber.Ctx) error {
	rec, err := h.record(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/"+rec.Format)
	return c.Send(rec.Data)
}

// Analyze handles POST /v1/images/:id/analyze. A record with an analysis
// already in flight yields 409 instead of a duplicate inference call; a
// failed analysis leaves the record unanalyzed so the gallery keeps
// offering the trigger. A session clear while the provider call runs
// invalidates the result, which then surfaces as 404.
func (h *ImagesHandler) Analyze(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	gen, err := h.store.BeginAnalysis(id)
	if err != nil {
		return err
	}
	defer h.store.EndAnalysis(id, gen)

	rec, err := h.store.Get(id)
	if err != nil {
		return err
	}

	result, artifactPath, err := h.analyzer.Analyze(c.Context(), rec)
	if err != nil {
		h.logger.Warn("analysis failed",
			slog.Int("record_id", id),
			slog.Any("error", err),
		)
		return err
	}

	if err := h.store.UpdateAnalysis(id, gen, result, artifactPath); err != nil {
		return err
	}

	updated, err := h.store.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(RecordDetail{
		RecordSummary: summarize(updated),
		Analysis:      updated.Analysis,
	})
}

func (h *ImagesHandler) record(c *fiber.Ctx) (domain.ImageRecord, error) {
	id, err := parseID(c)
	if err != nil {
		return domain.ImageRecord{}, err
	}
	return h.store.Get(id)
}

func parseID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, domain.ErrBadRequest.WithError(fmt.Errorf("invalid image id %q", c.Params("id")))
	}
	return id, nil
}

func summarize(rec domain.ImageRecord) RecordSummary {
	return RecordSummary{
		ID:         rec.ID,
		Filename:   rec.Filename,
		UploadedAt: rec.UploadedAt,
		Width:      rec.Width,
		Height:     rec.Height,
		Analyzed:   rec.Analyzed(),
		ImageURL:   fmt.Sprintf("/v1/images/%d/raw", rec.ID),
	}
}
