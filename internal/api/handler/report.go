package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
	"github.com/saturnino-fabrica-de-software/facex/internal/session"
)

const reportFilename = "facex_report.pdf"

// Compiler is the report boundary the handler depends on
type Compiler interface {
	Compile(records []domain.ImageRecord) ([]byte, error)
}

// ReportHandler drives the reports view
type ReportHandler struct {
	store    *session.Store
	compiler Compiler
	logger   *slog.Logger
}

func NewReportHandler(store *session.Store, compiler Compiler, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		store:    store,
		compiler: compiler,
		logger:   logger,
	}
}

// Generate handles GET /v1/report. The compiler runs over a snapshot of
// the whole session; on failure no partial document is offered.
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	doc, err := h.compiler.Compile(h.store.Snapshot())
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+reportFilename+`"`)
	return c.Send(doc)
}
