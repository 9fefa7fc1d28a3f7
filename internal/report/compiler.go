// Package report assembles the downloadable PDF report: one page per
// analyzed image with its thumbnail, scalar attributes and an emotion bar
// visualization.
package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
)

const (
	headerTitle = "FaceX AI Analysis Report"

	pageMargin    = 15.0 // mm
	imageBoxWidth = 80.0 // mm, fixed display box for the thumbnail
	labelColWidth = 40.0 // mm, emotion label column
	barMaxWidth   = 110.0
	barHeight     = 4.0
)

type Compiler struct {
	logger *slog.Logger
}

func NewCompiler(logger *slog.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile renders the report over a session snapshot. Records without an
// analysis are silently skipped; if nothing qualifies the result is a
// valid header-only document. Identical input produces identical bytes:
// the document creation date derives from the input, not the wall clock.
func (c *Compiler) Compile(records []domain.ImageRecord) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	stamp := creationDate(records)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, headerTitle, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	// The first page always exists so an all-unanalyzed session still
	// yields an openable document.
	pdf.AddPage()

	first := true
	pages := 0
	for _, rec := range records {
		if rec.Analysis == nil {
			continue
		}
		if !first {
			pdf.AddPage()
		}
		first = false
		pages++

		if err := c.addRecordPage(pdf, rec); err != nil {
			return nil, domain.ErrReportFailed.WithError(err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, domain.ErrReportFailed.WithError(err)
	}

	c.logger.Debug("report compiled",
		slog.Int("records", len(records)),
		slog.Int("pages", pages),
		slog.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (c *Compiler) addRecordPage(pdf *fpdf.Fpdf, rec domain.ImageRecord) error {
	if err := c.addImage(pdf, rec); err != nil {
		return err
	}

	analysis := rec.Analysis
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("File: %s", rec.Filename), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Uploaded: %s", rec.UploadedAt.Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.CellFormat(0, 6, fmt.Sprintf("Age: %d", analysis.Age), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Gender: %s", analysis.Gender), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Dominant Emotion: %s", analysis.DominantEmotion), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Race: %s", analysis.DominantRace), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Emotion Distribution", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	addEmotionBars(pdf, analysis.EmotionScores)
	return nil
}

// addImage places the record's scratch artifact scaled into the fixed
// display box. The artifact can legitimately vanish between analysis and
// report generation (external cleanup); that is a report failure.
func (c *Compiler) addImage(pdf *fpdf.Fpdf, rec domain.ImageRecord) error {
	f, err := os.Open(rec.ArtifactPath)
	if err != nil {
		return fmt.Errorf("open scratch artifact for record %d: %w", rec.ID, err)
	}
	defer func() {
		_ = f.Close()
	}()

	opts := fpdf.ImageOptions{ImageType: imageType(rec.Format)}
	name := fmt.Sprintf("record-%d", rec.ID)
	info := pdf.RegisterImageOptionsReader(name, opts, f)
	if pdf.Err() {
		return fmt.Errorf("register image for record %d: %w", rec.ID, pdf.Error())
	}

	w, h := info.Extent()
	displayH := h * imageBoxWidth / w
	pdf.ImageOptions(name, pageMargin, pdf.GetY(), imageBoxWidth, displayH, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + displayH + 8)
	return nil
}

// addEmotionBars draws one horizontal bar per emotion, scaled against the
// record's own maximum score. Normalization is local to the image, not
// global across the report.
func addEmotionBars(pdf *fpdf.Fpdf, scores map[string]float64) {
	labels := make([]string, 0, len(scores))
	maxScore := 0.0
	for label, score := range scores {
		labels = append(labels, label)
		if score > maxScore {
			maxScore = score
		}
	}
	sort.Strings(labels)

	pdf.SetFillColor(76, 175, 80)
	for _, label := range labels {
		width := 0.0
		if maxScore > 0 {
			width = scores[label] / maxScore * barMaxWidth
		}

		y := pdf.GetY()
		pdf.CellFormat(labelColWidth, 5, label, "", 0, "L", false, 0, "")
		pdf.Rect(pageMargin+labelColWidth, y+0.5, width, barHeight, "F")
		pdf.Ln(6)
	}
}

// creationDate derives the embedded PDF creation date from the newest
// upload so the same snapshot always serializes to the same bytes.
func creationDate(records []domain.ImageRecord) time.Time {
	var latest time.Time
	for _, rec := range records {
		if rec.Analysis != nil && rec.UploadedAt.After(latest) {
			latest = rec.UploadedAt
		}
	}
	if latest.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return latest.UTC()
}

func imageType(format string) string {
	switch format {
	case "jpeg":
		return "JPG"
	case "png":
		return "PNG"
	default:
		return ""
	}
}
