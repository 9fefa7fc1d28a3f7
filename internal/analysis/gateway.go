// Package analysis wraps the external facial-attribute inference
// capability behind a synchronous gateway. The gateway owns the conversion
// from the provider's loosely-typed payload into the strict
// domain.AnalysisResult the rest of the system relies on.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
	"github.com/saturnino-fabrica-de-software/facex/internal/provider"
	"github.com/saturnino-fabrica-de-software/facex/internal/scratch"
)

var errNoResult = errors.New("provider returned no result")

type Gateway struct {
	provider provider.AttributeProvider
	scratch  *scratch.Dir
	logger   *slog.Logger
}

func NewGateway(p provider.AttributeProvider, dir *scratch.Dir, logger *slog.Logger) *Gateway {
	return &Gateway{
		provider: p,
		scratch:  dir,
		logger:   logger,
	}
}

// Analyze runs the attribute model against the record's image. The scratch
// copy written for the path-based service contract is kept on success and
// returned as the record's artifact path (the report compiler reads it
// later); on any failure it is released and the record stays unanalyzed.
//
// When the provider reports several faces only the first is consumed;
// multi-face images are not fully supported.
func (g *Gateway) Analyze(ctx context.Context, rec domain.ImageRecord) (*domain.AnalysisResult, string, error) {
	path, err := g.scratch.Write(rec.Data, rec.Format)
	if err != nil {
		return nil, "", domain.ErrAnalysisFailed.WithError(err)
	}

	faces, err := g.provider.Analyze(ctx, path)
	if err != nil {
		g.release(path)
		return nil, "", domain.ErrAnalysisFailed.WithError(err)
	}
	if len(faces) == 0 {
		g.release(path)
		return nil, "", domain.ErrAnalysisFailed.WithError(errNoResult)
	}
	if len(faces) > 1 {
		g.logger.Debug("multiple faces detected, using first",
			slog.Int("record_id", rec.ID),
			slog.Int("faces", len(faces)),
		)
	}

	result, err := toResult(faces[0], g.provider.Name())
	if err != nil {
		g.release(path)
		return nil, "", domain.ErrAnalysisFailed.WithError(err)
	}

	return result, path, nil
}

func (g *Gateway) release(path string) {
	if err := g.scratch.Remove(path); err != nil {
		g.logger.Warn("scratch cleanup failed", slog.String("path", path), slog.Any("error", err))
	}
}

// toResult converts a provider payload into a strict AnalysisResult. A
// payload missing any expected attribute is rejected here, at the
// boundary, instead of propagating a partial result through the system.
func toResult(face provider.FaceAnalysis, providerName string) (*domain.AnalysisResult, error) {
	if face.Age <= 0 {
		return nil, fmt.Errorf("incomplete provider result: missing age")
	}

	gender, err := dominantLabel(face.Gender, "gender")
	if err != nil {
		return nil, err
	}
	emotion, err := dominantLabel(face.Emotion, "emotion")
	if err != nil {
		return nil, err
	}
	race, err := dominantLabel(face.Race, "race")
	if err != nil {
		return nil, err
	}

	return &domain.AnalysisResult{
		Age:             face.Age,
		Gender:          gender,
		DominantEmotion: emotion,
		EmotionScores:   face.Emotion,
		DominantRace:    race,
		RaceScores:      face.Race,
		Provider:        providerName,
		AnalyzedAt:      time.Now().UTC(),
	}, nil
}

// dominantLabel picks the highest-scoring label of a non-empty score map.
func dominantLabel(scores map[string]float64, field string) (string, error) {
	if len(scores) == 0 {
		return "", fmt.Errorf("incomplete provider result: missing %s scores", field)
	}

	var (
		best      string
		bestScore float64
		first     = true
	)
	for label, score := range scores {
		// Ties resolve alphabetically so the pick does not depend on map
		// iteration order.
		if first || score > bestScore || (score == bestScore && label < best) {
			best = label
			bestScore = score
			first = false
		}
	}
	return best, nil
}
