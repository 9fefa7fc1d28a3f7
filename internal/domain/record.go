package domain

import "time"

// ImageRecord is one uploaded image in the session, keyed by its
// insertion-order ID. Records are created by the upload action, mutated only
// by the analyze action and destroyed only by an explicit session clear.
type ImageRecord struct {
	ID         int       `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`

	// Data holds the original encoded bytes as uploaded; Format is the
	// codec reported by image.Decode ("jpeg" or "png").
	Data   []byte `json:"-"`
	Format string `json:"-"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Analysis is nil until the analyze action succeeds. Re-running
	// analysis overwrites it, never appends.
	Analysis *AnalysisResult `json:"analysis,omitempty"`

	// ArtifactPath points at the on-disk scratch copy written for the
	// path-based inference service and reused for report generation.
	// Owned by the record; removed when the session is cleared.
	ArtifactPath string `json:"-"`
}

// Analyzed reports whether the record carries a completed analysis.
func (r *ImageRecord) Analyzed() bool {
	return r.Analysis != nil
}

// AnalysisResult is the strict, fully-populated attribute payload produced
// by the analysis gateway. It is either complete or absent, never partial.
type AnalysisResult struct {
	Age             int                `json:"age"`
	Gender          string             `json:"gender"`
	DominantEmotion string             `json:"dominant_emotion"`
	EmotionScores   map[string]float64 `json:"emotion_scores"`
	DominantRace    string             `json:"dominant_race"`
	RaceScores      map[string]float64 `json:"race_scores"`
	Provider        string             `json:"provider"`
	AnalyzedAt      time.Time          `json:"analyzed_at"`
}
