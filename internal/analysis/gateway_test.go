package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
	"github.com/saturnino-fabrica-de-software/facex/internal/provider"
	"github.com/saturnino-fabrica-de-software/facex/internal/scratch"
)

// stubProvider lets each test shape the provider response
type stubProvider struct {
	faces     []provider.FaceAnalysis
	err       error
	lastPath  string
	callCount int
}

func (s *stubProvider) Analyze(ctx context.Context, imagePath string) ([]provider.FaceAnalysis, error) {
	s.lastPath = imagePath
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return s.faces, nil
}

func (s *stubProvider) Name() string { return "stub" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fullFace() provider.FaceAnalysis {
	return provider.FaceAnalysis{
		Age:     34,
		Gender:  map[string]float64{"Man": 12.0, "Woman": 88.0},
		Emotion: map[string]float64{"happy": 75.0, "neutral": 20.0, "sad": 5.0},
		Race:    map[string]float64{"white": 60.0, "asian": 40.0},
	}
}

func testRecord() domain.ImageRecord {
	return domain.ImageRecord{
		ID:       0,
		Filename: "face.jpg",
		Data:     []byte("encoded-image-bytes"),
		Format:   "jpeg",
	}
}

func newGateway(t *testing.T, p provider.AttributeProvider) (*Gateway, *scratch.Dir) {
	t.Helper()
	dir, err := scratch.New(t.TempDir())
	require.NoError(t, err)
	return NewGateway(p, dir, testLogger()), dir
}

func TestGateway_AnalyzeSuccess(t *testing.T) {
	stub := &stubProvider{faces: []provider.FaceAnalysis{fullFace()}}
	gw, _ := newGateway(t, stub)

	result, artifactPath, err := gw.Analyze(context.Background(), testRecord())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 34, result.Age)
	assert.Equal(t, "Woman", result.Gender)
	assert.Equal(t, "happy", result.DominantEmotion)
	assert.Equal(t, "white", result.DominantRace)
	assert.Equal(t, "stub", result.Provider)
	assert.WithinDuration(t, time.Now(), result.AnalyzedAt, 5*time.Second)

	// The scratch copy the provider saw is kept as the record artifact.
	assert.Equal(t, stub.lastPath, artifactPath)
	data, err := os.ReadFile(artifactPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("encoded-image-bytes"), data)
}

func TestGateway_AnalyzeUsesFirstFaceOnly(t *testing.T) {
	second := fullFace()
	second.Age = 77
	stub := &stubProvider{faces: []provider.FaceAnalysis{fullFace(), second}}
	gw, _ := newGateway(t, stub)

	result, _, err := gw.Analyze(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, 34, result.Age)
}

func TestGateway_AnalyzeProviderFailure(t *testing.T) {
	stub := &stubProvider{err: errors.New("service unavailable")}
	gw, _ := newGateway(t, stub)

	_, artifactPath, err := gw.Analyze(context.Background(), testRecord())
	require.Error(t, err)
	assert.Empty(t, artifactPath)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.ErrAnalysisFailed.Code, appErr.Code)
	assert.Contains(t, err.Error(), "service unavailable")

	// Scratch copy must not leak when the analysis fails.
	_, statErr := os.Stat(stub.lastPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGateway_AnalyzeEmptyProviderResult(t *testing.T) {
	stub := &stubProvider{faces: nil}
	gw, _ := newGateway(t, stub)

	_, _, err := gw.Analyze(context.Background(), testRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoResult)
}

func TestGateway_AnalyzeRejectsIncompleteResults(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*provider.FaceAnalysis)
	}{
		{"missing age", func(f *provider.FaceAnalysis) { f.Age = 0 }},
		{"missing gender scores", func(f *provider.FaceAnalysis) { f.Gender = nil }},
		{"missing emotion scores", func(f *provider.FaceAnalysis) { f.Emotion = map[string]float64{} }},
		{"missing race scores", func(f *provider.FaceAnalysis) { f.Race = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face := fullFace()
			tt.mutate(&face)
			stub := &stubProvider{faces: []provider.FaceAnalysis{face}}
			gw, _ := newGateway(t, stub)

			_, _, err := gw.Analyze(context.Background(), testRecord())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "incomplete provider result")

			_, statErr := os.Stat(stub.lastPath)
			assert.True(t, os.IsNotExist(statErr), "scratch copy must be released")
		})
	}
}

func TestDominantLabelTieBreaksAlphabetically(t *testing.T) {
	label, err := dominantLabel(map[string]float64{"sad": 40.0, "happy": 40.0, "fear": 20.0}, "emotion")
	require.NoError(t, err)
	assert.Equal(t, "happy", label)
}
