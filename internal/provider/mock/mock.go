// Package mock provides a deterministic AttributeProvider for tests and
// for running the dashboard without any inference backend.
package mock

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/saturnino-fabrica-de-software/facex/internal/provider"
)

// minImageSize cuts off inputs that cannot plausibly be an encoded image.
const minImageSize = 100

var (
	emotionLabels = []string{"angry", "disgust", "fear", "happy", "sad", "surprise", "neutral"}
	raceLabels    = []string{"asian", "indian", "black", "white", "middle eastern", "latino hispanic"}
)

// Provider implements provider.AttributeProvider with scores derived from
// a hash of the image bytes: the same image always analyzes the same way.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "mock"
}

// Analyze always reports exactly one face.
func (p *Provider) Analyze(ctx context.Context, imagePath string) ([]provider.FaceAnalysis, error) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read scratch image: %w", err)
	}
	if len(image) < minImageSize {
		return nil, fmt.Errorf("invalid image data: %d bytes", len(image))
	}

	hash := sha256.Sum256(image)
	manScore := float64(hash[0]) / 255.0 * 100.0

	return []provider.FaceAnalysis{
		{
			Age: 18 + int(hash[1])%50,
			Gender: map[string]float64{
				"Man":   manScore,
				"Woman": 100.0 - manScore,
			},
			Emotion: labelScores(emotionLabels, hash[:], 2),
			Race:    labelScores(raceLabels, hash[:], 16),
			Region: provider.Region{
				X: 0.1,
				Y: 0.1,
				W: 0.8,
				H: 0.8,
			},
		},
	}, nil
}

// labelScores derives one pseudo-confidence per label from consecutive
// hash bytes starting at offset.
func labelScores(labels []string, hash []byte, offset int) map[string]float64 {
	scores := make(map[string]float64, len(labels))
	for i, label := range labels {
		scores[label] = float64(hash[(offset+i)%len(hash)]) / 255.0 * 100.0
	}
	return scores
}

// Ensure Provider implements provider.AttributeProvider
var _ provider.AttributeProvider = (*Provider)(nil)
