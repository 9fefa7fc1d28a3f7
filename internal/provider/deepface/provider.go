package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/saturnino-fabrica-de-software/facex/internal/provider"
)

// Provider implements provider.AttributeProvider against a DeepFace API
// service. It is stateless; every call is a fresh inference request.
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

func (p *Provider) Name() string {
	return "deepface"
}

// Analyze loads the scratch image, ships it base64-encoded to the DeepFace
// /analyze endpoint and maps every returned face to a FaceAnalysis.
func (p *Provider) Analyze(ctx context.Context, imagePath string) ([]provider.FaceAnalysis, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read scratch image: %w", err)
	}

	resp, err := p.client.Analyze(ctx, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	if len(resp.Results) == 0 {
		// enforce_detection is off, so the service should always answer
		// with at least one best-effort result.
		return nil, ErrNoFaceInResponse
	}

	faces := make([]provider.FaceAnalysis, 0, len(resp.Results))
	for _, result := range resp.Results {
		faces = append(faces, provider.FaceAnalysis{
			Age:     result.Age,
			Gender:  result.Gender,
			Emotion: result.Emotion,
			Race:    result.Race,
			Region: provider.Region{
				X: float64(result.Region.X),
				Y: float64(result.Region.Y),
				W: float64(result.Region.W),
				H: float64(result.Region.H),
			},
		})
	}

	return faces, nil
}

// Ensure Provider implements provider.AttributeProvider
var _ provider.AttributeProvider = (*Provider)(nil)
