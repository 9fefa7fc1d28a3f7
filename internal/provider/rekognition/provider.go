package rekognition

import (
	"context"
	"fmt"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/facex/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// DetectFacesAPI is the subset of the Rekognition client this provider uses
type DetectFacesAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Provider implements provider.AttributeProvider using AWS Rekognition
// DetectFaces with the full attribute set.
//
// Rekognition has no race/ethnicity classification, so race scores carry a
// single "unspecified" category at full confidence; every other field maps
// from the FaceDetail attributes. Unlike DeepFace, the API cannot be asked
// for a best-effort result on an undetected face: zero detections surface
// as ErrNoFaceDetected.
type Provider struct {
	api DetectFacesAPI
}

// Ensure Provider implements provider.AttributeProvider at compile time
var _ provider.AttributeProvider = (*Provider)(nil)

// NewProvider creates a Rekognition provider using the AWS default
// credential chain for the configured region.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		api: rekognition.NewFromConfig(awsCfg),
	}, nil
}

// NewProviderWithAPI creates a Provider backed by an explicit API
// implementation (used in tests).
func NewProviderWithAPI(api DetectFacesAPI) *Provider {
	return &Provider{api: api}
}

func (p *Provider) Name() string {
	return "rekognition"
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(image []byte) error {
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// Analyze loads the scratch image and maps every detected face's
// attributes (age range midpoint, gender confidences, emotion confidences)
// to a FaceAnalysis.
func (p *Provider) Analyze(ctx context.Context, imagePath string) ([]provider.FaceAnalysis, error) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read scratch image: %w", err)
	}
	if err := validateImage(image); err != nil {
		return nil, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := p.api.DetectFaces(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}
	if len(output.FaceDetails) == 0 {
		return nil, ErrNoFaceDetected
	}

	faces := make([]provider.FaceAnalysis, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		faces = append(faces, toFaceAnalysis(detail))
	}
	return faces, nil
}

func toFaceAnalysis(detail types.FaceDetail) provider.FaceAnalysis {
	analysis := provider.FaceAnalysis{
		Gender:  genderScores(detail.Gender),
		Emotion: emotionScores(detail.Emotions),
		Race:    map[string]float64{"unspecified": 100.0},
	}

	if detail.AgeRange != nil && detail.AgeRange.Low != nil && detail.AgeRange.High != nil {
		analysis.Age = int(*detail.AgeRange.Low+*detail.AgeRange.High) / 2
	}
	if detail.BoundingBox != nil {
		analysis.Region = provider.Region{
			X: float64(deref(detail.BoundingBox.Left)),
			Y: float64(deref(detail.BoundingBox.Top)),
			W: float64(deref(detail.BoundingBox.Width)),
			H: float64(deref(detail.BoundingBox.Height)),
		}
	}
	return analysis
}

// genderScores converts Rekognition's single gender label + confidence
// into the two-label score map the rest of the system expects, using the
// DeepFace label vocabulary (Man/Woman).
func genderScores(gender *types.Gender) map[string]float64 {
	scores := map[string]float64{"Man": 50.0, "Woman": 50.0}
	if gender == nil || gender.Confidence == nil {
		return scores
	}

	confidence := float64(*gender.Confidence)
	switch gender.Value {
	case types.GenderTypeMale:
		scores["Man"] = confidence
		scores["Woman"] = 100.0 - confidence
	case types.GenderTypeFemale:
		scores["Woman"] = confidence
		scores["Man"] = 100.0 - confidence
	}
	return scores
}

func emotionScores(emotions []types.Emotion) map[string]float64 {
	scores := make(map[string]float64, len(emotions))
	for _, e := range emotions {
		if e.Confidence == nil {
			continue
		}
		scores[strings.ToLower(string(e.Type))] = float64(*e.Confidence)
	}
	return scores
}

func deref(v *float32) float32 {
	if v == nil {
		return 0
	}
	return *v
}
