package provider

import "context"

// AttributeProvider is the boundary to the external facial-attribute
// inference capability. The contract is path-based: implementations load
// the image from disk themselves. One FaceAnalysis is returned per
// detected face; callers consume only the first. Providers are configured
// for best-effort operation where the backend supports it, so an
// undetected face yields a low-confidence result rather than an error.
type AttributeProvider interface {
	Analyze(ctx context.Context, imagePath string) ([]FaceAnalysis, error)

	// Name identifies the backend ("deepface", "rekognition", "mock").
	Name() string
}

// FaceAnalysis is the loosely-typed attribute payload for a single
// detected face, as the backend reports it. Score maps use the backend's
// native scale and are only compared relative to each other.
type FaceAnalysis struct {
	Age     int                `json:"age"`
	Gender  map[string]float64 `json:"gender"`
	Emotion map[string]float64 `json:"emotion"`
	Race    map[string]float64 `json:"race"`
	Region  Region             `json:"region"`
}

// Region is the face area within the image, in the backend's own
// coordinate convention (pixels for DeepFace, ratios for Rekognition).
type Region struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}
