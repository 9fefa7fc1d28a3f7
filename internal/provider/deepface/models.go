package deepface

// AnalyzeRequest for POST /analyze
type AnalyzeRequest struct {
	Img              string   `json:"img"` // base64 encoded image
	Actions          []string `json:"actions"`
	Detector         string   `json:"detector_backend"` // "opencv", "retinaface", ...
	EnforceDetection bool     `json:"enforce_detection"`
}

// AnalyzeResponse from POST /analyze
type AnalyzeResponse struct {
	Results []AnalyzeResult `json:"results"`
}

type AnalyzeResult struct {
	Region  FacialArea         `json:"region"`
	Age     int                `json:"age"`
	Gender  map[string]float64 `json:"gender"`
	Emotion map[string]float64 `json:"emotion"`
	Race    map[string]float64 `json:"race"`
}

type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
