package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// AnalysisData describes the attribute set attached to an analyzed image
type AnalysisData struct {
	Age             int                `json:"age" example:"31"`
	Gender          string             `json:"gender" example:"Woman"`
	DominantEmotion string             `json:"dominant_emotion" example:"happy"`
	EmotionScores   map[string]float64 `json:"emotion_scores"`
	DominantRace    string             `json:"dominant_race" example:"latino hispanic"`
	RaceScores      map[string]float64 `json:"race_scores"`
	Provider        string             `json:"provider" example:"deepface"`
	AnalyzedAt      string             `json:"analyzed_at" example:"2024-01-01T00:00:00Z"`
}

// RecordSummaryData is the gallery view of one uploaded image
type RecordSummaryData struct {
	ID         int    `json:"id" example:"0"`
	Filename   string `json:"filename" example:"portrait.jpg"`
	UploadedAt string `json:"uploaded_at" example:"2024-01-01T00:00:00Z"`
	Width      int    `json:"width" example:"640"`
	Height     int    `json:"height" example:"480"`
	Analyzed   bool   `json:"analyzed" example:"true"`
	ImageURL   string `json:"image_url" example:"/v1/images/0/raw"`
}

// SearchLinkData is one reverse-image search entry point
type SearchLinkData struct {
	Engine string `json:"engine" example:"Google"`
	URL    string `json:"url" example:"https://www.google.com/searchbyimage?image_url=data:image/png;base64,..."`
}

// RecordDetailData is the full view of one image record
type RecordDetailData struct {
	ID          int              `json:"id" example:"0"`
	Filename    string           `json:"filename" example:"portrait.jpg"`
	UploadedAt  string           `json:"uploaded_at" example:"2024-01-01T00:00:00Z"`
	Width       int              `json:"width" example:"640"`
	Height      int              `json:"height" example:"480"`
	Analyzed    bool             `json:"analyzed" example:"true"`
	ImageURL    string           `json:"image_url" example:"/v1/images/0/raw"`
	Analysis    *AnalysisData    `json:"analysis,omitempty"`
	SearchLinks []SearchLinkData `json:"search_links,omitempty"`
}

// UploadFailureData reports one file rejected during a batch upload
type UploadFailureData struct {
	Filename string `json:"filename" example:"broken.jpg"`
	Code     string `json:"code" example:"UPLOAD_DECODE_FAILURE"`
	Reason   string `json:"reason" example:"file is not a decodable image"`
}

// UploadResponseData summarizes a batch upload
type UploadResponseData struct {
	Added    int                 `json:"added" example:"2"`
	Records  []RecordSummaryData `json:"records"`
	Failures []UploadFailureData `json:"failures,omitempty"`
}

// ListResponseData is the gallery listing
type ListResponseData struct {
	Count   int                 `json:"count" example:"2"`
	Records []RecordSummaryData `json:"records"`
}

// ClearResponseData reports a session clear
type ClearResponseData struct {
	Cleared int `json:"cleared" example:"3"`
}

// HealthResponseData is the health probe payload
type HealthResponseData struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"RECORD_NOT_FOUND"`
	Message string `json:"message" example:"No image with this id in the session"`
}

// NewSwagger builds the OpenAPI document for the FaceX API
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "FaceX Analysis API",
		Version:     "v1.0.0",
		Description: "Facial attribute analysis dashboard API: upload images, run age/gender/emotion/race analysis, browse the gallery and export a PDF report",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// Images endpoints

		// POST /v1/images - Upload images
		endpoint.New(
			endpoint.POST,
			"/images",
			endpoint.WithTags("Images"),
			endpoint.WithSummary("Upload images into the session"),
			endpoint.WithDescription("Accepts one or more jpg/jpeg/png files in the 'images' multipart field. Files that fail validation are reported individually and never abort the batch."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponseData{}, "200", "Batch processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/images - List the gallery
		endpoint.New(
			endpoint.GET,
			"/images",
			endpoint.WithTags("Images"),
			endpoint.WithSummary("List all uploaded images"),
			endpoint.WithDescription("Returns every record in the session in upload order"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ListResponseData{}, "200", "Gallery listed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/images/:id - Get one record
		endpoint.New(
			endpoint.GET,
			"/images/{id}",
			endpoint.WithTags("Images"),
			endpoint.WithSummary("Get one image record"),
			endpoint.WithDescription("Returns the record with its analysis results and reverse-image search links when it has been analyzed"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Record id within the session")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecordDetailData{}, "200", "Record retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid record id"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "RECORD_NOT_FOUND", Message: "No image with this id in the session"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/images/:id/raw - Raw image bytes
		endpoint.New(
			endpoint.GET,
			"/images/{id}/raw",
			endpoint.WithTags("Images"),
			endpoint.WithSummary("Serve the original image bytes"),
			endpoint.WithDescription("Returns the uploaded file exactly as received, for gallery thumbnails and previews"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("image/png"), mime.MIME("image/jpeg")}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Record id within the session")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "200", "Image bytes"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "RECORD_NOT_FOUND", Message: "No image with this id in the session"}, "404", "Not Found"),
			}),
		),

		// POST /v1/images/:id/analyze - Run attribute analysis
		endpoint.New(
			endpoint.POST,
			"/images/{id}/analyze",
			endpoint.WithTags("Analysis"),
			endpoint.WithSummary("Analyze an image"),
			endpoint.WithDescription("Runs the configured attribute provider over the image and stores age, gender, emotion and race results on the record. Re-running replaces the previous result."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Record id within the session")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecordDetailData{}, "200", "Analysis completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "RECORD_NOT_FOUND", Message: "No image with this id in the session"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "ANALYSIS_IN_PROGRESS", Message: "An analysis for this image is already running"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "ANALYSIS_FAILURE", Message: "The analysis provider could not process the image"}, "502", "Bad Gateway"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/report - PDF report
		endpoint.New(
			endpoint.GET,
			"/report",
			endpoint.WithTags("Reports"),
			endpoint.WithSummary("Download the session report"),
			endpoint.WithDescription("Compiles every analyzed image into a PDF document and returns it as facex_report.pdf"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("application/pdf")}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "200", "PDF document"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "REPORT_GENERATION_FAILURE", Message: "The report could not be generated"}, "500", "Internal Server Error"),
			}),
		),

		// DELETE /v1/session - Clear the session
		endpoint.New(
			endpoint.DELETE,
			"/session",
			endpoint.WithTags("Session"),
			endpoint.WithSummary("Clear the session"),
			endpoint.WithDescription("Discards every uploaded image, its analysis results and any on-disk artifacts. Clearing an empty session succeeds."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClearResponseData{}, "200", "Session cleared"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
