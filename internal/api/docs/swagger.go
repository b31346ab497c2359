package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// Region is the pixel bounding box of the analysed face
type Region struct {
	X int `json:"x" example:"120"`
	Y int `json:"y" example:"80"`
	W int `json:"w" example:"210"`
	H int `json:"h" example:"210"`
}

// AnalyzeDetectedResponse is returned when exactly one face was found
type AnalyzeDetectedResponse struct {
	Status          string             `json:"status" example:"success"`
	Result          string             `json:"result" example:"Detected"`
	Region          Region             `json:"region"`
	DominantEmotion string             `json:"dominant_emotion" example:"happy"`
	Emotions        map[string]float64 `json:"emotions"`
	AvgValence      float64            `json:"avg_valence" example:"0.776"`
	AvgArousal      float64            `json:"avg_arousal" example:"0.587"`
	InferredState   string             `json:"inferred_state" example:"Confident"`
}

// AnalyzeNotDetectedResponse is returned when the model found no face
type AnalyzeNotDetectedResponse struct {
	Status string `json:"status" example:"success"`
	Result string `json:"result" example:"NotDetected"`
}

// AnalyzeMultipleFacesResponse is returned when more than one face was found
type AnalyzeMultipleFacesResponse struct {
	Status string `json:"status" example:"warning"`
	Result string `json:"result" example:"MultipleFacesDetected"`
	Count  int    `json:"count" example:"2"`
}

// VerifyFaceResponse represents the response for face verification
type VerifyFaceResponse struct {
	Status           string  `json:"status" example:"success"`
	Verified         bool    `json:"verified" example:"true"`
	Distance         float64 `json:"distance" example:"0.2143"`
	Threshold        float64 `json:"threshold" example:"0.68"`
	Model            string  `json:"model" example:"VGG-Face"`
	SimilarityMetric string  `json:"similarity_metric" example:"cosine"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Code    string `json:"code" example:"NO_FILE_UPLOADED"`
	Message string `json:"message" example:"No file uploaded"`
}

// HealthResponse represents health and readiness responses
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Version  string `json:"version,omitempty" example:"0.1.0"`
	Provider string `json:"provider,omitempty" example:"deepface"`
}

func NewSwagger(host string) *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "aiface API",
		Version:     "v1.0.0",
		Description: "Infers a continuous affective state (valence, arousal, mental state) from the emotions of a single face, and verifies faces against a reference image",
		Host:        host,
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /analyze
		endpoint.New(
			endpoint.POST,
			"/analyze",
			endpoint.WithTags("Analysis"),
			endpoint.WithSummary("Infer the affective state of a face"),
			endpoint.WithDescription("Multipart upload with file field `image`. Emotions of a single detected face are projected to valence/arousal and classified into Confident, Anxious, Stressed, Relaxed, Focused, Distracted or Mixed. No face yields NotDetected; several faces yield a warning with the count."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AnalyzeDetectedResponse{}, "200", "Analysis completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Status: "error", Code: "NO_FILE_UPLOADED", Message: "No file uploaded"}, "400", "Bad Request"),
				response.New(ErrorResponse{Status: "error", Code: "IMAGE_TOO_LARGE", Message: "Image exceeds the maximum allowed size"}, "413", "Payload Too Large"),
				response.New(ErrorResponse{Status: "error", Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Status: "error", Code: "FACE_NOT_DETECTED", Message: "Face could not be detected in the image"}, "500", "Internal Server Error"),
			}),
		),

		// POST /verify-face
		endpoint.New(
			endpoint.POST,
			"/verify-face",
			endpoint.WithTags("Verification"),
			endpoint.WithSummary("Verify a face against a reference image URL"),
			endpoint.WithDescription("Multipart upload with file field `image_file` and text field `image_url`. The reference is downloaded first; a non-200 answer is reported as a client error."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerifyFaceResponse{}, "200", "Verification completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Status: "error", Code: "MISSING_INPUT", Message: "Both image_file and image_url are required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Status: "error", Code: "REFERENCE_FETCH_FAILED", Message: "Failed to fetch image from URL"}, "400", "Bad Request"),
				response.New(ErrorResponse{Status: "error", Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "500", "Internal Server Error"),
			}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{Status: "ready"}, "200", "Service is ready"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
