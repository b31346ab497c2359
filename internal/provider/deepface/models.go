package deepface

// AnalyzeRequest for POST /analyze
type AnalyzeRequest struct {
	Img              string   `json:"img"`     // base64 data URI
	Actions          []string `json:"actions"` // ["age", "gender", "emotion", "race"]
	DetectorBackend  string   `json:"detector_backend"`
	EnforceDetection bool     `json:"enforce_detection"`
	Align            bool     `json:"align"`
}

// AnalyzeResponse from POST /analyze
type AnalyzeResponse struct {
	Results []AnalyzeResult `json:"results"`
}

type AnalyzeResult struct {
	Region          FacialArea         `json:"region"`
	FaceConfidence  float64            `json:"face_confidence"`
	Emotion         map[string]float64 `json:"emotion"`
	DominantEmotion string             `json:"dominant_emotion"`
}

type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// VerifyRequest for POST /verify
type VerifyRequest struct {
	Img1             string `json:"img1"`
	Img2             string `json:"img2"`
	ModelName        string `json:"model_name"`       // "VGG-Face", "Facenet512", etc
	DetectorBackend  string `json:"detector_backend"` // "opencv", "retinaface", etc
	DistanceMetric   string `json:"distance_metric"`  // "cosine", "euclidean", "euclidean_l2"
	EnforceDetection bool   `json:"enforce_detection"`
	Align            bool   `json:"align"`
}

// VerifyResponse from POST /verify
type VerifyResponse struct {
	Verified         bool    `json:"verified"`
	Distance         float64 `json:"distance"`
	Threshold        float64 `json:"threshold"`
	Model            string  `json:"model"`
	DetectorBackend  string  `json:"detector_backend"`
	SimilarityMetric string  `json:"similarity_metric"`
	Time             float64 `json:"time"`
}

// errorResponse is the body DeepFace returns with 4xx/5xx statuses.
type errorResponse struct {
	Error string `json:"error"`
}
