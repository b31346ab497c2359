package domain

// RawVerification is the face verifier's answer before normalisation.
type RawVerification struct {
	Verified         bool
	Distance         float64
	Threshold        float64
	Model            string
	SimilarityMetric string
}

// VerificationOutcome is the stable verification contract returned to callers.
type VerificationOutcome struct {
	Verified         bool    `json:"verified"`
	Distance         float64 `json:"distance"`
	Threshold        float64 `json:"threshold"`
	Model            string  `json:"model"`
	SimilarityMetric string  `json:"similarity_metric"`
}
