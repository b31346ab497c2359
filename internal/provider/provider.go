package provider

import (
	"context"
	"errors"

	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
)

// ErrFaceNotDetected is returned when the model refuses to find a face where one
// is required. A successful call that finds zero faces returns an empty slice
// instead.
var ErrFaceNotDetected = errors.New("face could not be detected")

// FaceAnalyzer is the capability the service needs from an external face model.
type FaceAnalyzer interface {
	// AnalyzeEmotions detects faces in the image and scores each one over the
	// emotion vocabulary.
	AnalyzeEmotions(ctx context.Context, image []byte) ([]domain.FaceDetection, error)

	// Verify decides whether two images show the same person.
	Verify(ctx context.Context, image1, image2 []byte) (*domain.RawVerification, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}
