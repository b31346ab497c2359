package deepface

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/saturnino-fabrica-de-software/aiface/internal/affect"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider"
)

// faceNotDetectedMarker is the phrase DeepFace uses when enforce_detection
// rejects an image.
const faceNotDetectedMarker = "could not be detected"

// Provider implements provider.FaceAnalyzer using DeepFace API
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

// AnalyzeEmotions detects faces and their emotion scores
func (p *Provider) AnalyzeEmotions(ctx context.Context, image []byte) ([]domain.FaceDetection, error) {
	resp, err := p.client.Analyze(ctx, toDataURI(image))
	if err != nil {
		return nil, fmt.Errorf("analyze emotions: %w", classifyError(err))
	}

	faces := make([]domain.FaceDetection, 0, len(resp.Results))
	for _, result := range resp.Results {
		faces = append(faces, domain.FaceDetection{
			Region: domain.Region{
				X: result.Region.X,
				Y: result.Region.Y,
				W: result.Region.W,
				H: result.Region.H,
			},
			DominantEmotion: result.DominantEmotion,
			Emotions:        affect.Distribution(result.Emotion),
		})
	}

	return faces, nil
}

// Verify compares the faces found in both images
func (p *Provider) Verify(ctx context.Context, image1, image2 []byte) (*domain.RawVerification, error) {
	resp, err := p.client.Verify(ctx, toDataURI(image1), toDataURI(image2))
	if err != nil {
		return nil, fmt.Errorf("verify faces: %w", classifyError(err))
	}

	return &domain.RawVerification{
		Verified:         resp.Verified,
		Distance:         resp.Distance,
		Threshold:        resp.Threshold,
		Model:            resp.Model,
		SimilarityMetric: resp.SimilarityMetric,
	}, nil
}

// classifyError maps DeepFace's enforce_detection rejection onto
// provider.ErrFaceNotDetected and leaves every other error untouched.
func classifyError(err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && !statusErr.Temporary() &&
		strings.Contains(strings.ToLower(statusErr.Message), faceNotDetectedMarker) {
		return fmt.Errorf("%w: %s", provider.ErrFaceNotDetected, statusErr.Message)
	}
	return err
}

// toDataURI encodes the image the way DeepFace's loader expects base64 input.
func toDataURI(image []byte) string {
	mimeType := http.DetectContentType(image)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// Ensure Provider implements provider.FaceAnalyzer
var _ provider.FaceAnalyzer = (*Provider)(nil)
