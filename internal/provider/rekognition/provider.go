package rekognition

import (
	"context"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/aiface/internal/affect"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
	"github.com/saturnino-fabrica-de-software/aiface/internal/imaging"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024

	modelName        = "AWS Rekognition"
	similarityMetric = "similarity"

	// confused has no valence/arousal coordinate and is ignored by the aggregator.
	emotionConfused = "confused"
)

var emotionNames = map[types.EmotionName]string{
	types.EmotionNameHappy:     affect.EmotionHappy,
	types.EmotionNameAngry:     affect.EmotionAngry,
	types.EmotionNameSad:       affect.EmotionSad,
	types.EmotionNameFear:      affect.EmotionFear,
	types.EmotionNameDisgusted: affect.EmotionDisgust,
	types.EmotionNameSurprised: affect.EmotionSurprise,
	types.EmotionNameCalm:      affect.EmotionNeutral,
	types.EmotionNameConfused:  emotionConfused,
}

// Provider implements provider.FaceAnalyzer using AWS Rekognition
type Provider struct {
	client *Client
}

var _ provider.FaceAnalyzer = (*Provider)(nil)

func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}

	return &Provider{client: client}, nil
}

func (p *Provider) Name() string {
	return "rekognition"
}

func validateImage(image []byte) error {
	if len(image) == 0 {
		return fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// AnalyzeEmotions returns one detection per face. An image without faces yields
// an empty slice, not an error.
func (p *Provider) AnalyzeEmotions(ctx context.Context, image []byte) ([]domain.FaceDetection, error) {
	if err := validateImage(image); err != nil {
		return nil, err
	}

	info, err := imaging.Inspect(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	output, err := p.client.rekognition.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: image},
		Attributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		return nil, mapAPIError("detect faces", err)
	}

	faces := make([]domain.FaceDetection, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		emotions, dominant := toDistribution(detail.Emotions)
		faces = append(faces, domain.FaceDetection{
			Region:          toRegion(detail.BoundingBox, info.Width, info.Height),
			DominantEmotion: dominant,
			Emotions:        emotions,
		})
	}

	return faces, nil
}

// Verify compares the most prominent face of each image. Rekognition reports
// similarity, so distance and threshold are expressed as 1 - similarity.
func (p *Provider) Verify(ctx context.Context, image1, image2 []byte) (*domain.RawVerification, error) {
	if err := validateImage(image1); err != nil {
		return nil, fmt.Errorf("source image: %w", err)
	}
	if err := validateImage(image2); err != nil {
		return nil, fmt.Errorf("target image: %w", err)
	}

	// Threshold zero so a non-matching pair still reports its similarity.
	output, err := p.client.rekognition.CompareFaces(ctx, &rekognition.CompareFacesInput{
		SourceImage:         &types.Image{Bytes: image1},
		TargetImage:         &types.Image{Bytes: image2},
		SimilarityThreshold: aws.Float32(0),
	})
	if err != nil {
		return nil, mapAPIError("compare faces", err)
	}

	if len(output.FaceMatches) == 0 && len(output.UnmatchedFaces) == 0 {
		return nil, fmt.Errorf("compare faces: target image: %w", provider.ErrFaceNotDetected)
	}

	var similarity float64
	for _, match := range output.FaceMatches {
		if s := float64(aws.ToFloat32(match.Similarity)) / 100; s > similarity {
			similarity = s
		}
	}

	threshold := p.client.config.SimilarityThreshold
	return &domain.RawVerification{
		Verified:         similarity >= threshold,
		Distance:         1 - similarity,
		Threshold:        1 - threshold,
		Model:            modelName,
		SimilarityMetric: similarityMetric,
	}, nil
}

func toDistribution(emotions []types.Emotion) (affect.Distribution, string) {
	dist := make(affect.Distribution, len(emotions))
	var (
		dominant string
		best     = -1.0
	)

	for _, e := range emotions {
		name, ok := emotionNames[e.Type]
		if !ok {
			continue
		}
		score := float64(aws.ToFloat32(e.Confidence))
		dist[name] = score
		if score > best {
			best = score
			dominant = name
		}
	}

	return dist, dominant
}

// toRegion converts Rekognition's ratio bounding box into pixels.
func toRegion(box *types.BoundingBox, width, height int) domain.Region {
	if box == nil {
		return domain.Region{}
	}

	w, h := float64(width), float64(height)
	return domain.Region{
		X: int(math.Round(float64(aws.ToFloat32(box.Left)) * w)),
		Y: int(math.Round(float64(aws.ToFloat32(box.Top)) * h)),
		W: int(math.Round(float64(aws.ToFloat32(box.Width)) * w)),
		H: int(math.Round(float64(aws.ToFloat32(box.Height)) * h)),
	}
}
