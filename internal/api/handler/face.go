package handler

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/aiface/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
	"github.com/saturnino-fabrica-de-software/aiface/internal/service"
)

const (
	defaultMaxImageSize   = 10 * 1024 * 1024 // 10MB
	defaultRequestTimeout = 60 * time.Second

	affectPrecision = 3
)

// FaceService interface for the service
type FaceService interface {
	Analyze(ctx context.Context, image []byte) (*domain.AnalysisOutcome, error)
	VerifyFace(ctx context.Context, image []byte, imageURL string) (*domain.VerificationOutcome, error)
}

type Config struct {
	MaxImageSize   int64
	RequestTimeout time.Duration
}

// FaceHandler handles face-related requests
type FaceHandler struct {
	service FaceService
	logger  *slog.Logger
	config  Config
}

func NewFaceHandler(service FaceService, logger *slog.Logger, cfg Config) *FaceHandler {
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = defaultMaxImageSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return &FaceHandler{
		service: service,
		logger:  logger,
		config:  cfg,
	}
}

// AnalyzeResponse is the body of a successful analysis. Which fields are set
// depends on the result; a Detected response always carries region,
// dominant_emotion and emotions, even when they are empty.
type AnalyzeResponse struct {
	Status          string              `json:"status"`
	Result          string              `json:"result"`
	Count           int                 `json:"count,omitempty"`
	Region          *domain.Region      `json:"region,omitempty"`
	DominantEmotion *string             `json:"dominant_emotion,omitempty"`
	Emotions        *map[string]float64 `json:"emotions,omitempty"`
	AvgValence      *float64            `json:"avg_valence,omitempty"`
	AvgArousal      *float64            `json:"avg_arousal,omitempty"`
	InferredState   string              `json:"inferred_state,omitempty"`
}

// VerifyResponse response for verify endpoint
type VerifyResponse struct {
	Status           string  `json:"status"`
	Verified         bool    `json:"verified"`
	Distance         float64 `json:"distance"`
	Threshold        float64 `json:"threshold"`
	Model            string  `json:"model"`
	SimilarityMetric string  `json:"similarity_metric"`
}

// NewAnalyzeResponse renders an outcome; valence and arousal are rounded here
// and nowhere else.
func NewAnalyzeResponse(outcome domain.AnalysisOutcome) AnalyzeResponse {
	switch outcome.Kind {
	case domain.OutcomeMultipleFaces:
		return AnalyzeResponse{
			Status: "warning",
			Result: string(outcome.Kind),
			Count:  outcome.Count,
		}

	case domain.OutcomeDetected:
		face := outcome.Face
		region := face.Region
		dominant := face.DominantEmotion
		emotions := map[string]float64(face.Emotions)
		if emotions == nil {
			emotions = map[string]float64{}
		}
		valence := service.Round(face.Affect.Valence, affectPrecision)
		arousal := service.Round(face.Affect.Arousal, affectPrecision)

		return AnalyzeResponse{
			Status:          "success",
			Result:          string(outcome.Kind),
			Region:          &region,
			DominantEmotion: &dominant,
			Emotions:        &emotions,
			AvgValence:      &valence,
			AvgArousal:      &arousal,
			InferredState:   string(face.State),
		}

	default:
		return AnalyzeResponse{
			Status: "success",
			Result: string(domain.OutcomeNotDetected),
		}
	}
}

// Analyze POST /analyze - infer the affective state of the single face in an image
func (h *FaceHandler) Analyze(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return domain.ErrNoFileUploaded
	}

	imageBytes, err := h.readImage(file)
	if err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	outcome, err := h.service.Analyze(ctx, imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(NewAnalyzeResponse(*outcome))
}

// VerifyFace POST /verify-face - compare an uploaded image with one fetched from a URL
func (h *FaceHandler) VerifyFace(c *fiber.Ctx) error {
	imageURL := c.FormValue("image_url")
	file, err := c.FormFile("image_file")
	if err != nil || imageURL == "" {
		return domain.ErrVerifyInputRequired
	}

	imageBytes, err := h.readImage(file)
	if err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	verification, err := h.service.VerifyFace(ctx, imageBytes, imageURL)
	if err != nil {
		return err
	}

	return c.JSON(VerifyResponse{
		Status:           "success",
		Verified:         verification.Verified,
		Distance:         verification.Distance,
		Threshold:        verification.Threshold,
		Model:            verification.Model,
		SimilarityMetric: verification.SimilarityMetric,
	})
}

func (h *FaceHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx := service.WithRequestID(c.UserContext(), middleware.RequestID(c))
	return context.WithTimeout(ctx, h.config.RequestTimeout)
}

// readImage enforces the size cap; decoding is checked by the service.
func (h *FaceHandler) readImage(file *multipart.FileHeader) ([]byte, error) {
	if file.Size > h.config.MaxImageSize {
		return nil, domain.ErrImageTooLarge
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
