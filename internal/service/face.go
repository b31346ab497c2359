package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/aiface/internal/audit"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
	"github.com/saturnino-fabrica-de-software/aiface/internal/fetch"
	"github.com/saturnino-fabrica-de-software/aiface/internal/imaging"
	"github.com/saturnino-fabrica-de-software/aiface/internal/metrics"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider"
)

// ReferenceFetcher downloads the reference image for verification.
type ReferenceFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type FaceService struct {
	analyzer    provider.FaceAnalyzer
	fetcher     ReferenceFetcher
	metrics     *metrics.Metrics
	auditLogger audit.Logger
	logger      *slog.Logger
}

type Option func(*FaceService)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *FaceService) {
		s.metrics = m
	}
}

func WithAuditLogger(l audit.Logger) Option {
	return func(s *FaceService) {
		s.auditLogger = l
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *FaceService) {
		s.logger = l
	}
}

func NewFaceService(analyzer provider.FaceAnalyzer, fetcher ReferenceFetcher, opts ...Option) *FaceService {
	s := &FaceService{
		analyzer:    analyzer,
		fetcher:     fetcher,
		auditLogger: &audit.NoOpLogger{},
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze detects faces in image and, when exactly one is found, infers its
// affective state.
func (s *FaceService) Analyze(ctx context.Context, image []byte) (*domain.AnalysisOutcome, error) {
	start := time.Now()

	if _, err := imaging.Inspect(image); err != nil {
		appErr := domain.ErrInvalidImage.WithError(err)
		s.auditAnalysis(ctx, nil, appErr, time.Since(start))
		return nil, appErr
	}

	callStart := time.Now()
	detections, err := s.analyzer.AnalyzeEmotions(ctx, image)
	s.metrics.ObserveProviderDuration("analyze", time.Since(callStart))
	if err != nil {
		appErr := mapProviderError(fmt.Errorf("analyze emotions: %w", err))
		s.auditAnalysis(ctx, nil, appErr, time.Since(start))
		return nil, appErr
	}

	outcome := ResolveFaces(detections)

	s.metrics.ObserveAnalysis(string(outcome.Kind))
	if outcome.Face != nil {
		s.metrics.ObserveState(string(outcome.Face.State))
	}
	s.auditAnalysis(ctx, &outcome, nil, time.Since(start))

	return &outcome, nil
}

// VerifyFace compares the uploaded image with the image at imageURL. The
// reference is fetched before any model call; a non-200 answer is a client error.
func (s *FaceService) VerifyFace(ctx context.Context, image []byte, imageURL string) (*domain.VerificationOutcome, error) {
	start := time.Now()

	if len(image) == 0 || imageURL == "" {
		return nil, domain.ErrVerifyInputRequired
	}

	reference, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		var appErr *domain.AppError
		if errors.Is(err, fetch.ErrUnexpectedStatus) {
			appErr = domain.ErrReferenceFetchFailed.WithError(err)
		} else {
			appErr = domain.ErrInternal.WithError(err)
		}
		s.auditVerification(ctx, nil, appErr, time.Since(start))
		return nil, appErr
	}

	for _, img := range [][]byte{image, reference} {
		if _, err := imaging.Inspect(img); err != nil {
			appErr := domain.ErrInvalidImage.WithError(err)
			s.auditVerification(ctx, nil, appErr, time.Since(start))
			return nil, appErr
		}
	}

	callStart := time.Now()
	raw, err := s.analyzer.Verify(ctx, image, reference)
	s.metrics.ObserveProviderDuration("verify", time.Since(callStart))
	if err != nil {
		appErr := mapProviderError(fmt.Errorf("verify: %w", err))
		s.auditVerification(ctx, nil, appErr, time.Since(start))
		return nil, appErr
	}

	outcome := NormalizeVerification(*raw)

	s.metrics.ObserveVerification(outcome.Verified)
	s.auditVerification(ctx, &outcome, nil, time.Since(start))

	return &outcome, nil
}

// mapProviderError keeps a model-raised detection failure distinct from a
// successful call that found no face.
func mapProviderError(err error) *domain.AppError {
	switch {
	case errors.Is(err, provider.ErrFaceNotDetected):
		return domain.ErrFaceNotDetected.WithError(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.ErrProviderUnavailable.WithError(err)
	default:
		return domain.ErrInternal.WithError(err)
	}
}

func (s *FaceService) auditAnalysis(ctx context.Context, outcome *domain.AnalysisOutcome, err error, elapsed time.Duration) {
	event := audit.Event{
		RequestID: RequestIDFromContext(ctx),
		EventType: audit.EventFaceAnalyzed,
		Provider:  s.analyzer.Name(),
		Success:   err == nil,
		Duration:  elapsed,
	}

	if outcome != nil {
		event.Outcome = string(outcome.Kind)
		switch {
		case outcome.Face != nil:
			event.State = string(outcome.Face.State)
			event.Metadata = map[string]string{"dominant_emotion": outcome.Face.DominantEmotion}
		case outcome.Kind == domain.OutcomeMultipleFaces:
			event.Metadata = map[string]string{"count": fmt.Sprint(outcome.Count)}
		}
	}
	if err != nil {
		event.Error = err.Error()
	}

	if logErr := s.auditLogger.Log(ctx, event); logErr != nil {
		s.logger.WarnContext(ctx, "audit log failed", "error", logErr)
	}
}

func (s *FaceService) auditVerification(ctx context.Context, outcome *domain.VerificationOutcome, err error, elapsed time.Duration) {
	event := audit.Event{
		RequestID: RequestIDFromContext(ctx),
		EventType: audit.EventFaceVerified,
		Provider:  s.analyzer.Name(),
		Success:   err == nil,
		Duration:  elapsed,
	}

	if outcome != nil {
		verified := outcome.Verified
		event.Verified = &verified
		event.Metadata = map[string]string{
			"model":             outcome.Model,
			"similarity_metric": outcome.SimilarityMetric,
		}
	}
	if err != nil {
		event.Error = err.Error()
	}

	if logErr := s.auditLogger.Log(ctx, event); logErr != nil {
		s.logger.WarnContext(ctx, "audit log failed", "error", logErr)
	}
}
