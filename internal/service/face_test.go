package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/aiface/internal/affect"
	"github.com/saturnino-fabrica-de-software/aiface/internal/audit"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
	"github.com/saturnino-fabrica-de-software/aiface/internal/fetch"
	"github.com/saturnino-fabrica-de-software/aiface/internal/metrics"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider"
)

type MockFaceAnalyzer struct {
	mock.Mock
}

func (m *MockFaceAnalyzer) AnalyzeEmotions(ctx context.Context, image []byte) ([]domain.FaceDetection, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FaceDetection), args.Error(1)
}

func (m *MockFaceAnalyzer) Verify(ctx context.Context, image1, image2 []byte) (*domain.RawVerification, error) {
	args := m.Called(ctx, image1, image2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawVerification), args.Error(1)
}

func (m *MockFaceAnalyzer) Name() string {
	return "mock-analyzer"
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type recordingAuditLogger struct {
	events []audit.Event
}

func (r *recordingAuditLogger) Log(_ context.Context, event audit.Event) error {
	r.events = append(r.events, event)
	return nil
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestFaceService_Analyze(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockFaceAnalyzer)
		wantKind   domain.OutcomeKind
		wantState  affect.State
		wantErr    error
	}{
		{
			name: "single face",
			setupMocks: func(a *MockFaceAnalyzer) {
				a.On("AnalyzeEmotions", mock.Anything, mock.Anything).Return([]domain.FaceDetection{
					{DominantEmotion: "happy", Emotions: affect.Distribution{"happy": 10, "sad": 0}},
				}, nil)
			},
			wantKind:  domain.OutcomeDetected,
			wantState: affect.StateConfident,
		},
		{
			name: "no faces",
			setupMocks: func(a *MockFaceAnalyzer) {
				a.On("AnalyzeEmotions", mock.Anything, mock.Anything).Return([]domain.FaceDetection{}, nil)
			},
			wantKind: domain.OutcomeNotDetected,
		},
		{
			name: "multiple faces",
			setupMocks: func(a *MockFaceAnalyzer) {
				a.On("AnalyzeEmotions", mock.Anything, mock.Anything).Return([]domain.FaceDetection{{}, {}, {}}, nil)
			},
			wantKind: domain.OutcomeMultipleFaces,
		},
		{
			name: "model refuses detection",
			setupMocks: func(a *MockFaceAnalyzer) {
				a.On("AnalyzeEmotions", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("deepface: %w", provider.ErrFaceNotDetected))
			},
			wantErr: domain.ErrFaceNotDetected,
		},
		{
			name: "provider timeout",
			setupMocks: func(a *MockFaceAnalyzer) {
				a.On("AnalyzeEmotions", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)
			},
			wantErr: domain.ErrProviderUnavailable,
		},
		{
			name: "provider failure",
			setupMocks: func(a *MockFaceAnalyzer) {
				a.On("AnalyzeEmotions", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
			},
			wantErr: domain.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := pngImage(t, 32, 32)
			analyzer := new(MockFaceAnalyzer)
			tt.setupMocks(analyzer)
			recorder := &recordingAuditLogger{}

			svc := NewFaceService(analyzer, new(MockFetcher),
				WithMetrics(metrics.New()),
				WithAuditLogger(recorder),
			)

			outcome, err := svc.Analyze(context.Background(), img)

			require.Len(t, recorder.events, 1)
			assert.Equal(t, audit.EventFaceAnalyzed, recorder.events[0].EventType)
			assert.Equal(t, "mock-analyzer", recorder.events[0].Provider)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, outcome)
				assert.False(t, recorder.events[0].Success)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, outcome.Kind)
			assert.Equal(t, string(tt.wantKind), recorder.events[0].Outcome)
			if tt.wantState != "" {
				require.NotNil(t, outcome.Face)
				assert.Equal(t, tt.wantState, outcome.Face.State)
			}
			analyzer.AssertExpectations(t)
		})
	}
}

func TestFaceService_Analyze_InvalidImage(t *testing.T) {
	analyzer := new(MockFaceAnalyzer)
	svc := NewFaceService(analyzer, new(MockFetcher))

	_, err := svc.Analyze(context.Background(), []byte("not an image"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
	analyzer.AssertNotCalled(t, "AnalyzeEmotions", mock.Anything, mock.Anything)
}

func TestFaceService_Analyze_RequestID(t *testing.T) {
	analyzer := new(MockFaceAnalyzer)
	analyzer.On("AnalyzeEmotions", mock.Anything, mock.Anything).Return([]domain.FaceDetection{}, nil)
	recorder := &recordingAuditLogger{}
	svc := NewFaceService(analyzer, new(MockFetcher), WithAuditLogger(recorder))

	ctx := WithRequestID(context.Background(), "req-123")
	_, err := svc.Analyze(ctx, pngImage(t, 8, 8))

	require.NoError(t, err)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, "req-123", recorder.events[0].RequestID)
}

func TestFaceService_VerifyFace(t *testing.T) {
	const refURL = "https://example.com/ref.png"

	tests := []struct {
		name       string
		image      func(t *testing.T) []byte
		url        string
		setupMocks func(t *testing.T, a *MockFaceAnalyzer, f *MockFetcher)
		want       *domain.VerificationOutcome
		wantErr    error
	}{
		{
			name:  "verified",
			image: func(t *testing.T) []byte { return pngImage(t, 16, 16) },
			url:   refURL,
			setupMocks: func(t *testing.T, a *MockFaceAnalyzer, f *MockFetcher) {
				f.On("Fetch", mock.Anything, refURL).Return(pngImage(t, 20, 20), nil)
				a.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(&domain.RawVerification{
					Verified:         true,
					Distance:         0.123456,
					Threshold:        0.68,
					Model:            "VGG-Face",
					SimilarityMetric: "cosine",
				}, nil)
			},
			want: &domain.VerificationOutcome{
				Verified:         true,
				Distance:         0.1235,
				Threshold:        0.68,
				Model:            "VGG-Face",
				SimilarityMetric: "cosine",
			},
		},
		{
			name:    "missing image",
			image:   func(t *testing.T) []byte { return nil },
			url:     refURL,
			wantErr: domain.ErrVerifyInputRequired,
		},
		{
			name:    "missing url",
			image:   func(t *testing.T) []byte { return pngImage(t, 16, 16) },
			url:     "",
			wantErr: domain.ErrVerifyInputRequired,
		},
		{
			name:  "reference returns 404",
			image: func(t *testing.T) []byte { return pngImage(t, 16, 16) },
			url:   refURL,
			setupMocks: func(t *testing.T, a *MockFaceAnalyzer, f *MockFetcher) {
				f.On("Fetch", mock.Anything, refURL).Return(nil, fmt.Errorf("%w: 404", fetch.ErrUnexpectedStatus))
			},
			wantErr: domain.ErrReferenceFetchFailed,
		},
		{
			name:  "reference unreachable",
			image: func(t *testing.T) []byte { return pngImage(t, 16, 16) },
			url:   refURL,
			setupMocks: func(t *testing.T, a *MockFaceAnalyzer, f *MockFetcher) {
				f.On("Fetch", mock.Anything, refURL).Return(nil, errors.New("dial tcp: connection refused"))
			},
			wantErr: domain.ErrInternal,
		},
		{
			name:  "reference not an image",
			image: func(t *testing.T) []byte { return pngImage(t, 16, 16) },
			url:   refURL,
			setupMocks: func(t *testing.T, a *MockFaceAnalyzer, f *MockFetcher) {
				f.On("Fetch", mock.Anything, refURL).Return([]byte("<html>"), nil)
			},
			wantErr: domain.ErrInvalidImage,
		},
		{
			name:  "upload not an image",
			image: func(t *testing.T) []byte { return []byte("garbage") },
			url:   refURL,
			setupMocks: func(t *testing.T, a *MockFaceAnalyzer, f *MockFetcher) {
				f.On("Fetch", mock.Anything, refURL).Return(pngImage(t, 20, 20), nil)
			},
			wantErr: domain.ErrInvalidImage,
		},
		{
			name:  "verifier cannot find face",
			image: func(t *testing.T) []byte { return pngImage(t, 16, 16) },
			url:   refURL,
			setupMocks: func(t *testing.T, a *MockFaceAnalyzer, f *MockFetcher) {
				f.On("Fetch", mock.Anything, refURL).Return(pngImage(t, 20, 20), nil)
				a.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(nil, provider.ErrFaceNotDetected)
			},
			wantErr: domain.ErrFaceNotDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := new(MockFaceAnalyzer)
			fetcher := new(MockFetcher)
			if tt.setupMocks != nil {
				tt.setupMocks(t, analyzer, fetcher)
			}

			svc := NewFaceService(analyzer, fetcher, WithMetrics(metrics.New()))

			got, err := svc.VerifyFace(context.Background(), tt.image(t), tt.url)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.Verified, got.Verified)
			assert.InDelta(t, tt.want.Distance, got.Distance, 1e-12)
			assert.InDelta(t, tt.want.Threshold, got.Threshold, 1e-12)
			assert.Equal(t, tt.want.Model, got.Model)
			assert.Equal(t, tt.want.SimilarityMetric, got.SimilarityMetric)
			analyzer.AssertExpectations(t)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestFaceService_VerifyFace_FetchesBeforeModel(t *testing.T) {
	analyzer := new(MockFaceAnalyzer)
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: 500", fetch.ErrUnexpectedStatus))

	svc := NewFaceService(analyzer, fetcher)
	_, err := svc.VerifyFace(context.Background(), pngImage(t, 8, 8), "https://example.com/x.jpg")

	assert.ErrorIs(t, err, domain.ErrReferenceFetchFailed)
	analyzer.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}
