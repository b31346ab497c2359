package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/aiface/internal/affect"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
)

func detection(emotions affect.Distribution, dominant string) domain.FaceDetection {
	return domain.FaceDetection{
		Region:          domain.Region{X: 12, Y: 34, W: 56, H: 78},
		DominantEmotion: dominant,
		Emotions:        emotions,
	}
}

func TestResolveFaces(t *testing.T) {
	tests := []struct {
		name       string
		detections []domain.FaceDetection
		wantKind   domain.OutcomeKind
		wantCount  int
	}{
		{"nil", nil, domain.OutcomeNotDetected, 0},
		{"empty", []domain.FaceDetection{}, domain.OutcomeNotDetected, 0},
		{"one", []domain.FaceDetection{detection(affect.Distribution{"neutral": 100}, "neutral")}, domain.OutcomeDetected, 0},
		{
			name: "two",
			detections: []domain.FaceDetection{
				detection(affect.Distribution{"happy": 90}, "happy"),
				detection(affect.Distribution{"sad": 90}, "sad"),
			},
			wantKind:  domain.OutcomeMultipleFaces,
			wantCount: 2,
		},
		{
			name: "five",
			detections: []domain.FaceDetection{
				detection(nil, ""), detection(nil, ""), detection(nil, ""), detection(nil, ""), detection(nil, ""),
			},
			wantKind:  domain.OutcomeMultipleFaces,
			wantCount: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFaces(tt.detections)

			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantCount, got.Count)
			if tt.wantKind == domain.OutcomeDetected {
				assert.NotNil(t, got.Face)
			} else {
				assert.Nil(t, got.Face)
			}
		})
	}
}

func TestResolveFaces_SingleFace(t *testing.T) {
	emotions := affect.Distribution{"neutral": 100}

	got := ResolveFaces([]domain.FaceDetection{detection(emotions, "neutral")})

	require.Equal(t, domain.OutcomeDetected, got.Kind)
	require.NotNil(t, got.Face)
	assert.Equal(t, domain.Region{X: 12, Y: 34, W: 56, H: 78}, got.Face.Region)
	assert.Equal(t, "neutral", got.Face.DominantEmotion)
	assert.Equal(t, emotions, got.Face.Emotions)
	assert.InDelta(t, 0.0, got.Face.Affect.Valence, 1e-12)
	assert.InDelta(t, 0.2, got.Face.Affect.Arousal, 1e-12)
	assert.Equal(t, affect.StateDistracted, got.Face.State)
}

func TestResolveFaces_SingleFaceStates(t *testing.T) {
	tests := []struct {
		name     string
		emotions affect.Distribution
		want     affect.State
	}{
		{"happy", affect.Distribution{"happy": 97, "neutral": 3}, affect.StateConfident},
		{"fear", affect.Distribution{"fear": 100}, affect.StateAnxious},
		{"mixed happy angry", affect.Distribution{"happy": 50, "angry": 50}, affect.StateFocused},
		{"nothing recognised", affect.Distribution{"confused": 40}, affect.StateDistracted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFaces([]domain.FaceDetection{detection(tt.emotions, "")})
			require.NotNil(t, got.Face)
			assert.Equal(t, tt.want, got.Face.State)
		})
	}
}

func TestResolveFaces_MultipleFacesSkipsInference(t *testing.T) {
	got := ResolveFaces([]domain.FaceDetection{
		detection(affect.Distribution{"happy": 100}, "happy"),
		detection(affect.Distribution{"happy": 100}, "happy"),
	})

	assert.Nil(t, got.Face)
	assert.Equal(t, 2, got.Count)
}

func TestResolveFaces_Concurrent(t *testing.T) {
	inputs := []affect.Distribution{
		{"happy": 100},
		{"fear": 100},
		{"neutral": 100},
		{"sad": 10, "surprise": 90},
	}
	want := make([]domain.AnalysisOutcome, len(inputs))
	for i, in := range inputs {
		want[i] = ResolveFaces([]domain.FaceDetection{detection(in, "")})
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, in := range inputs {
				got := ResolveFaces([]domain.FaceDetection{detection(in, "")})
				assert.Equal(t, want[i], got)
			}
		}()
	}
	wg.Wait()
}
