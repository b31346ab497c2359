package face

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/saturnino-fabrica-de-software/aiface/internal/config"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider/rekognition"
)

func TestNewFaceAnalyzer_DeepFace(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		providerType string
		deepFaceURL  string
	}{
		{
			name:         "explicit deepface provider",
			providerType: "deepface",
			deepFaceURL:  "http://localhost:5005",
		},
		{
			name:         "empty provider defaults to deepface",
			providerType: "",
			deepFaceURL:  "http://localhost:5005",
		},
		{
			name:         "empty url falls back to default",
			providerType: "deepface",
			deepFaceURL:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				ProviderType:    tt.providerType,
				DeepFaceURL:     tt.deepFaceURL,
				DeepFaceTimeout: 5 * time.Second,
			}

			analyzer, err := NewFaceAnalyzer(ctx, cfg)
			if err != nil {
				t.Fatalf("NewFaceAnalyzer() error = %v", err)
			}

			if _, ok := analyzer.(*deepface.Provider); !ok {
				t.Errorf("NewFaceAnalyzer() returned type %T, want *deepface.Provider", analyzer)
			}
			if analyzer.Name() != "deepface" {
				t.Errorf("Name() = %q, want deepface", analyzer.Name())
			}
		})
	}
}

func TestNewFaceAnalyzer_Mock(t *testing.T) {
	analyzer, err := NewFaceAnalyzer(context.Background(), &config.Config{ProviderType: "mock"})
	if err != nil {
		t.Fatalf("NewFaceAnalyzer() error = %v", err)
	}

	if _, ok := analyzer.(*mock.Provider); !ok {
		t.Errorf("NewFaceAnalyzer() returned type %T, want *mock.Provider", analyzer)
	}
}

func TestNewFaceAnalyzer_Rekognition(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Rekognition test in short mode (loads AWS config)")
	}

	cfg := &config.Config{
		ProviderType:         "rekognition",
		AWSRegion:            "us-east-1",
		RekognitionThreshold: 0.9,
	}

	analyzer, err := NewFaceAnalyzer(context.Background(), cfg)
	if err != nil {
		t.Skipf("Skipping Rekognition test (AWS config unavailable): %v", err)
	}

	if _, ok := analyzer.(*rekognition.Provider); !ok {
		t.Errorf("NewFaceAnalyzer() returned type %T, want *rekognition.Provider", analyzer)
	}
}

func TestNewFaceAnalyzer_UnknownProvider(t *testing.T) {
	cfg := &config.Config{
		ProviderType: "unknown-provider",
	}

	_, err := NewFaceAnalyzer(context.Background(), cfg)
	if err == nil {
		t.Fatal("NewFaceAnalyzer() expected error for unknown provider, got nil")
	}

	if !strings.HasPrefix(err.Error(), "unknown provider type: unknown-provider") {
		t.Errorf("NewFaceAnalyzer() error = %v", err)
	}
}

func TestProviderType_Constants(t *testing.T) {
	if ProviderTypeDeepFace != "deepface" {
		t.Errorf("ProviderTypeDeepFace = %q, want %q", ProviderTypeDeepFace, "deepface")
	}

	if ProviderTypeRekognition != "rekognition" {
		t.Errorf("ProviderTypeRekognition = %q, want %q", ProviderTypeRekognition, "rekognition")
	}

	if ProviderTypeMock != "mock" {
		t.Errorf("ProviderTypeMock = %q, want %q", ProviderTypeMock, "mock")
	}
}
