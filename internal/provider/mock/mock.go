package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/saturnino-fabrica-de-software/aiface/internal/affect"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider"
)

const (
	embeddingDimension = 128
	minImageSize       = 100

	// mesmo limiar do VGG-Face com cosseno no DeepFace
	verifyThreshold = 0.68
)

// Provider implementa provider.FaceAnalyzer para testes e desenvolvimento
type Provider struct{}

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "mock"
}

// AnalyzeEmotions devolve sempre uma face com emoções derivadas do hash da imagem
func (p *Provider) AnalyzeEmotions(ctx context.Context, image []byte) ([]domain.FaceDetection, error) {
	if len(image) < minImageSize {
		return nil, provider.ErrFaceNotDetected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	emotions, dominant := generateEmotions(image)

	return []domain.FaceDetection{
		{
			Region:          domain.Region{X: 10, Y: 10, W: 100, H: 100},
			DominantEmotion: dominant,
			Emotions:        emotions,
		},
	}, nil
}

// Verify compara embeddings determinísticos; imagens idênticas têm distância zero
func (p *Provider) Verify(ctx context.Context, image1, image2 []byte) (*domain.RawVerification, error) {
	if len(image1) < minImageSize || len(image2) < minImageSize {
		return nil, provider.ErrFaceNotDetected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	distance := 1 - cosineSimilarity(generateEmbedding(image1), generateEmbedding(image2))
	if distance < 0 {
		distance = 0
	}

	return &domain.RawVerification{
		Verified:         distance <= verifyThreshold,
		Distance:         distance,
		Threshold:        verifyThreshold,
		Model:            "mock",
		SimilarityMetric: "cosine",
	}, nil
}

// generateEmotions distribui 100 pontos pelo vocabulário conforme o hash
func generateEmotions(image []byte) (affect.Distribution, string) {
	hash := sha256.Sum256(image)
	vocab := affect.Vocabulary()

	var total float64
	raw := make([]float64, len(vocab))
	for i := range vocab {
		raw[i] = float64(hash[i]) + 1
		total += raw[i]
	}

	dist := make(affect.Distribution, len(vocab))
	var dominant string
	best := -1.0
	for i, name := range vocab {
		score := raw[i] / total * 100
		dist[name] = score
		if score > best {
			best = score
			dominant = name
		}
	}

	return dist, dominant
}

// generateEmbedding gera embedding determinístico baseado no hash da imagem
func generateEmbedding(image []byte) []float64 {
	hash := sha256.Sum256(image)
	embedding := make([]float64, embeddingDimension)

	for i := range embedding {
		embedding[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	return embedding
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ provider.FaceAnalyzer = (*Provider)(nil)
