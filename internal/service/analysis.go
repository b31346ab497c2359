package service

import (
	"github.com/saturnino-fabrica-de-software/aiface/internal/affect"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
)

// ResolveFaces applies the single-subject policy: affect is only inferred when
// exactly one face was reported.
func ResolveFaces(detections []domain.FaceDetection) domain.AnalysisOutcome {
	switch len(detections) {
	case 0:
		return domain.NotDetected()
	case 1:
		d := detections[0]
		coord, state := affect.Infer(d.Emotions)
		return domain.Detected(domain.FaceAnalysis{
			Region:          d.Region,
			DominantEmotion: d.DominantEmotion,
			Emotions:        d.Emotions,
			Affect:          coord,
			State:           state,
		})
	default:
		return domain.MultipleFaces(len(detections))
	}
}
