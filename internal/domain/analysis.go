package domain

import (
	"github.com/saturnino-fabrica-de-software/aiface/internal/affect"
)

// Region is the pixel bounding box of a detected face.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FaceDetection is one face reported by the emotion model.
type FaceDetection struct {
	Region          Region              `json:"region"`
	DominantEmotion string              `json:"dominant_emotion"`
	Emotions        affect.Distribution `json:"emotions"`
}

// OutcomeKind tags an AnalysisOutcome.
type OutcomeKind string

const (
	OutcomeNotDetected   OutcomeKind = "NotDetected"
	OutcomeMultipleFaces OutcomeKind = "MultipleFacesDetected"
	OutcomeDetected      OutcomeKind = "Detected"
)

// FaceAnalysis is the scored single-face result.
type FaceAnalysis struct {
	Region          Region
	DominantEmotion string
	Emotions        affect.Distribution
	Affect          affect.Coordinate
	State           affect.State
}

// AnalysisOutcome holds exactly one of the three analysis results; Count is set
// only for OutcomeMultipleFaces and Face only for OutcomeDetected.
type AnalysisOutcome struct {
	Kind  OutcomeKind
	Count int
	Face  *FaceAnalysis
}

func NotDetected() AnalysisOutcome {
	return AnalysisOutcome{Kind: OutcomeNotDetected}
}

func MultipleFaces(count int) AnalysisOutcome {
	return AnalysisOutcome{Kind: OutcomeMultipleFaces, Count: count}
}

func Detected(face FaceAnalysis) AnalysisOutcome {
	return AnalysisOutcome{Kind: OutcomeDetected, Face: &face}
}
