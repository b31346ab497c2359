// Package affect projects categorical emotion scores into valence/arousal space
// and classifies the resulting point into a named mental state.
package affect

// Emotion categories recognised by the mapping table.
const (
	EmotionHappy    = "happy"
	EmotionAngry    = "angry"
	EmotionSad      = "sad"
	EmotionFear     = "fear"
	EmotionDisgust  = "disgust"
	EmotionSurprise = "surprise"
	EmotionNeutral  = "neutral"
)

// Coordinate is a point in valence/arousal space.
type Coordinate struct {
	Valence float64 `json:"valence"`
	Arousal float64 `json:"arousal"`
}

// Distribution maps emotion category names to unnormalised, non-negative scores.
// Categories outside the vocabulary are allowed and ignored when aggregating.
type Distribution map[string]float64

// vaTable is read-only after package initialisation.
var vaTable = map[string]Coordinate{
	EmotionHappy:    {Valence: 0.8, Arousal: 0.6},
	EmotionAngry:    {Valence: -0.6, Arousal: 0.7},
	EmotionSad:      {Valence: -0.7, Arousal: 0.3},
	EmotionFear:     {Valence: -0.6, Arousal: 0.8},
	EmotionDisgust:  {Valence: -0.4, Arousal: 0.6},
	EmotionSurprise: {Valence: 0.4, Arousal: 0.9},
	EmotionNeutral:  {Valence: 0.0, Arousal: 0.2},
}

var vocabulary = []string{
	EmotionAngry,
	EmotionDisgust,
	EmotionFear,
	EmotionHappy,
	EmotionSad,
	EmotionSurprise,
	EmotionNeutral,
}

// CoordinateFor returns the fixed valence/arousal point of an emotion category.
// The second result is false for categories outside the vocabulary; callers must
// skip those rather than substitute a default.
func CoordinateFor(emotion string) (Coordinate, bool) {
	c, ok := vaTable[emotion]
	return c, ok
}

// Vocabulary returns the known emotion categories in the order DeepFace reports them.
func Vocabulary() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}
