package affect

// State is an inferred mental state label.
type State string

const (
	StateConfident  State = "Confident"
	StateAnxious    State = "Anxious"
	StateStressed   State = "Stressed"
	StateRelaxed    State = "Relaxed"
	StateFocused    State = "Focused"
	StateDistracted State = "Distracted"
	StateMixed      State = "Mixed"
)

// States lists every label Classify can return, catch-all last.
func States() []State {
	return []State{
		StateConfident,
		StateAnxious,
		StateStressed,
		StateRelaxed,
		StateFocused,
		StateDistracted,
		StateMixed,
	}
}

type rule struct {
	state State
	match func(v, a float64) bool
}

// rules are evaluated in order and the first match wins. Regions overlap, so the
// order is part of the contract.
var rules = []rule{
	{StateConfident, func(v, a float64) bool { return v > 0.5 && a >= 0.5 && a <= 0.8 }},
	{StateAnxious, func(v, a float64) bool { return v < -0.3 && a > 0.6 }},
	{StateStressed, func(v, a float64) bool { return v < 0 && a > 0.5 }},
	{StateRelaxed, func(v, a float64) bool { return v > 0.4 && a < 0.4 }},
	{StateFocused, func(v, a float64) bool { return v >= 0 && v <= 0.5 && a >= 0.4 && a <= 0.6 }},
	{StateDistracted, func(v, a float64) bool { return v >= -0.1 && v <= 0.1 && a < 0.3 }},
}

// Classify maps a valence/arousal point to a State. Points matched by no rule
// are Mixed.
func Classify(c Coordinate) State {
	for _, r := range rules {
		if r.match(c.Valence, c.Arousal) {
			return r.state
		}
	}
	return StateMixed
}
