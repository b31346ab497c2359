package affect

// Aggregate computes the score-weighted mean valence/arousal of the recognised
// categories in dist. When the recognised weight sums to zero (empty input or no
// known category) the result is the origin.
//
// Scores are taken as given: negative scores are not rejected or clamped.
func Aggregate(dist Distribution) Coordinate {
	var vSum, aSum, weight float64

	// fixed vocabulary order keeps the float sums reproducible
	for _, emotion := range vocabulary {
		score, ok := dist[emotion]
		if !ok {
			continue
		}
		c := vaTable[emotion]
		vSum += score * c.Valence
		aSum += score * c.Arousal
		weight += score
	}

	if weight == 0 {
		return Coordinate{}
	}

	return Coordinate{
		Valence: vSum / weight,
		Arousal: aSum / weight,
	}
}

// Infer aggregates dist and classifies the resulting point.
func Infer(dist Distribution) (Coordinate, State) {
	c := Aggregate(dist)
	return c, Classify(c)
}
