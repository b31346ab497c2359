package service

import (
	"math"
	"strconv"

	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
)

const verificationPrecision = 4

// NormalizeVerification rounds distance and threshold; everything else passes through.
func NormalizeVerification(raw domain.RawVerification) domain.VerificationOutcome {
	return domain.VerificationOutcome{
		Verified:         raw.Verified,
		Distance:         Round(raw.Distance, verificationPrecision),
		Threshold:        Round(raw.Threshold, verificationPrecision),
		Model:            raw.Model,
		SimilarityMetric: raw.SimilarityMetric,
	}
}

// Round rounds x to the given number of decimal places using its exact binary
// value, ties to even, so 2.675 becomes 2.67 and 0.125 becomes 0.12.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}
