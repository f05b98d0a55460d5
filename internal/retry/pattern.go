package retry

import "math"

// Backoff classification constants.
const (
	// LinearToleranceSec: gaps within this much of the first gap count as
	// a fixed interval.
	LinearToleranceSec = 1.0

	// Exponential backoff factor bounds between consecutive gaps.
	ExponentialMinFactor = 1.5
	ExponentialMaxFactor = 3.0
)

// classifyPattern derives the retry pattern from an attempt sequence already
// sorted by attempt number.
func classifyPattern(attempts []QueryAttempt) RetryPattern {
	pattern := RetryPattern{
		RetryIntervals:     []float64{},
		TimeoutProgression: []float64{},
		BackoffType:        BackoffCustom,
		MaxRetries:         len(attempts) - 1,
	}

	for i, attempt := range attempts {
		pattern.TimeoutProgression = append(pattern.TimeoutProgression,
			float64(attempt.Timing.DurationMs)/1000)
		if i == 0 {
			continue
		}
		gap := float64(attempt.Timing.StartMs-attempts[i-1].Timing.EndMs) / 1000
		pattern.RetryIntervals = append(pattern.RetryIntervals, gap)
	}

	first := attempts[0].Timing.StartMs
	last := attempts[len(attempts)-1].Timing.EndMs
	if last > first {
		pattern.TotalDurationMs = last - first
	}

	pattern.BackoffType = classifyBackoff(pattern.RetryIntervals)
	return pattern
}

func classifyBackoff(gaps []float64) BackoffType {
	if len(gaps) == 0 {
		return BackoffCustom
	}

	if isLinear(gaps) {
		return BackoffLinear
	}
	if isExponential(gaps) {
		return BackoffExponential
	}
	return BackoffCustom
}

func isLinear(gaps []float64) bool {
	for _, gap := range gaps {
		if math.Abs(gap-gaps[0]) > LinearToleranceSec {
			return false
		}
	}
	return true
}

func isExponential(gaps []float64) bool {
	for i := 1; i < len(gaps); i++ {
		if gaps[i-1] <= 0 {
			return false
		}
		factor := gaps[i] / gaps[i-1]
		if factor < ExponentialMinFactor || factor > ExponentialMaxFactor {
			return false
		}
	}
	return len(gaps) > 1
}
