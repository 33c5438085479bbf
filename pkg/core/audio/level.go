package audio

import "math"

// RMS computes the root-mean-square energy of a frame of samples in [-1, 1].
// Returns a value between 0.0 and 1.0.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Peak returns the maximum absolute amplitude in the frame.
func Peak(samples []float32) float64 {
	var maxAbs float64
	for _, s := range samples {
		abs := math.Abs(float64(s))
		if abs > maxAbs {
			maxAbs = abs
		}
	}
	return maxAbs
}
