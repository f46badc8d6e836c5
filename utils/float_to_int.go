// SPDX-License-Identifier: EPL-2.0

package utils

// FloatToPCM clamps x to [-1, 1] and scales it to a signed integer sample of
// the given bit depth. Positive full scale maps to the largest positive value
// so that 1.0 never overflows.
func FloatToPCM(x float32, bitDepth int) int {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	maxVal := float64(int64(1)<<(bitDepth-1) - 1)
	return int(float64(x) * maxVal)
}

// PCMToFloat scales a signed integer sample of the given bit depth to
// [-1, 1).
func PCMToFloat(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
