// SPDX-License-Identifier: EPL-2.0

package utils

// CatmullRom evaluates the Catmull-Rom spline through four consecutive
// samples at t in [0, 1] between y1 and y2. It passes through y1 at t=0 and
// y2 at t=1 and reproduces straight lines exactly.
func CatmullRom(y0, y1, y2, y3, t float32) float32 {
	c3 := 0.5 * (y3 - y0 + 3*(y1-y2))
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c1 := 0.5 * (y2 - y0)

	// Horner form of c3*t^3 + c2*t^2 + c1*t + y1.
	return ((c3*t+c2)*t+c1)*t + y1
}
