package renderer

import "math"

// Filmic curve constants
const (
	acesA = 2.51
	acesB = 0.03
	acesC = 2.43
	acesD = 0.59
	acesE = 0.14

	displayGamma = 2.2
)

// ACES applies the filmic compression curve x(ax+b) / (x(cx+d)+e)
func ACES(x float64) float64 {
	return (x * (acesA*x + acesB)) / (x*(acesC*x+acesD) + acesE)
}

// ToneMap converts one radiance channel to a display byte: exposure, then
// the filmic curve, then clamping and gamma encoding
func ToneMap(x, exposure float64) uint8 {
	x *= exposure
	switch {
	case math.IsNaN(x):
		return 0
	case math.IsInf(x, 1):
		return 255
	}
	x = math.Max(0, x)
	v := math.Max(0, math.Min(1, ACES(x)))
	return uint8(math.Pow(v, 1.0/displayGamma)*255.0 + 0.5)
}
