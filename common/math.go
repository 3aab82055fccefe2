package common

const (
	// BaseWidth and BaseHeight are the logical viewport size in pixels.
	BaseWidth  = 320
	BaseHeight = 240

	TileSize = 16

	// Gravity is applied to dynamic bodies in pixels per second squared.
	Gravity = 600.0

	// TPS is the fixed update rate of the scene.
	TPS = 60
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
