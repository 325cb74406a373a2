package control

import "github.com/frudas24/touchslice/internal/contact"

// scalePoints maps points from a client surface of size w x h onto a
// geometry of size gw x gh. Points outside the surface are clamped to its
// edges. Without both sizes the points are returned unchanged.
func scalePoints(points []contact.Point, w, h, gw, gh float64) []contact.Point {
	if w <= 0 || h <= 0 || gw <= 0 || gh <= 0 {
		return points
	}
	out := make([]contact.Point, len(points))
	for i, p := range points {
		out[i] = contact.Point{
			ID: p.ID,
			X:  clamp01(p.X/w) * gw,
			Y:  clamp01(p.Y/h) * gh,
		}
	}
	return out
}

// clamp01 bounds a float to the [0..1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
