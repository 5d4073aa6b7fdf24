package geom

import (
	"math"
)

// Point is a 2-D coordinate in image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Path is an ordered polyline.
type Path []Point

// Length returns the arc length of the path: the sum of its segment lengths.
// Paths with fewer than two points have length 0.
func (p Path) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += p[i-1].Dist(p[i])
	}
	return total
}

// Clone returns a copy of the path that shares no storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Reversed returns the points of p in reverse order.
func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Equal reports whether p and q hold exactly the same point sequence.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Start returns the first point. It panics on an empty path.
func (p Path) Start() Point { return p[0] }

// End returns the last point. It panics on an empty path.
func (p Path) End() Point { return p[len(p)-1] }

// Round returns a copy of p with every coordinate rounded to the given number
// of decimal places, ties to even. Negative places are treated as 0.
func (p Path) Round(places int) Path {
	if places < 0 {
		places = 0
	}
	scale := math.Pow(10, float64(places))
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = Point{
			X: math.RoundToEven(pt.X*scale) / scale,
			Y: math.RoundToEven(pt.Y*scale) / scale,
		}
	}
	return out
}

// Bounds returns the minimum and maximum corners of the path's bounding box.
// An empty path returns two zero points.
func (p Path) Bounds() (min, max Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	min, max = p[0], p[0]
	for _, pt := range p[1:] {
		min.X = math.Min(min.X, pt.X)
		min.Y = math.Min(min.Y, pt.Y)
		max.X = math.Max(max.X, pt.X)
		max.Y = math.Max(max.Y, pt.Y)
	}
	return min, max
}

// DedupConsecutive drops points that repeat the point before them.
func (p Path) DedupConsecutive() Path {
	if len(p) == 0 {
		return Path{}
	}
	out := Path{p[0]}
	for _, pt := range p[1:] {
		if pt != out[len(out)-1] {
			out = append(out, pt)
		}
	}
	return out
}
