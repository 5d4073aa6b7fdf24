package geom

import "math"

// DistanceFunc measures how far p lies from the chord a-b.
type DistanceFunc func(p, a, b Point) float64

// LineDistance is the perpendicular distance from p to the infinite line
// through a and b. When a and b coincide it is the distance from p to a.
func LineDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return p.Dist(a)
	}
	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	return num / math.Hypot(dx, dy)
}

// SegmentDistance is the distance from p to the closed segment a-b. Points
// projecting before a or past b measure to the nearer endpoint.
func SegmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	segLen := math.Hypot(dx, dy)
	if segLen < 1e-8 {
		return p.Dist(a)
	}
	proj := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / segLen
	switch {
	case proj < 0:
		return p.Dist(a)
	case proj > segLen:
		return p.Dist(b)
	}
	return p.Dist(Point{X: a.X + proj*dx/segLen, Y: a.Y + proj*dy/segLen})
}

// Simplify reduces a polyline with the Douglas-Peucker algorithm. Points whose
// distance (as measured by dist) from the current chord does not exceed
// epsilon are dropped. The first and last points are always kept.
//
// A non-positive epsilon, or a path of two or fewer points, returns a copy of
// the input unchanged.
func Simplify(path Path, epsilon float64, dist DistanceFunc) Path {
	if epsilon <= 0 || len(path) <= 2 {
		return path.Clone()
	}
	return simplify(path, epsilon, dist)
}

func simplify(path Path, epsilon float64, dist DistanceFunc) Path {
	if len(path) <= 2 {
		return path.Clone()
	}

	end := len(path) - 1
	dmax := 0.0
	index := 0
	for i := 1; i < end; i++ {
		d := dist(path[i], path[0], path[end])
		if d > dmax {
			dmax = d
			index = i
		}
	}

	if dmax > epsilon {
		left := simplify(path[:index+1], epsilon, dist)
		right := simplify(path[index:], epsilon, dist)

		result := make(Path, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		return append(result, right...)
	}

	return Path{path[0], path[end]}
}
