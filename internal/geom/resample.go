package geom

// Resample returns n points spaced evenly by arc length along path, including
// both endpoints. A path of fewer than two points is returned as a copy; a
// path of zero length yields n copies of its first point.
func Resample(path Path, n int) Path {
	if len(path) < 2 || n < 1 {
		return path.Clone()
	}

	segLen := make([]float64, len(path)-1)
	cum := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		segLen[i-1] = path[i-1].Dist(path[i])
		cum[i] = cum[i-1] + segLen[i-1]
	}
	total := cum[len(cum)-1]

	out := make(Path, 0, n)
	if total == 0 {
		for i := 0; i < n; i++ {
			out = append(out, path[0])
		}
		return out
	}

	idx := 0
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = total * float64(i) / float64(n-1)
		}
		for idx < len(segLen) && cum[idx+1] < t {
			idx++
		}
		if idx >= len(segLen) {
			out = append(out, path[len(path)-1])
			continue
		}
		ratio := 0.0
		if segLen[idx] != 0 {
			ratio = (t - cum[idx]) / segLen[idx]
		}
		a, b := path[idx], path[idx+1]
		out = append(out, Point{X: a.X + ratio*(b.X-a.X), Y: a.Y + ratio*(b.Y-a.Y)})
	}
	return out
}
