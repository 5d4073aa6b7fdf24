package pathclean

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/lineart-vectorizer/internal/geom"
)

const (
	minResample = 10
	maxResample = 80
)

// Path is a polyline with its stroke color.
type Path struct {
	Points geom.Path
	Stroke string
}

// Removed counts what each step took out.
type Removed struct {
	ExactDuplicates int `json:"exact_duplicates"`
	NearDuplicates  int `json:"near_duplicates"`
	ShortPaths      int `json:"short_paths"`
	Merged          int `json:"merged"`
}

// Clean runs the enabled steps over paths and returns the surviving paths
// in order. The input slice and its points are not modified.
//
// Paths with fewer than two points are always dropped; they are counted as
// short paths.
func Clean(paths []Path, opts Options) ([]Path, Removed) {
	var removed Removed
	out := append([]Path(nil), paths...)

	if opts.RemoveDuplicates {
		before := len(out)
		out = removeExactDuplicates(out)
		removed.ExactDuplicates = before - len(out)
	}

	before := len(out)
	minLength := math.Inf(-1)
	if opts.RemoveShortPaths {
		minLength = opts.MinPathLength
	}
	out = removeShort(out, minLength)
	removed.ShortPaths = before - len(out)

	if opts.SimplifyPaths && opts.SimplifyTolerance > 0 {
		out = simplifyAll(out, opts.SimplifyTolerance)
	}

	if opts.RemoveNearDuplicates {
		before := len(out)
		out = removeNearDuplicates(out, opts.NearDuplicateDistance, opts.NearDuplicateMaxFactor)
		removed.NearDuplicates = before - len(out)
	}

	if opts.MergeClosePaths {
		if opts.SortBeforeMerge {
			out = sortByLeadingEndpoint(out)
		}
		before := len(out)
		out = mergeClose(out, opts.MergeDistance)
		removed.Merged = before - len(out)
	}

	if opts.RoundCoordinates {
		for i := range out {
			out[i].Points = out[i].Points.Round(opts.DecimalPlaces)
		}
	}

	return out, removed
}

func pathKey(p geom.Path) string {
	var b strings.Builder
	for _, pt := range p {
		b.WriteString(strconv.FormatUint(math.Float64bits(pt.X), 16))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(math.Float64bits(pt.Y), 16))
		b.WriteByte(';')
	}
	return b.String()
}

// removeExactDuplicates keeps the first of every group of paths with
// identical points. Paths without points pass through to removeShort.
func removeExactDuplicates(paths []Path) []Path {
	seen := make(map[string]struct{}, len(paths))
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		if len(p.Points) == 0 {
			out = append(out, p)
			continue
		}
		key := pathKey(p.Points)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func removeShort(paths []Path, minLength float64) []Path {
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		if len(p.Points) < 2 || p.Points.Length() < minLength {
			continue
		}
		out = append(out, p)
	}
	return out
}

func simplifyAll(paths []Path, tolerance float64) []Path {
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		pts := geom.Simplify(p.Points, tolerance, geom.SegmentDistance)
		if len(pts) < 2 {
			continue
		}
		out = append(out, Path{Points: pts, Stroke: p.Stroke})
	}
	return out
}

// removeNearDuplicates walks the paths in order. Each unconsumed path
// becomes a base that consumes every later unconsumed path lying within
// threshold of it; the longest of the group takes the base's slot.
func removeNearDuplicates(paths []Path, threshold, maxFactor float64) []Path {
	if len(paths) < 2 {
		return paths
	}

	samples := make([]geom.Path, len(paths))
	lengths := make([]float64, len(paths))
	for i, p := range paths {
		n := min(maxResample, max(minResample, len(p.Points)))
		samples[i] = geom.Resample(p.Points, n)
		lengths[i] = p.Points.Length()
	}

	consumed := make([]bool, len(paths))
	out := make([]Path, 0, len(paths))
	for i := range paths {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		keep := i
		for j := i + 1; j < len(paths); j++ {
			if consumed[j] {
				continue
			}
			mean, worst := matchDistance(samples[i], samples[j])
			if mean <= threshold && worst <= threshold*maxFactor {
				if lengths[j] > lengths[keep] {
					keep = j
				}
				consumed[j] = true
			}
		}
		out = append(out, paths[keep])
	}
	return out
}

// matchDistance compares a with b in both orientations of b and returns the
// mean and worst nearest-neighbor distance of the better orientation.
func matchDistance(a, b geom.Path) (float64, float64) {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1), math.Inf(1)
	}
	m1, w1 := nearestNeighborStats(a, b)
	m2, w2 := nearestNeighborStats(a, b.Reversed())
	if m2 < m1 {
		return m2, w2
	}
	return m1, w1
}

// nearestNeighborStats averages the mean nearest-neighbor distances from a
// to b and from b to a, and reports the largest single one.
func nearestNeighborStats(a, b geom.Path) (float64, float64) {
	nearA := make([]float64, len(a))
	nearB := make([]float64, len(b))
	for i := range nearA {
		nearA[i] = math.Inf(1)
	}
	for j := range nearB {
		nearB[j] = math.Inf(1)
	}
	for i, p := range a {
		for j, q := range b {
			d := p.Dist(q)
			nearA[i] = math.Min(nearA[i], d)
			nearB[j] = math.Min(nearB[j], d)
		}
	}

	var sumA, sumB, worst float64
	for _, d := range nearA {
		sumA += d
		worst = math.Max(worst, d)
	}
	for _, d := range nearB {
		sumB += d
		worst = math.Max(worst, d)
	}
	mean := (sumA/float64(len(a)) + sumB/float64(len(b))) / 2
	return mean, worst
}

// mergeClose grows each unconsumed path by repeatedly appending the first
// unconsumed path whose start, or end, lies within distance of its current
// tail; a path attached by its end is appended reversed. Seam points are
// kept, so a merged path has as many points as its parts.
func mergeClose(paths []Path, distance float64) []Path {
	if len(paths) < 2 {
		return paths
	}

	consumed := make([]bool, len(paths))
	out := make([]Path, 0, len(paths))
	for i, p := range paths {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		merged := p.Points.Clone()

		for attached := true; attached; {
			attached = false
			tail := merged.End()
			for j, q := range paths {
				if consumed[j] {
					continue
				}
				switch {
				case tail.Dist(q.Points.Start()) <= distance:
					merged = append(merged, q.Points...)
				case tail.Dist(q.Points.End()) <= distance:
					merged = append(merged, q.Points.Reversed()...)
				default:
					continue
				}
				consumed[j] = true
				attached = true
				break
			}
		}
		out = append(out, Path{Points: merged, Stroke: p.Stroke})
	}
	return out
}

// sortByLeadingEndpoint orders paths by the lexicographically smaller of
// their two endpoints, x first.
func sortByLeadingEndpoint(paths []Path) []Path {
	lead := func(p geom.Path) geom.Point {
		s, e := p.Start(), p.End()
		if e.X < s.X || (e.X == s.X && e.Y < s.Y) {
			return e
		}
		return s
	}
	out := append([]Path(nil), paths...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := lead(out[i].Points), lead(out[j].Points)
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return out
}
