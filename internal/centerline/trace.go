package centerline

import (
	"github.com/ironsheep/lineart-vectorizer/internal/geom"
	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// traceDirs are the 8 neighbor offsets, clockwise from east.
var traceDirs = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// skeletonGraph links the on pixels of a skeleton. A pixel is linked to each
// on 4-neighbor, and to an on diagonal neighbor only when neither pixel
// between the two is on, so staircase steps do not form triangles.
type skeletonGraph struct {
	m     *mask.Mask
	links []uint8 // bit d set: linked in direction traceDirs[d]
	seen  []uint8 // bit d set: edge already walked
}

func newSkeletonGraph(m *mask.Mask) *skeletonGraph {
	g := &skeletonGraph{
		m:     m,
		links: make([]uint8, len(m.Pix)),
		seen:  make([]uint8, len(m.Pix)),
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Pix[y*m.Width+x] {
				continue
			}
			var bits uint8
			for d, off := range traceDirs {
				nx, ny := x+off[0], y+off[1]
				if !m.Get(nx, ny) {
					continue
				}
				if off[0] != 0 && off[1] != 0 && (m.Get(nx, y) || m.Get(x, ny)) {
					continue
				}
				bits |= 1 << d
			}
			g.links[y*m.Width+x] = bits
		}
	}
	return g
}

func (g *skeletonGraph) degree(i int) int {
	n := 0
	for b := g.links[i]; b != 0; b &= b - 1 {
		n++
	}
	return n
}

func (g *skeletonGraph) step(i, d int) int {
	off := traceDirs[d]
	return i + off[1]*g.m.Width + off[0]
}

func (g *skeletonGraph) markSeen(i, d int) {
	g.seen[i] |= 1 << d
	g.seen[g.step(i, d)] |= 1 << ((d + 4) % 8)
}

// nextUnseen returns the first linked, unwalked direction out of i, or -1.
func (g *skeletonGraph) nextUnseen(i int) int {
	free := g.links[i] &^ g.seen[i]
	for d := 0; d < 8; d++ {
		if free&(1<<d) != 0 {
			return d
		}
	}
	return -1
}

func (g *skeletonGraph) point(i int) geom.Point {
	return geom.Point{X: float64(i % g.m.Width), Y: float64(i / g.m.Width)}
}

// walk follows the edge leaving i in direction d until it reaches a pixel
// whose degree is not 2 or runs out of unwalked edges.
func (g *skeletonGraph) walk(i, d int) geom.Path {
	path := geom.Path{g.point(i)}
	for {
		g.markSeen(i, d)
		i = g.step(i, d)
		path = append(path, g.point(i))
		if g.degree(i) != 2 {
			return path
		}
		if d = g.nextUnseen(i); d < 0 {
			return path
		}
	}
}

// Trace splits a skeleton into polylines. Branches are walked from every
// endpoint and junction pixel in raster order; cycles without any such pixel
// are then walked as closed paths that repeat their first point at the end.
// Isolated pixels produce no path.
func Trace(skel *mask.Mask) []geom.Path {
	g := newSkeletonGraph(skel)
	paths := make([]geom.Path, 0)

	for i, on := range skel.Pix {
		if !on || g.degree(i) == 2 {
			continue
		}
		for d := g.nextUnseen(i); d >= 0; d = g.nextUnseen(i) {
			paths = append(paths, g.walk(i, d))
		}
	}

	for i, on := range skel.Pix {
		if !on {
			continue
		}
		if d := g.nextUnseen(i); d >= 0 {
			paths = append(paths, g.walk(i, d))
		}
	}

	return paths
}
