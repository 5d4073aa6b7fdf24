package mask

import (
	"sort"
)

// medialKeep[idx] reports whether the center of the 3x3 pattern idx must be
// kept during medial axis thinning. Bit (dy+1)*3+(dx+1) of idx is the pixel at
// offset (dx, dy); bit 4 is the center.
var medialKeep [512]bool

// medialCornerness[idx] is the number of off pixels in pattern idx.
var medialCornerness [512]int

func init() {
	for idx := 0; idx < 512; idx++ {
		medialCornerness[idx] = 9 - popcount9(idx)
		if idx&(1<<4) == 0 {
			continue
		}
		medialKeep[idx] = components3x3(idx) != components3x3(idx&^(1<<4)) || popcount9(idx) < 3
	}
}

func popcount9(idx int) int {
	n := 0
	for b := 0; b < 9; b++ {
		if idx&(1<<b) != 0 {
			n++
		}
	}
	return n
}

// components3x3 counts the 8-connected components of a 3x3 pattern.
func components3x3(idx int) int {
	var seen [9]bool
	count := 0
	for start := 0; start < 9; start++ {
		if idx&(1<<start) == 0 || seen[start] {
			continue
		}
		count++
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cy, cx := c/3, c%3
			for n := 0; n < 9; n++ {
				ny, nx := n/3, n%3
				if seen[n] || idx&(1<<n) == 0 {
					continue
				}
				if abs(ny-cy) <= 1 && abs(nx-cx) <= 1 {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return count
}

func pattern3x3(m *Mask, x, y int) int {
	idx := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if m.Get(x+dx, y+dy) {
				idx |= 1 << ((dy+1)*3 + (dx + 1))
			}
		}
	}
	return idx
}

// MedialAxis thins m to its medial axis and returns the skeleton together
// with the distance transform of m.
//
// Pixels are visited in order of increasing distance to the background, and
// among equal distances the less "cornery" ones first, so that the region is
// peeled from the outside in. A visited pixel is removed unless removing it
// would change the number of connected components in its 3x3 neighborhood or
// it is an endpoint. Passes repeat until nothing changes.
func MedialAxis(m *Mask) (*Mask, *Field) {
	dist := DistanceTransform(m)
	out := m.Clone()

	type candidate struct {
		idx    int
		dist   float64
		corner int
	}
	cands := make([]candidate, 0, m.Count())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if !m.Pix[i] {
				continue
			}
			cands = append(cands, candidate{
				idx:    i,
				dist:   dist.Values[i],
				corner: medialCornerness[pattern3x3(m, x, y)],
			})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].dist != cands[b].dist {
			return cands[a].dist < cands[b].dist
		}
		return cands[a].corner < cands[b].corner
	})

	for {
		changed := false
		for _, c := range cands {
			if !out.Pix[c.idx] {
				continue
			}
			x, y := c.idx%m.Width, c.idx/m.Width
			if !medialKeep[pattern3x3(out, x, y)] {
				out.Pix[c.idx] = false
				changed = true
			}
		}
		if !changed {
			return out, dist
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
