package mask

import "image"

// Component is one 8-connected region of on pixels.
type Component struct {
	Pixels []image.Point
}

// Size returns the number of pixels in the component.
func (c Component) Size() int { return len(c.Pixels) }

// Components labels the 8-connected regions of m in raster-scan order of
// their first pixel.
func Components(m *Mask) []Component {
	visited := make([]bool, len(m.Pix))
	components := make([]Component, 0)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if m.Pix[i] && !visited[i] {
				pixels := make([]image.Point, 0)
				floodFill(m, visited, x, y, &pixels)
				components = append(components, Component{Pixels: pixels})
			}
		}
	}
	return components
}

// RemoveSmallComponents drops every 8-connected component with fewer than
// minSize pixels. It returns the filtered mask and the number of components
// removed. A minSize of 1 or less keeps everything.
func RemoveSmallComponents(m *Mask, minSize int) (*Mask, int) {
	if minSize <= 1 {
		return m.Clone(), 0
	}
	out := New(m.Width, m.Height)
	removed := 0
	for _, c := range Components(m) {
		if c.Size() < minSize {
			removed++
			continue
		}
		for _, p := range c.Pixels {
			out.Pix[p.Y*m.Width+p.X] = true
		}
	}
	return out, removed
}

// floodFill performs iterative flood-fill from a starting point.
//
// Uses a stack rather than recursion so that large regions cannot overflow
// the goroutine stack. Uses 8-connectivity (includes diagonal neighbors).
func floodFill(m *Mask, visited []bool, startX, startY int, pixels *[]image.Point) {
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= m.Width || p.Y < 0 || p.Y >= m.Height {
			continue
		}
		i := p.Y*m.Width + p.X
		if visited[i] || !m.Pix[i] {
			continue
		}

		visited[i] = true
		*pixels = append(*pixels, p)

		for _, d := range neighbors8 {
			stack = append(stack, image.Point{X: p.X + d[0], Y: p.Y + d[1]})
		}
	}
}
