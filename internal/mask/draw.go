package mask

import "image"

// DrawLine turns on the pixels of the segment a-b using Bresenham's
// algorithm. Pixels outside the mask are skipped.
func (m *Mask) DrawLine(a, b image.Point) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		m.Set(x, y, true)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// DrawContour draws c as a closed one-pixel polyline.
func (m *Mask) DrawContour(c Contour) {
	switch len(c) {
	case 0:
		return
	case 1:
		m.Set(c[0].X, c[0].Y, true)
		return
	}
	for i := range c {
		m.DrawLine(c[i], c[(i+1)%len(c)])
	}
}
