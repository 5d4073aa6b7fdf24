package mask

import (
	"image"
	"math"
)

// Contour is a closed border of a region, as an ordered list of pixels.
type Contour []image.Point

// ArcLength returns the length of the contour as an open polyline.
func (c Contour) ArcLength() float64 {
	var total float64
	for i := 1; i < len(c); i++ {
		total += math.Hypot(float64(c[i].X-c[i-1].X), float64(c[i].Y-c[i-1].Y))
	}
	return total
}

// Compress keeps only the pixels where the border changes direction, so that
// straight horizontal, vertical and diagonal runs are stored by their ends.
func (c Contour) Compress() Contour {
	n := len(c)
	if n < 3 {
		out := make(Contour, n)
		copy(out, c)
		return out
	}
	out := make(Contour, 0, n)
	for i := 0; i < n; i++ {
		prev := c[(i-1+n)%n]
		next := c[(i+1)%n]
		in := c[i].Sub(prev)
		outDir := next.Sub(c[i])
		if in != outDir {
			out = append(out, c[i])
		}
	}
	if len(out) == 0 {
		out = append(out, c[0])
	}
	return out
}

// Sample returns up to n pixels at evenly spaced indices, first and last
// included. Contours with n or fewer pixels are returned whole.
func (c Contour) Sample(n int) []image.Point {
	if len(c) <= n {
		out := make([]image.Point, len(c))
		copy(out, c)
		return out
	}
	out := make([]image.Point, n)
	last := len(c) - 1
	for i := 0; i < n; i++ {
		out[i] = c[i*last/(n-1)]
	}
	return out
}

// clockwise direction offsets as (drow, dcol), starting east.
var borderDirs = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

func borderDir(dr, dc int) int {
	for i, d := range borderDirs {
		if d[0] == dr && d[1] == dc {
			return i
		}
	}
	return 0
}

// Borders traces every outer border and hole border of m using the
// Suzuki-Abe border following algorithm. Borders are returned in the order
// their starting pixels are met in a raster scan, without hierarchy.
func Borders(m *Mask) []Contour {
	w, h := m.Width+2, m.Height+2
	f := make([]int, w*h)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] {
				f[(y+1)*w+x+1] = 1
			}
		}
	}

	at := func(r, c int) int { return f[r*w+c] }
	contours := make([]Contour, 0)
	nbd := 1

	for i := 1; i < h-1; i++ {
		for j := 1; j < w-1; j++ {
			fij := at(i, j)
			if fij == 0 {
				continue
			}
			var fromR, fromC int
			switch {
			case fij == 1 && at(i, j-1) == 0:
				fromR, fromC = i, j-1
			case fij >= 1 && at(i, j+1) == 0:
				fromR, fromC = i, j+1
			default:
				continue
			}
			nbd++
			contours = append(contours, followBorder(f, w, i, j, fromR, fromC, nbd))
		}
	}
	return contours
}

func followBorder(f []int, w, i, j, fromR, fromC, nbd int) Contour {
	at := func(r, c int) int { return f[r*w+c] }
	set := func(r, c, v int) { f[r*w+c] = v }
	pt := func(r, c int) image.Point { return image.Pt(c-1, r-1) }

	// Search clockwise from the entry pixel for the first on neighbor.
	d0 := borderDir(fromR-i, fromC-j)
	first := -1
	for k := 0; k < 8; k++ {
		d := (d0 + k) % 8
		if at(i+borderDirs[d][0], j+borderDirs[d][1]) != 0 {
			first = d
			break
		}
	}
	if first < 0 {
		set(i, j, -nbd)
		return Contour{pt(i, j)}
	}

	i1, j1 := i+borderDirs[first][0], j+borderDirs[first][1]
	i2, j2 := i1, j1
	i3, j3 := i, j
	contour := Contour{pt(i, j)}

	for {
		// Search counterclockwise around (i3,j3), starting after (i2,j2).
		dPrev := borderDir(i2-i3, j2-j3)
		eastExamined := false
		var i4, j4 int
		for k := 1; k <= 8; k++ {
			d := (dPrev - k + 16) % 8
			r, c := i3+borderDirs[d][0], j3+borderDirs[d][1]
			if at(r, c) != 0 {
				i4, j4 = r, c
				break
			}
			if d == 0 {
				eastExamined = true
			}
		}

		if eastExamined {
			set(i3, j3, -nbd)
		} else if at(i3, j3) == 1 {
			set(i3, j3, nbd)
		}

		if i4 == i && j4 == j && i3 == i1 && j3 == j1 {
			return contour
		}
		i2, j2 = i3, j3
		i3, j3 = i4, j4
		contour = append(contour, pt(i3, j3))
	}
}
