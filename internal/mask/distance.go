package mask

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Field is a float grid aligned with a Mask.
type Field struct {
	Width  int
	Height int
	Values []float64
}

// At returns the value at (x, y), or 0 outside the field.
func (f *Field) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Values[y*f.Width+x]
}

// Max returns the largest value in the field.
func (f *Field) Max() float64 {
	max := 0.0
	for _, v := range f.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// Normalized returns a copy of f scaled into [0, 1]. A field whose maximum is
// zero is returned as all zeros.
func (f *Field) Normalized() *Field {
	out := &Field{Width: f.Width, Height: f.Height, Values: make([]float64, len(f.Values))}
	max := f.Max()
	if max == 0 {
		return out
	}
	for i, v := range f.Values {
		out.Values[i] = v / max
	}
	return out
}

// LocalMax returns the 3x3 maximum filter of f.
func (f *Field) LocalMax() *Field {
	out := &Field{Width: f.Width, Height: f.Height, Values: make([]float64, len(f.Values))}
	parallel.Line(f.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < f.Width; x++ {
				best := math.Inf(-1)
				for dy := -1; dy <= 1; dy++ {
					yy := y + dy
					if yy < 0 || yy >= f.Height {
						continue
					}
					for dx := -1; dx <= 1; dx++ {
						xx := x + dx
						if xx < 0 || xx >= f.Width {
							continue
						}
						if v := f.Values[yy*f.Width+xx]; v > best {
							best = v
						}
					}
				}
				out.Values[y*f.Width+x] = best
			}
		}
	})
	return out
}

// Ridges returns the pixels of f that equal their 3x3 maximum and exceed
// threshold. f is expected to be normalized.
func Ridges(f *Field, threshold float64) *Mask {
	peaks := f.LocalMax()
	out := New(f.Width, f.Height)
	for i, v := range f.Values {
		out.Pix[i] = v > threshold && v == peaks.Values[i]
	}
	return out
}

// DistanceTransform returns, for every on pixel, the exact Euclidean distance
// to the nearest off pixel. Off pixels have distance 0. The region beyond the
// image border is not treated as background; a mask with no off pixels gets
// the image diagonal everywhere.
//
// The transform is separable: a 1-D squared-distance pass over columns is
// followed by one over rows, each computing the lower envelope of parabolas.
func DistanceTransform(m *Mask) *Field {
	w, h := m.Width, m.Height
	out := &Field{Width: w, Height: h, Values: make([]float64, w*h)}
	if w == 0 || h == 0 {
		return out
	}

	if m.Count() == len(m.Pix) {
		diag := math.Hypot(float64(w), float64(h))
		for i := range out.Values {
			out.Values[i] = diag
		}
		return out
	}

	const inf = 1e20
	sq := make([]float64, w*h)
	for i, on := range m.Pix {
		if on {
			sq[i] = inf
		}
	}

	parallel.Line(w, func(start, end int) {
		col := make([]float64, h)
		res := make([]float64, h)
		v := make([]int, h)
		z := make([]float64, h+1)
		for x := start; x < end; x++ {
			for y := 0; y < h; y++ {
				col[y] = sq[y*w+x]
			}
			squaredDistance1D(col, res, v, z)
			for y := 0; y < h; y++ {
				sq[y*w+x] = res[y]
			}
		}
	})

	parallel.Line(h, func(start, end int) {
		res := make([]float64, w)
		v := make([]int, w)
		z := make([]float64, w+1)
		for y := start; y < end; y++ {
			row := sq[y*w : (y+1)*w]
			squaredDistance1D(row, res, v, z)
			for x := 0; x < w; x++ {
				out.Values[y*w+x] = math.Sqrt(res[x])
			}
		}
	})

	return out
}

// squaredDistance1D computes the 1-D squared Euclidean distance transform of
// f into d. v and z are scratch buffers of length len(f) and len(f)+1.
func squaredDistance1D(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	for q := 1; q < n; q++ {
		s := intersect(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}

func intersect(f []float64, q, p int) float64 {
	fq, fp := f[q], f[p]
	return ((fq + float64(q*q)) - (fp + float64(p*p))) / float64(2*q-2*p)
}
