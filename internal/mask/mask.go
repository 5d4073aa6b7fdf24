package mask

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/segment"
)

// Mask is a binary raster. Pix holds Width*Height values in row-major order.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// New returns an all-off mask of the given size.
func New(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{Width: width, Height: height, Pix: make([]bool, width*height)}
}

// FromGray builds a mask from a grayscale image; a pixel is on when pred
// returns true for its value.
func FromGray(img *image.Gray, pred func(v uint8) bool) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+m.Width]
		for x, v := range row {
			m.Pix[y*m.Width+x] = pred(v)
		}
	}
	return m
}

// FromImage builds a mask from any image: a pixel is on when its luminance is
// at least 128.
func FromImage(img image.Image) *Mask {
	return FromGray(segment.Threshold(img, 128), func(v uint8) bool { return v != 0 })
}

// Image encodes the mask as a grayscale image with on pixels at 255.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, on := range m.Pix {
		if on {
			img.Pix[i] = 255
		}
	}
	return img
}

// ColorModel, Bounds and At let a Mask be used directly as an image.Image.
func (m *Mask) ColorModel() color.Model { return color.GrayModel }

func (m *Mask) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

func (m *Mask) At(x, y int) color.Color {
	if m.Get(x, y) {
		return color.Gray{Y: 255}
	}
	return color.Gray{}
}

// Get reports whether (x, y) is on. Coordinates outside the mask are off.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set changes the value at (x, y). Coordinates outside the mask are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = on
}

// Clone returns a deep copy of m.
func (m *Mask) Clone() *Mask {
	c := New(m.Width, m.Height)
	copy(c.Pix, m.Pix)
	return c
}

// Count returns the number of on pixels.
func (m *Mask) Count() int {
	n := 0
	for _, on := range m.Pix {
		if on {
			n++
		}
	}
	return n
}

// Empty reports whether no pixel is on.
func (m *Mask) Empty() bool {
	for _, on := range m.Pix {
		if on {
			return false
		}
	}
	return true
}

// SameSize reports whether m and o have identical dimensions.
func (m *Mask) SameSize(o *Mask) bool {
	return m.Width == o.Width && m.Height == o.Height
}

func (m *Mask) combine(o *Mask, op func(a, b bool) bool) (*Mask, error) {
	if !m.SameSize(o) {
		return nil, fmt.Errorf("mask size mismatch: %dx%d vs %dx%d", m.Width, m.Height, o.Width, o.Height)
	}
	out := New(m.Width, m.Height)
	for i := range m.Pix {
		out.Pix[i] = op(m.Pix[i], o.Pix[i])
	}
	return out, nil
}

// And returns the intersection of m and o.
func (m *Mask) And(o *Mask) (*Mask, error) {
	return m.combine(o, func(a, b bool) bool { return a && b })
}

// Or returns the union of m and o.
func (m *Mask) Or(o *Mask) (*Mask, error) {
	return m.combine(o, func(a, b bool) bool { return a || b })
}

// Subtract returns the pixels of m that are not in o.
func (m *Mask) Subtract(o *Mask) (*Mask, error) {
	return m.combine(o, func(a, b bool) bool { return a && !b })
}

// neighbors8 lists the 8-connected offsets clockwise starting east.
var neighbors8 = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}
