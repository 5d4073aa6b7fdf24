package mask

import (
	"github.com/anthonynsimon/bild/effect"
)

// kernelRadius converts a square kernel size to the radius bild expects.
// bild's window length is int(2*radius+1.5), so (k-1)/2 yields exactly k.
func kernelRadius(k int) float64 {
	return float64(k-1) / 2
}

// Dilate grows the mask with a k*k square structuring element. Kernel sizes
// below 2 return a copy.
func Dilate(m *Mask, k int) *Mask {
	if k < 2 || m.Empty() {
		return m.Clone()
	}
	return FromImage(effect.Dilate(m.Image(), kernelRadius(k)))
}

// Erode shrinks the mask with a k*k square structuring element. Kernel sizes
// below 2 return a copy.
func Erode(m *Mask, k int) *Mask {
	if k < 2 || m.Empty() {
		return m.Clone()
	}
	return FromImage(effect.Erode(m.Image(), kernelRadius(k)))
}

// Open is an erosion followed by a dilation. It removes specks smaller than
// the kernel.
func Open(m *Mask, k int) *Mask {
	return Dilate(Erode(m, k), k)
}

// Close is a dilation followed by an erosion. It fills gaps smaller than the
// kernel.
func Close(m *Mask, k int) *Mask {
	return Erode(Dilate(m, k), k)
}
