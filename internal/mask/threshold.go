package mask

import "image"

// Histogram counts the pixels of each 8-bit value in img.
func Histogram(img *image.Gray) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for _, v := range img.Pix[y*img.Stride : y*img.Stride+b.Dx()] {
			hist[v]++
		}
	}
	return hist
}

// OtsuThreshold returns the gray level that maximizes the between-class
// variance of the histogram, which is the split minimizing the combined
// intra-class variance. Pixels at or below the level form one class.
func OtsuThreshold(img *image.Gray) uint8 {
	hist := Histogram(img)

	total := 0
	sum := 0.0
	for i, c := range hist {
		total += c
		sum += float64(i * c)
	}
	if total == 0 {
		return 0
	}

	var sumB float64
	var wB int
	var maxVar float64
	threshold := 0

	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			threshold = t
		}
	}
	return uint8(threshold)
}
