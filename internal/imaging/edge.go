package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// Canny performs Canny-style edge detection on a grayscale image and returns
// the edge pixels as a mask of the same size.
//
// Parameters:
//   - gray: Source luminance image.
//   - thresholdLow: Low hysteresis threshold (0-255). Gradients below it are
//     discarded. Typical value: 50.
//   - thresholdHigh: High hysteresis threshold (0-255). Gradients above it are
//     always edges. Typical value: 150.
//
// # Algorithm
//
//  1. Gaussian blur: 5x5 kernel to reduce noise
//
//  2. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  3. Non-maximum suppression: thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  4. Hysteresis: pixels above thresholdHigh seed edges, and every pixel
//     above thresholdLow that is 8-connected to a seed through other such
//     pixels is kept
//
// Intensities are scaled to [0,1] before filtering, so the thresholds are
// divided by 255 to match.
func Canny(gray *image.Gray, thresholdLow, thresholdHigh int) *mask.Mask {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := mask.New(width, height)
	if width == 0 || height == 0 {
		return out
	}

	values := make([][]float64, height)
	for y := 0; y < height; y++ {
		values[y] = make([]float64, width)
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x, v := range row {
			values[y][x] = float64(v) / 255.0
		}
	}

	blurred := gaussianBlur(values, width, height)

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			magnitude[y] = make([]float64, width)
			direction[y] = make([]float64, width)
			for x := 0; x < width; x++ {
				var gx, gy float64
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						gx += blurred[py][px] * sobelX[ky+1][kx+1]
						gy += blurred[py][px] * sobelY[ky+1][kx+1]
					}
				}
				magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
				direction[y][x] = math.Atan2(gy, gx)
			}
		}
	})

	// Non-maximum suppression
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	// Hysteresis: grow strong edges through weak ones.
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	stack := make([]image.Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if suppressed[y][x] >= highThresh && suppressed[y][x] > 0 {
				out.Set(x, y, true)
				stack = append(stack, image.Pt(x, y))
			}
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				px, py := p.X+kx, p.Y+ky
				if px < 0 || py < 0 || px >= width || py >= height || out.Get(px, py) {
					continue
				}
				if v := suppressed[py][px]; v >= lowThresh && v > 0 {
					out.Set(px, py, true)
					stack = append(stack, image.Pt(px, py))
				}
			}
		}
	}

	return out
}

// gaussianBlur applies a 5x5 Gaussian blur to reduce noise before edge detection.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img [][]float64, width, height int) [][]float64 {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	kernelSum := 273.0

	result := make([][]float64, height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			result[y] = make([]float64, width)
			for x := 0; x < width; x++ {
				var sum float64
				for ky := -2; ky <= 2; ky++ {
					for kx := -2; kx <= 2; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						sum += img[py][px] * kernel[ky+2][kx+2]
					}
				}
				result[y][x] = sum / kernelSum
			}
		}
	})
	return result
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
