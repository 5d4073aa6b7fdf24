package imaging

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex formats the color as lowercase "#rrggbb".
func (c RGBColor) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// RGBA implements color.Color with full opacity.
func (c RGBColor) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// ParseHex parses "#rrggbb" (or "#rgb") into an RGBColor.
func ParseHex(s string) (RGBColor, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, err
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// toRGB converts any color to 8-bit non-premultiplied RGB.
func toRGB(c color.Color) RGBColor {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBColor{R: n.R, G: n.G, B: n.B}
}

// SampleColor returns the color at (x, y), with the coordinates clamped into
// the image bounds. Coordinates are relative to the image origin.
func SampleColor(img image.Image, x, y int) RGBColor {
	b := img.Bounds()
	if b.Empty() {
		return RGBColor{}
	}
	x = clamp(x, 0, b.Dx()-1)
	y = clamp(y, 0, b.Dy()-1)
	return toRGB(img.At(b.Min.X+x, b.Min.Y+y))
}

// ColorCluster is one group of the line-color clustering result.
type ColorCluster struct {
	RGB        RGBColor `json:"rgb"`        // Cluster center, rounded to 8 bits
	Hex        string   `json:"hex"`        // Lowercase "#rrggbb" of the center
	Count      int      `json:"count"`      // Pixels assigned to the cluster
	Percentage float64  `json:"percentage"` // Share of clustered pixels (0-100)
}

// ClusterOptions controls ClusterColors.
type ClusterOptions struct {
	// MaxIterations bounds the refinement steps of a single attempt.
	MaxIterations int
	// Epsilon stops an attempt once no center moves farther than this.
	Epsilon float64
	// Attempts is the number of restarts; the most compact result wins.
	Attempts int
	// Seed makes the clustering reproducible.
	Seed int64
}

// DefaultClusterOptions mirrors the usual k-means termination criteria:
// 100 iterations or a center shift below 0.2, best of 10 attempts.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{MaxIterations: 100, Epsilon: 0.2, Attempts: 10, Seed: 1}
}

// ClusterColors groups the colors of the pixels of img under m into at most k
// clusters with k-means (k-means++ seeding) and returns them sorted by pixel
// count, largest first.
//
// k is reduced to the number of selected pixels. A k below 1, or a mask that
// selects no pixel, yields an empty (non-nil) slice.
func ClusterColors(img image.Image, m *mask.Mask, k int, opts ClusterOptions) []ColorCluster {
	result := make([]ColorCluster, 0)
	if k < 1 {
		return result
	}

	samples := make([][]float64, 0)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Get(x, y) {
				continue
			}
			c := SampleColor(img, x, y)
			samples = append(samples, []float64{float64(c.R), float64(c.G), float64(c.B)})
		}
	}
	if len(samples) == 0 {
		return result
	}
	if k > len(samples) {
		k = len(samples)
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	var bestCenters [][]float64
	var bestLabels []int
	bestCompactness := math.Inf(1)
	for attempt := 0; attempt < opts.Attempts; attempt++ {
		centers, labels, compactness := kmeans(samples, k, opts, rng)
		if compactness < bestCompactness {
			bestCompactness = compactness
			bestCenters = centers
			bestLabels = labels
		}
	}

	counts := make([]int, k)
	for _, l := range bestLabels {
		counts[l]++
	}
	for i, c := range bestCenters {
		rgb := RGBColor{R: toByte(c[0]), G: toByte(c[1]), B: toByte(c[2])}
		result = append(result, ColorCluster{
			RGB:        rgb,
			Hex:        rgb.Hex(),
			Count:      counts[i],
			Percentage: float64(counts[i]) / float64(len(samples)) * 100,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

func kmeans(samples [][]float64, k int, opts ClusterOptions, rng *rand.Rand) ([][]float64, []int, float64) {
	centers := seedCenters(samples, k, rng)
	labels := make([]int, len(samples))

	for iter := 0; iter < opts.MaxIterations; iter++ {
		assign(samples, centers, labels)

		next := make([][]float64, k)
		counts := make([]int, k)
		for i := range next {
			next[i] = make([]float64, 3)
		}
		for i, s := range samples {
			floats.Add(next[labels[i]], s)
			counts[labels[i]]++
		}
		shift := 0.0
		for i := range next {
			if counts[i] == 0 {
				// Reseed an empty cluster on a random sample.
				copy(next[i], samples[rng.Intn(len(samples))])
			} else {
				floats.Scale(1/float64(counts[i]), next[i])
			}
			shift = math.Max(shift, floats.Distance(next[i], centers[i], 2))
		}
		centers = next
		if shift < opts.Epsilon {
			break
		}
	}

	compactness := assign(samples, centers, labels)
	return centers, labels, compactness
}

// assign labels every sample with its nearest center and returns the sum of
// squared distances.
func assign(samples, centers [][]float64, labels []int) float64 {
	total := 0.0
	for i, s := range samples {
		best := 0
		bestDist := math.Inf(1)
		for j, c := range centers {
			d := floats.Distance(s, c, 2)
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		labels[i] = best
		total += bestDist * bestDist
	}
	return total
}

// seedCenters picks k initial centers with k-means++: each new center is a
// sample drawn with probability proportional to its squared distance from
// the nearest center chosen so far.
func seedCenters(samples [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	first := samples[rng.Intn(len(samples))]
	centers = append(centers, append([]float64(nil), first...))

	dist := make([]float64, len(samples))
	for len(centers) < k {
		total := 0.0
		for i, s := range samples {
			d := floats.Distance(s, centers[len(centers)-1], 2)
			d *= d
			if len(centers) == 1 || d < dist[i] {
				dist[i] = d
			}
			total += dist[i]
		}
		idx := 0
		if total > 0 {
			target := rng.Float64() * total
			for idx = 0; idx < len(samples)-1; idx++ {
				target -= dist[idx]
				if target <= 0 {
					break
				}
			}
		} else {
			idx = rng.Intn(len(samples))
		}
		centers = append(centers, append([]float64(nil), samples[idx]...))
	}
	return centers
}

// toByte truncates a cluster center component to 8 bits.
func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v)))
}
