package maskclean

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/lineart-vectorizer/internal/imaging"
	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// Result is the output of Cleanup.
type Result struct {
	Mask    *mask.Mask
	Preview *image.NRGBA // nil unless Options.Preview
	Stats   Stats
}

// Stats reports what a cleanup run changed.
type Stats struct {
	Mode              string `json:"mode"`
	InputPixels       int    `json:"input_pixels"`
	OutputPixels      int    `json:"output_pixels"`
	ComponentsRemoved int    `json:"components_removed"`
	ContoursKept      int    `json:"contours_kept,omitempty"`
	ContoursDropped   int    `json:"contours_dropped,omitempty"`
}

// Cleanup applies the configured mode to m, then removes small components.
// The input mask is not modified.
func Cleanup(m *mask.Mask, opts Options) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("mask cleanup: nil mask")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.logger()

	stats := Stats{Mode: opts.Mode.String(), InputPixels: m.Count()}

	var cleaned *mask.Mask
	switch opts.Mode {
	case ModeMergeCloseLines:
		cleaned = mergeCloseLines(m, opts.MergeDistance)
	case ModeRemoveDuplicates:
		cleaned, stats.ContoursKept, stats.ContoursDropped = removeDuplicates(m, opts)
	case ModeThinOnly:
		cleaned = mask.Thin(m)
	case ModeDistanceBased:
		cleaned = distanceBased(m, opts)
	}

	if opts.MinComponentSize > 0 {
		cleaned, stats.ComponentsRemoved = mask.RemoveSmallComponents(cleaned, opts.MinComponentSize)
	}
	stats.OutputPixels = cleaned.Count()

	res := &Result{Mask: cleaned, Stats: stats}
	if opts.Preview {
		res.Preview = imaging.MaskComparison(m, cleaned)
	}

	logger.Debug("mask cleaned",
		"mode", opts.Mode,
		"in", stats.InputPixels,
		"out", stats.OutputPixels,
		"components_removed", stats.ComponentsRemoved)

	return res, nil
}

func mergeCloseLines(m *mask.Mask, distance int) *mask.Mask {
	return mask.Thin(mask.Dilate(m, 2*distance+1))
}

// distanceBased keeps the ridge of the distance transform of the slightly
// dilated mask. A mask without any on pixel is returned unchanged.
func distanceBased(m *mask.Mask, opts Options) *mask.Mask {
	radius := max(1, int(float64(opts.MergeDistance)*opts.Strength))
	dilated := mask.Dilate(m, 2*radius+1)

	field := mask.DistanceTransform(dilated)
	if field.Max() == 0 {
		return m.Clone()
	}
	return mask.Thin(mask.Ridges(field.Normalized(), opts.RidgeThreshold))
}

type scoredContour struct {
	contour mask.Contour
	length  float64
}

// removeDuplicates redraws the borders of m, longest first, skipping every
// border whose sample points come within MergeDistance*Strength of a border
// already drawn. It returns the redrawn mask and the kept/dropped counts.
func removeDuplicates(m *mask.Mask, opts Options) (*mask.Mask, int, int) {
	borders := mask.Borders(m)
	if len(borders) == 0 {
		return m.Clone(), 0, 0
	}

	scored := make([]scoredContour, len(borders))
	for i, b := range borders {
		c := b.Compress()
		scored[i] = scoredContour{contour: c, length: c.ArcLength()}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].length > scored[j].length
	})

	threshold := float64(opts.MergeDistance) * opts.Strength
	out := mask.New(m.Width, m.Height)
	kept := make([][]image.Point, 0)
	dropped := 0

	for _, s := range scored {
		if s.length < opts.MinContourLength {
			dropped++
			continue
		}
		samples := s.contour.Sample(opts.ContourSamples)

		duplicate := false
		for _, k := range kept {
			if minDistance(samples, k) < threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			dropped++
			continue
		}

		kept = append(kept, samples)
		out.DrawContour(s.contour)
	}

	return out, len(kept), dropped
}

// minDistance returns the smallest distance between any point of a and any
// point of b.
func minDistance(a, b []image.Point) float64 {
	best := math.Inf(1)
	for _, p := range a {
		for _, q := range b {
			d := math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
			if d < best {
				best = d
			}
		}
	}
	return best
}
