package centerline

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// Skeletonize reduces m to a one-pixel-wide skeleton with the configured
// algorithm. A mask without on pixels yields an empty skeleton.
func Skeletonize(m *mask.Mask, opts Options) *mask.Mask {
	if m.Empty() {
		return mask.New(m.Width, m.Height)
	}

	switch opts.Algorithm {
	case AlgorithmSkeleton:
		return mask.Thin(m)
	case AlgorithmMedialAxis:
		return medialAxis(m, opts.MedialPercentile)
	default:
		return ridge(m, opts.RidgeThreshold)
	}
}

// medialAxis keeps the medial axis pixels whose distance to the background
// exceeds the given percentile of all nonzero distances.
func medialAxis(m *mask.Mask, percentile float64) *mask.Mask {
	skel, field := mask.MedialAxis(m)

	nonzero := make([]float64, 0, len(field.Values))
	for _, v := range field.Values {
		if v > 0 {
			nonzero = append(nonzero, v)
		}
	}
	if len(nonzero) == 0 {
		return skel
	}
	sort.Float64s(nonzero)
	threshold := stat.Quantile(percentile/100, stat.LinInterp, nonzero, nil)

	out := mask.New(m.Width, m.Height)
	for i, on := range skel.Pix {
		out.Pix[i] = on && field.Values[i] > threshold
	}
	return out
}

// ridge keeps the 3x3 local maxima of the normalized distance transform
// above threshold, then thins them.
func ridge(m *mask.Mask, threshold float64) *mask.Mask {
	field := mask.DistanceTransform(m).Normalized()
	return mask.Thin(mask.Ridges(field, threshold))
}
