package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/lineart-vectorizer/internal/imaging"
	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// Result holds the masks and side outputs of a detection run.
type Result struct {
	// LineMask and FillMask have the source image's size.
	LineMask *mask.Mask
	FillMask *mask.Mask

	// Colors is nil when clustering is disabled.
	Colors []imaging.ColorCluster

	// Preview is nil unless Options.Preview is set.
	Preview *image.NRGBA

	Stats Stats
}

// Stats summarizes a detection run for reporting.
type Stats struct {
	Width              int                    `json:"width"`
	Height             int                    `json:"height"`
	BackgroundMode     string                 `json:"background_mode"`
	Threshold          int                    `json:"threshold"`
	Method             string                 `json:"method"`
	FillHandling       string                 `json:"fill_handling"`
	ForegroundPixels   int                    `json:"foreground_pixels"`
	LinePixels         int                    `json:"line_pixels"`
	FillPixels         int                    `json:"fill_pixels"`
	FillRegionsRemoved int                    `json:"fill_regions_removed"`
	Colors             []imaging.ColorCluster `json:"colors,omitempty"`
}

// Detector splits rasters into line and fill masks. Its options are fixed
// at construction.
type Detector struct {
	opts Options
}

// NewDetector validates opts and returns a Detector.
func NewDetector(opts Options) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	return &Detector{opts: opts}, nil
}

// Options returns the detector's configuration.
func (d *Detector) Options() Options { return d.opts }

// Detect separates img into line and fill masks.
//
// An image with no foreground at all (a blank page) produces empty masks and
// no error. Only a zero-sized image is rejected.
func (d *Detector) Detect(img image.Image) (*Result, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot detect regions in an empty image")
	}
	o := d.opts

	gray := imaging.ToGray(img)
	foreground, threshold := d.separateBackground(gray)

	line := mask.New(foreground.Width, foreground.Height)
	if !foreground.Empty() {
		line = d.detectLines(gray, foreground)
	}

	fill, removed := d.separateFill(foreground, line)

	res := &Result{
		LineMask: line,
		FillMask: fill,
		Stats: Stats{
			Width:              foreground.Width,
			Height:             foreground.Height,
			BackgroundMode:     o.Background.String(),
			Threshold:          threshold,
			Method:             o.Method.String(),
			FillHandling:       o.Fill.String(),
			ForegroundPixels:   foreground.Count(),
			LinePixels:         line.Count(),
			FillPixels:         fill.Count(),
			FillRegionsRemoved: removed,
		},
	}

	if o.NumColors > 0 {
		res.Colors = imaging.ClusterColors(img, line, o.NumColors, o.Cluster)
		res.Stats.Colors = res.Colors
	}
	if o.Preview {
		res.Preview = imaging.RegionPreview(img, line, fill)
	}

	o.Logger.Debug("regions detected",
		"threshold", threshold,
		"foreground", res.Stats.ForegroundPixels,
		"line", res.Stats.LinePixels,
		"fill", res.Stats.FillPixels,
		"method", o.Method)

	return res, nil
}

// separateBackground thresholds gray into a foreground mask and cleans it
// with a 3x3 opening then closing. It returns the gray level used.
func (d *Detector) separateBackground(gray *image.Gray) (*mask.Mask, int) {
	var threshold int
	var fg *mask.Mask

	switch d.opts.Background {
	case BackgroundWhite:
		threshold = d.opts.BackgroundThreshold
		fg = mask.FromGray(gray, func(v uint8) bool { return int(v) <= threshold })
	case BackgroundBlack:
		threshold = 255 - d.opts.BackgroundThreshold
		fg = mask.FromGray(gray, func(v uint8) bool { return int(v) > threshold })
	default:
		threshold = int(mask.OtsuThreshold(gray))
		fg = mask.FromGray(gray, func(v uint8) bool { return int(v) <= threshold })
	}

	return mask.Close(mask.Open(fg, 3), 3), threshold
}

func (d *Detector) detectLines(gray *image.Gray, fg *mask.Mask) *mask.Mask {
	switch d.opts.Method {
	case MethodEdge:
		return d.edgeLines(gray, fg)
	case MethodMorphology:
		return d.morphologyLines(fg)
	default:
		union, _ := d.edgeLines(gray, fg).Or(d.morphologyLines(fg))
		return mask.Close(union, 3)
	}
}

// edgeLines grows Canny edges by the minimum stroke width and keeps the
// part inside the foreground.
func (d *Detector) edgeLines(gray *image.Gray, fg *mask.Mask) *mask.Mask {
	edges := imaging.Canny(gray, d.opts.CannyLow, d.opts.CannyHigh)
	grown := mask.Dilate(edges, max(3, d.opts.MinLineWidth))
	lines, _ := grown.And(fg)
	return lines
}

// morphologyLines keeps the shell that eroding by half the maximum stroke
// width strips from the foreground. Strokes thinner than the kernel vanish
// entirely under erosion and so survive whole.
func (d *Detector) morphologyLines(fg *mask.Mask) *mask.Mask {
	eroded := mask.Erode(fg, max(3, d.opts.MaxLineWidth/2))
	shell, _ := fg.Subtract(eroded)
	return mask.Open(shell, 3)
}

// separateFill derives the fill mask from the foreground and line masks. It
// returns the mask and the number of regions dropped as too small.
func (d *Detector) separateFill(fg, line *mask.Mask) (*mask.Mask, int) {
	if d.opts.Fill == FillIgnore {
		return mask.New(fg.Width, fg.Height), 0
	}

	fill, _ := fg.Subtract(line)
	if d.opts.Fill == FillInclude {
		return fill, 0
	}

	fill = mask.Open(fill, 5)
	return mask.RemoveSmallComponents(fill, d.opts.MinFillArea)
}
