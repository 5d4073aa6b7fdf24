package centerline

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/lineart-vectorizer/internal/geom"
	"github.com/ironsheep/lineart-vectorizer/internal/imaging"
	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// DefaultColor strokes paths when colors are not preserved.
const DefaultColor = "#000000"

// ColoredPath is a traced polyline and its stroke color.
type ColoredPath struct {
	Points geom.Path
	Color  string
}

// Result is the output of Extract.
type Result struct {
	Skeleton *mask.Mask
	Paths    []ColoredPath
	SVG      string
	Preview  *image.NRGBA // nil unless Options.Preview
	Stats    Stats
}

// Stats summarizes the extracted paths.
type Stats struct {
	PathCount         int     `json:"path_count"`
	TotalLength       float64 `json:"total_length"`
	AveragePathLength float64 `json:"average_path_length"`
	ImageSize         [2]int  `json:"image_size"`
	Algorithm         string  `json:"algorithm"`
	ColorsUsed        int     `json:"colors_used"`
	SkeletonPixels    int     `json:"skeleton_pixels"`
	TracedPaths       int     `json:"traced_paths"`
}

// Extractor converts line masks to SVG paths with fixed options.
type Extractor struct {
	opts Options
	now  func() time.Time
}

// NewExtractor validates opts and returns an Extractor.
func NewExtractor(opts Options) (*Extractor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Generator == "" {
		opts.Generator = DefaultGenerator
	}
	return &Extractor{opts: opts, now: time.Now}, nil
}

// Extract skeletonizes m, traces and post-processes the paths and renders
// them as SVG. source, when not nil, supplies path colors if
// Options.PreserveColors is set; it should have the same size as m.
func (e *Extractor) Extract(m *mask.Mask, source image.Image) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("centerline: nil mask")
	}
	o := e.opts

	skel := Skeletonize(m, o)
	traced := Trace(skel)

	paths := make([]geom.Path, 0, len(traced))
	for _, p := range traced {
		if len(p) < o.MinPathLength {
			continue
		}
		if o.SimplifyTolerance > 0 {
			p = geom.Simplify(p, o.SimplifyTolerance, geom.LineDistance)
		}
		if len(p) < 2 {
			continue
		}
		if o.BezierSmoothing {
			p = Smooth(p, o.Smoothing)
		}
		paths = append(paths, p)
	}

	colored := make([]ColoredPath, len(paths))
	for i, p := range paths {
		colored[i] = ColoredPath{Points: p, Color: e.pathColor(p, source)}
	}

	var buf bytes.Buffer
	err := WriteSVG(&buf, Document{
		Width:       m.Width,
		Height:      m.Height,
		Paths:       colored,
		StrokeWidth: o.StrokeWidth,
		Generator:   o.Generator,
		Created:     e.now(),
		RunID:       uuid.New(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write svg: %w", err)
	}

	res := &Result{
		Skeleton: skel,
		Paths:    colored,
		SVG:      buf.String(),
		Stats:    computeStats(colored, m.Width, m.Height, o.Algorithm),
	}
	res.Stats.SkeletonPixels = skel.Count()
	res.Stats.TracedPaths = len(traced)

	if o.Preview {
		res.Preview = imaging.CenterlinePreview(skel, paths, o.StrokeWidth)
	}

	o.Logger.Debug("centerlines extracted",
		"algorithm", o.Algorithm,
		"skeleton", res.Stats.SkeletonPixels,
		"traced", res.Stats.TracedPaths,
		"paths", res.Stats.PathCount)

	return res, nil
}

// pathColor samples source at the path's middle point, clamped to the image.
func (e *Extractor) pathColor(p geom.Path, source image.Image) string {
	if !e.opts.PreserveColors || source == nil {
		return DefaultColor
	}
	mid := p[len(p)/2]
	return imaging.SampleColor(source, int(mid.X), int(mid.Y)).Hex()
}

func computeStats(paths []ColoredPath, width, height int, algorithm Algorithm) Stats {
	s := Stats{
		PathCount: len(paths),
		ImageSize: [2]int{width, height},
		Algorithm: algorithm.String(),
	}
	colors := make(map[string]struct{})
	for _, p := range paths {
		s.TotalLength += p.Points.Length()
		colors[p.Color] = struct{}{}
	}
	if len(paths) > 0 {
		s.AveragePathLength = s.TotalLength / float64(len(paths))
	}
	s.ColorsUsed = len(colors)
	return s
}
