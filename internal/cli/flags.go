package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/lineart-vectorizer/internal/centerline"
	"github.com/ironsheep/lineart-vectorizer/internal/detection"
	"github.com/ironsheep/lineart-vectorizer/internal/maskclean"
	"github.com/ironsheep/lineart-vectorizer/internal/pathclean"
)

// Stage flags override the config only when given on the command line, so a
// flag's zero value never masks a config file setting.

type detectFlags struct {
	background string
	threshold  int
	method     string
	fill       string
	colors     int
}

func (f *detectFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.background, "background", "", "background mode: auto, white, black")
	fs.IntVar(&f.threshold, "threshold", 0, "background threshold (0-255)")
	fs.StringVar(&f.method, "method", "", "line detection method: edge, morphology, hybrid")
	fs.StringVar(&f.fill, "fill", "", "fill handling: ignore, separate, include")
	fs.IntVar(&f.colors, "colors", 0, "number of line colors to cluster (0 disables)")
}

func (f *detectFlags) apply(cmd *cobra.Command, o *detection.Options) error {
	fs := cmd.Flags()
	if fs.Changed("background") {
		if err := o.Background.UnmarshalText([]byte(f.background)); err != nil {
			return err
		}
	}
	if fs.Changed("threshold") {
		o.BackgroundThreshold = f.threshold
	}
	if fs.Changed("method") {
		if err := o.Method.UnmarshalText([]byte(f.method)); err != nil {
			return err
		}
	}
	if fs.Changed("fill") {
		if err := o.Fill.UnmarshalText([]byte(f.fill)); err != nil {
			return err
		}
	}
	if fs.Changed("colors") {
		o.NumColors = f.colors
	}
	return o.Validate()
}

type maskFlags struct {
	mode          string
	distance      int
	strength      float64
	minComponent  int
	ridgeMaskThr  float64
	minContourLen float64
}

func (f *maskFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.mode, "mode", "", "mask cleanup mode: "+strings.Join(maskclean.Modes(), ", "))
	fs.IntVar(&f.distance, "merge-distance", 0, "pixel distance under which strokes merge (1-20)")
	fs.Float64Var(&f.strength, "strength", 0, "merge distance multiplier (0.1-3.0)")
	fs.IntVar(&f.minComponent, "min-component", 0, "drop mask components smaller than this (0 disables)")
	fs.Float64Var(&f.ridgeMaskThr, "mask-ridge-threshold", 0, "normalized ridge threshold for distance_based")
	fs.Float64Var(&f.minContourLen, "min-contour-length", 0, "shortest border kept by remove_duplicates")
}

func (f *maskFlags) apply(cmd *cobra.Command, o *maskclean.Options) error {
	fs := cmd.Flags()
	if fs.Changed("mode") {
		if err := o.Mode.UnmarshalText([]byte(f.mode)); err != nil {
			return err
		}
	}
	if fs.Changed("merge-distance") {
		o.MergeDistance = f.distance
	}
	if fs.Changed("strength") {
		o.Strength = f.strength
	}
	if fs.Changed("min-component") {
		o.MinComponentSize = f.minComponent
	}
	if fs.Changed("mask-ridge-threshold") {
		o.RidgeThreshold = f.ridgeMaskThr
	}
	if fs.Changed("min-contour-length") {
		o.MinContourLength = f.minContourLen
	}
	return o.Validate()
}

type centerlineFlags struct {
	algorithm   string
	smoothing   float64
	minPoints   int
	simplify    float64
	smooth      bool
	colors      bool
	strokeWidth float64
}

func (f *centerlineFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.algorithm, "algorithm", "", "centerline algorithm: "+strings.Join(centerline.Algorithms(), ", "))
	fs.Float64Var(&f.smoothing, "smoothing", 0, "smoothing spline strength (0-10)")
	fs.IntVar(&f.minPoints, "min-points", 0, "drop traced paths with fewer points")
	fs.Float64Var(&f.simplify, "simplify", 0, "Douglas-Peucker tolerance for traced paths (0 disables)")
	fs.BoolVar(&f.smooth, "smooth", true, "smooth traced paths")
	fs.BoolVar(&f.colors, "preserve-colors", true, "stroke paths with the source image color")
	fs.Float64Var(&f.strokeWidth, "stroke-width", 0, "SVG stroke width")
}

func (f *centerlineFlags) apply(cmd *cobra.Command, o *centerline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("algorithm") {
		if err := o.Algorithm.UnmarshalText([]byte(f.algorithm)); err != nil {
			return err
		}
	}
	if fs.Changed("smoothing") {
		o.Smoothing = f.smoothing
	}
	if fs.Changed("min-points") {
		o.MinPathLength = f.minPoints
	}
	if fs.Changed("simplify") {
		o.SimplifyTolerance = f.simplify
	}
	if fs.Changed("smooth") {
		o.BezierSmoothing = f.smooth
	}
	if fs.Changed("preserve-colors") {
		o.PreserveColors = f.colors
	}
	if fs.Changed("stroke-width") {
		o.StrokeWidth = f.strokeWidth
	}
	return o.Validate()
}

type pathFlags struct {
	minLength     float64
	mergeDistance float64
	tolerance     float64
	nearDistance  float64
	decimals      int
	sort          bool
}

func (f *pathFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.minLength, "min-length", 0, "drop paths shorter than this arc length (0-100)")
	fs.Float64Var(&f.mergeDistance, "join-distance", 0, "join paths whose ends are this close (0-20)")
	fs.Float64Var(&f.tolerance, "tolerance", 0, "path simplification tolerance (0-5)")
	fs.Float64Var(&f.nearDistance, "near-distance", 0, "mean distance under which paths are near duplicates (0-10)")
	fs.IntVar(&f.decimals, "decimals", 0, "coordinate decimal places (0-6)")
	fs.BoolVar(&f.sort, "sort-before-merge", false, "order paths by leading endpoint before joining")
}

func (f *pathFlags) apply(cmd *cobra.Command, o *pathclean.Options) error {
	fs := cmd.Flags()
	if fs.Changed("min-length") {
		o.MinPathLength = f.minLength
	}
	if fs.Changed("join-distance") {
		o.MergeDistance = f.mergeDistance
	}
	if fs.Changed("tolerance") {
		o.SimplifyTolerance = f.tolerance
	}
	if fs.Changed("near-distance") {
		o.NearDuplicateDistance = f.nearDistance
	}
	if fs.Changed("decimals") {
		o.DecimalPlaces = f.decimals
	}
	if fs.Changed("sort-before-merge") {
		o.SortBeforeMerge = f.sort
	}
	return o.Validate()
}
