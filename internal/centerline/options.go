package centerline

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/lineart-vectorizer/internal/enum"
)

// Algorithm selects the skeletonization strategy.
type Algorithm int

const (
	// AlgorithmSkeleton thins the mask with Zhang-Suen.
	AlgorithmSkeleton Algorithm = iota
	// AlgorithmMedialAxis thins in distance order and drops low-distance
	// pixels.
	AlgorithmMedialAxis
	// AlgorithmRidge keeps the local maxima of the distance transform.
	AlgorithmRidge
)

var algorithmNames = enum.Names[Algorithm]{
	AlgorithmSkeleton:   "skeleton",
	AlgorithmMedialAxis: "medial_axis",
	AlgorithmRidge:      "ridge",
}

func (a Algorithm) String() string { return algorithmNames.String(a) }

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(b []byte) error {
	v, err := algorithmNames.Parse(string(b), "centerline algorithm")
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Algorithms lists the accepted algorithm names.
func Algorithms() []string { return algorithmNames.List() }

// DefaultGenerator is written to the SVG metadata.
const DefaultGenerator = "lineart-vectorizer"

// Options configures an Extractor.
type Options struct {
	Algorithm Algorithm `toml:"algorithm" json:"algorithm"`

	// Smoothing scales the residual budget of the smoothing spline (0-10).
	Smoothing float64 `toml:"smoothing" json:"smoothing"`

	// MinPathLength is the minimum number of traced points a path needs.
	MinPathLength int `toml:"min_path_length" json:"min_path_length"`

	// SimplifyTolerance is the Douglas-Peucker epsilon; zero disables.
	SimplifyTolerance float64 `toml:"simplify_tolerance" json:"simplify_tolerance"`

	BezierSmoothing bool `toml:"bezier_smoothing" json:"bezier_smoothing"`
	PreserveColors  bool `toml:"preserve_colors" json:"preserve_colors"`

	StrokeWidth float64 `toml:"stroke_width" json:"stroke_width"`

	// MedialPercentile is the percentile of nonzero distances at or below
	// which medial axis pixels are discarded.
	MedialPercentile float64 `toml:"medial_percentile" json:"medial_percentile"`

	// RidgeThreshold is the normalized distance a ridge pixel must exceed.
	RidgeThreshold float64 `toml:"ridge_threshold" json:"ridge_threshold"`

	Preview   bool   `toml:"preview" json:"preview"`
	Generator string `toml:"generator" json:"generator"`

	Logger *log.Logger `toml:"-" json:"-"`
}

// DefaultOptions returns ridge extraction with smoothing and color
// preservation enabled.
func DefaultOptions() Options {
	return Options{
		Algorithm:         AlgorithmRidge,
		Smoothing:         1.0,
		MinPathLength:     10,
		SimplifyTolerance: 1.0,
		BezierSmoothing:   true,
		PreserveColors:    true,
		StrokeWidth:       2,
		MedialPercentile:  10,
		RidgeThreshold:    0.1,
		Generator:         DefaultGenerator,
	}
}

// ErrInvalidOptions is wrapped by every Validate failure.
var ErrInvalidOptions = errors.New("invalid centerline options")

// Validate checks ranges and the algorithm.
func (o Options) Validate() error {
	if !algorithmNames.Valid(o.Algorithm) {
		return fmt.Errorf("%w: algorithm %d", ErrInvalidOptions, o.Algorithm)
	}
	switch {
	case o.Smoothing < 0 || o.Smoothing > 10:
		return fmt.Errorf("%w: smoothing %.2f outside 0-10", ErrInvalidOptions, o.Smoothing)
	case o.MinPathLength < 1:
		return fmt.Errorf("%w: min path length must be at least 1", ErrInvalidOptions)
	case o.SimplifyTolerance < 0:
		return fmt.Errorf("%w: simplify tolerance must not be negative", ErrInvalidOptions)
	case o.StrokeWidth <= 0:
		return fmt.Errorf("%w: stroke width must be positive", ErrInvalidOptions)
	case o.MedialPercentile < 0 || o.MedialPercentile > 100:
		return fmt.Errorf("%w: medial percentile %.1f outside 0-100", ErrInvalidOptions, o.MedialPercentile)
	case o.RidgeThreshold < 0 || o.RidgeThreshold >= 1:
		return fmt.Errorf("%w: ridge threshold %.2f outside [0, 1)", ErrInvalidOptions, o.RidgeThreshold)
	}
	return nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
