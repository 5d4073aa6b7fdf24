package maskclean

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/lineart-vectorizer/internal/enum"
)

// Mode selects the cleanup strategy.
type Mode int

const (
	ModeMergeCloseLines Mode = iota
	ModeRemoveDuplicates
	ModeThinOnly
	ModeDistanceBased
)

var modeNames = enum.Names[Mode]{
	ModeMergeCloseLines:  "merge_close_lines",
	ModeRemoveDuplicates: "remove_duplicates",
	ModeThinOnly:         "thin_only",
	ModeDistanceBased:    "distance_based",
}

func (m Mode) String() string { return modeNames.String(m) }

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := modeNames.Parse(string(b), "cleanup mode")
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Modes lists the accepted mode names.
func Modes() []string { return modeNames.List() }

// Options configures Cleanup.
type Options struct {
	Mode Mode `toml:"mode" json:"mode"`

	// MergeDistance is the pixel distance under which parallel strokes are
	// considered the same line (1-20).
	MergeDistance int `toml:"merge_distance" json:"merge_distance"`

	// MinComponentSize drops smaller 8-connected components. Zero disables.
	MinComponentSize int `toml:"min_component_size" json:"min_component_size"`

	// Strength scales MergeDistance in remove_duplicates and distance_based
	// (0.1-3.0).
	Strength float64 `toml:"strength" json:"strength"`

	// RidgeThreshold is the normalized distance a ridge pixel must exceed in
	// distance_based mode.
	RidgeThreshold float64 `toml:"ridge_threshold" json:"ridge_threshold"`

	// MinContourLength skips shorter borders in remove_duplicates.
	MinContourLength float64 `toml:"min_contour_length" json:"min_contour_length"`

	// ContourSamples is the number of points compared per border in
	// remove_duplicates.
	ContourSamples int `toml:"contour_samples" json:"contour_samples"`

	// Preview requests the original/cleaned comparison image.
	Preview bool `toml:"preview" json:"preview"`

	Logger *log.Logger `toml:"-" json:"-"`
}

// DefaultOptions returns merge_close_lines with a 3 pixel distance.
func DefaultOptions() Options {
	return Options{
		Mode:             ModeMergeCloseLines,
		MergeDistance:    3,
		MinComponentSize: 10,
		Strength:         1.0,
		RidgeThreshold:   0.05,
		MinContourLength: 5,
		ContourSamples:   10,
	}
}

// ErrInvalidOptions is wrapped by every Validate failure.
var ErrInvalidOptions = errors.New("invalid mask cleanup options")

// Validate checks ranges and the mode.
func (o Options) Validate() error {
	if !modeNames.Valid(o.Mode) {
		return fmt.Errorf("%w: cleanup mode %d", ErrInvalidOptions, o.Mode)
	}
	switch {
	case o.MergeDistance < 1 || o.MergeDistance > 20:
		return fmt.Errorf("%w: merge distance %d outside 1-20", ErrInvalidOptions, o.MergeDistance)
	case o.MinComponentSize < 0:
		return fmt.Errorf("%w: min component size must not be negative", ErrInvalidOptions)
	case o.Strength < 0.1 || o.Strength > 3.0:
		return fmt.Errorf("%w: strength %.2f outside 0.1-3.0", ErrInvalidOptions, o.Strength)
	case o.RidgeThreshold < 0 || o.RidgeThreshold >= 1:
		return fmt.Errorf("%w: ridge threshold %.2f outside [0, 1)", ErrInvalidOptions, o.RidgeThreshold)
	case o.MinContourLength < 0:
		return fmt.Errorf("%w: min contour length must not be negative", ErrInvalidOptions)
	case o.ContourSamples < 2:
		return fmt.Errorf("%w: contour samples must be at least 2", ErrInvalidOptions)
	}
	return nil
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}
