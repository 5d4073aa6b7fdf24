package pathclean

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Options configures a Cleaner.
type Options struct {
	RemoveDuplicates bool `toml:"remove_duplicates" json:"remove_duplicates"`

	RemoveShortPaths bool    `toml:"remove_short_paths" json:"remove_short_paths"`
	MinPathLength    float64 `toml:"min_path_length" json:"min_path_length"`

	SimplifyPaths     bool    `toml:"simplify_paths" json:"simplify_paths"`
	SimplifyTolerance float64 `toml:"simplify_tolerance" json:"simplify_tolerance"`

	RemoveNearDuplicates  bool    `toml:"remove_near_duplicates" json:"remove_near_duplicates"`
	NearDuplicateDistance float64 `toml:"near_duplicate_distance" json:"near_duplicate_distance"`
	// NearDuplicateMaxFactor bounds the worst nearest-neighbor distance of a
	// near duplicate at this multiple of NearDuplicateDistance.
	NearDuplicateMaxFactor float64 `toml:"near_duplicate_max_factor" json:"near_duplicate_max_factor"`

	MergeClosePaths bool    `toml:"merge_close_paths" json:"merge_close_paths"`
	MergeDistance   float64 `toml:"merge_distance" json:"merge_distance"`
	// SortBeforeMerge orders paths by their leading endpoint before merging,
	// which makes the merge result independent of input order.
	SortBeforeMerge bool `toml:"sort_before_merge" json:"sort_before_merge"`

	RoundCoordinates bool `toml:"round_coordinates" json:"round_coordinates"`
	DecimalPlaces    int  `toml:"decimal_places" json:"decimal_places"`

	Logger *log.Logger `toml:"-" json:"-"`
}

// DefaultOptions enables every step.
func DefaultOptions() Options {
	return Options{
		RemoveDuplicates:       true,
		RemoveShortPaths:       true,
		MinPathLength:          5.0,
		SimplifyPaths:          true,
		SimplifyTolerance:      0.5,
		RemoveNearDuplicates:   true,
		NearDuplicateDistance:  1.5,
		NearDuplicateMaxFactor: 2.5,
		MergeClosePaths:        true,
		MergeDistance:          2.0,
		RoundCoordinates:       true,
		DecimalPlaces:          2,
	}
}

// ErrInvalidOptions is wrapped by every Validate failure.
var ErrInvalidOptions = errors.New("invalid path cleanup options")

// Validate checks that every tolerance lies in its accepted range.
func (o Options) Validate() error {
	switch {
	case o.MinPathLength < 0 || o.MinPathLength > 100:
		return fmt.Errorf("%w: min path length %.2f outside 0-100", ErrInvalidOptions, o.MinPathLength)
	case o.MergeDistance < 0 || o.MergeDistance > 20:
		return fmt.Errorf("%w: merge distance %.2f outside 0-20", ErrInvalidOptions, o.MergeDistance)
	case o.SimplifyTolerance < 0 || o.SimplifyTolerance > 5:
		return fmt.Errorf("%w: simplify tolerance %.2f outside 0-5", ErrInvalidOptions, o.SimplifyTolerance)
	case o.NearDuplicateDistance < 0 || o.NearDuplicateDistance > 10:
		return fmt.Errorf("%w: near duplicate distance %.2f outside 0-10", ErrInvalidOptions, o.NearDuplicateDistance)
	case o.NearDuplicateMaxFactor < 1:
		return fmt.Errorf("%w: near duplicate max factor must be at least 1", ErrInvalidOptions)
	case o.DecimalPlaces < 0 || o.DecimalPlaces > 6:
		return fmt.Errorf("%w: decimal places %d outside 0-6", ErrInvalidOptions, o.DecimalPlaces)
	}
	return nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
