package detection

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/lineart-vectorizer/internal/enum"
	"github.com/ironsheep/lineart-vectorizer/internal/imaging"
)

// BackgroundMode selects how foreground pixels are separated from the page.
type BackgroundMode int

const (
	// BackgroundAuto picks the threshold with Otsu's method; darker pixels
	// are foreground.
	BackgroundAuto BackgroundMode = iota
	// BackgroundWhite treats pixels at or below the threshold as foreground.
	BackgroundWhite
	// BackgroundBlack treats pixels brighter than 255-threshold as foreground.
	BackgroundBlack
)

var backgroundNames = enum.Names[BackgroundMode]{
	BackgroundAuto:  "auto",
	BackgroundWhite: "white",
	BackgroundBlack: "black",
}

func (m BackgroundMode) String() string { return backgroundNames.String(m) }

// MarshalText implements encoding.TextMarshaler.
func (m BackgroundMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BackgroundMode) UnmarshalText(b []byte) error {
	v, err := backgroundNames.Parse(string(b), "background mode")
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// LineMethod selects the line detection strategy.
type LineMethod int

const (
	// MethodEdge dilates Canny edges by the minimum stroke width.
	MethodEdge LineMethod = iota
	// MethodMorphology keeps the shell left after eroding the foreground.
	MethodMorphology
	// MethodHybrid is the union of MethodEdge and MethodMorphology.
	MethodHybrid
)

var methodNames = enum.Names[LineMethod]{
	MethodEdge:       "edge",
	MethodMorphology: "morphology",
	MethodHybrid:     "hybrid",
}

func (m LineMethod) String() string { return methodNames.String(m) }

// MarshalText implements encoding.TextMarshaler.
func (m LineMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LineMethod) UnmarshalText(b []byte) error {
	v, err := methodNames.Parse(string(b), "line method")
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// FillHandling selects what happens to foreground that is not line.
type FillHandling int

const (
	// FillIgnore produces an empty fill mask.
	FillIgnore FillHandling = iota
	// FillSeparate keeps fills but drops small regions.
	FillSeparate
	// FillInclude keeps every fill pixel.
	FillInclude
)

var fillNames = enum.Names[FillHandling]{
	FillIgnore:   "ignore",
	FillSeparate: "separate",
	FillInclude:  "include",
}

func (f FillHandling) String() string { return fillNames.String(f) }

// MarshalText implements encoding.TextMarshaler.
func (f FillHandling) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FillHandling) UnmarshalText(b []byte) error {
	v, err := fillNames.Parse(string(b), "fill handling")
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Options configures a Detector.
type Options struct {
	Background          BackgroundMode `toml:"background_mode" json:"background_mode"`
	BackgroundThreshold int            `toml:"background_threshold" json:"background_threshold"`
	Method              LineMethod     `toml:"method" json:"method"`
	MinLineWidth        int            `toml:"min_line_width" json:"min_line_width"`
	MaxLineWidth        int            `toml:"max_line_width" json:"max_line_width"`
	Fill                FillHandling   `toml:"fill_handling" json:"fill_handling"`

	// MinFillArea is the smallest fill region, in pixels, that FillSeparate
	// keeps.
	MinFillArea int `toml:"min_fill_area" json:"min_fill_area"`

	// CannyLow and CannyHigh are the edge detector's hysteresis thresholds.
	CannyLow  int `toml:"canny_low" json:"canny_low"`
	CannyHigh int `toml:"canny_high" json:"canny_high"`

	// NumColors enables line color clustering when positive.
	NumColors int                    `toml:"num_colors" json:"num_colors"`
	Cluster   imaging.ClusterOptions `toml:"-" json:"-"`

	// Preview requests a diagnostic overlay image in the result.
	Preview bool `toml:"preview" json:"preview"`

	Logger *log.Logger `toml:"-" json:"-"`
}

// DefaultOptions returns the detector defaults: automatic background,
// hybrid line detection and separated fills.
func DefaultOptions() Options {
	return Options{
		Background:          BackgroundAuto,
		BackgroundThreshold: 240,
		Method:              MethodHybrid,
		MinLineWidth:        1,
		MaxLineWidth:        10,
		Fill:                FillSeparate,
		MinFillArea:         100,
		CannyLow:            50,
		CannyHigh:           150,
		Cluster:             imaging.DefaultClusterOptions(),
	}
}

// ErrInvalidOptions is wrapped by every Validate failure.
var ErrInvalidOptions = errors.New("invalid detection options")

// Validate checks ranges and enum values.
func (o Options) Validate() error {
	switch {
	case o.BackgroundThreshold < 0 || o.BackgroundThreshold > 255:
		return fmt.Errorf("%w: background threshold %d outside 0-255", ErrInvalidOptions, o.BackgroundThreshold)
	case o.MinLineWidth < 1:
		return fmt.Errorf("%w: min line width must be at least 1", ErrInvalidOptions)
	case o.MaxLineWidth < o.MinLineWidth:
		return fmt.Errorf("%w: max line width %d below min line width %d", ErrInvalidOptions, o.MaxLineWidth, o.MinLineWidth)
	case o.CannyLow < 0 || o.CannyHigh < o.CannyLow:
		return fmt.Errorf("%w: canny thresholds %d/%d", ErrInvalidOptions, o.CannyLow, o.CannyHigh)
	case o.MinFillArea < 0:
		return fmt.Errorf("%w: min fill area must not be negative", ErrInvalidOptions)
	case o.NumColors < 0:
		return fmt.Errorf("%w: num colors must not be negative", ErrInvalidOptions)
	}
	if !backgroundNames.Valid(o.Background) {
		return fmt.Errorf("%w: background mode %d", ErrInvalidOptions, o.Background)
	}
	if !methodNames.Valid(o.Method) {
		return fmt.Errorf("%w: line method %d", ErrInvalidOptions, o.Method)
	}
	if !fillNames.Valid(o.Fill) {
		return fmt.Errorf("%w: fill handling %d", ErrInvalidOptions, o.Fill)
	}
	return nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
