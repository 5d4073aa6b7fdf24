package centerline

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/ironsheep/lineart-vectorizer/internal/geom"
	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// createStrokeMask creates a mask of the pixels within radius of the
// segment a-b, like a line drawn with a round-capped pen.
func createStrokeMask(width, height int, a, b geom.Point, radius float64) *mask.Mask {
	m := mask.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := geom.Point{X: float64(x), Y: float64(y)}
			if geom.SegmentDistance(p, a, b) <= radius {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// createBarMask creates a mask with a filled axis-aligned rectangle.
func createBarMask(width, height int, r image.Rectangle) *mask.Mask {
	m := mask.New(width, height)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

func mustExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	e, err := NewExtractor(opts)
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}
	return e
}

func TestRidgeHorizontalStroke(t *testing.T) {
	// The 80 px is the length of the stroke's centerline, (10,50)-(90,50).
	// A ridge stops about half the stroke width short of each end of a flat
	// capped bar, so a plain 80x5 rectangle traces to roughly 75 px.
	m := createStrokeMask(100, 100, geom.Point{X: 10, Y: 50}, geom.Point{X: 90, Y: 50}, 2.5)

	opts := DefaultOptions()
	opts.Algorithm = AlgorithmRidge
	opts.MinPathLength = 10
	opts.SimplifyTolerance = 1.0
	opts.BezierSmoothing = false

	res, err := mustExtractor(t, opts).Extract(m, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(res.Paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(res.Paths))
	}

	p := res.Paths[0].Points
	dx := math.Abs(p.End().X - p.Start().X)
	if math.Abs(dx-80) > 2 {
		t.Errorf("path spans %.1f pixels, want about 80", dx)
	}
	for _, pt := range []geom.Point{p.Start(), p.End()} {
		if math.Abs(pt.Y-50) > 1 {
			t.Errorf("endpoint %v is off the stroke axis", pt)
		}
	}
	if len(p) != 2 {
		t.Errorf("expected the straight trace simplified to 2 points, got %d", len(p))
	}
}

func TestAlgorithmsOnThickBar(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmSkeleton, AlgorithmMedialAxis, AlgorithmRidge} {
		t.Run(alg.String(), func(t *testing.T) {
			m := createBarMask(120, 60, image.Rect(10, 24, 110, 35))

			opts := DefaultOptions()
			opts.Algorithm = alg
			opts.BezierSmoothing = false

			res, err := mustExtractor(t, opts).Extract(m, nil)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if len(res.Paths) == 0 {
				t.Fatal("expected at least one path")
			}
			if res.Stats.Algorithm != alg.String() {
				t.Errorf("stats algorithm = %q, want %q", res.Stats.Algorithm, alg.String())
			}

			longest := 0.0
			for _, p := range res.Paths {
				longest = math.Max(longest, p.Points.Length())
				for _, pt := range p.Points {
					if pt.Y < 24 || pt.Y > 34 {
						t.Errorf("point %v lies outside the bar", pt)
					}
				}
			}
			if longest < 60 {
				t.Errorf("longest path is %.1f, expected most of the bar", longest)
			}
		})
	}
}

func TestExtractEmptyMask(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmSkeleton, AlgorithmMedialAxis, AlgorithmRidge} {
		t.Run(alg.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Algorithm = alg
			opts.Preview = true

			res, err := mustExtractor(t, opts).Extract(mask.New(40, 30), nil)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if !res.Skeleton.Empty() {
				t.Error("expected empty skeleton")
			}
			if len(res.Paths) != 0 || res.Stats.PathCount != 0 {
				t.Errorf("expected no paths, got %d", len(res.Paths))
			}
			if res.Stats.AveragePathLength != 0 {
				t.Errorf("average length = %f, want 0", res.Stats.AveragePathLength)
			}
			if !strings.Contains(res.SVG, `id="centerlines"`) {
				t.Error("expected the paths group in the svg")
			}
			if res.Preview == nil {
				t.Error("expected a preview")
			}
		})
	}
}

type svgDoc struct {
	Width   string `xml:"width,attr"`
	Height  string `xml:"height,attr"`
	ViewBox string `xml:"viewBox,attr"`
	Meta    struct {
		Created   string `xml:"created"`
		Generator string `xml:"generator"`
		Run       string `xml:"run"`
	} `xml:"metadata"`
	Group struct {
		ID    string `xml:"id,attr"`
		Paths []struct {
			ID          string `xml:"id,attr"`
			D           string `xml:"d,attr"`
			Stroke      string `xml:"stroke,attr"`
			StrokeWidth string `xml:"stroke-width,attr"`
			Fill        string `xml:"fill,attr"`
			Linecap     string `xml:"stroke-linecap,attr"`
			Linejoin    string `xml:"stroke-linejoin,attr"`
		} `xml:"path"`
	} `xml:"g"`
}

var pathDataPattern = regexp.MustCompile(`^M -?\d+\.\d{2},-?\d+\.\d{2}( L -?\d+\.\d{2},-?\d+\.\d{2})*$`)

func TestSVGOutput(t *testing.T) {
	m := createStrokeMask(60, 40, geom.Point{X: 5, Y: 10}, geom.Point{X: 55, Y: 30}, 2)

	opts := DefaultOptions()
	opts.Algorithm = AlgorithmSkeleton

	res, err := mustExtractor(t, opts).Extract(m, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	var doc svgDoc
	if err := xml.Unmarshal([]byte(res.SVG), &doc); err != nil {
		t.Fatalf("svg does not parse: %v\n%s", err, res.SVG)
	}
	if doc.Width != "60" || doc.Height != "40" || doc.ViewBox != "0 0 60 40" {
		t.Errorf("unexpected root size %s x %s, viewBox %q", doc.Width, doc.Height, doc.ViewBox)
	}
	if doc.Meta.Generator != DefaultGenerator || doc.Meta.Created == "" || doc.Meta.Run == "" {
		t.Errorf("incomplete metadata: %+v", doc.Meta)
	}
	if doc.Group.ID != GroupID {
		t.Errorf("group id = %q", doc.Group.ID)
	}
	if len(doc.Group.Paths) != len(res.Paths) || len(res.Paths) == 0 {
		t.Fatalf("svg has %d paths, result has %d", len(doc.Group.Paths), len(res.Paths))
	}
	for i, p := range doc.Group.Paths {
		if p.ID != fmt.Sprintf("path%d", i) {
			t.Errorf("path %d id = %q", i, p.ID)
		}
		if !pathDataPattern.MatchString(p.D) {
			t.Errorf("path %d has malformed data %q", i, p.D)
		}
		if p.Stroke != DefaultColor || p.Fill != "none" || p.StrokeWidth != "2" {
			t.Errorf("path %d has unexpected style %+v", i, p)
		}
		if p.Linecap != "round" || p.Linejoin != "round" {
			t.Errorf("path %d caps/joins = %q/%q", i, p.Linecap, p.Linejoin)
		}
	}
}

func TestPathData(t *testing.T) {
	got := PathData(geom.Path{{X: 1, Y: 2}, {X: 3.456, Y: 4.5}})
	want := "M 1.00,2.00 L 3.46,4.50"
	if got != want {
		t.Errorf("PathData = %q, want %q", got, want)
	}
}

func TestPreserveColors(t *testing.T) {
	m := createStrokeMask(80, 40, geom.Point{X: 10, Y: 20}, geom.Point{X: 70, Y: 20}, 2.5)

	source := image.NewRGBA(image.Rect(0, 0, 80, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 80; x++ {
			source.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	tests := []struct {
		name     string
		preserve bool
		source   image.Image
		want     string
	}{
		{"preserved", true, source, "#ff0000"},
		{"disabled", false, source, DefaultColor},
		{"no source", true, nil, DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.PreserveColors = tt.preserve

			res, err := mustExtractor(t, opts).Extract(m, tt.source)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if len(res.Paths) == 0 {
				t.Fatal("expected paths")
			}
			for _, p := range res.Paths {
				if p.Color != tt.want {
					t.Errorf("color = %s, want %s", p.Color, tt.want)
				}
			}
			if res.Stats.ColorsUsed != 1 {
				t.Errorf("colors used = %d, want 1", res.Stats.ColorsUsed)
			}
		})
	}
}

func TestStats(t *testing.T) {
	paths := []ColoredPath{
		{Points: geom.Path{{X: 0, Y: 0}, {X: 3, Y: 4}}, Color: "#000000"},
		{Points: geom.Path{{X: 0, Y: 0}, {X: 0, Y: 5}, {X: 5, Y: 5}}, Color: "#ff0000"},
	}
	s := computeStats(paths, 100, 50, AlgorithmSkeleton)

	if s.PathCount != 2 {
		t.Errorf("path count = %d", s.PathCount)
	}
	if s.TotalLength != 15 {
		t.Errorf("total length = %f, want 15", s.TotalLength)
	}
	if s.AveragePathLength != 7.5 {
		t.Errorf("average = %f, want 7.5", s.AveragePathLength)
	}
	if s.ImageSize != [2]int{100, 50} {
		t.Errorf("image size = %v", s.ImageSize)
	}
	if s.ColorsUsed != 2 {
		t.Errorf("colors used = %d, want 2", s.ColorsUsed)
	}
}

func TestMinPathLengthFilters(t *testing.T) {
	m := createBarMask(50, 20, image.Rect(5, 10, 13, 11))

	opts := DefaultOptions()
	opts.Algorithm = AlgorithmSkeleton
	opts.MinPathLength = 10

	res, err := mustExtractor(t, opts).Extract(m, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(res.Paths) != 0 {
		t.Errorf("expected the 8 pixel trace to be dropped, got %d paths", len(res.Paths))
	}
	if res.Stats.TracedPaths != 1 {
		t.Errorf("traced paths = %d, want 1", res.Stats.TracedPaths)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{"negative smoothing", func(o *Options) { o.Smoothing = -1 }},
		{"smoothing too large", func(o *Options) { o.Smoothing = 11 }},
		{"min length zero", func(o *Options) { o.MinPathLength = 0 }},
		{"negative tolerance", func(o *Options) { o.SimplifyTolerance = -0.5 }},
		{"zero stroke", func(o *Options) { o.StrokeWidth = 0 }},
		{"percentile", func(o *Options) { o.MedialPercentile = 101 }},
		{"ridge threshold", func(o *Options) { o.RidgeThreshold = 1.5 }},
		{"unknown algorithm", func(o *Options) { o.Algorithm = Algorithm(5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if _, err := NewExtractor(opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}

	e := mustExtractor(t, DefaultOptions())
	if _, err := e.Extract(nil, nil); err == nil {
		t.Error("expected error for nil mask")
	}
}

func TestAlgorithmText(t *testing.T) {
	var a Algorithm
	if err := a.UnmarshalText([]byte("MEDIAL_AXIS")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if a != AlgorithmMedialAxis {
		t.Errorf("got %v, want medial_axis", a)
	}
	if err := a.UnmarshalText([]byte("voronoi")); err == nil {
		t.Error("expected error for unknown algorithm")
	}
	if got := strings.Join(Algorithms(), ","); !strings.Contains(got, "ridge") {
		t.Errorf("Algorithms() = %s", got)
	}
}
