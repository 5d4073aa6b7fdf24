package imaging

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/ironsheep/lineart-vectorizer/internal/geom"
	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// createInMemoryImage creates an in-memory test image filled with c.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createEdgeTestImage creates a white image with a black rectangle in the
// middle third.
func createEdgeTestImage(width, height int) *image.RGBA {
	img := createInMemoryImage(width, height, color.White)
	for y := height / 3; y < 2*height/3; y++ {
		for x := width / 3; x < 2*width/3; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func fullMask(width, height int) *mask.Mask {
	m := mask.New(width, height)
	for i := range m.Pix {
		m.Pix[i] = true
	}
	return m
}

func TestToGray(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{255, 0, 0, 255})
	gray := ToGray(img)

	// 0.299 * 255 = 76.2
	if v := gray.GrayAt(1, 1).Y; v != 76 {
		t.Errorf("ToGray red = %d, want 76", v)
	}
	if gray.Bounds().Min != (image.Point{}) {
		t.Errorf("ToGray bounds start at %v, want origin", gray.Bounds().Min)
	}
}

func TestCanny(t *testing.T) {
	gray := ToGray(createEdgeTestImage(90, 90))
	edges := Canny(gray, 50, 150)

	if edges.Width != 90 || edges.Height != 90 {
		t.Fatalf("Canny size = %dx%d, want 90x90", edges.Width, edges.Height)
	}
	if edges.Empty() {
		t.Fatal("Canny found no edges around a black rectangle")
	}
	if edges.Get(45, 45) || edges.Get(5, 5) {
		t.Error("Canny marked flat regions as edges")
	}

	near := false
	for dx := -2; dx <= 2; dx++ {
		if edges.Get(30+dx, 45) {
			near = true
		}
	}
	if !near {
		t.Error("Canny missed the rectangle's left side")
	}
}

func TestCannyFlatImage(t *testing.T) {
	gray := ToGray(createInMemoryImage(40, 40, color.White))
	if !Canny(gray, 50, 150).Empty() {
		t.Error("Canny found edges in a flat image")
	}
}

func TestSampleColorClamps(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	img.Set(9, 9, color.RGBA{255, 128, 64, 255})

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"inside", 9, 9, "#ff8040"},
		{"past corner", 50, 50, "#ff8040"},
		{"negative", -5, -5, "#ffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleColor(img, tt.x, tt.y).Hex(); got != tt.want {
				t.Errorf("SampleColor(%d,%d) = %s, want %s", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#1a2B3c")
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if c != (RGBColor{0x1a, 0x2b, 0x3c}) {
		t.Errorf("ParseHex = %+v", c)
	}
	if _, err := ParseHex("not a color"); err == nil {
		t.Error("ParseHex should reject garbage")
	}
}

func TestClusterColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 6 {
				img.Set(x, y, color.RGBA{200, 30, 30, 255})
			} else {
				img.Set(x, y, color.RGBA{20, 20, 200, 255})
			}
		}
	}

	clusters := ClusterColors(img, fullMask(10, 10), 2, DefaultClusterOptions())
	if len(clusters) != 2 {
		t.Fatalf("ClusterColors returned %d clusters, want 2", len(clusters))
	}
	if clusters[0].Hex != "#c81e1e" || clusters[0].Count != 60 {
		t.Errorf("largest cluster = %+v, want #c81e1e with 60 pixels", clusters[0])
	}
	if clusters[1].Hex != "#1414c8" || clusters[1].Percentage != 40 {
		t.Errorf("second cluster = %+v, want #1414c8 at 40%%", clusters[1])
	}
}

func TestClusterCenterTruncates(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{200.9, 200},
		{200.5, 200},
		{0.99, 0},
		{-3, 0},
		{255, 255},
		{300, 255},
	}

	for _, tt := range tests {
		if got := toByte(tt.in); got != tt.want {
			t.Errorf("toByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}

	// Mean of 200 and 201 is 200.5 and must not round up.
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{200, 0, 0, 255})
	img.Set(1, 0, color.RGBA{201, 0, 0, 255})
	clusters := ClusterColors(img, fullMask(2, 1), 1, DefaultClusterOptions())
	if len(clusters) != 1 || clusters[0].Hex != "#c80000" {
		t.Errorf("clusters = %+v, want one #c80000 cluster", clusters)
	}
}

func TestClusterColorsDegenerate(t *testing.T) {
	img := createInMemoryImage(5, 5, color.Black)

	tests := []struct {
		name string
		m    *mask.Mask
		k    int
		want int
	}{
		{"k zero", fullMask(5, 5), 0, 0},
		{"empty mask", mask.New(5, 5), 3, 0},
		{"k above pixel count", func() *mask.Mask { m := mask.New(5, 5); m.Set(1, 1, true); return m }(), 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClusterColors(img, tt.m, tt.k, DefaultClusterOptions())
			if got == nil {
				t.Fatal("ClusterColors returned nil")
			}
			if len(got) != tt.want {
				t.Errorf("ClusterColors returned %d clusters, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRegionPreview(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	line := mask.New(10, 10)
	line.Set(2, 2, true)
	fill := mask.New(10, 10)
	fill.Set(7, 7, true)

	out := RegionPreview(img, line, fill)
	red := out.NRGBAAt(2, 2)
	if red.R < 250 || red.G < 170 || red.G > 185 {
		t.Errorf("line pixel = %+v, want a red tint", red)
	}
	blue := out.NRGBAAt(7, 7)
	if blue.B < 250 || blue.R < 195 || blue.R > 210 {
		t.Errorf("fill pixel = %+v, want a blue tint", blue)
	}
	if plain := out.NRGBAAt(5, 5); plain != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("untouched pixel = %+v, want white", plain)
	}
}

func TestMaskComparison(t *testing.T) {
	a := mask.New(3, 1)
	b := mask.New(3, 1)
	a.Set(0, 0, true)
	a.Set(1, 0, true)
	b.Set(1, 0, true)
	b.Set(2, 0, true)

	out := MaskComparison(a, b)
	want := []color.NRGBA{{255, 0, 0, 255}, {255, 255, 0, 255}, {0, 255, 0, 255}}
	for x, w := range want {
		if got := out.NRGBAAt(x, 0); got != w {
			t.Errorf("pixel %d = %+v, want %+v", x, got, w)
		}
	}
}

func TestCenterlinePreview(t *testing.T) {
	skel := mask.New(40, 20)
	skel.Set(35, 15, true)
	paths := []geom.Path{{{X: 5, Y: 5}, {X: 30, Y: 5}}}

	out := CenterlinePreview(skel, paths, 2)
	if got := out.NRGBAAt(17, 5); got.R != 255 || got.G > 60 || got.B > 60 {
		t.Errorf("path pixel = %+v, want red", got)
	}
	if got := out.NRGBAAt(35, 15); got != (color.NRGBA{200, 200, 200, 255}) {
		t.Errorf("skeleton pixel = %+v, want light gray", got)
	}
	if got := out.NRGBAAt(17, 15); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("background pixel = %+v, want white", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.png")

	if err := Save(createEdgeTestImage(30, 20), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cache := NewImageCache()
	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("loaded size = %v, want 30x20", img.Bounds())
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if again != img || cache.Len() != 1 {
		t.Error("second Load should come from the cache")
	}

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Format != "png" || info.Width != 30 || info.FileSizeBytes <= 0 {
		t.Errorf("LoadImageInfo = %+v", info)
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Error("Evict did not remove the image")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}
