package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/ironsheep/lineart-vectorizer/internal/geom"
	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// PathPalette is the rotating color sequence used to tell paths apart in the
// centerline preview.
var PathPalette = []color.NRGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
	{R: 255, B: 255, A: 255},
	{G: 255, B: 255, A: 255},
}

// maskLayer paints the on pixels of m with c on a transparent layer.
func maskLayer(m *mask.Mask, c color.NRGBA) *image.NRGBA {
	layer := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] {
				layer.SetNRGBA(x, y, c)
			}
		}
	}
	return layer
}

// RegionPreview blends the source image with a 30% red layer over line
// pixels and a 20% blue layer over fill pixels.
func RegionPreview(src image.Image, line, fill *mask.Mask) *image.NRGBA {
	base := imaging.Clone(src)
	out := imaging.Overlay(base, maskLayer(line, color.NRGBA{R: 255, A: 255}), image.Pt(0, 0), 0.3)
	if fill != nil && !fill.Empty() {
		out = imaging.Overlay(out, maskLayer(fill, color.NRGBA{B: 255, A: 255}), image.Pt(0, 0), 0.2)
	}
	return out
}

// MaskComparison renders the original mask in the red channel and the
// cleaned mask in the green channel, so pixels present in both show yellow.
func MaskComparison(original, cleaned *mask.Mask) *image.NRGBA {
	out := imaging.New(original.Width, original.Height, color.NRGBA{A: 255})
	for y := 0; y < original.Height; y++ {
		for x := 0; x < original.Width; x++ {
			c := color.NRGBA{A: 255}
			if original.Get(x, y) {
				c.R = 255
			}
			if cleaned.Get(x, y) {
				c.G = 255
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// CenterlinePreview draws the skeleton in light gray on white and overdraws
// each path with a stroke of the given width, cycling through PathPalette.
func CenterlinePreview(skeleton *mask.Mask, paths []geom.Path, strokeWidth float64) *image.NRGBA {
	w, h := skeleton.Width, skeleton.Height
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	gray := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if skeleton.Pix[y*w+x] {
				canvas.SetRGBA(x, y, gray)
			}
		}
	}

	if w > 0 && h > 0 {
		z := vector.NewRasterizer(w, h)
		for i, p := range paths {
			if len(p) == 0 {
				continue
			}
			z.Reset(w, h)
			strokePolyline(z, p, strokeWidth/2)
			z.Draw(canvas, canvas.Bounds(), image.NewUniform(PathPalette[i%len(PathPalette)]), image.Point{})
		}
	}

	return imaging.Clone(canvas)
}

// strokePolyline adds the outline of a round-capped, round-joined stroke of
// the given half width to z. Each segment becomes a quad and each vertex a
// disc; every polygon is wound the same way so overlaps do not cancel.
func strokePolyline(z *vector.Rasterizer, p geom.Path, half float64) {
	for i, pt := range p {
		addPolygon(z, disc(pt, half))
		if i == 0 {
			continue
		}
		a, b := p[i-1], pt
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		addPolygon(z, []geom.Point{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		})
	}
}

func disc(c geom.Point, r float64) []geom.Point {
	const sides = 12
	pts := make([]geom.Point, sides)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / sides
		pts[i] = geom.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

// addPolygon adds a closed polygon, normalized to negative signed area.
// Pixel centers sit at integer coordinates, so the outline is shifted by half
// a pixel into rasterizer space.
func addPolygon(z *vector.Rasterizer, pts []geom.Point) {
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area > 0 {
		pts = geom.Path(pts).Reversed()
	}
	z.MoveTo(float32(pts[0].X+0.5), float32(pts[0].Y+0.5))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X+0.5), float32(p.Y+0.5))
	}
	z.ClosePath()
}
