package pathclean

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ironsheep/lineart-vectorizer/internal/geom"
)

var numberPattern = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?`)

// ParsePathData extracts the numbers of an SVG path "d" attribute and pairs
// them into points. Command letters are ignored and an odd trailing number
// is dropped.
func ParsePathData(d string) geom.Path {
	nums := numberPattern.FindAllString(d, -1)
	pts := make(geom.Path, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		x, errX := strconv.ParseFloat(nums[i], 64)
		y, errY := strconv.ParseFloat(nums[i+1], 64)
		if errX != nil || errY != nil {
			continue
		}
		pts = append(pts, geom.Point{X: x, Y: y})
	}
	return pts
}

// FormatPathData writes p as absolute move and line commands with the given
// number of decimals.
func FormatPathData(p geom.Path, decimals int) string {
	var b strings.Builder
	for i, pt := range p {
		if i > 0 {
			b.WriteString(" L ")
		} else {
			b.WriteString("M ")
		}
		fmt.Fprintf(&b, "%.*f,%.*f", decimals, pt.X, decimals, pt.Y)
	}
	return b.String()
}
