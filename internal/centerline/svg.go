package centerline

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	svg "github.com/ajstarks/svgo"
	"github.com/google/uuid"

	"github.com/ironsheep/lineart-vectorizer/internal/geom"
)

// GroupID is the id of the group that holds the extracted paths.
const GroupID = "centerlines"

// Document describes the SVG written by WriteSVG.
type Document struct {
	Width       int
	Height      int
	Paths       []ColoredPath
	StrokeWidth float64
	Generator   string
	Created     time.Time
	RunID       uuid.UUID
}

// PathData formats p as absolute move and line commands with two decimals,
// e.g. "M 1.00,2.00 L 3.00,4.00".
func PathData(p geom.Path) string {
	var b strings.Builder
	for i, pt := range p {
		if i == 0 {
			fmt.Fprintf(&b, "M %.2f,%.2f", pt.X, pt.Y)
			continue
		}
		fmt.Fprintf(&b, " L %.2f,%.2f", pt.X, pt.Y)
	}
	return b.String()
}

// WriteSVG serializes doc to w: a root element sized to the image with a
// matching viewBox, a metadata block, and one group of stroked paths.
func WriteSVG(w io.Writer, doc Document) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	canvas.Startview(doc.Width, doc.Height, 0, 0, doc.Width, doc.Height)
	writeMetadata(canvas.Writer, doc)
	canvas.Gid(GroupID)
	for i, p := range doc.Paths {
		canvas.Path(PathData(p.Points),
			fmt.Sprintf(`id="path%d"`, i),
			fmt.Sprintf(`stroke="%s"`, p.Color),
			fmt.Sprintf(`stroke-width="%g"`, doc.StrokeWidth),
			`fill="none"`,
			`stroke-linecap="round"`,
			`stroke-linejoin="round"`)
	}
	canvas.Gend()
	canvas.End()

	return ew.err
}

func writeMetadata(w io.Writer, doc Document) {
	fmt.Fprintln(w, "<metadata>")
	fmt.Fprintf(w, "<created>%s</created>\n", doc.Created.Format(time.RFC3339))
	fmt.Fprint(w, "<generator>")
	xml.EscapeText(w, []byte(doc.Generator))
	fmt.Fprintln(w, "</generator>")
	if doc.RunID != uuid.Nil {
		fmt.Fprintf(w, "<run>%s</run>\n", doc.RunID)
	}
	fmt.Fprintln(w, "</metadata>")
}

// errWriter remembers the first write error so the svgo calls, which do not
// report errors, can be checked once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
