package pathclean

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/lineart-vectorizer/internal/svgdoc"
)

const (
	// GroupID names the group that receives the cleaned paths.
	GroupID = "centerlines"

	defaultStroke = "#000000"
	minDecimals   = 2
)

// inheritedAttrs are copied from the first source path to every output path,
// with their defaults.
var inheritedAttrs = []struct{ name, value string }{
	{"stroke-width", "2"},
	{"fill", "none"},
	{"stroke-linecap", "round"},
	{"stroke-linejoin", "round"},
}

// Operations records which steps were enabled.
type Operations struct {
	RemoveShortPaths         bool `json:"remove_short_paths"`
	MergeClosePaths          bool `json:"merge_close_paths"`
	SimplifyPaths            bool `json:"simplify_paths"`
	RemoveNearDuplicatePaths bool `json:"remove_near_duplicate_paths"`
	RoundCoordinates         bool `json:"round_coordinates"`
	RemoveDuplicatePaths     bool `json:"remove_duplicate_paths"`
}

// Stats reports the outcome of a cleanup. When the document could not be
// processed only Error is set.
type Stats struct {
	OriginalPathCount int        `json:"original_path_count"`
	CleanedPathCount  int        `json:"cleaned_path_count"`
	RemovedPaths      int        `json:"removed_paths"`
	Operations        Operations `json:"operations"`
	RemovedDetail     Removed    `json:"removed_detail"`
	Error             string     `json:"error,omitempty"`
}

// MarshalJSON emits {"error": ...} alone for failed runs.
func (s Stats) MarshalJSON() ([]byte, error) {
	if s.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{s.Error})
	}
	type plain Stats
	return json.Marshal(plain(s))
}

// Cleaner rewrites SVG documents with fixed options.
type Cleaner struct {
	opts   Options
	logger *log.Logger
}

// NewCleaner validates opts and returns a Cleaner.
func NewCleaner(opts Options) (*Cleaner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Cleaner{opts: opts, logger: logger}, nil
}

// Cleanup is a convenience wrapper around NewCleaner and Clean. Invalid
// options are reported like a parse failure.
func Cleanup(svgText string, opts Options) (string, *Stats) {
	c, err := NewCleaner(opts)
	if err != nil {
		return svgText, &Stats{Error: err.Error()}
	}
	return c.Clean(svgText)
}

// Clean replaces every path of the document with the cleaned set. The new
// paths go into the group with id "centerlines" when present, else into the
// parent of the first original path, else under the root element.
//
// A document that cannot be parsed is returned unchanged together with
// stats carrying only the error.
func (c *Cleaner) Clean(svgText string) (string, *Stats) {
	doc, err := svgdoc.ParseString(svgText)
	if err != nil {
		c.logger.Warn("svg cleanup skipped", "err", err)
		return svgText, &Stats{Error: err.Error()}
	}

	sources := doc.Root.FindAll("path")
	paths := make([]Path, 0, len(sources))
	for _, n := range sources {
		d, _ := n.AttrValue("d")
		if d == "" {
			continue
		}
		stroke, ok := n.AttrValue("stroke")
		if !ok {
			stroke = defaultStroke
		}
		paths = append(paths, Path{Points: ParsePathData(d), Stroke: stroke})
	}

	cleaned, removed := Clean(paths, c.opts)

	target := doc.Root.FindByID("g", GroupID)
	if target == nil && len(sources) > 0 {
		target = sources[0].Parent
	}
	if target == nil {
		target = doc.Root
	}

	template := svgdoc.NewElement("path")
	if len(sources) > 0 {
		template = sources[0]
	}
	for _, n := range sources {
		n.Remove()
	}

	decimals := minDecimals
	if c.opts.RoundCoordinates {
		decimals = max(minDecimals, c.opts.DecimalPlaces)
	}
	for i, p := range cleaned {
		target.AppendChild(newPathElement(template, i, p, decimals))
	}

	stats := &Stats{
		OriginalPathCount: len(sources),
		CleanedPathCount:  len(cleaned),
		RemovedPaths:      len(sources) - len(cleaned),
		Operations: Operations{
			RemoveShortPaths:         c.opts.RemoveShortPaths,
			MergeClosePaths:          c.opts.MergeClosePaths,
			SimplifyPaths:            c.opts.SimplifyPaths,
			RemoveNearDuplicatePaths: c.opts.RemoveNearDuplicates,
			RoundCoordinates:         c.opts.RoundCoordinates,
			RemoveDuplicatePaths:     c.opts.RemoveDuplicates,
		},
		RemovedDetail: removed,
	}

	c.logger.Debug("svg paths cleaned",
		"before", stats.OriginalPathCount,
		"after", stats.CleanedPathCount,
		"exact", removed.ExactDuplicates,
		"near", removed.NearDuplicates,
		"short", removed.ShortPaths,
		"merged", removed.Merged)

	return doc.String(), stats
}

func newPathElement(template *svgdoc.Node, i int, p Path, decimals int) *svgdoc.Node {
	n := &svgdoc.Node{Kind: svgdoc.ElementNode, Name: template.Name}
	n.SetAttr("id", fmt.Sprintf("path%d", i))
	n.SetAttr("d", FormatPathData(p.Points, decimals))
	n.SetAttr("stroke", p.Stroke)
	for _, a := range inheritedAttrs {
		v, ok := template.AttrValue(a.name)
		if !ok {
			v = a.value
		}
		n.SetAttr(a.name, v)
	}
	return n
}
