package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/lineart-vectorizer/internal/centerline"
	"github.com/ironsheep/lineart-vectorizer/internal/detection"
	"github.com/ironsheep/lineart-vectorizer/internal/imaging"
	"github.com/ironsheep/lineart-vectorizer/internal/maskclean"
	"github.com/ironsheep/lineart-vectorizer/internal/pathclean"
)

// runOpts holds the flags of the run command.
type runOpts struct {
	output   string
	previews bool // overrides every stage's preview setting
	masks    bool // write the line and cleaned masks next to the SVG
	raw      bool // also write the SVG before path cleanup

	detect     detectFlags
	mask       maskFlags
	centerline centerlineFlags
	paths      pathFlags
}

// runStats is the --stats document of the run command.
type runStats struct {
	Detect     detection.Stats  `json:"detect"`
	Mask       maskclean.Stats  `json:"mask"`
	Centerline centerline.Stats `json:"centerline"`
	Paths      *pathclean.Stats `json:"paths"`
	Timings    map[string]int64 `json:"timings_ms"`
}

func newRunCmd() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Vectorize an image through every stage",
		Long: `Run detects line pixels, cleans the line mask, extracts and traces
centerlines and cleans the resulting paths, writing one SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "SVG file (default: <image>.svg)")
	cmd.Flags().BoolVar(&opts.previews, "previews", false, "write stage preview images next to the SVG")
	cmd.Flags().BoolVar(&opts.masks, "masks", false, "write intermediate masks next to the SVG")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "also write the SVG before path cleanup")
	opts.detect.register(cmd)
	opts.mask.register(cmd)
	opts.centerline.register(cmd)
	opts.paths.register(cmd)

	return cmd
}

func runPipeline(cmd *cobra.Command, input string, opts *runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	if err := opts.detect.apply(cmd, &cfg.Detect); err != nil {
		return err
	}
	if err := opts.mask.apply(cmd, &cfg.Mask); err != nil {
		return err
	}
	if err := opts.centerline.apply(cmd, &cfg.Centerline); err != nil {
		return err
	}
	if err := opts.paths.apply(cmd, &cfg.Paths); err != nil {
		return err
	}
	if cmd.Flags().Changed("previews") {
		cfg.Detect.Preview = opts.previews
		cfg.Mask.Preview = opts.previews
		cfg.Centerline.Preview = opts.previews
	}

	output := derivedPath(opts.output, input, ".svg")
	sibling := func(suffix string) string { return derivedPath("", output, suffix) }

	detector, err := detection.NewDetector(cfg.Detect)
	if err != nil {
		return err
	}
	extractor, err := centerline.NewExtractor(cfg.Centerline)
	if err != nil {
		return err
	}
	cleaner, err := pathclean.NewCleaner(cfg.Paths)
	if err != nil {
		return err
	}

	img, err := loadImage(logger, imaging.NewImageCache(), input)
	if err != nil {
		return err
	}

	stats := runStats{Timings: make(map[string]int64)}
	record := func(stage string, d time.Duration) { stats.Timings[stage] = d.Milliseconds() }
	total := newProgress(logger)

	prog := newProgress(logger)
	regions, err := detector.Detect(img)
	if err != nil {
		return err
	}
	stats.Detect = regions.Stats
	record("detect", prog.done("Detected regions", "threshold", regions.Stats.Threshold,
		"line", regions.Stats.LinePixels, "fill", regions.Stats.FillPixels))

	prog = newProgress(logger)
	cleaned, err := maskclean.Cleanup(regions.LineMask, cfg.Mask)
	if err != nil {
		return err
	}
	stats.Mask = cleaned.Stats
	record("mask", prog.done("Cleaned mask", "mode", cfg.Mask.Mode, "pixels", cleaned.Stats.OutputPixels))

	prog = newProgress(logger)
	lines, err := extractor.Extract(cleaned.Mask, img)
	if err != nil {
		return err
	}
	stats.Centerline = lines.Stats
	record("centerline", prog.done("Extracted centerlines", "algorithm", cfg.Centerline.Algorithm,
		"paths", lines.Stats.PathCount))

	prog = newProgress(logger)
	svg, pathStats := cleaner.Clean(lines.SVG)
	stats.Paths = pathStats
	if pathStats.Error != "" {
		logger.Warn("Path cleanup skipped", "err", pathStats.Error)
	}
	record("paths", prog.done("Cleaned paths", "before", pathStats.OriginalPathCount,
		"after", pathStats.CleanedPathCount))

	if err := writeText(logger, svg, output); err != nil {
		return err
	}
	if opts.raw {
		if err := writeText(logger, lines.SVG, sibling("_raw.svg")); err != nil {
			return err
		}
	}
	if opts.masks {
		if err := saveMask(logger, regions.LineMask, sibling("_lines.png")); err != nil {
			return err
		}
		if err := saveMask(logger, regions.FillMask, sibling("_fill.png")); err != nil {
			return err
		}
		if err := saveMask(logger, cleaned.Mask, sibling("_cleaned.png")); err != nil {
			return err
		}
	}
	// Each stage renders a preview only when its Preview option is set.
	if err := savePreview(logger, regions.Preview, sibling("_regions.png")); err != nil {
		return err
	}
	if err := savePreview(logger, cleaned.Preview, sibling("_mask.png")); err != nil {
		return err
	}
	if err := savePreview(logger, lines.Preview, sibling("_centerlines.png")); err != nil {
		return err
	}

	record("total", total.done("Vectorized", "input", input, "paths", pathStats.CleanedPathCount))
	return writeStats(cmd, stats)
}
