package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/lineart-vectorizer/internal/centerline"
	"github.com/ironsheep/lineart-vectorizer/internal/detection"
	"github.com/ironsheep/lineart-vectorizer/internal/imaging"
	"github.com/ironsheep/lineart-vectorizer/internal/maskclean"
	"github.com/ironsheep/lineart-vectorizer/internal/pathclean"
)

type detectOpts struct {
	output     string
	fillOutput string
	preview    string
	flags      detectFlags
}

func newDetectCmd() *cobra.Command {
	var opts detectOpts

	cmd := &cobra.Command{
		Use:   "detect [image]",
		Short: "Separate line pixels from background and fills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "line mask PNG (default: <image>_lines.png)")
	cmd.Flags().StringVar(&opts.fillOutput, "fill-output", "", "also write the fill mask to this file")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "write a region overlay preview to this file")
	opts.flags.register(cmd)

	return cmd
}

func runDetect(cmd *cobra.Command, input string, opts *detectOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	o := cfg.Detect
	if err := opts.flags.apply(cmd, &o); err != nil {
		return err
	}
	o.Preview = opts.preview != ""

	img, err := loadImage(logger, imaging.NewImageCache(), input)
	if err != nil {
		return err
	}

	detector, err := detection.NewDetector(o)
	if err != nil {
		return err
	}
	prog := newProgress(logger)
	res, err := detector.Detect(img)
	if err != nil {
		return err
	}
	prog.done("Detected regions", "threshold", res.Stats.Threshold,
		"line", res.Stats.LinePixels, "fill", res.Stats.FillPixels)

	for _, c := range res.Colors {
		logger.Info("Line color", "hex", c.Hex, "pixels", c.Count, "percent", fmt.Sprintf("%.1f", c.Percentage))
	}

	if err := saveMask(logger, res.LineMask, derivedPath(opts.output, input, "_lines.png")); err != nil {
		return err
	}
	if opts.fillOutput != "" {
		if err := saveMask(logger, res.FillMask, opts.fillOutput); err != nil {
			return err
		}
	}
	if err := savePreview(logger, res.Preview, opts.preview); err != nil {
		return err
	}
	return writeStats(cmd, res.Stats)
}

type cleanMaskOpts struct {
	output  string
	preview string
	flags   maskFlags
}

func newCleanMaskCmd() *cobra.Command {
	var opts cleanMaskOpts

	cmd := &cobra.Command{
		Use:   "cleanmask [mask]",
		Short: "Merge doubled strokes and remove noise from a line mask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanMask(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "cleaned mask PNG (default: <mask>_cleaned.png)")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "write an original/cleaned comparison to this file")
	opts.flags.register(cmd)

	return cmd
}

func runCleanMask(cmd *cobra.Command, input string, opts *cleanMaskOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	o := cfg.Mask
	if err := opts.flags.apply(cmd, &o); err != nil {
		return err
	}
	o.Preview = opts.preview != ""

	m, err := loadMask(logger, imaging.NewImageCache(), input)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := maskclean.Cleanup(m, o)
	if err != nil {
		return err
	}
	prog.done("Cleaned mask", "mode", o.Mode, "in", res.Stats.InputPixels, "out", res.Stats.OutputPixels)

	if err := saveMask(logger, res.Mask, derivedPath(opts.output, input, "_cleaned.png")); err != nil {
		return err
	}
	if err := savePreview(logger, res.Preview, opts.preview); err != nil {
		return err
	}
	return writeStats(cmd, res.Stats)
}

type extractOpts struct {
	output   string
	source   string
	preview  string
	skeleton string
	flags    centerlineFlags
}

func newExtractCmd() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract [mask]",
		Short: "Trace mask centerlines into SVG paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "SVG file (default: <mask>.svg)")
	cmd.Flags().StringVar(&opts.source, "source", "", "original image to sample stroke colors from")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "write a centerline preview to this file")
	cmd.Flags().StringVar(&opts.skeleton, "skeleton", "", "write the skeleton mask to this file")
	opts.flags.register(cmd)

	return cmd
}

func runExtract(cmd *cobra.Command, input string, opts *extractOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	o := cfg.Centerline
	if err := opts.flags.apply(cmd, &o); err != nil {
		return err
	}
	o.Preview = opts.preview != ""

	cache := imaging.NewImageCache()
	m, err := loadMask(logger, cache, input)
	if err != nil {
		return err
	}
	src, err := loadSource(logger, cache, opts.source)
	if err != nil {
		return err
	}

	extractor, err := centerline.NewExtractor(o)
	if err != nil {
		return err
	}
	prog := newProgress(logger)
	res, err := extractor.Extract(m, src)
	if err != nil {
		return err
	}
	prog.done("Extracted centerlines", "algorithm", o.Algorithm, "paths", res.Stats.PathCount)

	if err := writeText(logger, res.SVG, derivedPath(opts.output, input, ".svg")); err != nil {
		return err
	}
	if opts.skeleton != "" {
		if err := saveMask(logger, res.Skeleton, opts.skeleton); err != nil {
			return err
		}
	}
	if err := savePreview(logger, res.Preview, opts.preview); err != nil {
		return err
	}
	return writeStats(cmd, res.Stats)
}

type cleanPathsOpts struct {
	output string
	flags  pathFlags
}

func newCleanPathsCmd() *cobra.Command {
	var opts cleanPathsOpts

	cmd := &cobra.Command{
		Use:   "cleanpaths [svg]",
		Short: "Deduplicate, simplify and join the paths of an SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanPaths(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "cleaned SVG (default: <svg>_clean.svg)")
	opts.flags.register(cmd)

	return cmd
}

func runCleanPaths(cmd *cobra.Command, input string, opts *cleanPathsOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	o := cfg.Paths
	if err := opts.flags.apply(cmd, &o); err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read svg: %w", err)
	}

	cleaner, err := pathclean.NewCleaner(o)
	if err != nil {
		return err
	}
	prog := newProgress(logger)
	out, stats := cleaner.Clean(string(data))
	if stats.Error != "" {
		logger.Warn("SVG left unchanged", "err", stats.Error)
	} else {
		prog.done("Cleaned paths", "before", stats.OriginalPathCount, "after", stats.CleanedPathCount)
	}

	if err := writeText(logger, out, derivedPath(opts.output, input, "_clean.svg")); err != nil {
		return err
	}
	return writeStats(cmd, stats)
}
