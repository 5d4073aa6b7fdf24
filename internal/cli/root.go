// Package cli implements the vectorize command-line interface.
//
// Every pipeline stage has its own command so intermediate masks can be
// inspected and tuned, and run chains all four:
//
//	vectorize run drawing.png -o drawing.svg
//	vectorize detect drawing.png -o lines.png
//	vectorize cleanmask lines.png -o cleaned.png
//	vectorize extract cleaned.png --source drawing.png -o raw.svg
//	vectorize cleanpaths raw.svg -o drawing.svg
//
// Settings come from the stage defaults, overlaid by an optional TOML file
// (--config) and then by command flags.
//
// # Logging
//
// Logs go to stderr at info level. --verbose (-v) switches to debug, as does
// LINEART_LOG_LEVEL=debug. The logger travels through the command context.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/lineart-vectorizer/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersion records build information, normally injected into main via
// ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the vectorize CLI with os.Args.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "vectorize",
		Short:        "Convert raster line art to SVG centerlines",
		Long:         `vectorize separates ink from background, reduces strokes to single-pixel centerlines, traces them into paths and writes a compact SVG.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), logLevel(verbose, os.Getenv(envLogLevel)))

			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
				logger.Debug("config loaded", "path", configPath)
			}

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg.WithLogger(logger))
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(versionText())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "pipeline config file (TOML)")
	root.PersistentFlags().String("stats", "", "write statistics as JSON to this file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newCleanMaskCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(newCleanPathsCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func versionText() string {
	return fmt.Sprintf("vectorize %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), versionText())
			return err
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective pipeline config as TOML",
		Long:  `Print the effective pipeline config (defaults overlaid by --config) as TOML. The output is a valid --config file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configFromContext(cmd.Context()).Write(cmd.OutOrStdout())
		},
	}
}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the config attached by withConfig, or the
// defaults when there is none.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}
