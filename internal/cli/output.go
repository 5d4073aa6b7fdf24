package cli

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/lineart-vectorizer/internal/imaging"
	"github.com/ironsheep/lineart-vectorizer/internal/mask"
)

// derivedPath returns output when set, else input with its extension
// replaced by suffix (e.g. "drawing.png" + "_lines.png").
func derivedPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// loadImage decodes path and logs its dimensions and format.
func loadImage(logger *log.Logger, cache *imaging.ImageCache, path string) (image.Image, error) {
	info, err := imaging.LoadImageInfo(cache, path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded image", "path", path, "size", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"format", info.Format, "gray", info.Grayscale)
	return cache.Load(path)
}

// loadMask reads a mask image; pixels with luminance >= 128 are on.
func loadMask(logger *log.Logger, cache *imaging.ImageCache, path string) (*mask.Mask, error) {
	img, err := loadImage(logger, cache, path)
	if err != nil {
		return nil, err
	}
	return mask.FromImage(img), nil
}

// loadSource loads the optional color source; an empty path yields nil.
func loadSource(logger *log.Logger, cache *imaging.ImageCache, path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	return loadImage(logger, cache, path)
}

func saveMask(logger *log.Logger, m *mask.Mask, path string) error {
	if err := imaging.Save(m.Image(), path); err != nil {
		return err
	}
	logger.Info("Wrote mask", "path", path, "pixels", m.Count())
	return nil
}

// savePreview writes img when both img and path are set.
func savePreview(logger *log.Logger, img *image.NRGBA, path string) error {
	if path == "" || img == nil {
		return nil
	}
	if err := imaging.Save(img, path); err != nil {
		return err
	}
	logger.Info("Wrote preview", "path", path)
	return nil
}

func writeText(logger *log.Logger, text, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Wrote SVG", "path", path, "bytes", len(text))
	return nil
}

// writeStats encodes v as indented JSON to the file named by --stats. It is
// a no-op when the flag is unset.
func writeStats(cmd *cobra.Command, v interface{}) error {
	path, err := cmd.Flags().GetString("stats")
	if err != nil || path == "" {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	loggerFromContext(cmd.Context()).Debug("stats written", "path", path)
	return nil
}
