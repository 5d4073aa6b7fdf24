package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/lineart-vectorizer/internal/config"
	"github.com/ironsheep/lineart-vectorizer/internal/imaging"
	"github.com/ironsheep/lineart-vectorizer/internal/maskclean"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeDrawing saves a white page with one black horizontal stroke.
func writeDrawing(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			if y >= 38 && y <= 42 && x >= 10 && x < 110 {
				c = color.NRGBA{0, 0, 0, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, "drawing.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	SetVersion("v1.2.3", "abc123", "2026-01-01")
	defer SetVersion("dev", "unknown", "unknown")

	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"vectorize v1.2.3", "commit: abc123", "built: 2026-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	out, _, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	cfg, err := config.Parse([]byte(out))
	if err != nil {
		t.Fatalf("printed config does not parse: %v\n%s", err, out)
	}
	if cfg.Mask.Mode != maskclean.ModeMergeCloseLines {
		t.Errorf("mode = %v, want default", cfg.Mask.Mode)
	}
}

func TestConfigFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.toml")
	if err := os.WriteFile(path, []byte("[mask]\nmode = \"thin_only\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	out, _, err := execute(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out, `mode = "thin_only"`) {
		t.Errorf("config output should reflect the file:\n%s", out)
	}

	if _, _, err := execute(t, "config", "--config", filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeDrawing(t, dir)
	statsPath := filepath.Join(dir, "detect.json")

	_, logs, err := execute(t, "detect", input, "--background", "white", "--preview", filepath.Join(dir, "preview.png"), "--stats", statsPath)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	for _, name := range []string{"drawing_lines.png", "preview.png", "detect.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if !strings.Contains(logs, "Detected regions") {
		t.Errorf("logs should report detection:\n%s", logs)
	}

	data, err := os.ReadFile(statsPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var stats map[string]interface{}
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("stats are not JSON: %v", err)
	}
	if stats["background_mode"] != "white" {
		t.Errorf("background_mode = %v, want white", stats["background_mode"])
	}
	if lp, _ := stats["line_pixels"].(float64); lp == 0 {
		t.Error("line_pixels should be positive")
	}
}

func TestFlagErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeDrawing(t, dir)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad method", []string{"detect", input, "--method", "laplace"}, "line method"},
		{"bad threshold", []string{"detect", input, "--threshold", "300"}, "background threshold"},
		{"bad mode", []string{"cleanmask", input, "--mode", "blur"}, "cleanup mode"},
		{"bad algorithm", []string{"extract", input, "--algorithm", "voronoi"}, "centerline algorithm"},
		{"bad decimals", []string{"run", input, "--decimals", "9"}, "decimal places"},
		{"missing input", []string{"detect", filepath.Join(dir, "nope.png")}, "failed to open image"},
		{"no args", []string{"run"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestStageCommandsChain(t *testing.T) {
	dir := t.TempDir()
	input := writeDrawing(t, dir)
	lines := filepath.Join(dir, "lines.png")
	cleaned := filepath.Join(dir, "cleaned.png")
	raw := filepath.Join(dir, "raw.svg")
	final := filepath.Join(dir, "final.svg")

	steps := [][]string{
		{"detect", input, "-o", lines},
		{"cleanmask", lines, "-o", cleaned, "--preview", filepath.Join(dir, "compare.png")},
		{"extract", cleaned, "--source", input, "-o", raw, "--skeleton", filepath.Join(dir, "skeleton.png")},
		{"cleanpaths", raw, "-o", final, "--decimals", "1"},
	}
	for _, args := range steps {
		if _, logs, err := execute(t, args...); err != nil {
			t.Fatalf("%s failed: %v\n%s", args[0], err, logs)
		}
	}

	for _, path := range []string{lines, cleaned, raw, final, filepath.Join(dir, "compare.png"), filepath.Join(dir, "skeleton.png")} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	}

	data, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `id="centerlines"`) {
		t.Errorf("cleaned SVG should keep the centerlines group:\n%s", data)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeDrawing(t, dir)
	output := filepath.Join(dir, "out", "drawing.svg")
	statsPath := filepath.Join(dir, "run.json")

	_, logs, err := execute(t, "run", input, "-o", output, "--previews", "--masks", "--raw", "--stats", statsPath)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, logs)
	}

	for _, name := range []string{
		"drawing.svg", "drawing_raw.svg",
		"drawing_lines.png", "drawing_fill.png", "drawing_cleaned.png",
		"drawing_regions.png", "drawing_mask.png", "drawing_centerlines.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	svg := string(data)
	if !strings.HasPrefix(strings.TrimSpace(svg), "<?xml") || !strings.Contains(svg, "<svg") {
		t.Errorf("output is not an SVG document:\n%s", svg)
	}

	raw, err := os.ReadFile(statsPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var stats struct {
		Detect     map[string]interface{} `json:"detect"`
		Mask       map[string]interface{} `json:"mask"`
		Centerline map[string]interface{} `json:"centerline"`
		Paths      map[string]interface{} `json:"paths"`
		Timings    map[string]int64       `json:"timings_ms"`
	}
	if err := json.Unmarshal(raw, &stats); err != nil {
		t.Fatalf("stats are not JSON: %v", err)
	}
	if stats.Detect == nil || stats.Mask == nil || stats.Centerline == nil || stats.Paths == nil {
		t.Errorf("stats missing a stage: %s", raw)
	}
	for _, stage := range []string{"detect", "mask", "centerline", "paths", "total"} {
		if _, ok := stats.Timings[stage]; !ok {
			t.Errorf("timings missing %q", stage)
		}
	}
	if !strings.Contains(logs, "Vectorized") {
		t.Errorf("logs should report completion:\n%s", logs)
	}
}

func TestRunPreviewsFromConfig(t *testing.T) {
	tests := []struct {
		name  string
		extra []string
		want  map[string]bool
	}{
		{
			name:  "config only",
			extra: nil,
			want:  map[string]bool{"drawing_regions.png": true, "drawing_mask.png": false, "drawing_centerlines.png": false},
		},
		{
			name:  "flag disables",
			extra: []string{"--previews=false"},
			want:  map[string]bool{"drawing_regions.png": false, "drawing_mask.png": false, "drawing_centerlines.png": false},
		},
		{
			name:  "flag enables",
			extra: []string{"--previews"},
			want:  map[string]bool{"drawing_regions.png": true, "drawing_mask.png": true, "drawing_centerlines.png": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeDrawing(t, dir)
			cfgPath := filepath.Join(dir, "pipeline.toml")
			if err := os.WriteFile(cfgPath, []byte("[detect]\npreview = true\n"), 0o644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			args := append([]string{"run", input, "--config", cfgPath}, tt.extra...)
			if _, logs, err := execute(t, args...); err != nil {
				t.Fatalf("run failed: %v\n%s", err, logs)
			}

			for name, want := range tt.want {
				_, err := os.Stat(filepath.Join(dir, name))
				if got := err == nil; got != want {
					t.Errorf("%s exists = %v, want %v", name, got, want)
				}
			}
		})
	}
}

func TestVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	input := writeDrawing(t, dir)

	_, logs, err := execute(t, "detect", input, "-v")
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(logs, "regions detected") {
		t.Errorf("verbose logs should include stage debug output:\n%s", logs)
	}
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		output, input, suffix, want string
	}{
		{"", "drawing.png", ".svg", "drawing.svg"},
		{"", "dir/drawing.png", "_lines.png", "dir/drawing_lines.png"},
		{"custom.svg", "drawing.png", ".svg", "custom.svg"},
		{"", "noext", ".svg", "noext.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.input+tt.suffix, func(t *testing.T) {
			if got := derivedPath(tt.output, tt.input, tt.suffix); got != tt.want {
				t.Errorf("derivedPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.suffix, got, tt.want)
			}
		})
	}
}
