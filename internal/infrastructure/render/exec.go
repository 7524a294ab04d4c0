// Package render synthesizes cover images from PDFs by shelling out to
// external rasterization tools.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/digital-library/internal/core/ports"
)

const (
	attemptTimeout = 30 * time.Second
	// maxOutputSize caps the rendered image read back from disk.
	maxOutputSize = 10 << 20
)

// candidate describes one external tool able to rasterize the first PDF page.
type candidate struct {
	tool string
	args func(pdfPath, outBase string) []string
	// out is the file the tool produces for the given output base.
	out func(outBase string) string
}

// candidates are tried in preference order; pdftoppm produces the best
// covers, the ImageMagick entry points are fallbacks.
var candidates = []candidate{
	{
		tool: "pdftoppm",
		args: func(pdf, out string) []string {
			return []string{"-png", "-f", "1", "-l", "1", "-scale-to", "400", pdf, out}
		},
		out: func(out string) string { return out + "-1.png" },
	},
	{
		tool: "convert",
		args: func(pdf, out string) []string {
			return []string{pdf + "[0]", "-density", "150", "-resize", "400x", out + ".png"}
		},
		out: func(out string) string { return out + ".png" },
	},
	{
		tool: "magick",
		args: func(pdf, out string) []string {
			return []string{pdf + "[0]", "-density", "150", "-resize", "400x", out + ".png"}
		},
		out: func(out string) string { return out + ".png" },
	},
}

// pathPrefixes are the install locations probed for each tool; the empty
// prefix falls back to $PATH lookup.
var pathPrefixes = []string{"/opt/homebrew/bin/", "/usr/local/bin/", ""}

// ExecRenderer implements ports.CoverRenderer by trying each candidate tool
// across the known install prefixes, stopping at the first success.
type ExecRenderer struct {
	logger zerolog.Logger
}

func NewExecRenderer(logger zerolog.Logger) *ExecRenderer {
	return &ExecRenderer{logger: logger}
}

func (r *ExecRenderer) RenderCover(ctx context.Context, pdf []byte) (*ports.RenderResult, error) {
	dir, err := os.MkdirTemp("", "cover-render-")
	if err != nil {
		return nil, fmt.Errorf("render workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("render workspace: %w", err)
	}
	outBase := filepath.Join(dir, "cover")

	for _, c := range candidates {
		for _, prefix := range pathPrefixes {
			png, err := r.attempt(ctx, prefix+c.tool, c, pdfPath, outBase)
			if err != nil {
				r.logger.Debug().Err(err).Str("tool", prefix+c.tool).Msg("cover render attempt failed")
				_ = os.Remove(c.out(outBase))
				continue
			}
			return &ports.RenderResult{PNG: png, Tool: c.tool}, nil
		}
	}
	return nil, ports.ErrNoRenderer
}

func (r *ExecRenderer) attempt(ctx context.Context, bin string, c candidate, pdfPath, outBase string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, c.args(pdfPath, outBase)...)
	if err := cmd.Run(); err != nil {
		return nil, err
	}

	outPath := c.out(outBase)
	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("no output produced: %w", err)
	}
	if info.Size() == 0 || info.Size() > maxOutputSize {
		return nil, fmt.Errorf("unusable output size %d", info.Size())
	}
	return os.ReadFile(outPath)
}

var _ ports.CoverRenderer = (*ExecRenderer)(nil)
