package render

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/calgrid/pkg/errors"
)

// rsvgBinary is the librsvg converter. Package manager names:
// brew install librsvg, apt install librsvg2-bin.
const rsvgBinary = "rsvg-convert"

// CanConvert reports whether PNG and PDF output is available.
func CanConvert() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// ToPDF converts an SVG document to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf")
}

// ToPNG converts an SVG document to PNG at scale times its size. Scales
// of zero or less mean 1.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convert(svg []byte, format string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s output needs %s (brew install librsvg, apt install librsvg2-bin)", format, rsvgBinary)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(path, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
