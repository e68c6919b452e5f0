package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/render/conflict"
	"github.com/matzehuels/calgrid/pkg/render/grid/sink"
	"github.com/matzehuels/calgrid/pkg/render/grid/styles"
)

// Render generates output artifacts in the requested formats.
func Render(g calendar.Grid, opts Options) (map[string][]byte, error) {
	sinkOpts, err := buildSinkOptions(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(g, sinkOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(g, sinkOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(g, sinkOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(g, sinkOpts...)
		case FormatDOT:
			data = []byte(conflict.ToDOT(g, conflict.Options{}))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderConflicts renders the overlap graph of g as SVG.
func RenderConflicts(ctx context.Context, g calendar.Grid) ([]byte, error) {
	svg, err := conflict.RenderSVG(ctx, conflict.ToDOT(g, conflict.Options{}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render conflicts")
	}
	return svg, nil
}

func buildSinkOptions(opts Options) ([]sink.Option, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	sinkOpts := []sink.Option{sink.WithStyle(style)}
	if opts.ColumnWidth > 0 {
		sinkOpts = append(sinkOpts, sink.WithColumnWidth(opts.ColumnWidth))
	}
	if opts.Title != "" {
		sinkOpts = append(sinkOpts, sink.WithTitle(opts.Title))
	}
	return sinkOpts, nil
}
