package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/graph"
	"github.com/matzehuels/railinfra/pkg/render/nodelink"
	"github.com/matzehuels/railinfra/pkg/render/text"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, res, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(ctx context.Context, res *Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(text.Text(res.Layout)), nil
	case FormatASCII:
		s, err := text.Grid(res.Layout, opts.GridWidth, opts.GridHeight)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRegion, err, "region %q", res.Region.Name)
		}
		return []byte(s), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(res.Layout, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		dot := nodelink.ToDOT(res.Layout, nodelink.Options{Detailed: opts.Detailed})
		return nodelink.RenderSVG(ctx, dot)
	case FormatJSON:
		return graph.MarshalLayout(graph.FromLayout(res.Region, res.Layout))
	}
	return nil, ValidateFormat(format)
}
