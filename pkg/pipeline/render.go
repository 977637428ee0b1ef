package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/stackdraw/pkg/canvas"
	"github.com/matzehuels/stackdraw/pkg/sink"
)

// Render writes a canvas in each requested format. PNG and PDF share one
// SVG rendering.
func Render(ctx context.Context, c *canvas.Canvas, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = renderSVG(c, opts)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatJSON:
			data, err = sink.RenderJSON(c)
		case FormatPNG:
			data, err = sink.ToPNG(ctx, svgOnce(), opts.PNGScale)
		case FormatPDF:
			data, err = sink.ToPDF(ctx, svgOnce())
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderSVG(c *canvas.Canvas, opts Options) []byte {
	if opts.Metadata {
		return sink.RenderSVG(c, sink.WithMetadata())
	}
	return sink.RenderSVG(c)
}
