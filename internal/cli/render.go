package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdraw/pkg/diagram"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/pipeline"
	"github.com/matzehuels/stackdraw/pkg/sink"
)

// stdio names standard input or output in place of a path.
const stdio = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file, base path for several formats, or "-"
	formats  []string // svg, png, pdf, json
	input    string   // document encoding: toml or json (default from extension)
	scale    float64  // png zoom factor
	metadata bool     // embed the JSON description in the SVG
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram document",
		Long: `Render a TOML or JSON diagram document to SVG, PNG, PDF or a JSON description.

Pass "-" to read the document from standard input. PNG and PDF output
need rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == stdio && len(opts.formats) != 1 {
				return errors.New(errors.ErrCodeInvalidArgument, "writing to stdout needs exactly one format")
			}
			return c.runRender(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (several), or "-" for stdout`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.input, "input", "", "document format: toml or json (default from file extension)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG zoom factor")
	cmd.Flags().BoolVar(&opts.metadata, "metadata", false, "embed the JSON description in the SVG")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

// runRender reads the document, renders every format and writes the results.
func (c *CLI) runRender(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	src, err := readSource(stdin, input)
	if err != nil {
		return err
	}
	format, err := documentFormat(opts.input, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *spinner
	if needsConverter(opts.formats) && opts.output != stdio {
		spin = startSpinner(ctx, os.Stderr, "Converting with "+sink.Converter+"...")
	}

	st := startStage(logger, "render")
	res, err := runner.Execute(ctx, src, pipeline.Options{
		Format:   format,
		Formats:  opts.formats,
		PNGScale: opts.scale,
		Metadata: opts.metadata,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		st.end(err)
		return err
	}

	if opts.output == stdio {
		_, err := stdout.Write(res.Artifacts[opts.formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	for _, f := range formats {
		if err := writeArtifact(paths[f], res.Artifacts[f]); err != nil {
			return err
		}
	}
	st.end(nil, "files", len(formats), "cached", res.CacheInfo.RenderHit)

	out := newPrinter(stdout)
	out.success("Rendered %s", displayName(input))
	for _, f := range formats {
		out.file(paths[f])
	}
	out.stats(res.Stats.ElementCount, res.Stats.EntityCount, res.CacheInfo.RenderHit)
	return nil
}

// readSource reads the document from a file, or from stdin for "-".
func readSource(stdin io.Reader, input string) ([]byte, error) {
	if input == stdio {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", input)
	}
	return data, nil
}

// documentFormat resolves --input, falling back to the file extension.
func documentFormat(flag, input string) (diagram.Format, error) {
	switch strings.ToLower(flag) {
	case "":
		if input == stdio {
			return diagram.FormatTOML, nil
		}
		return diagram.FormatFromPath(input), nil
	case "toml":
		return diagram.FormatTOML, nil
	case "json":
		return diagram.FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %s (must be 'toml' or 'json')", flag)
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}

// outputPaths maps each format to its output file. A single format uses
// output as given; several formats share output as a base path with the
// format as extension. Without output the input name is the base.
func outputPaths(output, input string, formats []string) map[string]string {
	if input == stdio {
		input = "diagram"
	}
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func displayName(input string) string {
	if input == stdio {
		return "stdin"
	}
	return filepath.Base(input)
}
