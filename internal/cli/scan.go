package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/marker"
	"github.com/matzehuels/railinfra/pkg/pipeline"
)

// scanOpts holds the flags of the scan command.
type scanOpts struct {
	formats  string
	output   string
	region   string
	width    int
	height   int
	detailed bool
	noCache  bool
	refresh  bool
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "scan [scene]",
		Short: "Scan a scene and render its tracks",
		Long: `Scan every region of a scene (or one with --region) and render the tracks.

Text and ascii outputs are printed when no output directory is given; other
formats are written to <output>/<region><ext>.`,
		Example: `  railinfra scan yard.yaml
  railinfra scan yard.yaml -f ascii --width 120 --height 40
  railinfra scan yard.yaml -f svg,json -o out/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: text, ascii, dot, svg, json (default text)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory")
	cmd.Flags().StringVarP(&opts.region, "region", "r", "", "scan only this region")
	cmd.Flags().IntVar(&opts.width, "width", 0, "ascii grid width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "ascii grid height (default from config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label node-link points with tag and position")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, args []string, opts scanOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	popts := cfg.PipelineOptions()
	popts.Formats = parseFormats(opts.formats)
	popts.Detailed = opts.detailed
	popts.Refresh = opts.refresh
	if opts.width > 0 {
		popts.GridWidth = opts.width
	}
	if opts.height > 0 {
		popts.GridHeight = opts.height
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	src, err := openSource(ctx, cfg, args)
	if err != nil {
		return err
	}
	defer src.Close(context.WithoutCancel(ctx))

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	regions, err := selectRegions(ctx, src, opts.region)
	if err != nil {
		return err
	}

	toStdout := opts.output == "" && printable(popts.Formats)
	prog := newProgress(loggerFromContext(ctx))
	for _, r := range regions {
		ms, err := src.Markers(ctx, r.Name)
		if err != nil {
			return err
		}
		exec, err := runner.Execute(ctx, r, ms, popts)
		if err != nil {
			return fmt.Errorf("region %s: %w", r.Name, err)
		}

		if toStdout {
			if err := writeRegion(stdout, r.Name, popts.Formats, exec.Artifacts); err != nil {
				return err
			}
			continue
		}

		printSuccess("Region %s", r.Name)
		if exec.Result != nil {
			printStats(exec.Result.Stats.Tracks, exec.Result.Stats.Eligible, exec.CacheHit)
		} else {
			printStats(0, 0, exec.CacheHit)
		}
		paths, err := writeArtifacts(opts.output, r.Name, popts.Formats, exec.Artifacts)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printFile(p)
		}
	}
	prog.done("scan complete", "regions", len(regions))

	if !toStdout && len(args) > 0 {
		printNewline()
		printNextStep("Browse the tracks", "railinfra browse "+args[0])
	}
	return nil
}

// selectRegions returns every region of src, or only the named one.
func selectRegions(ctx context.Context, src marker.Source, name string) ([]marker.Region, error) {
	regions, err := src.Regions(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return regions, nil
	}
	for _, r := range regions {
		if r.Name == name {
			return []marker.Region{r}, nil
		}
	}
	return nil, errors.New(errors.ErrCodeRegionNotFound, "region %q not found", name)
}

// printable reports whether every format is plain text.
func printable(formats []string) bool {
	for _, f := range formats {
		if f != pipeline.FormatText && f != pipeline.FormatASCII {
			return false
		}
	}
	return true
}

// writeRegion prints the artifacts of one region in the console layout.
func writeRegion(w io.Writer, name string, formats []string, artifacts map[string][]byte) error {
	if _, err := fmt.Fprintf(w, "---[ Region %s\n", name); err != nil {
		return err
	}
	for _, f := range formats {
		if _, err := w.Write(artifacts[f]); err != nil {
			return err
		}
	}
	return nil
}

// writeArtifacts writes each artifact to dir/<region><ext> and returns the
// paths in format order.
func writeArtifacts(dir, name string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		p := filepath.Join(dir, name+pipeline.FormatExtensions[f])
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
