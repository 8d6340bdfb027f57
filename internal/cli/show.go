package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railinfra/internal/console"
	"github.com/matzehuels/railinfra/pkg/config"
	"github.com/matzehuels/railinfra/pkg/fleet"
	"github.com/matzehuels/railinfra/pkg/region"
)

// showCommand creates the show command, a one-shot form of the console's
// "rail show" commands.
func (c *CLI) showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "show layout|ascii [scene]",
		Short:     "Print the tracks of every region",
		Example:   "  railinfra show layout yard.yaml\n  railinfra show ascii yard.yaml",
		ValidArgs: []string{"layout", "ascii"},
		Args:      cobra.MatchAll(cobra.RangeArgs(1, 2), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			con, closeFn, err := c.openConsole(ctx, cfg, args[1:], fleet.New())
			if err != nil {
				return err
			}
			defer closeFn()

			_, err = con.Dispatch(ctx, []string{console.Root, "show", args[0]})
			return err
		},
	}
	return cmd
}

// openConsole opens the marker source, scans every region and returns a
// console over the results writing to the status output. Failed regions are logged
// and left out.
func (c *CLI) openConsole(ctx context.Context, cfg config.Config, args []string, f *fleet.Fleet) (*console.Console, func(), error) {
	src, err := openSource(ctx, cfg, args)
	if err != nil {
		return nil, nil, err
	}
	runner, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		src.Close(ctx)
		return nil, nil, err
	}

	sc := region.NewScanner(src, runner, region.NewStore(), cfg.PipelineOptions(), c.Logger)
	if err := sc.ScanAll(ctx); err != nil {
		c.Logger.Warn("scan incomplete", "error", err)
	}

	con := console.New(sc, f, stdout, c.Logger)
	con.GridWidth, con.GridHeight = cfg.Grid.Width, cfg.Grid.Height
	closeFn := func() {
		runner.Close()
		src.Close(context.WithoutCancel(ctx))
	}
	return con, closeFn, nil
}
