package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railinfra/internal/console"
	"github.com/matzehuels/railinfra/pkg/fleet"
)

// consoleCommand creates the interactive operator console.
func (c *CLI) consoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console [scene]",
		Short: "Run the rail operator console",
		Long: `Scan every region and read "rail" commands from stdin:

  rail show fleet     list registered vehicles
  rail show layout    list the tracks of every region
  rail show ascii     draw every region as a character grid
  rail reload         rescan all regions

Type "help" for the command list and "quit" to leave.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			con, closeFn, err := c.openConsole(ctx, cfg, args, fleet.New())
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Fprintln(stdout, StyleTitle.Render("railinfra console") + " " + StyleDim.Render("(help, quit)"))
			return con.Run(ctx, os.Stdin, console.Root+"> ")
		},
	}
}
