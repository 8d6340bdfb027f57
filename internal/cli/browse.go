package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railinfra/pkg/region"
)

// browseCommand creates the interactive region browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [scene]",
		Short: "Browse scanned regions interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			src, err := openSource(ctx, cfg, args)
			if err != nil {
				return err
			}
			defer src.Close(ctx)

			// Logging would tear the alt screen; failures surface in the status line.
			sc := region.NewScanner(src, nil, region.NewStore(), cfg.PipelineOptions(), nil)
			spinner := newSpinnerWithContext(ctx, "Scanning regions...")
			spinner.Start()
			err = sc.ScanAll(ctx)
			spinner.Stop()
			if err != nil {
				printWarning("Some regions failed to scan: %v", err)
			}

			_, err = tea.NewProgram(NewBrowseModel(sc), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}
