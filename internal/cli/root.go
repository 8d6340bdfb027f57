package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/railinfra/pkg/buildinfo"
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package with values injected via
// ldflags at build time. Empty values keep the buildinfo defaults.
func SetVersion(v, c, d string) {
	buildinfo.Set(v, c, d)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "railinfra infers rail track topology from guide markers",
		Long: `railinfra scans a region's "Guide" and "Alt Guide" markers, links each marker
to its forward neighbor, groups the result into tracks and renders them as
text, a character grid or a node-link diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/railinfra/config.toml)")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.consoleCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
