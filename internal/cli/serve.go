package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railinfra/internal/console"
	"github.com/matzehuels/railinfra/internal/server"
	"github.com/matzehuels/railinfra/pkg/cache"
	"github.com/matzehuels/railinfra/pkg/chat"
	"github.com/matzehuels/railinfra/pkg/config"
	"github.com/matzehuels/railinfra/pkg/fleet"
	"github.com/matzehuels/railinfra/pkg/metrics"
	"github.com/matzehuels/railinfra/pkg/observability"
	"github.com/matzehuels/railinfra/pkg/pipeline"
	"github.com/matzehuels/railinfra/pkg/region"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		withConsole bool
	)

	cmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "Serve layouts, the fleet and the script channel over HTTP",
		Long: `Scan every region and serve the results over HTTP. Artifacts are cached in
memory, or in Redis when cache.redis_addr is set. With --console the operator
console reads commands from stdin while the server runs; "quit" stops both.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, args, withConsole)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&withConsole, "console", false, "also run the operator console on stdin")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, args []string, withConsole bool) error {
	src, err := openSource(ctx, cfg, args)
	if err != nil {
		return err
	}
	defer src.Close(context.WithoutCancel(ctx))

	runner, err := c.newServerRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	reg := metrics.NewRegistry()
	observability.SetScanHooks(reg)
	observability.SetCacheHooks(reg)
	observability.SetHTTPHooks(reg)
	observability.SetFleetHooks(reg)
	defer observability.Reset()

	opts := cfg.PipelineOptions()
	sc := region.NewScanner(src, runner, region.NewStore(), opts, c.Logger)
	spinner := newSpinnerWithContext(ctx, "Scanning regions...")
	spinner.Start()
	if err := sc.ScanAll(ctx); err != nil {
		spinner.StopWithError("Scan incomplete")
		c.Logger.Warn("scan incomplete", "error", err)
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Scanned %d regions", len(sc.Store().Names())))
	}

	vehicles := fleet.New()
	handler := chat.NewHandler(cfg.Channel, vehicles, logNotifier(c.Logger), c.Logger)
	srv := server.New(server.Config{
		Scanner: sc,
		Runner:  runner,
		Fleet:   vehicles,
		Chat:    handler,
		Metrics: reg.Handler(),
		Options: opts,
		Logger:  c.Logger,
	})

	printKeyValue("Listening", StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
	printKeyValue("Channel", fmt.Sprint(cfg.Channel))

	if !withConsole {
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	con := console.New(sc, vehicles, stdout, c.Logger)
	con.GridWidth, con.GridHeight = cfg.Grid.Width, cfg.Grid.Height
	go func() {
		defer cancel()
		if err := con.Run(ctx, os.Stdin, console.Root+"> "); err != nil && ctx.Err() == nil {
			c.Logger.Error("console stopped", "error", err)
		}
	}()
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// newServerRunner caches artifacts in Redis when configured, else in a
// bounded in-memory LRU.
func (c *CLI) newServerRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	if cfg.Cache.RedisAddr != "" {
		return c.newRunner(ctx, cfg, false)
	}
	mem, err := cache.NewMemoryCache(cfg.Cache.Size)
	if err != nil {
		return nil, err
	}
	return c.runnerWith(mem, cfg.Cache), nil
}

// logNotifier stands in for the in-world event bus: replies are logged.
func logNotifier(logger *log.Logger) chat.Notifier {
	return chat.NotifierFunc(func(_ context.Context, target uuid.UUID, event string, msg chat.LinkMessage) error {
		logger.Info("object event", "target", target, "event", event, "num", msg.Num, "str", msg.Str)
		return nil
	})
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
