// Package console implements the "rail" operator commands:
//
//	rail show fleet     list registered vehicles
//	rail show layout    list the tracks of every region
//	rail show ascii     draw every region as a character grid
//	rail reload         rescan all regions
//
// Lines that do not start with "rail" are ignored so the console can share
// an input stream with other command sets. Extra tokens after a command are
// passed to it as arguments.
package console

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/fleet"
	"github.com/matzehuels/railinfra/pkg/region"
	"github.com/matzehuels/railinfra/pkg/render/text"
)

// Root is the first token of every console command.
const Root = "rail"

// Command describes a console command.
type Command struct {
	Usage string
	Help  string
}

type handler struct {
	Command
	tokens []string
	run    func(ctx context.Context, args []string) error
}

// Console dispatches operator commands against a scanner and a fleet.
type Console struct {
	scanner *region.Scanner
	fleet   *fleet.Fleet
	out     io.Writer
	logger  *log.Logger

	// GridWidth and GridHeight size "rail show ascii".
	GridWidth  int
	GridHeight int

	handlers []handler
}

// New returns a console writing to out.
func New(sc *region.Scanner, f *fleet.Fleet, out io.Writer, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Console{
		scanner:    sc,
		fleet:      f,
		out:        out,
		logger:     logger,
		GridWidth:  text.ConsoleWidth,
		GridHeight: text.ConsoleHeight,
	}
	c.handlers = []handler{
		{Command{"rail show fleet", "Show the vehicle fleet"}, []string{"show", "fleet"}, c.showFleet},
		{Command{"rail show layout", "Show the layout (tracks) of every region"}, []string{"show", "layout"}, c.showLayout},
		{Command{"rail show ascii", "Show the layout (tracks) of every region as ascii art"}, []string{"show", "ascii"}, c.showASCII},
		{Command{"rail reload", "Rescan the track information of every region"}, []string{"reload"}, c.reload},
	}
	return c
}

// Commands lists the available commands.
func (c *Console) Commands() []Command {
	out := make([]Command, len(c.handlers))
	for i, h := range c.handlers {
		out[i] = h.Command
	}
	return out
}

// Execute tokenizes line and dispatches it.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	return c.Dispatch(ctx, strings.Fields(line))
}

// Dispatch runs every handler whose tokens follow the leading "rail" and
// reports whether one matched.
func (c *Console) Dispatch(ctx context.Context, cmd []string) (bool, error) {
	c.logger.Debug("console command", "cmd", strings.Join(cmd, " "))
	if len(cmd) < 2 || cmd[0] != Root {
		return false, nil
	}

	matched := false
	var errs []error
	for _, h := range c.handlers {
		args, ok := match(cmd[1:], h.tokens)
		if !ok {
			continue
		}
		matched = true
		if err := h.run(ctx, args); err != nil {
			errs = append(errs, err)
		}
	}
	return matched, stderrors.Join(errs...)
}

func match(tokens, want []string) ([]string, bool) {
	if len(tokens) < len(want) {
		return nil, false
	}
	for i, w := range want {
		if tokens[i] != w {
			return nil, false
		}
	}
	return tokens[len(want):], true
}

// Run reads commands from in until EOF, "quit" or "exit".
func (c *Console) Run(ctx context.Context, in io.Reader, prompt string) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(c.out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			c.help()
			continue
		}

		ok, err := c.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(c.out, "error: %s\n", errors.UserMessage(err))
			continue
		}
		if !ok {
			fmt.Fprintf(c.out, "unknown command %q (try \"help\")\n", line)
		}
	}
}

func (c *Console) help() {
	for _, cmd := range c.Commands() {
		fmt.Fprintf(c.out, "  %-18s %s\n", cmd.Usage, cmd.Help)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (c *Console) showFleet(context.Context, []string) error {
	fmt.Fprintln(c.out, fleet.Header())
	fmt.Fprintln(c.out, c.fleet.String())
	return nil
}

func (c *Console) showLayout(context.Context, []string) error {
	store := c.scanner.Store()
	for _, name := range store.Names() {
		res := store.Load(name)
		if res == nil {
			continue
		}
		fmt.Fprintf(c.out, "---[ Region %s\n", name)
		fmt.Fprintln(c.out, text.Text(res.Layout))
	}
	return nil
}

func (c *Console) showASCII(context.Context, []string) error {
	store := c.scanner.Store()
	var errs []error
	for _, name := range store.Names() {
		res := store.Load(name)
		if res == nil {
			continue
		}
		fmt.Fprintf(c.out, "---[ Region %s\n", name)
		grid, err := text.Grid(res.Layout, c.GridWidth, c.GridHeight)
		if err != nil {
			errs = append(errs, fmt.Errorf("region %s: %w", name, err))
			continue
		}
		fmt.Fprintln(c.out, grid)
	}
	return stderrors.Join(errs...)
}

func (c *Console) reload(ctx context.Context, _ []string) error {
	fmt.Fprintln(c.out, "Initiating track scan..")
	if err := c.scanner.Reload(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Track scan complete..")
	return nil
}
