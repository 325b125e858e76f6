// Package interactive provides the interactive command-line interface
// for the polltimer console.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/goodeb/polltimer-go/pkg/timer"
)

// Console handles interactive mode for polltimer-console.
type Console struct {
	reg     *timer.Registry
	actions *timer.ActionSet
	rl      *readline.Instance

	// Poll loop control
	pollCtx     context.Context
	pollCancel  context.CancelFunc
	pollRunning bool
}

// New creates a new interactive console handler.
func New(reg *timer.Registry, actions *timer.ActionSet) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "timer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		reg:     reg,
		actions: actions,
		rl:      rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline
// input. Use this for action and log output to avoid interfering with
// the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()
	defer c.stopPollLoop()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "setup":
			c.cmdSetup(args)

		case "start":
			c.cmdForward(args, c.reg.Start)

		case "stop":
			c.cmdForward(args, c.reg.Stop)

		case "trigger":
			c.cmdForward(args, c.reg.Trigger)

		case "remove", "rm":
			c.cmdForward(args, c.reg.Remove)

		case "override":
			c.cmdOverride(args)

		case "show", "list", "ls":
			c.cmdShow()

		case "poll", "p":
			c.reg.Poll()

		case "run":
			c.cmdRun(args)

		case "pause":
			c.stopPollLoop()

		case "load":
			c.cmdLoad(args)

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.rl.Stdout(), `Commands:
  setup <name> <action> [interval=N] [expiration=N] [library=L] [long[=B]] [running[=B]]
  start <name>            arm the timer (re-anchors an interval deadline)
  stop <name>             disarm the timer
  trigger <name>          fire the action now, bypassing the deadline
  override <name> <delta> move the deadline to now+delta
  remove <name>           delete the timer
  show                    list all timers
  poll                    run one check-all pass
  run [ms]                poll continuously at a cadence (default 50ms)
  pause                   stop the continuous poll loop
  load <file>             set up timers from a YAML definitions file
  quit                    exit
`)
}

// cmdSetup registers a timer from command arguments, e.g.
//
//	setup heartbeat demo.beep interval=250 running
func (c *Console) cmdSetup(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: setup <name> <action> [interval=N] [expiration=N] [library=L] [long[=B]] [running[=B]]")
		return
	}

	def, err := parseSetupOptions(args[1], args[2:])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "%v\n", err)
		return
	}

	name := args[0]
	err = c.reg.SetupDefinitions([]timer.NamedDefinition{{Name: name, Definition: def}}, c.actions)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Setup failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Timer %q registered\n", name)
}

// parseSetupOptions builds a Definition from setup command options.
// Flag options take both the bare form ("running") and the key=value
// form ("running=false").
func parseSetupOptions(action string, opts []string) (timer.Definition, error) {
	def := timer.Definition{Action: action}

	for _, opt := range opts {
		key, value, hasValue := strings.Cut(opt, "=")
		var err error
		switch key {
		case "interval":
			def.Interval, err = strconv.ParseInt(value, 10, 64)
		case "expiration":
			def.Expiration, err = strconv.ParseInt(value, 10, 64)
		case "library":
			def.Library = value
		case "long":
			def.Long, err = parseFlagOption(value, hasValue)
		case "running":
			def.Running, err = parseFlagOption(value, hasValue)
		default:
			return timer.Definition{}, fmt.Errorf("unknown option: %s", opt)
		}
		if err != nil || (hasValue && value == "") {
			return timer.Definition{}, fmt.Errorf("invalid option value: %s", opt)
		}
	}
	return def, nil
}

func parseFlagOption(value string, hasValue bool) (timer.FlexBool, error) {
	if !hasValue {
		return true, nil
	}
	v, err := strconv.ParseBool(value)
	return timer.FlexBool(v), err
}

// cmdForward runs a single name-keyed registry operation.
func (c *Console) cmdForward(args []string, op func(string) error) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: <command> <name>")
		return
	}
	if err := op(args[0]); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
	}
}

func (c *Console) cmdOverride(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: override <name> <delta>")
		return
	}
	delta, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid delta: %s\n", args[1])
		return
	}
	if err := c.reg.OverrideExpiration(args[0], delta); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
	}
}

func (c *Console) cmdShow() {
	count := 0
	for name, info := range c.reg.List() {
		fmt.Fprintf(c.rl.Stdout(), "%s:\n%s\n", name, info)
		count++
	}
	if count == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No timers registered")
	}
}

// cmdRun starts a background poll loop at the given cadence. The core
// never polls itself; this loop is the host's polling responsibility.
func (c *Console) cmdRun(args []string) {
	cadence := 50 * time.Millisecond
	if len(args) > 0 {
		ms, err := strconv.Atoi(args[0])
		if err != nil || ms <= 0 {
			fmt.Fprintf(c.rl.Stdout(), "Invalid cadence: %s\n", args[0])
			return
		}
		cadence = time.Duration(ms) * time.Millisecond
	}

	if c.pollRunning {
		fmt.Fprintln(c.rl.Stdout(), "Poll loop already running (use 'pause' first)")
		return
	}

	c.pollCtx, c.pollCancel = context.WithCancel(context.Background())
	c.pollRunning = true

	go func(ctx context.Context) {
		ticker := time.NewTicker(cadence)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.reg.Poll()
			}
		}
	}(c.pollCtx)

	fmt.Fprintf(c.rl.Stdout(), "Polling every %v\n", cadence)
}

func (c *Console) stopPollLoop() {
	if !c.pollRunning {
		return
	}
	c.pollCancel()
	c.pollRunning = false
	fmt.Fprintln(c.rl.Stdout(), "Poll loop stopped")
}

func (c *Console) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: load <file>")
		return
	}

	defs, err := timer.LoadDefinitions(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Load failed: %v\n", err)
		return
	}
	if err := c.reg.SetupDefinitions(defs, c.actions); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Setup failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Loaded %d timer(s)\n", len(defs))
}
