// Command polltimer-console is an interactive shell for driving a
// poll-driven timer registry.
//
// It registers a small set of demo actions (a one-shot print, a
// self-restarting repeating timer, a flip-flop pair, and a long-domain
// minute marker), optionally loads additional timers from a YAML
// definitions file, and then hands control to a readline prompt.
//
// Usage:
//
//	polltimer-console [flags]
//
// Flags:
//
//	-defs string       YAML timer definitions file to load at startup
//	-log string        write CBOR timer events to this file
//	-log-level string  log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Start with the built-in demo actions only
//	polltimer-console
//
//	# Load timers from a definitions file and record an event log
//	polltimer-console -defs timers.yaml -log timers.tlog -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/goodeb/polltimer-go/cmd/polltimer-console/interactive"
	"github.com/goodeb/polltimer-go/pkg/clock"
	"github.com/goodeb/polltimer-go/pkg/log"
	"github.com/goodeb/polltimer-go/pkg/timer"
)

func main() {
	defsPath := flag.String("defs", "", "YAML timer definitions file to load at startup")
	logPath := flag.String("log", "", "write CBOR timer events to this file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if err := run(*defsPath, *logPath, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "polltimer-console: %v\n", err)
		os.Exit(1)
	}
}

func run(defsPath, logPath, logLevel string) error {
	actions := timer.NewActionSet()

	// The logger chain is assembled before the registry so every event,
	// including the startup setups, is captured.
	var loggers []log.Logger
	if logPath != "" {
		fl, err := log.NewFileLogger(logPath)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}

	// Console logging goes through readline's writer so it doesn't
	// mangle the prompt; the writer is wired up once the console
	// exists.
	out := &deferredWriter{}
	level := parseLevel(logLevel)
	slogger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	loggers = append(loggers, log.NewSlogAdapter(slogger))

	reg := timer.NewRegistryWithConfig(timer.RegistryConfig{
		Clock:  clock.NewSystemClock(),
		Logger: log.NewMultiLogger(loggers...),
	})

	console, err := interactive.New(reg, actions)
	if err != nil {
		return err
	}
	out.set(console.Stdout())

	registerDemoActions(reg, actions, console)

	if defsPath != "" {
		defs, err := timer.LoadDefinitions(defsPath)
		if err != nil {
			return fmt.Errorf("load definitions: %w", err)
		}
		if err := reg.SetupDefinitions(defs, actions); err != nil {
			return fmt.Errorf("setup definitions: %w", err)
		}
		fmt.Fprintf(console.Stdout(), "Loaded %d timer(s) from %s\n", len(defs), defsPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	console.Run(ctx, cancel)
	return nil
}

// registerDemoActions installs the built-in demo callbacks: a one-shot
// print, a repeating timer that re-arms itself, a flip-flop pair where
// each timer starts the other, and a long-domain minute marker.
func registerDemoActions(reg *timer.Registry, actions *timer.ActionSet, console *interactive.Console) {
	out := console.Stdout()

	actions.RegisterIn("demo", "one_shot", func(...any) {
		fmt.Fprintln(out, "one shot timer fired")
	})

	actions.RegisterIn("demo", "repeating", func(...any) {
		fmt.Fprintln(out, "repeating timer fired")
		if err := reg.Start("repeating"); err != nil {
			fmt.Fprintf(out, "restart failed: %v\n", err)
		}
	})

	actions.RegisterIn("demo", "mark_minute", func(...any) {
		fmt.Fprintln(out, "a new minute has turned over")
		if err := reg.Start("mark_minute"); err != nil {
			fmt.Fprintf(out, "restart failed: %v\n", err)
		}
	})

	actions.RegisterIn("demo", "flipflop_a", func(...any) {
		fmt.Fprintln(out, "flipflop timer A fires")
		if err := reg.Start("flipflop_b"); err != nil {
			fmt.Fprintf(out, "flip to B failed: %v\n", err)
		}
	})

	actions.RegisterIn("demo", "flipflop_b", func(...any) {
		fmt.Fprintln(out, "flipflop timer B fires")
		if err := reg.Start("flipflop_a"); err != nil {
			fmt.Fprintf(out, "flip to A failed: %v\n", err)
		}
	})
}

// deferredWriter forwards writes to a target chosen after construction,
// falling back to stdout until then.
type deferredWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (d *deferredWriter) set(w io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.w = w
}

func (d *deferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return os.Stdout.Write(p)
	}
	return d.w.Write(p)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
