// SPDX-License-Identifier: EPL-2.0

// Command padkit prepares audio samples for hardware samplers: it checks
// them, converts them to 48 kHz 16-bit WAV or AIFF, lays them out on disk
// and packs the result into a zip archive.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/padkit/internal/config"
)

const usage = `usage: padkit [-config file] <command> [flags] [args]

commands:
  validate  FILE...                 check files against the sampler input rules
  convert   [-format f] IN OUT      convert one file to 48 kHz 16-bit
  export    [flags] FILE|ID...      export samples as a batch
  kit       [flags] SLOT=FILE|ID... export samples onto bank/pad slots
  archive   DIR OUT.zip             zip an export directory
  history   [-n N]                  list recorded exports

Run "padkit <command> -h" for the flags of a command.
`

// errFailures marks a command that ran but rejected some of its input.
var errFailures = errors.New("some samples failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("padkit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "path to the YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "padkit: %v\n", err)
		return 1
	}

	a := &app{cfg: cfg, log: newLogger(cfg.Log, stderr), meters: newMeters(), out: stdout, errOut: stderr}
	defer a.meters.shutdown(context.Background(), a.log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands := map[string]func(context.Context, []string) error{
		"validate": a.validate,
		"convert":  a.convert,
		"export":   a.export,
		"kit":      a.kit,
		"archive":  a.archive,
		"history":  a.history,
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "padkit: unknown command %q\n", name)
		fs.Usage()
		return 2
	}

	if err := cmd(ctx, fs.Args()[1:]); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			fmt.Fprintf(stderr, "padkit %s: %v\n", name, err)
			return 2
		}
		fmt.Fprintf(stderr, "padkit %s: %v\n", name, err)
		return 1
	}

	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, config.Validate(cfg)
	}
	return config.Load(path)
}

func newLogger(c config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level.Slog()}
	if c.Format == config.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
