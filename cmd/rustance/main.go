package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jask/rustance/internal/clock"
	"github.com/jask/rustance/internal/config"
	"github.com/jask/rustance/internal/database"
	"github.com/jask/rustance/internal/database/repository"
	"github.com/jask/rustance/internal/ledger"
	"github.com/jask/rustance/internal/logging"
	"github.com/jask/rustance/internal/render"
)

const version = "0.2"

// Exit codes.
const (
	exitOK          = 0
	exitUsage       = 1
	exitOperational = 2
)

// app carries what one invocation needs; there is no other global state.
type app struct {
	home    string
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	clock   clock.Clock
	verbose bool
}

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: home dir: %v\n", err)
		os.Exit(exitOperational)
	}
	a := &app{home: home, in: os.Stdin, out: os.Stdout, errOut: os.Stderr, clock: clock.System{}}
	os.Exit(a.execute(context.Background(), os.Args[1:]))
}

// execute runs one command line and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(a.errOut, "error: %v\n", err)
	return exitCode(err)
}

// exitCode maps classified ledger failures to 2 and everything else, which
// is argument parsing, to 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case ledger.KindOf(err) != ledger.KindUnknown:
		return exitOperational
	default:
		return exitUsage
	}
}

// withEngine loads config, bootstraps the store and runs fn with an engine
// inside the command's logging wrapper.
func (a *app) withEngine(ctx context.Context, name string, fn func(context.Context, *ledger.Engine, *logging.LogData) error) error {
	cfg, err := config.Load(config.DefaultPaths(a.home))
	if err != nil {
		return ledger.E(ledger.KindIo, "bootstrap", err)
	}
	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	log := logging.SetupLogging(a.errOut, level)

	return logging.Wrap(name, log, func(ld *logging.LogData) error {
		db, err := database.Bootstrap(ctx, cfg.Database.Database, cfg.Database.Migrates,
			ld.Log().WithField(logging.FieldComponent, logging.ComponentStorage))
		if err != nil {
			return ledger.E(ledger.KindIo, "bootstrap", err)
		}
		defer db.Close()

		engine := &ledger.Engine{
			Store:    repository.NewRecordRepo(db),
			Clock:    a.clock,
			Renderer: render.New(a.out),
			In:       a.in,
			Log:      ld.Log(),
		}
		return fn(ctx, engine, ld)
	})()
}
