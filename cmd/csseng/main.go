// Command csseng is a small inspection CLI for the CSS/language engine,
// mirroring the shape of the teacher's cmd/fbc/main.go (context
// preparation, signal handling) but scoped to this
// module's surface: compiling a stylesheet and dumping its buckets, or
// hyphenating sample words, for manual QA during development.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/koreader/crengine-sub001/config"
	"github.com/koreader/crengine-sub001/state"
)

// version is overridden at build time via -ldflags, following the
// teacher's misc.GetVersion() convention minus its VCS-embedding machinery
// (no build-info generator is part of this module's domain stack).
var version = "dev"

func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "csseng",
		Usage:           "CSS subsystem and text-language/hyphenation engine inspector",
		Version:         version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
		},
		Commands: []*cli.Command{
			{
				Name:         "parse",
				Usage:        "Compile a CSS file and dump its selector buckets",
				OnUsageError: usageErrorHandler,
				Action:       runParse,
				ArgsUsage:    "CSSFILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "html", Usage: "document format (affects html-element aliasing and static guards)"},
					&cli.IntFlag{Name: "viewport-width", Value: 800, Usage: "viewport width in CSS pixels, for @media evaluation"},
					&cli.IntFlag{Name: "viewport-height", Value: 600, Usage: "viewport height in CSS pixels, for @media evaluation"},
				},
			},
			{
				Name:         "hyphenate",
				Usage:        "Hyphenate one or more words using the configured dictionary",
				OnUsageError: usageErrorHandler,
				Action:       runHyphenate,
				ArgsUsage:    "WORD [WORD...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dict", Value: "@algorithm", Usage: "dictionary id (\"@none\", \"@softhyphens\", \"@algorithm\", or a loader-resolved id)"},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       runDumpConfig,
				ArgsUsage:    "DESTINATION",
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func runDumpConfig(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
	)
	out := os.Stdout
	if len(fname) > 0 {
		// Sanitize only the base name, the same way the teacher's
		// buildDefaultFileName cleans a derived output file name before
		// handing it to os.Create, while still honouring a caller-supplied
		// destination directory.
		fname = filepath.Join(filepath.Dir(fname), config.CleanFileName(filepath.Base(fname)))
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

