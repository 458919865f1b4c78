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
	"path/filepath"
	"syscall"

	"github.com/appengine-ltd/reel-it/internal/catalog"
	"github.com/appengine-ltd/reel-it/internal/config"
	"github.com/appengine-ltd/reel-it/internal/game"
	"github.com/appengine-ltd/reel-it/internal/journal"
	"github.com/appengine-ltd/reel-it/internal/session"
	"github.com/appengine-ltd/reel-it/internal/telemetry"
)

// version, commit, date are injected at build time (see .goreleaser.yaml).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	showVersion bool
	tui         bool
	stdin       bool
	script      string
	seed        int64
	lure        string
	location    string
	assets      string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("reel-it", flag.ContinueOnError)
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	fs.BoolVar(&opts.tui, "tui", false, "use the terminal client even when the window client is available")
	fs.BoolVar(&opts.stdin, "stdin", false, "read typed commands from stdin alongside the window client")
	fs.StringVar(&opts.script, "script", "", "replay a command script (\"-\" for stdin) and print the narration")
	fs.Int64Var(&opts.seed, "seed", 0, "random seed (overrides REELIT_SEED)")
	fs.StringVar(&opts.lure, "lure", "", "lure to start with (overrides REELIT_LURE)")
	fs.StringVar(&opts.location, "location", "", "water area to start at (overrides REELIT_LOCATION)")
	fs.StringVar(&opts.assets, "assets", "assets", "directory holding fonts for the window client")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// launcher starts an interactive client over a prepared session.
type launcher func(ctx context.Context, opts options, sess *session.Session) error

func run(args []string, launch launcher) int {
	opts, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if opts.showVersion {
		fmt.Printf("Reel It %s (%s) %s\n", version, commit, date)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o, err := prepare(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer o.Close(context.WithoutCancel(ctx))

	if opts.script != "" {
		err = runScript(ctx, o.session, opts.script, os.Stdin, os.Stdout)
	} else {
		err = launch(ctx, opts, o.session)
	}
	if err != nil {
		o.logger.Error("exit", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// outing is everything a client needs, plus the cleanup to run after it.
type outing struct {
	logger  *slog.Logger
	session *session.Session
	closers []func(context.Context) error
}

func (o *outing) Close(ctx context.Context) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i](ctx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}
}

// prepare reads the environment and builds a session with its catalog,
// journal and tracing. Scripts log to stderr; the interactive clients own
// the terminal, so they log to a file in the data directory.
func prepare(ctx context.Context, opts options) (*outing, error) {
	env, err := config.ParseEnv()
	if err != nil {
		return nil, err
	}
	if opts.seed != 0 {
		env.Seed = opts.seed
	}
	if opts.lure != "" {
		env.Lure = opts.lure
	}
	if opts.location != "" {
		env.Location = opts.location
	}

	o := &outing{}
	var logOut io.Writer = os.Stderr
	if opts.script == "" {
		f, err := openLogFile(env)
		if err != nil {
			return nil, err
		}
		o.closers = append(o.closers, func(context.Context) error { return f.Close() })
		logOut = f
	}
	logger, err := config.NewLogger(logOut, env.LogLevel, env.LogFormat)
	if err != nil {
		o.Close(ctx)
		return nil, err
	}
	o.logger = logger

	tuning := game.DefaultTuning()
	if env.TuningFile != "" {
		if tuning, err = config.LoadTuning(env.TuningFile); err != nil {
			o.Close(ctx)
			return nil, err
		}
		logger.Info("tuning loaded", "path", env.TuningFile)
	}

	var cat *catalog.Catalog
	if env.CatalogFile != "" {
		cat, err = catalog.Load(env.CatalogFile, logger)
	} else {
		cat, err = catalog.Default(logger)
	}
	if err != nil {
		o.Close(ctx)
		return nil, err
	}

	lure, err := env.LureType()
	if err != nil {
		o.Close(ctx)
		return nil, err
	}

	shutdown, err := telemetry.Setup(ctx, env.OTelEndpoint, version)
	if err != nil {
		o.Close(ctx)
		return nil, err
	}
	o.closers = append(o.closers, shutdown)

	cfg := session.Config{
		Catalog:    cat,
		Tuning:     tuning,
		Conditions: env.Conditions(),
		Lure:       lure,
		Seed:       env.Seed,
		Logger:     logger,
	}
	path, err := env.JournalFile()
	if err != nil {
		o.Close(ctx)
		return nil, err
	}
	if path != "" {
		store, err := openJournal(ctx, path)
		if err != nil {
			o.Close(ctx)
			return nil, err
		}
		o.closers = append(o.closers, func(context.Context) error { return store.Close() })
		cfg.Journal = store
		logger.Debug("journal open", "path", path)
	}

	if o.session, err = session.New(cfg); err != nil {
		o.Close(ctx)
		return nil, err
	}
	return o, nil
}

func openLogFile(env config.Env) (*os.File, error) {
	dir, err := env.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, "reel-it.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func openJournal(ctx context.Context, path string) (*journal.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return journal.Open(ctx, path)
}

// runScript replays a script file and prints the narration and results.
func runScript(ctx context.Context, sess *session.Session, path string, stdin io.Reader, out io.Writer) error {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}
	rep, err := sess.RunScript(ctx, in)
	for _, line := range sess.Lines(0) {
		fmt.Fprintln(out, line.Text)
	}
	if err != nil {
		return err
	}
	for _, res := range rep.Results {
		if res.Caught && res.Report != nil {
			fmt.Fprintf(out, "attempt %d: caught %s (%.2f kg)\n", res.Attempt, res.Report.Fish.Name, res.Report.WeightKg)
			continue
		}
		fmt.Fprintf(out, "attempt %d: %s in %s\n", res.Attempt, res.Reason, res.FailedIn)
	}
	fmt.Fprintf(out, "elapsed %s\n", rep.Elapsed)
	return nil
}
