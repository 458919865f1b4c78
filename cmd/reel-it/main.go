//go:build cgo
// +build cgo

package main

import (
	"context"
	"os"

	"github.com/appengine-ltd/reel-it/internal/gui"
	"github.com/appengine-ltd/reel-it/internal/session"
	"github.com/appengine-ltd/reel-it/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], launch))
}

func launch(ctx context.Context, opts options, sess *session.Session) error {
	if opts.tui {
		return ui.NewApp(ui.AppConfig{
			Version:   version,
			Commit:    commit,
			BuildDate: date,
			Session:   sess,
		}).Run(ctx)
	}
	cfg := gui.AppConfig{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
		Session:   sess,
		AssetsDir: opts.assets,
	}
	if opts.stdin {
		cfg.Commands = os.Stdin
	}
	return gui.NewApp(cfg).Run(ctx)
}
