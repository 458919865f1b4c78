//go:build !cgo
// +build !cgo

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/appengine-ltd/reel-it/internal/session"
	"github.com/appengine-ltd/reel-it/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], launch))
}

// launch always uses the terminal client; the window client needs cgo.
func launch(ctx context.Context, opts options, sess *session.Session) error {
	if opts.stdin {
		fmt.Fprintln(os.Stderr, "-stdin needs the window client; ignoring it in this build.")
	}
	return ui.NewApp(ui.AppConfig{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
		Session:   sess,
	}).Run(ctx)
}
