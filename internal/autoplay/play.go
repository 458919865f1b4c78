package autoplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

var ErrStalled = errors.New("encounter did not finish")

const (
	DefaultStep  = 20 * time.Millisecond
	DefaultLimit = 10 * time.Minute
)

type Driver interface {
	Decide(game.EncounterView) []game.Input
}

type PlayOptions struct {
	// Step is the virtual time between decisions.
	Step time.Duration
	// Limit aborts an attempt that runs longer than this in virtual time.
	Limit time.Duration
}

func (o PlayOptions) withDefaults() PlayOptions {
	if o.Step <= 0 {
		o.Step = DefaultStep
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Play starts one attempt and steps it to completion, asking d for inputs
// before every tick.
func Play(ctx context.Context, enc *game.Encounter, d Driver, opts PlayOptions) (game.EncounterResult, error) {
	opts = opts.withDefaults()
	if err := enc.Start(ctx); err != nil {
		return game.EncounterResult{}, err
	}
	var elapsed time.Duration
	for steps := 0; enc.Phase() != game.PhaseIdle; steps++ {
		if steps%256 == 0 {
			if err := ctx.Err(); err != nil {
				_ = enc.Abort()
				return game.EncounterResult{}, err
			}
		}
		if elapsed > opts.Limit {
			_ = enc.Abort()
			return game.EncounterResult{}, fmt.Errorf("%w after %s", ErrStalled, elapsed)
		}
		phase := enc.Phase()
		for _, in := range d.Decide(enc.Snapshot()) {
			enc.Advance(game.Send(in))
			if enc.Phase() != phase {
				break
			}
		}
		if enc.Phase() == game.PhaseIdle {
			break
		}
		enc.Advance(game.Tick(opts.Step))
		elapsed += opts.Step
	}
	res, ok := enc.LastResult()
	if !ok {
		return game.EncounterResult{}, ErrStalled
	}
	return res, nil
}
