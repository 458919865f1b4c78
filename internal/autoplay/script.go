package autoplay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
	"github.com/appengine-ltd/reel-it/internal/parser"
)

type ScriptReport struct {
	Results []game.EncounterResult
	Elapsed time.Duration
	Quit    bool
}

// RunScript replays parsed intents against enc in order. "cast" starts an
// attempt, "abort" gives it up, "quit" stops early and "status" logs the
// current snapshot. Inputs sent while idle are dropped by the encounter.
func RunScript(ctx context.Context, enc *game.Encounter, intents []parser.Intent, logger *slog.Logger) (ScriptReport, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var rep ScriptReport
	for i, intent := range intents {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		active := enc.Phase() != game.PhaseIdle

		switch intent.Kind {
		case parser.Control:
			switch intent.Verb {
			case "quit":
				rep.Quit = true
				return rep, nil
			case "cast":
				if err := enc.Start(ctx); err != nil {
					if !errors.Is(err, game.ErrEncounterActive) {
						return rep, err
					}
					logger.Warn("cast ignored", "line", i+1, "phase", string(enc.Phase()))
				}
			case "abort":
				if err := enc.Abort(); err != nil {
					logger.Debug("abort while idle", "line", i+1)
				}
			case "status":
				logStatus(logger, enc.Snapshot())
			}
		case parser.Command, parser.Wait:
			ev, ok := intent.Event()
			if !ok {
				continue
			}
			if tick, isTick := ev.(game.TickEvent); isTick {
				rep.Elapsed += tick.Elapsed
			}
			enc.Advance(ev)
		}

		if active && enc.Phase() == game.PhaseIdle {
			if res, ok := enc.LastResult(); ok {
				rep.Results = append(rep.Results, res)
			}
		}
	}
	return rep, nil
}

func logStatus(logger *slog.Logger, v game.EncounterView) {
	args := []any{"phase", string(v.Phase), "attempt", v.Attempt}
	switch {
	case v.Cast != nil:
		args = append(args, "meter", round1(v.Cast.Meter), "window", v.Cast.Window.String())
	case v.Lure != nil:
		args = append(args, "step", v.Lure.Phase, "of", v.Lure.Phases, "expect", v.Lure.Required.String(), "interest", round1(v.Lure.Interest))
	case v.Reel != nil:
		args = append(args, "tension", round1(v.Reel.Tension), "line", round1(v.Reel.Line), "progress", round1(v.Reel.Progress))
		if v.Reel.QTE != nil {
			args = append(args, "qte", string(v.Reel.QTE.Kind))
		}
	}
	if v.Fish != nil {
		args = append(args, "fish", v.Fish.ID)
	}
	logger.Info("status", args...)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
