package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
	"github.com/appengine-ltd/reel-it/internal/parser"
)

var (
	TimePeriods = []string{"day", "dawn", "dusk", "night"}
	Weathers    = []string{"clear", "cloudy", "rain", "storm", "fog"}
)

// Reply is what a typed command produced. Options is set when the parser
// needs the angler to pick between readings.
type Reply struct {
	Text    string
	Options []string
	Quit    bool
}

// Submit runs one typed command against the session. Setup words (lure, go,
// time, weather) are handled here; everything else goes through the parser
// with the active phase as context.
func (s *Session) Submit(ctx context.Context, raw string) Reply {
	raw = strings.TrimSpace(raw)
	if reply, ok := s.setup(raw); ok {
		return reply
	}

	view := s.View()
	intent := s.parser.Parse(parser.ParseContext{
		Phase:      view.Phase,
		Expected:   view.Expected(),
		DefaultGap: 500 * time.Millisecond,
	}, raw)
	if q := intent.Clarify; q != nil {
		reply := Reply{Text: q.Prompt}
		for _, opt := range q.Options {
			reply.Options = append(reply.Options, parser.IntentToCommandString(opt))
		}
		return reply
	}

	switch intent.Kind {
	case parser.Help:
		return Reply{Text: "Commands: " + strings.Join(s.parser.Verbs(), ", ") + ". Setup: lure <type>, go <area>, time <period>, weather <kind>."}
	case parser.Control:
		return s.control(ctx, intent.Verb)
	case parser.Command:
		if !s.Active() {
			return Reply{Text: "Nothing on the line. Type cast to start."}
		}
		s.Send(intent.Input)
		return Reply{Text: intent.Input.String()}
	case parser.Wait:
		s.wait(intent.Wait)
		return Reply{Text: "waited " + intent.Wait.String()}
	}
	return Reply{Text: "Unrecognised command."}
}

func (s *Session) control(ctx context.Context, verb string) Reply {
	switch verb {
	case "quit":
		return Reply{Text: "Packing up.", Quit: true}
	case "cast":
		if err := s.Cast(ctx); err != nil {
			if errors.Is(err, game.ErrEncounterActive) {
				return Reply{Text: "Already fishing."}
			}
			return Reply{Text: err.Error()}
		}
		return Reply{Text: "Cast started."}
	case "abort":
		if !s.Abort() {
			return Reply{Text: "Nothing to abort."}
		}
		return Reply{Text: "Reeled in."}
	case "status":
		return Reply{Text: s.Status()}
	}
	return Reply{Text: "Unknown control " + verb + "."}
}

// Status is a one-line summary of where the angler stands.
func (s *Session) Status() string {
	c := s.cfg.Conditions
	view := s.View()
	state := "idle"
	if s.Active() {
		state = string(view.Phase)
	}
	return fmt.Sprintf("%s at the %s, %s, %s, level %d, %s. Attempt %d, %s.",
		s.lureName(), c.Location, c.TimePeriod, c.Weather, c.PlayerLevel, state, view.Attempt, lastOutcome(view))
}

func lastOutcome(view game.EncounterView) string {
	if view.Last == nil {
		return "no result yet"
	}
	if view.Last.Caught && view.Last.Report != nil {
		return fmt.Sprintf("last landed a %.2fkg %s", view.Last.Report.WeightKg, view.Last.Report.Fish.Name)
	}
	return "last " + view.Last.Reason
}

// wait advances in frame-sized steps so long waits still see every phase.
func (s *Session) wait(d time.Duration) {
	for d > 0 && s.Active() {
		step := min(d, maxFrame)
		s.Advance(step)
		d -= step
	}
}

func (s *Session) setup(raw string) (Reply, bool) {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) != 2 {
		return Reply{}, false
	}
	arg := fields[1]
	var err error
	switch fields[0] {
	case "lure", "tie":
		if _, ok := s.cfg.Catalog.Lure(game.LureType(arg)); !ok {
			return Reply{Text: "No such lure " + arg + "."}, true
		}
		err = s.SetLure(game.LureType(arg))
	case "go", "goto", "area":
		c := s.cfg.Conditions
		c.Location = arg
		err = s.SetConditions(c)
	case "time":
		if !oneOf(arg, TimePeriods) {
			return Reply{Text: "Time is one of " + strings.Join(TimePeriods, ", ") + "."}, true
		}
		c := s.cfg.Conditions
		c.TimePeriod = arg
		err = s.SetConditions(c)
	case "weather":
		if !oneOf(arg, Weathers) {
			return Reply{Text: "Weather is one of " + strings.Join(Weathers, ", ") + "."}, true
		}
		c := s.cfg.Conditions
		c.Weather = arg
		err = s.SetConditions(c)
	default:
		return Reply{}, false
	}
	if err != nil {
		return Reply{Text: err.Error()}, true
	}
	return Reply{Text: s.Status()}, true
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
