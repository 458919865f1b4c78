// Package autoplay drives encounters without a human: from a parsed command
// script, or from a bot that reads the same snapshot a client would render.
package autoplay

import (
	"fmt"
	"math"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

const (
	// aimSlack is how close the cursor must be to the planned point. It is
	// wider than one default step of the fastest cursor so no sweep is missed.
	aimSlack = 3.0
	// cooldownSteps keeps the bot from re-reading a cursor it just acted on.
	cooldownSteps = 8
)

// Bot plays from the encounter snapshot alone. Skill 1 aims at the centre of
// every window and never fumbles; skill 0 aims wide and presses the wrong
// thing about a fifth of the time.
type Bot struct {
	skill float64
	rng   game.RandomSource

	key      string
	aim      float64
	release  time.Duration
	fumble   bool
	acted    bool
	cooldown int
}

func NewBot(skill float64, rng game.RandomSource) *Bot {
	if rng == nil {
		rng = game.NewSeededRNG(time.Now().UnixNano())
	}
	return &Bot{skill: clamp01(skill), rng: rng}
}

func (b *Bot) Skill() float64 { return b.skill }

// Decide returns the inputs to send at this instant. It is called once per
// driver step, before the step's tick.
func (b *Bot) Decide(v game.EncounterView) []game.Input {
	if b.cooldown > 0 {
		b.cooldown--
		return nil
	}
	switch {
	case v.Cast != nil:
		return b.cast(*v.Cast)
	case v.Lure != nil:
		return b.lure(*v.Lure)
	case v.Reel != nil:
		return b.reel(*v.Reel)
	}
	return nil
}

// plan draws a fresh aim whenever the thing being aimed at changes.
func (b *Bot) plan(key string, spread float64) {
	if key == b.key {
		return
	}
	b.key = key
	b.acted = false
	b.aim = (b.rng.Float64()*2 - 1) * spread * (1 - b.skill)
	b.fumble = b.rng.Float64() < (1-b.skill)*0.2
	b.release = 0
}

func (b *Bot) act(in ...game.Input) []game.Input {
	b.acted = true
	b.cooldown = cooldownSteps
	// Replan after every action so a retry on the same step aims afresh.
	b.key = ""
	return in
}

func (b *Bot) cast(v game.CastView) []game.Input {
	if v.Resolved {
		return nil
	}
	b.plan("cast", v.Window.Width()*1.5)
	target := clamp(v.Window.Center()+b.aim, 1, 99)
	if math.Abs(v.Meter-target) > aimSlack {
		return nil
	}
	return b.act(game.Trigger())
}

func (b *Bot) lure(v game.LureView) []game.Input {
	if v.Resolved || v.Resolving {
		return nil
	}
	b.plan(fmt.Sprintf("lure/%d/%d", v.Phase, v.Step), 45)
	if math.Abs(v.Indicator-clamp(50+b.aim, 1, 99)) > aimSlack {
		return nil
	}
	if v.Required == game.LureSequence {
		if v.Step >= len(v.Sequence) {
			return nil
		}
		want := v.Sequence[v.Step]
		if b.fumble {
			want = otherDirection(want)
		}
		return b.act(game.Press(want))
	}
	in, ok := lureInput(v.Required)
	if !ok {
		return nil
	}
	if b.fumble {
		in = wrongLureInput(v.Required)
	}
	return b.act(in)
}

func (b *Bot) reel(v game.ReelView) []game.Input {
	if v.Resolved || v.QTE == nil {
		return nil
	}
	q := *v.QTE
	key := fmt.Sprintf("qte/%d", v.QTESuccesses+v.QTEFailures)
	switch q.Kind {
	case game.QTETap:
		if b.rng.Float64() < 0.35+0.6*b.skill {
			return []game.Input{game.Trigger()}
		}
	case game.QTEHold:
		if key != b.key {
			b.plan(key, 0)
			jitter := (b.rng.Float64()*0.7 - 0.5) * (1 - b.skill)
			b.release = q.HoldGoal + time.Duration(jitter*float64(q.HoldGoal)) + 40*time.Millisecond
		}
		if !q.Holding {
			if b.acted {
				return nil
			}
			b.acted = true
			return []game.Input{game.HoldStart()}
		}
		if q.HeldFor >= b.release {
			b.cooldown = cooldownSteps
			return []game.Input{game.HoldEnd()}
		}
	case game.QTESequence:
		if q.Step >= len(q.Sequence) {
			return nil
		}
		half := (q.GoodHigh - q.GoodLow) / 2
		b.plan(fmt.Sprintf("%s/%d", key, q.Step), half*1.6)
		target := clamp((q.GoodLow+q.GoodHigh)/2+b.aim, 0, 100)
		if math.Abs(q.Cursor-target) > aimSlack {
			return nil
		}
		want := q.Sequence[q.Step]
		if b.fumble {
			want = otherDirection(want)
		}
		return b.act(game.Press(want))
	case game.QTETiming:
		b.plan(key, 0)
		if b.acted {
			return nil
		}
		if b.release == 0 {
			off := (b.rng.Float64()*2 - 1) * (1.5 - b.skill) * float64(q.Tolerance)
			b.release = q.Target + time.Duration(off)
			if b.release <= 0 {
				b.release = time.Millisecond
			}
		}
		if q.Elapsed >= b.release {
			b.acted = true
			return []game.Input{game.Trigger()}
		}
	}
	return nil
}

func lureInput(l game.LureInput) (game.Input, bool) {
	switch l {
	case game.LureTap:
		return game.Trigger(), true
	case game.LureDrag:
		return game.Drag(), true
	case game.LurePause:
		return game.Pause(), true
	}
	return game.Input{}, false
}

func wrongLureInput(l game.LureInput) game.Input {
	if l == game.LureDrag {
		return game.Pause()
	}
	return game.Drag()
}

func otherDirection(d game.Direction) game.Direction {
	if d == game.DirUp {
		return game.DirDown
	}
	return game.DirUp
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 1)
}
