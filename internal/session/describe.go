package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

// Describe turns a notice into a line for the angler's log. Notices that
// only matter to the views return "".
func Describe(n game.Notice) string {
	switch n.Kind {
	case game.NoticePhaseStarted:
		switch n.Phase {
		case game.PhaseCasting:
			return "Line out. Watch the meter."
		case game.PhaseLuring:
			return "Working the lure: " + n.Message + "."
		case game.PhaseReeling:
			return "Fish on! " + n.Message + "."
		}
		return ""
	case game.NoticeCastComplete:
		return describeCast(n.Cast)
	case game.NoticeLureStep:
		if n.Success {
			return fmt.Sprintf("Step %d: %s.", n.Step, n.Message)
		}
		if strings.HasPrefix(n.Message, "phase ") {
			return fmt.Sprintf("Lure phase %d wants %s.", n.Step, strings.TrimPrefix(n.Message, "phase "))
		}
		return capitalise(n.Message) + "."
	case game.NoticeLureComplete:
		return describeLure(n.Lure)
	case game.NoticeStruggleStart:
		return fmt.Sprintf("The fish starts to %s!", n.Pattern)
	case game.NoticeStruggleEnd:
		return ""
	case game.NoticeQTEStart:
		if n.QTE == nil {
			return "Quick! " + n.Message
		}
		return "Quick! " + qtePrompt(*n.QTE)
	case game.NoticeQTEResolved:
		if n.Success {
			return "Nailed it."
		}
		return "Missed: " + n.Message + "."
	case game.NoticeBossPhase:
		return fmt.Sprintf("The fish finds a second wind (phase %d).", n.BossPhase)
	case game.NoticeSpecialAttack:
		return "Special attack: " + strings.ReplaceAll(string(n.Attack), "_", " ") + "!"
	case game.NoticeReelComplete:
		return describeReel(n.Reel)
	case game.NoticeDataIntegrity:
		return "Something is off with this fish: " + n.Message
	}
	return n.String()
}

func describeCast(c *game.CastOutcome) string {
	if c == nil {
		return "Cast complete."
	}
	if c.TimedOut {
		return fmt.Sprintf("Cast released late at %.0f%% accuracy.", c.Accuracy)
	}
	switch c.CastType {
	case game.CastHotspot:
		return fmt.Sprintf("Perfect cast into the hotspot, %.0fm out.", c.DistanceM)
	case game.CastSpot:
		return fmt.Sprintf("Good cast, %.0fm out (%.0f%%).", c.DistanceM, c.Accuracy)
	}
	return fmt.Sprintf("Cast lands %.0fm out, off the mark (%.0f%%).", c.DistanceM, c.Accuracy)
}

func describeLure(l *game.LureOutcome) string {
	if l == nil {
		return "The lure comes back."
	}
	switch l.Reason {
	case game.LureHooked:
		if l.Fish != nil {
			return fmt.Sprintf("Hooked a %s!", l.Fish.Name)
		}
		return "Hooked!"
	case game.LureHookMissed:
		return "It bit but the hook didn't set."
	}
	return fmt.Sprintf("The fish lost interest after %d of %d phases.", l.PhasesCleared, l.Phases)
}

func describeReel(r *game.ReelOutcome) string {
	if r == nil {
		return "The fight is over."
	}
	name := "fish"
	if r.Fish != nil {
		name = r.Fish.Name
	}
	if r.Success {
		return fmt.Sprintf("Landed the %s in %s (%d/%d QTEs).",
			name, r.Stats.Duration.Round(100*time.Millisecond), r.Stats.QTESuccesses, r.Stats.QTESuccesses+r.Stats.QTEFailures)
	}
	if r.FailureReason == game.FailureLineBreak {
		return fmt.Sprintf("Snap! The %s broke the line.", name)
	}
	return fmt.Sprintf("The %s shook free and escaped.", name)
}

func qtePrompt(q game.QTEView) string {
	switch q.Kind {
	case game.QTETap:
		return fmt.Sprintf("Tap %d times!", q.Required)
	case game.QTEHold:
		return fmt.Sprintf("Hold for %s!", q.HoldGoal)
	case game.QTESequence:
		parts := make([]string, 0, len(q.Sequence))
		for _, d := range q.Sequence {
			parts = append(parts, d.String())
		}
		return "Press " + strings.Join(parts, " ") + "!"
	case game.QTETiming:
		return fmt.Sprintf("Strike at %s!", q.Target)
	}
	return string(q.Kind)
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
