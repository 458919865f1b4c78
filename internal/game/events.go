package game

import (
	"fmt"
	"time"
)

// Event is what drivers feed into Advance: either time passing or a player input.
type Event interface {
	isEvent()
}

type TickEvent struct {
	Elapsed time.Duration
}

type InputEvent struct {
	Input Input
}

func (TickEvent) isEvent()  {}
func (InputEvent) isEvent() {}

type Action int

const (
	ActionNone Action = iota
	ActionTrigger
	ActionHoldStart
	ActionHoldEnd
	ActionDirection
	ActionDrag
	ActionPause
)

func (a Action) String() string {
	switch a {
	case ActionTrigger:
		return "trigger"
	case ActionHoldStart:
		return "hold_start"
	case ActionHoldEnd:
		return "hold_end"
	case ActionDirection:
		return "direction"
	case ActionDrag:
		return "drag"
	case ActionPause:
		return "pause"
	default:
		return "none"
	}
}

type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

var allDirections = []Direction{DirUp, DirDown, DirLeft, DirRight}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

func (d Direction) Arrow() string {
	switch d {
	case DirUp:
		return "↑"
	case DirDown:
		return "↓"
	case DirLeft:
		return "←"
	case DirRight:
		return "→"
	default:
		return "·"
	}
}

type Input struct {
	Action    Action
	Direction Direction
}

func Trigger() Input { return Input{Action: ActionTrigger} }
func HoldStart() Input { return Input{Action: ActionHoldStart} }
func HoldEnd() Input { return Input{Action: ActionHoldEnd} }
func Drag() Input { return Input{Action: ActionDrag} }
func Pause() Input { return Input{Action: ActionPause} }
func Press(d Direction) Input { return Input{Action: ActionDirection, Direction: d} }
func Tick(d time.Duration) Event { return TickEvent{Elapsed: d} }
func Send(in Input) Event { return InputEvent{Input: in} }

func (in Input) String() string {
	if in.Action == ActionDirection {
		return fmt.Sprintf("direction:%s", in.Direction)
	}
	return in.Action.String()
}

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseCasting Phase = "casting"
	PhaseLuring  Phase = "luring"
	PhaseReeling Phase = "reeling"
)

type NoticeKind string

const (
	NoticeCastComplete  NoticeKind = "cast_complete"
	NoticeLureComplete  NoticeKind = "lure_complete"
	NoticeReelComplete  NoticeKind = "reel_complete"
	NoticePhaseStarted  NoticeKind = "phase_started"
	NoticeLureStep      NoticeKind = "lure_step"
	NoticeStruggleStart NoticeKind = "struggle_start"
	NoticeStruggleEnd   NoticeKind = "struggle_end"
	NoticeQTEStart      NoticeKind = "qte_start"
	NoticeQTEResolved   NoticeKind = "qte_resolved"
	NoticeBossPhase     NoticeKind = "boss_phase"
	NoticeSpecialAttack NoticeKind = "special_attack"
	NoticeDataIntegrity NoticeKind = "data_integrity"
)

// Terminal reports whether the notice closes a phase.
func (k NoticeKind) Terminal() bool {
	switch k {
	case NoticeCastComplete, NoticeLureComplete, NoticeReelComplete:
		return true
	}
	return false
}

// Notice is one entry on the encounter's output queue. Only the fields
// relevant to Kind are set.
type Notice struct {
	Kind    NoticeKind
	At      time.Duration
	Phase   Phase
	Success bool
	Message string

	Cast *CastOutcome
	Lure *LureOutcome
	Reel *ReelOutcome
	QTE  *QTEView

	Pattern   StrugglePattern
	Attack    SpecialAttack
	BossPhase int
	Step      int
}

func (n Notice) String() string {
	switch n.Kind {
	case NoticeCastComplete:
		if n.Cast != nil {
			return fmt.Sprintf("cast: %s accuracy=%.0f hit=%t", n.Cast.CastType, n.Cast.Accuracy, n.Cast.HitAccurateZone)
		}
	case NoticeLureComplete:
		if n.Lure != nil {
			return fmt.Sprintf("lure: %s interest=%.0f", n.Lure.Reason, n.Lure.FinalInterest)
		}
	case NoticeReelComplete:
		if n.Reel != nil {
			return fmt.Sprintf("reel: %s", n.Reel.Result())
		}
	}
	if n.Message != "" {
		return fmt.Sprintf("%s: %s", n.Kind, n.Message)
	}
	return string(n.Kind)
}
