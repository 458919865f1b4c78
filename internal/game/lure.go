package game

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type LureType string

const (
	LureSpinner     LureType = "spinner"
	LureSoftPlastic LureType = "soft_plastic"
	LureFly         LureType = "fly"
	LureSpoon       LureType = "spoon"
	LureCrankbait   LureType = "crankbait"
)

var AllLureTypes = []LureType{LureSpinner, LureSoftPlastic, LureFly, LureSpoon, LureCrankbait}

func ParseLureType(s string) (LureType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	for _, lt := range AllLureTypes {
		if string(lt) == key {
			return lt, nil
		}
	}
	return "", fmt.Errorf("unknown lure type %q", s)
}

// LureInput is the kind of action a lure phase demands.
type LureInput int

const (
	LureTap LureInput = iota + 1
	LureDrag
	LurePause
	LureSequence
)

func (l LureInput) String() string {
	switch l {
	case LureTap:
		return "tap"
	case LureDrag:
		return "drag"
	case LurePause:
		return "pause"
	case LureSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

func (l LureInput) matches(a Action) bool {
	switch l {
	case LureTap:
		return a == ActionTrigger
	case LureDrag:
		return a == ActionDrag
	case LurePause:
		return a == ActionPause
	default:
		return false
	}
}

func (lt LureType) Pattern() []LureInput {
	switch lt {
	case LureSoftPlastic:
		return []LureInput{LureDrag, LurePause, LureDrag, LurePause}
	case LureFly:
		return []LureInput{LureSequence, LureSequence, LureSequence, LureSequence}
	case LureSpoon:
		return []LureInput{LureSequence, LureTap, LureSequence, LureTap}
	case LureCrankbait:
		return []LureInput{LureDrag, LureTap, LureDrag, LureTap}
	default:
		return []LureInput{LureTap, LureTap, LureTap, LureTap}
	}
}

type LureReason string

const (
	LureHooked     LureReason = "hooked"
	LureFishLeft   LureReason = "fish_left"
	LureHookMissed LureReason = "hook_missed"
)

type LureOutcome struct {
	Hooked        bool
	Fish          *Fish
	FinalInterest float64
	PhasesCleared int
	Phases        int
	Reason        LureReason
}

// LurePhaseCount is 4 for elusive fish and 3 otherwise.
func LurePhaseCount(f Fish) int {
	if f.Elusiveness >= 7 {
		return 4
	}
	return 3
}

// LurePhaseLimit is the time allowed for phase n (1-based).
func LurePhaseLimit(kind LureInput, phase int, f Fish, stats PlayerFishingStats, castAccuracy float64, t Tuning) time.Duration {
	base := t.LureSimpleLimit
	if kind == LureSequence {
		base = t.LureSequenceLimit
	}
	difficulty := math.Min(0.5, float64(phase-1)*0.08+f.Elusiveness*0.03)
	secs := base.Seconds()*(1-difficulty) + (stats.LureControl-defaultAttribute)*0.1
	secs *= 1 + (castAccuracy-50)/500
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs * float64(time.Second))
}

type lureState int

const (
	lureIdle lureState = iota
	lurePhase
	lureResolving
	lureResolved
)

type LureChallenge struct {
	phaseCore
	stats    PlayerFishingStats
	fish     Fish
	cast     CastOutcome
	lure     LureType
	pattern  []LureInput
	state    lureState
	phases   int
	current  int
	required LureInput
	limit    time.Duration
	opened   time.Duration
	timer    timerID
	cursor   indicator
	interest float64
	cleared  int
	sequence []Direction
	step     int
	stepAcc  []float64
	outcome  LureOutcome
	done     func(LureOutcome)
}

type LureView struct {
	Phase     int
	Phases    int
	Required  LureInput
	Interest  float64
	Indicator float64
	Sequence  []Direction
	Step      int
	Remaining time.Duration
	Resolving bool
	Resolved  bool
}

func NewLureChallenge(stats PlayerFishingStats, fish Fish, cast CastOutcome, lure LureType, opts ChallengeOptions) *LureChallenge {
	return &LureChallenge{
		phaseCore: newPhaseCore(PhaseLuring, opts),
		stats:     stats,
		fish:      fish,
		cast:      cast,
		lure:      lure,
		pattern:   lure.Pattern(),
	}
}

func (l *LureChallenge) OnComplete(fn func(LureOutcome)) {
	l.done = fn
}

func (l *LureChallenge) Start() {
	if l.state != lureIdle {
		l.opts.Logger.Debug("lure already started")
		return
	}
	l.started = true
	l.phases = LurePhaseCount(l.fish)
	l.interest = l.opts.Tuning.LureStartInterest
	l.emit(Notice{Kind: NoticePhaseStarted, Message: fmt.Sprintf("%s lure, %d phases", l.lure, l.phases)})
	l.openPhase(1)
}

func (l *LureChallenge) Interest() float64 {
	return l.interest
}

func (l *LureChallenge) openPhase(n int) {
	t := l.opts.Tuning
	l.state = lurePhase
	l.current = n
	l.required = l.pattern[(n-1)%len(l.pattern)]
	l.limit = LurePhaseLimit(l.required, n, l.fish, l.stats, l.cast.Accuracy, t)
	l.opened = l.now()
	l.cursor = newIndicator(l.opened, t.IndicatorPeriod)
	l.sequence = nil
	l.step = 0
	l.stepAcc = nil
	if l.required == LureSequence {
		l.sequence = make([]Direction, t.LureSequenceSteps)
		for i := range l.sequence {
			l.sequence[i] = allDirections[intn(l.opts.RNG, len(allDirections))]
		}
	}
	l.timer = l.sched.after(l.limit, func() { l.closePhase(false, 0, "time ran out") })
	l.emit(Notice{Kind: NoticeLureStep, Step: n, Message: "phase " + l.required.String()})
}

func (l *LureChallenge) Advance(ev Event) {
	if !l.accept(ev) {
		return
	}
	switch e := ev.(type) {
	case TickEvent:
		l.advanceClock(e.Elapsed)
	case InputEvent:
		if l.state != lurePhase {
			return
		}
		if l.required == LureSequence {
			l.handleSequence(e.Input)
			return
		}
		l.handleSimple(e.Input)
	}
}

func (l *LureChallenge) handleSimple(in Input) {
	switch in.Action {
	case ActionTrigger, ActionDrag, ActionPause, ActionDirection:
	default:
		return
	}
	if !l.required.matches(in.Action) {
		l.closePhase(false, 0, fmt.Sprintf("wanted %s, got %s", l.required, in.Action))
		return
	}
	v := l.cursor.at(l.now())
	t := l.opts.Tuning
	note := "poor timing"
	if v >= t.LureGoodTimingLow && v <= t.LureGoodTimingHigh {
		note = "good timing"
	}
	l.closePhase(true, timingAccuracy(v), note)
}

func (l *LureChallenge) handleSequence(in Input) {
	if in.Action != ActionDirection {
		return
	}
	t := l.opts.Tuning
	v := l.cursor.at(l.now())
	switch {
	case in.Direction != l.sequence[l.step]:
		l.resetSequence("wrong key")
	case v < t.LureSeqTimingLow || v > t.LureSeqTimingHigh:
		l.resetSequence("bad timing")
	default:
		l.stepAcc = append(l.stepAcc, timingAccuracy(v))
		l.step++
		l.cursor = newIndicator(l.now(), t.IndicatorPeriod)
		if l.step < len(l.sequence) {
			l.emit(Notice{Kind: NoticeLureStep, Step: l.step, Success: true, Message: "step matched"})
			return
		}
		sum := 0.0
		for _, a := range l.stepAcc {
			sum += a
		}
		l.closePhase(true, sum/float64(len(l.stepAcc)), "sequence complete")
	}
}

func (l *LureChallenge) resetSequence(reason string) {
	l.step = 0
	l.stepAcc = nil
	l.cursor = newIndicator(l.now(), l.opts.Tuning.IndicatorPeriod)
	l.emit(Notice{Kind: NoticeLureStep, Step: 0, Message: reason + ", sequence restarted"})
}

func (l *LureChallenge) closePhase(success bool, accuracy float64, note string) {
	if l.state != lurePhase {
		return
	}
	l.sched.cancel(l.timer)
	t := l.opts.Tuning
	if success {
		l.interest = clampPercent(l.interest + accuracy*t.LureSuccessGain + l.stats.LureSuccess)
		l.cleared++
	} else {
		l.interest = clampPercent(l.interest - t.LureFailPenalty)
	}
	l.emit(Notice{Kind: NoticeLureStep, Step: l.current, Success: success, Message: note})

	if l.interest <= 0 {
		l.finish(false, LureFishLeft)
		return
	}
	if l.current < l.phases {
		l.openPhase(l.current + 1)
		return
	}
	l.state = lureResolving
	l.sched.after(t.LureHookDelay, l.attemptHook)
}

// HookChance is the Bernoulli probability used once every phase is done.
func HookChance(interest float64, stats PlayerFishingStats, t Tuning) float64 {
	return math.Min(t.LureMaxHookChance, interest/100+stats.BiteRate/100)
}

func (l *LureChallenge) attemptHook() {
	if l.state != lureResolving {
		return
	}
	if bernoulli(HookChance(l.interest, l.stats, l.opts.Tuning), l.opts.RNG) {
		l.finish(true, LureHooked)
		return
	}
	l.finish(false, LureHookMissed)
}

func (l *LureChallenge) finish(hooked bool, reason LureReason) {
	if !l.settle() {
		return
	}
	l.state = lureResolved
	l.outcome = LureOutcome{
		Hooked:        hooked,
		FinalInterest: l.interest,
		PhasesCleared: l.cleared,
		Phases:        l.phases,
		Reason:        reason,
	}
	if hooked {
		fish := l.fish
		l.outcome.Fish = &fish
	}
	if l.done != nil {
		l.done(l.outcome)
	}
}

func (l *LureChallenge) Outcome() (LureOutcome, bool) {
	return l.outcome, l.state == lureResolved
}

func (l *LureChallenge) View() LureView {
	v := LureView{
		Phase:     l.current,
		Phases:    l.phases,
		Required:  l.required,
		Interest:  l.interest,
		Sequence:  append([]Direction(nil), l.sequence...),
		Step:      l.step,
		Resolving: l.state == lureResolving,
		Resolved:  l.state == lureResolved,
	}
	if l.state == lurePhase {
		v.Indicator = l.cursor.at(l.now())
		v.Remaining = l.limit - (l.now() - l.opened)
		if v.Remaining < 0 {
			v.Remaining = 0
		}
	}
	return v
}
