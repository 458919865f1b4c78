package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/looplab/fsm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEncounterActive = errors.New("encounter already in progress")
	ErrPhaseResolved   = errors.New("phase already resolved")
)

const tracerName = "github.com/appengine-ltd/reel-it/internal/game"

const (
	evCast   = "cast"
	evLure   = "lure"
	evReel   = "reel"
	evFinish = "finish"
)

// EncounterContext carries every collaborator an encounter needs. Nothing is
// looked up globally.
type EncounterContext struct {
	Stats      PlayerFishingStats
	Catalog    FishCatalog
	Rewards    RewardSink
	Notifier   Notifier
	Conditions Conditions
	Lure       LureType
	Area       WaterArea
	RNG        RandomSource
	Logger     *slog.Logger
	Tuning     Tuning
	Tracer     trace.Tracer
}

type EncounterResult struct {
	Attempt  int
	Caught   bool
	FailedIn Phase
	Reason   string
	Cast     *CastOutcome
	Lure     *LureOutcome
	Reel     *ReelOutcome
	Report   *CatchReport
}

type EncounterView struct {
	Phase    Phase
	Attempt  int
	LureType LureType
	Fish     *Fish
	Cast     *CastView
	Lure     *LureView
	Reel     *ReelView
	Last     *EncounterResult
}

type Encounter struct {
	ec      EncounterContext
	logger  *slog.Logger
	machine *fsm.FSM

	runCtx  context.Context
	span    trace.Span
	attempt int
	pending *PlayerFishingStats

	cast *CastChallenge
	lure *LureChallenge
	reel *ReelChallenge
	fish *Fish

	castOut *CastOutcome
	lureOut *LureOutcome
	reelOut *ReelOutcome
	report  *CatchReport
	emitted map[NoticeKind]bool
	last    *EncounterResult
}

func NewEncounter(ec EncounterContext) (*Encounter, error) {
	if ec.Tuning == (Tuning{}) {
		ec.Tuning = DefaultTuning()
	}
	if err := ec.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("new encounter: %w", err)
	}
	ec.Logger = orDiscard(ec.Logger)
	if ec.RNG == nil {
		ec.RNG = NewSeededRNG(time.Now().UnixNano())
	}
	if ec.Notifier == nil {
		ec.Notifier = NotifierFunc(nil)
	}
	if ec.Tracer == nil {
		ec.Tracer = otel.Tracer(tracerName)
	}
	if ec.Area == (WaterArea{}) {
		ec.Area = DefaultWaterArea()
	}
	if _, err := ParseLureType(string(ec.Lure)); err != nil {
		if ec.Lure != "" {
			ec.Logger.Warn("unknown lure, using spinner", "kind", "data_integrity", "lure", string(ec.Lure))
		}
		ec.Lure = LureSpinner
	}

	e := &Encounter{ec: ec, logger: ec.Logger, runCtx: context.Background()}
	e.machine = fsm.NewFSM(
		string(PhaseIdle),
		fsm.Events{
			{Name: evCast, Src: []string{string(PhaseIdle)}, Dst: string(PhaseCasting)},
			{Name: evLure, Src: []string{string(PhaseCasting)}, Dst: string(PhaseLuring)},
			{Name: evReel, Src: []string{string(PhaseLuring)}, Dst: string(PhaseReeling)},
			{Name: evFinish, Src: []string{string(PhaseCasting), string(PhaseLuring), string(PhaseReeling)}, Dst: string(PhaseIdle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				e.logger.Debug("phase transition", "from", ev.Src, "to", ev.Dst, "attempt", e.attempt)
			},
		},
	)
	return e, nil
}

func (e *Encounter) Phase() Phase {
	return Phase(e.machine.Current())
}

func (e *Encounter) Attempt() int {
	return e.attempt
}

// LastResult is the most recent finished attempt, if any.
func (e *Encounter) LastResult() (EncounterResult, bool) {
	if e.last == nil {
		return EncounterResult{}, false
	}
	return *e.last, true
}

// UpdateStats queues a recompute; it applies when the next phase starts.
func (e *Encounter) UpdateStats(stats PlayerFishingStats) {
	e.pending = &stats
}

func (e *Encounter) applyPendingStats() {
	if e.pending == nil {
		return
	}
	e.ec.Stats = *e.pending
	e.pending = nil
}

func (e *Encounter) Start(ctx context.Context) error {
	if e.Phase() != PhaseIdle {
		e.logger.Debug("start rejected", "phase", string(e.Phase()))
		return ErrEncounterActive
	}
	if ctx == nil {
		ctx = context.Background()
	}
	e.attempt++
	e.emitted = make(map[NoticeKind]bool)
	e.cast, e.lure, e.reel, e.fish = nil, nil, nil, nil
	e.castOut, e.lureOut, e.reelOut, e.report = nil, nil, nil, nil

	e.runCtx, e.span = e.ec.Tracer.Start(ctx, "encounter", trace.WithAttributes(
		attribute.Int("attempt", e.attempt),
		attribute.String("lure", string(e.ec.Lure)),
		attribute.String("location", e.ec.Conditions.Location),
	))

	defer e.guard()
	e.fire(evCast)
	e.applyPendingStats()
	e.cast = NewCastChallenge(e.ec.Stats, e.ec.Area, e.options())
	e.cast.OnComplete(e.onCast)
	e.cast.Start()
	return nil
}

// Advance routes one event to the active phase. Events while idle are dropped.
// A tick that outlasts the phase it started in carries on into the next one.
func (e *Encounter) Advance(ev Event) {
	defer e.guard()
	for ev != nil {
		ev = e.route(ev)
	}
}

// route returns the unspent part of a tick once the phase it fed resolved
// and another one took over, or nil when the event was used up.
func (e *Encounter) route(ev Event) Event {
	var core *phaseCore
	switch e.Phase() {
	case PhaseCasting:
		e.cast.Advance(ev)
		core = &e.cast.phaseCore
	case PhaseLuring:
		e.lure.Advance(ev)
		core = &e.lure.phaseCore
	case PhaseReeling:
		e.reel.Advance(ev)
		core = &e.reel.phaseCore
	default:
		e.logger.Debug("event while idle ignored")
		return nil
	}
	if _, ok := ev.(TickEvent); !ok {
		return nil
	}
	spare := core.takeSpare()
	if spare <= 0 || e.Phase() == PhaseIdle {
		return nil
	}
	return Tick(spare)
}

func (e *Encounter) options() ChallengeOptions {
	return ChallengeOptions{
		Tuning:   e.ec.Tuning,
		RNG:      e.ec.RNG,
		Logger:   e.logger,
		Notifier: e.ec.Notifier,
	}
}

func (e *Encounter) fire(event string) {
	if err := e.machine.Event(e.runCtx, event); err != nil {
		var noop fsm.NoTransitionError
		if !errors.As(err, &noop) {
			e.logger.Error("phase transition rejected", "event", event, "phase", string(e.Phase()), "error", err)
		}
	}
}

// emitTerminal delivers a phase outcome at most once per attempt.
func (e *Encounter) emitTerminal(n Notice) bool {
	if e.emitted[n.Kind] {
		e.logger.Debug("duplicate outcome notice suppressed", "kind", string(n.Kind))
		return false
	}
	e.emitted[n.Kind] = true
	e.ec.Notifier.Notify(n)
	if e.span != nil {
		e.span.AddEvent(string(n.Kind), trace.WithAttributes(attribute.Bool("success", n.Success)))
	}
	return true
}

func (e *Encounter) integrity(msg string, args ...any) {
	e.logger.Warn(msg, append([]any{"kind", "data_integrity"}, args...)...)
	e.ec.Notifier.Notify(Notice{Kind: NoticeDataIntegrity, Phase: e.Phase(), Message: msg})
}

func (e *Encounter) onCast(out CastOutcome) {
	e.castOut = &out
	e.emitTerminal(Notice{
		Kind:    NoticeCastComplete,
		At:      e.cast.Elapsed(),
		Phase:   PhaseCasting,
		Success: out.HitAccurateZone,
		Cast:    &out,
	})
	e.logger.Info("cast resolved", "phase", string(PhaseCasting), "accuracy", out.Accuracy, "cast_type", string(out.CastType))

	e.fire(evLure)
	fish := e.selectFish(out)
	e.fish = &fish
	e.applyPendingStats()
	e.lure = NewLureChallenge(e.ec.Stats, fish, out, e.ec.Lure, e.options())
	e.lure.OnComplete(e.onLure)
	e.lure.Start()
}

func (e *Encounter) selectFish(cast CastOutcome) Fish {
	if e.ec.Catalog == nil {
		e.integrity("fish catalog unavailable, using fallback fish", "error", ErrNilCatalog.Error())
		return FallbackFish()
	}
	pool, err := e.ec.Catalog.AvailableFish(e.ec.Conditions.query())
	if err != nil {
		e.integrity("fish pool lookup failed", "error", err.Error())
	}
	fish, err := e.ec.Catalog.SelectByWeight(pool, cast.CastType, e.ec.Stats.RarityBonus, e.ec.RNG)
	if err != nil {
		e.integrity("fish selection fell back", "error", err.Error(), "location", e.ec.Conditions.Location)
		fish = FallbackFish()
	}
	fish, fixes := NormalizeFish(fish)
	for _, fix := range fixes {
		e.integrity("fish data repaired", "fish", fish.ID, "fix", fix)
	}
	return fish
}

func (e *Encounter) onLure(out LureOutcome) {
	e.lureOut = &out
	e.emitTerminal(Notice{
		Kind:    NoticeLureComplete,
		At:      e.lure.Elapsed(),
		Phase:   PhaseLuring,
		Success: out.Hooked,
		Lure:    &out,
	})
	e.logger.Info("lure resolved", "phase", string(PhaseLuring), "reason", string(out.Reason), "interest", out.FinalInterest)

	if !out.Hooked {
		e.complete(PhaseLuring, string(out.Reason))
		return
	}
	e.fire(evReel)
	style := e.struggleStyle(*out.Fish)
	e.applyPendingStats()
	e.reel = NewReelChallenge(e.ec.Stats, *out.Fish, style, e.options())
	e.reel.OnComplete(e.onReel)
	e.reel.Start()
}

func (e *Encounter) struggleStyle(f Fish) StruggleStyle {
	if e.ec.Catalog == nil || f.StruggleStyle == "" {
		return StruggleStyle{ID: f.StruggleStyle}
	}
	style, ok := e.ec.Catalog.StruggleStyle(f.StruggleStyle)
	if !ok {
		e.integrity("unknown struggle style, allowing every pattern", "fish", f.ID, "style", f.StruggleStyle)
		return StruggleStyle{ID: f.StruggleStyle}
	}
	return style
}

func (e *Encounter) onReel(out ReelOutcome) {
	e.reelOut = &out
	e.emitTerminal(Notice{
		Kind:    NoticeReelComplete,
		At:      e.reel.Elapsed(),
		Phase:   PhaseReeling,
		Success: out.Success,
		Reel:    &out,
	})
	e.logger.Info("reel resolved", "phase", string(PhaseReeling), "reason", out.Result(), "fish", out.Fish.ID)

	if out.Success {
		e.reportCatch(out)
	}
	e.complete(PhaseReeling, out.Result())
}

// PerfectCatch means no QTE failures and an untouched line.
func PerfectCatch(out ReelOutcome) bool {
	return out.Success && out.Stats.QTEFailures == 0 && out.Stats.LineIntegrity >= 100
}

func (e *Encounter) reportCatch(out ReelOutcome) {
	fish := *out.Fish
	weight := fish.BaseWeightKg
	if e.ec.Catalog != nil {
		weight = e.ec.Catalog.CalculateWeight(fish, e.ec.RNG)
	}
	report := CatchReport{
		Fish:       fish,
		WeightKg:   weight,
		Perfect:    PerfectCatch(out),
		QTE:        QTEPerformance{Successes: out.Stats.QTESuccesses, Failures: out.Stats.QTEFailures},
		Duration:   e.totalElapsed(),
		Conditions: e.ec.Conditions,
	}
	if e.castOut != nil {
		report.CastType = e.castOut.CastType
		report.CastAccuracy = e.castOut.Accuracy
	}
	if e.lureOut != nil {
		report.FinalInterest = e.lureOut.FinalInterest
	}
	e.report = &report

	if e.ec.Rewards == nil {
		e.integrity("reward sink unavailable, catch not recorded", "fish", fish.ID)
		return
	}
	if err := e.recordCatch(report); err != nil {
		e.logger.Warn("record catch failed", "fish", fish.ID, "error", err)
		if e.span != nil {
			e.span.RecordError(err)
		}
	}
}

// recordCatch hands the report to the sink. A panicking sink counts as a
// failed write; the catch itself stands.
func (e *Encounter) recordCatch(report CatchReport) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reward sink panic: %v", r)
		}
	}()
	return e.ec.Rewards.RecordCatch(e.runCtx, report)
}

func (e *Encounter) totalElapsed() time.Duration {
	var d time.Duration
	if e.cast != nil {
		d += e.cast.Elapsed()
	}
	if e.lure != nil {
		d += e.lure.Elapsed()
	}
	if e.reel != nil {
		d += e.reel.Elapsed()
	}
	return d
}

// complete records the attempt, closes the span and returns to idle.
func (e *Encounter) complete(phase Phase, reason string) {
	result := EncounterResult{
		Attempt: e.attempt,
		Cast:    e.castOut,
		Lure:    e.lureOut,
		Reel:    e.reelOut,
		Report:  e.report,
		Reason:  reason,
	}
	result.Caught = e.reelOut != nil && e.reelOut.Success
	if !result.Caught {
		result.FailedIn = phase
	}
	e.last = &result

	if e.span != nil {
		e.span.SetAttributes(attribute.String("result", reason), attribute.Bool("caught", result.Caught))
		if result.Caught {
			e.span.SetStatus(codes.Ok, reason)
		}
		e.span.End()
		e.span = nil
	}
	e.fire(evFinish)
}

// guard converts a panic inside any phase into that phase's safe failure so
// the encounter can never get stuck.
func (e *Encounter) guard() {
	r := recover()
	if r == nil {
		return
	}
	phase := e.Phase()
	e.logger.Error("encounter panic", "phase", string(phase), "error", r, "stack", string(debug.Stack()))
	if e.span != nil {
		e.span.SetStatus(codes.Error, fmt.Sprint(r))
	}
	e.degrade(phase)
}

func (e *Encounter) degrade(phase Phase) {
	switch phase {
	case PhaseCasting, PhaseLuring:
		if e.castOut == nil {
			out := CastOutcome{Accuracy: 10, CastType: CastNormal}
			e.castOut = &out
			e.emitTerminal(Notice{Kind: NoticeCastComplete, Phase: PhaseCasting, Cast: &out})
		}
		if e.lure == nil {
			// No lure phase ran, so there is no lure outcome to report.
			e.complete(PhaseCasting, string(LureFishLeft))
			return
		}
		out := LureOutcome{FinalInterest: 0, Reason: LureFishLeft}
		e.lureOut = &out
		e.emitTerminal(Notice{Kind: NoticeLureComplete, Phase: PhaseLuring, Lure: &out})
		e.complete(PhaseLuring, string(LureFishLeft))
	case PhaseReeling:
		if e.reelOut != nil {
			// The reel already announced its outcome; keep it.
			e.complete(PhaseReeling, e.reelOut.Result())
			return
		}
		out := ReelOutcome{FailureReason: FailureFishEscape, Fish: e.fish}
		if e.reel != nil {
			out.Stats = e.reel.snapshotStats()
		}
		e.reelOut = &out
		e.emitTerminal(Notice{Kind: NoticeReelComplete, Phase: PhaseReeling, Reel: &out})
		e.complete(PhaseReeling, string(FailureFishEscape))
	}
}

// Abort ends the running attempt with the active phase's safe failure, as if
// the fish slipped away. It returns ErrPhaseResolved when nothing is running.
func (e *Encounter) Abort() error {
	phase := e.Phase()
	if phase == PhaseIdle {
		return ErrPhaseResolved
	}
	e.logger.Info("encounter aborted", "phase", string(phase))
	e.degrade(phase)
	return nil
}

func (e *Encounter) Snapshot() EncounterView {
	v := EncounterView{
		Phase:    e.Phase(),
		Attempt:  e.attempt,
		LureType: e.ec.Lure,
		Fish:     e.fish,
		Last:     e.last,
	}
	switch v.Phase {
	case PhaseCasting:
		cv := e.cast.View()
		v.Cast = &cv
	case PhaseLuring:
		lv := e.lure.View()
		v.Lure = &lv
	case PhaseReeling:
		rv := e.reel.View()
		v.Reel = &rv
	}
	return v
}

// Expected is the action the active phase is waiting for, or ActionNone when
// nothing useful can be sent right now. Clients use it to label prompts and to
// resolve bare words like "go".
func (v EncounterView) Expected() Action {
	switch {
	case v.Cast != nil && !v.Cast.Resolved:
		return ActionTrigger
	case v.Lure != nil && !v.Lure.Resolved && !v.Lure.Resolving:
		switch v.Lure.Required {
		case LureTap:
			return ActionTrigger
		case LureDrag:
			return ActionDrag
		case LurePause:
			return ActionPause
		case LureSequence:
			return ActionDirection
		}
	case v.Reel != nil && v.Reel.QTE != nil:
		switch v.Reel.QTE.Kind {
		case QTEHold:
			if v.Reel.QTE.Holding {
				return ActionHoldEnd
			}
			return ActionHoldStart
		case QTESequence:
			return ActionDirection
		default:
			return ActionTrigger
		}
	}
	return ActionNone
}
