package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func hookTuning() Tuning {
	t := quietTuning()
	t.LureMaxHookChance = 1
	return t
}

func newTestEncounter(t *testing.T, catalog FishCatalog, sink RewardSink) (*Encounter, *NoticeQueue) {
	t.Helper()
	q := NewNoticeQueue()
	ec := EncounterContext{
		Stats:    DefaultStats(),
		Catalog:  catalog,
		Notifier: q,
		Lure:     LureSpinner,
		RNG:      NewSeededRNG(42),
		Tuning:   hookTuning(),
	}
	if sink != nil {
		ec.Rewards = sink
	}
	e, err := NewEncounter(ec)
	if err != nil {
		t.Fatalf("new encounter: %v", err)
	}
	return e, q
}

// playLure taps at the indicator centre until the lure phase ends.
func playLure(e *Encounter) {
	for i := 0; i < 20 && e.Phase() == PhaseLuring; i++ {
		e.Advance(Tick(indicatorMid))
		e.Advance(Send(Trigger()))
	}
	e.Advance(Tick(time.Second))
}

func TestEncounterFullCatch(t *testing.T) {
	sink := &recordingSink{}
	catalog := &stubCatalog{pool: []Fish{testFish()}}
	e, q := newTestEncounter(t, catalog, sink)

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if e.Phase() != PhaseCasting {
		t.Fatalf("expected casting, got %s", e.Phase())
	}
	e.Advance(Tick(castMeterMid))
	e.Advance(Send(Trigger()))
	if e.Phase() != PhaseLuring {
		t.Fatalf("expected luring after the cast, got %s", e.Phase())
	}
	playLure(e)
	if e.Phase() != PhaseReeling {
		t.Fatalf("expected reeling, got %s", e.Phase())
	}
	for i := 0; i < 3000 && e.Phase() == PhaseReeling; i++ {
		e.Advance(Tick(100 * time.Millisecond))
	}
	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle after reel, got %s", e.Phase())
	}

	notices := q.Drain()
	for _, kind := range []NoticeKind{NoticeCastComplete, NoticeLureComplete, NoticeReelComplete} {
		if n := countKind(notices, kind); n != 1 {
			t.Fatalf("expected exactly one %s, got %d", kind, n)
		}
	}
	castAt := indexOfKind(notices, NoticeCastComplete)
	lureAt := indexOfKind(notices, NoticeLureComplete)
	reelAt := indexOfKind(notices, NoticeReelComplete)
	if !(castAt < lureAt && lureAt < reelAt) {
		t.Fatalf("outcome notices out of order: %d %d %d", castAt, lureAt, reelAt)
	}
	for i := castAt + 1; i < lureAt; i++ {
		if notices[i].Phase == PhaseCasting {
			t.Fatalf("cast notice after cast_complete: %+v", notices[i])
		}
	}

	res, ok := e.LastResult()
	if !ok {
		t.Fatalf("expected a result")
	}
	if res.Caught {
		if len(sink.reports) != 1 {
			t.Fatalf("expected one catch report, got %d", len(sink.reports))
		}
		report := sink.reports[0]
		if report.Fish.ID != "perch" || report.WeightKg != 1.5 {
			t.Fatalf("unexpected report %+v", report)
		}
		if report.Perfect != (report.QTE.Failures == 0 && res.Reel.Stats.LineIntegrity >= 100) {
			t.Fatalf("perfect flag inconsistent with %+v", report)
		}
	} else if len(sink.reports) != 0 {
		t.Fatalf("failed reel must not report a catch")
	}
}

func TestEncounterRejectsSecondStart(t *testing.T) {
	e, _ := newTestEncounter(t, &stubCatalog{pool: []Fish{testFish()}}, nil)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.Start(context.Background()); !errors.Is(err, ErrEncounterActive) {
		t.Fatalf("expected ErrEncounterActive, got %v", err)
	}
}

func TestEncounterLureFailureShortCircuits(t *testing.T) {
	sink := &recordingSink{}
	e, q := newTestEncounter(t, &stubCatalog{pool: []Fish{testFish()}}, sink)
	_ = e.Start(context.Background())
	e.Advance(Send(Trigger()))
	e.Advance(Send(Drag()))
	e.Advance(Send(Drag()))

	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle after the fish left, got %s", e.Phase())
	}
	notices := q.Drain()
	if countKind(notices, NoticeReelComplete) != 0 {
		t.Fatalf("reel must not run after a lure failure")
	}
	res, _ := e.LastResult()
	if res.Caught || res.FailedIn != PhaseLuring || res.Reason != string(LureFishLeft) {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(sink.reports) != 0 {
		t.Fatalf("no catch expected")
	}

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("re-initiation should be allowed: %v", err)
	}
	if e.Attempt() != 2 {
		t.Fatalf("expected attempt 2, got %d", e.Attempt())
	}
}

func TestEncounterWithoutCatalogUsesFallback(t *testing.T) {
	e, q := newTestEncounter(t, nil, nil)
	_ = e.Start(context.Background())
	e.Advance(Send(Trigger()))

	view := e.Snapshot()
	if view.Fish == nil || view.Fish.ID != FallbackFish().ID {
		t.Fatalf("expected fallback fish, got %+v", view.Fish)
	}
	if countKind(q.Drain(), NoticeDataIntegrity) == 0 {
		t.Fatalf("expected a data integrity notice")
	}
}

func TestEncounterEmptyPoolReportsIntegrity(t *testing.T) {
	e, q := newTestEncounter(t, &stubCatalog{}, nil)
	_ = e.Start(context.Background())
	e.Advance(Send(Trigger()))
	if view := e.Snapshot(); view.Fish == nil || view.Fish.ID != FallbackFish().ID {
		t.Fatalf("expected fallback fish")
	}
	if countKind(q.Drain(), NoticeDataIntegrity) != 1 {
		t.Fatalf("expected one data integrity notice")
	}
}

func TestEncounterRecoversFromPanic(t *testing.T) {
	e, q := newTestEncounter(t, &stubCatalog{panicky: true}, nil)
	_ = e.Start(context.Background())
	e.Advance(Send(Trigger()))

	if e.Phase() != PhaseIdle {
		t.Fatalf("expected safe failure back to idle, got %s", e.Phase())
	}
	notices := q.Drain()
	if countKind(notices, NoticeCastComplete) != 1 {
		t.Fatalf("expected one cast completion, got %v", notices)
	}
	if countKind(notices, NoticeLureComplete) != 0 {
		t.Fatalf("no lure ran, so no lure completion is due: %v", notices)
	}
	res, _ := e.LastResult()
	if res.FailedIn != PhaseCasting || res.Reason != string(LureFishLeft) || res.Lure != nil {
		t.Fatalf("expected fish_left in casting, got %+v", res)
	}
}

func TestEncounterAbortDuringCast(t *testing.T) {
	e, q := newTestEncounter(t, &stubCatalog{pool: []Fish{testFish()}}, nil)
	_ = e.Start(context.Background())
	if err := e.Abort(); err != nil {
		t.Fatalf("abort: %v", err)
	}
	notices := q.Drain()
	if countKind(notices, NoticeCastComplete) != 1 || countKind(notices, NoticeLureComplete) != 0 {
		t.Fatalf("expected only a cast completion, got %v", notices)
	}
	res, _ := e.LastResult()
	if res.FailedIn != PhaseCasting {
		t.Fatalf("expected failure in casting, got %s", res.FailedIn)
	}
}

type panickingSink struct{ calls int }

func (s *panickingSink) RecordCatch(context.Context, CatchReport) error {
	s.calls++
	panic("journal exploded")
}

// reelToCatch plays an attempt with a reel fast enough to land the fish
// before any struggle or QTE can start.
func reelToCatch(t *testing.T, e *Encounter) {
	t.Helper()
	fast := DefaultStats()
	fast.ReelSpeed = 50
	e.UpdateStats(fast)

	_ = e.Start(context.Background())
	e.Advance(Tick(castMeterMid))
	e.Advance(Send(Trigger()))
	playLure(e)
	for i := 0; i < 100 && e.Phase() == PhaseReeling; i++ {
		e.Advance(Tick(100 * time.Millisecond))
	}
	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", e.Phase())
	}
}

func TestEncounterSinkPanicKeepsCatch(t *testing.T) {
	sink := &panickingSink{}
	e, q := newTestEncounter(t, &stubCatalog{pool: []Fish{testFish()}}, sink)
	reelToCatch(t, e)
	if sink.calls != 1 {
		t.Fatalf("expected one record attempt, got %d", sink.calls)
	}

	var reel []Notice
	for _, n := range q.Drain() {
		if n.Kind == NoticeReelComplete {
			reel = append(reel, n)
		}
	}
	if len(reel) != 1 || !reel[0].Success {
		t.Fatalf("expected one successful reel completion, got %+v", reel)
	}
	res, _ := e.LastResult()
	if !res.Caught || res.FailedIn != "" || res.Reason != "caught" {
		t.Fatalf("announced catch was rewritten: %+v", res)
	}
	if res.Reel == nil || !res.Reel.Success || res.Report == nil {
		t.Fatalf("expected the reel outcome and report to survive, got %+v", res)
	}
}

func TestEncounterPanicAfterCatchKeepsOutcome(t *testing.T) {
	e, q := newTestEncounter(t, &stubCatalog{pool: []Fish{testFish()}, heavy: true}, &recordingSink{})
	reelToCatch(t, e)

	if n := countKind(q.Drain(), NoticeReelComplete); n != 1 {
		t.Fatalf("expected one reel completion, got %d", n)
	}
	res, _ := e.LastResult()
	if !res.Caught || res.Reel == nil || !res.Reel.Success {
		t.Fatalf("panic after the catch must not turn it into an escape: %+v", res)
	}
}

func TestEncounterTickCarriesIntoNextPhase(t *testing.T) {
	e, _ := newTestEncounter(t, &stubCatalog{pool: []Fish{testFish()}}, nil)
	_ = e.Start(context.Background())
	e.Advance(Tick(castMeterMid))
	e.Advance(Send(Trigger()))
	for i := 0; i < LurePhaseCount(testFish()); i++ {
		e.Advance(Tick(indicatorMid))
		e.Advance(Send(Trigger()))
	}
	if e.lure.state != lureResolving {
		t.Fatalf("expected the lure to be waiting on the hook")
	}

	e.Advance(Tick(5 * time.Second))
	if e.Phase() != PhaseReeling {
		t.Fatalf("expected reeling, got %s", e.Phase())
	}
	want := 5*time.Second - quietTuning().LureHookDelay
	if got := e.reel.Elapsed(); got != want {
		t.Fatalf("reel should receive the rest of the tick: got %v want %v", got, want)
	}
	if got := e.lure.Elapsed(); got != time.Duration(LurePhaseCount(testFish()))*indicatorMid+quietTuning().LureHookDelay {
		t.Fatalf("lure clock should stop at the hook, got %v", got)
	}
}

func TestEncounterAbortDuringReel(t *testing.T) {
	e, q := newTestEncounter(t, &stubCatalog{pool: []Fish{testFish()}}, nil)
	_ = e.Start(context.Background())
	e.Advance(Tick(castMeterMid))
	e.Advance(Send(Trigger()))
	playLure(e)
	if e.Phase() != PhaseReeling {
		t.Fatalf("expected reeling, got %s", e.Phase())
	}
	if err := e.Abort(); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if err := e.Abort(); !errors.Is(err, ErrPhaseResolved) {
		t.Fatalf("expected ErrPhaseResolved when idle, got %v", err)
	}
	notices := q.Drain()
	if countKind(notices, NoticeReelComplete) != 1 {
		t.Fatalf("expected one reel completion")
	}
	res, _ := e.LastResult()
	if res.Reel == nil || res.Reel.FailureReason != FailureFishEscape {
		t.Fatalf("expected fish_escape, got %+v", res.Reel)
	}
}

func TestEncounterUpdateStatsAppliesAtPhaseBoundary(t *testing.T) {
	e, _ := newTestEncounter(t, &stubCatalog{pool: []Fish{testFish()}}, nil)
	_ = e.Start(context.Background())

	boosted := DefaultStats()
	boosted.LureSuccess = 15
	e.UpdateStats(boosted)
	if e.cast.stats.LureSuccess != 5 {
		t.Fatalf("running phase must keep its stats")
	}
	e.Advance(Send(Trigger()))
	if e.lure.stats.LureSuccess != 15 {
		t.Fatalf("expected updated stats in the next phase, got %.1f", e.lure.stats.LureSuccess)
	}
}

func TestEncounterIgnoresEventsWhileIdle(t *testing.T) {
	e, q := newTestEncounter(t, nil, nil)
	e.Advance(Tick(time.Second))
	e.Advance(Send(Trigger()))
	if e.Phase() != PhaseIdle || q.Len() != 0 {
		t.Fatalf("idle encounter should ignore events")
	}
}

func TestNewEncounterRejectsBadTuning(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ReelTick = 0
	if _, err := NewEncounter(EncounterContext{Tuning: tuning}); err == nil {
		t.Fatalf("expected tuning validation error")
	}
}

func TestEncounterViewExpected(t *testing.T) {
	tests := []struct {
		name string
		view EncounterView
		want Action
	}{
		{name: "idle", view: EncounterView{Phase: PhaseIdle}, want: ActionNone},
		{name: "cast", view: EncounterView{Cast: &CastView{}}, want: ActionTrigger},
		{name: "lure drag", view: EncounterView{Lure: &LureView{Required: LureDrag}}, want: ActionDrag},
		{name: "lure hooking", view: EncounterView{Lure: &LureView{Required: LureTap, Resolving: true}}, want: ActionNone},
		{name: "lure sequence", view: EncounterView{Lure: &LureView{Required: LureSequence}}, want: ActionDirection},
		{name: "reel calm", view: EncounterView{Reel: &ReelView{}}, want: ActionNone},
		{name: "hold start", view: EncounterView{Reel: &ReelView{QTE: &QTEView{Kind: QTEHold}}}, want: ActionHoldStart},
		{name: "hold end", view: EncounterView{Reel: &ReelView{QTE: &QTEView{Kind: QTEHold, Holding: true}}}, want: ActionHoldEnd},
		{name: "timing", view: EncounterView{Reel: &ReelView{QTE: &QTEView{Kind: QTETiming}}}, want: ActionTrigger},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.view.Expected(); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}
