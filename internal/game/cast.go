package game

import (
	"fmt"
	"math"
	"time"
)

type CastType string

const (
	CastNormal  CastType = "normal"
	CastSpot    CastType = "spot"
	CastHotspot CastType = "hotspot"
)

// Window is the accurate section of the cast meter, in meter units.
type Window struct {
	Start float64
	End   float64
}

func (w Window) Width() float64  { return w.End - w.Start }
func (w Window) Center() float64 { return (w.Start + w.End) / 2 }

func (w Window) Contains(v float64) bool {
	return v >= w.Start && v <= w.End
}

func (w Window) String() string {
	return fmt.Sprintf("[%.0f,%.0f]", w.Start, w.End)
}

type CastOutcome struct {
	HitAccurateZone bool
	Accuracy        float64
	MeterValue      float64
	CastType        CastType
	Window          Window
	DistanceM       float64
	TimedOut        bool
}

const (
	hotspotAccuracy = 85
	castWindowFloor = 10
	castWindowCeil  = 90
)

// CastWindowWidth is the accurate-window width for the given stats.
func CastWindowWidth(stats PlayerFishingStats, t Tuning) float64 {
	accuracyBonus := math.Max(0, (stats.CastAccuracy-defaultAttribute)*2)
	distanceBonus := math.Max(0, stats.CastDistance-defaultAttribute)
	return math.Min(t.CastMaxWindow, t.CastBaseWindow+accuracyBonus+distanceBonus)
}

func placeCastWindow(width float64, rng RandomSource) Window {
	start := uniform(rng, castWindowFloor, castWindowCeil-width)
	return Window{Start: start, End: start + width}
}

// scoreCast reads a released meter value against the window.
func scoreCast(v float64, w Window) (bool, float64) {
	if w.Contains(v) && w.Width() > 0 {
		dist := math.Abs(v - w.Center())
		return true, math.Max(50, 100-dist/w.Width()*50)
	}
	return false, math.Max(10, 30-math.Abs(v-50)*0.4)
}

func classifyCast(hit bool, accuracy float64, area WaterArea) CastType {
	switch {
	case hit && accuracy >= hotspotAccuracy && area.HasHotspot:
		return CastHotspot
	case hit:
		return CastSpot
	default:
		return CastNormal
	}
}

type castState int

const (
	castIdle castState = iota
	castRunning
	castResolved
)

type CastChallenge struct {
	phaseCore
	stats   PlayerFishingStats
	area    WaterArea
	state   castState
	window  Window
	timeout timerID
	outcome CastOutcome
	done    func(CastOutcome)
}

type CastView struct {
	Meter     float64
	Window    Window
	Remaining time.Duration
	Resolved  bool
}

func NewCastChallenge(stats PlayerFishingStats, area WaterArea, opts ChallengeOptions) *CastChallenge {
	return &CastChallenge{
		phaseCore: newPhaseCore(PhaseCasting, opts),
		stats:     stats,
		area:      area,
	}
}

// OnComplete registers the single outcome consumer. It must be set before Start.
func (c *CastChallenge) OnComplete(fn func(CastOutcome)) {
	c.done = fn
}

func (c *CastChallenge) Start() {
	if c.state != castIdle {
		c.opts.Logger.Debug("cast already started")
		return
	}
	c.window = placeCastWindow(CastWindowWidth(c.stats, c.opts.Tuning), c.opts.RNG)
	c.state = castRunning
	c.started = true
	c.timeout = c.sched.after(c.opts.Tuning.CastTimeout, func() { c.release(true) })
	c.emit(Notice{Kind: NoticePhaseStarted, Message: "window " + c.window.String()})
}

func (c *CastChallenge) Window() Window {
	return c.window
}

func (c *CastChallenge) Meter() float64 {
	return triangleWave(c.now(), c.opts.Tuning.CastMeterPeriod)
}

func (c *CastChallenge) Advance(ev Event) {
	if !c.accept(ev) {
		return
	}
	switch e := ev.(type) {
	case TickEvent:
		c.advanceClock(e.Elapsed)
	case InputEvent:
		if e.Input.Action == ActionTrigger {
			c.release(false)
		}
	}
}

func (c *CastChallenge) release(timedOut bool) {
	if c.state != castRunning || !c.settle() {
		return
	}
	c.sched.cancel(c.timeout)
	c.state = castResolved

	v := c.Meter()
	hit, accuracy := scoreCast(v, c.window)
	distance := c.stats.CastPower*5 + accuracy/10
	if c.area.LengthM > 0 {
		distance = math.Min(distance, c.area.LengthM)
	}
	c.outcome = CastOutcome{
		HitAccurateZone: hit,
		Accuracy:        accuracy,
		MeterValue:      v,
		CastType:        classifyCast(hit, accuracy, c.area),
		Window:          c.window,
		DistanceM:       distance,
		TimedOut:        timedOut,
	}
	if c.done != nil {
		c.done(c.outcome)
	}
}

func (c *CastChallenge) Outcome() (CastOutcome, bool) {
	return c.outcome, c.state == castResolved
}

func (c *CastChallenge) View() CastView {
	remaining := c.opts.Tuning.CastTimeout - c.now()
	if remaining < 0 || c.resolved {
		remaining = 0
	}
	meter := c.Meter()
	if c.resolved {
		meter = c.outcome.MeterValue
	}
	return CastView{Meter: meter, Window: c.window, Remaining: remaining, Resolved: c.resolved}
}
