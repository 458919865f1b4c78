package game

import (
	"log/slog"
	"time"
)

// ChallengeOptions is what every phase borrows from its encounter. Zero values
// fall back to the default tuning, a fixed seed, a discard logger and no
// feedback notices.
type ChallengeOptions struct {
	Tuning   Tuning
	RNG      RandomSource
	Logger   *slog.Logger
	Notifier Notifier
}

func (o ChallengeOptions) normalized() ChallengeOptions {
	if o.Tuning == (Tuning{}) {
		o.Tuning = DefaultTuning()
	}
	if o.RNG == nil {
		o.RNG = NewSeededRNG(1)
	}
	o.Logger = orDiscard(o.Logger)
	if o.Notifier == nil {
		o.Notifier = NotifierFunc(nil)
	}
	return o
}

// phaseCore holds the clock and terminal guard shared by the three challenges.
type phaseCore struct {
	opts     ChallengeOptions
	sched    *scheduler
	phase    Phase
	started  bool
	resolved bool
	// spare is tick time left over after the phase resolved mid-advance.
	spare time.Duration
}

func newPhaseCore(phase Phase, opts ChallengeOptions) phaseCore {
	opts = opts.normalized()
	return phaseCore{
		opts:  opts,
		sched: newScheduler(),
		phase: phase,
	}
}

func (p *phaseCore) now() time.Duration {
	return p.sched.now
}

// Elapsed is the virtual time since the phase started.
func (p *phaseCore) Elapsed() time.Duration {
	return p.sched.now
}

func (p *phaseCore) Resolved() bool {
	return p.resolved
}

func (p *phaseCore) emit(n Notice) {
	n.At = p.sched.now
	n.Phase = p.phase
	p.opts.Notifier.Notify(n)
}

func (p *phaseCore) advanceClock(d time.Duration) {
	p.spare += p.sched.advance(d, p.Resolved)
}

func (p *phaseCore) takeSpare() time.Duration {
	d := p.spare
	p.spare = 0
	return d
}

// accept filters out events a phase must not see. Rejections are programmer
// errors on the driver side and only logged at debug.
func (p *phaseCore) accept(ev Event) bool {
	if ev == nil {
		return false
	}
	if !p.started {
		p.opts.Logger.Debug("event before start ignored", "phase", string(p.phase))
		return false
	}
	if p.resolved {
		p.opts.Logger.Debug("event after resolution ignored", "phase", string(p.phase))
		return false
	}
	return true
}

// settle marks the phase terminal. It reports false when the phase was already
// resolved so callers return without emitting a second outcome.
func (p *phaseCore) settle() bool {
	if p.resolved {
		p.opts.Logger.Debug("duplicate completion ignored", "phase", string(p.phase))
		return false
	}
	p.resolved = true
	p.sched.clear()
	return true
}
