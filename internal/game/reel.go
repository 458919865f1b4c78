package game

import (
	"fmt"
	"time"
)

type FailureReason string

const (
	FailureNone       FailureReason = ""
	FailureLineBreak  FailureReason = "line_break"
	FailureFishEscape FailureReason = "fish_escape"
)

type ReelStats struct {
	FinalTension  float64
	LineIntegrity float64
	ReelProgress  float64
	FishStamina   float64
	QTESuccesses  int
	QTEFailures   int
	Duration      time.Duration
}

type ReelOutcome struct {
	Success       bool
	FailureReason FailureReason
	Fish          *Fish
	Stats         ReelStats
}

func (o ReelOutcome) Result() string {
	if o.Success {
		return "caught"
	}
	return string(o.FailureReason)
}

type ReelView struct {
	Tension      float64
	Band         SafeBand
	BreakAt      float64
	Line         float64
	Progress     float64
	Stamina      float64
	MaxStamina   float64
	Struggling   bool
	Pattern      StrugglePattern
	BossPhase    int
	QTE          *QTEView
	QTEsLeft     int
	QTESuccesses int
	QTEFailures  int
	Elapsed      time.Duration
	Resolved     bool
}

const recentQTEWindow = 3

type ReelChallenge struct {
	phaseCore
	stats PlayerFishingStats
	fish  Fish
	style StruggleStyle

	band       SafeBand
	breakAt    float64
	difficulty int
	qteCap     int

	tension    float64
	line       float64
	progress   float64
	stamina    float64
	maxStamina float64

	struggle      struggleCycle
	struggleTimer timerID

	qte       QTE
	qteOpened time.Duration
	qteCursor indicator
	qteTimer  timerID
	qteNext   timerID
	qteCount  int
	recent    []bool
	successes int
	failures  int

	bossPhase   int
	attackTimer timerID

	outcome ReelOutcome
	done    func(ReelOutcome)
}

func NewReelChallenge(stats PlayerFishingStats, fish Fish, style StruggleStyle, opts ChallengeOptions) *ReelChallenge {
	r := &ReelChallenge{
		phaseCore: newPhaseCore(PhaseReeling, opts),
		stats:     stats,
		fish:      fish,
		style:     style,
	}
	r.band = stats.SafeBand(r.opts.Tuning)
	r.breakAt = stats.LineBreakThreshold()
	r.difficulty = fish.Difficulty()
	r.qteCap = QTECap(fish)
	r.maxStamina = FishStamina(fish)
	return r
}

func (r *ReelChallenge) OnComplete(fn func(ReelOutcome)) {
	r.done = fn
}

func (r *ReelChallenge) Start() {
	if r.started {
		r.opts.Logger.Debug("reel already started")
		return
	}
	t := r.opts.Tuning
	r.started = true
	r.tension = clampPercent(t.TensionStart)
	r.line = 100
	r.progress = 0
	r.stamina = r.maxStamina
	if r.fish.IsBoss {
		r.bossPhase = 1
		r.attackTimer = r.sched.after(t.BossAttackInterval, r.specialAttack)
	}
	r.emit(Notice{Kind: NoticePhaseStarted, Message: fmt.Sprintf("%s on the line", r.fish.Name)})
	r.sched.after(t.ReelTick, r.tick)
	r.scheduleStruggle()
	r.scheduleQTE()
}

func (r *ReelChallenge) Advance(ev Event) {
	if !r.accept(ev) {
		return
	}
	switch e := ev.(type) {
	case TickEvent:
		r.advanceClock(e.Elapsed)
	case InputEvent:
		r.handleInput(e.Input)
	}
}

func (r *ReelChallenge) tick() {
	if r.resolved {
		return
	}
	t := r.opts.Tuning

	drift := t.TensionBaseDrift
	if r.bossPhase == 4 {
		drift *= 2
	}
	if r.struggle.active {
		drift += r.struggle.intensity
	}
	if r.band.Contains(r.tension) {
		drift -= t.TensionBandRelief
	}
	if r.recentMostlySuccessful() {
		drift -= t.TensionQTERelief
	}
	r.tension = clampPercent(r.tension + drift)

	if r.tension > r.band.High {
		damage := (r.tension - r.band.High) * t.LineDamageFactor
		if r.tension >= r.breakAt {
			damage *= t.LineCriticalFactor
		}
		r.line = clampPercent(r.line - damage)
	}

	mult := 1.0
	switch {
	case r.band.Contains(r.tension):
		mult = 1.5
	case r.tension > r.band.High:
		mult = 0.5
	}
	if r.struggle.active {
		mult *= 0.3
	}
	if r.fish.IsBoss && r.fish.BossClass == BossWhale {
		mult *= t.WhaleProgressPenalty
	}
	delta := r.stats.ReelSpeed * 0.1 * mult
	r.progress = clampPercent(r.progress + delta)
	if delta > 0 {
		r.drainStamina(delta * r.maxStamina / 100 * r.drainEfficiency())
	}

	r.updateBossPhase()
	if r.checkTerminal(true) {
		return
	}
	r.sched.after(t.ReelTick, r.tick)
}

// drainEfficiency favours weaker fish; strength 10 still drains at face value.
func (r *ReelChallenge) drainEfficiency() float64 {
	return clampFloat(1.5-r.fish.Strength*0.05, 1.0, 1.45)
}

func (r *ReelChallenge) drainStamina(amount float64) {
	r.stamina = clampFloat(r.stamina-amount, 0, r.maxStamina)
}

func (r *ReelChallenge) recentMostlySuccessful() bool {
	if len(r.recent) == 0 {
		return false
	}
	wins := 0
	for _, ok := range r.recent {
		if ok {
			wins++
		}
	}
	return wins*2 > len(r.recent)
}

// checkTerminal applies the termination order: line break, then catch, then
// escape. Escape is only rolled from the tick.
func (r *ReelChallenge) checkTerminal(rollEscape bool) bool {
	if r.resolved {
		return true
	}
	switch {
	case r.line <= 0:
		r.finish(false, FailureLineBreak)
	case r.stamina <= 0 || r.progress >= 100:
		r.finish(true, FailureNone)
	case rollEscape && r.struggle.active && bernoulli(r.fish.Elusiveness*r.opts.Tuning.EscapeRate, r.opts.RNG):
		r.finish(false, FailureFishEscape)
	}
	return r.resolved
}

func (r *ReelChallenge) finish(success bool, reason FailureReason) {
	if !r.settle() {
		return
	}
	r.qte = nil
	fish := r.fish
	r.outcome = ReelOutcome{
		Success:       success,
		FailureReason: reason,
		Fish:          &fish,
		Stats:         r.snapshotStats(),
	}
	if r.done != nil {
		r.done(r.outcome)
	}
}

func (r *ReelChallenge) snapshotStats() ReelStats {
	return ReelStats{
		FinalTension:  r.tension,
		LineIntegrity: r.line,
		ReelProgress:  r.progress,
		FishStamina:   r.stamina,
		QTESuccesses:  r.successes,
		QTEFailures:   r.failures,
		Duration:      r.now(),
	}
}

func (r *ReelChallenge) scheduleStruggle() {
	t := r.opts.Tuning
	gap := uniformDuration(r.opts.RNG, t.StruggleMinGap, t.StruggleMaxGap)
	r.struggleTimer = r.sched.after(gap, r.startStruggle)
}

func (r *ReelChallenge) startStruggle() {
	t := r.opts.Tuning
	patterns := patternsFor(r.style)
	p := patterns[intn(r.opts.RNG, len(patterns))]
	length := uniformDuration(r.opts.RNG, t.StruggleMinLength, t.StruggleMaxLength)
	r.struggle = struggleCycle{
		active:    true,
		pattern:   p,
		intensity: StruggleIntensity(r.fish, p, r.style.Multiplier),
		endsAt:    r.now() + length,
		count:     r.struggle.count + 1,
	}
	r.emit(Notice{Kind: NoticeStruggleStart, Pattern: p, Message: string(p)})
	r.struggleTimer = r.sched.after(length, r.endStruggle)
}

func (r *ReelChallenge) endStruggle() {
	p := r.struggle.pattern
	r.struggle.active = false
	r.struggle.intensity = 0
	r.emit(Notice{Kind: NoticeStruggleEnd, Pattern: p})
	r.scheduleStruggle()
}

func (r *ReelChallenge) scheduleQTE() {
	if r.qteCount >= r.qteCap {
		return
	}
	t := r.opts.Tuning
	gap := uniformDuration(r.opts.RNG, t.QTEMinGap, t.QTEMaxGap)
	r.qteNext = r.sched.after(gap, func() {
		if r.qte != nil {
			r.scheduleQTE()
			return
		}
		r.startQTE(allQTEKinds[intn(r.opts.RNG, len(allQTEKinds))])
	})
}

// startQTE opens a QTE unless one is active or the cap is spent.
func (r *ReelChallenge) startQTE(kind QTEKind) bool {
	if r.resolved || r.qte != nil || r.qteCount >= r.qteCap {
		return false
	}
	r.sched.cancel(r.qteNext)
	t := r.opts.Tuning
	q := newQTE(kind, r.difficulty, r.stats, t, r.opts.RNG)
	r.qte = q
	r.qteCount++
	r.qteOpened = r.now()
	r.qteCursor = newIndicator(r.qteOpened, t.IndicatorPeriod)
	r.qteTimer = r.sched.after(q.Limit(), r.expireQTE)
	view := q.view(0)
	r.emit(Notice{Kind: NoticeQTEStart, QTE: &view, Message: string(kind)})
	return true
}

func (r *ReelChallenge) handleInput(in Input) {
	if r.qte == nil {
		r.opts.Logger.Debug("input without active qte ignored", "input", in.String())
		return
	}
	elapsed := r.now() - r.qteOpened
	switch r.qte.handle(in, elapsed, r.qteCursor.at(r.now())) {
	case qteSucceeded:
		r.resolveQTE(true)
	case qteFailed:
		r.resolveQTE(false)
	}
}

func (r *ReelChallenge) expireQTE() {
	if r.qte == nil {
		return
	}
	r.resolveQTE(r.qte.expire(r.now() - r.qteOpened))
}

func (r *ReelChallenge) resolveQTE(success bool) {
	q := r.qte
	if q == nil || r.resolved {
		return
	}
	r.sched.cancel(r.qteTimer)
	r.qte = nil
	t := r.opts.Tuning

	view := q.view(r.now() - r.qteOpened)
	view.Success = success
	if success {
		r.successes++
		r.tension = clampPercent(r.tension - t.QTESuccessRelief)
		if bernoulli(r.stats.CriticalChance/100, r.opts.RNG) {
			r.drainStamina(r.maxStamina * criticalDrainPct)
			view.Critical = true
		}
	} else {
		r.failures++
		r.tension = clampPercent(r.tension + t.QTEFailurePenalty)
	}
	r.recent = append(r.recent, success)
	if len(r.recent) > recentQTEWindow {
		r.recent = r.recent[len(r.recent)-recentQTEWindow:]
	}
	msg := "failed"
	if success {
		msg = "success"
	}
	r.emit(Notice{Kind: NoticeQTEResolved, Success: success, QTE: &view, Message: msg})

	if r.checkTerminal(false) {
		return
	}
	r.scheduleQTE()
}

func (r *ReelChallenge) updateBossPhase() {
	if !r.fish.IsBoss || r.maxStamina <= 0 {
		return
	}
	next := BossPhase(r.stamina / r.maxStamina * 100)
	if next == r.bossPhase {
		return
	}
	r.bossPhase = next
	r.emit(Notice{Kind: NoticeBossPhase, BossPhase: next, Message: fmt.Sprintf("phase %d", next)})
}

func (r *ReelChallenge) specialAttack() {
	if r.resolved {
		return
	}
	attacks := attacksFor(r.fish.BossClass)
	attack := attacks[intn(r.opts.RNG, len(attacks))]
	switch attack {
	case AttackTailSlam:
		r.tension = clampPercent(r.tension + tailSlamTension)
	case AttackLineWrap:
		r.line = clampPercent(r.line - lineWrapDamage)
	case AttackFrenzy:
		if !r.startQTE(allQTEKinds[intn(r.opts.RNG, len(allQTEKinds))]) {
			r.tension = clampPercent(r.tension + frenzyFallback)
		}
	}
	r.emit(Notice{Kind: NoticeSpecialAttack, Attack: attack, BossPhase: r.bossPhase, Message: string(attack)})
	if r.checkTerminal(false) {
		return
	}
	r.attackTimer = r.sched.after(r.opts.Tuning.BossAttackInterval, r.specialAttack)
}

func (r *ReelChallenge) Outcome() (ReelOutcome, bool) {
	return r.outcome, r.resolved && r.started
}

func (r *ReelChallenge) View() ReelView {
	v := ReelView{
		Tension:      r.tension,
		Band:         r.band,
		BreakAt:      r.breakAt,
		Line:         r.line,
		Progress:     r.progress,
		Stamina:      r.stamina,
		MaxStamina:   r.maxStamina,
		Struggling:   r.struggle.active,
		Pattern:      r.struggle.pattern,
		BossPhase:    r.bossPhase,
		QTEsLeft:     r.qteCap - r.qteCount,
		QTESuccesses: r.successes,
		QTEFailures:  r.failures,
		Elapsed:      r.now(),
		Resolved:     r.resolved,
	}
	if r.qte != nil {
		elapsed := r.now() - r.qteOpened
		qv := r.qte.view(elapsed)
		qv.Remaining = r.qte.Limit() - elapsed
		qv.Cursor = r.qteCursor.at(r.now())
		v.QTE = &qv
	}
	return v
}
