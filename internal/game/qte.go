package game

import (
	"math"
	"time"
)

type QTEKind string

const (
	QTETap      QTEKind = "tap"
	QTEHold     QTEKind = "hold"
	QTESequence QTEKind = "sequence"
	QTETiming   QTEKind = "timing"
)

var allQTEKinds = []QTEKind{QTETap, QTEHold, QTESequence, QTETiming}

type qteVerdict int

const (
	qtePending qteVerdict = iota
	qteSucceeded
	qteFailed
)

// QTE is one of the four closed variants below. elapsed is measured from the
// moment the QTE opened; cursor is the shared timing indicator value.
type QTE interface {
	Kind() QTEKind
	Limit() time.Duration
	handle(in Input, elapsed time.Duration, cursor float64) qteVerdict
	expire(elapsed time.Duration) bool
	view(elapsed time.Duration) QTEView
}

type QTEView struct {
	Kind      QTEKind
	Limit     time.Duration
	Remaining time.Duration
	Required  int
	Progress  int
	Holding   bool
	HeldFor   time.Duration
	HoldGoal  time.Duration
	Sequence  []Direction
	Step      int
	Cursor    float64
	GoodLow   float64
	GoodHigh  float64
	Target    time.Duration
	Tolerance time.Duration
	Elapsed   time.Duration
	Success   bool
	Critical  bool
}

var qteBaseLimits = map[QTEKind]time.Duration{
	QTETap:      3 * time.Second,
	QTEHold:     3 * time.Second,
	QTESequence: 5 * time.Second,
	QTETiming:   3 * time.Second,
}

// QTELimit shrinks 15% per difficulty step above 1 and stretches 4% per
// QTEWindow point above 5.
func QTELimit(kind QTEKind, difficulty int, stats PlayerFishingStats, t Tuning) time.Duration {
	base := qteBaseLimits[kind]
	scale := (1 - 0.15*float64(difficulty-1)) * (1 + (stats.QTEWindow-defaultAttribute)*0.04)
	scale = clampFloat(scale, 0.4, 2)
	limit := time.Duration(float64(base) * scale)
	if kind == QTEHold {
		if floor := t.HoldDuration + time.Second; limit < floor {
			limit = floor
		}
	}
	return limit
}

func newQTE(kind QTEKind, difficulty int, stats PlayerFishingStats, t Tuning, rng RandomSource) QTE {
	limit := QTELimit(kind, difficulty, stats, t)
	switch kind {
	case QTEHold:
		return &holdQTE{limit: limit, goal: t.HoldDuration}
	case QTESequence:
		widen := (stats.QTEPrecision - defaultAttribute) * 2
		q := &sequenceQTE{
			limit:    limit,
			dirs:     make([]Direction, difficulty+2),
			goodLow:  clampFloat(t.QTEGoodTimingLow-widen, 0, 50),
			goodHigh: clampFloat(t.QTEGoodTimingHigh+widen, 50, 100),
		}
		for i := range q.dirs {
			q.dirs[i] = allDirections[intn(rng, len(allDirections))]
		}
		return q
	case QTETiming:
		frac := uniform(rng, 0.35, 0.65)
		return &timingQTE{
			limit:     limit,
			target:    time.Duration(frac * float64(limit)),
			tolerance: t.TimingTolerance,
		}
	default:
		return &tapQTE{limit: limit, required: difficulty + 2}
	}
}

type tapQTE struct {
	limit    time.Duration
	required int
	count    int
}

func (q *tapQTE) Kind() QTEKind        { return QTETap }
func (q *tapQTE) Limit() time.Duration { return q.limit }

func (q *tapQTE) handle(in Input, _ time.Duration, _ float64) qteVerdict {
	if in.Action != ActionTrigger {
		return qtePending
	}
	q.count++
	if q.count >= q.required {
		return qteSucceeded
	}
	return qtePending
}

func (q *tapQTE) expire(time.Duration) bool { return false }

func (q *tapQTE) view(elapsed time.Duration) QTEView {
	return QTEView{Kind: QTETap, Limit: q.limit, Elapsed: elapsed, Required: q.required, Progress: q.count}
}

// holdQTE counts only the first start and the matching release; key repeat
// while held is ignored.
type holdQTE struct {
	limit   time.Duration
	goal    time.Duration
	holding bool
	since   time.Duration
}

func (q *holdQTE) Kind() QTEKind        { return QTEHold }
func (q *holdQTE) Limit() time.Duration { return q.limit }

func (q *holdQTE) handle(in Input, elapsed time.Duration, _ float64) qteVerdict {
	switch in.Action {
	case ActionHoldStart:
		if !q.holding {
			q.holding = true
			q.since = elapsed
		}
	case ActionHoldEnd:
		if !q.holding {
			return qtePending
		}
		q.holding = false
		if elapsed-q.since >= q.goal {
			return qteSucceeded
		}
		return qteFailed
	}
	return qtePending
}

func (q *holdQTE) expire(elapsed time.Duration) bool {
	return q.holding && elapsed-q.since >= q.goal
}

func (q *holdQTE) view(elapsed time.Duration) QTEView {
	v := QTEView{Kind: QTEHold, Limit: q.limit, Elapsed: elapsed, Holding: q.holding, HoldGoal: q.goal}
	if q.holding {
		v.HeldFor = elapsed - q.since
	}
	return v
}

type sequenceQTE struct {
	limit    time.Duration
	dirs     []Direction
	step     int
	goodLow  float64
	goodHigh float64
}

func (q *sequenceQTE) Kind() QTEKind        { return QTESequence }
func (q *sequenceQTE) Limit() time.Duration { return q.limit }

func (q *sequenceQTE) handle(in Input, _ time.Duration, cursor float64) qteVerdict {
	if in.Action != ActionDirection {
		return qtePending
	}
	if in.Direction != q.dirs[q.step] {
		return qteFailed
	}
	if cursor < q.goodLow || cursor > q.goodHigh {
		return qtePending
	}
	q.step++
	if q.step >= len(q.dirs) {
		return qteSucceeded
	}
	return qtePending
}

func (q *sequenceQTE) expire(time.Duration) bool { return false }

func (q *sequenceQTE) view(elapsed time.Duration) QTEView {
	return QTEView{
		Kind:     QTESequence,
		Limit:    q.limit,
		Elapsed:  elapsed,
		Sequence: append([]Direction(nil), q.dirs...),
		Step:     q.step,
		Required: len(q.dirs),
		Progress: q.step,
		GoodLow:  q.goodLow,
		GoodHigh: q.goodHigh,
	}
}

type timingQTE struct {
	limit     time.Duration
	target    time.Duration
	tolerance time.Duration
}

func (q *timingQTE) Kind() QTEKind        { return QTETiming }
func (q *timingQTE) Limit() time.Duration { return q.limit }

func (q *timingQTE) handle(in Input, elapsed time.Duration, _ float64) qteVerdict {
	if in.Action != ActionTrigger {
		return qtePending
	}
	if math.Abs(float64(elapsed-q.target)) <= float64(q.tolerance) {
		return qteSucceeded
	}
	return qteFailed
}

func (q *timingQTE) expire(time.Duration) bool { return false }

func (q *timingQTE) view(elapsed time.Duration) QTEView {
	return QTEView{Kind: QTETiming, Limit: q.limit, Elapsed: elapsed, Target: q.target, Tolerance: q.tolerance}
}
