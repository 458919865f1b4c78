package game

import (
	"testing"
	"time"
)

func TestHoldQTEBoundary(t *testing.T) {
	tests := []struct {
		name string
		held time.Duration
		want qteVerdict
	}{
		{"exactly 1500ms", 1500 * time.Millisecond, qteSucceeded},
		{"1499ms", 1499 * time.Millisecond, qteFailed},
		{"long hold", 2 * time.Second, qteSucceeded},
		{"tap release", 10 * time.Millisecond, qteFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &holdQTE{limit: 3 * time.Second, goal: 1500 * time.Millisecond}
			start := 200 * time.Millisecond
			if got := q.handle(HoldStart(), start, 0); got != qtePending {
				t.Fatalf("hold start should be pending, got %d", got)
			}
			if got := q.handle(HoldEnd(), start+tc.held, 0); got != tc.want {
				t.Fatalf("expected verdict %d, got %d", tc.want, got)
			}
		})
	}
}

func TestHoldQTEIgnoresDuplicateStart(t *testing.T) {
	q := &holdQTE{limit: 3 * time.Second, goal: 1500 * time.Millisecond}
	q.handle(HoldStart(), 0, 0)
	q.handle(HoldStart(), 900*time.Millisecond, 0)
	if got := q.handle(HoldEnd(), 1500*time.Millisecond, 0); got != qteSucceeded {
		t.Fatalf("duplicate start must not reset the hold timer, got %d", got)
	}
}

func TestHoldQTEReleaseWithoutStart(t *testing.T) {
	q := &holdQTE{limit: 3 * time.Second, goal: 1500 * time.Millisecond}
	if got := q.handle(HoldEnd(), time.Second, 0); got != qtePending {
		t.Fatalf("release without a hold should be ignored, got %d", got)
	}
	if q.expire(3 * time.Second) {
		t.Fatalf("never holding must fail at timeout")
	}
	q.handle(HoldStart(), time.Second, 0)
	if !q.expire(3 * time.Second) {
		t.Fatalf("a hold still running past the goal should succeed at timeout")
	}
}

func TestTapQTE(t *testing.T) {
	q := newQTE(QTETap, 1, DefaultStats(), DefaultTuning(), constRNG(0.5)).(*tapQTE)
	if q.required != 3 {
		t.Fatalf("expected 3 taps at difficulty 1, got %d", q.required)
	}
	q.handle(Press(DirUp), 0, 0)
	q.handle(Trigger(), 0, 0)
	if got := q.handle(Trigger(), 0, 0); got != qtePending {
		t.Fatalf("two taps should still be pending")
	}
	if got := q.handle(Trigger(), 0, 0); got != qteSucceeded {
		t.Fatalf("third tap should succeed")
	}
}

func TestSequenceQTETimingWindow(t *testing.T) {
	q := &sequenceQTE{
		limit:    4 * time.Second,
		dirs:     []Direction{DirLeft, DirUp, DirRight},
		goodLow:  20,
		goodHigh: 80,
	}

	if got := q.handle(Press(DirLeft), 0, 5); got != qtePending || q.step != 0 {
		t.Fatalf("correct key outside the window must neither advance nor fail (verdict %d step %d)", got, q.step)
	}
	if got := q.handle(Press(DirLeft), 0, 50); got != qtePending || q.step != 1 {
		t.Fatalf("correct key inside the window should advance (verdict %d step %d)", got, q.step)
	}
	if got := q.handle(Trigger(), 0, 50); got != qtePending || q.step != 1 {
		t.Fatalf("non-directional input should be ignored")
	}
	if got := q.handle(Press(DirDown), 0, 50); got != qteFailed {
		t.Fatalf("wrong key should fail immediately, got %d", got)
	}
}

func TestSequenceQTELength(t *testing.T) {
	for difficulty := 1; difficulty <= 3; difficulty++ {
		q := newQTE(QTESequence, difficulty, DefaultStats(), DefaultTuning(), NewSeededRNG(int64(difficulty))).(*sequenceQTE)
		if len(q.dirs) != difficulty+2 {
			t.Fatalf("difficulty %d: expected %d directions, got %d", difficulty, difficulty+2, len(q.dirs))
		}
	}
}

func TestTimingQTE(t *testing.T) {
	q := newQTE(QTETiming, 1, DefaultStats(), DefaultTuning(), constRNG(0.5)).(*timingQTE)
	if q.target < time.Duration(0.35*float64(q.limit)) || q.target > time.Duration(0.65*float64(q.limit)) {
		t.Fatalf("target %s outside the middle of %s", q.target, q.limit)
	}
	if got := q.handle(Trigger(), q.target+200*time.Millisecond, 0); got != qteSucceeded {
		t.Fatalf("trigger at tolerance edge should succeed")
	}
	q2 := *q
	if got := q2.handle(Trigger(), q.target-201*time.Millisecond, 0); got != qteFailed {
		t.Fatalf("trigger outside tolerance should fail")
	}
}

func TestQTELimit(t *testing.T) {
	stats := DefaultStats()
	tuning := DefaultTuning()
	easy := QTELimit(QTETap, 1, stats, tuning)
	hard := QTELimit(QTETap, 3, stats, tuning)
	if easy != 3*time.Second {
		t.Fatalf("expected 3s base tap limit, got %s", easy)
	}
	if hard >= easy {
		t.Fatalf("expected harder QTEs to be shorter: %s >= %s", hard, easy)
	}
	stats.QTEWindow = 10
	if wide := QTELimit(QTETap, 1, stats, tuning); wide <= easy {
		t.Fatalf("expected QTEWindow to extend the limit")
	}
	if hold := QTELimit(QTEHold, 3, DefaultStats(), tuning); hold < tuning.HoldDuration+time.Second {
		t.Fatalf("hold limit %s leaves no room to finish", hold)
	}
}
