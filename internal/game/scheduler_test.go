package game

import (
	"testing"
	"time"
)

func TestSchedulerFiresInDueOrder(t *testing.T) {
	s := newScheduler()
	var order []string
	s.after(300*time.Millisecond, func() { order = append(order, "c") })
	s.after(100*time.Millisecond, func() { order = append(order, "a") })
	s.after(100*time.Millisecond, func() { order = append(order, "b") })

	s.advance(250*time.Millisecond, nil)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order after 250ms: %v", order)
	}
	if s.now != 250*time.Millisecond {
		t.Fatalf("expected clock at 250ms, got %v", s.now)
	}
	s.advance(50*time.Millisecond, nil)
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("expected c to fire at exactly 300ms, got %v", order)
	}
}

func TestSchedulerCancelPreventsFire(t *testing.T) {
	s := newScheduler()
	fired := false
	id := s.after(time.Second, func() { fired = true })
	if !s.cancel(id) {
		t.Fatalf("expected cancel of pending timer to succeed")
	}
	if s.cancel(id) {
		t.Fatalf("second cancel should report nothing pending")
	}
	s.advance(2*time.Second, nil)
	if fired {
		t.Fatalf("cancelled timer fired")
	}
}

func TestSchedulerRescheduleFromCallback(t *testing.T) {
	s := newScheduler()
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		s.after(100*time.Millisecond, tick)
	}
	s.after(100*time.Millisecond, tick)
	s.advance(time.Second, nil)
	if ticks != 10 {
		t.Fatalf("expected 10 ticks in one second, got %d", ticks)
	}
}

func TestSchedulerHaltStopsFiring(t *testing.T) {
	s := newScheduler()
	count := 0
	for i := 1; i <= 5; i++ {
		s.after(time.Duration(i)*time.Millisecond, func() { count++ })
	}
	left := s.advance(10*time.Millisecond, func() bool { return count >= 2 })
	if count != 2 {
		t.Fatalf("expected halt after two timers, got %d", count)
	}
	if s.now != 2*time.Millisecond || left != 8*time.Millisecond {
		t.Fatalf("expected clock at 2ms with 8ms unspent, got now=%v left=%v", s.now, left)
	}
	if left := s.advance(time.Millisecond, nil); left != 0 {
		t.Fatalf("unhalted advance should spend everything, got %v", left)
	}
}
