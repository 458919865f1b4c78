package game

import (
	"container/heap"
	"time"
)

type timerID uint64

type timer struct {
	id    timerID
	at    time.Duration
	seq   uint64
	fn    func()
	index int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// scheduler runs one-shot timers against a virtual clock. Timers due at the
// same instant fire in the order they were scheduled.
type scheduler struct {
	now    time.Duration
	seq    uint64
	nextID timerID
	queue  timerHeap
	live   map[timerID]*timer
}

func newScheduler() *scheduler {
	return &scheduler{live: make(map[timerID]*timer)}
}

func (s *scheduler) after(d time.Duration, fn func()) timerID {
	if d < 0 {
		d = 0
	}
	s.nextID++
	s.seq++
	t := &timer{id: s.nextID, at: s.now + d, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	s.live[t.id] = t
	return t.id
}

// cancel reports whether the timer was still pending.
func (s *scheduler) cancel(id timerID) bool {
	t, ok := s.live[id]
	if !ok {
		return false
	}
	delete(s.live, id)
	if t.index >= 0 {
		heap.Remove(&s.queue, t.index)
	}
	return true
}

func (s *scheduler) pending(id timerID) bool {
	_, ok := s.live[id]
	return ok
}

// advance moves the clock forward by d, firing due timers in order. Once halt
// reports true the clock stays at that instant and the unspent part of d is
// returned; otherwise the clock lands on the target and advance returns 0.
func (s *scheduler) advance(d time.Duration, halt func() bool) time.Duration {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	for {
		if halt != nil && halt() {
			return target - s.now
		}
		if len(s.queue) == 0 || s.queue[0].at > target {
			break
		}
		next := heap.Pop(&s.queue).(*timer)
		delete(s.live, next.id)
		s.now = next.at
		next.fn()
	}
	s.now = target
	return 0
}

func (s *scheduler) clear() {
	s.queue = nil
	s.live = make(map[timerID]*timer)
}
