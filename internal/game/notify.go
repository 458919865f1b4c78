package game

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) {
	if f != nil {
		f(n)
	}
}

// NoticeQueue buffers notices until the driver drains them. It never drops:
// completion notices must reach the consumer exactly once.
type NoticeQueue struct {
	items []Notice
}

func NewNoticeQueue() *NoticeQueue {
	return &NoticeQueue{}
}

func (q *NoticeQueue) Notify(n Notice) {
	if q == nil {
		return
	}
	q.items = append(q.items, n)
}

func (q *NoticeQueue) Dequeue() (Notice, bool) {
	if q == nil || len(q.items) == 0 {
		return Notice{}, false
	}
	n := q.items[0]
	q.items[0] = Notice{}
	q.items = q.items[1:]
	return n, true
}

// Drain returns everything queued so far and empties the queue.
func (q *NoticeQueue) Drain() []Notice {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *NoticeQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(n Notice) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Tee fans notices out to every non-nil notifier in order.
func Tee(targets ...Notifier) Notifier {
	return multiNotifier(targets)
}
