package gui

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// CommandSink accepts typed command lines from outside the render loop.
type CommandSink interface {
	EnqueueCommand(line string)
}

// commandQueue hands command lines to the render loop, which is the only
// goroutine allowed to touch the session.
type commandQueue struct {
	ch chan string
}

func newCommandQueue(size int) *commandQueue {
	if size < 1 {
		size = 16
	}
	return &commandQueue{ch: make(chan string, size)}
}

func (q *commandQueue) EnqueueCommand(line string) {
	if q == nil {
		return
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	select {
	case q.ch <- line:
	default:
		// Drop only when the loop has fallen behind.
	}
}

func (q *commandQueue) Dequeue() (string, bool) {
	if q == nil {
		return "", false
	}
	select {
	case line := <-q.ch:
		return line, true
	default:
		return "", false
	}
}

// feed copies lines from r into sink until r ends or ctx is done.
func feed(ctx context.Context, r io.Reader, sink CommandSink) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		sink.EnqueueCommand(sc.Text())
	}
}
