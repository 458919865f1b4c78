package game

import (
	"io"
	"log/slog"
	"math"
	"time"
)

// indicator is the bouncing timing cursor shared by lure steps and
// sequence QTEs. It restarts from 0 whenever a new step opens.
type indicator struct {
	origin time.Duration
	period time.Duration
}

func newIndicator(origin, period time.Duration) indicator {
	return indicator{origin: origin, period: period}
}

func (i indicator) at(now time.Duration) float64 {
	return triangleWave(now-i.origin, i.period)
}

// timingAccuracy scores a cursor position, 1 at the centre and 0 at either edge.
func timingAccuracy(v float64) float64 {
	return clampFloat(1-math.Abs(v-50)/50, 0, 1)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
