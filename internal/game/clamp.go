package game

import (
	"math"
	"time"
)

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPercent(v float64) float64 {
	return clampFloat(v, 0, 100)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// triangleWave sweeps 0 -> 100 -> 0 once per period.
func triangleWave(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}
	phase := float64(elapsed%period) / float64(period)
	if phase < 0.5 {
		return phase * 200
	}
	return 200 - phase*200
}
