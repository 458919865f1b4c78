package game

import "time"

type StrugglePattern string

const (
	StruggleThrash    StrugglePattern = "thrash"
	StruggleDive      StrugglePattern = "dive"
	StruggleRun       StrugglePattern = "run"
	StruggleRoll      StrugglePattern = "roll"
	StruggleJump      StrugglePattern = "jump"
	StruggleHeadshake StrugglePattern = "headshake"
	StruggleCircle    StrugglePattern = "circle"
	StruggleBulldog   StrugglePattern = "bulldog"
	StruggleSurge     StrugglePattern = "surge"
	StruggleTailwalk  StrugglePattern = "tailwalk"
)

var AllStrugglePatterns = []StrugglePattern{
	StruggleThrash, StruggleDive, StruggleRun, StruggleRoll, StruggleJump,
	StruggleHeadshake, StruggleCircle, StruggleBulldog, StruggleSurge, StruggleTailwalk,
}

// Multiplier scales struggle intensity. Unknown patterns report 0 and false.
func (p StrugglePattern) Multiplier() (float64, bool) {
	switch p {
	case StruggleThrash:
		return 1.2, true
	case StruggleDive:
		return 1.0, true
	case StruggleRun:
		return 1.4, true
	case StruggleRoll:
		return 0.8, true
	case StruggleJump:
		return 1.1, true
	case StruggleHeadshake:
		return 0.9, true
	case StruggleCircle:
		return 0.6, true
	case StruggleBulldog:
		return 1.0, true
	case StruggleSurge:
		return 1.5, true
	case StruggleTailwalk:
		return 1.3, true
	}
	return 0, false
}

func (p StrugglePattern) Valid() bool {
	_, ok := p.Multiplier()
	return ok
}

// StruggleIntensity is the tension added per tick during a burst.
func StruggleIntensity(f Fish, p StrugglePattern, styleMultiplier float64) float64 {
	mult, ok := p.Multiplier()
	if !ok {
		mult = 1
	}
	if styleMultiplier <= 0 || !isFinite(styleMultiplier) {
		styleMultiplier = 1
	}
	return (f.Size + f.Aggressiveness) / 2 * mult * styleMultiplier * 0.1
}

// patternsFor returns the valid patterns a style allows, or all of them.
func patternsFor(style StruggleStyle) []StrugglePattern {
	var out []StrugglePattern
	for _, p := range style.Patterns {
		if p.Valid() {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return AllStrugglePatterns
	}
	return out
}

type struggleCycle struct {
	active    bool
	pattern   StrugglePattern
	intensity float64
	endsAt    time.Duration
	count     int
}
