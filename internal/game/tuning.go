package game

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Tuning gathers every balance constant of an encounter. DefaultTuning returns
// the shipped values; config overrides are merged on top of it.
type Tuning struct {
	CastMeterPeriod time.Duration
	CastTimeout     time.Duration
	CastBaseWindow  float64
	CastMaxWindow   float64

	LureStartInterest  float64
	LureFailPenalty    float64
	LureSuccessGain    float64
	LureSimpleLimit    time.Duration
	LureSequenceLimit  time.Duration
	LureSequenceSteps  int
	LureHookDelay      time.Duration
	LureMaxHookChance  float64
	IndicatorPeriod    time.Duration
	LureGoodTimingLow  float64
	LureGoodTimingHigh float64
	LureSeqTimingLow   float64
	LureSeqTimingHigh  float64

	ReelTick             time.Duration
	TensionStart         float64
	TensionBaseDrift     float64
	TensionBandRelief    float64
	TensionQTERelief     float64
	SafeBandLow          float64
	SafeBandHigh         float64
	LineDamageFactor     float64
	LineCriticalFactor   float64
	StruggleMinGap       time.Duration
	StruggleMaxGap       time.Duration
	StruggleMinLength    time.Duration
	StruggleMaxLength    time.Duration
	QTEMinGap            time.Duration
	QTEMaxGap            time.Duration
	QTESuccessRelief     float64
	QTEFailurePenalty    float64
	HoldDuration         time.Duration
	TimingTolerance      time.Duration
	QTEGoodTimingLow     float64
	QTEGoodTimingHigh    float64
	EscapeRate           float64
	BossAttackInterval   time.Duration
	WhaleProgressPenalty float64
}

func DefaultTuning() Tuning {
	return Tuning{
		CastMeterPeriod: 2 * time.Second,
		CastTimeout:     15 * time.Second,
		CastBaseWindow:  20,
		CastMaxWindow:   50,

		LureStartInterest:  50,
		LureFailPenalty:    30,
		LureSuccessGain:    20,
		LureSimpleLimit:    4 * time.Second,
		LureSequenceLimit:  8 * time.Second,
		LureSequenceSteps:  4,
		LureHookDelay:      600 * time.Millisecond,
		LureMaxHookChance:  0.95,
		IndicatorPeriod:    1500 * time.Millisecond,
		LureGoodTimingLow:  20,
		LureGoodTimingHigh: 80,
		LureSeqTimingLow:   10,
		LureSeqTimingHigh:  90,

		ReelTick:             100 * time.Millisecond,
		TensionStart:         50,
		TensionBaseDrift:     0.5,
		TensionBandRelief:    1.0,
		TensionQTERelief:     0.5,
		SafeBandLow:          30,
		SafeBandHigh:         70,
		LineDamageFactor:     0.05,
		LineCriticalFactor:   3,
		StruggleMinGap:       2 * time.Second,
		StruggleMaxGap:       8 * time.Second,
		StruggleMinLength:    2 * time.Second,
		StruggleMaxLength:    4 * time.Second,
		QTEMinGap:            3 * time.Second,
		QTEMaxGap:            6 * time.Second,
		QTESuccessRelief:     10,
		QTEFailurePenalty:    15,
		HoldDuration:         1500 * time.Millisecond,
		TimingTolerance:      200 * time.Millisecond,
		QTEGoodTimingLow:     20,
		QTEGoodTimingHigh:    80,
		EscapeRate:           0.0005,
		BossAttackInterval:   15 * time.Second,
		WhaleProgressPenalty: 0.5,
	}
}

// Validate rejects tunings that would stall or invert an encounter.
func (t Tuning) Validate() error {
	var errs []string

	positive := map[string]time.Duration{
		"cast_meter_period":    t.CastMeterPeriod,
		"cast_timeout":         t.CastTimeout,
		"lure_simple_limit":    t.LureSimpleLimit,
		"lure_sequence_limit":  t.LureSequenceLimit,
		"indicator_period":     t.IndicatorPeriod,
		"reel_tick":            t.ReelTick,
		"hold_duration":        t.HoldDuration,
		"timing_tolerance":     t.TimingTolerance,
		"boss_attack_interval": t.BossAttackInterval,
	}
	for _, name := range sortedKeys(positive) {
		if positive[name] <= 0 {
			errs = append(errs, name+" must be > 0")
		}
	}

	if t.CastBaseWindow <= 0 || t.CastBaseWindow > t.CastMaxWindow || t.CastMaxWindow > 80 {
		errs = append(errs, "cast windows must satisfy 0 < base <= max <= 80")
	}
	if t.LureStartInterest <= 0 || t.LureStartInterest > 100 {
		errs = append(errs, "lure_start_interest must be in (0,100]")
	}
	if t.LureSequenceSteps < 1 {
		errs = append(errs, "lure_sequence_steps must be >= 1")
	}
	if t.LureMaxHookChance <= 0 || t.LureMaxHookChance > 1 {
		errs = append(errs, "lure_max_hook_chance must be in (0,1]")
	}
	if t.SafeBandLow < 0 || t.SafeBandHigh > 100 || t.SafeBandLow >= t.SafeBandHigh {
		errs = append(errs, "safe band must satisfy 0 <= low < high <= 100")
	}
	if t.TensionStart < 0 || t.TensionStart > 100 {
		errs = append(errs, "tension_start must be in [0,100]")
	}
	if t.StruggleMinGap <= 0 || t.StruggleMaxGap < t.StruggleMinGap {
		errs = append(errs, "struggle gap must satisfy 0 < min <= max")
	}
	if t.StruggleMinLength <= 0 || t.StruggleMaxLength < t.StruggleMinLength {
		errs = append(errs, "struggle length must satisfy 0 < min <= max")
	}
	if t.QTEMinGap <= 0 || t.QTEMaxGap < t.QTEMinGap {
		errs = append(errs, "qte gap must satisfy 0 < min <= max")
	}
	if t.EscapeRate < 0 || t.EscapeRate > 0.01 {
		errs = append(errs, "escape_rate must be in [0,0.01]")
	}
	if t.WhaleProgressPenalty <= 0 || t.WhaleProgressPenalty > 1 {
		errs = append(errs, "whale_progress_penalty must be in (0,1]")
	}

	if len(errs) > 0 {
		return fmt.Errorf("tuning validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
