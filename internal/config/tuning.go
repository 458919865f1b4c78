package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/reel-it/internal/game"
)

// RawTuning mirrors game.Tuning with optional fields so a file only needs to
// name what it changes.
type RawTuning struct {
	Cast struct {
		MeterPeriod *time.Duration `yaml:"meter_period"`
		Timeout     *time.Duration `yaml:"timeout"`
		BaseWindow  *float64       `yaml:"base_window"`
		MaxWindow   *float64       `yaml:"max_window"`
	} `yaml:"cast"`

	Lure struct {
		StartInterest   *float64       `yaml:"start_interest"`
		FailPenalty     *float64       `yaml:"fail_penalty"`
		SuccessGain     *float64       `yaml:"success_gain"`
		SimpleLimit     *time.Duration `yaml:"simple_limit"`
		SequenceLimit   *time.Duration `yaml:"sequence_limit"`
		SequenceSteps   *int           `yaml:"sequence_steps"`
		HookDelay       *time.Duration `yaml:"hook_delay"`
		MaxHookChance   *float64       `yaml:"max_hook_chance"`
		IndicatorPeriod *time.Duration `yaml:"indicator_period"`
	} `yaml:"lure"`

	Reel struct {
		Tick               *time.Duration `yaml:"tick"`
		TensionStart       *float64       `yaml:"tension_start"`
		TensionDrift       *float64       `yaml:"tension_drift"`
		SafeBandLow        *float64       `yaml:"safe_band_low"`
		SafeBandHigh       *float64       `yaml:"safe_band_high"`
		LineDamageFactor   *float64       `yaml:"line_damage_factor"`
		LineCriticalFactor *float64       `yaml:"line_critical_factor"`
		StruggleMinGap     *time.Duration `yaml:"struggle_min_gap"`
		StruggleMaxGap     *time.Duration `yaml:"struggle_max_gap"`
		EscapeRate         *float64       `yaml:"escape_rate"`
		BossAttackInterval *time.Duration `yaml:"boss_attack_interval"`
		WhaleProgress      *float64       `yaml:"whale_progress_penalty"`
	} `yaml:"reel"`

	QTE struct {
		MinGap          *time.Duration `yaml:"min_gap"`
		MaxGap          *time.Duration `yaml:"max_gap"`
		SuccessRelief   *float64       `yaml:"success_relief"`
		FailurePenalty  *float64       `yaml:"failure_penalty"`
		HoldDuration    *time.Duration `yaml:"hold_duration"`
		TimingTolerance *time.Duration `yaml:"timing_tolerance"`
	} `yaml:"qte"`
}

// LoadTuning merges the YAML file at path over game.DefaultTuning and
// validates the result. An empty path returns the defaults.
func LoadTuning(path string) (game.Tuning, error) {
	if path == "" {
		return game.DefaultTuning(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return game.Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	return ParseTuning(b)
}

func ParseTuning(data []byte) (game.Tuning, error) {
	var raw RawTuning
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return game.Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	t := raw.Apply(game.DefaultTuning())
	if err := t.Validate(); err != nil {
		return game.Tuning{}, err
	}
	return t, nil
}

// Apply overrides base wherever raw sets a value.
func (raw RawTuning) Apply(base game.Tuning) game.Tuning {
	t := base
	set(&t.CastMeterPeriod, raw.Cast.MeterPeriod)
	set(&t.CastTimeout, raw.Cast.Timeout)
	set(&t.CastBaseWindow, raw.Cast.BaseWindow)
	set(&t.CastMaxWindow, raw.Cast.MaxWindow)

	set(&t.LureStartInterest, raw.Lure.StartInterest)
	set(&t.LureFailPenalty, raw.Lure.FailPenalty)
	set(&t.LureSuccessGain, raw.Lure.SuccessGain)
	set(&t.LureSimpleLimit, raw.Lure.SimpleLimit)
	set(&t.LureSequenceLimit, raw.Lure.SequenceLimit)
	set(&t.LureSequenceSteps, raw.Lure.SequenceSteps)
	set(&t.LureHookDelay, raw.Lure.HookDelay)
	set(&t.LureMaxHookChance, raw.Lure.MaxHookChance)
	set(&t.IndicatorPeriod, raw.Lure.IndicatorPeriod)

	set(&t.ReelTick, raw.Reel.Tick)
	set(&t.TensionStart, raw.Reel.TensionStart)
	set(&t.TensionBaseDrift, raw.Reel.TensionDrift)
	set(&t.SafeBandLow, raw.Reel.SafeBandLow)
	set(&t.SafeBandHigh, raw.Reel.SafeBandHigh)
	set(&t.LineDamageFactor, raw.Reel.LineDamageFactor)
	set(&t.LineCriticalFactor, raw.Reel.LineCriticalFactor)
	set(&t.StruggleMinGap, raw.Reel.StruggleMinGap)
	set(&t.StruggleMaxGap, raw.Reel.StruggleMaxGap)
	set(&t.EscapeRate, raw.Reel.EscapeRate)
	set(&t.BossAttackInterval, raw.Reel.BossAttackInterval)
	set(&t.WhaleProgressPenalty, raw.Reel.WhaleProgress)

	set(&t.QTEMinGap, raw.QTE.MinGap)
	set(&t.QTEMaxGap, raw.QTE.MaxGap)
	set(&t.QTESuccessRelief, raw.QTE.SuccessRelief)
	set(&t.QTEFailurePenalty, raw.QTE.FailurePenalty)
	set(&t.HoldDuration, raw.QTE.HoldDuration)
	set(&t.TimingTolerance, raw.QTE.TimingTolerance)
	return t
}

// ExportTuning is the inverse of Apply: every field set from t.
func ExportTuning(t game.Tuning) RawTuning {
	var raw RawTuning
	raw.Cast.MeterPeriod = &t.CastMeterPeriod
	raw.Cast.Timeout = &t.CastTimeout
	raw.Cast.BaseWindow = &t.CastBaseWindow
	raw.Cast.MaxWindow = &t.CastMaxWindow

	raw.Lure.StartInterest = &t.LureStartInterest
	raw.Lure.FailPenalty = &t.LureFailPenalty
	raw.Lure.SuccessGain = &t.LureSuccessGain
	raw.Lure.SimpleLimit = &t.LureSimpleLimit
	raw.Lure.SequenceLimit = &t.LureSequenceLimit
	raw.Lure.SequenceSteps = &t.LureSequenceSteps
	raw.Lure.HookDelay = &t.LureHookDelay
	raw.Lure.MaxHookChance = &t.LureMaxHookChance
	raw.Lure.IndicatorPeriod = &t.IndicatorPeriod

	raw.Reel.Tick = &t.ReelTick
	raw.Reel.TensionStart = &t.TensionStart
	raw.Reel.TensionDrift = &t.TensionBaseDrift
	raw.Reel.SafeBandLow = &t.SafeBandLow
	raw.Reel.SafeBandHigh = &t.SafeBandHigh
	raw.Reel.LineDamageFactor = &t.LineDamageFactor
	raw.Reel.LineCriticalFactor = &t.LineCriticalFactor
	raw.Reel.StruggleMinGap = &t.StruggleMinGap
	raw.Reel.StruggleMaxGap = &t.StruggleMaxGap
	raw.Reel.EscapeRate = &t.EscapeRate
	raw.Reel.BossAttackInterval = &t.BossAttackInterval
	raw.Reel.WhaleProgress = &t.WhaleProgressPenalty

	raw.QTE.MinGap = &t.QTEMinGap
	raw.QTE.MaxGap = &t.QTEMaxGap
	raw.QTE.SuccessRelief = &t.QTESuccessRelief
	raw.QTE.FailurePenalty = &t.QTEFailurePenalty
	raw.QTE.HoldDuration = &t.HoldDuration
	raw.QTE.TimingTolerance = &t.TimingTolerance
	return raw
}

// MarshalTuning renders t in the same layout LoadTuning reads.
func MarshalTuning(t game.Tuning) ([]byte, error) {
	b, err := yaml.Marshal(ExportTuning(t))
	if err != nil {
		return nil, fmt.Errorf("encode tuning: %w", err)
	}
	return b, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
