package autoplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

// SimConfig describes one balance run. Every trial gets a fresh encounter
// seeded from Seed, so equal configs give equal summaries.
type SimConfig struct {
	Trials     int
	Seed       int64
	Skill      float64
	Stats      game.PlayerFishingStats
	Catalog    game.FishCatalog
	Area       game.WaterArea
	Lure       game.LureType
	Conditions game.Conditions
	Tuning     game.Tuning
	Play       PlayOptions
	Logger     *slog.Logger
}

// Stats summarizes a sample.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
}

type Summary struct {
	Trials    int
	Caught    int
	Perfect   int
	Stalled   int
	CatchRate float64

	// Outcomes counts every attempt by its result reason ("caught",
	// "line_break", "fish_left" and so on).
	Outcomes map[string]int
	FailedIn map[game.Phase]int
	Species  map[string]int

	CatchTime   Stats // seconds, caught attempts only
	WeightKg    Stats
	QTEFailures Stats
}

type weighScale struct {
	weights []float64
}

func (w *weighScale) RecordCatch(_ context.Context, r game.CatchReport) error {
	w.weights = append(w.weights, r.WeightKg)
	return nil
}

// Run plays cfg.Trials attempts with a Bot of the configured skill.
func Run(ctx context.Context, cfg SimConfig) (Summary, error) {
	if cfg.Trials <= 0 {
		return Summary{}, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	if cfg.Tuning == (game.Tuning{}) {
		cfg.Tuning = game.DefaultTuning()
	}
	if cfg.Lure == "" {
		cfg.Lure = game.LureSpinner
	}
	if cfg.Area == (game.WaterArea{}) {
		cfg.Area = game.DefaultWaterArea()
	}

	sum := Summary{
		Trials:   cfg.Trials,
		Outcomes: map[string]int{},
		FailedIn: map[game.Phase]int{},
		Species:  map[string]int{},
	}
	scale := &weighScale{}
	var catchSecs, qteFails []float64

	for i := 0; i < cfg.Trials; i++ {
		seed := cfg.Seed + int64(i)
		enc, err := game.NewEncounter(game.EncounterContext{
			Stats:      cfg.Stats,
			Catalog:    cfg.Catalog,
			Rewards:    scale,
			Conditions: cfg.Conditions,
			Lure:       cfg.Lure,
			Area:       cfg.Area,
			RNG:        game.NewSeededRNG(seed),
			Logger:     cfg.Logger,
			Tuning:     cfg.Tuning,
		})
		if err != nil {
			return Summary{}, err
		}
		bot := NewBot(cfg.Skill, game.NewSeededRNG(^seed))
		res, err := Play(ctx, enc, bot, cfg.Play)
		if errors.Is(err, ErrStalled) {
			sum.Stalled++
			continue
		}
		if err != nil {
			return Summary{}, err
		}

		sum.Outcomes[outcomeOf(res)]++
		if !res.Caught {
			sum.FailedIn[res.FailedIn]++
			continue
		}
		sum.Caught++
		if res.Report != nil {
			sum.Species[res.Report.Fish.ID]++
			catchSecs = append(catchSecs, res.Report.Duration.Seconds())
			qteFails = append(qteFails, float64(res.Report.QTE.Failures))
			if res.Report.Perfect {
				sum.Perfect++
			}
		}
	}

	sum.CatchRate = float64(sum.Caught) / float64(cfg.Trials)
	sum.CatchTime = calcStats(catchSecs)
	sum.WeightKg = calcStats(scale.weights)
	sum.QTEFailures = calcStats(qteFails)
	return sum, nil
}

func outcomeOf(res game.EncounterResult) string {
	if res.Caught {
		return "caught"
	}
	if res.Reason != "" {
		return res.Reason
	}
	return "unknown"
}

// calcStats computes population mean, variance and interpolated percentiles.
func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var total float64
	for _, v := range xs {
		total += v
	}
	mean := total / float64(n)

	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}

// Seconds renders a duration stat for reports.
func (s Stats) Seconds() string {
	return fmt.Sprintf("mean %s p50 %s p90 %s p99 %s",
		secs(s.Mean), secs(s.P50), secs(s.P90), secs(s.P99))
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second)).Round(10 * time.Millisecond)
}
