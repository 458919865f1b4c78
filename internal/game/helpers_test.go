package game

import (
	"context"
	"time"
)

// fixedRNG replays vals in a loop.
type fixedRNG struct {
	vals []float64
	i    int
}

func (f *fixedRNG) Float64() float64 {
	if len(f.vals) == 0 {
		return 0
	}
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func constRNG(v float64) *fixedRNG {
	return &fixedRNG{vals: []float64{v}}
}

func quietTuning() Tuning {
	t := DefaultTuning()
	t.EscapeRate = 0
	return t
}

func testFish() Fish {
	return Fish{
		ID:             "perch",
		Name:           "Perch",
		Rarity:         RarityCommon,
		Size:           3,
		Strength:       3,
		Speed:          3,
		Endurance:      5,
		Elusiveness:    2,
		Aggressiveness: 2,
		SpawnWeight:    1,
		BaseWeightKg:   1.5,
		StruggleStyle:  "steady",
	}
}

type stubCatalog struct {
	pool    []Fish
	styles  map[string]StruggleStyle
	poolErr error
	panicky bool
	// heavy makes CalculateWeight panic.
	heavy bool
}

func (c *stubCatalog) AvailableFish(PoolQuery) ([]Fish, error) {
	if c.panicky {
		panic("catalog exploded")
	}
	return c.pool, c.poolErr
}

func (c *stubCatalog) SelectByWeight(pool []Fish, castType CastType, bonus float64, rng RandomSource) (Fish, error) {
	return SelectFish(pool, castType, bonus, rng)
}

func (c *stubCatalog) StruggleStyle(id string) (StruggleStyle, bool) {
	s, ok := c.styles[id]
	return s, ok
}

func (c *stubCatalog) CalculateWeight(f Fish, _ RandomSource) float64 {
	if c.heavy {
		panic("scale exploded")
	}
	return f.BaseWeightKg
}

type recordingSink struct {
	reports []CatchReport
	err     error
}

func (s *recordingSink) RecordCatch(_ context.Context, r CatchReport) error {
	s.reports = append(s.reports, r)
	return s.err
}

func countKind(notices []Notice, kind NoticeKind) int {
	n := 0
	for _, notice := range notices {
		if notice.Kind == kind {
			n++
		}
	}
	return n
}

func indexOfKind(notices []Notice, kind NoticeKind) int {
	for i, notice := range notices {
		if notice.Kind == kind {
			return i
		}
	}
	return -1
}

const (
	castMeterMid = 500 * time.Millisecond
	indicatorMid = 375 * time.Millisecond
)
