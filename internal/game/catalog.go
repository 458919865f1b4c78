package game

import (
	"context"
	"time"
)

// PoolQuery narrows the catalog to what can bite right now.
type PoolQuery struct {
	Location    string
	TimePeriod  string
	Weather     string
	PlayerLevel int
}

// StruggleStyle restricts which burst patterns a fish uses. An empty pattern
// list allows all of them.
type StruggleStyle struct {
	ID         string            `yaml:"id"`
	Patterns   []StrugglePattern `yaml:"patterns"`
	Multiplier float64           `yaml:"multiplier"`
}

type FishCatalog interface {
	AvailableFish(q PoolQuery) ([]Fish, error)
	SelectByWeight(pool []Fish, castType CastType, rarityBonus float64, rng RandomSource) (Fish, error)
	StruggleStyle(id string) (StruggleStyle, bool)
	CalculateWeight(f Fish, rng RandomSource) float64
}

type EquipmentService interface {
	EquippedItems() map[string][]Item
	SetBonuses() []SetBonus
	Specialization() StatSet
}

type EnvironmentService interface {
	TimePeriod() Modifiers
	Weather() Modifiers
	Location() Modifiers
}

type QTEPerformance struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// CatchReport is everything the reward side needs; the encounter never
// mutates progression itself.
type CatchReport struct {
	Fish          Fish
	WeightKg      float64
	Perfect       bool
	QTE           QTEPerformance
	CastType      CastType
	CastAccuracy  float64
	FinalInterest float64
	Duration      time.Duration
	Conditions    Conditions
}

type RewardSink interface {
	RecordCatch(ctx context.Context, report CatchReport) error
}

type Conditions struct {
	Location    string
	TimePeriod  string
	Weather     string
	PlayerLevel int
}

func (c Conditions) query() PoolQuery {
	return PoolQuery{
		Location:    c.Location,
		TimePeriod:  c.TimePeriod,
		Weather:     c.Weather,
		PlayerLevel: c.PlayerLevel,
	}
}

// WaterArea bounds the cast target.
type WaterArea struct {
	Name       string
	LengthM    float64
	HasHotspot bool
}

func DefaultWaterArea() WaterArea {
	return WaterArea{Name: "shore", LengthM: 60, HasHotspot: true}
}
