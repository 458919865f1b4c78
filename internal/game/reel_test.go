package game

import (
	"math"
	"testing"
	"time"
)

func newTestReel(fish Fish, tuning Tuning, rng RandomSource) (*ReelChallenge, *[]ReelOutcome) {
	var outcomes []ReelOutcome
	r := NewReelChallenge(DefaultStats(), fish, StruggleStyle{}, ChallengeOptions{Tuning: tuning, RNG: rng})
	r.OnComplete(func(o ReelOutcome) { outcomes = append(outcomes, o) })
	r.Start()
	return r, &outcomes
}

func TestFishStamina(t *testing.T) {
	fish := testFish()
	if got := FishStamina(fish); got != 125 {
		t.Fatalf("expected 50 + 5*15 = 125, got %.2f", got)
	}
	fish.IsBoss = true
	if got := FishStamina(fish); got != 425 {
		t.Fatalf("expected boss stamina 425, got %.2f", got)
	}
}

func TestReelResourcesStayClamped(t *testing.T) {
	inputs := []Input{Trigger(), HoldStart(), HoldEnd(), Press(DirUp), Press(DirLeft), Drag()}
	for seed := int64(0); seed < 40; seed++ {
		rng := NewSeededRNG(seed)
		fish := testFish()
		fish.Elusiveness = float64(1 + seed%10)
		fish.Aggressiveness = float64(1 + (seed*3)%10)
		fish.IsBoss = seed%4 == 0
		if fish.IsBoss {
			fish.BossClass = []BossClass{BossWhale, BossKraken, BossLeviathan}[seed%3]
		}
		r, outcomes := newTestReel(fish, DefaultTuning(), rng)
		for step := 0; step < 3000 && len(*outcomes) == 0; step++ {
			r.Advance(Tick(uniformDuration(rng, 0, 300*time.Millisecond)))
			if rng.Float64() < 0.3 {
				r.Advance(Send(inputs[intn(rng, len(inputs))]))
			}
			v := r.View()
			for name, val := range map[string]float64{"tension": v.Tension, "line": v.Line, "progress": v.Progress} {
				if val < 0 || val > 100 {
					t.Fatalf("seed %d: %s %.3f out of range", seed, name, val)
				}
			}
			if v.Stamina < 0 || v.Stamina > v.MaxStamina {
				t.Fatalf("seed %d: stamina %.3f out of [0,%.0f]", seed, v.Stamina, v.MaxStamina)
			}
		}
		if len(*outcomes) > 1 {
			t.Fatalf("seed %d: expected at most one outcome, got %d", seed, len(*outcomes))
		}
	}
}

func TestLineBreakTakesPriorityOverCatch(t *testing.T) {
	r, outcomes := newTestReel(testFish(), quietTuning(), constRNG(0.9))
	r.tension = 100
	r.line = 0.1
	r.stamina = 0.01

	r.Advance(Tick(100 * time.Millisecond))

	if len(*outcomes) != 1 {
		t.Fatalf("expected terminal outcome")
	}
	out := (*outcomes)[0]
	if out.Success || out.FailureReason != FailureLineBreak {
		t.Fatalf("expected line_break, got %+v", out)
	}
	if r.stamina > 0 {
		t.Fatalf("test setup should exhaust stamina in the same tick")
	}
}

func TestStaminaExhaustionCatches(t *testing.T) {
	r, outcomes := newTestReel(testFish(), quietTuning(), constRNG(0.9))
	r.stamina = 0.01

	r.Advance(Tick(100 * time.Millisecond))

	if len(*outcomes) != 1 || !(*outcomes)[0].Success {
		t.Fatalf("expected catch, got %+v", *outcomes)
	}
	if (*outcomes)[0].Stats.LineIntegrity <= 0 {
		t.Fatalf("line should be intact")
	}
}

func TestQTEFailuresDriveLineBreak(t *testing.T) {
	fish := testFish()
	fish.Elusiveness = 8
	r, outcomes := newTestReel(fish, quietTuning(), NewSeededRNG(21))
	if r.breakAt != 90 {
		t.Fatalf("expected break threshold 90, got %.2f", r.breakAt)
	}

	for i := 0; i < 3; i++ {
		if !r.startQTE(QTETiming) {
			t.Fatalf("qte %d should start", i)
		}
		r.Advance(Send(Trigger()))
	}
	if r.failures != 3 || r.successes != 0 {
		t.Fatalf("expected 3 failures, got %d/%d", r.failures, r.successes)
	}
	if r.tension != 95 {
		t.Fatalf("expected tension 95, got %.2f", r.tension)
	}

	lastTension := r.tension
	for tick := 0; tick < 200 && len(*outcomes) == 0; tick++ {
		r.Advance(Tick(100 * time.Millisecond))
		if len(*outcomes) == 0 && r.tension < lastTension && !r.struggle.active {
			t.Fatalf("tension should trend upward above the band, %.2f -> %.2f", lastTension, r.tension)
		}
		lastTension = r.tension
	}
	if len(*outcomes) != 1 {
		t.Fatalf("expected the line to break within 200 ticks")
	}
	out := (*outcomes)[0]
	if out.Success || out.FailureReason != FailureLineBreak || out.Stats.LineIntegrity != 0 {
		t.Fatalf("expected line_break, got %+v", out)
	}
}

func TestHoldQTEInsideReel(t *testing.T) {
	tests := []struct {
		name    string
		held    time.Duration
		success bool
	}{
		{"exactly 1500ms", 1500 * time.Millisecond, true},
		{"1499ms", 1499 * time.Millisecond, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestReel(testFish(), quietTuning(), NewSeededRNG(2))
			r.startQTE(QTEHold)
			r.Advance(Send(HoldStart()))
			r.Advance(Tick(500 * time.Millisecond))
			r.Advance(Send(HoldStart()))
			r.Advance(Tick(tc.held - 500*time.Millisecond))
			r.Advance(Send(HoldEnd()))
			if tc.success && r.successes != 1 {
				t.Fatalf("expected success, got %d/%d", r.successes, r.failures)
			}
			if !tc.success && r.failures != 1 {
				t.Fatalf("expected failure, got %d/%d", r.successes, r.failures)
			}
			if r.qte != nil {
				t.Fatalf("qte should be cleared")
			}
		})
	}
}

func TestOneQTEAtATimeAndCap(t *testing.T) {
	r, _ := newTestReel(testFish(), quietTuning(), NewSeededRNG(4))
	if r.qteCap != 2 {
		t.Fatalf("expected cap 2 for difficulty 1, got %d", r.qteCap)
	}
	if !r.startQTE(QTETap) {
		t.Fatalf("first qte should start")
	}
	if r.startQTE(QTETap) {
		t.Fatalf("second qte must not start while one is active")
	}
	r.Advance(Tick(r.qte.Limit()))
	if r.failures != 1 {
		t.Fatalf("expected timeout failure")
	}
	if !r.startQTE(QTETap) {
		t.Fatalf("second qte should start after the first resolved")
	}
	r.expireQTE()
	if r.startQTE(QTETap) {
		t.Fatalf("cap reached, no more qtes")
	}
}

func TestQTEOutcomeAdjustsTension(t *testing.T) {
	r, _ := newTestReel(testFish(), quietTuning(), NewSeededRNG(4))
	r.tension = 50
	r.startQTE(QTETap)
	for i := 0; i < 3; i++ {
		r.Advance(Send(Trigger()))
	}
	if r.tension != 40 || r.successes != 1 {
		t.Fatalf("expected tension 40 after success, got %.2f", r.tension)
	}
}

func TestCriticalQTEDrainsStamina(t *testing.T) {
	stats := DefaultStats()
	stats.CriticalChance = 100
	r := NewReelChallenge(stats, testFish(), StruggleStyle{}, ChallengeOptions{Tuning: quietTuning(), RNG: NewSeededRNG(9)})
	r.Start()
	r.startQTE(QTETap)
	for i := 0; i < 3; i++ {
		r.Advance(Send(Trigger()))
	}
	if want := 125 - 12.5; math.Abs(r.stamina-want) > 1e-9 {
		t.Fatalf("expected critical drain to %.2f, got %.2f", want, r.stamina)
	}
}

func TestReelCompletionIsIdempotent(t *testing.T) {
	r, outcomes := newTestReel(testFish(), quietTuning(), NewSeededRNG(8))
	r.startQTE(QTETap)
	r.stamina = 0
	r.checkTerminal(false)
	r.finish(false, FailureLineBreak)
	r.expireQTE()
	r.Advance(Tick(10 * time.Second))
	r.Advance(Send(Trigger()))

	if len(*outcomes) != 1 || !(*outcomes)[0].Success {
		t.Fatalf("expected a single successful completion, got %+v", *outcomes)
	}
}

func TestWhaleProgressDoesNotCompound(t *testing.T) {
	whale := testFish()
	whale.IsBoss = true
	whale.BossClass = BossWhale

	r, _ := newTestReel(whale, quietTuning(), constRNG(0.99))
	perTick := r.stats.ReelSpeed * 0.1 * 1.5 * 0.5
	for i := 1; i <= 10; i++ {
		r.Advance(Tick(100 * time.Millisecond))
		if math.Abs(r.progress-perTick*float64(i)) > 1e-9 {
			t.Fatalf("tick %d: expected progress %.3f, got %.3f", i, perTick*float64(i), r.progress)
		}
	}
}

func TestBossPhaseTiers(t *testing.T) {
	tests := []struct {
		pct  float64
		want int
	}{
		{100, 1}, {76, 1}, {75, 2}, {51, 2}, {50, 3}, {26, 3}, {25, 4}, {0, 4},
	}
	for _, tc := range tests {
		if got := BossPhase(tc.pct); got != tc.want {
			t.Fatalf("%.0f%%: expected phase %d, got %d", tc.pct, tc.want, got)
		}
	}
}

func TestQTECap(t *testing.T) {
	tests := []struct {
		name        string
		elusiveness float64
		boss        bool
		want        int
	}{
		{"easy", 2, false, 2},
		{"medium", 5, false, 3},
		{"hard", 9, false, 4},
		{"boss low", 1, true, 8},
		{"boss mid", 6, true, 11},
		{"boss max", 10, true, 13},
	}
	for _, tc := range tests {
		f := testFish()
		f.Elusiveness = tc.elusiveness
		f.IsBoss = tc.boss
		if got := QTECap(f); got != tc.want {
			t.Fatalf("%s: expected cap %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestSpecialAttacks(t *testing.T) {
	boss := testFish()
	boss.IsBoss = true
	boss.BossClass = BossWhale
	boss.Endurance = 10

	r, _ := newTestReel(boss, quietTuning(), constRNG(0.0))
	r.tension = 40
	r.specialAttack()
	if r.tension != 60 {
		t.Fatalf("expected tail slam to add 20 tension, got %.2f", r.tension)
	}

	r2, _ := newTestReel(boss, quietTuning(), constRNG(0.99))
	r2.specialAttack()
	if r2.line != 90 {
		t.Fatalf("expected line wrap to cost 10 integrity, got %.2f", r2.line)
	}

	kraken := boss
	kraken.BossClass = BossKraken
	r3, _ := newTestReel(kraken, quietTuning(), constRNG(0.99))
	r3.specialAttack()
	if r3.qte == nil {
		t.Fatalf("expected frenzy to force a qte")
	}
	before := r3.tension
	r3.specialAttack()
	if r3.tension != before+10 {
		t.Fatalf("expected frenzy fallback to add 10 tension, got %.2f -> %.2f", before, r3.tension)
	}
}

func TestBossPhaseFourDoublesDrift(t *testing.T) {
	boss := testFish()
	boss.IsBoss = true
	boss.BossClass = BossLeviathan
	r, _ := newTestReel(boss, quietTuning(), constRNG(0.99))
	r.stamina = r.maxStamina * 0.2
	r.updateBossPhase()
	r.tension = 80
	r.Advance(Tick(100 * time.Millisecond))
	if r.bossPhase != 4 {
		t.Fatalf("expected phase 4, got %d", r.bossPhase)
	}
	if math.Abs(r.tension-81) > 1e-9 {
		t.Fatalf("expected doubled drift to reach 81, got %.3f", r.tension)
	}
}

func TestStruggleIntensity(t *testing.T) {
	f := testFish()
	f.Size = 6
	f.Aggressiveness = 8
	if got := StruggleIntensity(f, StruggleSurge, 0); math.Abs(got-1.05) > 1e-9 {
		t.Fatalf("expected 7*1.5*0.1 = 1.05, got %.4f", got)
	}
	style := StruggleStyle{Patterns: []StrugglePattern{StruggleDive, "nonsense"}}
	if got := patternsFor(style); len(got) != 1 || got[0] != StruggleDive {
		t.Fatalf("expected style to restrict patterns, got %v", got)
	}
	if got := patternsFor(StruggleStyle{}); len(got) != 10 {
		t.Fatalf("expected all 10 patterns, got %d", len(got))
	}
}
