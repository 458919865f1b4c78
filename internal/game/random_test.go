package game

import "testing"

func TestSeededRNGDeterministic(t *testing.T) {
	rngA := NewSeededRNG(12345)
	rngB := NewSeededRNG(12345)

	for i := 0; i < 20; i++ {
		gotA := rngA.Float64()
		gotB := rngB.Float64()
		if gotA != gotB {
			t.Fatalf("expected deterministic sequence, mismatch at %d: %f != %f", i, gotA, gotB)
		}
	}
}

func TestSeedWordChangesWithSalt(t *testing.T) {
	a := seedWord(99, "a")
	b := seedWord(99, "b")
	if a == b {
		t.Fatalf("expected different seed words for different salts")
	}
}

func TestBernoulliBounds(t *testing.T) {
	rng := NewSeededRNG(1)
	for i := 0; i < 100; i++ {
		if bernoulli(0, rng) {
			t.Fatalf("p=0 should never hit")
		}
		if !bernoulli(1, rng) {
			t.Fatalf("p=1 should always hit")
		}
	}
}

func TestBernoulliFrequency(t *testing.T) {
	const p = 0.3
	const n = 50000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		if bernoulli(p, rng) {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	if diff := freq - p; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq=%f not close to p=%f", freq, p)
	}
}

func TestIntnStaysInRange(t *testing.T) {
	rng := NewSeededRNG(7)
	for i := 0; i < 1000; i++ {
		if v := intn(rng, 4); v < 0 || v >= 4 {
			t.Fatalf("intn out of range: %d", v)
		}
	}
	if intn(rng, 0) != 0 {
		t.Fatalf("intn(0) should be 0")
	}
}
