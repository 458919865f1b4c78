package game

import (
	"math"
	"testing"
	"time"
)

func TestClampFloat(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: -5, want: 0},
		{in: 42, want: 42},
		{in: 180, want: 100},
		{in: math.NaN(), want: 0},
		{in: math.Inf(1), want: 100},
	}
	for _, tc := range tests {
		if got := clampPercent(tc.in); got != tc.want {
			t.Fatalf("clampPercent(%v)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestTriangleWave(t *testing.T) {
	period := 2 * time.Second
	tests := []struct {
		at   time.Duration
		want float64
	}{
		{at: 0, want: 0},
		{at: 500 * time.Millisecond, want: 50},
		{at: time.Second, want: 100},
		{at: 1500 * time.Millisecond, want: 50},
		{at: 2 * time.Second, want: 0},
		{at: 2500 * time.Millisecond, want: 50},
	}
	for _, tc := range tests {
		got := triangleWave(tc.at, period)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("triangleWave(%v)=%v want=%v", tc.at, got, tc.want)
		}
	}
}
