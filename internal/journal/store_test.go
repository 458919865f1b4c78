package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s, path
}

func report(id string, weight float64) game.CatchReport {
	return game.CatchReport{
		Fish:          game.Fish{ID: id, Name: id, Rarity: game.RarityRare},
		WeightKg:      weight,
		Perfect:       weight > 5,
		QTE:           game.QTEPerformance{Successes: 3, Failures: 1},
		CastType:      game.CastSpot,
		CastAccuracy:  88,
		FinalInterest: 70,
		Duration:      42 * time.Second,
		Conditions:    game.Conditions{Location: "lake", TimePeriod: "dawn", Weather: "clear"},
	}
}

func TestRecordAndListCatches(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	for _, r := range []game.CatchReport{report("perch", 0.6), report("pike", 6.2), report("perch", 0.9)} {
		if err := s.RecordCatch(ctx, r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := s.RecentCatches(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].FishID != "perch" || recent[0].WeightKg != 0.9 || recent[1].FishID != "pike" {
		t.Fatalf("unexpected recent catches %+v", recent)
	}
	got := recent[1]
	if got.Duration != 42*time.Second || got.CastType != game.CastSpot || got.Location != "lake" || !got.Perfect {
		t.Fatalf("row did not round trip: %+v", got)
	}
	if got.CaughtAt.Before(time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected catch time %s", got.CaughtAt)
	}
}

func TestPersonalBestOnlyRises(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	if _, err := s.PersonalBest(ctx, "perch"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, w := range []float64{0.7, 1.1, 0.4} {
		if err := s.RecordCatch(ctx, report("perch", w)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	best, err := s.PersonalBest(ctx, "perch")
	if err != nil {
		t.Fatalf("personal best: %v", err)
	}
	if best.WeightKg != 1.1 {
		t.Fatalf("expected 1.1 kg best, got %.2f", best.WeightKg)
	}
}

func TestTotals(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	empty, err := s.Totals(ctx)
	if err != nil || empty.Catches != 0 || empty.Heaviest != nil {
		t.Fatalf("expected empty totals, got %+v (%v)", empty, err)
	}

	boss := report("old_grandfather", 130)
	boss.Fish.IsBoss = true
	for _, r := range []game.CatchReport{report("perch", 0.6), boss, report("pike", 6)} {
		if err := s.RecordCatch(ctx, r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	totals, err := s.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Catches != 3 || totals.Species != 3 || totals.Bosses != 1 || totals.Perfect != 2 {
		t.Fatalf("unexpected totals %+v", totals)
	}
	if totals.Heaviest == nil || totals.Heaviest.FishID != "old_grandfather" {
		t.Fatalf("expected the boss as heaviest, got %+v", totals.Heaviest)
	}
}

func TestRecordCatchValidates(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	if err := s.RecordCatch(ctx, report("", 1)); err == nil {
		t.Fatalf("expected missing id error")
	}
	if err := s.RecordCatch(ctx, report("perch", 0)); err == nil {
		t.Fatalf("expected weight error")
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.RecordCatch(cancelled, report("perch", 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()
	if err := s.RecordCatch(ctx, report("carp", 4)); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = s.Close()

	again, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	totals, err := again.Totals(ctx)
	if err != nil || totals.Catches != 1 {
		t.Fatalf("expected one catch after reopen, got %+v (%v)", totals, err)
	}
}

func TestUpSection(t *testing.T) {
	got := upSection("-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;\n")
	if got != "\nCREATE TABLE a (x);\n" {
		t.Fatalf("unexpected up section %q", got)
	}
	if upSection("SELECT 1;") != "SELECT 1;" {
		t.Fatalf("files without markers run whole")
	}
}

func TestStoreImplementsRewardSink(t *testing.T) {
	s, _ := openTestStore(t)
	sink := game.RewardSink(s)
	if err := sink.RecordCatch(context.Background(), report("bluegill", 0.3)); err != nil {
		t.Fatalf("record through interface: %v", err)
	}
}
