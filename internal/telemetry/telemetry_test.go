package telemetry

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/appengine-ltd/reel-it/internal/game"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	for _, endpoint := range []string{"", "  ", "off"} {
		shutdown, err := Setup(context.Background(), endpoint, "test")
		if err != nil {
			t.Fatalf("setup %q: %v", endpoint, err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("noop shutdown: %v", err)
		}
	}
}

func TestEncounterSpanRecordsOutcomes(t *testing.T) {
	ctx := context.Background()
	exp := tracetest.NewInMemoryExporter()
	tp, err := NewProvider(ctx, sdktrace.WithSyncer(exp), "test")
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	defer tp.Shutdown(ctx)

	e, err := game.NewEncounter(game.EncounterContext{
		Stats:  game.DefaultStats(),
		Lure:   game.LureSpinner,
		RNG:    game.NewSeededRNG(7),
		Tuning: game.DefaultTuning(),
		Tracer: tp.Tracer("test"),
	})
	if err != nil {
		t.Fatalf("encounter: %v", err)
	}
	if err := e.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.Advance(game.Send(game.Trigger()))
	e.Advance(game.Send(game.Drag()))
	e.Advance(game.Send(game.Drag()))
	if e.Phase() != game.PhaseIdle {
		t.Fatalf("expected the lure to fail, phase %s", e.Phase())
	}

	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "encounter" {
		t.Fatalf("expected one encounter span, got %d", len(spans))
	}
	seen := map[string]bool{}
	for _, ev := range spans[0].Events {
		seen[ev.Name] = true
	}
	if !seen[string(game.NoticeCastComplete)] || !seen[string(game.NoticeLureComplete)] || seen[string(game.NoticeReelComplete)] {
		t.Fatalf("unexpected span events %v", seen)
	}
}
