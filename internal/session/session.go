// Package session owns one angler's outing: the current conditions and lure,
// a reusable encounter, its notice log and the catch journal. The terminal
// and window clients are thin views over it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/appengine-ltd/reel-it/internal/catalog"
	"github.com/appengine-ltd/reel-it/internal/game"
	"github.com/appengine-ltd/reel-it/internal/journal"
	"github.com/appengine-ltd/reel-it/internal/parser"
)

var ErrBusy = errors.New("finish or abort the current attempt first")

const (
	// maxFrame bounds one Advance so a stalled client cannot skip a phase.
	maxFrame = 250 * time.Millisecond
	maxLines = 200
)

// Journal is the part of the catch journal a session reads and writes.
type Journal interface {
	game.RewardSink
	Totals(ctx context.Context) (journal.Totals, error)
	RecentCatches(ctx context.Context, limit int) ([]journal.Catch, error)
}

type Config struct {
	Catalog    *catalog.Catalog
	Journal    Journal
	Base       game.StatSet
	Tuning     game.Tuning
	Conditions game.Conditions
	Lure       game.LureType
	Seed       int64
	Logger     *slog.Logger
	Tracer     trace.Tracer
}

type Line struct {
	At   time.Duration
	Kind game.NoticeKind
	Text string
}

type Session struct {
	cfg     Config
	logger  *slog.Logger
	rng     game.RandomSource
	parser  *parser.Parser
	notices *game.NoticeQueue
	enc     *game.Encounter
	stats   game.PlayerFishingStats

	clock   time.Duration
	lines   []Line
	holding bool
}

func New(cfg Config) (*Session, error) {
	if cfg.Catalog == nil {
		return nil, game.ErrNilCatalog
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Lure == "" {
		cfg.Lure = game.LureSpinner
	}
	s := &Session{
		cfg:     cfg,
		logger:  cfg.Logger,
		rng:     game.NewSeededRNG(cfg.Seed),
		parser:  parser.New(),
		notices: game.NewNoticeQueue(),
	}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuild resolves stats for the current lure and conditions and makes a
// fresh encounter around them.
func (s *Session) rebuild() error {
	area, ok := s.cfg.Catalog.Area(s.cfg.Conditions.Location)
	if !ok {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownLocation, s.cfg.Conditions.Location)
	}
	s.stats = game.ResolveFromServices(
		s.cfg.Base,
		s.cfg.Catalog.Loadout(s.cfg.Lure),
		s.cfg.Catalog.Outing(s.cfg.Conditions),
		s.logger,
	)
	enc, err := game.NewEncounter(game.EncounterContext{
		Stats:      s.stats,
		Catalog:    s.cfg.Catalog,
		Rewards:    s.cfg.Journal,
		Notifier:   s.notices,
		Conditions: s.cfg.Conditions,
		Lure:       s.cfg.Lure,
		Area:       area,
		RNG:        s.rng,
		Logger:     s.logger,
		Tuning:     s.cfg.Tuning,
		Tracer:     s.cfg.Tracer,
	})
	if err != nil {
		return err
	}
	s.enc = enc
	return nil
}

func (s *Session) View() game.EncounterView       { return s.enc.Snapshot() }
func (s *Session) Stats() game.PlayerFishingStats { return s.stats }
func (s *Session) Conditions() game.Conditions    { return s.cfg.Conditions }
func (s *Session) Lure() game.LureType            { return s.cfg.Lure }
func (s *Session) Catalog() *catalog.Catalog      { return s.cfg.Catalog }
func (s *Session) Holding() bool                  { return s.holding }
func (s *Session) Active() bool                   { return s.enc.Phase() != game.PhaseIdle }

// Tuning is the balance the encounters run with.
func (s *Session) Tuning() game.Tuning {
	if s.cfg.Tuning == (game.Tuning{}) {
		return game.DefaultTuning()
	}
	return s.cfg.Tuning
}

// Lines returns up to n of the most recent log lines, oldest first.
func (s *Session) Lines(n int) []Line {
	if n <= 0 || n > len(s.lines) {
		n = len(s.lines)
	}
	return append([]Line(nil), s.lines[len(s.lines)-n:]...)
}

func (s *Session) Cast(ctx context.Context) error {
	s.holding = false
	if err := s.enc.Start(ctx); err != nil {
		return err
	}
	s.say("", fmt.Sprintf("Attempt %d: casting with the %s.", s.enc.Attempt(), s.lureName()))
	s.drain()
	return nil
}

func (s *Session) Abort() bool {
	s.holding = false
	if err := s.enc.Abort(); err != nil {
		return false
	}
	s.drain()
	return true
}

func (s *Session) Send(in game.Input) {
	switch in.Action {
	case game.ActionHoldStart:
		s.holding = true
	case game.ActionHoldEnd:
		s.holding = false
	}
	s.enc.Advance(game.Send(in))
	s.drain()
}

// ToggleHold is for clients that only see key presses.
func (s *Session) ToggleHold() {
	if s.holding {
		s.Send(game.HoldEnd())
		return
	}
	s.Send(game.HoldStart())
}

// Advance moves virtual time forward by a frame delta.
func (s *Session) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	if d > maxFrame {
		d = maxFrame
	}
	s.clock += d
	if !s.Active() {
		return
	}
	s.enc.Advance(game.Tick(d))
	s.drain()
}

// SetLure swaps the lure between attempts.
func (s *Session) SetLure(t game.LureType) error {
	if s.Active() {
		return ErrBusy
	}
	prev := s.cfg.Lure
	s.cfg.Lure = t
	if err := s.rebuild(); err != nil {
		s.cfg.Lure = prev
		return err
	}
	s.say("", "Tied on the "+s.lureName()+".")
	return nil
}

// SetConditions moves to another spot or time between attempts.
func (s *Session) SetConditions(c game.Conditions) error {
	if s.Active() {
		return ErrBusy
	}
	prev := s.cfg.Conditions
	s.cfg.Conditions = c
	if err := s.rebuild(); err != nil {
		s.cfg.Conditions = prev
		return err
	}
	s.say("", fmt.Sprintf("Now fishing the %s (%s, %s).", c.Location, c.TimePeriod, c.Weather))
	return nil
}

func (s *Session) Totals(ctx context.Context) (journal.Totals, bool) {
	if s.cfg.Journal == nil {
		return journal.Totals{}, false
	}
	t, err := s.cfg.Journal.Totals(ctx)
	if err != nil {
		s.logger.Warn("journal totals failed", "error", err)
		return journal.Totals{}, false
	}
	return t, true
}

func (s *Session) RecentCatches(ctx context.Context, n int) []journal.Catch {
	if s.cfg.Journal == nil {
		return nil
	}
	out, err := s.cfg.Journal.RecentCatches(ctx, n)
	if err != nil {
		s.logger.Warn("journal recent catches failed", "error", err)
		return nil
	}
	return out
}

func (s *Session) lureName() string {
	if l, ok := s.cfg.Catalog.Lure(s.cfg.Lure); ok && l.Name != "" {
		return l.Name
	}
	return strings.ReplaceAll(string(s.cfg.Lure), "_", " ")
}

func (s *Session) drain() {
	for _, n := range s.notices.Drain() {
		if text := Describe(n); text != "" {
			s.say(n.Kind, text)
		}
		if n.Kind == game.NoticeReelComplete || (n.Kind == game.NoticeLureComplete && !n.Success) {
			s.holding = false
		}
	}
}

func (s *Session) say(kind game.NoticeKind, text string) {
	s.lines = append(s.lines, Line{At: s.clock, Kind: kind, Text: text})
	if len(s.lines) > maxLines {
		s.lines = append([]Line(nil), s.lines[len(s.lines)-maxLines:]...)
	}
}
