// Package journal keeps a SQLite record of landed fish and personal bests.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/appengine-ltd/reel-it/internal/game"
	"github.com/appengine-ltd/reel-it/internal/journal/migrations"
)

var ErrNotFound = errors.New("journal record not found")

// Catch is one journal row.
type Catch struct {
	ID            int64
	FishID        string
	FishName      string
	Rarity        game.Rarity
	Boss          bool
	WeightKg      float64
	Perfect       bool
	QTESuccesses  int
	QTEFailures   int
	CastType      game.CastType
	CastAccuracy  float64
	FinalInterest float64
	Duration      time.Duration
	Location      string
	TimePeriod    string
	Weather       string
	CaughtAt      time.Time
}

type Totals struct {
	Catches       int
	Perfect       int
	Species       int
	Bosses        int
	TotalWeightKg float64
	Heaviest      *Catch
}

// Store persists catches in SQLite. It implements game.RewardSink.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ game.RewardSink = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the journal at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordCatch stores the catch and raises the species' personal best when
// the new weight beats it.
func (s *Store) RecordCatch(ctx context.Context, report game.CatchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("journal is not configured")
	}
	fishID := strings.TrimSpace(report.Fish.ID)
	if fishID == "" {
		return fmt.Errorf("fish id is required")
	}
	if math.IsNaN(report.WeightKg) || math.IsInf(report.WeightKg, 0) || report.WeightKg <= 0 {
		return fmt.Errorf("weight must be a positive number, got %v", report.WeightKg)
	}
	caughtAt := toMillis(s.now())

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record catch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO catches (
		   fish_id, fish_name, rarity, boss, weight_kg, perfect,
		   qte_successes, qte_failures, cast_type, cast_accuracy, final_interest,
		   duration_ms, location, time_period, weather, caught_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fishID,
		report.Fish.Name,
		int(report.Fish.Rarity),
		boolInt(report.Fish.IsBoss),
		report.WeightKg,
		boolInt(report.Perfect),
		report.QTE.Successes,
		report.QTE.Failures,
		string(report.CastType),
		report.CastAccuracy,
		report.FinalInterest,
		report.Duration.Milliseconds(),
		report.Conditions.Location,
		report.Conditions.TimePeriod,
		report.Conditions.Weather,
		caughtAt,
	)
	if err != nil {
		return fmt.Errorf("insert catch: %w", err)
	}
	catchID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert catch: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO personal_bests (fish_id, catch_id, weight_kg, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (fish_id) DO UPDATE SET
		   catch_id = excluded.catch_id,
		   weight_kg = excluded.weight_kg,
		   updated_at = excluded.updated_at
		 WHERE excluded.weight_kg > personal_bests.weight_kg`,
		fishID, catchID, report.WeightKg, caughtAt,
	); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("personal best for %s rejected: %w", fishID, err)
		}
		return fmt.Errorf("update personal best: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catch: %w", err)
	}
	return nil
}

const catchColumns = `c.id, c.fish_id, c.fish_name, c.rarity, c.boss, c.weight_kg, c.perfect,
		        c.qte_successes, c.qte_failures, c.cast_type, c.cast_accuracy, c.final_interest,
		        c.duration_ms, c.location, c.time_period, c.weather, c.caught_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatch(row rowScanner) (Catch, error) {
	var (
		c          Catch
		rarity     int
		boss       int
		perfect    int
		castType   string
		durationMS int64
		caughtAt   int64
	)
	if err := row.Scan(
		&c.ID, &c.FishID, &c.FishName, &rarity, &boss, &c.WeightKg, &perfect,
		&c.QTESuccesses, &c.QTEFailures, &castType, &c.CastAccuracy, &c.FinalInterest,
		&durationMS, &c.Location, &c.TimePeriod, &c.Weather, &caughtAt,
	); err != nil {
		return Catch{}, err
	}
	c.Rarity = game.Rarity(rarity)
	c.Boss = boss != 0
	c.Perfect = perfect != 0
	c.CastType = game.CastType(castType)
	c.Duration = time.Duration(durationMS) * time.Millisecond
	c.CaughtAt = fromMillis(caughtAt)
	return c, nil
}

// RecentCatches returns up to limit catches, newest first.
func (s *Store) RecentCatches(ctx context.Context, limit int) ([]Catch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("journal is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+catchColumns+`
		   FROM catches c
		  ORDER BY c.caught_at DESC, c.id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list catches: %w", err)
	}
	defer rows.Close()

	out := make([]Catch, 0, limit)
	for rows.Next() {
		c, err := scanCatch(rows)
		if err != nil {
			return nil, fmt.Errorf("list catches: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catches: %w", err)
	}
	return out, nil
}

// PersonalBest returns the heaviest recorded catch of one species.
func (s *Store) PersonalBest(ctx context.Context, fishID string) (Catch, error) {
	if err := ctx.Err(); err != nil {
		return Catch{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Catch{}, fmt.Errorf("journal is not configured")
	}
	fishID = strings.TrimSpace(fishID)
	if fishID == "" {
		return Catch{}, fmt.Errorf("fish id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+catchColumns+`
		   FROM personal_bests pb
		   JOIN catches c ON c.id = pb.catch_id
		  WHERE pb.fish_id = ?`,
		fishID,
	)
	c, err := scanCatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Catch{}, ErrNotFound
		}
		return Catch{}, fmt.Errorf("get personal best: %w", err)
	}
	return c, nil
}

// Totals summarises the whole journal.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	if err := ctx.Err(); err != nil {
		return Totals{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Totals{}, fmt.Errorf("journal is not configured")
	}
	var t Totals
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(perfect), 0),
		        COUNT(DISTINCT fish_id),
		        COALESCE(SUM(boss), 0),
		        COALESCE(SUM(weight_kg), 0)
		   FROM catches`,
	).Scan(&t.Catches, &t.Perfect, &t.Species, &t.Bosses, &t.TotalWeightKg)
	if err != nil {
		return Totals{}, fmt.Errorf("journal totals: %w", err)
	}
	if t.Catches == 0 {
		return t, nil
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+catchColumns+`
		   FROM catches c
		  ORDER BY c.weight_kg DESC, c.id ASC
		  LIMIT 1`,
	)
	heaviest, err := scanCatch(row)
	if err != nil {
		return Totals{}, fmt.Errorf("journal heaviest: %w", err)
	}
	t.Heaviest = &heaviest
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isConstraintViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}
