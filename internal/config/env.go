// Package config loads runtime settings from the environment and balance
// overrides from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/appengine-ltd/reel-it/internal/game"
)

// Env is everything a command reads from REELIT_* variables. Flags layered
// on top by the commands win over these.
type Env struct {
	Seed         int64  `env:"REELIT_SEED"`
	DataDir      string `env:"REELIT_DATA_DIR"`
	TuningFile   string `env:"REELIT_TUNING_FILE"`
	CatalogFile  string `env:"REELIT_CATALOG_FILE"`
	JournalPath  string `env:"REELIT_JOURNAL_PATH"`
	NoJournal    bool   `env:"REELIT_NO_JOURNAL"`
	LogLevel     string `env:"REELIT_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"REELIT_LOG_FORMAT" envDefault:"text"`
	OTelEndpoint string `env:"REELIT_OTEL_ENDPOINT"`
	Lure         string `env:"REELIT_LURE" envDefault:"spinner"`
	Location     string `env:"REELIT_LOCATION" envDefault:"lake"`
	TimePeriod   string `env:"REELIT_TIME_PERIOD" envDefault:"day"`
	Weather      string `env:"REELIT_WEATHER" envDefault:"clear"`
	PlayerLevel  int    `env:"REELIT_PLAYER_LEVEL" envDefault:"1"`
}

// ParseEnv loads configuration from the process environment.
func ParseEnv() (Env, error) {
	cfg, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseEnvFrom is ParseEnv over an explicit variable set.
func ParseEnvFrom(vars map[string]string) (Env, error) {
	var cfg Env
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ResolveDataDir returns DataDir, defaulting to a reel-it folder under the
// user config directory.
func (e Env) ResolveDataDir() (string, error) {
	if e.DataDir != "" {
		return e.DataDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "reel-it"), nil
}

// JournalFile is where the catch journal lives, or "" when disabled.
func (e Env) JournalFile() (string, error) {
	if e.NoJournal {
		return "", nil
	}
	if e.JournalPath != "" {
		return e.JournalPath, nil
	}
	dir, err := e.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}

func (e Env) Conditions() game.Conditions {
	return game.Conditions{
		Location:    e.Location,
		TimePeriod:  e.TimePeriod,
		Weather:     e.Weather,
		PlayerLevel: e.PlayerLevel,
	}
}

func (e Env) LureType() (game.LureType, error) {
	return game.ParseLureType(e.Lure)
}
