package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataPath       = "data/tally.txt"
	DefaultDBPath         = "data/tally.db"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	HistoryUp   string `toml:"history_up"`
	HistoryDown string `toml:"history_down"`
}

type Config struct {
	DataPath  string `toml:"data_path"`
	Backend   string `toml:"backend"`
	DBPath    string `toml:"db_path"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	Keys      Keymap `toml:"keys"`
}

// ResolveConfigPath prefers flagPath, then TALLY_CONFIG, then config.toml in
// the working directory.
func ResolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv("TALLY_CONFIG"); p != "" {
		return p
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Environment overrides are applied last.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	fillDefaults(&cfg)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Backend {
	case "text", "sqlite":
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want text or sqlite)", c.Backend)
	}
}

// applyEnv loads an optional .env file, then lets TALLY_* variables win.
func applyEnv(cfg *Config) {
	_ = godotenv.Load(".env")

	cfg.DataPath = getEnv("TALLY_DATA_PATH", cfg.DataPath)
	cfg.Backend = getEnv("TALLY_BACKEND", cfg.Backend)
	cfg.DBPath = getEnv("TALLY_DB_PATH", cfg.DBPath)
	cfg.LogLevel = getEnv("TALLY_LOG_LEVEL", cfg.LogLevel)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func fillDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.DataPath == "" {
		cfg.DataPath = def.DataPath
	}
	if cfg.Backend == "" {
		cfg.Backend = def.Backend
	}
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.Keys.Quit == "" {
		cfg.Keys.Quit = def.Keys.Quit
	}
	if cfg.Keys.Confirm == "" {
		cfg.Keys.Confirm = def.Keys.Confirm
	}
	if cfg.Keys.Cancel == "" {
		cfg.Keys.Cancel = def.Keys.Cancel
	}
	if cfg.Keys.HistoryUp == "" {
		cfg.Keys.HistoryUp = def.Keys.HistoryUp
	}
	if cfg.Keys.HistoryDown == "" {
		cfg.Keys.HistoryDown = def.Keys.HistoryDown
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DataPath:  DefaultDataPath,
		Backend:   "text",
		DBPath:    DefaultDBPath,
		LogLevel:  "warn",
		LogFormat: "text",
		Keys: Keymap{
			Quit:        "ctrl+c",
			Confirm:     "enter",
			Cancel:      "esc",
			HistoryUp:   "up",
			HistoryDown: "down",
		},
	}
}
