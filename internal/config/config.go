package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

// Environment variables. All optional; absent means production, visible,
// cached-inspector behaviour.
const (
	EnvDev                    = "TASKDECK_DEV"
	EnvStartMinimised         = "TASKDECK_START_MINIMIZED"
	EnvForceInspectorDownload = "TASKDECK_FORCE_INSPECTOR_DOWNLOAD"
	EnvDataDir                = "TASKDECK_DATA_DIR"
	EnvUpdateURL              = "TASKDECK_UPDATE_URL"
	EnvDSN                    = "TASKDECK_DSN"
)

const defaultUpdateURL = "https://updates.taskdeck.app/stable"

// Config 主进程配置
type Config struct {
	// Dev enables the inspection tooling and the wider window.
	Dev bool `yaml:"dev"`

	// StartMinimised minimises instead of showing the window once the
	// presentation layer is ready to render.
	StartMinimised bool `yaml:"start_minimized"`

	// ForceInspectorDownload re-stages the inspector bundle even when a
	// cached copy exists.
	ForceInspectorDownload bool `yaml:"force_inspector_download"`

	// DataDir holds the database, staged updates and inspector assets.
	DataDir string `yaml:"data_dir"`

	// UpdateURL is the release feed base URL.
	UpdateURL string `yaml:"update_url"`

	// DSN overrides the default SQLite database location.
	DSN string `yaml:"dsn"`

	// InstanceID uniquely identifies this host-process run.
	InstanceID string `yaml:"-"`
}

// Load resolves configuration with precedence env var > config.yaml > default.
// A missing config file is not an error.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:   defaultDataDir(),
		UpdateURL: defaultUpdateURL,
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}

	// Optional config file in the data dir.
	path := filepath.Join(cfg.DataDir, "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		log.Printf("[Config] Loaded config file: %s", path)
	}

	// Env vars win over the file.
	if v := os.Getenv(EnvDev); v != "" {
		cfg.Dev = boolEnv(v)
	}
	if v := os.Getenv(EnvStartMinimised); v != "" {
		cfg.StartMinimised = boolEnv(v)
	}
	if v := os.Getenv(EnvForceInspectorDownload); v != "" {
		cfg.ForceInspectorDownload = boolEnv(v)
	}
	if v := os.Getenv(EnvUpdateURL); v != "" {
		cfg.UpdateURL = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		cfg.DSN = v
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", cfg.DataDir, err)
	}

	cfg.InstanceID = uuid.NewString()
	return cfg, nil
}

// WindowConfig derives the window creation parameters for the current mode.
func (c *Config) WindowConfig() domain.WindowConfig {
	wc := domain.WindowConfig{
		Width:          domain.WindowWidthProd,
		Height:         domain.WindowHeight,
		IconPath:       filepath.Join("build", "appicon.png"),
		FrameColour:    domain.RGBA{R: 27, G: 38, B: 54, A: 255},
		ContentColour:  domain.RGBA{R: 240, G: 240, B: 244, A: 255},
		StartMinimised: c.StartMinimised,
		EntryURL:       "index.html",
	}
	if c.Dev {
		wc.Width = domain.WindowWidthDev
		wc.IconPath = filepath.Join("assets", "dev", "appicon.png")
	}
	return wc
}

// DatabaseDSN returns the configured DSN, defaulting to a SQLite file under
// the data dir.
func (c *Config) DatabaseDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return filepath.Join(c.DataDir, "taskdeck.db")
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir is unavailable
		return "."
	}
	return filepath.Join(homeDir, ".config", "taskdeck")
}

func boolEnv(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		// Accept the conventional "1"/"true" forms only; anything else is off.
		return false
	}
	return b
}
