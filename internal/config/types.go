package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Logging LoggingConfig `json:"logging"`
	Store   StoreConfig   `json:"store"`
	Cron    CronConfig    `json:"cron"`
	Blocker BlockerConfig `json:"blocker"`
	Watch   WatchConfig   `json:"watch,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StoreConfig controls schedule persistence.
//
// Example:
//
//	"store": { "driver": "file", "path": "./schedules.json" }
type StoreConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// CronConfig controls how actuation entries reach the external job runner.
//
// Transport values:
//   - "crontab": the invoking user's crontab via crontab(1) (default)
//   - "file": a flat file (containers, tests)
//
// ExecPath is the binary the installed cron lines invoke; empty means the
// running executable's own path.
type CronConfig struct {
	Transport string `json:"transport"`
	File      string `json:"file,omitempty"`
	ExecPath  string `json:"exec_path,omitempty"`
}

// BlockerConfig configures the actuation adapter. Command templates may use
// {name} and {devices} placeholders.
type BlockerConfig struct {
	EnableCmd    string `json:"enable_cmd"`
	DisableCmd   string `json:"disable_cmd"`
	AssociateCmd string `json:"associate_cmd"`
	ReloadCmd    string `json:"reload_cmd,omitempty"`
	SystemdUnit  string `json:"systemd_unit,omitempty"`
	Timeout      string `json:"timeout,omitempty"` // Go duration string
}

// WatchConfig controls the optional resident watch mode.
//
// MinResyncInterval caps how often file-change events may trigger a full
// replan (Go duration string, default "2s").
type WatchConfig struct {
	MinResyncInterval string `json:"min_resync_interval,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
		Store:   StoreConfig{Driver: "file", Path: "./schedules.json"},
		Cron:    CronConfig{Transport: "crontab"},
		Blocker: BlockerConfig{
			EnableCmd:    "pihole --group-enable {name}",
			DisableCmd:   "pihole --group-disable {name}",
			AssociateCmd: "pihole --group-assign {name} {devices}",
			ReloadCmd:    "pihole restartdns reload-lists",
		},
	}
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	switch d := strings.ToLower(strings.TrimSpace(c.Store.Driver)); d {
	case "", "file", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}
	switch tr := strings.ToLower(strings.TrimSpace(c.Cron.Transport)); tr {
	case "", "crontab":
	case "file":
		if strings.TrimSpace(c.Cron.File) == "" {
			return fmt.Errorf("cron.file is required for the file transport")
		}
	default:
		return fmt.Errorf("cron.transport: unknown transport %q", c.Cron.Transport)
	}
	if _, err := ParseDurationField("blocker.timeout", c.Blocker.Timeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("store.busy_timeout", c.Store.BusyTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("watch.min_resync_interval", c.Watch.MinResyncInterval); err != nil {
		return err
	}
	return nil
}
