package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // optional, rotated via lumberjack
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// ColumnsConfig maps the task fields to spreadsheet header names.
type ColumnsConfig struct {
	Topic     string `yaml:"topic"`
	Status    string `yaml:"status"`
	StartDate string `yaml:"startDate"`
	EndDate   string `yaml:"endDate"`
	Privote   string `yaml:"privote"`
}

type DataConfig struct {
	Path            string        `yaml:"path"`
	Sheet           string        `yaml:"sheet"` // xlsx only; empty = first sheet
	Columns         ColumnsConfig `yaml:"columns"`
	RequiredColumns []string      `yaml:"requiredColumns"`
	ExcludeColumns  []string      `yaml:"excludeColumns"`
	DayFirst        bool          `yaml:"dayFirst"` // 03/04/2025 is 3 April
}

type StatusConfig struct {
	Complete       string            `yaml:"complete"`
	TimelineMarker string            `yaml:"timelineMarker"`
	Known          []string          `yaml:"known"`
	Unknown        string            `yaml:"unknown"` // "distinct" | "merge"
	MergeInto      string            `yaml:"mergeInto"`
	Colors         map[string]string `yaml:"colors"`
}

type ProjectConfig struct {
	Name        string `yaml:"name"`
	StartDate   string `yaml:"startDate"`
	EndDate     string `yaml:"endDate"`
	Description string `yaml:"description"` // markdown
	Image       string `yaml:"image"`       // path below ui.assetsDir
}

type UIConfig struct {
	Title      string `yaml:"title"`
	Intro      string `yaml:"intro"`
	AssetsDir  string `yaml:"assetsDir"`
	DateFormat string `yaml:"dateFormat"`
}

type Config struct {
	Listen  string        `yaml:"listen"`
	Logging LoggingConfig `yaml:"logging"`
	Data    DataConfig    `yaml:"data"`
	Status  StatusConfig  `yaml:"status"`
	Project ProjectConfig `yaml:"project"`
	UI      UIConfig      `yaml:"ui"`
}

const (
	UnknownDistinct = "distinct"
	UnknownMerge    = "merge"
)

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
		Data: DataConfig{
			Path: "tasks.xlsx",
			Columns: ColumnsConfig{
				Topic:     "Topic",
				Status:    "Status",
				StartDate: "Start Date",
				EndDate:   "End Date",
				Privote:   "Privote",
			},
			ExcludeColumns: []string{"Baseline Start", "Baseline Finish", "Variance"},
		},
		Status: StatusConfig{
			Complete:       "Complete",
			TimelineMarker: "o",
			Known:          []string{"Complete", "In Progress", "Not Started"},
			Unknown:        UnknownDistinct,
			MergeInto:      "Not Started",
			Colors: map[string]string{
				"Complete":    "#A5D6A7",
				"In Progress": "#FFF59D",
				"Not Started": "#FFABAB",
			},
		},
		Project: ProjectConfig{Name: "Project"},
		UI: UIConfig{
			Title:      "Project Dashboard",
			Intro:      "Welcome to my project.",
			AssetsDir:  "assets",
			DateFormat: "02/01/2006",
		},
	}
}

// Load reads an optional YAML file. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(cfg)
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	// relative data paths resolve against the config file
	if cfg.Data.Path != "" && !filepath.IsAbs(cfg.Data.Path) {
		if _, err := os.Stat(cfg.Data.Path); err != nil {
			cand := filepath.Join(filepath.Dir(path), cfg.Data.Path)
			if _, err := os.Stat(cand); err == nil {
				cfg.Data.Path = cand
			}
		}
	}
	return cfg, cfg.Validate()
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STATUSBOARD_DATA"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("STATUSBOARD_SHEET"); v != "" {
		cfg.Data.Sheet = v
	}
	if v := os.Getenv("STATUSBOARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STATUSBOARD_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("STATUSBOARD_DAY_FIRST"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Data.DayFirst = b
		}
	}
	if v := os.Getenv("STATUSBOARD_UNKNOWN_STATUS"); v != "" {
		cfg.Status.Unknown = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("STATUSBOARD_LOG_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Logging.MaxSizeMB = n
		}
	}
}

// Validate checks the settings that would otherwise only fail late.
func (c *Config) Validate() error {
	switch c.Status.Unknown {
	case "", UnknownDistinct:
		c.Status.Unknown = UnknownDistinct
	case UnknownMerge:
		if c.Status.MergeInto == "" {
			return errors.New("status.mergeInto must be set when status.unknown is \"merge\"")
		}
	default:
		return errors.New("status.unknown must be \"distinct\" or \"merge\", got " + strconv.Quote(c.Status.Unknown))
	}
	if strings.TrimSpace(c.Data.Columns.Status) == "" {
		return errors.New("data.columns.status must not be empty")
	}
	if c.Status.Complete == "" {
		return errors.New("status.complete must not be empty")
	}
	return nil
}

// ColorFor returns the configured color for a status, or "" if none is set.
func (c *Config) ColorFor(status string) string {
	return c.Status.Colors[status]
}
