package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the repair layer settings, loaded from a YAML file.
type Config struct {
	// RepairEnabled disables the whole pipeline when false; streams
	// pass through untouched.
	RepairEnabled bool `yaml:"repair_enabled"`

	// DisableRepairLogging keeps metrics but silences repair log entries.
	DisableRepairLogging bool `yaml:"disable_repair_logging"`

	// LogDir is where the JSONL observability log is written.
	LogDir string `yaml:"log_dir"`

	// SnapshotMaxLen bounds serialized argument snapshots in log entries.
	SnapshotMaxLen int `yaml:"snapshot_max_len"`

	// ExtraAliases adds alias/canonical parameter pairs per tool, on
	// top of the builtin table. Keyed by tool name, then alias.
	ExtraAliases map[string]map[string]string `yaml:"extra_aliases"`

	// LeakMarkers overrides the control-token marker set when non-empty.
	LeakMarkers []string `yaml:"leak_markers"`
}

// GetDefaultConfig returns the defaults used when no config file exists
func GetDefaultConfig() *Config {
	return &Config{
		RepairEnabled:        true,
		DisableRepairLogging: false,
		LogDir:               "logs",
		SnapshotMaxLen:       2048,
		ExtraAliases:         make(map[string]map[string]string),
		LeakMarkers:          nil, // builtin marker set
	}
}

// LoadConfig reads the YAML config at path. A missing file yields the
// defaults; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.SnapshotMaxLen <= 0 {
		cfg.SnapshotMaxLen = 2048
	}
	if cfg.ExtraAliases == nil {
		cfg.ExtraAliases = make(map[string]map[string]string)
	}
	return cfg, nil
}
