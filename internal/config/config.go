// Package config provides the YAML-based application configuration,
// including first-run creation of a default config file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultScheduleURL is the MCH2022 schedule export this tool was built
// around; any pretalx/frab-style export with the same shape works.
const DefaultScheduleURL = "https://program.mch2022.org/mch2021-2020/schedule/export/schedule.json"

// Config is the top-level application configuration.
type Config struct {
	// ScheduleURL is the schedule export endpoint.
	ScheduleURL string `yaml:"schedule_url"`

	// CacheDir holds the fetch cache and retained diagnostic documents.
	CacheDir string `yaml:"cache_dir"`

	// Output is the path of the converted document.
	Output string `yaml:"output"`

	// Format selects the output: "markdown", "html", "epub" or "ics".
	Format string `yaml:"format"`

	// RenderMode selects the document layout: "full" (three cross-linked
	// sections) or "inline" (single chronological section).
	RenderMode string `yaml:"render_mode"`

	// KeepIntermediate retains the intermediate markdown file even when
	// conversion succeeds.
	KeepIntermediate bool `yaml:"keep_intermediate"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		ScheduleURL: DefaultScheduleURL,
		CacheDir:    "./var/schedule-cache",
		Output:      "schedule.epub",
		Format:      "epub",
		RenderMode:  "full",
	}
}

// Normalize fills in missing/zero values so partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.ScheduleURL == "" {
		c.ScheduleURL = DefaultScheduleURL
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/schedule-cache"
	}
	if c.Output == "" {
		c.Output = "schedule.epub"
	}
	switch c.Format {
	case "markdown", "html", "epub", "ics":
	default:
		c.Format = "epub"
	}
	switch c.RenderMode {
	case "full", "inline":
	default:
		c.RenderMode = "full"
	}
}

// Load loads configuration from the given YAML path. If the file does not
// exist, a default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".schedule-reflow-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
