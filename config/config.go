package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ccmon/model"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// EnvPath overrides the config file location.
const EnvPath = "CCMON_CONFIG"

func configDir() string {
	return filepath.Join(os.Getenv("HOME"), ".ccmon")
}

// Path is the config file in use: $CCMON_CONFIG, or
// $HOME/.ccmon/config.json.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(configDir(), "config.json")
}

func Default() *Config {
	return &Config{
		IntervalMS:     250,
		Stacked:        true,
		SortKey:        model.SortByCPU.String(),
		SortAscending:  false,
		ExportPath:     filepath.Join(configDir(), "export.tsv"),
		CPUThreshold:   80,
		MemThresholdMB: 4096,
		Webhooks:       map[string]string{},
	}
}

// LoadConfig loads the file at Path.
func LoadConfig() (*Config, error) {
	return Load(Path())
}

// Load reads path, writing the defaults there first if it does not exist.
// Fields missing from the file keep their defaults. On a parse or
// validation error the defaults are returned with the error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		return cfg, Save(path, cfg)
	}
	if err != nil {
		return Default(), errors.Wrapf(err, "read config %s", path)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.Webhooks == nil {
		cfg.Webhooks = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write config")
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.IntervalMS <= 0 {
		result = multierror.Append(result, fmt.Errorf("interval_ms must be positive, got %d", c.IntervalMS))
	}
	if _, err := model.ParseSortKey(c.SortKey); err != nil {
		result = multierror.Append(result, err)
	}
	if c.MaxProcesses < 0 {
		result = multierror.Append(result, fmt.Errorf("max_processes must not be negative, got %d", c.MaxProcesses))
	}
	if c.CPUThreshold < 0 || c.CPUThreshold > 100 {
		result = multierror.Append(result, fmt.Errorf("cpu_threshold must be within 0-100, got %g", c.CPUThreshold))
	}
	if c.MemThresholdMB < 0 {
		result = multierror.Append(result, fmt.Errorf("mem_threshold_mb must not be negative, got %g", c.MemThresholdMB))
	}
	if c.ActiveWebhook != "" {
		if _, ok := c.Webhooks[c.ActiveWebhook]; !ok {
			result = multierror.Append(result, fmt.Errorf("active_webhook %q is not in webhooks", c.ActiveWebhook))
		}
	}
	return result.ErrorOrNil()
}

// Watch calls fn with the reloaded config each time path is written,
// until ctx is done. Reloads that fail are passed to fn with their error
// so the caller can keep its current config. The directory is watched so
// editors that replace the file are seen too.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create config watcher")
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return errors.Wrapf(err, "watch %s", path)
	}

	go func() {
		defer w.Close()
		target := filepath.Clean(path)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(e.Name) != target || !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
					continue
				}
				fn(Load(path))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				fn(nil, errors.Wrap(err, "config watcher"))
			}
		}
	}()
	return nil
}
