package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ccmon/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.IntervalMS)
	assert.True(t, cfg.Stacked)
	assert.Equal(t, model.Sorter{Key: model.SortByCPU}, cfg.Sorter())
	assert.Equal(t, 250*time.Millisecond, cfg.Interval())

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults are written on first load")
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sort_key":"name","sort_ascending":true,"webhooks":{"ops":"http://x"},"active_webhook":"ops"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Stacked)
	assert.Equal(t, 250, cfg.IntervalMS)
	assert.Equal(t, model.Sorter{Key: model.SortByName, Ascending: true}, cfg.Sorter())
	assert.Equal(t, "http://x", cfg.WebhookURL())
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "{not json", string(data), "a broken file is left for the user to fix")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.IntervalMS = 0
	cfg.SortKey = "color"
	cfg.MaxProcesses = -1
	cfg.CPUThreshold = 120
	cfg.ActiveWebhook = "missing"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"interval_ms", "color", "max_processes", "cpu_threshold", "active_webhook"} {
		assert.Contains(t, err.Error(), want)
	}

	assert.NoError(t, Default().Validate())
}

func TestPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/ccmon-test.json")
	assert.Equal(t, "/tmp/ccmon-test.json", Path())

	t.Setenv(EnvPath, "")
	t.Setenv("HOME", "/home/u")
	assert.Equal(t, "/home/u/.ccmon/config.json", Path())
	assert.Equal(t, "/home/u/.ccmon/export.tsv", Default().ExportPath)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_, err := Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 8)
	require.NoError(t, Watch(ctx, path, func(cfg *Config, err error) {
		if err == nil {
			got <- cfg
		}
	}))

	cfg := Default()
	cfg.IntervalMS = 1000
	require.NoError(t, Save(path, cfg))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-got:
			if c.IntervalMS == 1000 {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
