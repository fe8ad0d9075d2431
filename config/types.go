package config

import (
	"time"

	"ccmon/model"
)

type Config struct {
	IntervalMS    int    `json:"interval_ms"`
	Stacked       bool   `json:"stacked"`
	SortKey       string `json:"sort_key"`
	SortAscending bool   `json:"sort_ascending"`
	MaxProcesses  int    `json:"max_processes"`
	ExportPath    string `json:"export_path"`

	CPUThreshold   float64           `json:"cpu_threshold"`
	MemThresholdMB float64           `json:"mem_threshold_mb"`
	ActiveWebhook  string            `json:"active_webhook"`
	Webhooks       map[string]string `json:"webhooks"`
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Sorter returns the configured sort, falling back to CPU descending for
// an unknown key.
func (c *Config) Sorter() model.Sorter {
	key, err := model.ParseSortKey(c.SortKey)
	if err != nil {
		return *model.NewSorter()
	}
	return model.Sorter{Key: key, Ascending: c.SortAscending}
}

// WebhookURL is the URL of the active webhook, "" when none is set.
func (c *Config) WebhookURL() string {
	if c.ActiveWebhook == "" {
		return ""
	}
	return c.Webhooks[c.ActiveWebhook]
}
