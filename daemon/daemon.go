package daemon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ccmon/config"
	"ccmon/monitor"
	"ccmon/stack"
)

// AlertWindow is the minimum time between two alerts for one group.
const AlertWindow = time.Minute

// Sender delivers one alert message.
type Sender interface {
	Send(ctx context.Context, webhookURL, msg string) error
}

// Daemon samples headlessly and raises webhook alerts for process groups
// above the configured thresholds.
type Daemon struct {
	collector *monitor.Collector
	view      *stack.View
	cfg       *config.Config
	log       monitor.Logger
	sender    Sender

	reload     chan *config.Config
	lastAlerts map[string]time.Time
	now        func() time.Time
}

func New(host monitor.Host, cfg *config.Config, sender Sender, log monitor.Logger) *Daemon {
	if log == nil {
		log = monitor.NopLogger
	}
	st := stack.NewState()
	st.Sorter = cfg.Sorter()

	d := &Daemon{
		collector:  monitor.NewCollector(host, log),
		view:       stack.NewView(st),
		cfg:        cfg,
		log:        log,
		sender:     sender,
		reload:     make(chan *config.Config, 1),
		lastAlerts: make(map[string]time.Time),
		now:        time.Now,
	}
	d.collector.MaxRows = cfg.MaxProcesses
	return d
}

// Run samples every configured interval until ctx is done. When
// configPath is not empty the config is reloaded whenever it changes.
func (d *Daemon) Run(ctx context.Context, configPath string) error {
	if configPath != "" {
		err := config.Watch(ctx, configPath, func(cfg *config.Config, err error) {
			if err != nil {
				d.log.Infoln("config reload failed, keeping current:", err)
				return
			}
			select {
			case d.reload <- cfg:
			default:
			}
		})
		if err != nil {
			d.log.Infoln("config watch disabled:", err)
		}
	}

	ticker := time.NewTicker(d.cfg.Interval())
	defer ticker.Stop()

	d.log.Infoln("daemon started, interval", d.cfg.Interval())
	d.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cfg := <-d.reload:
			d.apply(cfg)
			ticker.Reset(cfg.Interval())
			d.log.Infoln("config reloaded")

		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

func (d *Daemon) apply(cfg *config.Config) {
	d.cfg = cfg
	d.collector.MaxRows = cfg.MaxProcesses
	d.view.Sorter = cfg.Sorter()
}

// Tick takes one sample, regroups and sends the alerts that are due.
func (d *Daemon) Tick(ctx context.Context) {
	d.collector.Sample(ctx)
	d.view.Update(d.collector.Clone())
	d.checkAlerts(ctx)
}

// View is the stacked view of the latest sample.
func (d *Daemon) View() *stack.View {
	return d.view
}

// checkAlerts inspects every group header. A zero threshold disables
// that check.
func (d *Daemon) checkAlerts(ctx context.Context) {
	now := d.now()

	for _, g := range d.view.Groups() {
		h := g.Header()

		var reasons []string
		if d.cfg.CPUThreshold > 0 && h.CPU >= d.cfg.CPUThreshold {
			reasons = append(reasons, fmt.Sprintf("CPU %.1f%%", h.CPU))
		}
		if d.cfg.MemThresholdMB > 0 && h.MemMB() >= d.cfg.MemThresholdMB {
			reasons = append(reasons, fmt.Sprintf("memory %.1f MB", h.MemMB()))
		}
		if len(reasons) == 0 {
			continue
		}

		key := strings.ToLower(g.Name)
		if t, ok := d.lastAlerts[key]; ok && now.Sub(t) < AlertWindow {
			continue
		}
		d.lastAlerts[key] = now

		msg := fmt.Sprintf("⚠ High usage: %s (PID %d): %s", h.Name, h.Pid, strings.Join(reasons, ", "))
		d.log.Infoln(msg)
		if err := d.sender.Send(ctx, d.cfg.WebhookURL(), msg); err != nil {
			d.log.Infoln("alert delivery failed:", err)
		}
	}
}
