package daemon

import (
	"context"
	"io"
	"time"

	"ccmon/config"
	"ccmon/monitor"
	"ccmon/stack"
)

// Dump takes samples snapshots one interval apart and writes the final
// view in export format. At least two samples are taken since the first
// one only primes the CPU baselines.
func Dump(ctx context.Context, host monitor.Host, cfg *config.Config, samples int, w io.Writer, log monitor.Logger) error {
	if samples < 2 {
		samples = 2
	}

	c := monitor.NewCollector(host, log)
	c.MaxRows = cfg.MaxProcesses

	for i := 0; i < samples; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.Interval()):
			}
		}
		c.Sample(ctx)
	}

	st := stack.NewState()
	st.Stacked = cfg.Stacked
	st.Sorter = cfg.Sorter()
	v := stack.NewView(st)
	v.Update(c.Rows())

	return v.ExportAll(w)
}
