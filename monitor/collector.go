package monitor

import (
	"context"
	"time"

	"ccmon/model"
)

// Collector turns host snapshots into the per-process Row Table. It owns
// the CPU baselines and is not safe for concurrent use.
type Collector struct {
	host      Host
	log       Logger
	baselines *Baselines
	rows      []model.ProcRow

	prevSys  time.Duration
	sysValid bool
	prevInit bool

	// MaxRows caps one pass; 0 means unlimited. When the cap is hit the
	// pass stops and the partial table is kept.
	MaxRows int
}

func NewCollector(host Host, log Logger) *Collector {
	if log == nil {
		log = NopLogger
	}
	return &Collector{
		host:      host,
		log:       log,
		baselines: NewBaselines(),
		rows:      make([]model.ProcRow, 0, 256),
	}
}

// Sample takes one snapshot. Failures never propagate: an enumeration
// error leaves the table empty, a failed per-process query leaves that
// field at its zero value.
func (c *Collector) Sample(ctx context.Context) {
	sysTotal, sysOK := c.systemTime(ctx)

	nets := NetMap{}
	if conns, err := c.host.Connections(ctx); err != nil {
		c.log.Debugln("connection table unavailable:", err)
	} else {
		nets = BuildNetMap(conns)
	}

	c.rows = c.rows[:0]

	procs, err := c.host.Processes(ctx)
	if err != nil {
		// The baselines stay where they were, so the system baseline
		// does too; the next delta then spans the same interval for both.
		c.log.Debugln("process enumeration failed:", err)
		return
	}

	sysDelta := c.advanceSystem(sysTotal, sysOK)
	c.baselines.Mark()

	for _, p := range procs {
		if p.Pid == 0 {
			continue
		}
		if c.MaxRows > 0 && len(c.rows) >= c.MaxRows {
			c.log.Infoln("row cap reached, keeping", len(c.rows), "of", len(procs), "processes")
			break
		}
		c.rows = append(c.rows, c.buildRow(ctx, p, nets, sysDelta))
	}

	c.baselines.Compact()
	c.prevInit = true
}

func (c *Collector) systemTime(ctx context.Context) (time.Duration, bool) {
	total, err := c.host.SystemTime(ctx)
	if err != nil {
		c.log.Debugln("system cpu time unavailable:", err)
		return 0, false
	}
	return total, true
}

// advanceSystem moves the system baseline to total and returns the delta
// from the previous one, 0 when either end is unknown.
func (c *Collector) advanceSystem(total time.Duration, ok bool) time.Duration {
	if !ok {
		c.sysValid = false
		return 0
	}

	var delta time.Duration
	if c.prevInit && c.sysValid {
		delta = total - c.prevSys
	}
	c.prevSys = total
	c.sysValid = true
	return delta
}

func (c *Collector) buildRow(ctx context.Context, p model.ProcEntry, nets NetMap, sysDelta time.Duration) model.ProcRow {
	r := model.ProcRow{
		Pid:  p.Pid,
		Name: model.Clip(p.Name, model.NameLen),
	}

	if remote, ok := nets[p.Pid]; ok {
		r.HasNet = true
		r.NetRemote = remote
	}

	if path, err := c.host.ExePath(ctx, p.Pid); err == nil {
		r.Path = model.Clip(path, model.PathLen)
	}
	if owner, err := c.host.Owner(ctx, p.Pid); err == nil {
		r.Owner = model.Clip(owner, model.OwnerLen)
	}
	if ws, err := c.host.WorkingSet(ctx, p.Pid); err == nil {
		r.WorkingSet = ws
	}

	total, err := c.host.ProcessTime(ctx, p.Pid)
	if err != nil {
		c.baselines.Invalidate(p.Pid)
		return r
	}
	prev, ok := c.baselines.Record(p.Pid, total)
	if c.prevInit && ok && sysDelta > 0 && total >= prev {
		r.CPU = cpuPercent(total-prev, sysDelta)
	}
	return r
}

func cpuPercent(proc, sys time.Duration) float64 {
	if sys <= 0 {
		return 0
	}
	pct := float64(proc) * 100.0 / float64(sys)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// Rows returns the current Row Table. The slice is reused by the next
// Sample; use Clone to keep it.
func (c *Collector) Rows() []model.ProcRow {
	return c.rows
}

// Clone returns a copy of the current Row Table.
func (c *Collector) Clone() []model.ProcRow {
	if len(c.rows) == 0 {
		return nil
	}
	out := make([]model.ProcRow, len(c.rows))
	copy(out, c.rows)
	return out
}

// Total is the number of processes in the current table.
func (c *Collector) Total() int {
	return len(c.rows)
}

