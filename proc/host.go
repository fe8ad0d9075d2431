package proc

import (
	"context"
	"sync"
	"time"

	"ccmon/model"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// Host reads process and system state through gopsutil. Handles from the
// last enumeration are cached so per-process queries reuse them.
type Host struct {
	mu    sync.Mutex
	procs map[int32]*process.Process
}

func NewHost() *Host {
	return &Host{procs: make(map[int32]*process.Process, 256)}
}

// SystemTime sums every system-wide CPU counter, idle included.
func (h *Host) SystemTime(ctx context.Context) (time.Duration, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return 0, errors.Wrap(err, "read system cpu times")
	}
	if len(times) == 0 {
		return 0, errors.New("read system cpu times: empty result")
	}

	t := times[0]
	total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
	return seconds(total), nil
}

func (h *Host) Processes(ctx context.Context) ([]model.ProcEntry, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "enumerate processes")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clear(h.procs)
	out := make([]model.ProcEntry, 0, len(procs))
	for _, p := range procs {
		h.procs[p.Pid] = p
		// A process that exits mid-enumeration keeps an empty name.
		name, _ := p.NameWithContext(ctx)
		out = append(out, model.ProcEntry{Pid: p.Pid, Name: name})
	}
	return out, nil
}

func (h *Host) ProcessTime(ctx context.Context, pid int32) (time.Duration, error) {
	p, err := h.handle(ctx, pid)
	if err != nil {
		return 0, err
	}
	t, err := p.TimesWithContext(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "cpu times of pid %d", pid)
	}
	return seconds(t.User + t.System), nil
}

func (h *Host) WorkingSet(ctx context.Context, pid int32) (uint64, error) {
	p, err := h.handle(ctx, pid)
	if err != nil {
		return 0, err
	}
	mi, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "memory of pid %d", pid)
	}
	return mi.RSS, nil
}

func (h *Host) Owner(ctx context.Context, pid int32) (string, error) {
	p, err := h.handle(ctx, pid)
	if err != nil {
		return "", err
	}
	u, err := p.UsernameWithContext(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "owner of pid %d", pid)
	}
	return u, nil
}

func (h *Host) ExePath(ctx context.Context, pid int32) (string, error) {
	p, err := h.handle(ctx, pid)
	if err != nil {
		return "", err
	}
	exe, err := p.ExeWithContext(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "executable of pid %d", pid)
	}
	return exe, nil
}

func (h *Host) Connections(ctx context.Context) ([]model.Conn, error) {
	stats, err := net.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, errors.Wrap(err, "read tcp table")
	}
	out := make([]model.Conn, 0, len(stats))
	for _, s := range stats {
		out = append(out, model.Conn{
			Pid:        s.Pid,
			Status:     s.Status,
			RemoteIP:   s.Raddr.IP,
			RemotePort: s.Raddr.Port,
		})
	}
	return out, nil
}

func (h *Host) handle(ctx context.Context, pid int32) (*process.Process, error) {
	h.mu.Lock()
	p, ok := h.procs[pid]
	h.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, errors.Wrapf(err, "open pid %d", pid)
	}
	h.mu.Lock()
	h.procs[pid] = p
	h.mu.Unlock()
	return p, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
