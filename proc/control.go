package proc

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"
)

// Signal selects how a process is ended.
type Signal int

const (
	// SignalTerminate asks the process to exit (SIGTERM, or a close
	// request where signals do not exist).
	SignalTerminate Signal = iota
	// SignalKill ends it immediately.
	SignalKill
)

func (s Signal) String() string {
	if s == SignalKill {
		return "kill"
	}
	return "terminate"
}

// Controller ends processes. It is stateless; the zero value is ready.
type Controller struct{}

// Terminate requests a graceful exit of pid.
func (Controller) Terminate(ctx context.Context, pid int32) error {
	return signal(ctx, pid, SignalTerminate)
}

// Kill ends pid immediately.
func (Controller) Kill(ctx context.Context, pid int32) error {
	return signal(ctx, pid, SignalKill)
}

// EndAll sends sig to every pid and returns how many failed together
// with the combined error. Zero and negative pids count as failures.
func (Controller) EndAll(ctx context.Context, pids []int32, sig Signal) (int, error) {
	var result *multierror.Error
	failed := 0
	for _, pid := range pids {
		if err := signal(ctx, pid, sig); err != nil {
			failed++
			result = multierror.Append(result, err)
		}
	}
	return failed, result.ErrorOrNil()
}

func signal(ctx context.Context, pid int32, sig Signal) error {
	if pid <= 0 {
		return errors.Errorf("invalid PID: %d", pid)
	}

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return errors.Wrapf(err, "open pid %d", pid)
	}

	if sig == SignalKill {
		err = p.KillWithContext(ctx)
	} else {
		err = p.TerminateWithContext(ctx)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to %s PID %d", sig, pid)
	}
	return nil
}
