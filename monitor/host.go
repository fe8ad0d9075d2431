package monitor

import (
	"context"
	"time"

	"ccmon/model"
)

// Host is the operating system as seen by the sampler. Every per-process
// query is independent and may fail on its own.
type Host interface {
	// SystemTime returns the cumulative CPU time of the whole machine,
	// across all processors, in the same unit as ProcessTime.
	SystemTime(ctx context.Context) (time.Duration, error)
	Processes(ctx context.Context) ([]model.ProcEntry, error)
	// ProcessTime returns cumulative kernel plus user time.
	ProcessTime(ctx context.Context, pid int32) (time.Duration, error)
	WorkingSet(ctx context.Context, pid int32) (uint64, error)
	Owner(ctx context.Context, pid int32) (string, error)
	ExePath(ctx context.Context, pid int32) (string, error)
	Connections(ctx context.Context) ([]model.Conn, error)
}

// Logger is the subset of gologger used by the engine.
type Logger interface {
	Infoln(v ...any)
	Debugln(v ...any)
}

type nopLogger struct{}

func (nopLogger) Infoln(...any)  {}
func (nopLogger) Debugln(...any) {}

// NopLogger discards everything; the TUI uses it since stdout belongs to
// the alt screen.
var NopLogger Logger = nopLogger{}
