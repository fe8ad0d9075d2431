package monitor

import (
	"context"
	"time"

	"ccmon/ui"

	tea "github.com/charmbracelet/bubbletea"
)

type Engine struct {
	Collector *Collector
	program   *tea.Program
}

func NewEngine(host Host, log Logger) *Engine {
	return &Engine{Collector: NewCollector(host, log)}
}

// Run starts the TUI and the sampling loop. It blocks until the TUI
// quits or ctx is cancelled.
func (e *Engine) Run(ctx context.Context, interval time.Duration, tuiModel tea.Model) error {
	e.program = tea.NewProgram(tuiModel, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start background data collector
	go e.collectLoop(ctx, interval)

	// Run TUI (blocks until quit)
	if _, err := e.program.Run(); err != nil {
		return err
	}

	return nil
}

func (e *Engine) collectLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// The first pass only primes baselines; every CPU value in it is 0.
	e.sampleAndSend(ctx)

	for {
		select {
		case <-ctx.Done():
			e.program.Quit()
			return

		case <-ticker.C:
			e.sampleAndSend(ctx)
		}
	}
}

func (e *Engine) sampleAndSend(ctx context.Context) {
	e.Collector.Sample(ctx)

	// Rows cross to the UI goroutine, so hand over a copy.
	ui.SendData(e.program, e.Collector.Clone(), e.Collector.Total())
}
