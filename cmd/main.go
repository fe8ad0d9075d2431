package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ccmon/alert"
	"ccmon/config"
	"ccmon/daemon"
	"ccmon/monitor"
	"ccmon/proc"
	"ccmon/ui"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {

	case "tui":
		err = runTUI(ctx)

	case "daemon":
		err = runDaemon(ctx)

	case "dump":
		err = runDump(ctx, os.Args[2:])

	case "help":
		usage()

	default:
		fmt.Println("unknown command:", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, "ccmon:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`
        ccmon commands:
        ccmon tui          → start the interactive process view
        ccmon daemon       → sample in the background and send threshold alerts
        ccmon dump [-n N]  → take N samples and print the view as tab-separated text
        ccmon help         → show help

        config: $CCMON_CONFIG or ~/.ccmon/config.json
    `)
}

func newLogger(name string) *logger.Logger {
	return logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, name))
}

// loadConfig falls back to the defaults when the file is unusable.
func loadConfig(log monitor.Logger) *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Infoln("using default config:", err)
	}
	return cfg
}

func runTUI(ctx context.Context) error {
	// The alt screen owns stdout, so the sampler stays silent.
	cfg := loadConfig(monitor.NopLogger)

	engine := monitor.NewEngine(proc.NewHost(), monitor.NopLogger)
	engine.Collector.MaxRows = cfg.MaxProcesses

	return engine.Run(ctx, cfg.Interval(), ui.NewModel(cfg, config.Path(), proc.Controller{}))
}

func runDaemon(ctx context.Context) error {
	log := newLogger("ccmon-daemon")
	cfg := loadConfig(log)

	d := daemon.New(proc.NewHost(), cfg, alert.NewNotifier(), log)
	return d.Run(ctx, config.Path())
}

func runDump(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	samples := fs.Int("n", 2, "number of samples to take (at least 2)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// stdout carries the table; problems go to stderr.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccmon: using default config:", err)
	}

	return daemon.Dump(ctx, proc.NewHost(), cfg, *samples, os.Stdout, monitor.NopLogger)
}
