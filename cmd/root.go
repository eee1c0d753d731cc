package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/emsim/app"
	"github.com/kilianp07/emsim/config"
	coremon "github.com/kilianp07/emsim/core/monitoring"
	"github.com/kilianp07/emsim/infra/loader"
	"github.com/kilianp07/emsim/infra/logger"
	"github.com/kilianp07/emsim/infra/monitoring"
)

type options struct {
	paths    loader.Paths
	maxTicks int
	out      string
	cfgPath  string
}

var opts options

var rootCmd = newRootCmd(&opts)

func newRootCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "emsim",
		Short:         "Emergency dispatch simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.paths.Map, "map", "m", "", "county map in DOT format")
	f.StringVarP(&o.paths.Assets, "assets", "a", "", "stations and vehicles (JSON)")
	f.StringVarP(&o.paths.Scenario, "scenario", "s", "", "emergency calls and events (JSON)")
	f.IntVarP(&o.maxTicks, "ticks", "t", 0, "maximum number of ticks")
	f.StringVarP(&o.out, "out", "o", "", "trace file, stdout when empty")
	f.StringVarP(&o.cfgPath, "config", "c", "", "optional configuration file")
	for _, name := range []string{"map", "assets", "scenario"} {
		_ = cmd.MarkFlagRequired(name)
	}
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, o *options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.New("main")

	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, o, cfg)

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		log.Warnf("sentry disabled: %v", err)
	} else {
		coremon.Init(mon)
	}
	defer coremon.Flush(2 * time.Second)
	defer func() {
		if r := recover(); r != nil {
			coremon.CapturePanic(r)
			coremon.Flush(2 * time.Second)
			panic(r)
		}
	}()

	out, closeOut, err := openTrace(cmd.OutOrStdout(), cfg.Simulation.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	svc, err := app.New(cfg, out)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()
	if _, err := svc.Run(ctx, o.paths, cfg.Simulation.MaxTicks); err != nil {
		coremon.CaptureException(err, map[string]string{"module": "cmd", "run_id": svc.RunID})
		return err
	}
	return nil
}

// applyFlags lets explicit flags win over the configuration file.
func applyFlags(cmd *cobra.Command, o *options, cfg *config.Config) {
	if cmd.Flags().Changed("ticks") {
		cfg.Simulation.MaxTicks = o.maxTicks
	}
	if cmd.Flags().Changed("out") {
		cfg.Simulation.Output = o.out
	}
}

func openTrace(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
