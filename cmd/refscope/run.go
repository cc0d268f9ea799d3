package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/refscope/refscope"
	"github.com/refscope/refscope/internal/logging"
	"github.com/refscope/refscope/internal/presentation/tui"
	"github.com/refscope/refscope/internal/scenario"
	"github.com/refscope/refscope/pkg/adapters/debughttp"
	"github.com/refscope/refscope/pkg/adapters/fakeobj"
	"github.com/refscope/refscope/pkg/tracker"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workload scenario with the tracker attached",
	Long: `Loads a YAML scenario and plays it against the fake object system with
the tracker intercepting every lifecycle operation. With --wait the
process stays alive afterwards so dumps can be triggered via signals or
the debug HTTP surface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenarioPath, _ := cmd.Flags().GetString("scenario")
		display, _ := cmd.Flags().GetString("display")
		filter, _ := cmd.Flags().GetString("filter")
		listen, _ := cmd.Flags().GetString("listen")
		wait, _ := cmd.Flags().GetBool("wait")
		quiet, _ := cmd.Flags().GetBool("quiet")
		logLevel, _ := cmd.Flags().GetString("log-level")

		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger := logging.New("cli", level)

		// The flags are conveniences over the tracker's native
		// environment configuration.
		if display != "" {
			if err := os.Setenv(tracker.EnvDisplay, display); err != nil {
				return err
			}
		}
		if filter != "" {
			if err := os.Setenv(tracker.EnvFilter, filter); err != nil {
				return err
			}
		}

		if !quiet {
			tui.PrintBanner()
		}

		s, err := scenario.LoadFile(scenarioPath)
		if err != nil {
			return err
		}

		registry := prometheus.NewRegistry()
		sys := fakeobj.NewSystem()
		tr, err := refscope.New(sys,
			refscope.WithLogger(logger),
			refscope.WithMetrics(registry),
		)
		if err != nil {
			return err
		}
		defer tr.Close()

		if listen != "" {
			srv := &http.Server{
				Addr:    listen,
				Handler: debughttp.NewHandler(tr, registry),
			}
			go func() {
				logger.Info("debug server listening", "addr", listen)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("debug server", "err", err)
				}
			}()
			defer func() {
				_ = srv.Close()
			}()
		}

		logger.Info("running scenario", "name", s.Name, "steps", len(s.Steps))
		if err := scenario.NewRunner(tr, sys).Run(s); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}

		if wait {
			fmt.Fprintf(os.Stderr, "scenario done; pid %d waiting (SIGUSR1 live dump, SIGUSR2 checkpoint)\n", os.Getpid())
			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			<-shutdown
			// Give the tracker's own monitor a moment to emit its
			// report before the deferred Close runs.
			time.Sleep(100 * time.Millisecond)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String("scenario", "scenario.yaml", "Path to the YAML scenario")
	runCmd.Flags().String("display", "", "Event categories (create,refs,backtrace,all,none)")
	runCmd.Flags().String("filter", "", "Type-name prefix filter")
	runCmd.Flags().String("listen", "", "Address for the debug HTTP surface (e.g. :6061)")
	runCmd.Flags().Bool("wait", false, "Keep the process alive after the scenario for signal-driven dumps")
	runCmd.Flags().String("log-level", "info", "Operational log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd)
}
