// Command orchestrator-demo is a small example CLI showing how to wire
// the orchestrator library together: a Builder, a Planner, a pool of
// TaskWorkers, and a console event sink. It stays a thin demonstration
// harness; a real deployment builds its own CLI around the library.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/orchestrator/internal/config"
	"github.com/harrison/orchestrator/internal/eventlog"
	"github.com/harrison/orchestrator/internal/orchestrator"
	"github.com/harrison/orchestrator/internal/planner"
	"github.com/harrison/orchestrator/internal/workers"
	"github.com/harrison/orchestrator/internal/workspace"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orchestrator-demo",
		Short:   "Demonstrates the multi-agent orchestrator library",
		Version: Version,
		SilenceUsage: true,
	}
	cmd.AddCommand(newRunCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	var (
		workspaceRoot  string
		maxConcurrency int
		qcEndpoint     string
	)

	cmd := &cobra.Command{
		Use:   "run <prompt>",
		Short: "Plan and execute a prompt through the orchestrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := args[0]

			cfg := config.DefaultConfig()
			cfg.MaxConcurrency = maxConcurrency
			cfg.QCEndpoint = qcEndpoint

			bus := eventlog.NewInProcEventBus()
			sink := eventlog.NewConsoleSink(os.Stdout)
			events := bus.Subscribe()
			done := make(chan struct{})
			go func() {
				sink.Run(events)
				close(done)
			}()

			var ws workspace.Manager = workspace.NoopManager{}
			if workspaceRoot != "" {
				ws = workspace.NewPersistence(workspaceRoot)
			}

			o := orchestrator.NewBuilder(cfg).
				WithEvents(bus).
				WithWorkspace(ws).
				Build(planner.NewAutoPlanner(nil), []orchestrator.TaskWorker{
					workers.EnvWorker{},
					workers.PatchWorker{},
					workers.ReviewerWorker{},
				})

			err := o.OrchestratePrompt(prompt)
			return err
		},
	}

	cmd.Flags().StringVar(&workspaceRoot, "workspace", "", "workspace root for memory/TODO.md/AGENTS.md persistence (defaults to in-memory only)")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 1, "maximum tasks to run concurrently")
	cmd.Flags().StringVar(&qcEndpoint, "qc-endpoint", "", "base URL of a remote schedule optimiser sidecar")
	return cmd
}
