package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridci/gridci/pkg/exec"
	"github.com/gridci/gridci/pkg/runner"
)

var (
	runEvent      string
	runHeadRepo   string
	runBaseRepo   string
	runConfigPath string
	runParallel   int
	runDryRun     bool
	runJSON       bool
)

// NewRunCmd builds the `gridci run` command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a trigger event and execute the resulting plan",
		Long: `Evaluate a trigger event, assemble the execution plan, and run every
entry through the command runner. The exit code is non-zero if any entry
fails; failures never cancel sibling entries.`,
		RunE: runPlanExecute,
	}

	cmd.Flags().StringVarP(&runEvent, "event", "e", "", "Trigger event kind: push, pull_request, or schedule")
	cmd.Flags().StringVar(&runHeadRepo, "head-repo", "", "Head repository full name (pull requests)")
	cmd.Flags().StringVar(&runBaseRepo, "base-repo", "", "Base repository full name (pull requests)")
	cmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to gridci.yml")
	cmd.Flags().IntVarP(&runParallel, "parallel", "p", 0, "Max cells to execute concurrently (default from config)")
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Record commands instead of executing them")
	cmd.Flags().BoolVar(&runJSON, "json", false, "Output the report as JSON")

	return cmd
}

func runPlanExecute(cmd *cobra.Command, args []string) error {
	p, cfg, err := evaluate(runConfigPath,
		flagOrEnv(runEvent, envEvent),
		flagOrEnv(runHeadRepo, envHeadRepo),
		flagOrEnv(runBaseRepo, envBaseRepo))
	if err != nil {
		return err
	}

	if len(p.Entries) == 0 {
		fmt.Println("No jobs are eligible for this trigger; nothing to run.")
		return nil
	}

	parallel := runParallel
	if parallel <= 0 {
		parallel = cfg.Runner.Parallel
	}

	var executor exec.CommandExecutor = &exec.RealCommandExecutor{}
	if runDryRun {
		executor = &exec.MockCommandExecutor{}
	}

	r := runner.New(executor, runner.Options{MaxParallelCells: parallel})
	report := r.Run(cmd.Context(), p)

	if runJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		fmt.Println(string(data))
	} else {
		renderReport(os.Stdout, report)
	}

	if report.Failed() {
		_, failed, _ := report.Counts()
		return fmt.Errorf("%d of %d plan entries failed", failed, len(report.Results))
	}
	return nil
}
