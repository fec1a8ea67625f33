package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	planEvent      string
	planHeadRepo   string
	planBaseRepo   string
	planConfigPath string
	planJSON       bool
)

// NewPlanCmd builds the `gridci plan` command.
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Evaluate a trigger event and print the resulting execution plan",
		Long: `Evaluate a trigger event against the configured job set and print the
execution plan without running anything.

Examples:
  # Plan for a push
  gridci plan --event push

  # Plan for an external pull request
  gridci plan --event pull_request --head-repo forker/repo --base-repo acme/repo

  # Plan for the nightly schedule, as JSON
  gridci plan --event schedule --json`,
		RunE: runPlanEvaluate,
	}

	cmd.Flags().StringVarP(&planEvent, "event", "e", "", "Trigger event kind: push, pull_request, or schedule")
	cmd.Flags().StringVar(&planHeadRepo, "head-repo", "", "Head repository full name (pull requests)")
	cmd.Flags().StringVar(&planBaseRepo, "base-repo", "", "Base repository full name (pull requests)")
	cmd.Flags().StringVarP(&planConfigPath, "config", "c", "", "Path to gridci.yml")
	cmd.Flags().BoolVar(&planJSON, "json", false, "Output the plan as JSON")

	return cmd
}

func runPlanEvaluate(cmd *cobra.Command, args []string) error {
	p, _, err := evaluate(planConfigPath,
		flagOrEnv(planEvent, envEvent),
		flagOrEnv(planHeadRepo, envHeadRepo),
		flagOrEnv(planBaseRepo, envBaseRepo))
	if err != nil {
		return err
	}

	if planJSON {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling plan: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	renderPlan(os.Stdout, p)
	return nil
}
