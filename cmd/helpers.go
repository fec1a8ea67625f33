package cmd

import (
	"fmt"
	"os"

	"github.com/gridci/gridci/pkg/config"
	"github.com/gridci/gridci/pkg/plan"
	"github.com/gridci/gridci/pkg/trigger"
)

// Environment fallbacks for the trigger flags, for use inside CI itself.
const (
	envEvent    = "GRIDCI_EVENT"
	envHeadRepo = "GRIDCI_HEAD_REPO"
	envBaseRepo = "GRIDCI_BASE_REPO"
)

// flagOrEnv returns the flag value, falling back to the environment.
func flagOrEnv(val, envKey string) string {
	if val != "" {
		return val
	}
	return os.Getenv(envKey)
}

// evaluate classifies the trigger, loads configuration, and assembles the
// execution plan. Classification and expansion errors are fatal: no plan is
// produced and nothing runs.
func evaluate(configPath, event, headRepo, baseRepo string) (*plan.Plan, *config.Config, error) {
	if event == "" {
		return nil, nil, fmt.Errorf("no event specified (use --event or %s)", envEvent)
	}

	ctx, err := trigger.Classify(trigger.RawEvent{
		Kind:     event,
		HeadRepo: headRepo,
		BaseRepo: baseRepo,
	})
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	jobs, err := cfg.JobSpecs()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	pol, err := cfg.ExecutionPolicy()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	p, err := plan.Assemble(ctx, jobs, pol)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}
