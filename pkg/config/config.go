// Package config loads the gridci.yml declaration surface: the job set, the
// execution policy overrides, and runner settings. A missing file yields the
// compiled-in default configuration.
package config

import (
	"fmt"
	"os"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/gridci/gridci/pkg/plan"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = "gridci.yml"

// Config is the full configuration surface.
type Config struct {
	Jobs   []JobConfig  `yaml:"jobs,omitempty" json:"jobs,omitempty"`
	Policy PolicyConfig `yaml:"policy,omitempty" json:"policy,omitempty"`
	Runner RunnerConfig `yaml:"runner,omitempty" json:"runner,omitempty"`
}

// JobConfig declares one job. Toolchain values are channel names ("stable",
// "beta", "nightly") or a literal version string for the minimum supported
// toolchain (e.g. "1.70.0").
type JobConfig struct {
	Name                string        `yaml:"name" json:"name"`
	Condition           string        `yaml:"condition" json:"condition"`
	OS                  []string      `yaml:"os,omitempty" json:"os,omitempty"`
	Toolchains          []string      `yaml:"toolchains,omitempty" json:"toolchains,omitempty"`
	ScheduledToolchains []string      `yaml:"scheduled_toolchains,omitempty" json:"scheduled_toolchains,omitempty"`
	Phases              []PhaseConfig `yaml:"phases" json:"phases"`
}

// PhaseConfig declares one phase of a job.
type PhaseConfig struct {
	Kind     string          `yaml:"kind" json:"kind"`
	Commands []CommandConfig `yaml:"commands" json:"commands"`
}

// CommandConfig is one argv the runner will invoke.
type CommandConfig struct {
	Name string   `yaml:"name" json:"name"`
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// PolicyConfig overrides the execution policy. A nil exclusion list keeps the
// default (macos); an explicit empty list disables the exclusion.
type PolicyConfig struct {
	ConcurrentExclusions *[]string `yaml:"concurrent_exclusions,omitempty" json:"concurrent_exclusions,omitempty"`
	SingleThreadFlag     string    `yaml:"single_thread_flag,omitempty" json:"single_thread_flag,omitempty"`
}

// RunnerConfig holds settings for plan execution.
type RunnerConfig struct {
	// Parallel caps how many cells execute concurrently. Zero means the
	// default of 3.
	Parallel int `yaml:"parallel,omitempty" json:"parallel,omitempty"`
}

// Load reads the configuration at path, or DefaultFileName in the working
// directory when path is empty. A missing file is not an error; the default
// configuration is returned instead.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in anything the file left unset.
func (c *Config) applyDefaults() {
	if len(c.Jobs) == 0 {
		c.Jobs = Default().Jobs
	}
	if c.Runner.Parallel == 0 {
		c.Runner.Parallel = 3
	}
}

// JobSpecs resolves the declared jobs into evaluatable specs, validating
// names, conditions, platforms, toolchains and phase kinds.
func (c *Config) JobSpecs() ([]plan.JobSpec, error) {
	specs := make([]plan.JobSpec, 0, len(c.Jobs))
	seen := make(map[string]bool, len(c.Jobs))

	for _, jc := range c.Jobs {
		if jc.Name == "" {
			return nil, fmt.Errorf("job with empty name")
		}
		if seen[jc.Name] {
			return nil, fmt.Errorf("duplicate job name %q", jc.Name)
		}
		seen[jc.Name] = true

		cond, err := parseCondition(jc.Condition)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", jc.Name, err)
		}

		oses := make([]plan.OS, 0, len(jc.OS))
		for _, s := range jc.OS {
			o, err := plan.ParseOS(s)
			if err != nil {
				return nil, fmt.Errorf("job %q: %w", jc.Name, err)
			}
			oses = append(oses, o)
		}

		toolchains, err := parseToolchains(jc.Name, jc.Toolchains)
		if err != nil {
			return nil, err
		}
		scheduled, err := parseToolchains(jc.Name, jc.ScheduledToolchains)
		if err != nil {
			return nil, err
		}

		phases := make([]plan.Phase, 0, len(jc.Phases))
		for _, pc := range jc.Phases {
			kind, err := parsePhaseKind(pc.Kind)
			if err != nil {
				return nil, fmt.Errorf("job %q: %w", jc.Name, err)
			}
			cmds := make([]plan.Command, 0, len(pc.Commands))
			for _, cc := range pc.Commands {
				if cc.Name == "" {
					return nil, fmt.Errorf("job %q phase %q: command with empty name", jc.Name, pc.Kind)
				}
				cmds = append(cmds, plan.Command{Name: cc.Name, Args: cc.Args})
			}
			phases = append(phases, plan.Phase{Kind: kind, Commands: cmds})
		}
		if len(phases) == 0 {
			return nil, fmt.Errorf("job %q declares no phases", jc.Name)
		}

		specs = append(specs, plan.JobSpec{
			Name:                jc.Name,
			Condition:           cond,
			OS:                  oses,
			Toolchains:          toolchains,
			ScheduledToolchains: scheduled,
			Phases:              phases,
		})
	}
	return specs, nil
}

// ExecutionPolicy resolves the policy overrides against the defaults.
func (c *Config) ExecutionPolicy() (plan.Policy, error) {
	pol := plan.DefaultPolicy()
	if c.Policy.ConcurrentExclusions != nil {
		excl := make([]plan.OS, 0, len(*c.Policy.ConcurrentExclusions))
		for _, s := range *c.Policy.ConcurrentExclusions {
			o, err := plan.ParseOS(s)
			if err != nil {
				return plan.Policy{}, fmt.Errorf("policy concurrent_exclusions: %w", err)
			}
			excl = append(excl, o)
		}
		pol.ConcurrentExclusions = excl
	}
	if c.Policy.SingleThreadFlag != "" {
		pol.SingleThreadFlag = c.Policy.SingleThreadFlag
	}
	return pol, nil
}

func parseCondition(name string) (plan.Condition, error) {
	switch name {
	case "push_or_external_pr":
		return plan.OnPushOrExternalPR(), nil
	case "push_schedule_or_external_pr":
		return plan.OnPushScheduleOrExternalPR(), nil
	case "schedule":
		return plan.OnScheduleOnly(), nil
	case "":
		return nil, fmt.Errorf("missing run condition")
	default:
		return nil, fmt.Errorf("unknown run condition %q", name)
	}
}

func parseToolchains(job string, values []string) ([]plan.Toolchain, error) {
	out := make([]plan.Toolchain, 0, len(values))
	for _, s := range values {
		tc, err := parseToolchain(s)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", job, err)
		}
		out = append(out, tc)
	}
	return out, nil
}

func parseToolchain(s string) (plan.Toolchain, error) {
	switch s {
	case "stable":
		return plan.Stable(), nil
	case "beta":
		return plan.Beta(), nil
	case "nightly":
		return plan.Nightly(), nil
	}
	// A literal version string pins the minimum supported toolchain.
	if s != "" && unicode.IsDigit(rune(s[0])) {
		return plan.MinimumSupported(s), nil
	}
	return plan.Toolchain{}, fmt.Errorf("unknown toolchain %q (want stable, beta, nightly, or a version)", s)
}

func parsePhaseKind(s string) (plan.PhaseKind, error) {
	switch plan.PhaseKind(s) {
	case plan.PhaseLint, plan.PhaseBasic, plan.PhaseConcurrent:
		return plan.PhaseKind(s), nil
	default:
		return "", fmt.Errorf("unknown phase kind %q", s)
	}
}
