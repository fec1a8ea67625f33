package config

// MinimumSupportedVersion is the oldest toolchain version the default jobs
// test against. The scheduled compatibility job keeps it alongside beta and
// nightly; that redundancy is a deliberate configuration choice.
const MinimumSupportedVersion = "1.70.0"

// Default returns the compiled-in configuration: a single-cell lint job, the
// main test job, and the scheduled compatibility job.
func Default() *Config {
	return &Config{
		Jobs: []JobConfig{
			{
				Name:                "lint",
				Condition:           "push_schedule_or_external_pr",
				OS:                  []string{"linux"},
				Toolchains:          []string{"stable"},
				ScheduledToolchains: []string{"nightly"},
				Phases: []PhaseConfig{
					{
						Kind: "lint",
						Commands: []CommandConfig{
							{Name: "cargo", Args: []string{"fmt", "--all", "--", "--check"}},
							{Name: "cargo", Args: []string{"check", "--all-targets"}},
							{Name: "cargo", Args: []string{"clippy", "--all-targets", "--", "-D", "warnings"}},
						},
					},
				},
			},
			testJob("test", "push_or_external_pr",
				[]string{"stable", MinimumSupportedVersion}),
			testJob("test-compat", "schedule",
				[]string{"beta", "nightly", MinimumSupportedVersion}),
		},
		Runner: RunnerConfig{Parallel: 3},
	}
}

// testJob builds one of the two test job declarations. They share the full OS
// axis and both phases, differing only in name, condition and toolchain set.
func testJob(name, condition string, toolchains []string) JobConfig {
	return JobConfig{
		Name:       name,
		Condition:  condition,
		OS:         []string{"linux", "windows", "macos"},
		Toolchains: toolchains,
		Phases: []PhaseConfig{
			{
				Kind: "basic",
				Commands: []CommandConfig{
					{Name: "cargo", Args: []string{"test"}},
				},
			},
			{
				Kind: "concurrent",
				Commands: []CommandConfig{
					{Name: "cargo", Args: []string{"test", "--release", "--"}},
				},
			},
		},
	}
}
