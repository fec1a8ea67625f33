package plan

import "fmt"

// OS names one supported runner platform.
type OS string

const (
	Linux   OS = "linux"
	Windows OS = "windows"
	MacOS   OS = "macos"
)

// ParseOS maps a configuration string onto a known OS.
func ParseOS(s string) (OS, error) {
	switch OS(s) {
	case Linux, Windows, MacOS:
		return OS(s), nil
	default:
		return "", fmt.Errorf("unknown os %q (want linux, windows, or macos)", s)
	}
}

// RunnerImage returns the runner image identifier for the platform.
func (o OS) RunnerImage() string {
	switch o {
	case Linux:
		return "ubuntu-latest"
	case Windows:
		return "windows-latest"
	case MacOS:
		return "macos-latest"
	}
	return string(o)
}

// Channel is a toolchain release channel.
type Channel string

const (
	ChannelStable  Channel = "stable"
	ChannelBeta    Channel = "beta"
	ChannelNightly Channel = "nightly"
	ChannelMinimum Channel = "minimum"
)

// Toolchain references one toolchain to install for a cell. Version is set
// only on the minimum supported channel.
type Toolchain struct {
	Channel Channel `json:"channel"`
	Version string  `json:"version,omitempty"`
}

func Stable() Toolchain  { return Toolchain{Channel: ChannelStable} }
func Beta() Toolchain    { return Toolchain{Channel: ChannelBeta} }
func Nightly() Toolchain { return Toolchain{Channel: ChannelNightly} }

// MinimumSupported pins the oldest toolchain version the project supports.
func MinimumSupported(version string) Toolchain {
	return Toolchain{Channel: ChannelMinimum, Version: version}
}

// String returns the name the installer resolves, e.g. "stable" or "1.70.0".
func (t Toolchain) String() string {
	if t.Channel == ChannelMinimum && t.Version != "" {
		return t.Version
	}
	return string(t.Channel)
}

// Cell is one concrete OS × toolchain point in a job's matrix. It uniquely
// identifies a CI run instance within its job.
type Cell struct {
	OS        OS        `json:"os"`
	Toolchain Toolchain `json:"toolchain"`
}

func (c Cell) String() string {
	return fmt.Sprintf("%s/%s", c.OS, c.Toolchain)
}

// EmptyAxisError reports a matrix axis with no values on an eligible job.
// This is a configuration defect and aborts the evaluation.
type EmptyAxisError struct {
	Job  string
	Axis string
}

func (e EmptyAxisError) Error() string {
	return fmt.Sprintf("job %q: %s axis is empty", e.Job, e.Axis)
}

// ExpandMatrix produces the cross product of the two axes as an ordered cell
// sequence: OS is the outer loop, toolchain the inner, both in declaration
// order. The ordering governs plan ordering only; no cell depends on another.
func ExpandMatrix(job string, oses []OS, toolchains []Toolchain) ([]Cell, error) {
	if len(oses) == 0 {
		return nil, EmptyAxisError{Job: job, Axis: "os"}
	}
	if len(toolchains) == 0 {
		return nil, EmptyAxisError{Job: job, Axis: "toolchain"}
	}

	cells := make([]Cell, 0, len(oses)*len(toolchains))
	for _, os := range oses {
		for _, tc := range toolchains {
			cells = append(cells, Cell{OS: os, Toolchain: tc})
		}
	}
	return cells, nil
}
