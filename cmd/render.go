package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/gridci/gridci/pkg/plan"
	"github.com/gridci/gridci/pkg/runner"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// isTTY reports whether stdout is an interactive terminal.
func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// styled applies a lipgloss style only when writing to a terminal.
func styled(s lipgloss.Style, text string) string {
	if !isTTY() {
		return text
	}
	return s.Render(text)
}

// renderPlan prints the plan as a table, one row per entry, in plan order.
func renderPlan(w io.Writer, p *plan.Plan) {
	header := fmt.Sprintf("Execution plan for %s (%d entries)", p.Trigger.Kind, len(p.Entries))
	fmt.Fprintln(w, styled(headerStyle, header))

	if len(p.Entries) == 0 {
		fmt.Fprintln(w, styled(dimStyle, "No jobs are eligible for this trigger."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tOS\tTOOLCHAIN\tPHASE\tMODE")
	for _, e := range p.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Job, e.Cell.OS, e.Cell.Toolchain, e.Phase, modeString(e.Mode))
	}
	tw.Flush()
}

// modeString formats an execution mode for display.
func modeString(m plan.Mode) string {
	if m.Kind == plan.ModeSequential {
		return fmt.Sprintf("sequential(%d)", m.Threads)
	}
	return "parallel(auto)"
}

// renderReport prints one status line per entry plus a summary.
func renderReport(w io.Writer, rep *runner.Report) {
	fmt.Fprintln(w, styled(headerStyle, "Run "+rep.RunID))

	for _, res := range rep.Results {
		switch res.Status {
		case runner.StatusPassed:
			fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), res.Entry.Key())
		case runner.StatusFailed:
			fmt.Fprintf(w, "%s %s: %s\n", color.RedString("✗"), res.Entry.Key(), res.Error)
		case runner.StatusSkipped:
			fmt.Fprintf(w, "%s %s (skipped)\n", color.YellowString("•"), res.Entry.Key())
		}
	}

	passed, failed, skipped := rep.Counts()
	summary := fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		passed, failed, skipped, rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	fmt.Fprintln(w, styled(dimStyle, summary))
}
