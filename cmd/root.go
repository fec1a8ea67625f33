package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootVerbose bool
	rootQuiet   bool
)

// NewRootCmd builds the gridci root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridci",
		Short: "CI plan engine",
		Long: `gridci decides which CI jobs run for a trigger event, on which
OS/toolchain combinations, and with which test-execution policy, then hands
the resulting plan to a command runner.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case rootQuiet:
				logrus.SetLevel(logrus.ErrorLevel)
			case rootVerbose:
				logrus.SetLevel(logrus.DebugLevel)
			default:
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(NewPlanCmd())
	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
