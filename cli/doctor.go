package cli

import (
	"github.com/middleclick/middleclick/commands"
	"github.com/spf13/cobra"
)

var doctorInjector string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run system diagnostics",
	Long:  `Performs system diagnostics for better troubleshooting`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.DoctorCommand(GetVersion(), doctorInjector))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVar(&doctorInjector, "emit-cmd", "", "click injector to look up on PATH")
}
