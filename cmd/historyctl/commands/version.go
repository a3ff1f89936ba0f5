package commands

import (
	"fmt"

	"github.com/indredK/history-sub002/internal/buildconfig"
	"github.com/spf13/cobra"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "historyctl %s\n", buildconfig.String())
		},
	}
}
