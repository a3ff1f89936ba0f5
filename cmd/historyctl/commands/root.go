package commands

import (
	"os"
	"strings"
	"time"

	"github.com/indredK/history-sub002/internal/apiclient"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	server  string
	token   string
	timeout time.Duration
}

func (o *globalOptions) client() *apiclient.Client {
	return apiclient.New(strings.TrimRight(o.server, "/")+"/v1",
		apiclient.WithBearerToken(o.token),
		apiclient.WithTimeout(o.timeout),
	)
}

// NewRootCmd creates the historyctl root command.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "historyctl",
		Short: "Inspect and control the history data server",
		Long: `historyctl talks to a running history data server.

It shows which data source the server reads from, whether API reads are
currently degraded to local data, and drives the fallback controls.

Examples:
  historyctl status --watch
  historyctl fallback activate
  historyctl fallback config --threshold 5 --duration 2m
  historyctl get dynasties`,
		SilenceUsage: true,
	}

	server := os.Getenv("HISTORY_SERVER")
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", server, "Base URL of the history data server")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("ADMIN_TOKEN"), "Admin token for fallback controls")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", apiclient.DefaultTimeout, "Request timeout")

	cmd.AddCommand(
		NewStatusCmd(opts),
		NewFallbackCmd(opts),
		NewGetCmd(opts),
		NewVersionCmd(),
	)

	return cmd
}
