package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func NewGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> [id]",
		Short: "Fetch a resource collection or a single item",
		Long: `Fetch data the way the site does, through the server's data source.

Examples:
  historyctl get persons
  historyctl get dynasties tang`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/" + url.PathEscape(args[0])
			if len(args) == 2 {
				path += "/" + url.PathEscape(args[1])
			}

			var data json.RawMessage
			if err := opts.client().Do(cmd.Context(), http.MethodGet, path, nil, &data); err != nil {
				return fmt.Errorf("get %s: %w", args[0], err)
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
}
