package commands

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func NewFallbackCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fallback",
		Short: "Control the API fallback",
		Long: `Force, clear or reconfigure the fallback to local data.

Changing commands need --token (or ADMIN_TOKEN) when the server has an admin
token configured.`,
	}

	cmd.AddCommand(
		newFallbackActionCmd(opts, "activate", "Serve local data until deactivated or the duration elapses"),
		newFallbackActionCmd(opts, "deactivate", "Return to the API immediately"),
		newFallbackActionCmd(opts, "reset", "Clear the fallback state and failure count"),
		newFallbackConfigCmd(opts),
	)
	return cmd
}

func newFallbackActionCmd(opts *globalOptions, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fb fallbackView
			if err := opts.client().Do(cmd.Context(), http.MethodPost, "/fallback/"+action, nil, &fb); err != nil {
				return fmt.Errorf("fallback %s: %w", action, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fallback: %s\n", fallbackLabel(fb, time.Now()))
			return nil
		},
	}
}

type configPatch struct {
	EnableAutoFallback *bool    `json:"enableAutoFallback,omitempty"`
	FallbackThreshold  *int     `json:"fallbackThreshold,omitempty"`
	FallbackDurationMs *int64   `json:"fallbackDurationMs,omitempty"`
	ExcludeErrorTypes  []string `json:"excludeErrorTypes"`
}

func newFallbackConfigCmd(opts *globalOptions) *cobra.Command {
	var (
		enabled   bool
		threshold int
		duration  time.Duration
		exclude   []string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the fallback configuration",
		Long: `Show the fallback configuration, or update the fields given as flags.

Examples:
  historyctl fallback config
  historyctl fallback config --threshold 5 --duration 2m
  historyctl fallback config --exclude CLIENT_ERROR,TIMEOUT_ERROR
  historyctl fallback config --enabled=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch configPatch
			flags := cmd.Flags()
			if flags.Changed("enabled") {
				patch.EnableAutoFallback = &enabled
			}
			if flags.Changed("threshold") {
				patch.FallbackThreshold = &threshold
			}
			if flags.Changed("duration") {
				ms := duration.Milliseconds()
				patch.FallbackDurationMs = &ms
			}
			if flags.Changed("exclude") {
				patch.ExcludeErrorTypes = append([]string{}, exclude...)
			}

			var fb fallbackView
			if patch.empty() {
				if err := opts.client().Do(cmd.Context(), http.MethodGet, "/fallback", nil, &fb); err != nil {
					return fmt.Errorf("fetching fallback config: %w", err)
				}
			} else if err := opts.client().Do(cmd.Context(), http.MethodPatch, "/fallback/config", patch, &fb); err != nil {
				return fmt.Errorf("updating fallback config: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), fb.Config)
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", true, "Enable automatic fallback")
	cmd.Flags().IntVar(&threshold, "threshold", 3, "Consecutive failures before falling back")
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Minute, "How long to stay on local data")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, `Error kinds that never trigger fallback ("" clears the list)`)

	return cmd
}

func (p configPatch) empty() bool {
	return p.EnableAutoFallback == nil && p.FallbackThreshold == nil &&
		p.FallbackDurationMs == nil && p.ExcludeErrorTypes == nil
}
