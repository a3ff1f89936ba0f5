package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// statusView mirrors the /v1/status and /v1/fallback payloads.
type statusView struct {
	Mode     string       `json:"mode"`
	Fallback fallbackView `json:"fallback"`
}

type fallbackView struct {
	IsActive     bool       `json:"isActive"`
	FailureCount int        `json:"failureCount"`
	ActivatedAt  *time.Time `json:"activatedAt"`
	LastError    *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"lastError"`
	Config struct {
		EnableAutoFallback bool     `json:"enableAutoFallback"`
		FallbackThreshold  int      `json:"fallbackThreshold"`
		FallbackDurationMs int64    `json:"fallbackDurationMs"`
		ExcludeErrorTypes  []string `json:"excludeErrorTypes"`
	} `json:"config"`
}

func (f fallbackView) duration() time.Duration {
	return time.Duration(f.Config.FallbackDurationMs) * time.Millisecond
}

func NewStatusCmd(opts *globalOptions) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the data source mode and fallback state",
		Long: `Show the server's data source mode and fallback state.

With --watch the status is refreshed every --interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !watch {
				return showStatus(ctx, opts, out, asJSON)
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				if err := showStatus(ctx, opts, out, asJSON); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "status: %v\n", err)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					fmt.Fprintln(out)
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Refresh interval for --watch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw status JSON")

	return cmd
}

func showStatus(ctx context.Context, opts *globalOptions, out io.Writer, asJSON bool) error {
	var raw json.RawMessage
	if err := opts.client().Do(ctx, http.MethodGet, "/status", nil, &raw); err != nil {
		return fmt.Errorf("fetching status: %w", err)
	}
	if asJSON {
		return printJSON(out, raw)
	}

	var st statusView
	if err := json.Unmarshal(raw, &st); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}
	printStatus(out, st, time.Now())
	return nil
}

func printStatus(out io.Writer, st statusView, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fb := st.Fallback
	fmt.Fprintf(w, "Mode:\t%s\n", st.Mode)
	fmt.Fprintf(w, "Fallback:\t%s\n", fallbackLabel(fb, now))
	fmt.Fprintf(w, "Failures:\t%d / %d\n", fb.FailureCount, fb.Config.FallbackThreshold)
	if fb.LastError != nil {
		fmt.Fprintf(w, "Last error:\t%s %s\n", fb.LastError.Kind, fb.LastError.Message)
	}
	auto := "on"
	if !fb.Config.EnableAutoFallback {
		auto = "off"
	}
	fmt.Fprintf(w, "Auto fallback:\t%s (duration %s)\n", auto, fb.duration())
	if len(fb.Config.ExcludeErrorTypes) > 0 {
		fmt.Fprintf(w, "Ignored errors:\t%s\n", strings.Join(fb.Config.ExcludeErrorTypes, ", "))
	}
}

// fallbackLabel shows the time left until the next call retries the API.
func fallbackLabel(fb fallbackView, now time.Time) string {
	if !fb.IsActive {
		return "inactive"
	}
	if fb.ActivatedAt == nil {
		return "ACTIVE"
	}
	left := fb.duration() - now.Sub(*fb.ActivatedAt)
	if left <= 0 {
		return "ACTIVE (recovers on next request)"
	}
	return fmt.Sprintf("ACTIVE (recovers in %s)", left.Round(time.Second))
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
