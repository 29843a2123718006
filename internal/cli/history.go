package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/daily-raffle/internal/draw"
)

// NewHistoryCmd creates the 'history' command for listing past draws.
func NewHistoryCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"ls"},
		Short:   "List past draws",
		Long:    `Display past draws, oldest first, and the draw that is currently active.`,
		Example: `  daily-raffle history
  daily-raffle history --limit 7
  daily-raffle history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, jsonOutput, limit)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output the raw history record as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N draws")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *globalOptions, jsonOutput bool, limit int) error {
	engine, _, closeStore, err := opts.newEngine(cmd, textLogs)
	if err != nil {
		return err
	}
	defer closeStore()

	h, err := engine.History(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}

	if h.IsEmpty() {
		fmt.Fprintln(out, "No draws yet.")
		fmt.Fprintln(out, "Run 'daily-raffle draw <number>' to make the first one.")
		return nil
	}

	draws := h.Draws
	if limit > 0 && limit < len(draws) {
		draws = draws[len(draws)-limit:]
	}

	fmt.Fprintf(out, "Draws (%d of %d):\n\n", len(draws), len(h.Draws))
	for _, d := range draws {
		fmt.Fprintf(out, "  %s  %v\n", d.Time.Local().Format("2006-01-02 15:04:05"), d.Numbers)
	}

	if last := h.LastDraw; last != nil {
		expires := last.Time.Add(draw.Window)
		if time.Now().Before(expires) {
			fmt.Fprintf(out, "\nActive draw %v until %s\n", last.Numbers, expires.Local().Format("2006-01-02 15:04"))
		}
	}

	return nil
}
