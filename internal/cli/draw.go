package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/khanglvm/daily-raffle/internal/draw"
)

// NewDrawCmd creates the 'draw' command that prints today's numbers.
func NewDrawCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw [number]",
		Short: "Draw today's lucky numbers around your fixed number",
		Long: `Draw five lucky numbers: your fixed number (1-60) plus four numbers
picked by weighted sampling.

If a draw was made less than 24 hours ago, that draw is shown again.
Without an argument the fixed number is read from standard input.`,
		Example: `  daily-raffle draw 7
  echo 42 | daily-raffle draw
  daily-raffle draw 7 --backend sqlite`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Enter your fixed number (%d-%d): ", draw.MinNumber, draw.MaxNumber)
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				raw = line
			}
			return runDraw(cmd, opts, raw)
		},
	}

	return cmd
}

func runDraw(cmd *cobra.Command, opts *globalOptions, raw string) error {
	fixed, err := draw.ParseFixedNumber(raw)
	if err != nil {
		return err
	}

	engine, _, closeStore, err := opts.newEngine(cmd, textLogs)
	if err != nil {
		return err
	}
	defer closeStore()

	numbers, err := engine.Generate(cmd.Context(), fixed)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Your numbers: %v\n", numbers)
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
