/*
Package main is the entry point for the daily-raffle CLI.

daily-raffle draws a daily set of lucky numbers around a fixed number you
choose, and remembers the draw for 24 hours.

Usage:
  daily-raffle [command]

Available Commands:
  draw        Draw today's lucky numbers around your fixed number
  history     List past draws
  serve       Run the HTTP API
  config      Create or inspect the configuration file
  version     Show version information

Examples:
  daily-raffle draw 7
  daily-raffle history --limit 7
  daily-raffle serve --addr :9090
*/
package main

import (
	"fmt"
	"os"

	"github.com/khanglvm/daily-raffle/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
