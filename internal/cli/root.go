/*
Package cli implements the daily-raffle commands.

Every command resolves its settings the same way: command-line flags win
over RAFFLE_* environment variables, which win over ~/.daily-raffle.json,
which wins over built-in defaults.
*/
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/khanglvm/daily-raffle/internal/config"
	"github.com/khanglvm/daily-raffle/internal/draw"
	"github.com/khanglvm/daily-raffle/internal/history"
	"github.com/khanglvm/daily-raffle/internal/storage"
	"github.com/khanglvm/daily-raffle/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath  string
	historyPath string
	backend     string
	logLevel    string
	seed        uint64
}

// NewRootCmd builds the daily-raffle command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "daily-raffle",
		Short: "Draw your daily lucky numbers",
		Long: `daily-raffle draws a daily set of lucky numbers.

You pick one fixed number between 1 and 60; four more are drawn with
frequency-weighted sampling. A draw stays valid for 24 hours: asking again
within that window returns the same numbers, whatever fixed number you give.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.daily-raffle.json)")
	flags.StringVar(&opts.historyPath, "history", "", "History file or database path")
	flags.StringVar(&opts.backend, "backend", "", "History backend: json or sqlite")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.Uint64Var(&opts.seed, "seed", 0, "Seed the random source for a reproducible draw")
	_ = flags.MarkHidden("seed")

	rootCmd.AddCommand(NewDrawCmd(opts))
	rootCmd.AddCommand(NewHistoryCmd(opts))
	rootCmd.AddCommand(NewServeCmd(opts))
	rootCmd.AddCommand(NewConfigCmd(opts))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// loadConfig reads the config file and env, then applies flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.backend != "" {
		cfg.History.Backend = o.backend
	}
	if o.historyPath != "" {
		cfg.History.Path = o.historyPath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logFormat selects the slog handler a command logs with.
type logFormat int

const (
	textLogs logFormat = iota
	jsonLogs
)

// newLogger returns a logger writing to w at the configured level.
func newLogger(cfg *config.Config, w io.Writer, format logFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if format == jsonLogs {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openStore opens the configured history backend. The returned close
// function must be called when done.
func openStore(cfg *config.Config, logger *slog.Logger) (history.Store, func() error, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.History.Backend {
	case config.BackendSQLite:
		s := storage.NewStorage(path, logger)
		if err := s.Init(); err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return history.NewFileStore(path, logger), func() error { return nil }, nil
	}
}

// rng returns the process random source, seeded when --seed is given.
func (o *globalOptions) rng() draw.RNG {
	if o.seed != 0 {
		return draw.NewSeededRNG(o.seed)
	}
	return draw.NewRNG()
}

// newEngine wires config, store, weights and logger into a draw engine.
// The weight table is built here, once per process.
func (o *globalOptions) newEngine(cmd *cobra.Command, format logFormat) (*draw.Engine, *config.Config, func() error, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr(), format)
	store, closeFn, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open history: %w", err)
	}

	rng := o.rng()
	weights := draw.RandomWeightTable(rng)
	return draw.NewEngine(store, weights, rng, logger), cfg, closeFn, nil
}
