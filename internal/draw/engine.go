/*
Package draw computes the daily lucky-number draw.

A draw is the user's fixed number plus Picks numbers chosen by weighted
sampling from the rest of the universe. One draw is valid for the whole
system for Window after it was made: inside the window every request gets
the stored draw back, whatever fixed number it asks for.
*/
package draw

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/khanglvm/daily-raffle/internal/history"
)

const (
	// Picks is how many numbers are drawn besides the fixed one.
	Picks = 4

	// OversampleSize is the size of one weighted batch drawn with replacement.
	OversampleSize = 20

	// MaxOversampleRounds caps the batches drawn when dedup leaves fewer
	// than Picks unique numbers.
	MaxOversampleRounds = 5

	// Window is how long a draw stays valid.
	Window = 24 * time.Hour
)

// ValidateFixedNumber checks that n lies in [MinNumber, MaxNumber].
func ValidateFixedNumber(n int) error {
	if n < MinNumber || n > MaxNumber {
		return &InvalidInputError{Input: strconv.Itoa(n)}
	}
	return nil
}

// ParseFixedNumber parses raw user input into a valid fixed number.
func ParseFixedNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidInputError{Input: raw, NotANumber: true}
	}
	if err := ValidateFixedNumber(n); err != nil {
		return 0, err
	}
	return n, nil
}

// Engine produces the day's draw and keeps the history up to date.
// It holds no state between calls besides its weight table: every call
// reloads the history from the store.
type Engine struct {
	store   history.Store
	weights *WeightTable
	rng     RNG
	now     func() time.Time
	logger  *slog.Logger
}

// NewEngine creates an engine over store using the given weights and RNG.
func NewEngine(store history.Store, weights *WeightTable, rng RNG, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   store,
		weights: weights,
		rng:     rng,
		now:     time.Now,
		logger:  logger,
	}
}

// Generate returns the current draw for fixed.
//
// If the last stored draw is younger than Window it is returned unchanged,
// even when it was made for a different fixed number. Otherwise a new draw
// is computed, recorded and saved before it is returned.
func (e *Engine) Generate(ctx context.Context, fixed int) ([]int, error) {
	if err := ValidateFixedNumber(fixed); err != nil {
		return nil, err
	}

	h, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	now := e.now()
	if last := h.LastDraw; last != nil && now.Sub(last.Time.Time) < Window {
		e.logger.Debug("returning cached draw",
			"drawn_at", last.Time.Time,
			"numbers", last.Numbers,
			"requested", fixed,
		)
		return slices.Clone(last.Numbers), nil
	}

	result := e.compute(fixed)

	h.Record(history.Draw{Time: history.NewTimestamp(now), Numbers: result})
	if err := e.store.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}

	e.logger.Info("new draw", "fixed", fixed, "numbers", result, "total_draws", len(h.Draws))
	return slices.Clone(result), nil
}

// History returns the persisted history without changing it.
func (e *Engine) History(ctx context.Context) (*history.History, error) {
	h, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return h, nil
}

// compute draws Picks numbers besides fixed and returns the sorted result.
func (e *Engine) compute(fixed int) []int {
	population := pool(fixed)
	weights := make([]float64, len(population))
	for i, n := range population {
		weights[i] = e.weights.Weight(n)
	}

	picked := make([]int, 0, Picks)
	for round := 0; round < MaxOversampleRounds && len(picked) < Picks; round++ {
		sample := choices(e.rng, population, weights, OversampleSize)
		picked = appendUnique(picked, sample, Picks)
	}
	if len(picked) < Picks {
		e.logger.Warn("weights too skewed, returning a short draw",
			"fixed", fixed,
			"picked", len(picked),
			"wanted", Picks,
		)
	}

	result := append([]int{fixed}, picked...)
	slices.Sort(result)
	return result
}
