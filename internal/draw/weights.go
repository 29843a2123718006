package draw

import (
	"fmt"
	"slices"

	"github.com/khanglvm/daily-raffle/internal/history"
)

const (
	// MinNumber and MaxNumber bound the number universe.
	MinNumber = history.MinNumber
	MaxNumber = history.MaxNumber

	// MinScore and MaxScore bound a number's base frequency score.
	MinScore = 1
	MaxScore = 100

	// CommonDiscount scales the weight of numbers in CommonNumbers.
	CommonDiscount = 0.5
)

// CommonNumbers are the numbers that get a reduced selection weight.
var CommonNumbers = []int{3, 7, 11, 13, 21, 23, 27, 30, 33}

// IsCommon reports whether n is one of CommonNumbers.
func IsCommon(n int) bool {
	return slices.Contains(CommonNumbers, n)
}

// WeightTable holds one positive weight per number in [MinNumber, MaxNumber].
// It is built once by the process bootstrap and never modified afterwards.
type WeightTable struct {
	weights [MaxNumber + 1]float64
}

// NewWeightTable builds a table from a base frequency score per number.
// Every number in the universe needs a score in [MinScore, MaxScore];
// numbers in CommonNumbers are discounted by CommonDiscount.
func NewWeightTable(scores map[int]int) (*WeightTable, error) {
	var w WeightTable
	for n := MinNumber; n <= MaxNumber; n++ {
		score, ok := scores[n]
		if !ok {
			return nil, fmt.Errorf("missing score for number %d", n)
		}
		if score < MinScore || score > MaxScore {
			return nil, fmt.Errorf("score %d for number %d outside [%d, %d]", score, n, MinScore, MaxScore)
		}
		w.weights[n] = weightFor(n, float64(score))
	}
	if len(scores) != MaxNumber-MinNumber+1 {
		return nil, fmt.Errorf("scores given for numbers outside [%d, %d]", MinNumber, MaxNumber)
	}
	return &w, nil
}

// RandomWeightTable draws every base score uniformly from [MinScore, MaxScore].
func RandomWeightTable(rng RNG) *WeightTable {
	var w WeightTable
	for n := MinNumber; n <= MaxNumber; n++ {
		score := MinScore + rng.IntN(MaxScore-MinScore+1)
		w.weights[n] = weightFor(n, float64(score))
	}
	return &w
}

func weightFor(n int, score float64) float64 {
	if IsCommon(n) {
		return score * CommonDiscount
	}
	return score
}

// Weight returns the weight of n, or 0 outside the universe.
func (w *WeightTable) Weight(n int) float64 {
	if n < MinNumber || n > MaxNumber {
		return 0
	}
	return w.weights[n]
}
