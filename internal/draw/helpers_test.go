package draw

import (
	"context"
	"slices"

	"github.com/khanglvm/daily-raffle/internal/history"
)

// sequenceRNG returns values from pre-set sequences, cycling when exhausted.
type sequenceRNG struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *sequenceRNG) Float64() float64 {
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *sequenceRNG) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)] % n
	r.ii++
	return v
}

// indexFloats returns floats that pick the given pool indices from a
// uniformly weighted pool of size n.
func indexFloats(n int, indices ...int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = (float64(idx) + 0.5) / float64(n)
	}
	return out
}

// uniformTable gives every number the same weight.
func uniformTable() *WeightTable {
	var w WeightTable
	for n := MinNumber; n <= MaxNumber; n++ {
		w.weights[n] = 1
	}
	return &w
}

func uniformScores(score int) map[int]int {
	scores := make(map[int]int, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		scores[n] = score
	}
	return scores
}

// memStore is an in-memory history.Store that hands out copies.
type memStore struct {
	h       *history.History
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func (m *memStore) Load(_ context.Context) (*history.History, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.h == nil {
		return &history.History{}, nil
	}
	return cloneHistory(m.h), nil
}

func (m *memStore) Save(_ context.Context, h *history.History) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.h = cloneHistory(h)
	return nil
}

func cloneHistory(h *history.History) *history.History {
	out := &history.History{}
	for _, d := range h.Draws {
		out.Draws = append(out.Draws, history.Draw{Time: d.Time, Numbers: slices.Clone(d.Numbers)})
	}
	if h.LastDraw != nil {
		last := history.Draw{Time: h.LastDraw.Time, Numbers: slices.Clone(h.LastDraw.Numbers)}
		out.LastDraw = &last
	}
	return out
}
