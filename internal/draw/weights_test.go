package draw

import (
	"strings"
	"testing"
)

func TestNewWeightTableAppliesCommonDiscount(t *testing.T) {
	table, err := NewWeightTable(uniformScores(80))
	if err != nil {
		t.Fatalf("NewWeightTable failed: %v", err)
	}

	for n := MinNumber; n <= MaxNumber; n++ {
		want := 80.0
		if IsCommon(n) {
			want = 40.0
		}
		if got := table.Weight(n); got != want {
			t.Errorf("Weight(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestNewWeightTableRejectsBadScores(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[int]int)
		errPart string
	}{
		{"missing number", func(s map[int]int) { delete(s, 42) }, "missing score for number 42"},
		{"score too low", func(s map[int]int) { s[5] = 0 }, "outside"},
		{"score too high", func(s map[int]int) { s[5] = 101 }, "outside"},
		{"number out of range", func(s map[int]int) { s[61] = 10 }, "outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := uniformScores(50)
			tt.mutate(scores)

			_, err := NewWeightTable(scores)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errPart)
			}
		})
	}
}

func TestRandomWeightTableRange(t *testing.T) {
	table := RandomWeightTable(NewSeededRNG(42))

	for n := MinNumber; n <= MaxNumber; n++ {
		w := table.Weight(n)
		hi := float64(MaxScore)
		lo := float64(MinScore)
		if IsCommon(n) {
			hi *= CommonDiscount
			lo *= CommonDiscount
		}
		if w < lo || w > hi {
			t.Errorf("Weight(%d) = %v outside [%v, %v]", n, w, lo, hi)
		}
	}
}

func TestRandomWeightTableUsesFullScoreRange(t *testing.T) {
	// IntN(100) returning 99 means a score of 100.
	table := RandomWeightTable(&sequenceRNG{ints: []int{99}})

	if got := table.Weight(1); got != 100 {
		t.Errorf("Weight(1) = %v, want 100", got)
	}
	if got := table.Weight(7); got != 50 {
		t.Errorf("Weight(7) = %v, want 50 (common number)", got)
	}
}

func TestWeightOutsideUniverse(t *testing.T) {
	table := uniformTable()
	for _, n := range []int{-1, 0, 61, 100} {
		if got := table.Weight(n); got != 0 {
			t.Errorf("Weight(%d) = %v, want 0", n, got)
		}
	}
}

func TestIsCommon(t *testing.T) {
	for _, n := range []int{3, 7, 11, 13, 21, 23, 27, 30, 33} {
		if !IsCommon(n) {
			t.Errorf("IsCommon(%d) = false, want true", n)
		}
	}
	for _, n := range []int{1, 2, 60, 34} {
		if IsCommon(n) {
			t.Errorf("IsCommon(%d) = true, want false", n)
		}
	}
}
