package draw

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/khanglvm/daily-raffle/internal/history"
)

var baseTime = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestEngine(store history.Store, weights *WeightTable, rng RNG, now *time.Time) *Engine {
	e := NewEngine(store, weights, rng, nil)
	e.now = func() time.Time { return *now }
	return e
}

func assertValidDraw(t *testing.T, numbers []int, fixed int) {
	t.Helper()

	if len(numbers) != Picks+1 {
		t.Fatalf("expected %d numbers, got %v", Picks+1, numbers)
	}
	if !slices.Contains(numbers, fixed) {
		t.Errorf("draw %v does not contain fixed number %d", numbers, fixed)
	}
	if !slices.IsSorted(numbers) {
		t.Errorf("draw %v is not ascending", numbers)
	}
	for i, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			t.Errorf("draw %v has %d outside [%d, %d]", numbers, n, MinNumber, MaxNumber)
		}
		if i > 0 && numbers[i-1] == n {
			t.Errorf("draw %v has duplicate %d", numbers, n)
		}
	}
}

func TestGenerateRangeValidity(t *testing.T) {
	rng := NewSeededRNG(2026)
	weights := RandomWeightTable(rng)

	for fixed := MinNumber; fixed <= MaxNumber; fixed++ {
		now := baseTime
		e := newTestEngine(&memStore{}, weights, rng, &now)

		numbers, err := e.Generate(context.Background(), fixed)
		if err != nil {
			t.Fatalf("Generate(%d) failed: %v", fixed, err)
		}
		assertValidDraw(t, numbers, fixed)
	}
}

func TestGenerateDedupBeforeTruncation(t *testing.T) {
	// Pool for fixed=7 is 1..6, 8..60; index i maps to i+1 below 6 and i+2 above.
	indices := []int{10, 10, 3, 10, 3, 50, 20, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	rng := &sequenceRNG{floats: indexFloats(59, indices...)}
	now := baseTime
	e := newTestEngine(&memStore{}, uniformTable(), rng, &now)

	numbers, err := e.Generate(context.Background(), 7)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := []int{4, 7, 12, 22, 52}
	if !slices.Equal(numbers, want) {
		t.Errorf("got %v, want %v", numbers, want)
	}
	if rng.fi != OversampleSize {
		t.Errorf("expected one batch of %d samples, drew %d", OversampleSize, rng.fi)
	}
}

func TestGenerateResamplesWhenShort(t *testing.T) {
	// First batch yields only two unique values, second batch completes the draw.
	first := make([]int, OversampleSize)
	for i := range first {
		first[i] = i % 2
	}
	second := append([]int{0, 1, 30, 40}, make([]int, OversampleSize-4)...)
	rng := &sequenceRNG{floats: indexFloats(59, append(first, second...)...)}
	now := baseTime
	e := newTestEngine(&memStore{}, uniformTable(), rng, &now)

	numbers, err := e.Generate(context.Background(), 60)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := []int{1, 2, 31, 41, 60}
	if !slices.Equal(numbers, want) {
		t.Errorf("got %v, want %v", numbers, want)
	}
	if rng.fi != 2*OversampleSize {
		t.Errorf("expected two batches, drew %d samples", rng.fi)
	}
}

func TestGenerateShortDrawWhenWeightsDegenerate(t *testing.T) {
	// Every sample lands on the same number.
	rng := &sequenceRNG{floats: []float64{0}}
	store := &memStore{}
	now := baseTime
	e := newTestEngine(store, uniformTable(), rng, &now)

	numbers, err := e.Generate(context.Background(), 30)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := []int{1, 30}
	if !slices.Equal(numbers, want) {
		t.Errorf("got %v, want %v", numbers, want)
	}
	if rng.fi != MaxOversampleRounds*OversampleSize {
		t.Errorf("expected %d batches, drew %d samples", MaxOversampleRounds, rng.fi)
	}
	if store.saves != 1 {
		t.Errorf("short draw should still be saved, saves=%d", store.saves)
	}
}

func TestGenerateIdempotenceWindow(t *testing.T) {
	store := &memStore{}
	now := baseTime
	e := newTestEngine(store, uniformTable(), NewSeededRNG(3), &now)

	first, err := e.Generate(context.Background(), 7)
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	for _, offset := range []time.Duration{time.Minute, time.Hour, 23*time.Hour + 59*time.Minute} {
		now = baseTime.Add(offset)
		for _, fixed := range []int{7, 42, 1} {
			got, err := e.Generate(context.Background(), fixed)
			if err != nil {
				t.Fatalf("Generate at +%v failed: %v", offset, err)
			}
			if !slices.Equal(got, first) {
				t.Errorf("at +%v with fixed=%d: got %v, want cached %v", offset, fixed, got, first)
			}
		}
	}

	if store.saves != 1 {
		t.Errorf("cached path must not write, saves=%d", store.saves)
	}
	if len(store.h.Draws) != 1 {
		t.Errorf("expected 1 recorded draw, got %d", len(store.h.Draws))
	}
}

func TestGenerateWindowExpiry(t *testing.T) {
	store := &memStore{}
	now := baseTime
	e := newTestEngine(store, uniformTable(), NewSeededRNG(4), &now)

	if _, err := e.Generate(context.Background(), 7); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	now = baseTime.Add(Window)
	numbers, err := e.Generate(context.Background(), 42)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	assertValidDraw(t, numbers, 42)

	if store.saves != 2 {
		t.Errorf("expected a fresh draw to be saved, saves=%d", store.saves)
	}
	if !store.h.LastDraw.Time.Equal(now) {
		t.Errorf("last draw time: got %v, want %v", store.h.LastDraw.Time, now)
	}
	if len(store.h.Draws) != 2 {
		t.Errorf("expected 2 recorded draws, got %d", len(store.h.Draws))
	}
	if !slices.Equal(store.h.LastDraw.Numbers, numbers) {
		t.Errorf("last draw numbers %v, returned %v", store.h.LastDraw.Numbers, numbers)
	}
}

func TestGenerateReturnsCopyOfCachedDraw(t *testing.T) {
	store := &memStore{h: &history.History{}}
	store.h.Record(history.Draw{Time: history.NewTimestamp(baseTime), Numbers: []int{1, 2, 3, 4, 5}})
	now := baseTime.Add(time.Hour)
	e := newTestEngine(store, uniformTable(), NewSeededRNG(5), &now)

	got, err := e.Generate(context.Background(), 9)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	got[0] = 99

	again, _ := e.Generate(context.Background(), 9)
	if again[0] != 1 {
		t.Errorf("caller mutation leaked into the cached draw: %v", again)
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	store := &memStore{}
	now := baseTime
	e := newTestEngine(store, uniformTable(), NewSeededRNG(6), &now)

	for _, fixed := range []int{0, -5, 61, 1000} {
		_, err := e.Generate(context.Background(), fixed)

		var inputErr *InvalidInputError
		if !errors.As(err, &inputErr) {
			t.Errorf("Generate(%d): expected *InvalidInputError, got %v", fixed, err)
		}
	}
	if store.loads != 0 {
		t.Errorf("invalid input must not touch the store, loads=%d", store.loads)
	}
}

func TestGeneratePropagatesStorageErrors(t *testing.T) {
	loadErr := &history.StorageError{Op: "parse", Path: "h.json", Err: errors.New("bad json")}
	saveErr := &history.StorageError{Op: "write", Path: "h.json", Err: os.ErrPermission}

	tests := []struct {
		name  string
		store *memStore
		want  error
	}{
		{"load", &memStore{loadErr: loadErr}, loadErr},
		{"save", &memStore{saveErr: saveErr}, saveErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := baseTime
			e := newTestEngine(tt.store, uniformTable(), NewSeededRNG(8), &now)

			_, err := e.Generate(context.Background(), 7)

			var storageErr *history.StorageError
			if !errors.As(err, &storageErr) {
				t.Fatalf("expected *history.StorageError, got %v", err)
			}
			if storageErr != tt.want {
				t.Errorf("got %v, want %v", storageErr, tt.want)
			}
		})
	}
}

func TestGenerateConcreteScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), history.DefaultFileName)
	store := history.NewFileStore(path, nil)
	weights, err := NewWeightTable(uniformScores(50))
	if err != nil {
		t.Fatalf("NewWeightTable failed: %v", err)
	}
	now := baseTime
	e := newTestEngine(store, weights, NewSeededRNG(77), &now)

	first, err := e.Generate(context.Background(), 7)
	if err != nil {
		t.Fatalf("Generate(7) failed: %v", err)
	}
	assertValidDraw(t, first, 7)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("history file not written: %v", err)
	}
	var onDisk struct {
		Draws    []json.RawMessage `json:"draws"`
		LastDraw struct {
			Numbers []int `json:"numbers"`
		} `json:"last_draw"`
	}
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("history file is not valid JSON: %v", err)
	}
	if len(onDisk.Draws) != 1 {
		t.Errorf("expected 1 draw on disk, got %d", len(onDisk.Draws))
	}
	if !slices.Equal(onDisk.LastDraw.Numbers, first) {
		t.Errorf("last_draw.numbers = %v, want %v", onDisk.LastDraw.Numbers, first)
	}

	now = baseTime.Add(time.Hour)
	second, err := e.Generate(context.Background(), 42)
	if err != nil {
		t.Fatalf("Generate(42) failed: %v", err)
	}
	if !slices.Equal(second, first) {
		t.Errorf("within the window: got %v, want %v", second, first)
	}
}

func TestGenerateRejectsIncompleteCachedDraw(t *testing.T) {
	stamp := baseTime.In(time.Local).Format("2006-01-02T15:04:05")
	tests := []struct {
		name    string
		content string
	}{
		{"no numbers", `{"last_draw": {"time": "` + stamp + `"}}`},
		{"numbers out of range", `{"last_draw": {"time": "` + stamp + `", "numbers": [0, 99]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), history.DefaultFileName)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write history: %v", err)
			}
			now := baseTime.Add(time.Hour)
			e := newTestEngine(history.NewFileStore(path, nil), uniformTable(), NewSeededRNG(3), &now)

			got, err := e.Generate(context.Background(), 7)
			if err == nil {
				t.Fatalf("Generate returned %v, want a storage error", got)
			}
			var storageErr *history.StorageError
			if !errors.As(err, &storageErr) {
				t.Fatalf("expected *history.StorageError, got %T: %v", err, err)
			}
		})
	}
}

func TestHistoryReadsStore(t *testing.T) {
	store := &memStore{h: &history.History{}}
	store.h.Record(history.Draw{Time: history.NewTimestamp(baseTime), Numbers: []int{1, 2, 3, 4, 5}})
	now := baseTime
	e := newTestEngine(store, uniformTable(), NewSeededRNG(9), &now)

	h, err := e.History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(h.Draws) != 1 {
		t.Errorf("expected 1 draw, got %d", len(h.Draws))
	}
	if store.saves != 0 {
		t.Error("History must not write")
	}
}

func TestParseFixedNumber(t *testing.T) {
	tests := []struct {
		raw        string
		want       int
		wantErr    bool
		notANumber bool
	}{
		{"7", 7, false, false},
		{" 60 \n", 60, false, false},
		{"1", 1, false, false},
		{"0", 0, true, false},
		{"61", 0, true, false},
		{"-3", 0, true, false},
		{"seven", 0, true, true},
		{"", 0, true, true},
		{"4.5", 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseFixedNumber(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFixedNumber(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				var inputErr *InvalidInputError
				if !errors.As(err, &inputErr) {
					t.Fatalf("expected *InvalidInputError, got %T", err)
				}
				if inputErr.NotANumber != tt.notANumber {
					t.Errorf("NotANumber = %v, want %v", inputErr.NotANumber, tt.notANumber)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
