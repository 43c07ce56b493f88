package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"DrawSentinel/internal/model"
)

func mkDraws(sets ...[]int) []model.Draw {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	draws := make([]model.Draw, len(sets))
	for i, s := range sets {
		draws[i] = model.Draw{Date: base.AddDate(0, 0, 3*i), Main: s[:5], Bonus: s[5:7]}
	}
	return draws
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.5 {
		t.Errorf("expected 3.5, got %.2f", got)
	}
	if _, err := CalculateSMA([]float64{1}, 2); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := CalculateSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateRSI(t *testing.T) {
	rsi, _ := CalculateRSI([]float64{1, 2}, 14)
	if rsi != 50 {
		t.Errorf("short series should default to 50, got %.1f", rsi)
	}
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(i)
	}
	rsi, _ = CalculateRSI(rising, 14)
	if rsi != 100 {
		t.Errorf("monotonic rise should give 100, got %.1f", rsi)
	}
	flat := make([]float64, 20)
	rsi, _ = CalculateRSI(flat, 14)
	if rsi != 50 {
		t.Errorf("flat series should give 50, got %.1f", rsi)
	}
}

func TestFrequencyAndGaps(t *testing.T) {
	draws := mkDraws(
		[]int{1, 2, 3, 4, 5, 1, 2},
		[]int{1, 10, 20, 30, 40, 1, 3},
		[]int{2, 11, 21, 31, 41, 4, 5},
	)
	freq := Frequency(draws, model.MainPool)
	if freq[model.MainPool.Index(1)] != 2 {
		t.Errorf("expected 1 drawn twice, got %d", freq[0])
	}
	last := FrequencyLast(draws, model.MainPool, 1)
	if last[model.MainPool.Index(1)] != 0 || last[model.MainPool.Index(41)] != 1 {
		t.Errorf("unexpected last-1 frequency: %v", last)
	}

	gaps := CurrentGaps(draws, model.MainPool)
	if g := gaps[model.MainPool.Index(1)]; g != 1 {
		t.Errorf("number 1 gap: expected 1, got %d", g)
	}
	if g := gaps[model.MainPool.Index(2)]; g != 0 {
		t.Errorf("number 2 gap: expected 0, got %d", g)
	}
	if g := gaps[model.MainPool.Index(50)]; g != 3 {
		t.Errorf("never-drawn gap: expected 3, got %d", g)
	}

	avg := AverageGaps(draws, model.MainPool)
	if a := avg[model.MainPool.Index(2)]; a != 2 {
		t.Errorf("number 2 average gap: expected 2, got %.1f", a)
	}
	bonusGaps := CurrentGaps(draws, model.BonusPool)
	if g := bonusGaps[model.BonusPool.Index(1)]; g != 1 {
		t.Errorf("bonus 1 gap: expected 1, got %d", g)
	}
}

func TestDecayedFrequency(t *testing.T) {
	draws := mkDraws(
		[]int{1, 2, 3, 4, 5, 1, 2},
		[]int{6, 7, 8, 9, 10, 1, 2},
	)
	scores := DecayedFrequency(draws, model.MainPool, 1)
	if math.Abs(scores[model.MainPool.Index(6)]-1) > 1e-9 {
		t.Errorf("latest draw should weigh 1, got %.3f", scores[5])
	}
	if math.Abs(scores[model.MainPool.Index(1)]-0.5) > 1e-9 {
		t.Errorf("previous draw should weigh 0.5, got %.3f", scores[0])
	}
}

func TestPairsAndTransitions(t *testing.T) {
	draws := mkDraws(
		[]int{1, 2, 3, 4, 5, 1, 2},
		[]int{1, 2, 30, 40, 50, 1, 2},
	)
	pairs := PairCounts(draws, model.MainPool)
	if pairs[0][1] != 2 || pairs[1][0] != 2 {
		t.Errorf("expected 1-2 pair count 2, got %d/%d", pairs[0][1], pairs[1][0])
	}
	tr := Transitions(draws, model.MainPool)
	if tr[model.MainPool.Index(3)][model.MainPool.Index(50)] != 1 {
		t.Error("expected 3 -> 50 transition")
	}
	if tr[model.MainPool.Index(50)][model.MainPool.Index(3)] != 0 {
		t.Error("transitions are directional")
	}
}

func TestAppearanceSeries(t *testing.T) {
	draws := mkDraws(
		[]int{1, 2, 3, 4, 5, 1, 2},
		[]int{6, 7, 8, 9, 10, 1, 2},
		[]int{1, 7, 8, 9, 10, 1, 2},
	)
	s := AppearanceSeries(draws, model.MainPool, 1, 0)
	want := []float64{1, 0, 1}
	for i := range want {
		if s[i] != want[i] {
			t.Fatalf("series %v, want %v", s, want)
		}
	}
	c := CumulativeSeries(draws, model.MainPool, 1, 2)
	if len(c) != 2 || c[1] != 1 {
		t.Errorf("cumulative over last 2: %v", c)
	}
}

func TestDigitalRoot(t *testing.T) {
	tests := map[int]int{0: 0, 1: 1, 9: 9, 10: 1, 38: 2, 50: 5, 99: 9}
	for n, want := range tests {
		if got := DigitalRoot(n); got != want {
			t.Errorf("DigitalRoot(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	draws := mkDraws(
		[]int{1, 2, 3, 4, 5, 1, 2},
		[]int{1, 10, 20, 30, 40, 1, 3},
	)
	st, err := Summarize(draws)
	if err != nil {
		t.Fatal(err)
	}
	if st.Count != 2 || st.MinSum != 15 || st.MaxSum != 101 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.HotMain[0].Number != 1 || st.HotMain[0].Score != 2 {
		t.Errorf("hottest main should be 1, got %+v", st.HotMain[0])
	}
	if st.HotBonus[0].Number != 1 {
		t.Errorf("hottest bonus should be 1, got %+v", st.HotBonus[0])
	}
	if len(st.ColdMain) != 5 || st.ColdMain[0].Score != 0 {
		t.Errorf("cold list: %+v", st.ColdMain)
	}
	if math.Abs(st.OddRatio-0.4) > 1e-9 {
		t.Errorf("odd ratio: expected 0.4, got %.2f", st.OddRatio)
	}
}
