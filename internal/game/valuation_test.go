package game

import (
	"testing"

	"stockgame/internal/models"
)

func TestPortfolioValue(t *testing.T) {
	holdings := models.Holdings{
		"AAPL": {Shares: 10, AvgCost: 100},
		"MSFT": {Shares: 5, AvgCost: 200},
	}
	closes := map[string]float64{"AAPL": 120, "MSFT": 400}

	got := PortfolioValue(5000, holdings, closes)
	want := 5000 + 10*120.0 + 5*400.0
	if got != want {
		t.Fatalf("value = %.2f, want %.2f", got, want)
	}
}

func TestPortfolioValueMissingPrice(t *testing.T) {
	holdings := models.Holdings{"AAPL": {Shares: 10, AvgCost: 100}}
	if got := PortfolioValue(1000, holdings, map[string]float64{}); got != 1000 {
		t.Fatalf("value with no prices = %.2f, want cash only", got)
	}
}

func TestReturns(t *testing.T) {
	if got := ReturnPct(12000, 10000); got != 20 {
		t.Fatalf("return pct = %.2f, want 20", got)
	}
	if got := ReturnPct(8000, 10000); got != -20 {
		t.Fatalf("return pct = %.2f, want -20", got)
	}
	if got := ReturnPct(12000, 0); got != 0 {
		t.Fatalf("return pct with zero initial cash = %.2f, want 0", got)
	}
	if got := ReturnUSD(8200, 10000); got != -1800 {
		t.Fatalf("return usd = %.2f, want -1800", got)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		returnPct float64
		want      float64
	}{
		{returnPct: 20, want: 100},
		{returnPct: 10, want: 50},
		{returnPct: 1, want: 5},
		{returnPct: 0, want: 0},
		{returnPct: -15, want: 0}, // losses floor at zero
	}
	for _, tc := range tests {
		if got := Score(tc.returnPct); got != tc.want {
			t.Fatalf("Score(%.2f) = %.2f, want %.2f", tc.returnPct, got, tc.want)
		}
	}
}

func TestScoreMonotonic(t *testing.T) {
	prev := Score(-50)
	for pct := -49.0; pct <= 50; pct++ {
		cur := Score(pct)
		if cur < prev {
			t.Fatalf("score decreased from %.2f to %.2f at %.2f%%", prev, cur, pct)
		}
		prev = cur
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 150, want: "A"},
		{score: 100, want: "A"},
		{score: 99, want: "B"},
		{score: 50, want: "B"},
		{score: 20, want: "C"},
		{score: 5, want: "D"},
		{score: 0, want: "F"},
	}
	for _, tc := range tests {
		if got := GradeFor(tc.score); got != tc.want {
			t.Fatalf("GradeFor(%.2f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
