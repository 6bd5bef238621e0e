package game

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestIsTradingDay(t *testing.T) {
	if !IsTradingDay(date("2025-01-06")) { // Monday
		t.Fatalf("expected Monday to be a trading day")
	}
	if !IsTradingDay(date("2025-01-10")) { // Friday
		t.Fatalf("expected Friday to be a trading day")
	}
	if IsTradingDay(date("2025-01-11")) { // Saturday
		t.Fatalf("expected Saturday to not be a trading day")
	}
	if IsTradingDay(date("2025-01-12")) { // Sunday
		t.Fatalf("expected Sunday to not be a trading day")
	}
}

func TestNextTradingDay(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{from: "2025-01-06", want: "2025-01-07"}, // Mon -> Tue
		{from: "2025-01-10", want: "2025-01-13"}, // Fri -> Mon
		{from: "2025-01-11", want: "2025-01-13"}, // Sat -> Mon
		{from: "2025-01-12", want: "2025-01-13"}, // Sun -> Mon
	}
	for _, tc := range tests {
		got := NextTradingDay(date(tc.from)).Format("2006-01-02")
		if got != tc.want {
			t.Fatalf("NextTradingDay(%s) = %s, want %s", tc.from, got, tc.want)
		}
	}
}

func TestPrevTradingDay(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{from: "2025-01-07", want: "2025-01-06"}, // Tue -> Mon
		{from: "2025-01-13", want: "2025-01-10"}, // Mon -> Fri
		{from: "2025-01-12", want: "2025-01-10"}, // Sun -> Fri
	}
	for _, tc := range tests {
		got := PrevTradingDay(date(tc.from)).Format("2006-01-02")
		if got != tc.want {
			t.Fatalf("PrevTradingDay(%s) = %s, want %s", tc.from, got, tc.want)
		}
	}
}

func TestTradingDaysBetween(t *testing.T) {
	tests := []struct {
		start string
		end   string
		want  int
	}{
		{start: "2025-01-06", end: "2025-01-06", want: 0},
		{start: "2025-01-06", end: "2025-01-07", want: 1},
		{start: "2025-01-06", end: "2025-01-10", want: 4},
		{start: "2025-01-06", end: "2025-01-13", want: 5}, // weekend skipped
		{start: "2025-01-10", end: "2025-01-13", want: 1}, // Fri -> Mon
	}
	for _, tc := range tests {
		got := TradingDaysBetween(date(tc.start), date(tc.end))
		if got != tc.want {
			t.Fatalf("TradingDaysBetween(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestDateForDayInvertsOrdinal(t *testing.T) {
	start := date("2025-01-06")
	for day := 0; day <= 10; day++ {
		d := DateForDay(start, day)
		if got := TradingDaysBetween(start, d); got != day {
			t.Fatalf("day %d maps to %s which maps back to ordinal %d", day, d.Format("2006-01-02"), got)
		}
	}
}
