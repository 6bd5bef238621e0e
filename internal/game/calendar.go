package game

import "time"

// IsTradingDay reports whether d is a weekday (Mon-Fri). Market
// holidays are not modeled.
func IsTradingDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextTradingDay returns the smallest date strictly after d that is a
// trading day.
func NextTradingDay(d time.Time) time.Time {
	d = d.AddDate(0, 0, 1)
	for !IsTradingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// PrevTradingDay returns the largest date strictly before d that is a
// trading day.
func PrevTradingDay(d time.Time) time.Time {
	d = d.AddDate(0, 0, -1)
	for !IsTradingDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// TradingDaysBetween counts trading days in (start, end]. This is the
// single definition of the day ordinal: a room on date end is on day
// TradingDaysBetween(startDate, end), on every advance path.
func TradingDaysBetween(start, end time.Time) int {
	count := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsTradingDay(d) {
			count++
		}
	}
	return count
}

// DateForDay returns the date of the given trading-day ordinal relative
// to start (day 0 is start itself). Inverse of TradingDaysBetween for
// trading-day starts.
func DateForDay(start time.Time, day int) time.Time {
	d := start
	for i := 0; i < day; i++ {
		d = NextTradingDay(d)
	}
	return d
}
