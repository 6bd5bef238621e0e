package game

import "stockgame/internal/models"

// Portfolio valuation is always recomputed fresh from cash, holdings
// and the day's closing prices, never accumulated incrementally.

// PortfolioValue returns cash plus the market value of all holdings at
// the given closing prices. A ticker with no price contributes nothing.
func PortfolioValue(cash float64, holdings models.Holdings, closes map[string]float64) float64 {
	value := cash
	for ticker, holding := range holdings {
		value += float64(holding.Shares) * closes[ticker]
	}
	return value
}

// ReturnPct returns the percentage return over the initial cash.
func ReturnPct(value, initialCash float64) float64 {
	if initialCash == 0 {
		return 0
	}
	return (value - initialCash) / initialCash * 100
}

// ReturnUSD returns the dollar return over the initial cash.
func ReturnUSD(value, initialCash float64) float64 {
	return value - initialCash
}

// Score converts a return percentage into points: 5 points per 1%
// return, floored at zero. Deterministic in its inputs and monotonic
// in returnPct.
func Score(returnPct float64) float64 {
	points := returnPct * 5
	if points < 0 {
		return 0
	}
	return points
}

// GradeFor bands a score into a letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 100:
		return "A"
	case score >= 50:
		return "B"
	case score >= 20:
		return "C"
	case score >= 5:
		return "D"
	default:
		return "F"
	}
}
