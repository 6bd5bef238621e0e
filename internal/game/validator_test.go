package game

import (
	"testing"

	"stockgame/internal/models"
)

func freshPlayer(cash float64) *models.Player {
	return &models.Player{
		PlayerName: "alice",
		Cash:       cash,
		Holdings:   models.Holdings{},
		Trades:     models.TradeLog{},
	}
}

func buy(ticker string, shares, day int) models.Trade {
	return models.Trade{Ticker: ticker, Action: models.TradeActionBuy, Shares: shares, Day: day}
}

func sell(ticker string, shares, day int) models.Trade {
	return models.Trade{Ticker: ticker, Action: models.TradeActionSell, Shares: shares, Day: day}
}

func TestValidateTradeQuantity(t *testing.T) {
	player := freshPlayer(10000)
	for _, shares := range []int{0, -5} {
		r := ValidateTrade(player, buy("AAPL", shares, 0), models.SignalBuy, 100)
		if r == nil || r.Reason != RejectInvalidQuantity {
			t.Fatalf("shares=%d expected invalid_quantity, got %v", shares, r)
		}
	}
}

func TestValidateTradeBuySignal(t *testing.T) {
	player := freshPlayer(10000)
	tests := []struct {
		signal models.Signal
		ok     bool
	}{
		{signal: models.SignalStrongBuy, ok: true},
		{signal: models.SignalBuy, ok: true},
		{signal: models.SignalHold, ok: false},
		{signal: models.SignalSell, ok: false},
		{signal: models.SignalStrongSell, ok: false},
	}
	for _, tc := range tests {
		r := ValidateTrade(player, buy("AAPL", 10, 0), tc.signal, 100)
		if tc.ok && r != nil {
			t.Fatalf("signal %s should permit buying, got %v", tc.signal, r)
		}
		if !tc.ok {
			if r == nil || r.Reason != RejectNotRecommended {
				t.Fatalf("signal %s expected not_recommended, got %v", tc.signal, r)
			}
		}
	}
}

func TestValidateTradeSellIgnoresSignal(t *testing.T) {
	player := freshPlayer(0)
	player.Holdings["AAPL"] = models.Holding{Shares: 10, AvgCost: 90}

	r := ValidateTrade(player, sell("AAPL", 5, 0), models.SignalStrongSell, 100)
	if r != nil {
		t.Fatalf("selling held shares should not depend on the signal: %v", r)
	}
}

func TestValidateTradeInsufficientCash(t *testing.T) {
	player := freshPlayer(500)
	r := ValidateTrade(player, buy("AAPL", 10, 0), models.SignalBuy, 100)
	if r == nil || r.Reason != RejectInsufficientCash {
		t.Fatalf("expected insufficient_cash, got %v", r)
	}

	// Exactly enough cash is fine.
	player.Cash = 1000
	if r := ValidateTrade(player, buy("AAPL", 10, 0), models.SignalBuy, 100); r != nil {
		t.Fatalf("exact cash should be accepted: %v", r)
	}
}

func TestValidateTradeInsufficientShares(t *testing.T) {
	player := freshPlayer(10000)
	r := ValidateTrade(player, sell("AAPL", 1, 0), models.SignalSell, 100)
	if r == nil || r.Reason != RejectInsufficientShares {
		t.Fatalf("expected insufficient_shares, got %v", r)
	}

	player.Holdings["AAPL"] = models.Holding{Shares: 3, AvgCost: 90}
	r = ValidateTrade(player, sell("AAPL", 5, 0), models.SignalSell, 100)
	if r == nil || r.Reason != RejectInsufficientShares {
		t.Fatalf("expected insufficient_shares for oversell, got %v", r)
	}
}

func TestValidateTradeOnePerTickerPerDay(t *testing.T) {
	player := freshPlayer(10000)
	ApplyTrade(player, buy("AAPL", 10, 2), 100)

	r := ValidateTrade(player, buy("AAPL", 5, 2), models.SignalBuy, 100)
	if r == nil || r.Reason != RejectDuplicateTrade {
		t.Fatalf("expected duplicate_trade_for_day, got %v", r)
	}

	// A different ticker the same day, or the same ticker another day,
	// are both allowed.
	if r := ValidateTrade(player, buy("MSFT", 5, 2), models.SignalBuy, 100); r != nil {
		t.Fatalf("different ticker should be allowed: %v", r)
	}
	if r := ValidateTrade(player, buy("AAPL", 5, 3), models.SignalBuy, 100); r != nil {
		t.Fatalf("different day should be allowed: %v", r)
	}
}

func TestApplyTradeBuySellRoundTrip(t *testing.T) {
	player := freshPlayer(10000)

	ApplyTrade(player, buy("AAPL", 10, 0), 100)
	if player.Cash != 9000 {
		t.Fatalf("cash after buy = %.2f, want 9000", player.Cash)
	}
	h := player.Holdings["AAPL"]
	if h.Shares != 10 || h.AvgCost != 100 {
		t.Fatalf("holding after buy = %+v", h)
	}

	// Second buy at a higher price moves the average cost.
	ApplyTrade(player, buy("AAPL", 10, 1), 120)
	h = player.Holdings["AAPL"]
	if h.Shares != 20 || h.AvgCost != 110 {
		t.Fatalf("holding after second buy = %+v, want 20 shares at 110", h)
	}

	ApplyTrade(player, sell("AAPL", 20, 2), 130)
	if _, held := player.Holdings["AAPL"]; held {
		t.Fatalf("position sold to zero should be removed")
	}
	if player.Cash != 10000-1000-1200+2600 {
		t.Fatalf("cash after round trip = %.2f", player.Cash)
	}

	if len(player.Trades) != 3 {
		t.Fatalf("trade log has %d entries, want 3", len(player.Trades))
	}
	if player.Trades[2].Price != 130 {
		t.Fatalf("trade log should record the execution price")
	}
}
