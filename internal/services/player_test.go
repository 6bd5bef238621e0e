package services

import (
	"testing"
	"time"

	"stockgame/internal/game"
	"stockgame/internal/models"
)

func tradingRoom() *models.Room {
	return &models.Room{
		RoomCode:  "ABC123",
		StartDate: "2025-01-06",
		Status:    models.RoomStatusInProgress,
		GameMode:  models.GameModeAsync,
		Config:    models.GameConfig{InitialCash: 10000, NumDays: 5, Tickers: []string{"AAPL"}},
	}
}

func tradingPlayer(room *models.Room) *models.Player {
	return &models.Player{
		PlayerName: "alice",
		Cash:       room.Config.InitialCash,
		Holdings:   models.Holdings{},
		Trades:     models.TradeLog{},
	}
}

func buyBundle(ticker string) *models.DayBundle {
	return &models.DayBundle{
		IsTradingDay: true,
		Recommendations: map[string]models.StockRecommendation{
			ticker: {Ticker: ticker, Recommendation: models.SignalBuy},
		},
	}
}

func TestExecuteTradesNextOpenExecution(t *testing.T) {
	room := tradingRoom()
	player := tradingPlayer(room)
	ps := &PlayerService{bundles: &fakeBundleService{
		opens:  map[string]float64{"AAPL": 100},
		bundle: buyBundle("AAPL"),
	}}

	orders := []TradeOrder{{Ticker: "aapl", Action: models.TradeActionBuy, Shares: 10}}
	if err := ps.executeTrades(player, room, 0, orders); err != nil {
		t.Fatalf("execute trades: %v", err)
	}

	if player.Cash != 9000 {
		t.Fatalf("cash = %.2f, want 9000", player.Cash)
	}
	if player.SharesOf("AAPL") != 10 {
		t.Fatalf("shares = %d, want 10", player.SharesOf("AAPL"))
	}
	if len(player.Trades) != 1 || player.Trades[0].Price != 100 || player.Trades[0].Day != 0 {
		t.Fatalf("trade log = %+v, want one trade at 100 on day 0", player.Trades)
	}
}

func TestExecuteTradesRejectsRepeatForDay(t *testing.T) {
	room := tradingRoom()
	player := tradingPlayer(room)
	ps := &PlayerService{bundles: &fakeBundleService{
		opens:  map[string]float64{"AAPL": 100},
		bundle: buyBundle("AAPL"),
	}}

	orders := []TradeOrder{{Ticker: "AAPL", Action: models.TradeActionBuy, Shares: 5}}
	if err := ps.executeTrades(player, room, 0, orders); err != nil {
		t.Fatalf("first trade: %v", err)
	}

	err := ps.executeTrades(player, room, 0, orders)
	rejection, ok := err.(*game.TradeRejection)
	if !ok || rejection.Reason != game.RejectDuplicateTrade {
		t.Fatalf("repeated trade error = %v, want duplicate rejection", err)
	}
	if player.SharesOf("AAPL") != 5 {
		t.Fatalf("rejected trade must not change holdings, got %d shares", player.SharesOf("AAPL"))
	}
}

func TestExecuteTradesBadStartDate(t *testing.T) {
	room := tradingRoom()
	room.StartDate = "not-a-date"
	player := tradingPlayer(room)
	ps := &PlayerService{bundles: &fakeBundleService{opens: map[string]float64{"AAPL": 100}}}

	orders := []TradeOrder{{Ticker: "AAPL", Action: models.TradeActionBuy, Shares: 1}}
	err := ps.executeTrades(player, room, 0, orders)
	if game.KindOf(err) != game.KindValidation {
		t.Fatalf("error kind = %v, want validation", game.KindOf(err))
	}
}

func TestRevalueRecomputesStanding(t *testing.T) {
	room := tradingRoom()
	player := tradingPlayer(room)
	player.Cash = 9000
	player.Holdings = models.Holdings{"AAPL": {Shares: 10, AvgCost: 100}}
	ps := &PlayerService{bundles: &fakeBundleService{
		closes: map[string]float64{"AAPL": 120},
	}}

	now := time.Now().UTC()
	if err := ps.revalue(player, room, 1, now); err != nil {
		t.Fatalf("revalue: %v", err)
	}

	if player.PortfolioValue != 10200 {
		t.Fatalf("portfolio value = %.2f, want 10200", player.PortfolioValue)
	}
	if player.TotalReturnPct != 2 || player.TotalReturnUSD != 200 {
		t.Fatalf("returns = %.2f%% / %.2f, want 2%% / 200", player.TotalReturnPct, player.TotalReturnUSD)
	}
	if player.Score != 10 || player.Grade != "D" {
		t.Fatalf("score/grade = %.1f/%s, want 10/D", player.Score, player.Grade)
	}
	if len(player.PortfolioHistory) != 1 || player.PortfolioHistory[0].Day != 1 || player.PortfolioHistory[0].Date != "2025-01-07" {
		t.Fatalf("history = %+v, want one snapshot for day 1 on 2025-01-07", player.PortfolioHistory)
	}

	// A second revaluation of the same day replaces the snapshot.
	if err := ps.revalue(player, room, 1, now); err != nil {
		t.Fatalf("revalue again: %v", err)
	}
	if len(player.PortfolioHistory) != 1 {
		t.Fatalf("same-day revaluation should replace the snapshot, got %d entries", len(player.PortfolioHistory))
	}
}

func TestRevalueBadStartDate(t *testing.T) {
	room := tradingRoom()
	room.StartDate = "not-a-date"
	player := tradingPlayer(room)
	ps := &PlayerService{bundles: &fakeBundleService{closes: map[string]float64{}}}

	err := ps.revalue(player, room, 0, time.Now().UTC())
	if game.KindOf(err) != game.KindValidation {
		t.Fatalf("error kind = %v, want validation", game.KindOf(err))
	}
}
