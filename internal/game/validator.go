package game

import (
	"fmt"

	"stockgame/internal/models"
)

// RejectReason identifies why a trade was rejected.
type RejectReason string

const (
	RejectInvalidQuantity    RejectReason = "invalid_quantity"
	RejectDuplicateTrade     RejectReason = "duplicate_trade_for_day"
	RejectNotRecommended     RejectReason = "not_recommended"
	RejectInsufficientCash   RejectReason = "insufficient_cash"
	RejectInsufficientShares RejectReason = "insufficient_shares"
)

// TradeRejection is a validation failure for a single trade.
type TradeRejection struct {
	Reason  RejectReason
	Message string
}

func (r *TradeRejection) Error() string {
	return r.Message
}

func rejectf(reason RejectReason, format string, args ...interface{}) *TradeRejection {
	return &TradeRejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ValidateTrade checks a single trade against the player's state and
// the day's recommendation. execPrice is the execution price: the next
// trading day's opening price, never the price visible at order time.
// Returns nil when the trade is valid.
//
// Rules:
//   - shares must be a positive integer
//   - at most one trade per (ticker, day) per player
//   - BUY requires a BUY or STRONG_BUY recommendation and enough cash
//   - SELL is permitted regardless of recommendation, but requires
//     enough shares held
func ValidateTrade(player *models.Player, trade models.Trade, signal models.Signal, execPrice float64) *TradeRejection {
	if trade.Shares <= 0 {
		return rejectf(RejectInvalidQuantity, "shares must be a positive integer, got %d", trade.Shares)
	}

	if player.HasTradedOn(trade.Ticker, trade.Day) {
		return rejectf(RejectDuplicateTrade, "%s already traded on day %d", trade.Ticker, trade.Day)
	}

	switch trade.Action {
	case models.TradeActionBuy:
		if !signal.IsBuyable() {
			return rejectf(RejectNotRecommended, "buying %s requires a BUY or STRONG_BUY recommendation, got %s", trade.Ticker, signal)
		}
		cost := float64(trade.Shares) * execPrice
		if player.Cash < cost {
			return rejectf(RejectInsufficientCash, "buying %d %s costs %.2f but only %.2f cash available", trade.Shares, trade.Ticker, cost, player.Cash)
		}
	case models.TradeActionSell:
		if player.SharesOf(trade.Ticker) < trade.Shares {
			return rejectf(RejectInsufficientShares, "selling %d %s but only %d shares held", trade.Shares, trade.Ticker, player.SharesOf(trade.Ticker))
		}
	default:
		return rejectf(RejectInvalidQuantity, "unknown trade action %q", trade.Action)
	}

	return nil
}

// ApplyTrade mutates the player's cash, holdings and trade log for a
// validated trade. Average cost is maintained on buys; a position sold
// to zero is removed.
func ApplyTrade(player *models.Player, trade models.Trade, execPrice float64) {
	trade.Price = execPrice

	switch trade.Action {
	case models.TradeActionBuy:
		cost := float64(trade.Shares) * execPrice
		player.Cash -= cost

		holding := player.Holdings[trade.Ticker]
		totalShares := holding.Shares + trade.Shares
		holding.AvgCost = (holding.AvgCost*float64(holding.Shares) + cost) / float64(totalShares)
		holding.Shares = totalShares
		if player.Holdings == nil {
			player.Holdings = models.Holdings{}
		}
		player.Holdings[trade.Ticker] = holding

	case models.TradeActionSell:
		player.Cash += float64(trade.Shares) * execPrice

		holding := player.Holdings[trade.Ticker]
		holding.Shares -= trade.Shares
		if holding.Shares <= 0 {
			delete(player.Holdings, trade.Ticker)
		} else {
			player.Holdings[trade.Ticker] = holding
		}
	}

	player.Trades = append(player.Trades, trade)
}
