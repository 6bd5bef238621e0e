package services

import (
	"log"
	"strings"
	"time"

	"stockgame/internal/dao/rooms"
	"stockgame/internal/game"
	"stockgame/internal/models"
	"stockgame/internal/services/market"
	"stockgame/internal/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TradeOrder is a single trade submitted by a client for its current
// day. Price and execution day are assigned server-side.
type TradeOrder struct {
	Ticker string             `json:"ticker"`
	Action models.TradeAction `json:"action"`
	Shares int                `json:"shares"`
}

// UpdateStateParams carries a player's day progression and the trades
// placed on that day. Cash, holdings and portfolio value are never
// taken from the client; they are recomputed here.
type UpdateStateParams struct {
	CurrentDay int
	Trades     []TradeOrder
}

// RoomState is the synchronization snapshot clients poll or receive
// over the room channel.
type RoomState struct {
	RoomCode          string            `json:"room_code"`
	Status            models.RoomStatus `json:"status"`
	GameMode          models.GameMode   `json:"game_mode"`
	CurrentDay        int               `json:"current_day"`
	CurrentDate       *string           `json:"current_date"`
	TotalDays         int               `json:"total_days"`
	DayStartedAt      *time.Time        `json:"day_started_at"`
	TimeRemaining     *int              `json:"time_remaining"`
	ReadyCount        int               `json:"ready_count"`
	TotalPlayers      int               `json:"total_players"`
	WaitingForTeacher bool              `json:"waiting_for_teacher"`
}

// PlayerService handles player day progression, trade validation and
// leaderboard queries
type PlayerService struct {
	db          *gorm.DB
	roomDAO     rooms.RoomDAOInterface
	playerDAO   rooms.PlayerDAOInterface
	bundles     market.BundleServiceInterface
	broadcaster RoomBroadcaster
}

// NewPlayerService creates a new player service. The broadcaster may
// be nil.
func NewPlayerService(db *gorm.DB, roomDAO rooms.RoomDAOInterface, playerDAO rooms.PlayerDAOInterface, bundles market.BundleServiceInterface, broadcaster RoomBroadcaster) *PlayerService {
	return &PlayerService{
		db:          db,
		roomDAO:     roomDAO,
		playerDAO:   playerDAO,
		bundles:     bundles,
		broadcaster: broadcaster,
	}
}

// UpdateState advances a player to the given day and executes the
// submitted trades. Every trade is validated against the server's own
// recommendation and price data, executed at the next trading day's
// opening price, and the portfolio is revalued at that day's close.
// The whole update is atomic: one rejected trade rejects the update.
// The player row is locked for the duration so concurrent updates for
// the same player serialize instead of double-applying trades.
func (ps *PlayerService) UpdateState(playerID uuid.UUID, params UpdateStateParams) (*models.Player, error) {
	var player *models.Player
	var room *models.Room

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		var err error
		player, err = ps.playerDAO.GetPlayerForUpdate(tx, playerID)
		if err != nil {
			return err
		}
		room, err = ps.roomDAO.GetRoomByID(player.RoomID)
		if err != nil {
			return err
		}

		if player.IsFinished {
			return game.InvalidStatef("player has already finished the game")
		}
		if room.Status != models.RoomStatusInProgress {
			return game.InvalidStatef("room %s is %s, not in progress", room.RoomCode, room.Status)
		}

		day := params.CurrentDay
		if day < player.CurrentDay {
			return game.Validationf("current_day %d is behind the player's day %d", day, player.CurrentDay)
		}
		if day > room.Config.NumDays {
			return game.Validationf("current_day %d exceeds the game length of %d days", day, room.Config.NumDays)
		}
		if room.GameMode != models.GameModeAsync && day > room.CurrentDay {
			return game.InvalidStatef("room %s is on day %d, cannot act on day %d", room.RoomCode, room.CurrentDay, day)
		}

		now := time.Now().UTC()

		if day >= room.Config.NumDays {
			if len(params.Trades) > 0 {
				return game.Validationf("no trades allowed past the final day")
			}
			ps.finishPlayer(player, day, now)
		} else {
			if err := ps.executeTrades(player, room, day, params.Trades); err != nil {
				return err
			}
			player.CurrentDay = day
		}

		if err := ps.revalue(player, room, day, now); err != nil {
			return err
		}
		player.LastActionAt = now

		return ps.playerDAO.SavePlayer(tx, player)
	})
	if err != nil {
		return nil, err
	}

	if ps.broadcaster != nil {
		players, err := ps.playerDAO.GetPlayersByRoom(room.ID)
		if err == nil {
			ps.broadcaster.BroadcastToRoom(room.RoomCode, types.MessageTypeLeaderboardUpdate, game.Leaderboard(players))
		}
	}
	return player, nil
}

// executeTrades validates and applies the day's trades in order.
func (ps *PlayerService) executeTrades(player *models.Player, room *models.Room, day int, orders []TradeOrder) error {
	if len(orders) == 0 {
		return nil
	}

	start, err := room.StartDateTime()
	if err != nil {
		return game.Validationf("invalid start date: %v", err)
	}
	tradeDate := game.DateForDay(start, day)
	bundle, err := ps.bundles.GetDayBundle(tradeDate.Format(models.DateLayout), room.Config.Tickers)
	if err != nil {
		return err
	}
	execDate := game.NextTradingDay(tradeDate).Format(models.DateLayout)
	opens, err := ps.bundles.OpenPrices(execDate, room.Config.Tickers)
	if err != nil {
		return err
	}

	for _, order := range orders {
		ticker := strings.ToUpper(strings.TrimSpace(order.Ticker))
		if !containsTicker(room.Config.Tickers, ticker) {
			return game.Validationf("ticker %s is not part of this game", ticker)
		}
		execPrice, ok := opens[ticker]
		if !ok {
			return game.Validationf("no market data for %s on %s", ticker, execDate)
		}

		trade := models.Trade{
			Ticker: ticker,
			Action: order.Action,
			Shares: order.Shares,
			Day:    day,
		}
		rec, ok := bundle.Recommendations[ticker]
		signal := models.SignalHold
		if ok {
			signal = rec.Recommendation
		}
		if rejection := game.ValidateTrade(player, trade, signal, execPrice); rejection != nil {
			return rejection
		}
		game.ApplyTrade(player, trade, execPrice)
		log.Printf("Player %s %s %d %s @ %.2f on day %d", player.PlayerName, trade.Action, trade.Shares, ticker, execPrice, day)
	}
	return nil
}

// revalue recomputes portfolio value, returns, score and grade at the
// day's closing prices and records the day's snapshot.
func (ps *PlayerService) revalue(player *models.Player, room *models.Room, day int, now time.Time) error {
	valueDay := day
	if valueDay >= room.Config.NumDays {
		valueDay = room.Config.NumDays - 1
	}
	start, err := room.StartDateTime()
	if err != nil {
		return game.Validationf("invalid start date: %v", err)
	}
	date := game.DateForDay(start, valueDay).Format(models.DateLayout)
	closes, err := ps.bundles.ClosePrices(date, room.Config.Tickers)
	if err != nil {
		return err
	}

	initialCash := room.Config.InitialCash
	player.PortfolioValue = game.PortfolioValue(player.Cash, player.Holdings, closes)
	player.TotalReturnPct = game.ReturnPct(player.PortfolioValue, initialCash)
	player.TotalReturnUSD = game.ReturnUSD(player.PortfolioValue, initialCash)
	player.Score = game.Score(player.TotalReturnPct)
	player.Grade = game.GradeFor(player.Score)

	snapshot := models.PortfolioSnapshot{Day: valueDay, Date: date, Value: player.PortfolioValue}
	history := player.PortfolioHistory
	if n := len(history); n > 0 && history[n-1].Day == valueDay {
		history[n-1] = snapshot
	} else {
		history = append(history, snapshot)
	}
	player.PortfolioHistory = history
	return nil
}

func (ps *PlayerService) finishPlayer(player *models.Player, day int, now time.Time) {
	player.CurrentDay = day
	player.IsFinished = true
	if player.FinishedAt == nil {
		player.FinishedAt = &now
	}
}

// MarkReady flags a sync-mode player as ready for the next day. The
// flag is advisory: the teacher decides when to advance, the ready
// count just shows who is waiting.
func (ps *PlayerService) MarkReady(playerID uuid.UUID) (*models.Player, error) {
	var player *models.Player
	var room *models.Room

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		var err error
		player, err = ps.playerDAO.GetPlayerForUpdate(tx, playerID)
		if err != nil {
			return err
		}
		room, err = ps.roomDAO.GetRoomByID(player.RoomID)
		if err != nil {
			return err
		}
		if err := game.CheckReadyAllowed(room); err != nil {
			return err
		}

		player.IsReady = true
		player.LastSyncDay = room.CurrentDay
		player.LastActionAt = time.Now().UTC()
		return ps.playerDAO.SavePlayer(tx, player)
	})
	if err != nil {
		return nil, err
	}

	if ps.broadcaster != nil {
		players, err := ps.playerDAO.GetPlayersByRoom(room.ID)
		if err == nil {
			ps.broadcaster.BroadcastToRoom(room.RoomCode, types.MessageTypeRoomState, buildRoomState(room, players, time.Now().UTC()))
		}
	}
	return player, nil
}

// GetPlayer returns a single player.
func (ps *PlayerService) GetPlayer(playerID uuid.UUID) (*models.Player, error) {
	return ps.playerDAO.GetPlayerByID(playerID)
}

// Leaderboard returns the room's ranked standings.
func (ps *PlayerService) Leaderboard(roomCode string) ([]game.LeaderboardEntry, error) {
	room, err := ps.roomDAO.GetRoomByCode(strings.ToUpper(roomCode))
	if err != nil {
		return nil, err
	}
	return game.Leaderboard(room.Players), nil
}

// GetRoomState returns the room's synchronization snapshot.
func (ps *PlayerService) GetRoomState(roomCode string) (*RoomState, error) {
	room, err := ps.roomDAO.GetRoomByCode(strings.ToUpper(roomCode))
	if err != nil {
		return nil, err
	}
	return buildRoomState(room, room.Players, time.Now().UTC()), nil
}

func buildRoomState(room *models.Room, players []models.Player, now time.Time) *RoomState {
	readyCount := 0
	for i := range players {
		if players[i].IsReady {
			readyCount++
		}
	}
	return &RoomState{
		RoomCode:          room.RoomCode,
		Status:            room.Status,
		GameMode:          room.GameMode,
		CurrentDay:        room.CurrentDay,
		CurrentDate:       room.CurrentDate,
		TotalDays:         room.Config.NumDays,
		DayStartedAt:      room.DayStartedAt,
		TimeRemaining:     game.TimeRemaining(room, now),
		ReadyCount:        readyCount,
		TotalPlayers:      len(players),
		WaitingForTeacher: room.GameMode == models.GameModeSync && room.Status == models.RoomStatusInProgress,
	}
}

func containsTicker(tickers []string, ticker string) bool {
	for _, t := range tickers {
		if t == ticker {
			return true
		}
	}
	return false
}
