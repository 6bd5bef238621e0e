package services

import (
	"errors"
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

// RoomBroadcaster pushes room events to subscribed clients. Declared
// here to avoid an import cycle with the websocket handler package.
type RoomBroadcaster interface {
	BroadcastToRoom(roomCode string, msgType types.MessageType, data interface{})
}

const (
	defaultInitialCash = 10000
	defaultNumDays     = 30
	maxNumDays         = 90
	defaultDifficulty  = "medium"
)

var defaultTickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN"}

// CreateRoomParams are the caller-supplied room settings. Zero values
// fall back to game defaults; empty dates are resolved from the latest
// available market data.
type CreateRoomParams struct {
	CreatedBy          string
	RoomName           string
	Config             models.GameConfig
	StartDate          string
	EndDate            string
	GameMode           models.GameMode
	DayDurationSeconds *int
}

// RoomService handles room creation, joining and queries
type RoomService struct {
	db        *gorm.DB
	roomDAO   rooms.RoomDAOInterface
	playerDAO rooms.PlayerDAOInterface
	bundles   market.BundleServiceInterface
}

// NewRoomService creates a new room service
func NewRoomService(db *gorm.DB, roomDAO rooms.RoomDAOInterface, playerDAO rooms.PlayerDAOInterface, bundles market.BundleServiceInterface) *RoomService {
	return &RoomService{
		db:        db,
		roomDAO:   roomDAO,
		playerDAO: playerDAO,
		bundles:   bundles,
	}
}

// CreateRoom validates the configuration, resolves the game date range
// and creates a waiting room with a fresh 6-character code.
func (rs *RoomService) CreateRoom(params CreateRoomParams) (*models.Room, error) {
	if strings.TrimSpace(params.CreatedBy) == "" {
		return nil, game.Validationf("created_by is required")
	}

	config, err := normalizeConfig(params.Config)
	if err != nil {
		return nil, err
	}

	mode := params.GameMode
	if mode == "" {
		mode = models.GameModeAsync
	}
	switch mode {
	case models.GameModeAsync, models.GameModeSync, models.GameModeSyncAuto:
	default:
		return nil, game.Validationf("unknown game mode %q", mode)
	}

	startDate, endDate, err := rs.resolveDates(params.StartDate, params.EndDate, config.NumDays)
	if err != nil {
		return nil, err
	}

	if params.DayDurationSeconds != nil && *params.DayDurationSeconds <= 0 {
		return nil, game.Validationf("day_duration_seconds must be positive")
	}

	room := &models.Room{
		CreatedBy:          params.CreatedBy,
		RoomName:           params.RoomName,
		Config:             config,
		StartDate:          startDate,
		EndDate:            endDate,
		Status:             models.RoomStatusWaiting,
		GameMode:           mode,
		DayDurationSeconds: params.DayDurationSeconds,
	}

	// Room codes are random; retry the insert on the rare collision.
	for attempt := 0; attempt < 5; attempt++ {
		room.RoomCode = models.GenerateRoomCode()
		err = rs.roomDAO.CreateRoom(room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		log.Printf("Room code %s collided, regenerating", room.RoomCode)
	}
	return nil, err
}

// JoinRoom adds a named player to a room, seeded with the room's
// initial cash. In async mode the first join starts the game, since
// async players progress independently and need no synchronized start.
func (rs *RoomService) JoinRoom(roomCode, playerName, playerEmail string) (*models.Player, error) {
	if strings.TrimSpace(playerName) == "" {
		return nil, game.Validationf("player_name is required")
	}
	roomCode = strings.ToUpper(roomCode)

	var player *models.Player
	err := rs.db.Transaction(func(tx *gorm.DB) error {
		room, err := rs.roomDAO.GetRoomForUpdate(tx, roomCode, false)
		if err != nil {
			return err
		}

		if err := game.CheckJoinable(room); err != nil {
			return err
		}

		taken, err := rs.playerDAO.NameTaken(room.ID, playerName)
		if err != nil {
			return err
		}
		if taken {
			return game.Conflictf("player name %q is already taken in this room", playerName)
		}

		now := time.Now().UTC()
		player = &models.Player{
			ID:               uuid.New(),
			RoomID:           room.ID,
			PlayerName:       playerName,
			PlayerEmail:      playerEmail,
			Cash:             room.Config.InitialCash,
			Holdings:         models.Holdings{},
			Trades:           models.TradeLog{},
			PortfolioValue:   room.Config.InitialCash,
			Grade:            "C",
			PortfolioHistory: models.PortfolioHistory{},
			JoinedAt:         now,
			LastActionAt:     now,
		}
		if err := tx.Create(player).Error; err != nil {
			return err
		}

		if room.Status == models.RoomStatusWaiting && room.GameMode == models.GameModeAsync {
			if err := game.StartRoom(room, now); err != nil {
				return err
			}
			if err := rs.roomDAO.SaveRoom(tx, room); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Player %s joined room %s", playerName, roomCode)
	return player, nil
}

// GetRoom returns a room with its players.
func (rs *RoomService) GetRoom(roomCode string) (*models.Room, error) {
	return rs.roomDAO.GetRoomByCode(strings.ToUpper(roomCode))
}

// DeleteRoom removes a room and all its players.
func (rs *RoomService) DeleteRoom(roomCode string) error {
	room, err := rs.roomDAO.GetRoomByCode(strings.ToUpper(roomCode))
	if err != nil {
		return err
	}
	return rs.roomDAO.DeleteRoom(room.ID)
}

// ListRooms returns rooms newest first, optionally filtered by status.
func (rs *RoomService) ListRooms(status models.RoomStatus, limit int) ([]models.Room, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	return rs.roomDAO.ListRooms(status, limit)
}

func normalizeConfig(config models.GameConfig) (models.GameConfig, error) {
	if config.InitialCash == 0 {
		config.InitialCash = defaultInitialCash
	}
	if config.InitialCash < 0 {
		return config, game.Validationf("initial_cash must be positive")
	}

	if config.NumDays == 0 {
		config.NumDays = defaultNumDays
	}
	if config.NumDays < 1 || config.NumDays > maxNumDays {
		return config, game.Validationf("num_days must be between 1 and %d, got %d", maxNumDays, config.NumDays)
	}

	if len(config.Tickers) == 0 {
		config.Tickers = defaultTickers
	}
	for i, ticker := range config.Tickers {
		config.Tickers[i] = strings.ToUpper(strings.TrimSpace(ticker))
		if config.Tickers[i] == "" {
			return config, game.Validationf("tickers must not be empty")
		}
	}

	if config.Difficulty == "" {
		config.Difficulty = defaultDifficulty
	}
	switch config.Difficulty {
	case "easy", "medium", "hard":
	default:
		return config, game.Validationf("difficulty must be easy, medium or hard, got %q", config.Difficulty)
	}

	return config, nil
}

// resolveDates fills in missing calendar bounds: the end date defaults
// to the latest date with recommendation data, the start date to
// numDays calendar days before the end. The start is rolled forward to
// a trading day so day 0 is always tradable.
func (rs *RoomService) resolveDates(startDate, endDate string, numDays int) (string, string, error) {
	if endDate == "" {
		latest, err := rs.bundles.LatestDataDate()
		if err != nil {
			return "", "", err
		}
		endDate = latest
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return "", "", game.Validationf("invalid end_date %q: use YYYY-MM-DD", endDate)
	}

	var start time.Time
	if startDate == "" {
		start = end.AddDate(0, 0, -(numDays - 1))
	} else {
		start, err = time.Parse(models.DateLayout, startDate)
		if err != nil {
			return "", "", game.Validationf("invalid start_date %q: use YYYY-MM-DD", startDate)
		}
	}

	if !game.IsTradingDay(start) {
		start = game.NextTradingDay(start)
	}
	if start.After(end) {
		return "", "", game.Validationf("start_date %s is after end_date %s", start.Format(models.DateLayout), endDate)
	}

	return start.Format(models.DateLayout), end.Format(models.DateLayout), nil
}
