package services

import (
	"log"
	"strings"
	"time"

	"stockgame/internal/dao/rooms"
	"stockgame/internal/game"
	"stockgame/internal/models"
	"stockgame/internal/types"

	"gorm.io/gorm"
)

// AdvanceCoordinator is the single entry point for room lifecycle
// transitions. Every mutation runs inside a transaction holding a row
// lock on the room, so concurrent advance requests for the same room
// serialize and at most one of them moves the day forward.
type AdvanceCoordinator struct {
	db          *gorm.DB
	roomDAO     rooms.RoomDAOInterface
	playerDAO   rooms.PlayerDAOInterface
	broadcaster RoomBroadcaster
}

// NewAdvanceCoordinator creates a new advance coordinator. The
// broadcaster may be nil, in which case state changes are not pushed.
func NewAdvanceCoordinator(db *gorm.DB, roomDAO rooms.RoomDAOInterface, playerDAO rooms.PlayerDAOInterface, broadcaster RoomBroadcaster) *AdvanceCoordinator {
	return &AdvanceCoordinator{
		db:          db,
		roomDAO:     roomDAO,
		playerDAO:   playerDAO,
		broadcaster: broadcaster,
	}
}

// StartGame moves a waiting room into progress on day 0.
func (ac *AdvanceCoordinator) StartGame(roomCode string) (*models.Room, error) {
	roomCode = strings.ToUpper(roomCode)
	var room *models.Room
	err := ac.db.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = ac.roomDAO.GetRoomForUpdate(tx, roomCode, false)
		if err != nil {
			return err
		}
		if err := game.StartRoom(room, time.Now().UTC()); err != nil {
			return err
		}
		return ac.roomDAO.SaveRoom(tx, room)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Room %s started on %s", roomCode, room.StartDate)
	ac.publishState(room)
	return room, nil
}

// AdvanceDay moves the room to the next trading day, resets every
// player's ready flag and, when the final day is reached, finishes the
// room and its unfinished players. Advancing a finished room is a
// no-op. An optional positive dayTimeLimit replaces the room's manual
// timer for the new day.
func (ac *AdvanceCoordinator) AdvanceDay(roomCode string, dayTimeLimit *int) (*models.Room, error) {
	roomCode = strings.ToUpper(roomCode)
	var room *models.Room
	var result game.AdvanceResult
	err := ac.db.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = ac.roomDAO.GetRoomForUpdate(tx, roomCode, false)
		if err != nil {
			return err
		}
		result, err = ac.advanceLocked(tx, room, dayTimeLimit)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !result.NoOp {
		ac.publishState(room)
	}
	return room, nil
}

// AutoAdvance is the scheduler entry point. It takes the room lock
// with NOWAIT so a room already being advanced by hand is skipped, and
// re-checks the timer on the locked row so an advance that raced in
// just before us does not trigger a second one. Returns whether the
// day actually moved.
func (ac *AdvanceCoordinator) AutoAdvance(roomCode string) (bool, error) {
	roomCode = strings.ToUpper(roomCode)
	var room *models.Room
	advanced := false
	err := ac.db.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = ac.roomDAO.GetRoomForUpdate(tx, roomCode, true)
		if err != nil {
			if rooms.IsLockUnavailable(err) {
				room = nil
				return nil
			}
			return err
		}
		if !game.AutoAdvanceDue(room, time.Now().UTC()) {
			return nil
		}
		result, err := ac.advanceLocked(tx, room, nil)
		if err != nil {
			return err
		}
		advanced = !result.NoOp
		return nil
	})
	if err != nil {
		return false, err
	}

	if advanced {
		ac.publishState(room)
	}
	return advanced, nil
}

// EndGame finishes a room early, before its configured final day.
func (ac *AdvanceCoordinator) EndGame(roomCode string) (*models.Room, error) {
	roomCode = strings.ToUpper(roomCode)
	var room *models.Room
	err := ac.db.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = ac.roomDAO.GetRoomForUpdate(tx, roomCode, false)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := game.EndRoom(room, now); err != nil {
			return err
		}
		if err := ac.roomDAO.SaveRoom(tx, room); err != nil {
			return err
		}
		return ac.roomDAO.FinishPlayers(tx, room.ID, now)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Room %s ended on day %d", roomCode, room.CurrentDay)
	ac.publishState(room)
	return room, nil
}

// SetTimer updates the per-day time limit of a sync room.
func (ac *AdvanceCoordinator) SetTimer(roomCode string, seconds int) (*models.Room, error) {
	roomCode = strings.ToUpper(roomCode)
	var room *models.Room
	err := ac.db.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = ac.roomDAO.GetRoomForUpdate(tx, roomCode, false)
		if err != nil {
			return err
		}
		if err := game.SetTimer(room, seconds, time.Now().UTC()); err != nil {
			return err
		}
		return ac.roomDAO.SaveRoom(tx, room)
	})
	if err != nil {
		return nil, err
	}

	ac.publishState(room)
	return room, nil
}

func (ac *AdvanceCoordinator) advanceLocked(tx *gorm.DB, room *models.Room, dayTimeLimit *int) (game.AdvanceResult, error) {
	now := time.Now().UTC()
	result, err := game.AdvanceRoom(room, now)
	if err != nil {
		return result, err
	}
	if result.NoOp {
		return result, nil
	}

	if dayTimeLimit != nil && *dayTimeLimit > 0 {
		room.DayTimeLimit = dayTimeLimit
	}

	if err := ac.roomDAO.SaveRoom(tx, room); err != nil {
		return result, err
	}
	if err := ac.roomDAO.ResetPlayersReady(tx, room.ID, room.CurrentDay); err != nil {
		return result, err
	}
	if result.Finished {
		if err := ac.roomDAO.FinishPlayers(tx, room.ID, now); err != nil {
			return result, err
		}
		log.Printf("Room %s finished after day %d", room.RoomCode, room.CurrentDay)
	} else {
		log.Printf("Room %s advanced to day %d (%s)", room.RoomCode, room.CurrentDay, dateOrEmpty(room.CurrentDate))
	}
	return result, nil
}

// publishState pushes the refreshed room state and leaderboard to the
// room channel after the transaction has committed.
func (ac *AdvanceCoordinator) publishState(room *models.Room) {
	if ac.broadcaster == nil {
		return
	}
	players, err := ac.playerDAO.GetPlayersByRoom(room.ID)
	if err != nil {
		log.Printf("Failed to load players for broadcast in room %s: %v", room.RoomCode, err)
		return
	}
	ac.broadcaster.BroadcastToRoom(room.RoomCode, types.MessageTypeRoomState, buildRoomState(room, players, time.Now().UTC()))
	ac.broadcaster.BroadcastToRoom(room.RoomCode, types.MessageTypeLeaderboardUpdate, game.Leaderboard(players))
}

func dateOrEmpty(date *string) string {
	if date == nil {
		return ""
	}
	return *date
}
