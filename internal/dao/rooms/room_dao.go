package rooms

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"stockgame/internal/game"
	"stockgame/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomDAO handles database operations for game rooms
type RoomDAO struct {
	db *gorm.DB
}

// RoomDAOInterface defines the contract for room data access
type RoomDAOInterface interface {
	CreateRoom(room *models.Room) error
	GetRoomByCode(code string) (*models.Room, error)
	GetRoomByID(id uuid.UUID) (*models.Room, error)
	GetRoomForUpdate(tx *gorm.DB, code string, nowait bool) (*models.Room, error)
	SaveRoom(tx *gorm.DB, room *models.Room) error
	ListRooms(status models.RoomStatus, limit int) ([]models.Room, error)
	ListAutoAdvanceCandidates() ([]models.Room, error)
	ResetPlayersReady(tx *gorm.DB, roomID uuid.UUID, lastSyncDay int) error
	FinishPlayers(tx *gorm.DB, roomID uuid.UUID, now time.Time) error
	DeleteRoom(roomID uuid.UUID) error
}

// NewRoomDAO creates a new room DAO instance
func NewRoomDAO(db *gorm.DB) RoomDAOInterface {
	return &RoomDAO{
		db: db,
	}
}

// CreateRoom inserts a new room. A duplicate room code surfaces as a
// unique-index violation; callers regenerate and retry.
func (d *RoomDAO) CreateRoom(room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if err := d.db.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	log.Printf("Created room %s (mode=%s, days=%d)", room.RoomCode, room.GameMode, room.Config.NumDays)
	return nil
}

// GetRoomByCode fetches a room with its players.
func (d *RoomDAO) GetRoomByCode(code string) (*models.Room, error) {
	var room models.Room
	err := d.db.Preload("Players", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at ASC")
	}).Where("room_code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.NotFoundf("room with code %s not found", code)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// GetRoomByID fetches a room without its players.
func (d *RoomDAO) GetRoomByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := d.db.Where("id = ?", id).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.NotFoundf("room %s not found", id)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// GetRoomForUpdate fetches a room inside tx holding a row lock, the
// serialization point for all room mutation. With nowait the lock is
// not waited for; a held lock fails immediately so best-effort callers
// (the scheduler) can skip and retry next tick.
func (d *RoomDAO) GetRoomForUpdate(tx *gorm.DB, code string, nowait bool) (*models.Room, error) {
	locking := clause.Locking{Strength: "UPDATE"}
	if nowait {
		locking.Options = "NOWAIT"
	}

	var room models.Room
	err := tx.Clauses(locking).Where("room_code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.NotFoundf("room with code %s not found", code)
		}
		return nil, fmt.Errorf("failed to lock room %s: %w", code, err)
	}
	return &room, nil
}

// IsLockUnavailable reports whether err is a NOWAIT lock failure,
// meaning another transaction holds the room lock right now.
func IsLockUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "55P03") || strings.Contains(msg, "could not obtain lock")
}

// SaveRoom persists all room fields inside tx.
func (d *RoomDAO) SaveRoom(tx *gorm.DB, room *models.Room) error {
	if err := tx.Omit("Players").Save(room).Error; err != nil {
		return fmt.Errorf("failed to save room %s: %w", room.RoomCode, err)
	}
	return nil
}

// ListRooms returns rooms newest first, optionally filtered by status.
func (d *RoomDAO) ListRooms(status models.RoomStatus, limit int) ([]models.Room, error) {
	query := d.db.Preload("Players").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rooms []models.Room
	if err := query.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// ListAutoAdvanceCandidates returns in-progress sync_auto rooms with an
// advance interval and a running day timer.
func (d *RoomDAO) ListAutoAdvanceCandidates() ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.Where(
		"status = ? AND game_mode = ? AND day_duration_seconds IS NOT NULL AND day_started_at IS NOT NULL",
		models.RoomStatusInProgress, models.GameModeSyncAuto,
	).Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-advance candidates: %w", err)
	}
	return rooms, nil
}

// ResetPlayersReady clears every player's ready flag and records the
// day they are synced to, as part of an advance transaction.
func (d *RoomDAO) ResetPlayersReady(tx *gorm.DB, roomID uuid.UUID, lastSyncDay int) error {
	err := tx.Model(&models.Player{}).
		Where("room_id = ?", roomID).
		Updates(map[string]interface{}{
			"is_ready":      false,
			"last_sync_day": lastSyncDay,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to reset player ready state: %w", err)
	}
	return nil
}

// FinishPlayers marks every not-yet-finished player in the room as
// finished. Called only when the room itself reaches the terminal day.
func (d *RoomDAO) FinishPlayers(tx *gorm.DB, roomID uuid.UUID, now time.Time) error {
	err := tx.Model(&models.Player{}).
		Where("room_id = ? AND is_finished = ?", roomID, false).
		Updates(map[string]interface{}{
			"is_finished": true,
			"finished_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to finish players: %w", err)
	}
	return nil
}

// DeleteRoom deletes a room and all its players.
func (d *RoomDAO) DeleteRoom(roomID uuid.UUID) error {
	tx := d.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("room_id = ?", roomID).Delete(&models.Player{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete players: %w", err)
	}

	if err := tx.Delete(&models.Room{}, roomID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Deleted room %s and all its players", roomID)
	return nil
}
