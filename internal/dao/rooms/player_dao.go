package rooms

import (
	"errors"
	"fmt"

	"stockgame/internal/game"
	"stockgame/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerDAO handles database operations for players
type PlayerDAO struct {
	db *gorm.DB
}

// PlayerDAOInterface defines the contract for player data access
type PlayerDAOInterface interface {
	CreatePlayer(player *models.Player) error
	GetPlayerByID(id uuid.UUID) (*models.Player, error)
	GetPlayerForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Player, error)
	GetPlayersByRoom(roomID uuid.UUID) ([]models.Player, error)
	NameTaken(roomID uuid.UUID, name string) (bool, error)
	SavePlayer(tx *gorm.DB, player *models.Player) error
}

// NewPlayerDAO creates a new player DAO instance
func NewPlayerDAO(db *gorm.DB) PlayerDAOInterface {
	return &PlayerDAO{
		db: db,
	}
}

// CreatePlayer inserts a new player.
func (d *PlayerDAO) CreatePlayer(player *models.Player) error {
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	if err := d.db.Create(player).Error; err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// GetPlayerByID fetches a player by primary key.
func (d *PlayerDAO) GetPlayerByID(id uuid.UUID) (*models.Player, error) {
	var player models.Player
	if err := d.db.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.NotFoundf("player %s not found", id)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

// GetPlayerForUpdate fetches a player inside tx with a row lock so
// concurrent state updates for the same player serialize.
func (d *PlayerDAO) GetPlayerForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Player, error) {
	var player models.Player
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&player, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.NotFoundf("player %s not found", id)
		}
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	return &player, nil
}

// GetPlayersByRoom returns a room's players in join order.
func (d *PlayerDAO) GetPlayersByRoom(roomID uuid.UUID) ([]models.Player, error) {
	var players []models.Player
	err := d.db.Where("room_id = ?", roomID).Order("joined_at ASC").Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get players for room %s: %w", roomID, err)
	}
	return players, nil
}

// NameTaken reports whether a player name is already used in the room.
func (d *PlayerDAO) NameTaken(roomID uuid.UUID, name string) (bool, error) {
	var count int64
	err := d.db.Model(&models.Player{}).
		Where("room_id = ? AND player_name = ?", roomID, name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check player name: %w", err)
	}
	return count > 0, nil
}

// SavePlayer persists all player fields. Pass a transaction to make the
// write part of a larger atomic step, or nil to use the DAO's handle.
func (d *PlayerDAO) SavePlayer(tx *gorm.DB, player *models.Player) error {
	db := tx
	if db == nil {
		db = d.db
	}
	if err := db.Save(player).Error; err != nil {
		return fmt.Errorf("failed to save player %s: %w", player.PlayerName, err)
	}
	return nil
}
