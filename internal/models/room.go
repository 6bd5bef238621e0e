package models

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RoomStatus string
type GameMode string

const (
	RoomStatusWaiting    RoomStatus = "waiting"
	RoomStatusInProgress RoomStatus = "in_progress"
	RoomStatusFinished   RoomStatus = "finished"

	GameModeAsync    GameMode = "async"
	GameModeSync     GameMode = "sync"
	GameModeSyncAuto GameMode = "sync_auto"
)

// DateLayout is the wire and storage format for game dates.
const DateLayout = "2006-01-02"

// GameConfig holds per-room game settings, stored as a JSON column.
type GameConfig struct {
	InitialCash float64  `json:"initialCash"`
	NumDays     int      `json:"numDays"`
	Tickers     []string `json:"tickers"`
	Difficulty  string   `json:"difficulty"`
}

// Scan implements the Scanner interface for GORM
func (gc *GameConfig) Scan(value interface{}) error {
	if value == nil {
		*gc = GameConfig{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into GameConfig", value)
	}

	if len(bytes) == 0 {
		*gc = GameConfig{}
		return nil
	}

	return json.Unmarshal(bytes, gc)
}

// Value implements the Valuer interface for GORM
func (gc GameConfig) Value() (driver.Value, error) {
	return json.Marshal(gc)
}

// Room is a shared game session. All players in a room play the same
// date range and tickers and compete on one leaderboard.
type Room struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RoomCode  string    `json:"room_code" gorm:"size:6;not null;uniqueIndex"`
	CreatedBy string    `json:"created_by" gorm:"size:100;not null"`
	RoomName  string    `json:"room_name" gorm:"size:200"`

	Config GameConfig `json:"config" gorm:"type:json;not null"`

	// Calendar bounds, ISO dates (YYYY-MM-DD). All players use the same range.
	StartDate   string  `json:"start_date" gorm:"size:10;not null"`
	EndDate     string  `json:"end_date" gorm:"size:10;not null"`
	CurrentDate *string `json:"current_date" gorm:"size:10"`

	Status   RoomStatus `json:"status" gorm:"size:20;not null;default:waiting;index"`
	GameMode GameMode   `json:"game_mode" gorm:"size:20;not null;default:async"`

	// CurrentDay is the trading-day ordinal since StartDate (0-indexed).
	CurrentDay         int        `json:"current_day" gorm:"not null;default:0"`
	DayTimeLimit       *int       `json:"day_time_limit,omitempty"`
	DayDurationSeconds *int       `json:"day_duration_seconds,omitempty"`
	DayStartedAt       *time.Time `json:"day_started_at,omitempty"`

	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	GameStartedAt *time.Time `json:"game_started_at,omitempty"`
	GameEndedAt   *time.Time `json:"game_ended_at,omitempty"`

	// Relationships
	Players []Player `json:"players,omitempty" gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Room) TableName() string {
	return "game_rooms"
}

// StartDateTime parses the room's start date.
func (r *Room) StartDateTime() (time.Time, error) {
	return time.Parse(DateLayout, r.StartDate)
}

// CurrentDateTime parses the room's current date, falling back to the
// start date when the game has not started yet.
func (r *Room) CurrentDateTime() (time.Time, error) {
	if r.CurrentDate == nil {
		return r.StartDateTime()
	}
	return time.Parse(DateLayout, *r.CurrentDate)
}

const roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRoomCode returns a random 6-character room code (e.g. ABC123).
// Uniqueness is enforced by the room_code unique index; callers retry on
// the rare collision.
func GenerateRoomCode() string {
	bytes := make([]byte, 6)
	rand.Read(bytes)
	for i, b := range bytes {
		bytes[i] = roomCodeCharset[int(b)%len(roomCodeCharset)]
	}
	return string(bytes)
}
